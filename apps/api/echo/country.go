package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type countryAPI struct {
	deps ServerDeps
}

// registerCountryAPI mounts the public country statistics.
func registerCountryAPI(g *echo.Group, deps ServerDeps) {
	api := countryAPI{deps: deps}

	cg := g.Group("/countries")
	cg.GET("", api.rows)
	cg.GET("/summaries", api.summaries)
}

func (api *countryAPI) rows(ctx echo.Context) error {
	rows, err := api.deps.CountrySvc.ByCountry(ctx.Request().Context(), ctx.QueryParam("country"))
	if err != nil {
		return errors.Wrap(err, "querying country rows")
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *countryAPI) summaries(ctx echo.Context) error {
	sums, err := api.deps.CountrySvc.Summaries(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying country summaries")
	}
	return ctx.JSON(http.StatusOK, sums)
}
