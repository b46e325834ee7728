package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/thinkmate/thinkmate/core/interest"
	"github.com/thinkmate/thinkmate/core/layout"
	"github.com/thinkmate/thinkmate/core/student"
)

type interestAPI struct {
	deps ServerDeps
}

func registerInterestAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := interestAPI{deps: deps}

	ig := g.Group("/interests")

	// visualizations are public
	ig.GET("", api.query)
	ig.GET("/groups", api.groups)
	ig.GET("/stats", api.stats)
	ig.GET("/clusters", api.clusters)
	ig.GET("/nodes", api.nodes)

	ig.POST("", api.create, jwt)
}

func (api *interestAPI) bindFilter(ctx echo.Context) (interest.QueryFilter, error) {
	var filter interest.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return filter, errors.Wrap(err, "binding to QueryFilter")
	}
	ordering := new(Ordering)
	if err := ordering.Bind(ctx, interest.OrderableFields); err != nil {
		return filter, err
	}
	filter.Ordering = ordering.Orderings
	return filter, nil
}

func (api *interestAPI) create(ctx echo.Context) error {
	var data interest.NewInterest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewInterest")
	}
	studentID, err := studentIDFor(ctx, data.StudentID)
	if err != nil {
		return err
	}
	data.StudentID = studentID
	if err = data.Validate(api.deps.Validate); err != nil {
		return err
	}

	in, err := api.deps.InterestSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating interest")
	}
	return ctx.JSON(http.StatusCreated, in)
}

func (api *interestAPI) query(ctx echo.Context) error {
	filter, err := api.bindFilter(ctx)
	if err != nil {
		return err
	}
	ins, err := api.deps.InterestSvc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying interests")
	}
	return ctx.JSON(http.StatusOK, ins)
}

func (api *interestAPI) groups(ctx echo.Context) error {
	filter, err := api.bindFilter(ctx)
	if err != nil {
		return err
	}
	groups, err := api.deps.InterestSvc.Groups(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "grouping interests")
	}
	return ctx.JSON(http.StatusOK, groups)
}

func (api *interestAPI) stats(ctx echo.Context) error {
	filter, err := api.bindFilter(ctx)
	if err != nil {
		return err
	}
	stats, err := api.deps.InterestSvc.Stats(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "computing interest stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *interestAPI) clusters(ctx echo.Context) error {
	filter, err := api.bindFilter(ctx)
	if err != nil {
		return err
	}
	sts, err := api.deps.StudentSvc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	clusters, err := api.deps.InterestSvc.Clusters(ctx.Request().Context(), filter, student.People(sts))
	if err != nil {
		return errors.Wrap(err, "computing clusters")
	}
	return ctx.JSON(http.StatusOK, clusters)
}

func (api *interestAPI) nodes(ctx echo.Context) error {
	filter, err := api.bindFilter(ctx)
	if err != nil {
		return err
	}
	opts, err := bindLayoutOptions(ctx, api.deps.Conf.Layout)
	if err != nil {
		return err
	}
	nodes, err := computeNodes(ctx, api.deps, filter, opts)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, nodes)
}

// computeNodes lays out the stats of the interests matching filter.
func computeNodes(ctx echo.Context, deps ServerDeps, filter interest.QueryFilter, opts []layout.Option) ([]layout.Node, error) {
	stats, err := deps.InterestSvc.Stats(ctx.Request().Context(), filter)
	if err != nil {
		return nil, errors.Wrap(err, "computing interest stats")
	}
	nodes := layout.ComputeNodes(stats, opts...)
	deps.Metrics.VisualizationComputed("nodes", len(nodes))
	return nodes, nil
}
