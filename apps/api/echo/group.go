package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/thinkmate/thinkmate/core/group"
	"github.com/thinkmate/thinkmate/core/interest"
)

type groupAPI struct {
	deps ServerDeps
}

func registerGroupAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := groupAPI{deps: deps}

	gg := g.Group("/groups", jwt)
	gg.POST("", api.create, teacherMiddleware())
	gg.POST("/join", api.join)
	gg.GET("/:id", api.retrieve)
	gg.GET("/:id/members", api.members)
	gg.GET("/:id/nodes", api.nodes)
}

func (api *groupAPI) create(ctx echo.Context) error {
	var data group.NewGroup
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGroup")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	grp, err := api.deps.GroupSvc.Create(ctx.Request().Context(), data, claims.Subject)
	if err != nil {
		return errors.Wrap(err, "creating group")
	}
	return ctx.JSON(http.StatusCreated, grp)
}

// join adds the student to a group found by id or invite code. Students always join as themselves.
func (api *groupAPI) join(ctx echo.Context) error {
	var data group.JoinRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to JoinRequest")
	}
	studentID, err := studentIDFor(ctx, data.StudentID)
	if err != nil {
		return err
	}
	data.StudentID = studentID

	grp, err := api.deps.GroupSvc.Join(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "joining group")
	}
	return ctx.JSON(http.StatusOK, grp)
}

func (api *groupAPI) retrieve(ctx echo.Context) error {
	grp, err := api.deps.GroupSvc.GetWithMembers(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding group")
	}
	return ctx.JSON(http.StatusOK, grp)
}

func (api *groupAPI) members(ctx echo.Context) error {
	members, err := api.deps.GroupSvc.Members(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying members")
	}
	return ctx.JSON(http.StatusOK, members)
}

// nodes lays out the interests of the group's members only.
func (api *groupAPI) nodes(ctx echo.Context) error {
	opts, err := bindLayoutOptions(ctx, api.deps.Conf.Layout)
	if err != nil {
		return err
	}
	grp, err := api.deps.GroupSvc.GetWithMembers(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding group")
	}

	nodes, err := computeNodes(ctx, api.deps, interest.QueryFilter{StudentIDs: grp.StudentIDs()}, opts)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, nodes)
}
