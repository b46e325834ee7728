package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/thinkmate/thinkmate/core/student"
)

type studentAPI struct {
	deps ServerDeps
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := studentAPI{deps: deps}

	sg := g.Group("/students")

	// un-authed endpoints
	sg.POST("/register", api.register)
	sg.POST("/login", api.login)

	// authed endpoints
	ag := sg.Group("", jwt)
	ag.GET("", api.query)
	ag.GET("/:id", api.retrieve)
	ag.GET("/:id/groups", api.groups)
	ag.GET("/:id/responses", api.responses)
}

type StudentResponse struct {
	Student student.Student `json:"student"`
	Token   string          `json:"token"`
	Created bool            `json:"created"`
}

func (api *studentAPI) respond(ctx echo.Context, code int, st student.Student, created bool) error {
	token, err := GenerateToken(api.deps.Conf, GetUserClaims(api.deps.Conf, st.User, st.ID))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(code, StudentResponse{Student: st, Token: token, Created: created})
}

func (api *studentAPI) register(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.deps.Validate, api.deps.UserSvc); err != nil {
		return err
	}

	st, err := api.deps.StudentSvc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering student")
	}
	return api.respond(ctx, http.StatusCreated, st, true)
}

// login signs a student in by email, registering them when a name is given for an unknown email.
func (api *studentAPI) login(ctx echo.Context) error {
	var data student.LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	st, created, err := api.deps.StudentSvc.Login(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "logging student in")
	}
	if !st.User.IsActive {
		return errAccountDeactivated
	}
	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	return api.respond(ctx, code, st, created)
}

func (api *studentAPI) query(ctx echo.Context) error {
	sts, err := api.deps.StudentSvc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, sts)
}

func (api *studentAPI) retrieve(ctx echo.Context) error {
	st, err := api.deps.StudentSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding student by ID")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *studentAPI) groups(ctx echo.Context) error {
	id, err := studentIDFor(ctx, ctx.Param("id"))
	if err != nil {
		return err
	}
	grps, err := api.deps.GroupSvc.QueryByStudent(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying student groups")
	}
	return ctx.JSON(http.StatusOK, grps)
}

func (api *studentAPI) responses(ctx echo.Context) error {
	id, err := studentIDFor(ctx, ctx.Param("id"))
	if err != nil {
		return err
	}
	resps, err := api.deps.SurveySvc.QueryByStudent(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying survey responses")
	}
	return ctx.JSON(http.StatusOK, resps)
}
