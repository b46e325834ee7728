package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/thinkmate/thinkmate/core/student"
	"github.com/thinkmate/thinkmate/core/user"
)

type userAPI struct {
	deps ServerDeps
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := userAPI{deps: deps}

	ug := g.Group("/users")
	ug.POST("/login", api.login)
	ug.POST("/token-refresh", api.refreshToken, jwt)
	ug.GET("/me", api.me, jwt)
}

type (
	LoginResponse struct {
		Token string `json:"token"`
	}

	MeResponse struct {
		User    user.User        `json:"user"`
		Student *student.Student `json:"student,omitempty"`
	}
)

// login authenticates teachers and admins with their password.
func (api *userAPI) login(ctx echo.Context) error {
	var data user.LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	usr, err := api.deps.UserSvc.Authenticate(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}
	token, err := GenerateToken(api.deps.Conf, GetUserClaims(api.deps.Conf, usr, ""))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *userAPI) refreshToken(ctx echo.Context) error {
	token, err := refreshToken(ctx, api.deps.Conf, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *userAPI) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	resp := MeResponse{User: usr}
	if st, err := api.deps.StudentSvc.GetByUserID(ctx.Request().Context(), usr.ID); err == nil {
		resp.Student = &st
	} else if errors.Cause(err) != student.ErrNotFound {
		return errors.Wrap(err, "finding student by user ID")
	}
	return ctx.JSON(http.StatusOK, resp)
}
