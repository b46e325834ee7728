package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// RequestRecorder counts served requests, see services/metrics.
type RequestRecorder interface {
	RequestServed(method, route string, status int)
}

func teacherMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsTeacher || claims.IsAdmin {
				return next(ctx)
			}
			return errHTTPForbidden
		}
	}
}

// metricsMiddleware records the route and final status of every request, errors included.
func metricsMiddleware(rec RequestRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			err := next(ctx)

			status := ctx.Response().Status
			if err != nil {
				status = errorStatus(err)
			}
			rec.RequestServed(ctx.Request().Method, ctx.Path(), status)
			return err
		}
	}
}
