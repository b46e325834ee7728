package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/thinkmate/thinkmate/core"
	"github.com/thinkmate/thinkmate/core/country"
	"github.com/thinkmate/thinkmate/core/group"
	"github.com/thinkmate/thinkmate/core/interest"
	"github.com/thinkmate/thinkmate/core/student"
	"github.com/thinkmate/thinkmate/core/survey"
	"github.com/thinkmate/thinkmate/core/user"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "authentication failed")
	errAccountDeactivated   = echo.NewHTTPError(http.StatusForbidden, "account deactivated")
	errRefreshExpired       = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errHTTPForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHTTPNotFound         = echo.NewHTTPError(http.StatusNotFound, "not found")
	errProvider             = echo.NewHTTPError(http.StatusBadGateway, "Model provider error")
)

// notFoundErrs are the domain sentinels answered with a 404.
var notFoundErrs = map[error]bool{
	user.ErrNotFound:     true,
	student.ErrNotFound:  true,
	interest.ErrNotFound: true,
	group.ErrNotFound:    true,
	survey.ErrNotFound:   true,
}

// domainHTTPError maps the domain errors that are not validation errors to their HTTP counterpart.
func domainHTTPError(err error) *echo.HTTPError {
	cause := errors.Cause(err)
	switch {
	case notFoundErrs[cause]:
		return echo.NewHTTPError(http.StatusNotFound, cause.Error())
	case cause == core.ErrForbidden:
		return errHTTPForbidden
	case cause == group.ErrInvalidInviteCode:
		return echo.NewHTTPError(http.StatusForbidden, cause.Error())
	case cause == user.ErrInvalidCredentials:
		return errAuthenticationFailed
	case cause == user.ErrInactive:
		return errAccountDeactivated
	case cause == survey.ErrNotConfigured:
		return echo.NewHTTPError(http.StatusInternalServerError, cause.Error())
	case cause == country.ErrCountryRequired:
		return echo.NewHTTPError(http.StatusBadRequest, cause.Error())
	case core.IsProviderError(err):
		return errProvider
	}
	return nil
}

// errorStatus is the status code the error handler will answer err with.
func errorStatus(err error) int {
	if herr := domainHTTPError(err); herr != nil {
		return herr.Code
	}
	switch origErr := errors.Cause(err).(type) {
	case *echo.HTTPError:
		if origErr == middleware.ErrJWTMissing {
			return http.StatusUnauthorized
		}
		return origErr.Code
	case validator.ValidationErrors, *core.ValidationError:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var (
			code    int
			message interface{}
		)

		if herr := domainHTTPError(err); herr != nil {
			if herr.Code >= http.StatusInternalServerError {
				logger.Error(herr.Message.(string), err)
			}
			err = herr
		}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = origErr.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if len(origErr.Fields) > 0 {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default: // any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			var usr user.User
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				usr.ID = claims.Subject
				usr.Name = claims.Name
				usr.Email = claims.Email
			}
			logger.Error(msg, errors.Wrap(err, msg), usr)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
