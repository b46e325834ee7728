package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/thinkmate/thinkmate/core/survey"
)

type surveyAPI struct {
	deps ServerDeps
}

func registerSurveyAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := surveyAPI{deps: deps}

	sg := g.Group("/survey")
	sg.GET("/questions", api.questions)
	sg.POST("/responses", api.submit, jwt)
	sg.POST("/feedback", api.feedback, jwt)
}

func (api *surveyAPI) questions(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.deps.SurveySvc.Questions())
}

func (api *surveyAPI) submit(ctx echo.Context) error {
	var data survey.NewResponse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewResponse")
	}
	studentID, err := studentIDFor(ctx, data.StudentID)
	if err != nil {
		return err
	}
	data.StudentID = studentID
	if err = data.Validate(api.deps.Validate); err != nil {
		return err
	}

	resp, err := api.deps.SurveySvc.Submit(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "submitting survey response")
	}
	return ctx.JSON(http.StatusCreated, resp)
}

func (api *surveyAPI) feedback(ctx echo.Context) error {
	var data survey.FeedbackRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to FeedbackRequest")
	}

	fb, err := api.deps.SurveySvc.GenerateFeedback(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "generating feedback")
	}
	return ctx.JSON(http.StatusOK, fb)
}
