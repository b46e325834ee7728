package survey

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/thinkmate/thinkmate/core"
)

// Feedback outcomes reported to metrics
const (
	OutcomeOK             = "ok"
	OutcomeUnparsed       = "unparsed"
	OutcomeProviderError  = "provider_error"
	OutcomeNotConfigured  = "not_configured"
	OutcomeInvalidRequest = "invalid_request"
)

var (
	// errors
	ErrNotFound        = errors.New("survey response not found")
	ErrConsentRequired = errors.New("User consent required")
	ErrInvalidAnswers  = errors.New("Invalid answers")
	ErrNotConfigured   = errors.New("OpenAI API key not configured")

	// NowFunc is mocked in tests.
	NowFunc = func() time.Time { return time.Now().UTC() }
)

type (
	// Generator turns a prompt into a model reply.
	Generator interface {
		Generate(ctx context.Context, system, user string) (string, error)
	}

	Response struct {
		ID           string    `json:"id"`
		StudentID    string    `json:"studentId"`
		Answers      Answers   `json:"answers"`
		EmpathyScore float64   `json:"empathyScore"`
		CreatedAt    time.Time `json:"createdAt"` // UTC
	}

	NewResponse struct {
		StudentID string  `json:"studentId" validate:"required"`
		Answers   Answers `json:"answers" validate:"required"`
	}

	Repository interface {
		CreateResponse(ctx context.Context, resp Response) (Response, error)
		// QueryResponsesByStudent returns a student's responses, latest first.
		QueryResponsesByStudent(ctx context.Context, studentID string) ([]Response, error)
	}

	Service struct {
		repo      Repository
		generator Generator
		metrics   core.MetricsRecorder
	}
)

func (nr *NewResponse) Validate(validate *validator.Validate) error {
	nr.StudentID = core.CleanString(nr.StudentID)
	if err := validate.Struct(nr); err != nil {
		return err
	}
	return ValidateAnswers(nr.Answers)
}

// NewService returns the survey service. generator may be nil when no model is configured.
func NewService(repo Repository, generator Generator, metrics core.MetricsRecorder) *Service {
	if metrics == nil {
		metrics = core.NopMetrics{}
	}
	return &Service{repo: repo, generator: generator, metrics: metrics}
}

func (svc *Service) Questions() []Question {
	return Questions
}

// Submit scores and stores validated answers.
func (svc *Service) Submit(ctx context.Context, nr NewResponse) (Response, error) {
	resp := Response{
		ID:           uuid.New().String(),
		StudentID:    nr.StudentID,
		Answers:      Format(nr.Answers),
		EmpathyScore: EmpathyScore(nr.Answers),
		CreatedAt:    NowFunc(),
	}
	resp, err := svc.repo.CreateResponse(ctx, resp)
	return resp, errors.Wrap(err, "creating survey response")
}

func (svc *Service) QueryByStudent(ctx context.Context, studentID string) ([]Response, error) {
	resps, err := svc.repo.QueryResponsesByStudent(ctx, studentID)
	return resps, errors.Wrap(err, "querying survey responses")
}

// GenerateFeedback asks the model for a summary and suggestions. Consent is mandatory.
func (svc *Service) GenerateFeedback(ctx context.Context, req FeedbackRequest) (Feedback, error) {
	if !req.Consent {
		svc.metrics.FeedbackRequested(OutcomeInvalidRequest)
		return Feedback{}, core.NewValidationError(ErrConsentRequired)
	}
	if req.Answers == nil {
		svc.metrics.FeedbackRequested(OutcomeInvalidRequest)
		return Feedback{}, core.NewValidationError(ErrInvalidAnswers)
	}
	if svc.generator == nil {
		svc.metrics.FeedbackRequested(OutcomeNotConfigured)
		return Feedback{}, ErrNotConfigured
	}

	system, user := BuildFeedbackPrompt(req.Answers, req.PromptOverride)
	reply, err := svc.generator.Generate(ctx, system, user)
	if err != nil {
		svc.metrics.FeedbackRequested(OutcomeProviderError)
		return Feedback{}, errors.Wrap(err, "generating feedback")
	}

	fb := Feedback{Reply: reply, Structured: ParseStructured(reply)}
	if fb.Structured == nil {
		svc.metrics.FeedbackRequested(OutcomeUnparsed)
	} else {
		svc.metrics.FeedbackRequested(OutcomeOK)
	}
	return fb, nil
}
