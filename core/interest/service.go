package interest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/thinkmate/thinkmate/core"
)

var (
	// errors
	ErrNotFound = errors.New("interest not found")

	// NowFunc is mocked in tests.
	NowFunc = func() time.Time { return time.Now().UTC() }
)

type (
	Repository interface {
		CreateInterest(ctx context.Context, in Interest) (Interest, error)
		// QueryInterests returns the interests matching the filter, oldest first, joined with their student.
		QueryInterests(ctx context.Context, filter QueryFilter) ([]Interest, error)
	}

	Service struct {
		repo    Repository
		metrics core.MetricsRecorder
	}
)

func NewService(repo Repository, metrics core.MetricsRecorder) *Service {
	if metrics == nil {
		metrics = core.NopMetrics{}
	}
	return &Service{repo: repo, metrics: metrics}
}

func (svc *Service) Create(ctx context.Context, ni NewInterest) (Interest, error) {
	field := ni.Field
	in := Interest{
		ID:           uuid.New().String(),
		StudentID:    ni.StudentID,
		Field:        &field,
		Level:        Level(ni.Level),
		SocialImpact: ni.SocialImpact,
		CreatedAt:    NowFunc(),
	}
	if ni.Color != "" {
		in.Color, _ = core.NormalizeHexColor(ni.Color)
	}
	in, err := svc.repo.CreateInterest(ctx, in)
	if err != nil {
		return Interest{}, errors.Wrap(err, "creating interest")
	}
	svc.metrics.InterestCreated(NormalizeField(in.Field))
	return in, nil
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Interest, error) {
	filter.Clean()
	ins, err := svc.repo.QueryInterests(ctx, filter)
	return ins, errors.Wrap(err, "querying interests")
}

func (svc *Service) Groups(ctx context.Context, filter QueryFilter) ([]Group, error) {
	ins, err := svc.Query(ctx, filter)
	if err != nil {
		return nil, err
	}
	return GroupByField(ins), nil
}

func (svc *Service) Stats(ctx context.Context, filter QueryFilter) ([]Stats, error) {
	groups, err := svc.Groups(ctx, filter)
	if err != nil {
		return nil, err
	}
	svc.metrics.VisualizationComputed("stats", len(groups))
	return ComputeStats(groups), nil
}

func (svc *Service) Clusters(ctx context.Context, filter QueryFilter, students []Person) ([]ClusterSummary, error) {
	groups, err := svc.Groups(ctx, filter)
	if err != nil {
		return nil, err
	}
	svc.metrics.VisualizationComputed("clusters", len(groups))
	return ComputeClusterAnalysis(groups, students), nil
}
