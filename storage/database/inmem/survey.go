package inmemdb

import (
	"context"
	"sort"

	"github.com/thinkmate/thinkmate/core/student"
	"github.com/thinkmate/thinkmate/core/survey"
)

type surveyRepository struct {
	db *DB
}

var _ survey.Repository = (*surveyRepository)(nil) // interface compliance check

func NewSurveyRepository(db *DB) *surveyRepository {
	return &surveyRepository{db: db}
}

func (repo *surveyRepository) CreateResponse(_ context.Context, resp survey.Response) (survey.Response, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if repo.db.studentByID(resp.StudentID) == nil {
		return survey.Response{}, student.ErrNotFound
	}
	repo.db.responses = append(repo.db.responses, &resp)
	return resp, nil
}

func (repo *surveyRepository) QueryResponsesByStudent(_ context.Context, studentID string) ([]survey.Response, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	resps := make([]survey.Response, 0)
	for _, r := range repo.db.responses {
		if r.StudentID == studentID {
			resps = append(resps, *r)
		}
	}
	sort.SliceStable(resps, func(i, j int) bool { return resps[i].CreatedAt.After(resps[j].CreatedAt) })
	return resps, nil
}
