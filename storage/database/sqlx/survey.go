package sqlxrepos

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/thinkmate/thinkmate/core/student"
	"github.com/thinkmate/thinkmate/core/survey"
	"github.com/thinkmate/thinkmate/storage/database"
)

type surveyRow struct {
	ID           string    `db:"id"`
	StudentID    string    `db:"student_id"`
	Answers      null.JSON `db:"answers"`
	EmpathyScore float64   `db:"empathy_score"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r surveyRow) response() (survey.Response, error) {
	resp := survey.Response{
		ID:           r.ID,
		StudentID:    r.StudentID,
		Answers:      survey.Answers{},
		EmpathyScore: r.EmpathyScore,
		CreatedAt:    r.CreatedAt.UTC(),
	}
	if r.Answers.Valid {
		if err := json.Unmarshal(r.Answers.JSON, &resp.Answers); err != nil {
			return survey.Response{}, errors.Wrap(err, "decoding answers")
		}
	}
	return resp, nil
}

type surveyRepository struct {
	db *sqlx.DB
}

var _ survey.Repository = (*surveyRepository)(nil) // interface compliance check

func NewSurveyRepository(db *sqlx.DB) *surveyRepository {
	return &surveyRepository{db: db}
}

func (repo surveyRepository) CreateResponse(ctx context.Context, resp survey.Response) (survey.Response, error) {
	if !isUUID(resp.StudentID) {
		return survey.Response{}, student.ErrNotFound
	}
	answers, err := json.Marshal(resp.Answers)
	if err != nil {
		return survey.Response{}, errors.Wrap(err, "encoding answers")
	}
	_, err = repo.db.ExecContext(ctx, `
		INSERT INTO survey_responses (id, student_id, answers, empathy_score, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		resp.ID, resp.StudentID, null.JSONFrom(answers), resp.EmpathyScore, resp.CreatedAt.UTC(),
	)
	if database.IsForeignKeyViolation(err) {
		return survey.Response{}, student.ErrNotFound
	}
	if err != nil {
		return survey.Response{}, errors.Wrap(err, "inserting survey response")
	}
	return resp, nil
}

func (repo surveyRepository) QueryResponsesByStudent(ctx context.Context, studentID string) ([]survey.Response, error) {
	resps := make([]survey.Response, 0)
	if !isUUID(studentID) {
		return resps, nil
	}
	rows := make([]surveyRow, 0)
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT id, student_id, answers, empathy_score, created_at
		FROM survey_responses WHERE student_id = $1
		ORDER BY created_at DESC, id`,
		studentID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "selecting survey responses")
	}
	for _, r := range rows {
		resp, err := r.response()
		if err != nil {
			return nil, err
		}
		resps = append(resps, resp)
	}
	return resps, nil
}
