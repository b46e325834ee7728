package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/thinkmate/thinkmate/core/interest"
	"github.com/thinkmate/thinkmate/core/student"
	"github.com/thinkmate/thinkmate/storage/database"
)

type studentRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Color     string    `db:"color"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
	User      userRow   `db:"u"`
}

func (r studentRow) student(interests []interest.Interest) student.Student {
	if interests == nil {
		interests = make([]interest.Interest, 0)
	}
	return student.Student{
		ID:        r.ID,
		UserID:    r.UserID,
		Color:     r.Color,
		User:      r.User.user(),
		Interests: interests,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

const studentSelect = `
	SELECT s.id, s.user_id, s.color, s.created_at, s.updated_at,
		u.id AS "u.id", u.name AS "u.name", u.email AS "u.email", u.is_active AS "u.is_active",
		u.roles AS "u.roles", u.password_hash AS "u.password_hash", u.created_at AS "u.created_at",
		u.updated_at AS "u.updated_at", u.last_login AS "u.last_login"
	FROM students s
	JOIN users u ON u.id = s.user_id`

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

// trapNoRowsErr maps "no rows" err to student.ErrNotFound
func (repo studentRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return student.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo studentRepository) CreateStudent(ctx context.Context, st student.Student) (student.Student, error) {
	err := database.Transact(ctx, repo.db, func(tx *sqlx.Tx) error {
		if err := insertUser(ctx, tx, st.User); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO students (id, user_id, color, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
			st.ID, st.User.ID, st.Color, st.CreatedAt.UTC(), st.UpdatedAt.UTC(),
		)
		return errors.Wrap(err, "inserting student")
	})
	if err != nil {
		return student.Student{}, err
	}
	return repo.GetStudentByID(ctx, st.ID)
}

func (repo studentRepository) QueryStudents(ctx context.Context) ([]student.Student, error) {
	rows := make([]studentRow, 0)
	if err := repo.db.SelectContext(ctx, &rows, studentSelect+` ORDER BY s.created_at, s.id`); err != nil {
		return nil, errors.Wrap(err, "selecting students")
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	byStudent, err := interestsByStudent(ctx, repo.db, ids)
	if err != nil {
		return nil, err
	}

	sts := make([]student.Student, 0, len(rows))
	for _, r := range rows {
		sts = append(sts, r.student(byStudent[r.ID]))
	}
	return sts, nil
}

func (repo studentRepository) get(ctx context.Context, where string, arg interface{}) (student.Student, error) {
	var row studentRow
	if err := repo.db.GetContext(ctx, &row, studentSelect+` WHERE `+where, arg); err != nil {
		return student.Student{}, repo.trapNoRowsErr(err, "selecting student")
	}
	byStudent, err := interestsByStudent(ctx, repo.db, []string{row.ID})
	if err != nil {
		return student.Student{}, err
	}
	return row.student(byStudent[row.ID]), nil
}

func (repo studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	if !isUUID(id) {
		return student.Student{}, student.ErrNotFound
	}
	return repo.get(ctx, "s.id = $1", id)
}

func (repo studentRepository) GetStudentByUserID(ctx context.Context, userID string) (student.Student, error) {
	if !isUUID(userID) {
		return student.Student{}, student.ErrNotFound
	}
	return repo.get(ctx, "s.user_id = $1", userID)
}

func (repo studentRepository) GetStudentByEmail(ctx context.Context, email string) (student.Student, error) {
	return repo.get(ctx, "u.email = $1", email)
}
