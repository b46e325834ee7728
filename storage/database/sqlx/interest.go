package sqlxrepos

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/strmangle"

	"github.com/thinkmate/thinkmate/core/interest"
	"github.com/thinkmate/thinkmate/core/student"
	"github.com/thinkmate/thinkmate/storage/database"
)

type interestRow struct {
	ID           string      `db:"id"`
	StudentID    string      `db:"student_id"`
	Field        null.String `db:"field"`
	Level        int         `db:"level"`
	SocialImpact string      `db:"social_impact"`
	Color        null.String `db:"color"`
	CreatedAt    time.Time   `db:"created_at"`
	StudentName  null.String `db:"student_name"`
	StudentColor null.String `db:"student_color"`
}

func newInterestRow(in interest.Interest) interestRow {
	return interestRow{
		ID:           in.ID,
		StudentID:    in.StudentID,
		Field:        null.StringFromPtr(in.Field),
		Level:        int(in.Level.Float()),
		SocialImpact: in.SocialImpact,
		Color:        null.NewString(in.Color, in.Color != ""),
		CreatedAt:    in.CreatedAt.UTC(),
	}
}

func (r interestRow) interest() interest.Interest {
	return interest.Interest{
		ID:           r.ID,
		StudentID:    r.StudentID,
		Field:        r.Field.Ptr(),
		Level:        interest.Level(r.Level),
		SocialImpact: r.SocialImpact,
		Color:        r.Color.String,
		StudentName:  r.StudentName.String,
		StudentColor: r.StudentColor.String,
		CreatedAt:    r.CreatedAt.UTC(),
	}
}

const interestSelect = `
	SELECT i.id, i.student_id, i.field, i.level, i.social_impact, i.color, i.created_at,
		u.name AS student_name, s.color AS student_color
	FROM interests i
	LEFT JOIN students s ON s.id = i.student_id
	LEFT JOIN users u ON u.id = s.user_id`

type interestRepository struct {
	db *sqlx.DB
}

var _ interest.Repository = (*interestRepository)(nil) // interface compliance check

func NewInterestRepository(db *sqlx.DB) *interestRepository {
	return &interestRepository{db: db}
}

func (repo interestRepository) CreateInterest(ctx context.Context, in interest.Interest) (interest.Interest, error) {
	if !isUUID(in.StudentID) {
		return interest.Interest{}, student.ErrNotFound
	}
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO interests (id, student_id, field, level, social_impact, color, created_at)
		VALUES (:id, :student_id, :field, :level, :social_impact, :color, :created_at)`,
		newInterestRow(in),
	)
	if database.IsForeignKeyViolation(err) {
		return interest.Interest{}, student.ErrNotFound
	}
	if err != nil {
		return interest.Interest{}, errors.Wrap(err, "inserting interest")
	}

	var row interestRow
	if err = repo.db.GetContext(ctx, &row, interestSelect+` WHERE i.id = $1`, in.ID); err != nil {
		return interest.Interest{}, errors.Wrap(err, "selecting interest")
	}
	return row.interest(), nil
}

func (repo interestRepository) QueryInterests(ctx context.Context, filter interest.QueryFilter) ([]interest.Interest, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.StudentIDs != nil {
		ids := make([]string, 0, len(filter.StudentIDs))
		for _, id := range filter.StudentIDs {
			if isUUID(id) {
				ids = append(ids, id)
			}
		}
		args = append(args, pq.Array(ids))
		where = append(where, "i.student_id::text = ANY(?)")
	}
	if filter.Field != "" {
		// same normalization as interest.NormalizeField
		args = append(args, filter.Field)
		where = append(where, "COALESCE(NULLIF(btrim(i.field), ''), 'Unknown') = ?")
	}

	q := interestSelect
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	orderList := make([]string, 0, len(filter.Ordering)+2)
	for _, ord := range filter.Ordering {
		ord.Field = strmangle.IdentQuote('"', '"', "i."+ord.Field)
		orderList = append(orderList, ord.String())
	}
	orderList = append(orderList, "i.created_at", "i.id")
	q += " ORDER BY " + strings.Join(orderList, ", ")

	rows := make([]interestRow, 0)
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "selecting interests")
	}
	ins := make([]interest.Interest, 0, len(rows))
	for _, r := range rows {
		ins = append(ins, r.interest())
	}
	return ins, nil
}

// interestsByStudent loads the interests of the given students, oldest first.
func interestsByStudent(ctx context.Context, db *sqlx.DB, studentIDs []string) (map[string][]interest.Interest, error) {
	byStudent := make(map[string][]interest.Interest, len(studentIDs))
	if len(studentIDs) == 0 {
		return byStudent, nil
	}
	rows := make([]interestRow, 0)
	err := db.SelectContext(ctx, &rows,
		interestSelect+` WHERE i.student_id::text = ANY($1) ORDER BY i.created_at, i.id`, pq.Array(studentIDs),
	)
	if err != nil {
		return nil, errors.Wrap(err, "selecting interests")
	}
	for _, r := range rows {
		byStudent[r.StudentID] = append(byStudent[r.StudentID], r.interest())
	}
	return byStudent, nil
}
