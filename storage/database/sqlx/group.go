package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/thinkmate/thinkmate/core/group"
	"github.com/thinkmate/thinkmate/core/student"
	"github.com/thinkmate/thinkmate/storage/database"
)

type (
	groupRow struct {
		ID          string      `db:"id"`
		Name        string      `db:"name"`
		Description string      `db:"description"`
		InviteCode  null.String `db:"invite_code"`
		TeacherID   null.String `db:"teacher_id"`
		CreatedAt   time.Time   `db:"created_at"`
		UpdatedAt   time.Time   `db:"updated_at"`
	}

	memberRow struct {
		GroupID   string      `db:"group_id"`
		StudentID string      `db:"student_id"`
		Name      null.String `db:"name"`
		Color     null.String `db:"color"`
		Role      string      `db:"role"`
		JoinedAt  time.Time   `db:"joined_at"`
	}
)

func newGroupRow(grp group.Group) groupRow {
	return groupRow{
		ID:          grp.ID,
		Name:        grp.Name,
		Description: grp.Description,
		InviteCode:  null.NewString(grp.InviteCode, grp.InviteCode != ""),
		TeacherID:   null.NewString(grp.TeacherID, grp.TeacherID != ""),
		CreatedAt:   grp.CreatedAt.UTC(),
		UpdatedAt:   grp.UpdatedAt.UTC(),
	}
}

func (r groupRow) group() group.Group {
	return group.Group{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		InviteCode:  r.InviteCode.String,
		TeacherID:   r.TeacherID.String,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

func (r memberRow) member() group.Member {
	return group.Member{
		GroupID:   r.GroupID,
		StudentID: r.StudentID,
		Name:      r.Name.String,
		Color:     r.Color.String,
		Role:      r.Role,
		JoinedAt:  r.JoinedAt.UTC(),
	}
}

const groupColumns = `g.id, g.name, g.description, g.invite_code, g.teacher_id, g.created_at, g.updated_at`

type groupRepository struct {
	db *sqlx.DB
}

var _ group.Repository = (*groupRepository)(nil) // interface compliance check

func NewGroupRepository(db *sqlx.DB) *groupRepository {
	return &groupRepository{db: db}
}

// trapNoRowsErr maps "no rows" err to group.ErrNotFound
func (repo groupRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return group.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo groupRepository) CreateGroup(ctx context.Context, grp group.Group) (group.Group, error) {
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO class_groups (id, name, description, invite_code, teacher_id, created_at, updated_at)
		VALUES (:id, :name, :description, :invite_code, :teacher_id, :created_at, :updated_at)`,
		newGroupRow(grp),
	)
	if database.IsUniqueViolation(err) {
		return group.Group{}, group.ErrInviteCodeExists
	}
	if err != nil {
		return group.Group{}, errors.Wrap(err, "inserting group")
	}
	return repo.GetGroupByID(ctx, grp.ID)
}

func (repo groupRepository) GetGroupByID(ctx context.Context, id string) (group.Group, error) {
	if !isUUID(id) {
		return group.Group{}, group.ErrNotFound
	}
	var row groupRow
	if err := repo.db.GetContext(ctx, &row, `SELECT `+groupColumns+` FROM class_groups g WHERE g.id = $1`, id); err != nil {
		return group.Group{}, repo.trapNoRowsErr(err, "selecting group")
	}
	return row.group(), nil
}

func (repo groupRepository) GetGroupByInviteCode(ctx context.Context, code string) (group.Group, error) {
	var row groupRow
	if err := repo.db.GetContext(ctx, &row, `SELECT `+groupColumns+` FROM class_groups g WHERE g.invite_code = $1`, code); err != nil {
		return group.Group{}, repo.trapNoRowsErr(err, "selecting group")
	}
	return row.group(), nil
}

func (repo groupRepository) AddMember(ctx context.Context, m group.Member) error {
	if !isUUID(m.StudentID) {
		return student.ErrNotFound
	}
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO group_members (group_id, student_id, role, joined_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (group_id, student_id) DO NOTHING`,
		m.GroupID, m.StudentID, m.Role, m.JoinedAt.UTC(),
	)
	if database.IsForeignKeyViolation(err) {
		return student.ErrNotFound
	}
	return errors.Wrap(err, "inserting member")
}

func (repo groupRepository) QueryMembers(ctx context.Context, groupID string) ([]group.Member, error) {
	if !isUUID(groupID) {
		return nil, group.ErrNotFound
	}
	rows := make([]memberRow, 0)
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT m.group_id, m.student_id, u.name, s.color, m.role, m.joined_at
		FROM group_members m
		LEFT JOIN students s ON s.id = m.student_id
		LEFT JOIN users u ON u.id = s.user_id
		WHERE m.group_id = $1
		ORDER BY m.joined_at, m.student_id`,
		groupID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "selecting members")
	}
	members := make([]group.Member, 0, len(rows))
	for _, r := range rows {
		members = append(members, r.member())
	}
	return members, nil
}

func (repo groupRepository) QueryGroupsByStudent(ctx context.Context, studentID string) ([]group.Group, error) {
	grps := make([]group.Group, 0)
	if !isUUID(studentID) {
		return grps, nil
	}
	rows := make([]groupRow, 0)
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT `+groupColumns+`
		FROM class_groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE m.student_id = $1
		ORDER BY g.updated_at DESC, g.id`,
		studentID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "selecting groups")
	}
	for _, r := range rows {
		grps = append(grps, r.group())
	}
	return grps, nil
}
