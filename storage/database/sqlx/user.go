package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/thinkmate/thinkmate/core/user"
	"github.com/thinkmate/thinkmate/storage/database"
)

const userColumns = `u.id, u.name, u.email, u.is_active, u.roles, u.password_hash, u.created_at, u.updated_at, u.last_login`

type userRow struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Email        string         `db:"email"`
	IsActive     bool           `db:"is_active"`
	Roles        pq.StringArray `db:"roles"`
	PasswordHash null.Bytes     `db:"password_hash"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	LastLogin    null.Time      `db:"last_login"`
}

func newUserRow(usr user.User) userRow {
	return userRow{
		ID:           usr.ID,
		Name:         usr.Name,
		Email:        usr.Email,
		IsActive:     usr.IsActive,
		Roles:        pq.StringArray(usr.Roles),
		PasswordHash: null.NewBytes(usr.PasswordHash, len(usr.PasswordHash) > 0),
		CreatedAt:    usr.CreatedAt.UTC(),
		UpdatedAt:    usr.UpdatedAt.UTC(),
		LastLogin:    null.NewTime(usr.LastLogin.UTC(), !usr.LastLogin.IsZero()),
	}
}

func (r userRow) user() user.User {
	return user.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		IsActive:     r.IsActive,
		Roles:        nonNilStrings(r.Roles),
		PasswordHash: r.PasswordHash.Bytes,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
		LastLogin:    r.LastLogin.Time.UTC(),
	}
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

// trapNoRowsErr maps "no rows" err to user.ErrNotFound
func (repo userRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...user.User) error {
	ids := make([]string, 0, len(excludedUsers))
	for _, u := range excludedUsers {
		ids = append(ids, u.ID)
	}
	var found bool
	err := repo.db.GetContext(ctx, &found,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND NOT (id::text = ANY($2)))`,
		email, pq.Array(ids),
	)
	if err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if found {
		return user.ErrEmailExists
	}
	return nil
}

func insertUser(ctx context.Context, exec sqlx.ExtContext, usr user.User) error {
	_, err := sqlx.NamedExecContext(ctx, exec, `
		INSERT INTO users (id, name, email, is_active, roles, password_hash, created_at, updated_at, last_login)
		VALUES (:id, :name, :email, :is_active, :roles, :password_hash, :created_at, :updated_at, :last_login)`,
		newUserRow(usr),
	)
	if database.IsUniqueViolation(err) {
		return user.ErrEmailExists
	}
	return errors.Wrap(err, "inserting user")
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	if err := insertUser(ctx, repo.db, usr); err != nil {
		return user.User{}, err
	}
	return repo.GetUserByID(ctx, usr.ID)
}

func (repo userRepository) get(ctx context.Context, where string, arg interface{}) (user.User, error) {
	var row userRow
	if err := repo.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users u WHERE `+where, arg); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "selecting user")
	}
	return row.user(), nil
}

func (repo userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	if !isUUID(id) {
		return user.User{}, user.ErrNotFound
	}
	return repo.get(ctx, "u.id = $1", id)
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return repo.get(ctx, "u.email = $1", email)
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE users SET name = :name, email = :email, is_active = :is_active, roles = :roles,
			password_hash = :password_hash, updated_at = :updated_at, last_login = :last_login
		WHERE id = :id`,
		newUserRow(usr),
	)
	if database.IsUniqueViolation(err) {
		return user.User{}, user.ErrEmailExists
	}
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.GetUserByID(ctx, usr.ID)
}
