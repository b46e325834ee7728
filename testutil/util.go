// Package testutil builds fixtures on top of the in-memory repositories.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/thinkmate/thinkmate/core"
	"github.com/thinkmate/thinkmate/core/interest"
	"github.com/thinkmate/thinkmate/core/student"
	"github.com/thinkmate/thinkmate/core/user"
)

// NewValidator returns a validator with every custom validation registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	interest.InitValidators(validate, translator)
	return validate, translator
}

func stamp(createdAt []time.Time) time.Time {
	if len(createdAt) > 0 {
		return createdAt[0].UTC()
	}
	return time.Now().UTC()
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	tstamp := stamp(createdAt)
	usr := user.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		require.NoError(t, usr.SetPassword(pwd), "SetPassword()")
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	require.NoError(t, err, "CreateUser()")
	return usr
}

func CreateStudent(t *testing.T, repo student.Repository, name, email, color string, createdAt ...time.Time) student.Student {
	tstamp := stamp(createdAt)
	st := student.Student{
		ID:    uuid.New().String(),
		Color: color,
		User: user.User{
			ID:        uuid.New().String(),
			Name:      name,
			Email:     email,
			IsActive:  true,
			Roles:     []string{user.RoleStudent},
			CreatedAt: tstamp,
			UpdatedAt: tstamp,
		},
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	st, err := repo.CreateStudent(context.Background(), st)
	require.NoError(t, err, "CreateStudent()")
	return st
}

// CreateInterest stores an interest. A nil field is kept as NULL.
func CreateInterest(
	t *testing.T,
	repo interest.Repository,
	studentID string,
	field *string,
	level float64,
	impact string,
	createdAt ...time.Time,
) interest.Interest {
	in := interest.Interest{
		ID:           uuid.New().String(),
		StudentID:    studentID,
		Field:        field,
		Level:        interest.Level(level),
		SocialImpact: impact,
		CreatedAt:    stamp(createdAt),
	}
	in, err := repo.CreateInterest(context.Background(), in)
	require.NoError(t, err, "CreateInterest()")
	return in
}

func StrPtr(s string) *string { return &s }

// Generator replies with Reply, or fails with Err.
type Generator struct {
	Reply  string
	Err    error
	System string // last prompts received
	User   string
}

func (g *Generator) Generate(_ context.Context, system, usr string) (string, error) {
	g.System, g.User = system, usr
	return g.Reply, g.Err
}
