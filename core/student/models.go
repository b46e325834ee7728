package student

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/thinkmate/thinkmate/core"
	"github.com/thinkmate/thinkmate/core/interest"
	"github.com/thinkmate/thinkmate/core/user"
)

// Colors
const (
	DefaultColor = "#999999"
	LoginColor   = "#FFB347" // given to students created on first login
)

type (
	Student struct {
		ID        string              `json:"id"`
		UserID    string              `json:"userId"`
		Color     string              `json:"color"`
		User      user.User           `json:"user"`
		Interests []interest.Interest `json:"interests"`
		CreatedAt time.Time           `json:"createdAt"` // UTC
		UpdatedAt time.Time           `json:"updatedAt"` // UTC
	}

	NewStudent struct {
		Name  string `json:"name" validate:"required"`
		Email string `json:"email" validate:"required,email"`
		Color string `json:"color" validate:"omitempty,hexcolor_"`
	}

	LoginRequest struct {
		Email string `json:"email" validate:"required,email"`
		Name  string `json:"name"`
	}
)

// Person is the view of the student used by the interest cluster analysis.
func (s Student) Person() interest.Person {
	return interest.Person{ID: s.ID, Name: s.User.Name}
}

func People(students []Student) []interest.Person {
	people := make([]interest.Person, 0, len(students))
	for _, s := range students {
		people = append(people, s.Person())
	}
	return people
}

func (ns *NewStudent) Validate(validate *validator.Validate, usrSvc *user.Service) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Color = core.CleanString(ns.Color)

	if err := validate.Struct(ns); err != nil {
		return err
	}
	if ns.Color == "" {
		ns.Color = DefaultColor
	} else {
		ns.Color, _ = core.NormalizeHexColor(ns.Color)
	}
	return usrSvc.CheckUniqueness(context.Background(), ns.Email)
}

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	lr.Name = core.CleanString(lr.Name)
	return validate.Struct(lr)
}
