package student

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/thinkmate/thinkmate/core"
	"github.com/thinkmate/thinkmate/core/interest"
	"github.com/thinkmate/thinkmate/core/user"
)

var (
	// errors
	ErrNotFound = errors.New("student not found")

	// NowFunc is mocked in tests.
	NowFunc = func() time.Time { return time.Now().UTC() }
)

type (
	Repository interface {
		// CreateStudent stores the student and its user together.
		CreateStudent(ctx context.Context, st Student) (Student, error)
		// QueryStudents returns all students with their user and interests, oldest first.
		QueryStudents(ctx context.Context) ([]Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		GetStudentByUserID(ctx context.Context, userID string) (Student, error)
		GetStudentByEmail(ctx context.Context, email string) (Student, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		logger  core.Logger
	}
)

func NewService(repo Repository, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{repo: repo, mailSvc: mailSvc, logger: logger}
}

// Register creates a STUDENT user and its profile. `ns` must have been validated.
func (svc *Service) Register(ctx context.Context, ns NewStudent) (Student, error) {
	now := NowFunc()
	st := Student{
		ID:    uuid.New().String(),
		Color: ns.Color,
		User: user.User{
			ID:        uuid.New().String(),
			Name:      ns.Name,
			Email:     ns.Email,
			IsActive:  true,
			Roles:     []string{user.RoleStudent},
			CreatedAt: now,
			UpdatedAt: now,
		},
		Interests: make([]interest.Interest, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if st.Color == "" {
		st.Color = DefaultColor
	}
	st.UserID = st.User.ID

	st, err := svc.repo.CreateStudent(ctx, st)
	if err != nil {
		return Student{}, errors.Wrap(err, "creating student")
	}
	svc.sendWelcomeMail(st)
	return st, nil
}

func (svc *Service) sendWelcomeMail(st Student) {
	if svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: st.User.Name, Address: st.User.Email}},
		Subject:      "Welcome!",
		TemplateName: "welcome",
		TemplateData: map[string]string{"Name": st.User.Name},
	})
}

// Login finds the student owning `email`. Unknown students are registered on the fly when a name is given.
// created reports whether a new student was registered.
func (svc *Service) Login(ctx context.Context, lr LoginRequest) (st Student, created bool, err error) {
	st, err = svc.repo.GetStudentByEmail(ctx, lr.Email)
	if err == nil {
		return st, false, nil
	}
	if errors.Cause(err) != ErrNotFound {
		return Student{}, false, errors.Wrap(err, "finding student by email")
	}
	if lr.Name == "" {
		return Student{}, false, ErrNotFound
	}

	st, err = svc.Register(ctx, NewStudent{Name: lr.Name, Email: lr.Email, Color: LoginColor})
	if err != nil {
		return Student{}, false, err
	}
	if svc.logger != nil {
		svc.logger.Info(fmt.Sprintf("student %s registered on login", st.ID))
	}
	return st, true, nil
}

func (svc *Service) Query(ctx context.Context) ([]Student, error) {
	sts, err := svc.repo.QueryStudents(ctx)
	return sts, errors.Wrap(err, "querying students")
}

func (svc *Service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) GetByUserID(ctx context.Context, userID string) (Student, error) {
	return svc.repo.GetStudentByUserID(ctx, userID)
}
