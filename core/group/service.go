package group

import (
	"context"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pkg/errors"

	"github.com/thinkmate/thinkmate/core"
)

const (
	inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	inviteCodeSize     = 8
	inviteCodeAttempts = 5
)

var (
	// errors
	ErrNotFound          = errors.New("group not found")
	ErrInviteCodeExists  = errors.New("a group with this invite code already exists")
	ErrInvalidInviteCode = errors.New("invalid invite code")
	ErrGroupRequired     = errors.New("groupId or inviteCode required")

	// NowFunc is mocked in tests.
	NowFunc = func() time.Time { return time.Now().UTC() }

	// newInviteCode is mocked in tests.
	newInviteCode = func() (string, error) { return gonanoid.Generate(inviteCodeAlphabet, inviteCodeSize) }
)

type (
	Repository interface {
		CreateGroup(ctx context.Context, grp Group) (Group, error)
		GetGroupByID(ctx context.Context, id string) (Group, error)
		GetGroupByInviteCode(ctx context.Context, code string) (Group, error)
		// AddMember is idempotent: joining twice keeps the first membership.
		AddMember(ctx context.Context, m Member) error
		// QueryMembers returns the members of a group, first joined first.
		QueryMembers(ctx context.Context, groupID string) ([]Member, error)
		// QueryGroupsByStudent returns the groups of a student, most recently updated first.
		QueryGroupsByStudent(ctx context.Context, studentID string) ([]Group, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a new group. An invite code is generated when none is given.
func (svc *Service) Create(ctx context.Context, ng NewGroup, teacherID string) (Group, error) {
	now := NowFunc()
	grp := Group{
		ID:          uuid.New().String(),
		Name:        ng.Name,
		Description: ng.Description,
		InviteCode:  ng.InviteCode,
		TeacherID:   teacherID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if grp.InviteCode != "" {
		created, err := svc.repo.CreateGroup(ctx, grp)
		if errors.Cause(err) == ErrInviteCodeExists {
			return Group{}, core.NewValidationError(err, core.FieldError{Field: "inviteCode", Error: err.Error()})
		}
		return created, errors.Wrap(err, "creating group")
	}

	// generated codes may collide, retry a few times
	for i := 0; i < inviteCodeAttempts; i++ {
		code, err := newInviteCode()
		if err != nil {
			return Group{}, errors.Wrap(err, "generating invite code")
		}
		grp.InviteCode = code
		created, err := svc.repo.CreateGroup(ctx, grp)
		if errors.Cause(err) == ErrInviteCodeExists {
			continue
		}
		return created, errors.Wrap(err, "creating group")
	}
	return Group{}, errors.Wrap(ErrInviteCodeExists, "generating invite code")
}

// Join finds the group by id or invite code and, when a student is given, makes them a member.
// When both an id and a code are given they must match.
func (svc *Service) Join(ctx context.Context, jr JoinRequest) (Group, error) {
	jr.Clean()
	if jr.GroupID == "" && jr.InviteCode == "" {
		return Group{}, core.NewValidationError(ErrGroupRequired)
	}

	var (
		grp Group
		err error
	)
	if jr.GroupID != "" {
		grp, err = svc.repo.GetGroupByID(ctx, jr.GroupID)
	} else {
		grp, err = svc.repo.GetGroupByInviteCode(ctx, jr.InviteCode)
	}
	if err != nil {
		return Group{}, errors.Wrap(err, "finding group")
	}
	if jr.InviteCode != "" && jr.InviteCode != grp.InviteCode {
		return Group{}, ErrInvalidInviteCode
	}

	if jr.StudentID != "" {
		m := Member{GroupID: grp.ID, StudentID: jr.StudentID, Role: RoleMember, JoinedAt: NowFunc()}
		if err = svc.repo.AddMember(ctx, m); err != nil {
			return Group{}, errors.Wrap(err, "adding member")
		}
	}
	return svc.GetWithMembers(ctx, grp.ID)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Group, error) {
	return svc.repo.GetGroupByID(ctx, id)
}

func (svc *Service) GetWithMembers(ctx context.Context, id string) (Group, error) {
	grp, err := svc.repo.GetGroupByID(ctx, id)
	if err != nil {
		return Group{}, errors.Wrap(err, "finding group")
	}
	if grp.Members, err = svc.Members(ctx, id); err != nil {
		return Group{}, err
	}
	return grp, nil
}

func (svc *Service) Members(ctx context.Context, groupID string) ([]Member, error) {
	members, err := svc.repo.QueryMembers(ctx, groupID)
	return members, errors.Wrap(err, "querying members")
}

func (svc *Service) QueryByStudent(ctx context.Context, studentID string) ([]Group, error) {
	grps, err := svc.repo.QueryGroupsByStudent(ctx, studentID)
	return grps, errors.Wrap(err, "querying groups")
}
