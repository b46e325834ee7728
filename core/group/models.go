package group

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/thinkmate/thinkmate/core"
)

// Member roles
const (
	RoleMember = "MEMBER"
	RoleLeader = "LEADER"
)

type (
	Group struct {
		ID          string    `json:"id"`
		Name        string    `json:"name"`
		Description string    `json:"description"`
		InviteCode  string    `json:"inviteCode"`
		TeacherID   string    `json:"teacherId,omitempty"`
		Members     []Member  `json:"members,omitempty"`
		CreatedAt   time.Time `json:"createdAt"` // UTC
		UpdatedAt   time.Time `json:"updatedAt"` // UTC
	}

	Member struct {
		GroupID   string    `json:"groupId"`
		StudentID string    `json:"studentId"`
		Name      string    `json:"name"`
		Color     string    `json:"color"`
		Role      string    `json:"role"`
		JoinedAt  time.Time `json:"joinedAt"` // UTC
	}

	NewGroup struct {
		Name        string `json:"name" validate:"required,max=120"`
		Description string `json:"description" validate:"max=1000"`
		InviteCode  string `json:"inviteCode" validate:"omitempty,min=4,max=32,alphanum"`
	}

	JoinRequest struct {
		GroupID    string `json:"groupId"`
		InviteCode string `json:"inviteCode"`
		StudentID  string `json:"studentId"`
	}
)

func (ng *NewGroup) Validate(validate *validator.Validate) error {
	ng.Name = core.CleanString(ng.Name)
	ng.Description = core.CleanString(ng.Description)
	ng.InviteCode = core.CleanString(ng.InviteCode)
	return validate.Struct(ng)
}

func (jr *JoinRequest) Clean() {
	jr.GroupID = core.CleanString(jr.GroupID)
	jr.InviteCode = core.CleanString(jr.InviteCode)
	jr.StudentID = core.CleanString(jr.StudentID)
}

// StudentIDs lists the members' student ids in membership order.
func (g Group) StudentIDs() []string {
	ids := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		ids = append(ids, m.StudentID)
	}
	return ids
}
