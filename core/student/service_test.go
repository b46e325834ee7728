package student_test

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thinkmate/thinkmate/core"
	"github.com/thinkmate/thinkmate/core/student"
	"github.com/thinkmate/thinkmate/core/user"
	emailsvc "github.com/thinkmate/thinkmate/services/email"
	inmemdb "github.com/thinkmate/thinkmate/storage/database/inmem"
	"github.com/thinkmate/thinkmate/testutil"
)

type fixture struct {
	svc     *student.Service
	usrSvc  *user.Service
	mailSvc *emailsvc.ConsoleServiceMock
}

func setUp(t *testing.T) fixture {
	t.Helper()
	db := inmemdb.NewDB()
	mailSvc := emailsvc.NewConsoleServiceMock(core.NewTestConfig())
	return fixture{
		svc:     student.NewService(inmemdb.NewStudentRepository(db), mailSvc, nil),
		usrSvc:  user.NewService(inmemdb.NewUserRepository(db)),
		mailSvc: mailSvc,
	}
}

func TestNewStudent_Validate(t *testing.T) {
	validate, _ := testutil.NewValidator()
	fx := setUp(t)
	_, err := fx.svc.Register(context.Background(), student.NewStudent{Name: "Minji", Email: "minji@test.com"})
	require.NoError(t, err)

	tests := []struct {
		name      string
		ns        student.NewStudent
		wantColor string
		wantErr   bool
	}{
		{name: "default color", ns: student.NewStudent{Name: "Junho", Email: " Junho@Test.com "}, wantColor: student.DefaultColor},
		{name: "short color", ns: student.NewStudent{Name: "Junho", Email: "junho@test.com", Color: "#f0a"}, wantColor: "#FF00AA"},
		{name: "no hash", ns: student.NewStudent{Name: "Junho", Email: "junho@test.com", Color: "12ab34"}, wantColor: "#12AB34"},
		{name: "bad color", ns: student.NewStudent{Name: "Junho", Email: "junho@test.com", Color: "blue"}, wantErr: true},
		{name: "bad email", ns: student.NewStudent{Name: "Junho", Email: "junho"}, wantErr: true},
		{name: "name required", ns: student.NewStudent{Name: " ", Email: "junho@test.com"}, wantErr: true},
		{name: "email taken", ns: student.NewStudent{Name: "Minji", Email: "MINJI@test.com"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ns.Validate(validate, fx.usrSvc)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "junho@test.com", tt.ns.Email)
			assert.Equal(t, tt.wantColor, tt.ns.Color)
		})
	}
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	fx := setUp(t)

	st, err := fx.svc.Register(ctx, student.NewStudent{Name: "Minji", Email: "minji@test.com", Color: "#FF0000"})
	require.NoError(t, err)
	assert.NotEmpty(t, st.ID)
	assert.Equal(t, st.User.ID, st.UserID)
	assert.Equal(t, "#FF0000", st.Color)
	assert.Equal(t, []string{user.RoleStudent}, st.User.Roles)
	assert.True(t, st.User.IsActive)
	assert.Empty(t, st.Interests)

	sent := fx.mailSvc.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "minji@test.com", sent[0].To[0].Address)
	assert.True(t, strings.HasPrefix(sent[0].TextContent, "Hi Minji,"))

	got, err := fx.svc.GetByUserID(ctx, st.UserID)
	require.NoError(t, err)
	assert.Equal(t, st.ID, got.ID)
	assert.Equal(t, "Minji", got.User.Name)
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	fx := setUp(t)
	minji, err := fx.svc.Register(ctx, student.NewStudent{Name: "Minji", Email: "minji@test.com", Color: "#FF0000"})
	require.NoError(t, err)

	st, created, err := fx.svc.Login(ctx, student.LoginRequest{Email: "minji@test.com", Name: "Other"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, minji.ID, st.ID)

	_, _, err = fx.svc.Login(ctx, student.LoginRequest{Email: "junho@test.com"})
	assert.Equal(t, student.ErrNotFound, errors.Cause(err))

	st, created, err = fx.svc.Login(ctx, student.LoginRequest{Email: "junho@test.com", Name: "Junho"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, student.LoginColor, st.Color)

	sts, err := fx.svc.Query(ctx)
	require.NoError(t, err)
	require.Len(t, sts, 2)
	assert.Equal(t, []string{"Minji", "Junho"}, []string{sts[0].User.Name, sts[1].User.Name})

	people := student.People(sts)
	assert.Equal(t, minji.ID, people[0].ID)
	assert.Equal(t, "Junho", people[1].Name)
}
