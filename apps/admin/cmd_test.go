package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thinkmate/thinkmate/core"
	"github.com/thinkmate/thinkmate/core/interest"
	"github.com/thinkmate/thinkmate/core/user"
	emailsvc "github.com/thinkmate/thinkmate/services/email"
	inmemdb "github.com/thinkmate/thinkmate/storage/database/inmem"
	"github.com/thinkmate/thinkmate/testutil"
)

const strongPwd = "Tr0ub4dor&3x!"

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

var (
	usrRepo      user.Repository
	interestRepo interest.Repository
)

func setup(t *testing.T) *commandLine {
	// set up DB & repos
	db := inmemdb.NewDB()
	usrRepo = inmemdb.NewUserRepository(db)
	interestRepo = inmemdb.NewInterestRepository(db)

	validate, _ := testutil.NewValidator()
	conf := core.NewTestConfig()

	// start CLI
	cli := newCommandLine(validate, emailsvc.NewConsoleServiceMock(conf), nopLogger{}, usrRepo,
		inmemdb.NewStudentRepository(db), interestRepo, inmemdb.NewCountryRepository(db))
	cli.db = new(sql.DB) // never used: migrations are mocked
	return cli
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func runCLI(t *testing.T, cli *commandLine, tt cliTest) error {
	args := append([]string{"admin"}, tt.args...)
	err := cli.run(args)
	switch {
	case tt.wantErr != nil:
		assert.Equal(t, tt.wantErr, errors.Cause(err))
	case tt.wantErrStr != "":
		if assert.Error(t, err) {
			assert.Contains(t, err.Error(), tt.wantErrStr)
		}
	default:
		assert.NoError(t, err)
	}
	return err
}

func mockPassword(pwd string) {
	readPasswordFunc = func(fd int) ([]byte, error) {
		return []byte(pwd), nil
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	migrateFunc = func(_ context.Context, _ *sql.DB, command string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "status", args: []string{"migrate", "status"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runCLI(t, cli, tt)
		})
	}

	t.Run("in-memory storage", func(t *testing.T) {
		cli.db = nil
		runCLI(t, cli, cliTest{args: []string{"migrate", "up"}, wantErr: errNoDatabase})
	})
}

func Test_commandLine_addTeacher(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()

	stdnt := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", []string{user.RoleStudent}, false)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no args", args: []string{"addteacher"}, wantErr: errHelp},
		{name: "email but no name", args: []string{"addteacher", "-email", "t@test.cd"}, extra: extra{pwd: strongPwd}, wantErr: errHelp},
		{name: "no password", args: []string{"addteacher", "-name", "Teach", "-email", "t@test.cd"}, wantErr: errHelp},
		{name: "weak password", args: []string{"addteacher", "-name", "Teach", "-email", "t@test.cd"}, extra: extra{pwd: "lol"}, wantErrStr: "password"},
		{name: "create", args: []string{"addteacher", "-name", "Teach", "-email", " T@Test.cd "}, extra: extra{pwd: strongPwd}},
		{name: "promote existing user", args: []string{"addteacher", "-name", "Hero", "-email", stdnt.Email}, extra: extra{pwd: strongPwd}},
	}
	for _, tt := range tests {
		pwd := ""
		if e, ok := tt.extra.(extra); ok {
			pwd = e.pwd
		}
		mockPassword(pwd)

		t.Run(tt.name, func(t *testing.T) {
			runCLI(t, cli, tt)
		})
	}

	teacher, err := usrRepo.GetUserByEmail(ctx, "t@test.cd")
	require.NoError(t, err)
	assert.Equal(t, "Teach", teacher.Name)
	assert.True(t, teacher.IsTeacher())
	assert.True(t, teacher.IsActive)
	assert.NoError(t, teacher.CheckPassword(strongPwd))

	promoted, err := usrRepo.GetUserByEmail(ctx, stdnt.Email)
	require.NoError(t, err)
	assert.True(t, promoted.IsTeacher())
	assert.True(t, promoted.IsStudent())
	assert.True(t, promoted.IsActive)
	assert.NoError(t, promoted.CheckPassword(strongPwd))
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	usr := testutil.CreateUser(t, usrRepo, "User", "awe@test.cd", "Old-passw0rd", nil, true)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "lol@test.cd"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-email", "lol@test.cd"}, extra: extra{pwd: strongPwd}, wantErr: user.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", usr.Email}, extra: extra{pwd: strongPwd}},
	}
	for _, tt := range tests {
		pwd := ""
		if e, ok := tt.extra.(extra); ok {
			pwd = e.pwd
		}
		mockPassword(pwd)

		t.Run(tt.name, func(t *testing.T) {
			runCLI(t, cli, tt)
		})
	}

	refreshed, err := usrRepo.GetUserByID(context.Background(), usr.ID)
	require.NoError(t, err)
	assert.NotEqual(t, usr.PasswordHash, refreshed.PasswordHash)
	assert.NoError(t, refreshed.CheckPassword(strongPwd))
}

func Test_commandLine_seed(t *testing.T) {
	cli := setup(t)

	// twice: existing students are skipped
	runCLI(t, cli, cliTest{args: []string{"seed"}})
	runCLI(t, cli, cliTest{args: []string{"seed"}})

	ins, err := interestRepo.QueryInterests(context.Background(), interest.QueryFilter{})
	require.NoError(t, err)
	require.Len(t, ins, 6)

	stats := interest.ComputeStats(interest.GroupByField(ins))
	require.Len(t, stats, 2)
	assert.Equal(t, "AI", stats[0].Field)
	assert.Equal(t, 3, stats[0].Count)
	assert.Equal(t, 8.0, stats[0].AvgLevel)
	assert.Equal(t, 10.0, stats[0].AvgSocialImpact)
	assert.Equal(t, "환경보호", stats[1].Field)
	assert.Equal(t, 5.0, stats[1].AvgSocialImpact)
}

func Test_commandLine_importStats(t *testing.T) {
	cli := setup(t)

	path := filepath.Join(t.TempDir(), "stats.csv")
	csv := "country,CNTSTUID,grade,gender,school,ave_emp,ave_cr,ave_cr_social\n" +
		"Korea,1,9,F,S1,3.5,2.0,1.0\n" +
		",2,9,M,S1,1,1,1\n" +
		"Korea,3,10,M,S2,2.5,NA,3.0\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o600))

	runCLI(t, cli, cliTest{args: []string{"importstats"}, wantErr: errHelp})
	runCLI(t, cli, cliTest{args: []string{"importstats", "-file", filepath.Join(t.TempDir(), "nope.csv")}, wantErrStr: "opening stats file"})
	runCLI(t, cli, cliTest{args: []string{"importstats", "-file", path}})

	rows, err := cli.countrySvc.ByCountry(context.Background(), "Korea")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "1", rows[0].StudentID)
	assert.Nil(t, rows[1].AveCr)

	sums, err := cli.countrySvc.Summaries(context.Background())
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Equal(t, 2, sums[0].Students)
	require.NotNil(t, sums[0].AveEmp)
	assert.InDelta(t, 3.0, *sums[0].AveEmp, 1e-9)
}
