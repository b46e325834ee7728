package echoapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/thinkmate/thinkmate/apps/api/echo"
	"github.com/thinkmate/thinkmate/core/group"
	"github.com/thinkmate/thinkmate/core/student"
	"github.com/thinkmate/thinkmate/core/survey"
	"github.com/thinkmate/thinkmate/core/user"
	"github.com/thinkmate/thinkmate/testutil"
)

func decodeStudentResponse(t *testing.T, body []byte) echoapi.StudentResponse {
	var resp echoapi.StudentResponse
	require.NoError(t, json.Unmarshal(body, &resp), string(body))
	return resp
}

func Test_studentAPI_register(t *testing.T) {
	resetApp(t)

	testutil.CreateStudent(t, studentRepo, "Taken", "taken@test.cd", "#000000")
	path := "/v1/students/register"

	t.Run("missing fields", func(t *testing.T) {
		rec := serve(httpTest{method: http.MethodPost, path: path, body: []byte(`{}`)})
		checkFieldErrors(t, rec, "name", "email")
	})
	t.Run("invalid color", func(t *testing.T) {
		rec := serve(httpTest{method: http.MethodPost, path: path, body: []byte(`{"name":"A","email":"a@test.cd","color":"#12"}`)})
		errs := checkFieldErrors(t, rec, "color")
		assert.Equal(t, "Invalid color format. Use #RRGGBB or #RGB", errs["color"])
	})
	t.Run("email taken", func(t *testing.T) {
		rec := serve(httpTest{method: http.MethodPost, path: path, body: []byte(`{"name":"A","email":" TAKEN@test.cd"}`)})
		checkFieldErrors(t, rec, "email")
	})

	t.Run("registered", func(t *testing.T) {
		rec := serve(httpTest{method: http.MethodPost, path: path, body: []byte(`{"name":" Minji ","email":"Minji@Test.com","color":"abc"}`)})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		resp := decodeStudentResponse(t, rec.Body.Bytes())
		assert.True(t, resp.Created)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "#AABBCC", resp.Student.Color)
		assert.Equal(t, "Minji", resp.Student.User.Name)
		assert.Equal(t, "minji@test.com", resp.Student.User.Email)
		assert.True(t, resp.Student.User.IsStudent())
		assert.Empty(t, resp.Student.Interests)

		stored, err := studentRepo.GetStudentByID(context.Background(), resp.Student.ID)
		require.NoError(t, err)
		assert.Equal(t, resp.Student.UserID, stored.UserID)

		require.Len(t, mailSvc.SentMessages(), 1)
		assert.Equal(t, "minji@test.com", mailSvc.SentMessages()[0].To[0].Address)
	})

	t.Run("default color", func(t *testing.T) {
		rec := serve(httpTest{method: http.MethodPost, path: path, body: []byte(`{"name":"Junho","email":"junho@test.com"}`)})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, student.DefaultColor, decodeStudentResponse(t, rec.Body.Bytes()).Student.Color)
	})
}

func Test_studentAPI_login(t *testing.T) {
	resetApp(t)

	stdnt := testutil.CreateStudent(t, studentRepo, "Hero", "hero@test.cd", "#FF0000")
	path := "/v1/students/login"

	t.Run("email required", func(t *testing.T) {
		rec := serve(httpTest{method: http.MethodPost, path: path, body: []byte(`{"name":"x"}`)})
		checkFieldErrors(t, rec, "email")
	})

	runHTTPTests(t, []httpTest{
		{
			name: "unknown student without name", method: http.MethodPost, path: path, body: []byte(`{"email":"lol@test.cd"}`),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: student.ErrNotFound.Error()}),
		},
	})

	t.Run("existing student", func(t *testing.T) {
		rec := serve(httpTest{method: http.MethodPost, path: path, body: []byte(`{"email":"HERO@test.cd"}`)})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decodeStudentResponse(t, rec.Body.Bytes())
		assert.False(t, resp.Created)
		assert.Equal(t, stdnt.ID, resp.Student.ID)
	})

	t.Run("registered on first login", func(t *testing.T) {
		rec := serve(httpTest{method: http.MethodPost, path: path, body: []byte(`{"email":"new@test.cd","name":"Newbie"}`)})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		resp := decodeStudentResponse(t, rec.Body.Bytes())
		assert.True(t, resp.Created)
		assert.Equal(t, student.LoginColor, resp.Student.Color)
		assert.Equal(t, "Newbie", resp.Student.User.Name)
	})
}

func Test_studentAPI_query(t *testing.T) {
	resetApp(t)

	now := time.Now()
	st1 := testutil.CreateStudent(t, studentRepo, "Minji", "minji@test.com", "#FF0000", now)
	st2 := testutil.CreateStudent(t, studentRepo, "Junho", "junho@test.com", "#00FF00", now.Add(time.Second))
	testutil.CreateInterest(t, interestRepo, st1.ID, testutil.StrPtr("AI"), 8, "HIGH", now)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, true)

	st1, err := studentRepo.GetStudentByID(context.Background(), st1.ID) // with interests
	require.NoError(t, err)

	runHTTPTests(t, []httpTest{
		{name: "Auth required", path: "/v1/students", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "all students", path: "/v1/students", token: getToken(t, teacher), wantData: marchallList(t, st1, st2)},
		{name: "by id", path: "/v1/students/" + st2.ID, token: studentToken(t, st1), wantData: marchallObj(t, st2)},
		{
			name: "unknown id", path: "/v1/students/lol", token: getToken(t, teacher),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: student.ErrNotFound.Error()}),
		},
	})
}

func Test_studentAPI_groupsAndResponses(t *testing.T) {
	resetApp(t)
	ctx := context.Background()

	now := time.Now().UTC()
	st1 := testutil.CreateStudent(t, studentRepo, "Minji", "minji@test.com", "#FF0000")
	st2 := testutil.CreateStudent(t, studentRepo, "Junho", "junho@test.com", "#00FF00")
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, true)

	older, err := groupRepo.CreateGroup(ctx, group.Group{ID: "g1", Name: "Older", InviteCode: "OLD1", CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)
	newer, err := groupRepo.CreateGroup(ctx, group.Group{ID: "g2", Name: "Newer", InviteCode: "NEW1", CreatedAt: now, UpdatedAt: now.Add(time.Hour)})
	require.NoError(t, err)
	for _, g := range []group.Group{older, newer} {
		require.NoError(t, groupRepo.AddMember(ctx, group.Member{GroupID: g.ID, StudentID: st1.ID, Role: group.RoleMember, JoinedAt: now}))
	}

	resp, err := surveyRepo.CreateResponse(ctx, survey.Response{ID: "r1", StudentID: st1.ID, Answers: survey.Answers{"empathy8": "kind"}, EmpathyScore: 4, CreatedAt: now})
	require.NoError(t, err)

	forbidden := marchallObj(t, httpErr{Error: "permission denied"})
	runHTTPTests(t, []httpTest{
		{name: "groups: own", path: "/v1/students/" + st1.ID + "/groups", token: studentToken(t, st1), wantData: marchallList(t, newer, older)},
		{name: "groups: other student", path: "/v1/students/" + st1.ID + "/groups", token: studentToken(t, st2), wantCode: http.StatusForbidden, wantData: forbidden},
		{name: "groups: teacher", path: "/v1/students/" + st2.ID + "/groups", token: getToken(t, teacher), wantData: marchallList(t)},
		{name: "responses: own", path: "/v1/students/" + st1.ID + "/responses", token: studentToken(t, st1), wantData: marchallList(t, resp)},
		{name: "responses: other student", path: "/v1/students/" + st1.ID + "/responses", token: studentToken(t, st2), wantCode: http.StatusForbidden, wantData: forbidden},
	})
}
