package echoapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thinkmate/thinkmate/core/group"
	"github.com/thinkmate/thinkmate/core/interest"
	"github.com/thinkmate/thinkmate/core/layout"
	"github.com/thinkmate/thinkmate/core/user"
	"github.com/thinkmate/thinkmate/testutil"
)

func decodeGroup(t *testing.T, body []byte) group.Group {
	var grp group.Group
	require.NoError(t, json.Unmarshal(body, &grp), string(body))
	return grp
}

func Test_groupAPI_create(t *testing.T) {
	resetApp(t)

	st := testutil.CreateStudent(t, studentRepo, "Minji", "minji@test.com", "#FF0000")
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	teacherToken := getToken(t, teacher)

	post := func(token, body string) httpTest {
		return httpTest{method: http.MethodPost, path: "/v1/groups", token: token, body: []byte(body)}
	}

	runHTTPTests(t, []httpTest{
		{name: "Auth required", method: http.MethodPost, path: "/v1/groups", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Teacher required", method: http.MethodPost, path: "/v1/groups", token: studentToken(t, st), body: []byte(`{"name":"A"}`),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
	})

	t.Run("name required", func(t *testing.T) {
		checkFieldErrors(t, serve(post(teacherToken, `{"name":"  "}`)), "name")
	})
	t.Run("invalid invite code", func(t *testing.T) {
		checkFieldErrors(t, serve(post(teacherToken, `{"name":"A","inviteCode":"no way"}`)), "inviteCode")
	})

	t.Run("with invite code", func(t *testing.T) {
		rec := serve(post(teacherToken, `{"name":" Class A ","description":"Room 12","inviteCode":"CLASS1"}`))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		grp := decodeGroup(t, rec.Body.Bytes())
		assert.NotEmpty(t, grp.ID)
		assert.Equal(t, "Class A", grp.Name)
		assert.Equal(t, "Room 12", grp.Description)
		assert.Equal(t, "CLASS1", grp.InviteCode)
		assert.Equal(t, teacher.ID, grp.TeacherID)
		assert.Empty(t, grp.Members)
	})
	t.Run("invite code taken", func(t *testing.T) {
		errs := checkFieldErrors(t, serve(post(teacherToken, `{"name":"B","inviteCode":"CLASS1"}`)), "inviteCode")
		assert.Equal(t, group.ErrInviteCodeExists.Error(), errs["inviteCode"])
	})

	t.Run("generated invite code", func(t *testing.T) {
		rec := serve(post(teacherToken, `{"name":"C"}`))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		code := decodeGroup(t, rec.Body.Bytes()).InviteCode
		require.Len(t, code, 8)
		for _, c := range code {
			assert.True(t, strings.ContainsRune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789", c), "unexpected rune %q", c)
		}
	})
}

func Test_groupAPI_join(t *testing.T) {
	resetApp(t)
	ctx := context.Background()

	st1 := testutil.CreateStudent(t, studentRepo, "Minji", "minji@test.com", "#FF0000")
	st2 := testutil.CreateStudent(t, studentRepo, "Junho", "junho@test.com", "#00FF00")
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, true)

	now := time.Now().UTC()
	grp, err := groupRepo.CreateGroup(ctx, group.Group{ID: "g1", Name: "Class A", InviteCode: "CLASS1", TeacherID: teacher.ID, CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)

	join := func(token, body string) httpTest {
		return httpTest{method: http.MethodPost, path: "/v1/groups/join", token: token, body: []byte(body)}
	}

	runHTTPTests(t, []httpTest{
		{name: "Auth required", method: http.MethodPost, path: "/v1/groups/join", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "group required", method: http.MethodPost, path: "/v1/groups/join", token: studentToken(t, st1), body: []byte(`{}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: group.ErrGroupRequired.Error()}),
		},
		{
			name: "unknown invite code", method: http.MethodPost, path: "/v1/groups/join", token: studentToken(t, st1), body: []byte(`{"inviteCode":"NOPE"}`),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: group.ErrNotFound.Error()}),
		},
		{
			name: "mismatched invite code", method: http.MethodPost, path: "/v1/groups/join", token: studentToken(t, st1),
			body:     []byte(`{"groupId":"g1","inviteCode":"NOPE"}`),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: group.ErrInvalidInviteCode.Error()}),
		},
		{
			name: "student for another student", method: http.MethodPost, path: "/v1/groups/join", token: studentToken(t, st1),
			body:     []byte(`{"inviteCode":"CLASS1","studentId":"` + st2.ID + `"}`),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
	})

	t.Run("join by invite code", func(t *testing.T) {
		rec := serve(join(studentToken(t, st1), `{"inviteCode":" CLASS1 "}`))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		joined := decodeGroup(t, rec.Body.Bytes())
		assert.Equal(t, grp.ID, joined.ID)
		require.Len(t, joined.Members, 1)
		assert.Equal(t, st1.ID, joined.Members[0].StudentID)
		assert.Equal(t, "Minji", joined.Members[0].Name)
		assert.Equal(t, "#FF0000", joined.Members[0].Color)
		assert.Equal(t, group.RoleMember, joined.Members[0].Role)
	})

	t.Run("joining twice keeps one membership", func(t *testing.T) {
		rec := serve(join(studentToken(t, st1), `{"groupId":"g1","inviteCode":"CLASS1"}`))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Len(t, decodeGroup(t, rec.Body.Bytes()).Members, 1)
	})

	t.Run("teacher adds a student", func(t *testing.T) {
		rec := serve(join(getToken(t, teacher), `{"groupId":"g1","studentId":"`+st2.ID+`"}`))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		members := decodeGroup(t, rec.Body.Bytes()).Members
		require.Len(t, members, 2)
		assert.Equal(t, st1.ID, members[0].StudentID)
		assert.Equal(t, st2.ID, members[1].StudentID)
	})

	t.Run("teacher looks a group up", func(t *testing.T) {
		rec := serve(join(getToken(t, teacher), `{"inviteCode":"CLASS1"}`))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Len(t, decodeGroup(t, rec.Body.Bytes()).Members, 2)
	})
}

func Test_groupAPI_retrieve(t *testing.T) {
	resetApp(t)
	ctx := context.Background()

	st1 := testutil.CreateStudent(t, studentRepo, "Minji", "minji@test.com", "#FF0000")
	st2 := testutil.CreateStudent(t, studentRepo, "Junho", "junho@test.com", "#00FF00")

	now := time.Now().UTC()
	grp, err := groupRepo.CreateGroup(ctx, group.Group{ID: "g1", Name: "Class A", InviteCode: "CLASS1", CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)
	require.NoError(t, groupRepo.AddMember(ctx, group.Member{GroupID: "g1", StudentID: st2.ID, Role: group.RoleLeader, JoinedAt: now}))
	require.NoError(t, groupRepo.AddMember(ctx, group.Member{GroupID: "g1", StudentID: st1.ID, Role: group.RoleMember, JoinedAt: now.Add(time.Minute)}))

	members, err := groupRepo.QueryMembers(ctx, "g1")
	require.NoError(t, err)
	grp.Members = members
	token := studentToken(t, st1)
	notFound := marchallObj(t, httpErr{Error: group.ErrNotFound.Error()})

	runHTTPTests(t, []httpTest{
		{name: "Auth required", path: "/v1/groups/g1", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "group with members", path: "/v1/groups/g1", token: token, wantData: marchallObj(t, grp)},
		{name: "unknown group", path: "/v1/groups/lol", token: token, wantCode: http.StatusNotFound, wantData: notFound},
		{name: "members", path: "/v1/groups/g1/members", token: token, wantData: marchallObj(t, members)},
		{name: "members of unknown group", path: "/v1/groups/lol/members", token: token, wantCode: http.StatusNotFound, wantData: notFound},
	})

	assert.Equal(t, []string{st2.ID, st1.ID}, grp.StudentIDs(), "first joined first")
}

func Test_groupAPI_nodes(t *testing.T) {
	resetApp(t)
	ctx := context.Background()

	st1 := testutil.CreateStudent(t, studentRepo, "Minji", "minji@test.com", "#FF0000")
	st2 := testutil.CreateStudent(t, studentRepo, "Junho", "junho@test.com", "#00FF00")
	outsider := testutil.CreateStudent(t, studentRepo, "Seohyun", "seohyun@test.com", "#0000FF")
	testutil.CreateInterest(t, interestRepo, st1.ID, testutil.StrPtr("AI"), 8, "HIGH")
	testutil.CreateInterest(t, interestRepo, outsider.ID, testutil.StrPtr("AI"), 2, "LOW")
	testutil.CreateInterest(t, interestRepo, st2.ID, testutil.StrPtr("Music"), 4, "MODERATE")

	now := time.Now().UTC()
	for _, g := range []group.Group{
		{ID: "g1", Name: "Class A", InviteCode: "CLASS1", CreatedAt: now, UpdatedAt: now},
		{ID: "empty", Name: "Nobody", InviteCode: "EMPTY1", CreatedAt: now, UpdatedAt: now},
	} {
		_, err := groupRepo.CreateGroup(ctx, g)
		require.NoError(t, err)
	}
	require.NoError(t, groupRepo.AddMember(ctx, group.Member{GroupID: "g1", StudentID: st1.ID, Role: group.RoleMember, JoinedAt: now}))
	require.NoError(t, groupRepo.AddMember(ctx, group.Member{GroupID: "g1", StudentID: st2.ID, Role: group.RoleMember, JoinedAt: now}))

	stats := []interest.Stats{
		{Field: "AI", Count: 1, AvgLevel: 8, AvgSocialImpact: 10, InterestColors: []string{"#FF0000"}},
		{Field: "Music", Count: 1, AvgLevel: 4, AvgSocialImpact: 5, InterestColors: []string{"#00FF00"}},
	}
	token := studentToken(t, st1)

	runHTTPTests(t, []httpTest{
		{
			name: "members only", path: "/v1/groups/g1/nodes?width=600", token: token,
			wantData: marchallObj(t, layout.ComputeNodes(stats,
				layout.WithSize(600, conf.Layout.Height), layout.WithPadding(conf.Layout.Padding))),
		},
		{name: "group without members", path: "/v1/groups/empty/nodes", token: token, wantData: marchallList(t)},
		{
			name: "unknown group", path: "/v1/groups/lol/nodes", token: token,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: group.ErrNotFound.Error()}),
		},
	})
}
