// Package inmemdb keeps every repository in process memory. It backs the tests and the -inmem server mode.
package inmemdb

import (
	"sync"

	"github.com/thinkmate/thinkmate/core/country"
	"github.com/thinkmate/thinkmate/core/group"
	"github.com/thinkmate/thinkmate/core/interest"
	"github.com/thinkmate/thinkmate/core/student"
	"github.com/thinkmate/thinkmate/core/survey"
	"github.com/thinkmate/thinkmate/core/user"
)

// DB holds all the tables behind a single lock, so joins across tables see a consistent state.
type DB struct {
	mutex     sync.RWMutex
	users     []*user.User
	students  []*student.Student
	interests []*interest.Interest
	groups    []*group.Group
	members   []*group.Member
	responses []*survey.Response
	countries []country.Row
}

func NewDB() *DB {
	return &DB{}
}

func (db *DB) userByID(id string) *user.User {
	for _, u := range db.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (db *DB) studentByID(id string) *student.Student {
	for _, s := range db.students {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (db *DB) groupByID(id string) *group.Group {
	for _, g := range db.groups {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// joinInterest fills the student columns of an interest.
func (db *DB) joinInterest(in interest.Interest) interest.Interest {
	if st := db.studentByID(in.StudentID); st != nil {
		in.StudentColor = st.Color
		if usr := db.userByID(st.UserID); usr != nil {
			in.StudentName = usr.Name
		}
	}
	return in
}

// joinStudent fills the user and interests of a student.
func (db *DB) joinStudent(st student.Student) student.Student {
	if usr := db.userByID(st.UserID); usr != nil {
		st.User = *usr
	}
	st.Interests = make([]interest.Interest, 0)
	for _, in := range db.interests {
		if in.StudentID == st.ID {
			st.Interests = append(st.Interests, db.joinInterest(*in))
		}
	}
	return st
}
