package inmemdb

import (
	"context"

	"github.com/thinkmate/thinkmate/core/student"
	"github.com/thinkmate/thinkmate/core/user"
)

type studentRepository struct {
	db *DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CreateStudent(_ context.Context, st student.Student) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if repo.db.emailTaken(st.User.Email) {
		return student.Student{}, user.ErrEmailExists
	}
	usr := st.User
	st.UserID = usr.ID
	st.User = user.User{}
	st.Interests = nil
	repo.db.users = append(repo.db.users, &usr)
	repo.db.students = append(repo.db.students, &st)
	return repo.db.joinStudent(st), nil
}

func (repo *studentRepository) QueryStudents(_ context.Context) ([]student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	sts := make([]student.Student, 0, len(repo.db.students))
	for _, st := range repo.db.students {
		sts = append(sts, repo.db.joinStudent(*st))
	}
	return sts, nil
}

func (repo *studentRepository) find(match func(st *student.Student) bool) (student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, st := range repo.db.students {
		if match(st) {
			return repo.db.joinStudent(*st), nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByID(_ context.Context, id string) (student.Student, error) {
	return repo.find(func(st *student.Student) bool { return st.ID == id })
}

func (repo *studentRepository) GetStudentByUserID(_ context.Context, userID string) (student.Student, error) {
	return repo.find(func(st *student.Student) bool { return st.UserID == userID })
}

// GetStudentByEmail reads users while holding the read lock taken by find.
func (repo *studentRepository) GetStudentByEmail(_ context.Context, email string) (student.Student, error) {
	return repo.find(func(st *student.Student) bool {
		usr := repo.db.userByID(st.UserID)
		return usr != nil && usr.Email == email
	})
}
