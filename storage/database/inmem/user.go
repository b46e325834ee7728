package inmemdb

import (
	"context"

	"github.com/thinkmate/thinkmate/core/user"
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db}
}

func isExcluded(usr *user.User, excludedUsers []user.User) bool {
	for _, u := range excludedUsers {
		if u.ID == usr.ID {
			return true
		}
	}
	return false
}

func (db *DB) emailTaken(email string, excludedUsers ...user.User) bool {
	for _, usr := range db.users {
		if usr.Email == email && !isExcluded(usr, excludedUsers) {
			return true
		}
	}
	return false
}

func (repo *userRepository) CheckEmailUniqueness(_ context.Context, email string, excludedUsers ...user.User) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if repo.db.emailTaken(email, excludedUsers...) {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if repo.db.emailTaken(usr.Email) {
		return user.User{}, user.ErrEmailExists
	}
	repo.db.users = append(repo.db.users, &usr)
	return usr, nil
}

func (repo *userRepository) GetUserByID(_ context.Context, id string) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if usr := repo.db.userByID(id); usr != nil {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, usr := range repo.db.users {
		if usr.Email == email {
			return *usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig := repo.db.userByID(usr.ID)
	if orig == nil {
		return user.User{}, user.ErrNotFound
	}
	if repo.db.emailTaken(usr.Email, usr) {
		return user.User{}, user.ErrEmailExists
	}
	*orig = usr
	return usr, nil
}
