package inmemdb

import (
	"context"
	"sort"

	"github.com/thinkmate/thinkmate/core/group"
	"github.com/thinkmate/thinkmate/core/student"
)

type groupRepository struct {
	db *DB
}

var _ group.Repository = (*groupRepository)(nil) // interface compliance check

func NewGroupRepository(db *DB) *groupRepository {
	return &groupRepository{db: db}
}

func (repo *groupRepository) CreateGroup(_ context.Context, grp group.Group) (group.Group, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, g := range repo.db.groups {
		if g.InviteCode == grp.InviteCode {
			return group.Group{}, group.ErrInviteCodeExists
		}
	}
	grp.Members = nil
	repo.db.groups = append(repo.db.groups, &grp)
	return grp, nil
}

func (repo *groupRepository) GetGroupByID(_ context.Context, id string) (group.Group, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if g := repo.db.groupByID(id); g != nil {
		return *g, nil
	}
	return group.Group{}, group.ErrNotFound
}

func (repo *groupRepository) GetGroupByInviteCode(_ context.Context, code string) (group.Group, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, g := range repo.db.groups {
		if g.InviteCode == code {
			return *g, nil
		}
	}
	return group.Group{}, group.ErrNotFound
}

func (repo *groupRepository) AddMember(_ context.Context, m group.Member) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if repo.db.groupByID(m.GroupID) == nil {
		return group.ErrNotFound
	}
	if repo.db.studentByID(m.StudentID) == nil {
		return student.ErrNotFound
	}
	for _, mm := range repo.db.members {
		if mm.GroupID == m.GroupID && mm.StudentID == m.StudentID {
			return nil
		}
	}
	m.Name, m.Color = "", ""
	repo.db.members = append(repo.db.members, &m)
	return nil
}

func (repo *groupRepository) QueryMembers(_ context.Context, groupID string) ([]group.Member, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if repo.db.groupByID(groupID) == nil {
		return nil, group.ErrNotFound
	}
	members := make([]group.Member, 0)
	for _, m := range repo.db.members {
		if m.GroupID != groupID {
			continue
		}
		mm := *m
		if st := repo.db.studentByID(m.StudentID); st != nil {
			mm.Color = st.Color
			if usr := repo.db.userByID(st.UserID); usr != nil {
				mm.Name = usr.Name
			}
		}
		members = append(members, mm)
	}
	sort.SliceStable(members, func(i, j int) bool { return members[i].JoinedAt.Before(members[j].JoinedAt) })
	return members, nil
}

func (repo *groupRepository) QueryGroupsByStudent(_ context.Context, studentID string) ([]group.Group, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	grps := make([]group.Group, 0)
	for _, m := range repo.db.members {
		if m.StudentID != studentID {
			continue
		}
		if g := repo.db.groupByID(m.GroupID); g != nil {
			grps = append(grps, *g)
		}
	}
	sort.SliceStable(grps, func(i, j int) bool { return grps[i].UpdatedAt.After(grps[j].UpdatedAt) })
	return grps, nil
}
