package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/thinkmate/thinkmate/core"
	"github.com/thinkmate/thinkmate/core/interest"
	"github.com/thinkmate/thinkmate/core/student"
)

type interestRepository struct {
	db *DB
}

var _ interest.Repository = (*interestRepository)(nil) // interface compliance check

func NewInterestRepository(db *DB) *interestRepository {
	return &interestRepository{db: db}
}

func (repo *interestRepository) CreateInterest(_ context.Context, in interest.Interest) (interest.Interest, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if repo.db.studentByID(in.StudentID) == nil {
		return interest.Interest{}, student.ErrNotFound
	}
	in.StudentName, in.StudentColor = "", ""
	repo.db.interests = append(repo.db.interests, &in)
	return repo.db.joinInterest(in), nil
}

func (repo *interestRepository) QueryInterests(_ context.Context, filter interest.QueryFilter) ([]interest.Interest, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var ids map[string]bool
	if filter.StudentIDs != nil {
		ids = make(map[string]bool, len(filter.StudentIDs))
		for _, id := range filter.StudentIDs {
			ids[id] = true
		}
	}

	ins := make([]interest.Interest, 0)
	for _, in := range repo.db.interests {
		if ids != nil && !ids[in.StudentID] {
			continue
		}
		if filter.Field != "" && interest.NormalizeField(in.Field) != filter.Field {
			continue
		}
		ins = append(ins, repo.db.joinInterest(*in))
	}
	if len(filter.Ordering) > 0 {
		sort.SliceStable(ins, func(i, j int) bool { return less(ins[i], ins[j], filter.Ordering) })
	}
	return ins, nil
}

// less compares on the first ordering that tells a and b apart. NULL fields sort last, as in postgres.
func less(a, b interest.Interest, ordering []core.DBOrdering) bool {
	for _, ord := range ordering {
		var cmp int
		switch ord.Field {
		case "field":
			cmp = compareFields(a.Field, b.Field)
		case "level":
			cmp = compareFloats(a.Level.Float(), b.Level.Float())
		case "social_impact":
			cmp = strings.Compare(a.SocialImpact, b.SocialImpact)
		case "created_at":
			switch {
			case a.CreatedAt.Before(b.CreatedAt):
				cmp = -1
			case a.CreatedAt.After(b.CreatedAt):
				cmp = 1
			}
		}
		if cmp != 0 {
			return (cmp < 0) == ord.Ascending
		}
	}
	return false
}

func compareFields(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return strings.Compare(*a, *b)
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
