package inmemdb

import (
	"context"

	"github.com/thinkmate/thinkmate/core/country"
)

type countryRepository struct {
	db *DB
}

var _ country.Repository = (*countryRepository)(nil) // interface compliance check

func NewCountryRepository(db *DB) *countryRepository {
	return &countryRepository{db: db}
}

func (repo *countryRepository) QueryRowsByCountry(_ context.Context, cntry string) ([]country.Row, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	rows := make([]country.Row, 0)
	for _, r := range repo.db.countries {
		if r.Country == cntry {
			rows = append(rows, r)
		}
	}
	return rows, nil
}

func (repo *countryRepository) QuerySummaries(_ context.Context) ([]country.Summary, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return country.Summarize(repo.db.countries), nil
}

func (repo *countryRepository) ImportRows(_ context.Context, rows []country.Row) (int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	imported := make(map[string]bool)
	for _, r := range rows {
		imported[r.Country] = true
	}
	kept := make([]country.Row, 0, len(repo.db.countries)+len(rows))
	for _, r := range repo.db.countries {
		if !imported[r.Country] {
			kept = append(kept, r)
		}
	}
	repo.db.countries = append(kept, rows...)
	return len(rows), nil
}
