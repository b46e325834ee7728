// Package boiledrepos implements the read-heavy dataset repositories with sqlboiler raw queries.
package boiledrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/boil"
	"github.com/volatiletech/sqlboiler/v4/queries"
	"github.com/volatiletech/strmangle"

	"github.com/thinkmate/thinkmate/core"
	"github.com/thinkmate/thinkmate/core/country"
)

// rows per INSERT statement, keeps the bind parameters well under the postgres limit
const importBatchSize = 500

var countryColumns = []string{"country", "student_id", "grade", "gender", "school", "ave_emp", "ave_cr", "ave_cr_social"}

type (
	countryRow struct {
		Country     string       `boil:"country"`
		StudentID   string       `boil:"student_id"`
		Grade       string       `boil:"grade"`
		Gender      string       `boil:"gender"`
		School      string       `boil:"school"`
		AveEmp      null.Float64 `boil:"ave_emp"`
		AveCr       null.Float64 `boil:"ave_cr"`
		AveCrSocial null.Float64 `boil:"ave_cr_social"`
	}

	summaryRow struct {
		Country     string       `boil:"country"`
		Students    int          `boil:"students"`
		AveEmp      null.Float64 `boil:"ave_emp"`
		AveCr       null.Float64 `boil:"ave_cr"`
		AveCrSocial null.Float64 `boil:"ave_cr_social"`
	}
)

func (r countryRow) unboil() country.Row {
	return country.Row{
		Country:     r.Country,
		StudentID:   r.StudentID,
		Grade:       r.Grade,
		Gender:      r.Gender,
		School:      r.School,
		AveEmp:      r.AveEmp.Ptr(),
		AveCr:       r.AveCr.Ptr(),
		AveCrSocial: r.AveCrSocial.Ptr(),
	}
}

func (r summaryRow) unboil() country.Summary {
	return country.Summary{
		Country:     r.Country,
		Students:    r.Students,
		AveEmp:      r.AveEmp.Ptr(),
		AveCr:       r.AveCr.Ptr(),
		AveCrSocial: r.AveCrSocial.Ptr(),
	}
}

type countryRepository struct {
	db core.DB
}

var _ country.Repository = (*countryRepository)(nil) // interface compliance check

func NewCountryRepository(db core.DB) *countryRepository {
	return &countryRepository{db: db}
}

func (repo countryRepository) QueryRowsByCountry(ctx context.Context, cntry string) ([]country.Row, error) {
	var boiled []*countryRow
	err := queries.Raw(`
		SELECT country, student_id, grade, gender, school, ave_emp, ave_cr, ave_cr_social
		FROM country_stats WHERE country = $1 ORDER BY id`,
		cntry,
	).Bind(ctx, repo.db, &boiled)
	if err != nil && errors.Cause(err) != sql.ErrNoRows {
		return nil, errors.Wrap(err, "querying country rows")
	}

	rows := make([]country.Row, 0, len(boiled))
	for _, r := range boiled {
		rows = append(rows, r.unboil())
	}
	return rows, nil
}

// QuerySummaries lets postgres do the averaging, AVG ignores NULL scores.
func (repo countryRepository) QuerySummaries(ctx context.Context) ([]country.Summary, error) {
	var boiled []*summaryRow
	err := queries.Raw(`
		SELECT country, COUNT(*) AS students,
			AVG(ave_emp) AS ave_emp, AVG(ave_cr) AS ave_cr, AVG(ave_cr_social) AS ave_cr_social
		FROM country_stats GROUP BY country ORDER BY country`,
	).Bind(ctx, repo.db, &boiled)
	if err != nil && errors.Cause(err) != sql.ErrNoRows {
		return nil, errors.Wrap(err, "querying country summaries")
	}

	sums := make([]country.Summary, 0, len(boiled))
	for _, r := range boiled {
		sums = append(sums, r.unboil())
	}
	return sums, nil
}

func (repo countryRepository) ImportRows(ctx context.Context, rows []country.Row) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "starting transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	countries := make([]interface{}, 0)
	seen := make(map[string]bool)
	for _, r := range rows {
		if !seen[r.Country] {
			seen[r.Country] = true
			countries = append(countries, r.Country)
		}
	}
	del := fmt.Sprintf("DELETE FROM country_stats WHERE country IN (%s)", strmangle.Placeholders(true, len(countries), 1, 1))
	if _, err = queries.Raw(del, countries...).ExecContext(ctx, tx); err != nil {
		return 0, errors.Wrap(err, "deleting previous rows")
	}

	for start := 0; start < len(rows); start += importBatchSize {
		end := start + importBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err = insertBatch(ctx, tx, rows[start:end]); err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "committing import")
	}
	return len(rows), nil
}

func insertBatch(ctx context.Context, exec boil.ContextExecutor, rows []country.Row) error {
	args := make([]interface{}, 0, len(rows)*len(countryColumns))
	for _, r := range rows {
		args = append(args,
			r.Country, r.StudentID, r.Grade, r.Gender, r.School,
			null.Float64FromPtr(r.AveEmp), null.Float64FromPtr(r.AveCr), null.Float64FromPtr(r.AveCrSocial),
		)
	}
	q := fmt.Sprintf(
		"INSERT INTO country_stats (%s) VALUES %s",
		strings.Join(countryColumns, ", "),
		strmangle.Placeholders(true, len(args), 1, len(countryColumns)),
	)
	if _, err := queries.Raw(q, args...).ExecContext(ctx, exec); err != nil {
		return errors.Wrap(err, "inserting country rows")
	}
	return nil
}
