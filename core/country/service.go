package country

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/thinkmate/thinkmate/core"
)

var ErrCountryRequired = errors.New("country required")

type (
	Repository interface {
		QueryRowsByCountry(ctx context.Context, country string) ([]Row, error)
		QuerySummaries(ctx context.Context) ([]Summary, error)
		// ImportRows replaces the rows of the imported countries.
		ImportRows(ctx context.Context, rows []Row) (int, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) ByCountry(ctx context.Context, country string) ([]Row, error) {
	country = core.CleanString(country)
	if country == "" {
		return nil, core.NewValidationError(ErrCountryRequired, core.FieldError{Field: "country", Error: ErrCountryRequired.Error()})
	}
	rows, err := svc.repo.QueryRowsByCountry(ctx, country)
	return rows, errors.Wrap(err, "querying country rows")
}

func (svc *Service) Summaries(ctx context.Context) ([]Summary, error) {
	sums, err := svc.repo.QuerySummaries(ctx)
	return sums, errors.Wrap(err, "querying country summaries")
}

// ImportCSV reads a dataset with a header line and stores its rows. Records without a country are skipped.
func (svc *Service) ImportCSV(ctx context.Context, r io.Reader) (imported, skipped int, err error) {
	rdr := csv.NewReader(r)
	rdr.FieldsPerRecord = -1
	rdr.TrimLeadingSpace = true

	header, err := rdr.Read()
	if err != nil {
		return 0, 0, errors.Wrap(err, "reading csv header")
	}
	for i := range header {
		header[i] = strings.TrimPrefix(strings.TrimSpace(header[i]), "\ufeff")
	}

	rows := make([]Row, 0)
	for {
		rec, err := rdr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, 0, errors.Wrap(err, "reading csv record")
		}
		raw := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				raw[col] = rec[i]
			}
		}
		row, ok := NormalizeRow(raw)
		if !ok {
			skipped++
			continue
		}
		rows = append(rows, row)
	}

	imported, err = svc.repo.ImportRows(ctx, rows)
	return imported, skipped, errors.Wrap(err, "importing rows")
}
