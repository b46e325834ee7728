package country

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

type (
	// Row is one student's line of the country dataset. Scores are nil when missing or not a finite number.
	Row struct {
		Country     string   `json:"country"`
		StudentID   string   `json:"studentID"`
		Grade       string   `json:"grade"`
		Gender      string   `json:"gender"`
		School      string   `json:"school"`
		AveEmp      *float64 `json:"ave_emp"`
		AveCr       *float64 `json:"ave_cr"`
		AveCrSocial *float64 `json:"ave_cr_social"`
	}

	// Summary averages the finite scores of a country.
	Summary struct {
		Country     string   `json:"country"`
		Students    int      `json:"students"`
		AveEmp      *float64 `json:"ave_emp"`
		AveCr       *float64 `json:"ave_cr"`
		AveCrSocial *float64 `json:"ave_cr_social"`
	}
)

// column aliases, first match wins
var (
	countryKeys     = []string{"country", "country_name"}
	studentIDKeys   = []string{"CNTSTUID", "studentID", "student_id"}
	gradeKeys       = []string{"ST001D01T", "grade"}
	genderKeys      = []string{"ST004D01T", "gender"}
	schoolKeys      = []string{"STRATUM", "school"}
	aveEmpKeys      = []string{"ave_emp", "empathy_score", "empathy"}
	aveCrKeys       = []string{"ave_cr", "overall_cr", "cr"}
	aveCrSocialKeys = []string{"ave_cr_social", "social_cr"}
)

// NormalizeRow maps a raw record (dataset columns or their friendly aliases) to a Row.
// ok is false when the record has no country.
func NormalizeRow(raw map[string]string) (row Row, ok bool) {
	row = Row{
		Country:     pick(raw, countryKeys),
		StudentID:   pick(raw, studentIDKeys),
		Grade:       pick(raw, gradeKeys),
		Gender:      pick(raw, genderKeys),
		School:      pick(raw, schoolKeys),
		AveEmp:      parseScore(pick(raw, aveEmpKeys)),
		AveCr:       parseScore(pick(raw, aveCrKeys)),
		AveCrSocial: parseScore(pick(raw, aveCrSocialKeys)),
	}
	return row, row.Country != ""
}

func pick(raw map[string]string, keys []string) string {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

func parseScore(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// Summarize groups rows per country (sorted by name) and averages their finite scores.
func Summarize(rows []Row) []Summary {
	type acc struct {
		students             int
		emp, cr, crSocial    float64
		nEmp, nCr, nCrSocial int
	}
	accs := make(map[string]*acc)
	for _, r := range rows {
		a, ok := accs[r.Country]
		if !ok {
			a = &acc{}
			accs[r.Country] = a
		}
		a.students++
		if r.AveEmp != nil {
			a.emp += *r.AveEmp
			a.nEmp++
		}
		if r.AveCr != nil {
			a.cr += *r.AveCr
			a.nCr++
		}
		if r.AveCrSocial != nil {
			a.crSocial += *r.AveCrSocial
			a.nCrSocial++
		}
	}

	summaries := make([]Summary, 0, len(accs))
	for c, a := range accs {
		summaries = append(summaries, Summary{
			Country:     c,
			Students:    a.students,
			AveEmp:      mean(a.emp, a.nEmp),
			AveCr:       mean(a.cr, a.nCr),
			AveCrSocial: mean(a.crSocial, a.nCrSocial),
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Country < summaries[j].Country })
	return summaries
}

func mean(sum float64, n int) *float64 {
	if n == 0 {
		return nil
	}
	m := sum / float64(n)
	return &m
}
