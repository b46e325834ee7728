package interest

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/thinkmate/thinkmate/core"
)

// Social impact ratings accepted on input.
const (
	ImpactHigh     = "HIGH"
	ImpactModerate = "MODERATE"
	ImpactMiddle   = "MIDDLE"
	ImpactMedium   = "MEDIUM"
	ImpactLow      = "LOW"
)

var Impacts = []string{ImpactHigh, ImpactModerate, ImpactMiddle, ImpactMedium, ImpactLow}

type (
	// Level is an interest level. Decoding is lenient: numbers and numeric strings are kept,
	// anything else (null, "abc", objects...) becomes 0.
	Level float64

	// Interest is one student's self-reported topic of interest.
	Interest struct {
		ID           string    `json:"id"`
		StudentID    string    `json:"studentId"`
		Field        *string   `json:"field"`
		Level        Level     `json:"level"`
		SocialImpact string    `json:"socialImpact"`
		Color        string    `json:"color,omitempty"`        // explicit color of the interest, if any
		StudentName  string    `json:"studentName,omitempty"`  // joined from the student
		StudentColor string    `json:"studentColor,omitempty"` // joined from the student
		CreatedAt    time.Time `json:"createdAt"`
	}

	// Group holds the interests sharing one normalized field, in input order.
	Group struct {
		Field string     `json:"field"`
		Items []Interest `json:"items"`
	}

	// Stats summarizes one Group.
	Stats struct {
		ID              string   `json:"id,omitempty"`
		Field           string   `json:"field"`
		Count           int      `json:"count"`
		AvgLevel        float64  `json:"avgLevel"`
		AvgSocialImpact float64  `json:"avgSocialImpact"`
		InterestColors  []string `json:"interestColors"`
	}

	// Person is the bit of a student the cluster analysis needs.
	Person struct {
		ID   string
		Name string
	}

	// ClusterSummary describes a field shared by more than one interest.
	ClusterSummary struct {
		Field       string   `json:"field"`
		MemberCount int      `json:"memberCount"`
		Students    []string `json:"students"`
		AvgLevel    string   `json:"avgLevel"`
	}

	NewInterest struct {
		StudentID    string `json:"studentId" validate:"required"`
		Field        string `json:"field" validate:"required,notblank"`
		Level        int    `json:"level" validate:"required,min=1,max=10"`
		SocialImpact string `json:"socialImpact" validate:"required,impact"`
		Color        string `json:"color" validate:"omitempty,hexcolor_"`
	}

	QueryFilter struct {
		StudentIDs []string `query:"student"`
		Field      string   `query:"field"`
		// Ordering comes first, ties keep the creation order.
		Ordering []core.DBOrdering `query:"-"`
	}
)

// OrderableFields are the columns interests may be ordered by.
var OrderableFields = []string{"field", "level", "social_impact", "created_at"}

func (l Level) Float() float64 {
	f := float64(l)
	if math.IsNaN(f) {
		return 0
	}
	return f
}

func (l *Level) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*l = Level(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			*l = 0
			return nil
		}
		if f, err = strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) {
			*l = Level(f)
			return nil
		}
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil && b {
		*l = 1
		return nil
	}
	*l = 0
	return nil
}

func (ni *NewInterest) Validate(validate *validator.Validate) error {
	ni.StudentID = core.CleanString(ni.StudentID)
	ni.Field = core.CleanString(ni.Field)
	ni.SocialImpact = core.CleanString(ni.SocialImpact)
	if ni.SocialImpact != "" {
		ni.SocialImpact = strings.ToUpper(ni.SocialImpact)
	}
	return validate.Struct(ni)
}

// Clean trims the filter. A nil StudentIDs means every student, an empty one means none.
func (qf *QueryFilter) Clean() {
	qf.Field = core.CleanString(qf.Field)
	if qf.StudentIDs == nil {
		return // no student filter
	}
	ids := make([]string, 0, len(qf.StudentIDs))
	for _, id := range qf.StudentIDs {
		for _, part := range strings.Split(id, ",") {
			if part = core.CleanString(part); part != "" {
				ids = append(ids, part)
			}
		}
	}
	qf.StudentIDs = ids
}
