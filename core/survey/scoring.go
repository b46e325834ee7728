package survey

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/thinkmate/thinkmate/core"
)

// Answers maps question names (empathy1...) to decoded JSON values.
type Answers map[string]interface{}

var errInvalidAnswers = errors.New("invalid answers")

// ValidateAnswers checks every required question. Missing sliders count as their minimum.
func ValidateAnswers(ans Answers) error {
	var flds []core.FieldError
	for _, q := range Questions {
		v, ok := ans[q.Name]
		if !q.validate(v, ok) {
			flds = append(flds, core.FieldError{Field: q.Name, Error: q.ErrorMessage})
		}
	}
	if len(flds) > 0 {
		return core.NewValidationError(errInvalidAnswers, flds...)
	}
	return nil
}

func (q Question) validate(v interface{}, present bool) bool {
	if !q.Required {
		return true
	}
	switch q.Type {
	case TypeText:
		s, ok := v.(string)
		return ok && strings.TrimSpace(s) != ""
	case TypeRadio:
		s, ok := v.(string)
		return ok && s != "" && (len(q.Options) == 0 || q.hasOption(s))
	case TypeCheckbox:
		vals, ok := v.([]interface{})
		if !ok || len(vals) == 0 {
			return false
		}
		for _, val := range vals {
			s, ok := val.(string)
			if !ok || !q.hasOption(s) {
				return false
			}
		}
		return true
	case TypeSlider:
		if !present || isBlank(v) {
			return true // treated as min
		}
		f, ok := toNumber(v)
		return ok && f >= q.Min && f <= q.Max
	}
	return false
}

// Format returns the answers keyed by question name with reverse-coded sliders flipped.
// Unanswered questions are nil.
func Format(ans Answers) Answers {
	out := make(Answers, len(Questions))
	for _, q := range Questions {
		v, ok := ans[q.Name]
		if !ok || isBlank(v) {
			out[q.Name] = nil
			continue
		}
		if q.Type == TypeSlider {
			if f, ok := toNumber(v); ok {
				out[q.Name] = q.score(f)
				continue
			}
		}
		out[q.Name] = v
	}
	return out
}

func (q Question) score(raw float64) float64 {
	if q.Invert {
		return q.Min + q.Max - raw
	}
	return raw
}

// EmpathyScore is the mean of the slider scores (after inversion). Missing sliders count as their minimum.
func EmpathyScore(ans Answers) float64 {
	var sum float64
	var n int
	for _, q := range Questions {
		if q.Type != TypeSlider {
			continue
		}
		raw := q.Min
		if v, ok := ans[q.Name]; ok && !isBlank(v) {
			if f, ok := toNumber(v); ok {
				raw = f
			}
		}
		sum += q.score(raw)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func isBlank(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

func toNumber(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case json.Number:
		var err error
		if f, err = n.Float64(); err != nil {
			return 0, false
		}
	case string:
		var err error
		if f, err = strconv.ParseFloat(strings.TrimSpace(n), 64); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
