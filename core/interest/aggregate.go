package interest

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/thinkmate/thinkmate/core"
)

// UnknownField groups interests with a missing or blank field.
const UnknownField = "Unknown"

// NormalizeField trims the field name. Missing and blank names become UnknownField.
// Case is preserved: "AI" and "ai" are different fields.
func NormalizeField(field *string) string {
	if field == nil {
		return UnknownField
	}
	if f := strings.TrimSpace(*field); f != "" {
		return f
	}
	return UnknownField
}

// ImpactToNum maps a social impact rating to a number: anything containing "high" is 10,
// "moderate", "middle" or "med" is 5 and everything else (including "") is 1.
func ImpactToNum(impact string) float64 {
	v := strings.ToLower(impact)
	switch {
	case strings.Contains(v, "high"):
		return 10
	case strings.Contains(v, "moderate"), strings.Contains(v, "middle"), strings.Contains(v, "med"):
		return 5
	default:
		return 1
	}
}

// GroupByField partitions records by normalized field.
// Groups come out in order of first appearance and keep the input order of their items.
func GroupByField(records []Interest) []Group {
	groups := make([]Group, 0)
	index := make(map[string]int)
	for _, rec := range records {
		field := NormalizeField(rec.Field)
		i, ok := index[field]
		if !ok {
			i = len(groups)
			index[field] = i
			groups = append(groups, Group{Field: field})
		}
		groups[i].Items = append(groups[i].Items, rec)
	}
	return groups
}

// ComputeStats summarizes every group, keeping the group order.
func ComputeStats(groups []Group) []Stats {
	stats := make([]Stats, 0, len(groups))
	for _, g := range groups {
		st := Stats{
			Field:          g.Field,
			Count:          len(g.Items),
			InterestColors: make([]string, 0),
		}
		if st.Count > 0 {
			var levels, impacts float64
			for _, it := range g.Items {
				levels += it.Level.Float()
				impacts += ImpactToNum(it.SocialImpact)
			}
			st.AvgLevel = levels / float64(st.Count)
			st.AvgSocialImpact = impacts / float64(st.Count)
		}
		st.InterestColors = interestColors(g.Items)
		stats = append(stats, st)
	}
	return stats
}

// interestColors lists the distinct colors of the items (their own, else their student's) in first-seen order.
func interestColors(items []Interest) []string {
	colors := make([]string, 0)
	seen := make(map[string]bool)
	for _, it := range items {
		c := it.Color
		if c == "" {
			c = it.StudentColor
		}
		if c == "" {
			continue
		}
		if normalized, ok := core.NormalizeHexColor(c); ok {
			c = normalized
		} else {
			c = strings.ToUpper(c)
			if !strings.HasPrefix(c, "#") {
				c = "#" + c
			}
		}
		if !seen[c] {
			seen[c] = true
			colors = append(colors, c)
		}
	}
	return colors
}

// ComputeClusterAnalysis keeps the groups with more than one item and names their students.
// Students missing from `students` are reported as UnknownField.
func ComputeClusterAnalysis(groups []Group, students []Person) []ClusterSummary {
	names := make(map[string]string, len(students))
	for _, s := range students {
		if _, ok := names[s.ID]; !ok {
			names[s.ID] = s.Name
		}
	}

	clusters := make([]ClusterSummary, 0)
	for _, g := range groups {
		if len(g.Items) <= 1 {
			continue
		}
		cl := ClusterSummary{
			Field:       g.Field,
			MemberCount: len(g.Items),
			Students:    make([]string, 0, len(g.Items)),
		}
		var levels float64
		for _, it := range g.Items {
			name, ok := names[it.StudentID]
			if !ok {
				name = UnknownField
			}
			cl.Students = append(cl.Students, name)
			levels += it.Level.Float()
		}
		cl.AvgLevel = formatFixed1(levels / float64(len(g.Items)))
		clusters = append(clusters, cl)
	}
	return clusters
}

// formatFixed1 formats v with one decimal, rounding exact ties away from zero (2.25 -> "2.3").
// strconv rounds ties to even, so the decimal is computed on the exact binary value instead.
func formatFixed1(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	neg := v < 0
	x := new(big.Float).SetPrec(256).SetFloat64(math.Abs(v))
	x.Mul(x, big.NewFloat(10))
	x.Add(x, big.NewFloat(0.5))
	n, _ := x.Int(nil) // truncates, i.e. floor for positives

	tenth := new(big.Int)
	whole, _ := new(big.Int).QuoRem(n, big.NewInt(10), tenth)
	s := whole.String() + "." + tenth.String()
	if neg && n.Sign() != 0 {
		s = "-" + s
	}
	return s
}
