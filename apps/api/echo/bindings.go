package echoapi

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/volatiletech/strmangle"

	"github.com/thinkmate/thinkmate/core"
	"github.com/thinkmate/thinkmate/core/layout"
)

const orderingParam = "ordering"

var (
	errUnknownOrdering = errors.New("unknown ordering field")
	errInvalidLayout   = errors.New("invalid layout params")
)

// Ordering binds `?ordering=level,-createdAt` to whitelisted snake_case columns.
type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context, allowed []string) error {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return nil
	}

	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		col := strmangle.SnakeCase(field)
		if !isAllowed(col, allowed) {
			return core.NewValidationError(errUnknownOrdering, core.FieldError{
				Field: orderingParam,
				Error: fmt.Sprintf("%s %q", errUnknownOrdering, field),
			})
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: col, Ascending: !descending})
	}
	return nil
}

func isAllowed(col string, allowed []string) bool {
	for _, a := range allowed {
		if a == col {
			return true
		}
	}
	return false
}

// bindLayoutOptions reads the viewport query params of the node endpoints:
// width, height, padding, colors (comma list) and legacy_impact. Missing values come from conf.
func bindLayoutOptions(ctx echo.Context, conf core.LayoutConfig) ([]layout.Option, error) {
	width, height, padding := conf.Width, conf.Height, conf.Padding
	var (
		legacy  bool
		fldErrs []core.FieldError
	)

	floatParam := func(name string, dst *float64) {
		if v := ctx.QueryParam(name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				fldErrs = append(fldErrs, core.FieldError{Field: name, Error: "must be a number"})
				return
			}
			*dst = f
		}
	}
	floatParam("width", &width)
	floatParam("height", &height)
	floatParam("padding", &padding)

	if v := ctx.QueryParam("legacy_impact"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			fldErrs = append(fldErrs, core.FieldError{Field: "legacy_impact", Error: "must be a boolean"})
		}
		legacy = b
	}
	if len(fldErrs) > 0 {
		return nil, core.NewValidationError(errInvalidLayout, fldErrs...)
	}

	palette := conf.Palette
	if v := ctx.QueryParam("colors"); v != "" {
		palette = make([]string, 0)
		for _, c := range strings.Split(v, ",") {
			if c = strings.TrimSpace(c); c != "" {
				palette = append(palette, c)
			}
		}
	}

	return []layout.Option{
		layout.WithSize(width, height),
		layout.WithPadding(padding),
		layout.WithPalette(palette...),
		layout.WithLegacyImpact(legacy),
	}, nil
}
