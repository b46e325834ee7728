package layout

import (
	"math"
	"strconv"

	"github.com/thinkmate/thinkmate/core/interest"
)

// Defaults
const (
	DefaultWidth   = 900
	DefaultHeight  = 400
	DefaultPadding = 20
)

var DefaultPalette = []string{"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEAA7", "#DDA0DD", "#FFB347"}

type (
	// Node is one placed circle of the visualization.
	Node struct {
		ID       string         `json:"id"`
		Field    string         `json:"field"`
		X        float64        `json:"x"`
		Y        float64        `json:"y"`
		Radius   int            `json:"radius"`
		Color    string         `json:"color"`
		Original interest.Stats `json:"original"`
	}

	Options struct {
		Width   float64
		Height  float64
		Padding float64
		Palette []string
		Hash    HashFn
		// LegacyImpact maps the averaged impact through interest.ImpactToNum again, which pins it to 1.
		LegacyImpact bool
	}

	Option func(*Options)
)

func WithSize(width, height float64) Option {
	return func(o *Options) {
		o.Width = width
		o.Height = height
	}
}

func WithPadding(padding float64) Option {
	return func(o *Options) { o.Padding = padding }
}

func WithPalette(colors ...string) Option {
	return func(o *Options) { o.Palette = colors }
}

func WithHash(fn HashFn) Option {
	return func(o *Options) { o.Hash = fn }
}

func WithLegacyImpact(legacy bool) Option {
	return func(o *Options) { o.LegacyImpact = legacy }
}

// NewOptions applies opts over the defaults. Non-positive sizes, a negative padding
// and an empty palette fall back to their default.
func NewOptions(opts ...Option) Options {
	o := Options{
		Width:   DefaultWidth,
		Height:  DefaultHeight,
		Padding: DefaultPadding,
		Palette: DefaultPalette,
		Hash:    FNV1a,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if !(o.Width > 0) {
		o.Width = DefaultWidth
	}
	if !(o.Height > 0) {
		o.Height = DefaultHeight
	}
	if !(o.Padding >= 0) {
		o.Padding = DefaultPadding
	}
	if len(o.Palette) == 0 {
		o.Palette = DefaultPalette
	}
	if o.Hash == nil {
		o.Hash = FNV1a
	}
	return o
}

// ComputeNodes places one node per group stat. The result is a pure function of the stats and options:
// positions depend on the node id (explicit ID, else its index) and colors on the field name only.
func ComputeNodes(stats []interest.Stats, opts ...Option) []Node {
	o := NewOptions(opts...)
	nodes := make([]Node, 0, len(stats))
	for i, st := range stats {
		id := st.ID
		if id == "" {
			id = strconv.Itoa(i)
		}

		level := st.AvgLevel
		if level == 0 || math.IsNaN(level) {
			level = 1
		}
		impact := o.impact(st.AvgSocialImpact)

		x := o.xScale(level) + o.jitter(id+"_x", math.Min(60, float64(o.Width*0.06)))
		y := o.yScale(impact) + o.jitter(id+"_y", math.Min(300, float64(o.Height*2)))

		nodes = append(nodes, Node{
			ID:       id,
			Field:    st.Field,
			X:        clamp(x, o.Padding, o.Width-o.Padding),
			Y:        clamp(y, o.Padding, o.Height-o.Padding),
			Radius:   radius(level, impact),
			Color:    o.Palette[o.Hash(st.Field)%uint32(len(o.Palette))],
			Original: st,
		})
	}
	return nodes
}

// impact is the value fed to yScale and the radius.
func (o Options) impact(avg float64) float64 {
	if o.LegacyImpact {
		return interest.ImpactToNum(strconv.FormatFloat(avg, 'f', -1, 64))
	}
	if math.IsNaN(avg) || avg == 0 {
		return 1
	}
	return clamp(avg, 1, 10)
}

// Intermediate products are wrapped in float64() so the compiler cannot fuse them into FMA
// instructions; layouts must match bit for bit on every architecture.

func (o Options) xScale(level float64) float64 {
	t := clamp(level, 1, 10)
	return o.Padding + float64(float64((t-1)/9)*(o.Width-2*o.Padding))
}

// yScale puts high impact at the top.
func (o Options) yScale(impact float64) float64 {
	t := clamp(float64(impact*3), 1, 30)
	return o.Padding + float64(float64(1-(t-1)/29)*(o.Height-2*o.Padding))
}

func (o Options) jitter(seed string, magnitude float64) float64 {
	h := o.Hash(seed + "_j")
	v := float64(h%1000) / 1000
	return float64(float64(v*2)-1) * magnitude
}

func radius(level, impact float64) int {
	base := float64(level*1.2) + float64(impact*0.8)
	r := math.Floor(float64(base*2) + 0.5)
	return int(clamp(r, 4, 40))
}

// clamp mirrors max(lo, min(hi, v)): lo wins when the range is empty.
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
