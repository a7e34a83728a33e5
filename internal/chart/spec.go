// Package chart describes charts declaratively and hands them to pluggable
// rendering engines.
package chart

import (
	"strconv"
)

// Kind selects the chart type.
type Kind string

const (
	KindLine Kind = "line"
	KindBar  Kind = "bar"
)

// Format is a declarative number formatter: prefix + (v*scale rounded to
// decimals) + suffix. Engines that cannot run Go code (the browser) receive
// the same description and apply it themselves.
type Format struct {
	Scale    float64 `json:"scale,omitempty"`
	Decimals int     `json:"decimals"`
	Prefix   string  `json:"prefix,omitempty"`
	Suffix   string  `json:"suffix,omitempty"`
}

// Apply formats v.
func (f Format) Apply(v float64) string {
	scale := f.Scale
	if scale == 0 {
		scale = 1
	}
	decimals := f.Decimals
	if decimals < 0 {
		decimals = 0
	}
	return f.Prefix + strconv.FormatFloat(v*scale, 'f', decimals, 64) + f.Suffix
}

// Series is one named sequence of values. A nil entry is a gap.
type Series struct {
	Label        string
	Data         []*float64
	Fill         bool
	Tension      float64
	BorderWidth  int
	BorderRadius int
}

// Legend controls legend placement.
type Legend struct {
	Display  bool
	Position string
}

// Axis describes one axis.
type Axis struct {
	Title string
	Ticks *Format
}

// Spec is a complete chart description.
type Spec struct {
	Kind    Kind
	Labels  []string
	Series  []Series
	Legend  Legend
	X       Axis
	Y       Axis
	Tooltip *Format
}

// Values converts plain numbers into series data without gaps.
func Values(vs ...float64) []*float64 {
	out := make([]*float64, len(vs))
	for i := range vs {
		v := vs[i]
		out[i] = &v
	}
	return out
}

// Value returns a single data point.
func Value(v float64) *float64 {
	return &v
}

// Point returns the value at i and whether it is present.
func (s Series) Point(i int) (float64, bool) {
	if i < 0 || i >= len(s.Data) || s.Data[i] == nil {
		return 0, false
	}
	return *s.Data[i], true
}
