// Package selection implements rectangular brush selection over a scatter
// plot and the statistics derived from the selected commits.
package selection

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/locmeta/internal/scatter"
)

// Region is an axis-aligned rectangle in screen coordinates. Corners may be
// given in any order.
type Region struct {
	X0 float64 `json:"x0" yaml:"x0"`
	Y0 float64 `json:"y0" yaml:"y0"`
	X1 float64 `json:"x1" yaml:"x1"`
	Y1 float64 `json:"y1" yaml:"y1"`
}

// Normalize orders the corners so that X0 <= X1 and Y0 <= Y1.
func (r Region) Normalize() Region {
	return Region{
		X0: min(r.X0, r.X1),
		Y0: min(r.Y0, r.Y1),
		X1: max(r.X0, r.X1),
		Y1: max(r.Y0, r.Y1),
	}
}

// Empty reports whether the region has zero area.
func (r Region) Empty() bool {
	n := r.Normalize()

	return n.X1 == n.X0 || n.Y1 == n.Y0
}

// Contains reports whether (x, y) lies within the region, bounds included.
func (r Region) Contains(x, y float64) bool {
	n := r.Normalize()

	return x >= n.X0 && x <= n.X1 && y >= n.Y0 && y <= n.Y1
}

// String renders the region as "x0,y0,x1,y1".
func (r Region) String() string {
	parts := []float64{r.X0, r.Y0, r.X1, r.Y1}
	out := make([]string, len(parts))

	for i, v := range parts {
		out[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}

	return strings.Join(out, ",")
}

const regionParts = 4

// ParseRegion parses "x0,y0,x1,y1". Every coordinate must be finite.
func ParseRegion(s string) (Region, error) {
	parts := strings.Split(s, ",")
	if len(parts) != regionParts {
		return Region{}, fmt.Errorf("%w: %q", ErrInvalidRegion, s)
	}

	var vals [regionParts]float64

	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return Region{}, fmt.Errorf("%w: %q", ErrInvalidRegion, s)
		}

		vals[i] = v
	}

	return Region{X0: vals[0], Y0: vals[1], X1: vals[2], Y1: vals[3]}, nil
}

// DataRegion converts a data-space rectangle (time span and hour span) to
// screen coordinates using the plot's scales.
func DataRegion(plot *scatter.Plot, from, to DataPoint) Region {
	return Region{
		X0: plot.X.Map(from.Time),
		Y0: plot.Y.Map(from.Hour),
		X1: plot.X.Map(to.Time),
		Y1: plot.Y.Map(to.Hour),
	}
}

// Members returns the indices of plot commits whose true position lies in r.
func Members(plot *scatter.Plot, r Region) []int {
	var out []int

	for i := range plot.Len() {
		c := plot.Coord(i)
		if r.Contains(c.X, c.Y) {
			out = append(out, i)
		}
	}

	return out
}
