// Package scatter lays commits out on a calendar-time by hour-of-day plot.
package scatter

import (
	"time"

	"github.com/Sumatoshi-tech/locmeta/internal/commits"
)

// Jitter bounds. Jitter only ever moves the drawn point.
const (
	JitterTime  = 9 * time.Minute
	JitterHours = 0.175
)

// Margin is the space between the plot frame and the usable area.
type Margin struct {
	Top    float64 `mapstructure:"top"`
	Right  float64 `mapstructure:"right"`
	Bottom float64 `mapstructure:"bottom"`
	Left   float64 `mapstructure:"left"`
}

// Dimensions is the plot size in screen pixels.
type Dimensions struct {
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
	Margin Margin  `mapstructure:"margin"`
}

// DefaultDimensions returns the standard 1000x600 frame.
func DefaultDimensions() Dimensions {
	return Dimensions{
		Width:  1000,
		Height: 600,
		Margin: Margin{Top: 10, Right: 10, Bottom: 30, Left: 20},
	}
}

// Usable returns the left, right, top and bottom edges of the drawing area.
func (d Dimensions) Usable() (left, right, top, bottom float64) {
	return d.Margin.Left, d.Width - d.Margin.Right, d.Margin.Top, d.Height - d.Margin.Bottom
}

// Coord is a screen position.
type Coord struct {
	X, Y float64
}

// Plot is the deterministic layout of a set of commits: scales plus each
// commit's true (unjittered) position.
type Plot struct {
	Dims    Dimensions
	X       TimeScale
	Y       HourScale
	Commits []*commits.Summary

	coords []Coord
}

// Layout builds the plot for commits. An empty slice yields a plot with no
// points over a one-day domain.
func Layout(cs []*commits.Summary, dims Dimensions) *Plot {
	left, right, top, bottom := dims.Usable()

	var lo, hi time.Time

	for i, c := range cs {
		if i == 0 || c.Datetime.Before(lo) {
			lo = c.Datetime
		}

		if i == 0 || c.Datetime.After(hi) {
			hi = c.Datetime
		}
	}

	if len(cs) == 0 {
		lo = time.Unix(0, 0)
		hi = lo
	}

	p := &Plot{
		Dims:    dims,
		X:       NewTimeScale(lo, hi, left, right),
		Y:       NewHourScale(bottom, top),
		Commits: cs,
		coords:  make([]Coord, len(cs)),
	}

	for i, c := range cs {
		p.coords[i] = Coord{X: p.X.Map(c.Datetime), Y: p.Y.Map(c.HourFrac)}
	}

	return p
}

// Len returns the number of commits on the plot.
func (p *Plot) Len() int {
	return len(p.Commits)
}

// Coord returns the true position of the i-th commit.
func (p *Plot) Coord(i int) Coord {
	return p.coords[i]
}

// Jitter is a source of uniform values in [0, 1), such as *rand.Rand.
type Jitter interface {
	Float64() float64
}

// Point is one drawn commit.
type Point struct {
	Index  int
	Commit *commits.Summary

	// Time and Hour are the jittered data values; X and Y their screen position.
	Time time.Time
	Hour float64
	X, Y float64
}

// Points returns drawable points with fresh jitter from rng. A nil rng
// draws every commit at its true position. Nothing is cached on p.
func (p *Plot) Points(rng Jitter) []Point {
	points := make([]Point, len(p.Commits))

	for i, c := range p.Commits {
		at, hour := c.Datetime, c.HourFrac

		if rng != nil {
			at = at.Add(time.Duration(symmetric(rng, float64(JitterTime))))
			hour += symmetric(rng, JitterHours)
		}

		points[i] = Point{
			Index:  i,
			Commit: c,
			Time:   at,
			Hour:   hour,
			X:      p.X.Map(at),
			Y:      p.Y.Map(hour),
		}
	}

	return points
}

// symmetric returns a uniform sample in [-bound, bound).
func symmetric(rng Jitter, bound float64) float64 {
	return (rng.Float64()*2 - 1) * bound
}
