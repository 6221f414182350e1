package scatter

import (
	"sort"
	"time"
)

// HoursPerDay is the upper bound of the hour-of-day domain.
const HoursPerDay = 24

// defaultTickCount is the tick density nice bounds aim for.
const defaultTickCount = 10

// TimeScale maps instants linearly onto a pixel range.
type TimeScale struct {
	start, end time.Time
	r0, r1     float64
}

// NewTimeScale builds a scale over [lo, hi] extended to nice round bounds.
// A degenerate domain is widened to the surrounding day.
func NewTimeScale(lo, hi time.Time, r0, r1 float64) TimeScale {
	lo, hi = lo.UTC(), hi.UTC()

	if !hi.After(lo) {
		day := floorDay(lo)

		return TimeScale{start: day, end: day.AddDate(0, 0, 1), r0: r0, r1: r1}
	}

	iv := tickInterval(hi.Sub(lo), defaultTickCount)

	return TimeScale{start: iv.floor(lo), end: iv.ceil(hi), r0: r0, r1: r1}
}

// Domain returns the nice domain bounds.
func (s TimeScale) Domain() (time.Time, time.Time) {
	return s.start, s.end
}

// Range returns the pixel range.
func (s TimeScale) Range() (float64, float64) {
	return s.r0, s.r1
}

// Map converts an instant to a pixel coordinate.
func (s TimeScale) Map(t time.Time) float64 {
	span := s.end.Sub(s.start)
	if span <= 0 {
		return (s.r0 + s.r1) / 2
	}

	frac := float64(t.Sub(s.start)) / float64(span)

	return s.r0 + frac*(s.r1-s.r0)
}

// Invert converts a pixel coordinate back to an instant.
func (s TimeScale) Invert(x float64) time.Time {
	if s.r1 == s.r0 {
		return s.start
	}

	frac := (x - s.r0) / (s.r1 - s.r0)

	return s.start.Add(time.Duration(frac * float64(s.end.Sub(s.start))))
}

// HourScale maps the hour-of-day domain [0, 24] onto a pixel range.
// The range is usually inverted so that midnight sits at the bottom.
type HourScale struct {
	r0, r1 float64
}

// NewHourScale builds an hour scale; r0 receives hour 0 and r1 hour 24.
func NewHourScale(r0, r1 float64) HourScale {
	return HourScale{r0: r0, r1: r1}
}

// Map converts an hour fraction to a pixel coordinate.
func (s HourScale) Map(h float64) float64 {
	return s.r0 + h/HoursPerDay*(s.r1-s.r0)
}

// Invert converts a pixel coordinate back to an hour fraction.
func (s HourScale) Invert(y float64) float64 {
	if s.r1 == s.r0 {
		return 0
	}

	return (y - s.r0) / (s.r1 - s.r0) * HoursPerDay
}

type unit int

const (
	unitSecond unit = iota
	unitMinute
	unitHour
	unitDay
	unitWeek
	unitMonth
	unitYear
)

// interval is a calendar step such as "15 minutes" or "3 months".
type interval struct {
	unit unit
	step int
	size time.Duration // Approximate length, for choosing among intervals.
}

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day
	year  = 365 * day
)

// tickIntervals is the ladder nice bounds are snapped to.
var tickIntervals = []interval{
	{unitSecond, 1, time.Second},
	{unitSecond, 5, 5 * time.Second},
	{unitSecond, 15, 15 * time.Second},
	{unitSecond, 30, 30 * time.Second},
	{unitMinute, 1, time.Minute},
	{unitMinute, 5, 5 * time.Minute},
	{unitMinute, 15, 15 * time.Minute},
	{unitMinute, 30, 30 * time.Minute},
	{unitHour, 1, time.Hour},
	{unitHour, 3, 3 * time.Hour},
	{unitHour, 6, 6 * time.Hour},
	{unitHour, 12, 12 * time.Hour},
	{unitDay, 1, day},
	{unitDay, 2, 2 * day},
	{unitWeek, 1, week},
	{unitMonth, 1, month},
	{unitMonth, 3, 3 * month},
	{unitYear, 1, year},
}

// tickInterval picks the interval whose size is closest (by ratio) to
// span/count, falling back to multi-year steps for long spans.
func tickInterval(span time.Duration, count int) interval {
	target := span / time.Duration(count)

	i := sort.Search(len(tickIntervals), func(i int) bool {
		return tickIntervals[i].size > target
	})

	switch {
	case i == len(tickIntervals):
		years := max(1, niceStep(float64(target)/float64(year)))

		return interval{unitYear, years, time.Duration(years) * year}
	case i == 0:
		return tickIntervals[0]
	}

	lower, upper := tickIntervals[i-1], tickIntervals[i]
	if float64(target)/float64(lower.size) < float64(upper.size)/float64(target) {
		return lower
	}

	return upper
}

// niceStep rounds v up to 1, 2 or 5 times a power of ten.
func niceStep(v float64) int {
	if v <= 1 {
		return 1
	}

	pow := 1

	for float64(pow*10) <= v {
		pow *= 10
	}

	for _, m := range []int{1, 2, 5, 10} {
		if float64(m*pow) >= v {
			return m * pow
		}
	}

	return 10 * pow
}

func floorDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (iv interval) floor(t time.Time) time.Time {
	t = t.UTC()

	switch iv.unit {
	case unitSecond:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second()-t.Second()%iv.step, 0, time.UTC)
	case unitMinute:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute()-t.Minute()%iv.step, 0, 0, time.UTC)
	case unitHour:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour()-t.Hour()%iv.step, 0, 0, 0, time.UTC)
	case unitDay:
		return time.Date(t.Year(), t.Month(), t.Day()-(t.Day()-1)%iv.step, 0, 0, 0, 0, time.UTC)
	case unitWeek:
		d := floorDay(t)

		return d.AddDate(0, 0, -int(d.Weekday()))
	case unitMonth:
		m := int(t.Month()) - 1

		return time.Date(t.Year(), time.Month(m-m%iv.step+1), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year()-t.Year()%iv.step, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
}

func (iv interval) offset(t time.Time) time.Time {
	switch iv.unit {
	case unitSecond:
		return t.Add(time.Duration(iv.step) * time.Second)
	case unitMinute:
		return t.Add(time.Duration(iv.step) * time.Minute)
	case unitHour:
		return t.Add(time.Duration(iv.step) * time.Hour)
	case unitDay:
		return t.AddDate(0, 0, iv.step)
	case unitWeek:
		return t.AddDate(0, 0, 7*iv.step)
	case unitMonth:
		return t.AddDate(0, iv.step, 0)
	default:
		return t.AddDate(iv.step, 0, 0)
	}
}

// ceil returns the smallest interval boundary not before t.
func (iv interval) ceil(t time.Time) time.Time {
	f := iv.floor(t)
	if f.Equal(t) {
		return f
	}

	return iv.offset(f)
}
