package scheduler

import (
	"sort"
	"time"
)

// Interval is a half-open [Start, End) time range.
type Interval struct {
	Start time.Time
	End   time.Time
}

func (iv Interval) Empty() bool {
	return !iv.Start.Before(iv.End)
}

func (iv Interval) Minutes() int {
	if iv.Empty() {
		return 0
	}
	return int(iv.End.Sub(iv.Start) / time.Minute)
}

// Overlaps reports whether the two half-open intervals share any instant.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Contains reports whether other lies entirely within iv.
func (iv Interval) Contains(other Interval) bool {
	return !other.Start.Before(iv.Start) && !other.End.After(iv.End)
}

// Intersect returns the common part of iv and other, possibly empty.
func (iv Interval) Intersect(other Interval) Interval {
	out := Interval{Start: iv.Start, End: iv.End}
	if other.Start.After(out.Start) {
		out.Start = other.Start
	}
	if other.End.Before(out.End) {
		out.End = other.End
	}
	if out.Empty() {
		return Interval{Start: out.Start, End: out.Start}
	}
	return out
}

// Subtract returns the ordered parts of window not covered by any busy interval.
func Subtract(window Interval, busy []Interval) []Interval {
	sorted := make([]Interval, 0, len(busy))
	for _, b := range busy {
		if b.Overlaps(window) {
			sorted = append(sorted, b.Intersect(window))
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	var free []Interval
	cursor := window.Start
	for _, b := range sorted {
		if b.Start.After(cursor) {
			free = append(free, Interval{Start: cursor, End: b.Start})
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	if window.End.After(cursor) {
		free = append(free, Interval{Start: cursor, End: window.End})
	}
	return free
}

// CoveredMinutes returns the minutes of window covered by the union of busy.
func CoveredMinutes(window Interval, busy []Interval) int {
	free := 0
	for _, f := range Subtract(window, busy) {
		free += f.Minutes()
	}
	return window.Minutes() - free
}

// grid snaps instants to a fixed minute granularity measured from local midnight.
type grid struct {
	origin time.Time
	step   time.Duration
}

func newGrid(midnight time.Time, minutes int) grid {
	if minutes <= 0 {
		minutes = 1
	}
	return grid{origin: midnight, step: time.Duration(minutes) * time.Minute}
}

// Ceil rounds t up to the next grid line (t itself when already on one).
func (g grid) Ceil(t time.Time) time.Time {
	off := t.Sub(g.origin)
	steps := off / g.step
	if off%g.step != 0 && off > 0 {
		steps++
	}
	return g.origin.Add(steps * g.step)
}

// Floor rounds t down to the previous grid line.
func (g grid) Floor(t time.Time) time.Time {
	off := t.Sub(g.origin)
	steps := off / g.step
	if off%g.step != 0 && off < 0 {
		steps--
	}
	return g.origin.Add(steps * g.step)
}

// SnapInward rounds the start up and the end down.
func (g grid) SnapInward(iv Interval) Interval {
	return Interval{Start: g.Ceil(iv.Start), End: g.Floor(iv.End)}
}

func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
