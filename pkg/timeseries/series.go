// Package timeseries implements the interval-based merge, reduce, and
// snapshot operations shared by the ordered sample series of the domain
// (seismic catalogs, hydraulic histories, injection plans).
package timeseries

import (
	"fmt"
	"sort"
	"time"
)

// Sample is implemented by timestamped value records stored in an ordered
// series. CopySample must return a deep structural copy carrying no persisted
// identity; EqualSample compares value fields only.
type Sample[S any] interface {
	SampleTime() time.Time
	CopySample() S
	EqualSample(S) bool
}

// ErrInvalidRange reports a merge window whose bounds are inverted or empty.
type ErrInvalidRange struct {
	Start time.Time
	End   time.Time
}

func (e ErrInvalidRange) Error() string {
	return fmt.Sprintf("invalid merge window: start %s >= end %s",
		e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
}

// Window bounds a merge operation. Nil bounds default to the minimum and
// maximum sample time of the incoming series.
type Window struct {
	Start *time.Time
	End   *time.Time
}

// Snapshot returns structural copies of the samples satisfying pred. A nil
// pred selects every sample. Copies share no identity with the originals.
func Snapshot[S Sample[S]](samples []S, pred func(S) bool) []S {
	out := make([]S, 0, len(samples))
	for _, s := range samples {
		if pred == nil || pred(s) {
			out = append(out, s.CopySample())
		}
	}
	return out
}

// Reduce removes every sample satisfying pred, preserving the relative order
// of the rest. A nil pred removes all samples.
func Reduce[S Sample[S]](samples []S, pred func(S) bool) []S {
	if pred == nil {
		return samples[:0]
	}
	out := samples[:0]
	for _, s := range samples {
		if !pred(s) {
			out = append(out, s)
		}
	}
	return out
}

// Merge applies src onto dst using the delete-by-time-window then append
// strategy: every dst sample inside the effective window (inclusive on both
// bounds) is removed, then copies of the src samples inside the window are
// appended. The result is intentionally not re-sorted; callers relying on
// timestamp order after a narrowed window must call SortByTime. An empty src
// leaves dst untouched.
func Merge[S Sample[S]](dst, src []S, window Window) ([]S, error) {
	if len(src) == 0 {
		return dst, nil
	}
	if window.Start != nil && window.End != nil && !window.Start.Before(*window.End) {
		return dst, ErrInvalidRange{Start: *window.Start, End: *window.End}
	}

	start := MinTime(src)
	if window.Start != nil {
		start = *window.Start
	}
	end := MaxTime(src)
	if window.End != nil {
		end = *window.End
	}
	if start.After(end) {
		return dst, ErrInvalidRange{Start: start, End: end}
	}

	inWindow := func(s S) bool {
		t := s.SampleTime()
		return !t.Before(start) && !t.After(end)
	}
	dst = Reduce(dst, inWindow)
	for _, s := range src {
		if inWindow(s) {
			dst = append(dst, s.CopySample())
		}
	}
	return dst, nil
}

// Equal reports element-wise sample equality in iteration order.
func Equal[S Sample[S]](a, b []S) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].EqualSample(b[i]) {
			return false
		}
	}
	return true
}

// MinTime returns the earliest sample time. Zero time for an empty series.
func MinTime[S Sample[S]](samples []S) time.Time {
	var min time.Time
	for i, s := range samples {
		if t := s.SampleTime(); i == 0 || t.Before(min) {
			min = t
		}
	}
	return min
}

// MaxTime returns the latest sample time. Zero time for an empty series.
func MaxTime[S Sample[S]](samples []S) time.Time {
	var max time.Time
	for i, s := range samples {
		if t := s.SampleTime(); i == 0 || t.After(max) {
			max = t
		}
	}
	return max
}

// SortByTime restores ascending timestamp order in place. The sort is stable
// so samples sharing a timestamp keep their insertion order.
func SortByTime[S Sample[S]](samples []S) {
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].SampleTime().Before(samples[j].SampleTime())
	})
}
