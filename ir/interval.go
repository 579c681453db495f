package ir

import (
	"fmt"
	"sort"
	"strings"
)

// Interval is an inclusive range of IL offsets.
type Interval struct {
	Start int
	End   int
}

// EmptyInterval contains no offsets.
var EmptyInterval = Interval{Start: 0, End: -1}

// NewInterval returns the interval covering n bytes from start.
func NewInterval(start, n int) Interval {
	return Interval{Start: start, End: start + n - 1}
}

// IsEmpty reports whether the interval contains no offsets.
func (i Interval) IsEmpty() bool { return i.End < i.Start }

// Length returns the number of offsets in the interval.
func (i Interval) Length() int {
	if i.IsEmpty() {
		return 0
	}
	return i.End - i.Start + 1
}

// Contains reports whether off lies in the interval.
func (i Interval) Contains(off int) bool {
	return off >= i.Start && off <= i.End
}

// Intersect returns the overlap of two intervals, or EmptyInterval.
func (i Interval) Intersect(o Interval) Interval {
	r := Interval{Start: max(i.Start, o.Start), End: min(i.End, o.End)}
	if r.IsEmpty() {
		return EmptyInterval
	}
	return r
}

func (i Interval) String() string {
	if i.IsEmpty() {
		return "[empty]"
	}
	return fmt.Sprintf("[%d..%d]", i.Start, i.End)
}

// IntegerSet is a set of offsets stored as sorted, disjoint, non-adjacent
// intervals.
type IntegerSet struct {
	intervals []Interval
}

// Add inserts every offset of iv, merging with overlapping or adjacent
// intervals.
func (s *IntegerSet) Add(iv Interval) {
	if iv.IsEmpty() {
		return
	}
	// first interval that could touch iv
	i := sort.Search(len(s.intervals), func(k int) bool {
		return s.intervals[k].End >= iv.Start-1
	})
	j := i
	for j < len(s.intervals) && s.intervals[j].Start <= iv.End+1 {
		iv.Start = min(iv.Start, s.intervals[j].Start)
		iv.End = max(iv.End, s.intervals[j].End)
		j++
	}
	s.intervals = append(s.intervals[:i], append([]Interval{iv}, s.intervals[j:]...)...)
}

// Contains reports whether off is in the set.
func (s *IntegerSet) Contains(off int) bool {
	i := sort.Search(len(s.intervals), func(k int) bool {
		return s.intervals[k].End >= off
	})
	return i < len(s.intervals) && s.intervals[i].Start <= off
}

// Intervals returns a copy of the set's intervals in ascending order.
func (s *IntegerSet) Intervals() []Interval {
	return append([]Interval(nil), s.intervals...)
}

func (s *IntegerSet) String() string {
	parts := make([]string, len(s.intervals))
	for k, iv := range s.intervals {
		parts[k] = iv.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
