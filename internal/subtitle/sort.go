package subtitle

import (
	"sort"
	"time"
)

// Sort orders records by start time, then end time. Ties keep their order.
func Sort(subs []Subtitle) {
	sort.SliceStable(subs, func(i, j int) bool {
		if subs[i].Start != subs[j].Start {
			return subs[i].Start < subs[j].Start
		}
		return subs[i].End < subs[j].End
	})
}

// Merge concatenates tracks and sorts the result.
func Merge(tracks ...[]Subtitle) []Subtitle {
	var n int
	for _, t := range tracks {
		n += len(t)
	}
	merged := make([]Subtitle, 0, n)
	for _, t := range tracks {
		merged = append(merged, t...)
	}
	Sort(merged)
	return merged
}

// Shift moves every record by offset in place.
func Shift(subs []Subtitle, offset time.Duration) {
	for i := range subs {
		subs[i].Start += offset
		subs[i].End += offset
	}
}

// Normalize clamps negative times, sorts, and gives every record a usable
// end: the start of the next record of the same kind, or start+defaultLen.
func Normalize(subs []Subtitle, defaultLen time.Duration) {
	for i := range subs {
		if subs[i].Start < 0 {
			subs[i].Start = 0
		}
		if subs[i].End < 0 {
			subs[i].End = 0
		}
	}

	Sort(subs)

	next := make(map[Kind]time.Duration)
	for i := len(subs) - 1; i >= 0; i-- {
		s := &subs[i]
		if s.End <= s.Start {
			if n, ok := next[s.Kind]; ok && n > s.Start {
				s.End = n
			} else {
				s.End = s.Start + defaultLen
			}
		}
		next[s.Kind] = s.Start
	}

	// filled ends can break the (Start, End) order among equal starts
	Sort(subs)
}
