package scheduling

import "time"

// toDate normalizes a timestamp to its UTC calendar date. Overlap checks
// compare whole days; time-of-day carried by a store binding is ignored.
func toDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Overlaps reports whether two closed date ranges intersect.
// Touching endpoints count as overlap. An inverted range is not
// rejected here; it simply never matches.
func Overlaps(start1, end1, start2, end2 time.Time) bool {
	s1, e1 := toDate(start1), toDate(end1)
	s2, e2 := toDate(start2), toDate(end2)
	return !s1.After(e2) && !s2.After(e1)
}

// overlapPercent returns the overlap of two ranges as a percentage of
// their combined span, matching how reservation clashes are ranked for
// display. Ranges collapsing to a single shared day count as full overlap.
func overlapPercent(start1, end1, start2, end2 time.Time) float64 {
	s1, e1 := toDate(start1), toDate(end1)
	s2, e2 := toDate(start2), toDate(end2)

	overlap := minTime(e1, e2).Sub(maxTime(s1, s2))
	total := maxTime(e1, e2).Sub(minTime(s1, s2))
	if total <= 0 {
		return 100
	}
	return float64(overlap) / float64(total) * 100
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
