package scheduling

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 string
		want           bool
	}{
		{"nested", "2024-01-01", "2024-01-10", "2024-01-03", "2024-01-05", true},
		{"partial", "2024-01-01", "2024-01-10", "2024-01-05", "2024-01-15", true},
		{"touching endpoints count", "2024-01-01", "2024-01-10", "2024-01-10", "2024-01-20", true},
		{"adjacent days do not", "2024-01-01", "2024-01-05", "2024-01-06", "2024-01-10", false},
		{"disjoint", "2024-01-01", "2024-01-05", "2024-02-01", "2024-02-05", false},
		{"same single day", "2024-01-05", "2024-01-05", "2024-01-05", "2024-01-05", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(day(tt.s1), day(tt.e1), day(tt.s2), day(tt.e2))
			if got != tt.want {
				t.Errorf("Overlaps(%s..%s, %s..%s) = %v, want %v",
					tt.s1, tt.e1, tt.s2, tt.e2, got, tt.want)
			}
		})
	}
}

func TestOverlaps_IgnoresTimeOfDay(t *testing.T) {
	// a store binding may hand back timestamps; only the date matters
	s1 := day("2024-01-10").Add(23 * time.Hour)
	e2 := day("2024-01-10").Add(1 * time.Hour)
	if !Overlaps(s1, day("2024-01-20"), day("2024-01-01"), e2) {
		t.Error("expected overlap on the shared calendar day")
	}
}

func TestOverlapPercent(t *testing.T) {
	// 4 overlapping days over a 14-day span
	got := overlapPercent(day("2024-01-01"), day("2024-01-10"), day("2024-01-06"), day("2024-01-15"))
	want := 4.0 / 14.0 * 100
	if got < want-0.01 || got > want+0.01 {
		t.Errorf("overlapPercent = %v, want ~%v", got, want)
	}

	if got := overlapPercent(day("2024-01-05"), day("2024-01-05"), day("2024-01-05"), day("2024-01-05")); got != 100 {
		t.Errorf("single shared day should be 100%%, got %v", got)
	}
}
