package dashboard

import (
	"testing"
	"time"
)

func TestDaysUntil(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		examDate string
		want     int
	}{
		{"full timestamp", "2025-03-20T09:00:00", 10},
		{"date only", "2025-03-13", 3},
		{"exam in the past clamps to zero", "2025-01-01", 0},
		{"unparseable", "someday", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := daysUntil(tc.examDate, now); got != tc.want {
				t.Errorf("daysUntil(%q) = %d, want %d", tc.examDate, got, tc.want)
			}
		})
	}
}

func TestValidExamDate(t *testing.T) {
	for _, ok := range []string{"2025-03-13", "2026-02-05T09:00:00"} {
		if !validExamDate(ok) {
			t.Errorf("%q should be accepted", ok)
		}
	}
	for _, bad := range []string{"13/03/2025", "2025-03", "tomorrow"} {
		if validExamDate(bad) {
			t.Errorf("%q should be rejected", bad)
		}
	}
}
