package lateness

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		complete *time.Time
		due      *time.Time
		want     string
	}{
		{"on due date", date(2024, time.January, 10), date(2024, time.January, 10), "On Time (0 Day)"},
		{"five days late", date(2024, time.January, 15), date(2024, time.January, 10), "Late Time (5 Day)"},
		{"three days early", date(2024, time.January, 7), date(2024, time.January, 10), "On Time (3 Day)"},
		{"one day late", date(2024, time.February, 1), date(2024, time.January, 31), "Late Time (1 Day)"},
		{"missing complete", nil, date(2024, time.January, 10), ""},
		{"missing due", date(2024, time.January, 10), nil, ""},
		{"both missing", nil, nil, ""},
		{"zero complete", &time.Time{}, date(2024, time.January, 10), ""},
		{"zero due", date(2024, time.January, 10), &time.Time{}, ""},
		{"across year boundary", date(2025, time.January, 2), date(2024, time.December, 30), "Late Time (3 Day)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.complete, tt.due); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassify_TruncatesPartialDays(t *testing.T) {
	due := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	// 36 hours late is one whole day late
	complete := due.Add(36 * time.Hour)
	if got := Classify(&complete, &due); got != "Late Time (1 Day)" {
		t.Errorf("36h late: got %q, want %q", got, "Late Time (1 Day)")
	}

	// 12 hours early truncates to zero days, still on time
	complete = due.Add(-12 * time.Hour)
	if got := Classify(&complete, &due); got != "On Time (0 Day)" {
		t.Errorf("12h early: got %q, want %q", got, "On Time (0 Day)")
	}

	// 12 hours late truncates to zero and counts as on time
	complete = due.Add(12 * time.Hour)
	if got := Classify(&complete, &due); got != "On Time (0 Day)" {
		t.Errorf("12h late: got %q, want %q", got, "On Time (0 Day)")
	}
}

func TestClassify_Idempotent(t *testing.T) {
	complete := date(2024, time.June, 20)
	due := date(2024, time.June, 15)

	first := Classify(complete, due)
	second := Classify(complete, due)
	if first != second {
		t.Errorf("Classify not idempotent: %q vs %q", first, second)
	}
}
