package issuecode

import (
	"errors"
	"testing"
	"time"
)

func june2025() time.Time {
	return time.Date(2025, time.June, 12, 9, 30, 0, 0, time.UTC)
}

func TestPrefix(t *testing.T) {
	tests := []struct {
		projectCode string
		now         time.Time
		want        string
	}{
		{"PRJ", june2025(), "PRJ-062025-"},
		{"LC", time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC), "LC-072024-"},
		{"X9", time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), "X9-122024-"},
	}

	for _, tt := range tests {
		if got := Prefix(tt.projectCode, tt.now); got != tt.want {
			t.Errorf("Prefix(%q, %v) = %q, want %q", tt.projectCode, tt.now, got, tt.want)
		}
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		code   string
		want   int
		wantOK bool
	}{
		{"PRJ-062025-001", 1, true},
		{"PRJ-062025-042", 42, true},
		{"PRJ-062025-999", 999, true},
		{"PRJ-062025-abc", 0, false},
		{"PRJ-062025-12", 0, false},
		{"PRJ-062025-1234", 0, false},
		{"PRJ-062025-", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, ok := Run(tt.code)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Run(%q) = (%d, %v), want (%d, %v)", tt.code, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNext(t *testing.T) {
	tests := []struct {
		name     string
		project  string
		existing []string
		now      time.Time
		want     string
	}{
		{
			name:     "empty project history",
			project:  "PRJ",
			existing: []string{},
			now:      june2025(),
			want:     "PRJ-062025-001",
		},
		{
			name:    "max plus one, gaps preserved, other months ignored",
			project: "PRJ",
			existing: []string{
				"PRJ-062025-001",
				"PRJ-062025-003",
				"PRJ-052025-999",
			},
			now:  june2025(),
			want: "PRJ-062025-004",
		},
		{
			name:     "first issue of a fresh month",
			project:  "LC",
			existing: nil,
			now:      time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC),
			want:     "LC-072024-001",
		},
		{
			name:    "malformed suffix skipped",
			project: "PRJ",
			existing: []string{
				"PRJ-062025-abc",
				"PRJ-062025-001",
				"PRJ-062025-002",
			},
			now:  june2025(),
			want: "PRJ-062025-003",
		},
		{
			name:    "other project with same month ignored",
			project: "PRJ",
			existing: []string{
				"OTHER-062025-008",
				"PRJ-062025-002",
			},
			now:  june2025(),
			want: "PRJ-062025-003",
		},
		{
			name:    "prefix match is case sensitive",
			project: "PRJ",
			existing: []string{
				"prj-062025-007",
			},
			now:  june2025(),
			want: "PRJ-062025-001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(tt.project, tt.existing, tt.now)
			if err != nil {
				t.Fatalf("Next() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Next() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNext_EmptyProjectCode(t *testing.T) {
	_, err := Next("", nil, june2025())
	if !errors.Is(err, ErrEmptyProjectCode) {
		t.Errorf("expected ErrEmptyProjectCode, got %v", err)
	}
}

func TestNext_NeverReusesGap(t *testing.T) {
	existing := []string{"PRJ-062025-005"}

	// 001-004 were deleted; the allocator must not refill them.
	got, err := Next("PRJ", existing, june2025())
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if got != "PRJ-062025-006" {
		t.Errorf("Next() = %q, want %q", got, "PRJ-062025-006")
	}
}
