package handler

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// parseDate turns an optional "YYYY-MM-DD" form value into a *time.Time.
// Empty string means the date is absent, not an error.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return &t, nil
}
