package lateness

import (
	"fmt"
	"time"
)

// Classify compares an actual completion date against a due date and returns
// the label stored on the issue record, e.g. "On Time (2 Day)" or
// "Late Time (5 Day)". Completing exactly on the due date counts as on time.
//
// Either date missing (nil or zero) yields an empty string: no classification
// is possible until both dates are set.
func Classify(complete, due *time.Time) string {
	if complete == nil || due == nil {
		return ""
	}
	if complete.IsZero() || due.IsZero() {
		return ""
	}

	// Whole days, truncated toward zero. A completion 36h late is 1 day late.
	diff := int(complete.Sub(*due).Hours() / 24)

	if diff <= 0 {
		return fmt.Sprintf("On Time (%d Day)", -diff)
	}
	return fmt.Sprintf("Late Time (%d Day)", diff)
}
