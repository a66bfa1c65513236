// Package issuecode derives issue codes of the form PRJ-MMYYYY-001: a project
// code, the allocation month, and a three digit run number unique within that
// project and month. Run numbers are never reused after a deletion; allocation
// always takes max(existing)+1.
package issuecode

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrEmptyProjectCode = errors.New("project code is empty")

// runSuffix matches the trailing run segment: a dash followed by exactly
// three digits at the end of the code.
var runSuffix = regexp.MustCompile(`-(\d{3})$`)

// Prefix builds the project-month prefix, e.g. "PRJ-062025-".
func Prefix(projectCode string, now time.Time) string {
	return fmt.Sprintf("%s-%02d%d-", projectCode, int(now.Month()), now.Year())
}

// Run extracts the run number from a well-formed issue code.
// Returns false for codes whose suffix is not exactly three digits.
func Run(code string) (int, bool) {
	m := runSuffix.FindStringSubmatch(code)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Next computes the next unused issue code for the project in the month of
// now, scanning existing codes for the highest run under the same prefix.
// Codes for other months are ignored; malformed codes are skipped rather than
// failing the allocation. Gaps left by deletions are never refilled.
func Next(projectCode string, existing []string, now time.Time) (string, error) {
	if projectCode == "" {
		return "", ErrEmptyProjectCode
	}

	prefix := Prefix(projectCode, now)

	maxRun := 0
	for _, code := range existing {
		if !strings.HasPrefix(code, prefix) {
			continue
		}
		run, ok := Run(code)
		if !ok {
			continue
		}
		if run > maxRun {
			maxRun = run
		}
	}

	return fmt.Sprintf("%s%03d", prefix, maxRun+1), nil
}
