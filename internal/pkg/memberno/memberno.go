// Package memberno formats and parses SESI membership numbers.
//
// The textual form SESI-<yyyy>-<seq> is shown to members and read back by the
// allocator, so it must stay stable. The sequence is zero-padded to four
// digits and widens instead of truncating once a year passes 9999 approvals.
package memberno

import (
	"fmt"
	"strconv"
	"strings"
)

// Prefix is the society code every membership number starts with.
const Prefix = "SESI"

const (
	yearDigits = 4
	minSeqLen  = 4
)

// Number is a parsed membership number.
type Number struct {
	Year     int
	Sequence int
}

// String formats the number, e.g. SESI-2025-0007.
func (n Number) String() string {
	return Format(n.Year, n.Sequence)
}

// Format builds SESI-<year>-<seq>.
func Format(year, seq int) string {
	return fmt.Sprintf("%s-%04d-%0*d", Prefix, year, minSeqLen, seq)
}

// YearPrefix returns the "SESI-<year>-" prefix shared by every number of a year.
func YearPrefix(year int) string {
	return fmt.Sprintf("%s-%04d-", Prefix, year)
}

// Parse splits a membership number into year and sequence. Values that do not
// follow the SESI-<4 digit year>-<at least 4 digits> shape are rejected.
func Parse(s string) (Number, bool) {
	rest, ok := strings.CutPrefix(s, Prefix+"-")
	if !ok {
		return Number{}, false
	}

	yearPart, seqPart, ok := strings.Cut(rest, "-")
	if !ok || len(yearPart) != yearDigits || len(seqPart) < minSeqLen {
		return Number{}, false
	}
	if !allDigits(yearPart) || !allDigits(seqPart) {
		return Number{}, false
	}

	year, err := strconv.Atoi(yearPart)
	if err != nil {
		return Number{}, false
	}
	seq, err := strconv.Atoi(seqPart)
	if err != nil || seq < 1 {
		return Number{}, false
	}

	return Number{Year: year, Sequence: seq}, true
}

// MaxSequence returns the highest sequence among numbers issued in year.
// Non-conforming values and other years are skipped; zero means none.
func MaxSequence(numbers []string, year int) int {
	maxSeq := 0
	for _, s := range numbers {
		n, ok := Parse(s)
		if !ok || n.Year != year {
			continue
		}
		if n.Sequence > maxSeq {
			maxSeq = n.Sequence
		}
	}
	return maxSeq
}

// Next derives the number that follows the given set for year.
func Next(numbers []string, year int) string {
	return Format(year, MaxSequence(numbers, year)+1)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
