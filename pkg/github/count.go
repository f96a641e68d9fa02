package github

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidCount is returned by ParseCount for text that is not a count.
var ErrInvalidCount = errors.New("invalid count")

// ParseCount converts a human-readable counter such as "950", "1,024" or "1.2k"
// into an integer.
//
// A k or K suffix multiplies the decimal before it by 1000, rounding to the
// nearest integer; a malformed number before the suffix yields 0. Signed,
// exponent and out-of-range values return ErrInvalidCount, as does any other
// malformed text.
func ParseCount(text string) (int, error) {
	s := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidCount
	}

	if num, ok := strings.CutSuffix(s, "k"); ok {
		return thousands(num)
	}
	if num, ok := strings.CutSuffix(s, "K"); ok {
		return thousands(num)
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, ErrInvalidCount
	}
	return n, nil
}

func thousands(num string) (int, error) {
	num = strings.TrimSpace(num)
	if strings.ContainsAny(num, "+-eEpPxX") {
		return 0, ErrInvalidCount
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, nil
	}
	r := math.Round(f * 1000)
	if r >= float64(math.MaxInt) {
		return 0, ErrInvalidCount
	}
	return int(r), nil
}
