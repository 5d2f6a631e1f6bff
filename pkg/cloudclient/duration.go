package cloudclient

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"
)

var (
	errEmptyDuration    = errors.New("empty duration")
	errNegativeDuration = errors.New("negative duration")
	errMissingUnit      = errors.New("missing unit")
	errDurationOverflow = errors.New("duration out of range")
)

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 2_630_016 * time.Second  // 30.44 days
	year  = 31_557_600 * time.Second // 365.25 days
)

var durationUnits = map[string]time.Duration{
	"nsec": time.Nanosecond, "ns": time.Nanosecond, "nanos": time.Nanosecond,
	"usec": time.Microsecond, "us": time.Microsecond, "µs": time.Microsecond,
	"msec": time.Millisecond, "ms": time.Millisecond, "millis": time.Millisecond,
	"seconds": time.Second, "second": time.Second, "secs": time.Second, "sec": time.Second, "s": time.Second,
	"minutes": time.Minute, "minute": time.Minute, "mins": time.Minute, "min": time.Minute, "m": time.Minute,
	"hours": time.Hour, "hour": time.Hour, "hrs": time.Hour, "hr": time.Hour, "h": time.Hour,
	"days": day, "day": day, "d": day,
	"weeks": week, "week": week, "w": week,
	"months": month, "month": month, "M": month,
	"years": year, "year": year, "y": year,
}

// ParseDuration parses a duration written either in Go syntax ("90s",
// "1m30s") or as a sequence of number and unit pairs ("90 seconds",
// "1 min 30 sec", "2h", "1 day"). A number without a unit is rejected,
// except for "0".
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errEmptyDuration
	}

	if d, err := time.ParseDuration(s); err == nil {
		if d < 0 {
			return 0, errNegativeDuration
		}

		return d, nil
	}

	return parseHumanDuration(s)
}

func parseHumanDuration(s string) (time.Duration, error) {
	var total time.Duration

	rest := []rune(s)
	for len(rest) > 0 {
		rest = trimSpaceRunes(rest)
		if len(rest) == 0 {
			break
		}

		n := 0
		for n < len(rest) && isASCIIDigit(rest[n]) {
			n++
		}

		if n == 0 {
			return 0, fmt.Errorf("expected number at %q", string(rest))
		}

		var value int64
		for _, r := range rest[:n] {
			if value > (math.MaxInt64-int64(r-'0'))/10 {
				return 0, errDurationOverflow
			}

			value = value*10 + int64(r-'0')
		}

		rest = trimSpaceRunes(rest[n:])

		u := 0
		for u < len(rest) && (unicode.IsLetter(rest[u]) || rest[u] == 'µ') {
			u++
		}

		if u == 0 {
			return 0, errMissingUnit
		}

		name := string(rest[:u])
		unit, ok := durationUnits[name]
		if !ok {
			unit, ok = durationUnits[strings.ToLower(name)]
		}

		if !ok {
			return 0, fmt.Errorf("unknown unit %q", name)
		}

		if value > int64(math.MaxInt64/unit) {
			return 0, errDurationOverflow
		}

		part := time.Duration(value) * unit
		if total > math.MaxInt64-part {
			return 0, errDurationOverflow
		}

		total += part
		rest = rest[u:]
	}

	return total, nil
}

func isASCIIDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func trimSpaceRunes(r []rune) []rune {
	for len(r) > 0 && unicode.IsSpace(r[0]) {
		r = r[1:]
	}

	return r
}
