package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseWindow parses trigger metadata into a positive duration.
//
// Accepted forms:
//   - Go duration strings: "24h", "90m", "1h30m"
//   - clock spans: "HH:MM:SS" ("24:00:00" means 24 hours)
//   - clock spans with a day part: "D.HH:MM:SS" ("1.12:00:00")
func ParseWindow(raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("empty trigger window")
	}

	if d, err := time.ParseDuration(s); err == nil {
		if d <= 0 {
			return 0, fmt.Errorf("trigger window must be positive, got %q", raw)
		}
		return d, nil
	}

	d, err := parseClockSpan(s)
	if err != nil {
		return 0, fmt.Errorf("invalid trigger window %q: %w", raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("trigger window must be positive, got %q", raw)
	}
	return d, nil
}

func parseClockSpan(s string) (time.Duration, error) {
	days := 0
	rest := s
	if i := strings.IndexByte(s, '.'); i >= 0 {
		var err error
		days, err = strconv.Atoi(s[:i])
		if err != nil || days < 0 {
			return 0, fmt.Errorf("bad day part %q", s[:i])
		}
		rest = s[i+1:]
	}

	parts := strings.Split(rest, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("expected HH:MM:SS")
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 {
		return 0, fmt.Errorf("bad hour %q", parts[0])
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("bad minute %q", parts[1])
	}
	sec, err := strconv.Atoi(parts[2])
	if err != nil || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("bad second %q", parts[2])
	}

	return time.Duration(days)*24*time.Hour +
		time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(sec)*time.Second, nil
}
