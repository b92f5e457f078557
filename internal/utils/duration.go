package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var durationRegex = regexp.MustCompile(`^(\d+)([smhd])$`)

// ParseDuration reads short human durations like "30s", "10m", "2h" or "7d".
func ParseDuration(input string) (time.Duration, error) {
	match := durationRegex.FindStringSubmatch(input)
	if match == nil {
		return 0, fmt.Errorf("invalid duration %q (expected forms like 30s, 10m, 2h, 7d)", input)
	}

	value, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", input, err)
	}

	switch match[2] {
	case "s":
		return time.Duration(value) * time.Second, nil
	case "m":
		return time.Duration(value) * time.Minute, nil
	case "h":
		return time.Duration(value) * time.Hour, nil
	case "d":
		return time.Duration(value) * 24 * time.Hour, nil
	}
	return 0, fmt.Errorf("invalid duration unit %q", match[2])
}

// FormatDuration renders a duration in the largest sensible unit for user
// facing cooldown messages.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()+0.5))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}
