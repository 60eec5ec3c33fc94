package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	log "github.com/sirupsen/logrus"
)

var Log = logrus.New()

func SetLogLevel(level string) {
	// We are not using logrus' trace and panic levels
	switch strings.ToLower(level) {
	case "debug":
		Log.SetLevel(log.DebugLevel)
	case "info":
		Log.SetLevel(log.InfoLevel)
	case "warning", "warn":
		Log.SetLevel(log.WarnLevel)
	case "error":
		Log.SetLevel(log.ErrorLevel)
	case "fatal":
		Log.SetLevel(log.FatalLevel)
	default:
		log.Fatal("Bad error level string")
	}
}

// ParseRangeString parses a game range string like "1,3,5-10,20" into a set
// of integers. Ranges are inclusive.
func ParseRangeString(rangeStr string) (map[int]bool, error) {
	result := make(map[int]bool)

	if strings.TrimSpace(rangeStr) == "" {
		return result, nil
	}

	for _, part := range strings.Split(rangeStr, ",") {
		part = strings.TrimSpace(part)

		if strings.Contains(part, "-") {
			rangeParts := strings.Split(part, "-")
			if len(rangeParts) != 2 {
				return nil, fmt.Errorf("invalid range syntax: %q, expected format: 'start-end'", part)
			}

			start, err := strconv.Atoi(strings.TrimSpace(rangeParts[0]))
			if err != nil {
				return nil, fmt.Errorf("invalid range syntax: %q, start and end must be integers", part)
			}
			end, err := strconv.Atoi(strings.TrimSpace(rangeParts[1]))
			if err != nil {
				return nil, fmt.Errorf("invalid range syntax: %q, start and end must be integers", part)
			}

			if start > end {
				return nil, fmt.Errorf("invalid range: %d-%d, start must be <= end", start, end)
			}

			for i := start; i <= end; i++ {
				result[i] = true
			}
		} else {
			num, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid number: %q", part)
			}
			result[num] = true
		}
	}

	return result, nil
}

// FormatBytes formats a byte size in human-readable form.
func FormatBytes(size int64) string {
	s := float64(size)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if s < 1024.0 {
			return fmt.Sprintf("%.1f%s", s, unit)
		}
		s /= 1024.0
	}
	return fmt.Sprintf("%.1fTB", s)
}
