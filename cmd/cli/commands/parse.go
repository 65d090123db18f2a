package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// deadlineLayout is the local time format accepted by setDeadline
const deadlineLayout = "2006-01-02 15:04"

// parseShiftList parses a comma separated list of shift IDs, e.g. "0, 5,12"
func parseShiftList(value string) ([]int, error) {
	if strings.TrimSpace(value) == "" {
		return []int{}, nil
	}

	parts := strings.Split(value, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("shift ID %q is not a number", strings.TrimSpace(part))
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// parseDeadline accepts RFC 3339 or a local "2006-01-02 15:04" time in loc
func parseDeadline(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	t, err := time.ParseInLocation(deadlineLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("deadline must be RFC 3339 or %q: %w", deadlineLayout, err)
	}

	return t, nil
}

// parseCommandLine splits a command line into arguments, respecting quoted strings
// Supports both single and double quotes
func parseCommandLine(line string) ([]string, error) {
	var args []string
	var current strings.Builder
	var inQuote rune // 0 if not in quote, '"' or '\'' if in quote

	for _, r := range line {
		switch {
		case inQuote != 0:
			if r == inQuote {
				inQuote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			inQuote = r
		case unicode.IsSpace(r):
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}

	if inQuote != 0 {
		return nil, fmt.Errorf("unclosed quote: %c", inQuote)
	}

	if current.Len() > 0 {
		args = append(args, current.String())
	}

	return args, nil
}
