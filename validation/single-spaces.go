package validation

import (
	"regexp"
	"strings"
)

var spacesRegexp = regexp.MustCompile("[[:space:]]+")

// StringSingleSpaces filter.
type StringSingleSpaces struct{}

// FilterString FilterString.
func (s *StringSingleSpaces) FilterString(value string) string {
	if len(value) == 0 {
		return ""
	}

	value = strings.ReplaceAll(value, "\r", "")
	lines := strings.Split(value, "\n")
	out := make([]string, len(lines))

	for idx, line := range lines {
		out[idx] = spacesRegexp.ReplaceAllString(line, " ")
	}

	return strings.Join(out, "\n")
}
