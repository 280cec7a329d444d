package validation

import "strings"

// StringTrimFilter filter.
type StringTrimFilter struct{}

// FilterString FilterString.
func (s *StringTrimFilter) FilterString(value string) string {
	return strings.TrimSpace(value)
}
