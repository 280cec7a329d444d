package validation

// NotEmpty validator.
type NotEmpty struct{}

// IsValidString IsValidString.
func (s *NotEmpty) IsValidString(value string) ([]string, error) {
	if len(value) > 0 {
		return []string{}, nil
	}

	return []string{NotEmptyIsEmpty}, nil
}
