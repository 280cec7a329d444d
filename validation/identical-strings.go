package validation

// IdenticalStrings validator.
type IdenticalStrings struct {
	Pattern string
}

// IsValidString IsValidString.
func (s *IdenticalStrings) IsValidString(value string) ([]string, error) {
	if value != s.Pattern {
		return []string{IdenticalStringsNotSame}, nil
	}

	return []string{}, nil
}
