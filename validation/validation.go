package validation

const (
	NotEmptyIsEmpty           = "Value is required and can't be empty"
	EmailAddressInvalidFormat = "The input is not a valid email address"
	StringLengthTooShort      = "The input is less than %d characters long"
	StringLengthTooLong       = "The input is more than %d characters long"
	EmailNotExistsExists      = "E-mail already registered"
	LoginNotExistsExists      = "Login already taken"
	IdenticalStringsNotSame   = "The two given tokens do not match"
)

type FilterInterface interface {
	FilterString(value string) string
}

type ValidatorInterface interface {
	IsValidString(value string) ([]string, error)
}

type InputFilter struct {
	Filters    []FilterInterface
	Validators []ValidatorInterface
}

// IsValidString applies filters, then validators. The first failing
// validator short-circuits the chain.
func (s *InputFilter) IsValidString(value string) (string, []string, error) {
	value = filterString(value, s.Filters)

	violations, err := validateString(value, s.Validators)
	if err != nil {
		return "", nil, err
	}

	return value, violations, nil
}

func filterString(value string, filters []FilterInterface) string {
	for _, filter := range filters {
		value = filter.FilterString(value)
	}

	return value
}

func validateString(value string, validators []ValidatorInterface) ([]string, error) {
	result := make([]string, 0)

	for _, validator := range validators {
		violations, err := validator.IsValidString(value)
		if err != nil {
			return nil, err
		}

		if len(violations) > 0 {
			return violations, nil
		}
	}

	return result, nil
}
