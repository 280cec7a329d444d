package validation

import "github.com/dpapathanasiou/go-recaptcha"

// Recaptcha validator.
type Recaptcha struct {
	ClientIP string
}

// IsValidString IsValidString.
func (s *Recaptcha) IsValidString(value string) ([]string, error) {
	success, err := recaptcha.Confirm(s.ClientIP, value)
	if err != nil {
		return []string{err.Error()}, nil //nolint:nilerr
	}

	if !success {
		return []string{"Captcha check failed"}, nil
	}

	return []string{}, nil
}
