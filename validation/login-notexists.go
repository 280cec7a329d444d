package validation

import (
	"github.com/autowp/gopolls/schema"
	"github.com/doug-martin/goqu/v9"
)

// LoginNotExists validator.
type LoginNotExists struct {
	DB *goqu.Database
}

// IsValidString IsValidString.
func (s *LoginNotExists) IsValidString(value string) ([]string, error) {
	var exists bool

	success, err := s.DB.Select(goqu.V(1)).
		From(schema.UserTable).
		Where(schema.UserTableLoginCol.Eq(value)).
		ScanVal(&exists)
	if err != nil {
		return nil, err
	}

	if !success {
		return []string{}, nil
	}

	return []string{LoginNotExistsExists}, nil
}
