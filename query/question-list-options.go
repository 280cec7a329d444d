package query

import (
	"time"

	"github.com/autowp/gopolls/schema"
	"github.com/doug-martin/goqu/v9"
)

const QuestionAlias = "q"

type QuestionListOptions struct {
	ID                   int64
	PublishedBefore      time.Time
	OrderByPublishAtDesc bool
	Limit                uint
}

func (s *QuestionListOptions) Clone() *QuestionListOptions {
	if s == nil {
		return nil
	}

	clone := *s

	return &clone
}

func (s *QuestionListOptions) Select(db *goqu.Database, alias string) *goqu.SelectDataset {
	return s.apply(
		alias,
		db.Select().From(schema.QuestionTable.As(alias)),
	)
}

func (s *QuestionListOptions) apply(alias string, sqSelect *goqu.SelectDataset) *goqu.SelectDataset {
	aliasTable := goqu.T(alias)

	if s.ID != 0 {
		sqSelect = sqSelect.Where(aliasTable.Col(schema.QuestionTableIDColName).Eq(s.ID))
	}

	if !s.PublishedBefore.IsZero() {
		sqSelect = sqSelect.Where(aliasTable.Col(schema.QuestionTablePublishAtColName).Lte(s.PublishedBefore))
	}

	if s.OrderByPublishAtDesc {
		sqSelect = sqSelect.Order(aliasTable.Col(schema.QuestionTablePublishAtColName).Desc())
	}

	if s.Limit > 0 {
		sqSelect = sqSelect.Limit(s.Limit)
	}

	return sqSelect
}
