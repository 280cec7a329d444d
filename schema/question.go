package schema

import (
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
)

const (
	QuestionTableName             = "question"
	QuestionTableIDColName        = "id"
	QuestionTableTextColName      = "text"
	QuestionTablePublishAtColName = "publish_at"
	QuestionTableEndAtColName     = "end_at"
)

var (
	QuestionTable             = goqu.T(QuestionTableName)
	QuestionTableIDCol        = QuestionTable.Col(QuestionTableIDColName)
	QuestionTableTextCol      = QuestionTable.Col(QuestionTableTextColName)
	QuestionTablePublishAtCol = QuestionTable.Col(QuestionTablePublishAtColName)
	QuestionTableEndAtCol     = QuestionTable.Col(QuestionTableEndAtColName)
)

type QuestionRow struct {
	ID        int64        `db:"id"`
	Text      string       `db:"text"`
	PublishAt time.Time    `db:"publish_at"`
	EndAt     sql.NullTime `db:"end_at"`
}
