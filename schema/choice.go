package schema

import "github.com/doug-martin/goqu/v9"

const (
	ChoiceTableName              = "choice"
	ChoiceTableIDColName         = "id"
	ChoiceTableQuestionIDColName = "question_id"
	ChoiceTableTextColName       = "text"
	ChoiceTablePositionColName   = "position"
)

var (
	ChoiceTable              = goqu.T(ChoiceTableName)
	ChoiceTableIDCol         = ChoiceTable.Col(ChoiceTableIDColName)
	ChoiceTableQuestionIDCol = ChoiceTable.Col(ChoiceTableQuestionIDColName)
	ChoiceTableTextCol       = ChoiceTable.Col(ChoiceTableTextColName)
	ChoiceTablePositionCol   = ChoiceTable.Col(ChoiceTablePositionColName)
)

type ChoiceRow struct {
	ID         int64  `db:"id"`
	QuestionID int64  `db:"question_id"`
	Text       string `db:"text"`
	Position   int32  `db:"position"`
}
