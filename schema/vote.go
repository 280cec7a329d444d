package schema

import (
	"time"

	"github.com/doug-martin/goqu/v9"
)

const (
	VoteTableName              = "vote"
	VoteTableUserIDColName     = "user_id"
	VoteTableQuestionIDColName = "question_id"
	VoteTableChoiceIDColName   = "choice_id"
	VoteTableTimestampColName  = "timestamp"
)

var (
	VoteTable              = goqu.T(VoteTableName)
	VoteTableUserIDCol     = VoteTable.Col(VoteTableUserIDColName)
	VoteTableQuestionIDCol = VoteTable.Col(VoteTableQuestionIDColName)
	VoteTableChoiceIDCol   = VoteTable.Col(VoteTableChoiceIDColName)
	VoteTableTimestampCol  = VoteTable.Col(VoteTableTimestampColName)
)

type VoteRow struct {
	UserID     int64     `db:"user_id"`
	QuestionID int64     `db:"question_id"`
	ChoiceID   int64     `db:"choice_id"`
	Timestamp  time.Time `db:"timestamp"`
}
