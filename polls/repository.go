package polls

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/autowp/gopolls/query"
	"github.com/autowp/gopolls/schema"
	"github.com/autowp/gopolls/validation"
	"github.com/doug-martin/goqu/v9"
)

const (
	// RecentlyPublishedWindow is the lookback used by WasPublishedRecently.
	RecentlyPublishedWindow = 24 * time.Hour

	QuestionTextMaxLength = 200
	ChoiceTextMaxLength   = 200

	DefaultListLimit = 5
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrChoiceNotFound   = errors.New("choice not found")
	ErrVotingClosed     = errors.New("voting is closed")
	ErrEndBeforePublish = errors.New("end date is before publish date")
	ErrNoChoices        = errors.New("question has no choices")
	ErrInvalidText      = errors.New("invalid text")
)

// Question is a poll question with its lifecycle predicates.
type Question struct {
	schema.QuestionRow
}

// IsPublished reports whether the question is visible at the given moment.
func (s *Question) IsPublished(now time.Time) bool {
	return !now.Before(s.PublishAt)
}

// WasPublishedRecently reports whether publish_at falls in [now-24h, now].
// Both boundaries are inclusive; a future publish_at always reads false.
func (s *Question) WasPublishedRecently(now time.Time) bool {
	lower := now.Add(-RecentlyPublishedWindow)

	return !s.PublishAt.Before(lower) && !s.PublishAt.After(now)
}

// CanVote reports whether votes are accepted at the given moment.
// Without an end date the voting window is open-ended.
func (s *Question) CanVote(now time.Time) bool {
	if !s.EndAt.Valid {
		return s.IsPublished(now)
	}

	return !s.PublishAt.After(now) && !s.EndAt.Time.Before(now)
}

// ChoiceResult is a choice with its derived vote count.
type ChoiceResult struct {
	schema.ChoiceRow
	Votes int64 `db:"votes"`
}

type Repository struct {
	db *goqu.Database
}

// NewRepository constructor.
func NewRepository(db *goqu.Database) *Repository {
	return &Repository{
		db: db,
	}
}

// List returns questions matching the given options.
func (s *Repository) List(ctx context.Context, options *query.QuestionListOptions) ([]*Question, error) {
	var rows []*Question

	err := options.Select(s.db, query.QuestionAlias).
		Select(
			goqu.T(query.QuestionAlias).Col(schema.QuestionTableIDColName),
			goqu.T(query.QuestionAlias).Col(schema.QuestionTableTextColName),
			goqu.T(query.QuestionAlias).Col(schema.QuestionTablePublishAtColName),
			goqu.T(query.QuestionAlias).Col(schema.QuestionTableEndAtColName),
		).
		ScanStructsContext(ctx, &rows)

	return rows, err
}

// Question returns a single question by id.
func (s *Repository) Question(ctx context.Context, id int64) (*Question, error) {
	var row Question

	success, err := s.db.Select(schema.QuestionTableIDCol, schema.QuestionTableTextCol,
		schema.QuestionTablePublishAtCol, schema.QuestionTableEndAtCol).
		From(schema.QuestionTable).
		Where(schema.QuestionTableIDCol.Eq(id)).
		ScanStructContext(ctx, &row)
	if err != nil {
		return nil, err
	}

	if !success {
		return nil, ErrQuestionNotFound
	}

	return &row, nil
}

// Choices returns the question's choices in display order.
func (s *Repository) Choices(ctx context.Context, questionID int64) ([]*schema.ChoiceRow, error) {
	var rows []*schema.ChoiceRow

	err := s.db.Select(schema.ChoiceTableIDCol, schema.ChoiceTableQuestionIDCol,
		schema.ChoiceTableTextCol, schema.ChoiceTablePositionCol).
		From(schema.ChoiceTable).
		Where(schema.ChoiceTableQuestionIDCol.Eq(questionID)).
		Order(schema.ChoiceTablePositionCol.Asc()).
		ScanStructsContext(ctx, &rows)

	return rows, err
}

// Results returns per-choice vote counts and the total. Counts are always
// derived from vote rows, never read from a stored counter.
func (s *Repository) Results(ctx context.Context, questionID int64) ([]*ChoiceResult, int64, error) {
	var rows []*ChoiceResult

	err := s.db.Select(schema.ChoiceTableIDCol, schema.ChoiceTableQuestionIDCol,
		schema.ChoiceTableTextCol, schema.ChoiceTablePositionCol,
		goqu.COUNT(schema.VoteTableChoiceIDCol).As("votes")).
		From(schema.ChoiceTable).
		LeftJoin(schema.VoteTable, goqu.On(
			schema.VoteTableChoiceIDCol.Eq(schema.ChoiceTableIDCol),
		)).
		Where(schema.ChoiceTableQuestionIDCol.Eq(questionID)).
		GroupBy(schema.ChoiceTableIDCol).
		Order(schema.ChoiceTablePositionCol.Asc()).
		ScanStructsContext(ctx, &rows)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	for _, row := range rows {
		total += row.Votes
	}

	return rows, total, nil
}

// UserVote returns the choice the user voted for, if any.
func (s *Repository) UserVote(ctx context.Context, userID, questionID int64) (int64, bool, error) {
	var row schema.VoteRow

	success, err := s.db.Select(schema.VoteTableUserIDCol, schema.VoteTableQuestionIDCol,
		schema.VoteTableChoiceIDCol, schema.VoteTableTimestampCol).
		From(schema.VoteTable).
		Where(
			schema.VoteTableUserIDCol.Eq(userID),
			schema.VoteTableQuestionIDCol.Eq(questionID),
		).
		ScanStructContext(ctx, &row)
	if err != nil {
		return 0, false, err
	}

	return row.ChoiceID, success, nil
}

// Vote records the user's vote for the question. A repeated vote replaces
// the previous choice. The write is a single upsert against the
// (user_id, question_id) unique key, so concurrent submissions cannot
// produce duplicate rows.
func (s *Repository) Vote(ctx context.Context, userID, questionID, choiceID int64) error {
	question, err := s.Question(ctx, questionID)
	if err != nil {
		return err
	}

	if !question.CanVote(time.Now()) {
		return ErrVotingClosed
	}

	var validChoiceID int64

	success, err := s.db.Select(schema.ChoiceTableIDCol).
		From(schema.ChoiceTable).
		Where(
			schema.ChoiceTableIDCol.Eq(choiceID),
			schema.ChoiceTableQuestionIDCol.Eq(questionID),
		).
		ScanValContext(ctx, &validChoiceID)
	if err != nil {
		return err
	}

	if !success {
		return ErrChoiceNotFound
	}

	ctx = context.WithoutCancel(ctx)

	_, err = s.db.Insert(schema.VoteTable).Rows(goqu.Record{
		schema.VoteTableUserIDColName:     userID,
		schema.VoteTableQuestionIDColName: questionID,
		schema.VoteTableChoiceIDColName:   choiceID,
		schema.VoteTableTimestampColName:  goqu.Func("NOW"),
	}).OnConflict(goqu.DoUpdate(
		schema.VoteTableQuestionIDColName,
		goqu.Record{
			schema.VoteTableChoiceIDColName:  choiceID,
			schema.VoteTableTimestampColName: goqu.Func("NOW"),
		},
	)).Executor().ExecContext(ctx)

	return err
}

// CreateQuestion inserts a question with its choices. End date, when
// given, must not precede the publish date.
func (s *Repository) CreateQuestion(
	ctx context.Context,
	text string,
	publishAt time.Time,
	endAt *time.Time,
	choices []string,
) (int64, error) {
	textInputFilter := validation.InputFilter{
		Filters: []validation.FilterInterface{&validation.StringTrimFilter{}, &validation.StringSingleSpaces{}},
		Validators: []validation.ValidatorInterface{
			&validation.NotEmpty{},
			&validation.StringLength{Min: 1, Max: QuestionTextMaxLength},
		},
	}

	text, problems, err := textInputFilter.IsValidString(text)
	if err != nil {
		return 0, err
	}

	if len(problems) > 0 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidText, strings.Join(problems, ", "))
	}

	if endAt != nil && endAt.Before(publishAt) {
		return 0, ErrEndBeforePublish
	}

	if len(choices) == 0 {
		return 0, ErrNoChoices
	}

	choiceInputFilter := validation.InputFilter{
		Filters: []validation.FilterInterface{&validation.StringTrimFilter{}, &validation.StringSingleSpaces{}},
		Validators: []validation.ValidatorInterface{
			&validation.NotEmpty{},
			&validation.StringLength{Min: 1, Max: ChoiceTextMaxLength},
		},
	}

	for idx, choice := range choices {
		choice, problems, err = choiceInputFilter.IsValidString(choice)
		if err != nil {
			return 0, err
		}

		if len(problems) > 0 {
			return 0, fmt.Errorf("%w: %s", ErrInvalidText, strings.Join(problems, ", "))
		}

		choices[idx] = choice
	}

	var questionID int64

	err = s.db.WithTx(func(tx *goqu.TxDatabase) error {
		record := goqu.Record{
			schema.QuestionTableTextColName:      text,
			schema.QuestionTablePublishAtColName: publishAt,
		}

		if endAt != nil {
			record[schema.QuestionTableEndAtColName] = *endAt
		}

		res, err := tx.Insert(schema.QuestionTable).Rows(record).Executor().ExecContext(ctx)
		if err != nil {
			return err
		}

		questionID, err = res.LastInsertId()
		if err != nil {
			return err
		}

		for idx, choice := range choices {
			_, err = tx.Insert(schema.ChoiceTable).Rows(goqu.Record{
				schema.ChoiceTableQuestionIDColName: questionID,
				schema.ChoiceTableTextColName:       choice,
				schema.ChoiceTablePositionColName:   idx + 1,
			}).Executor().ExecContext(ctx)
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return questionID, nil
}

// DeleteQuestion removes a question with its choices and votes. The
// cascade is spelled out here rather than left to the storage layer.
func (s *Repository) DeleteQuestion(ctx context.Context, id int64) error {
	question, err := s.Question(ctx, id)
	if err != nil {
		return err
	}

	return s.db.WithTx(func(tx *goqu.TxDatabase) error {
		_, err := tx.Delete(schema.VoteTable).
			Where(schema.VoteTableQuestionIDCol.Eq(question.ID)).
			Executor().ExecContext(ctx)
		if err != nil {
			return err
		}

		_, err = tx.Delete(schema.ChoiceTable).
			Where(schema.ChoiceTableQuestionIDCol.Eq(question.ID)).
			Executor().ExecContext(ctx)
		if err != nil {
			return err
		}

		_, err = tx.Delete(schema.QuestionTable).
			Where(schema.QuestionTableIDCol.Eq(question.ID)).
			Executor().ExecContext(ctx)

		return err
	})
}
