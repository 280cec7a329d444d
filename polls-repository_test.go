package gopolls

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/autowp/gopolls/polls"
	"github.com/autowp/gopolls/users"
	"github.com/stretchr/testify/require"
)

func createUser(t *testing.T, container *Container) int64 {
	t.Helper()

	repository, err := container.UsersRepository()
	require.NoError(t, err)

	login := fmt.Sprintf("voter%d", time.Now().UnixNano())

	userID, violations, err := repository.CreateUser(context.Background(), users.CreateUserOptions{
		Login:           login,
		Email:           login + "@example.com",
		Password:        "FatChance!",
		PasswordConfirm: "FatChance!",
	}, "127.0.0.1")
	require.NoError(t, err)
	require.Empty(t, violations)

	return userID
}

func TestDeleteQuestionCascades(t *testing.T) {
	container := createContainer(t)

	ctx := context.Background()

	repository, err := container.PollsRepository()
	require.NoError(t, err)

	question, choiceIDs := createQuestion(t, container, -time.Hour, nil)
	userID := createUser(t, container)

	err = repository.Vote(ctx, userID, question.ID, choiceIDs[0])
	require.NoError(t, err)

	err = repository.DeleteQuestion(ctx, question.ID)
	require.NoError(t, err)

	_, err = repository.Question(ctx, question.ID)
	require.ErrorIs(t, err, polls.ErrQuestionNotFound)

	choices, err := repository.Choices(ctx, question.ID)
	require.NoError(t, err)
	require.Empty(t, choices)

	_, hasVoted, err := repository.UserVote(ctx, userID, question.ID)
	require.NoError(t, err)
	require.False(t, hasVoted)
}

func TestDeleteQuestionUnknown(t *testing.T) {
	container := createContainer(t)

	repository, err := container.PollsRepository()
	require.NoError(t, err)

	err = repository.DeleteQuestion(context.Background(), 999999999)
	require.ErrorIs(t, err, polls.ErrQuestionNotFound)
}

func TestCreateQuestionRejectsEndBeforePublish(t *testing.T) {
	container := createContainer(t)

	repository, err := container.PollsRepository()
	require.NoError(t, err)

	publishAt := time.Now()
	endAt := publishAt.Add(-time.Hour)

	_, err = repository.CreateQuestion(context.Background(), "Question", publishAt, &endAt,
		[]string{"Choice 1"})
	require.ErrorIs(t, err, polls.ErrEndBeforePublish)
}

func TestCreateQuestionRequiresChoices(t *testing.T) {
	container := createContainer(t)

	repository, err := container.PollsRepository()
	require.NoError(t, err)

	_, err = repository.CreateQuestion(context.Background(), "Question", time.Now(), nil, nil)
	require.ErrorIs(t, err, polls.ErrNoChoices)
}

func TestCreateQuestionRejectsBlankText(t *testing.T) {
	container := createContainer(t)

	repository, err := container.PollsRepository()
	require.NoError(t, err)

	_, err = repository.CreateQuestion(context.Background(), "   ", time.Now(), nil,
		[]string{"Choice 1"})
	require.ErrorIs(t, err, polls.ErrInvalidText)
}

func TestCreateQuestionRejectsOverlongText(t *testing.T) {
	container := createContainer(t)

	repository, err := container.PollsRepository()
	require.NoError(t, err)

	text := strings.Repeat("x", polls.QuestionTextMaxLength+1)

	_, err = repository.CreateQuestion(context.Background(), text, time.Now(), nil,
		[]string{"Choice 1"})
	require.ErrorIs(t, err, polls.ErrInvalidText)
}

func TestCreateQuestionRejectsBlankChoice(t *testing.T) {
	container := createContainer(t)

	repository, err := container.PollsRepository()
	require.NoError(t, err)

	_, err = repository.CreateQuestion(context.Background(), "Question", time.Now(), nil,
		[]string{"Choice 1", "  "})
	require.ErrorIs(t, err, polls.ErrInvalidText)
}
