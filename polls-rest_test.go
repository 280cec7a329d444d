package gopolls

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/autowp/gopolls/config"
	"github.com/autowp/gopolls/polls"
	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/require"
)

func createContainer(t *testing.T) *Container {
	t.Helper()

	cfg := config.LoadConfig(".")
	cfg.MockEmailSender = true
	cfg.Recaptcha.Enabled = false

	gin.SetMode(gin.TestMode)

	container := NewContainer(cfg)

	err := applyMigrations(cfg.Migrations)
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		require.NoError(t, err)
	}

	return container
}

func createRouter(t *testing.T, container *Container) *gin.Engine {
	t.Helper()

	router, err := container.PublicRouter()
	require.NoError(t, err)

	return router
}

func createQuestion(
	t *testing.T, container *Container, publishOffset time.Duration, endOffset *time.Duration,
) (*polls.Question, []int64) {
	t.Helper()

	ctx := context.Background()

	repository, err := container.PollsRepository()
	require.NoError(t, err)

	var endAt *time.Time

	if endOffset != nil {
		value := time.Now().Add(*endOffset)
		endAt = &value
	}

	text := fmt.Sprintf("Question %d", time.Now().UnixNano())

	questionID, err := repository.CreateQuestion(ctx, text, time.Now().Add(publishOffset), endAt,
		[]string{"Choice 1", "Choice 2"})
	require.NoError(t, err)

	question, err := repository.Question(ctx, questionID)
	require.NoError(t, err)

	choices, err := repository.Choices(ctx, questionID)
	require.NoError(t, err)
	require.Len(t, choices, 2)

	choiceIDs := make([]int64, len(choices))
	for idx, choice := range choices {
		choiceIDs[idx] = choice.ID
	}

	return question, choiceIDs
}

func signupUser(t *testing.T, router *gin.Engine) (*http.Cookie, string) {
	t.Helper()

	login := fmt.Sprintf("user%d", time.Now().UnixNano())

	form := url.Values{
		"username":         {login},
		"email":            {login + "@example.com"},
		"password":         {"FatChance!"},
		"password_confirm": {"FatChance!"},
	}

	req := httptest.NewRequest(http.MethodPost, "/accounts/signup", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusFound, resp.Code)
	require.NotEmpty(t, resp.Result().Cookies())

	return resp.Result().Cookies()[0], login
}

func getWithCookie(router *gin.Engine, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	return resp
}

func postVote(
	router *gin.Engine, questionID int64, choice string, cookie *http.Cookie,
) *httptest.ResponseRecorder {
	form := url.Values{}
	if choice != "" {
		form.Set("choice", choice)
	}

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/polls/%d/vote/", questionID),
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	return resp
}

func TestIndexListsOnlyPublishedQuestions(t *testing.T) {
	container := createContainer(t)
	router := createRouter(t, container)

	published, _ := createQuestion(t, container, -time.Hour, nil)
	future, _ := createQuestion(t, container, time.Hour, nil)

	resp := getWithCookie(router, "/polls/", nil)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), published.Text)
	require.NotContains(t, resp.Body.String(), future.Text)
}

func TestIndexTruncatesToListLimit(t *testing.T) {
	container := createContainer(t)
	router := createRouter(t, container)

	limit := int(container.Config().Polls.ListLimit)
	require.Positive(t, limit)

	// one more than fits the page, newest first
	texts := make([]string, limit+1)
	for idx := range texts {
		question, _ := createQuestion(t, container, -time.Duration(idx+1)*time.Second, nil)
		texts[idx] = question.Text
	}

	resp := getWithCookie(router, "/polls/", nil)

	require.Equal(t, http.StatusOK, resp.Code)

	for _, text := range texts[:limit] {
		require.Contains(t, resp.Body.String(), text)
	}

	require.NotContains(t, resp.Body.String(), texts[limit])
}

func TestIndexShowsSignedInUser(t *testing.T) {
	container := createContainer(t)
	router := createRouter(t, container)

	cookie, login := signupUser(t, router)

	resp := getWithCookie(router, "/polls/", cookie)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "Logged in as "+login)

	resp = getWithCookie(router, "/polls/", nil)

	require.Equal(t, http.StatusOK, resp.Code)
	require.NotContains(t, resp.Body.String(), "Logged in as")
}

func TestDetailRequiresAuthentication(t *testing.T) {
	container := createContainer(t)
	router := createRouter(t, container)

	question, _ := createQuestion(t, container, -time.Hour, nil)

	resp := getWithCookie(router, fmt.Sprintf("/polls/%d/", question.ID), nil)

	require.Equal(t, http.StatusFound, resp.Code)
	require.Equal(t,
		"/accounts/login?next="+url.QueryEscape(fmt.Sprintf("/polls/%d/", question.ID)),
		resp.Header().Get("Location"))
}

func TestDetailUnknownQuestion(t *testing.T) {
	container := createContainer(t)
	router := createRouter(t, container)

	cookie, _ := signupUser(t, router)

	resp := getWithCookie(router, "/polls/999999999/", cookie)

	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDetailClosedQuestionHiddenFromNonVoter(t *testing.T) {
	container := createContainer(t)
	router := createRouter(t, container)

	endOffset := -24 * time.Hour
	question, _ := createQuestion(t, container, -48*time.Hour, &endOffset)

	cookie, _ := signupUser(t, router)

	resp := getWithCookie(router, fmt.Sprintf("/polls/%d/", question.ID), cookie)

	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDetailStaysVisibleForVoterAfterClose(t *testing.T) {
	container := createContainer(t)
	router := createRouter(t, container)

	endOffset := time.Minute
	question, choiceIDs := createQuestion(t, container, -time.Hour, &endOffset)

	cookie, _ := signupUser(t, router)

	resp := postVote(router, question.ID, fmt.Sprintf("%d", choiceIDs[0]), cookie)
	require.Equal(t, http.StatusFound, resp.Code)

	resp = getWithCookie(router, fmt.Sprintf("/polls/%d/", question.ID), cookie)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "checked")
}

func TestVoteLifecycle(t *testing.T) {
	container := createContainer(t)
	router := createRouter(t, container)

	question, choiceIDs := createQuestion(t, container, -time.Hour, nil)
	cookie, _ := signupUser(t, router)

	resp := postVote(router, question.ID, fmt.Sprintf("%d", choiceIDs[0]), cookie)
	require.Equal(t, http.StatusFound, resp.Code)
	require.Equal(t, fmt.Sprintf("/polls/%d/results/", question.ID), resp.Header().Get("Location"))

	repository, err := container.PollsRepository()
	require.NoError(t, err)

	results, total, err := repository.Results(context.Background(), question.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, int64(1), results[0].Votes)
	require.Equal(t, int64(0), results[1].Votes)

	// a second vote replaces the first instead of adding a row
	resp = postVote(router, question.ID, fmt.Sprintf("%d", choiceIDs[1]), cookie)
	require.Equal(t, http.StatusFound, resp.Code)

	results, total, err = repository.Results(context.Background(), question.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, int64(0), results[0].Votes)
	require.Equal(t, int64(1), results[1].Votes)
}

func TestVoteWithoutChoiceRedisplaysForm(t *testing.T) {
	container := createContainer(t)
	router := createRouter(t, container)

	question, _ := createQuestion(t, container, -time.Hour, nil)
	cookie, _ := signupUser(t, router)

	resp := postVote(router, question.ID, "", cookie)

	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	require.Contains(t, resp.Body.String(), "select a choice")

	repository, err := container.PollsRepository()
	require.NoError(t, err)

	_, total, err := repository.Results(context.Background(), question.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), total)
}

func TestVoteForeignChoiceRedisplaysForm(t *testing.T) {
	container := createContainer(t)
	router := createRouter(t, container)

	question, _ := createQuestion(t, container, -time.Hour, nil)
	_, otherChoiceIDs := createQuestion(t, container, -time.Hour, nil)

	cookie, _ := signupUser(t, router)

	resp := postVote(router, question.ID, fmt.Sprintf("%d", otherChoiceIDs[0]), cookie)

	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	require.Contains(t, resp.Body.String(), "select a choice")
}

func TestVoteOnClosedQuestion(t *testing.T) {
	container := createContainer(t)
	router := createRouter(t, container)

	endOffset := -24 * time.Hour
	question, choiceIDs := createQuestion(t, container, -48*time.Hour, &endOffset)

	cookie, _ := signupUser(t, router)

	resp := postVote(router, question.ID, fmt.Sprintf("%d", choiceIDs[0]), cookie)

	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestVoteRequiresAuthentication(t *testing.T) {
	container := createContainer(t)
	router := createRouter(t, container)

	question, choiceIDs := createQuestion(t, container, -time.Hour, nil)

	resp := postVote(router, question.ID, fmt.Sprintf("%d", choiceIDs[0]), nil)

	require.Equal(t, http.StatusFound, resp.Code)
	require.Contains(t, resp.Header().Get("Location"), "/accounts/login?next=")

	repository, err := container.PollsRepository()
	require.NoError(t, err)

	_, total, err := repository.Results(context.Background(), question.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), total)
}

func TestResultsArePublic(t *testing.T) {
	container := createContainer(t)
	router := createRouter(t, container)

	question, _ := createQuestion(t, container, -time.Hour, nil)

	resp := getWithCookie(router, fmt.Sprintf("/polls/%d/results/", question.ID), nil)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "Total votes")
}

func TestResultsUnknownQuestion(t *testing.T) {
	container := createContainer(t)
	router := createRouter(t, container)

	resp := getWithCookie(router, "/polls/999999999/results/", nil)

	require.Equal(t, http.StatusNotFound, resp.Code)
}
