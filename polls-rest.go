package gopolls

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/autowp/gopolls/polls"
	"github.com/autowp/gopolls/query"
	"github.com/autowp/gopolls/schema"
	"github.com/autowp/gopolls/users"
	"github.com/gin-gonic/gin"
)

const noChoiceSelectedMessage = "You didn't select a choice."

type PollsREST struct {
	auth           *Auth
	repository     *polls.Repository
	userRepository *users.Repository
	listLimit      uint
}

// NewPollsREST constructor.
func NewPollsREST(
	auth *Auth, repository *polls.Repository, userRepository *users.Repository, listLimit uint,
) *PollsREST {
	if listLimit == 0 {
		listLimit = polls.DefaultListLimit
	}

	return &PollsREST{
		auth:           auth,
		repository:     repository,
		userRepository: userRepository,
		listLimit:      listLimit,
	}
}

func (s *PollsREST) SetupRouter(router *gin.Engine) {
	group := router.Group("/polls")
	{
		group.GET("/", s.indexAction)
		group.GET("/:id/", s.detailAction)
		group.GET("/:id/results/", s.resultsAction)
		group.POST("/:id/vote/", s.voteAction)
	}
}

func (s *PollsREST) indexAction(ctx *gin.Context) {
	rows, err := s.repository.List(ctx.Request.Context(), &query.QuestionListOptions{
		PublishedBefore:      time.Now(),
		OrderByPublishAtDesc: true,
		Limit:                s.listLimit,
	})
	if err != nil {
		ctx.String(http.StatusInternalServerError, err.Error())

		return
	}

	user, err := s.currentUser(ctx)
	if err != nil {
		ctx.String(http.StatusInternalServerError, err.Error())

		return
	}

	ctx.HTML(http.StatusOK, "index.html", gin.H{
		"latestQuestionList": rows,
		"user":               user,
	})
}

// currentUser resolves the signed-in user for page headers. Guests and
// stale sessions yield nil.
func (s *PollsREST) currentUser(ctx *gin.Context) (*schema.UserRow, error) {
	userID, err := s.auth.UserID(ctx)
	if err != nil {
		return nil, err
	}

	if userID == 0 {
		return nil, nil //nolint:nilnil
	}

	user, err := s.userRepository.User(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, nil //nolint:nilnil
		}

		return nil, err
	}

	return user, nil
}

func (s *PollsREST) detailAction(ctx *gin.Context) {
	userID, err := s.auth.UserID(ctx)
	if err != nil {
		ctx.String(http.StatusInternalServerError, err.Error())

		return
	}

	if userID == 0 {
		RedirectToLogin(ctx)

		return
	}

	questionID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.Status(http.StatusNotFound)

		return
	}

	question, choices, err := s.questionWithChoices(ctx, questionID)
	if err != nil {
		if errors.Is(err, polls.ErrQuestionNotFound) {
			ctx.Status(http.StatusNotFound)

			return
		}

		ctx.String(http.StatusInternalServerError, err.Error())

		return
	}

	selectedChoiceID, hasVoted, err := s.repository.UserVote(ctx.Request.Context(), userID, questionID)
	if err != nil {
		ctx.String(http.StatusInternalServerError, err.Error())

		return
	}

	// A voter keeps read access after the window closes. For everyone
	// else a closed or unpublished poll is indistinguishable from a
	// missing one.
	if !hasVoted && !question.CanVote(time.Now()) {
		ctx.Status(http.StatusNotFound)

		return
	}

	s.renderDetail(ctx, question, choices, selectedChoiceID, hasVoted, "")
}

func (s *PollsREST) resultsAction(ctx *gin.Context) {
	questionID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.Status(http.StatusNotFound)

		return
	}

	question, err := s.repository.Question(ctx.Request.Context(), questionID)
	if err != nil {
		if errors.Is(err, polls.ErrQuestionNotFound) {
			ctx.Status(http.StatusNotFound)

			return
		}

		ctx.String(http.StatusInternalServerError, err.Error())

		return
	}

	results, totalVotes, err := s.repository.Results(ctx.Request.Context(), questionID)
	if err != nil {
		ctx.String(http.StatusInternalServerError, err.Error())

		return
	}

	ctx.HTML(http.StatusOK, "results.html", gin.H{
		"question":   question,
		"results":    results,
		"totalVotes": totalVotes,
	})
}

func (s *PollsREST) voteAction(ctx *gin.Context) {
	userID, err := s.auth.UserID(ctx)
	if err != nil {
		ctx.String(http.StatusInternalServerError, err.Error())

		return
	}

	if userID == 0 {
		RedirectToLogin(ctx)

		return
	}

	questionID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.Status(http.StatusNotFound)

		return
	}

	choiceID, err := strconv.ParseInt(ctx.PostForm("choice"), 10, 64)
	if err != nil {
		s.redisplayVoteForm(ctx, userID, questionID)

		return
	}

	err = s.repository.Vote(ctx.Request.Context(), userID, questionID, choiceID)

	switch {
	case err == nil:
		// Redirect-after-POST so back-navigation cannot resubmit.
		ctx.Redirect(http.StatusFound, fmt.Sprintf("/polls/%d/results/", questionID))
	case errors.Is(err, polls.ErrChoiceNotFound):
		s.redisplayVoteForm(ctx, userID, questionID)
	case errors.Is(err, polls.ErrQuestionNotFound), errors.Is(err, polls.ErrVotingClosed):
		ctx.Status(http.StatusNotFound)
	default:
		ctx.String(http.StatusInternalServerError, err.Error())
	}
}

func (s *PollsREST) redisplayVoteForm(ctx *gin.Context, userID, questionID int64) {
	question, choices, err := s.questionWithChoices(ctx, questionID)
	if err != nil {
		if errors.Is(err, polls.ErrQuestionNotFound) {
			ctx.Status(http.StatusNotFound)

			return
		}

		ctx.String(http.StatusInternalServerError, err.Error())

		return
	}

	selectedChoiceID, hasVoted, err := s.repository.UserVote(ctx.Request.Context(), userID, questionID)
	if err != nil {
		ctx.String(http.StatusInternalServerError, err.Error())

		return
	}

	s.renderDetail(ctx, question, choices, selectedChoiceID, hasVoted, noChoiceSelectedMessage)
}

func (s *PollsREST) questionWithChoices(
	ctx *gin.Context, questionID int64,
) (*polls.Question, []*schema.ChoiceRow, error) {
	question, err := s.repository.Question(ctx.Request.Context(), questionID)
	if err != nil {
		return nil, nil, err
	}

	choices, err := s.repository.Choices(ctx.Request.Context(), questionID)
	if err != nil {
		return nil, nil, err
	}

	return question, choices, nil
}

func (s *PollsREST) renderDetail(
	ctx *gin.Context,
	question *polls.Question,
	choices []*schema.ChoiceRow,
	selectedChoiceID int64,
	hasVoted bool,
	errorMessage string,
) {
	status := http.StatusOK
	if errorMessage != "" {
		status = http.StatusUnprocessableEntity
	}

	ctx.HTML(status, "detail.html", gin.H{
		"question":         question,
		"choices":          choices,
		"selectedChoiceID": selectedChoiceID,
		"hasVoted":         hasVoted,
		"canVote":          question.CanVote(time.Now()),
		"errorMessage":     errorMessage,
	})
}
