package gopolls

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/autowp/gopolls/session"
	"github.com/gin-gonic/gin"
)

const loginPath = "/accounts/login"

// Auth resolves the request identity from the session cookie. Identity is
// always passed explicitly to handlers, never kept in globals.
type Auth struct {
	sessions   *session.Store
	cookieName string
	lifetime   time.Duration
}

// NewAuth constructor.
func NewAuth(sessions *session.Store, cookieName string, lifetime time.Duration) *Auth {
	return &Auth{
		sessions:   sessions,
		cookieName: cookieName,
		lifetime:   lifetime,
	}
}

// UserID returns the authenticated user id or 0 for guests.
func (s *Auth) UserID(ctx *gin.Context) (int64, error) {
	token, err := ctx.Cookie(s.cookieName)
	if err != nil || token == "" {
		return 0, nil //nolint:nilerr
	}

	userID, err := s.sessions.UserID(ctx.Request.Context(), token)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return 0, nil
		}

		return 0, err
	}

	return userID, nil
}

// SignIn opens a session and sets the cookie.
func (s *Auth) SignIn(ctx *gin.Context, userID int64) error {
	token, err := s.sessions.Create(ctx.Request.Context(), userID)
	if err != nil {
		return err
	}

	ctx.SetCookie(s.cookieName, token, int(s.lifetime.Seconds()), "/", "", false, true)

	return nil
}

// SignOut closes the session and clears the cookie.
func (s *Auth) SignOut(ctx *gin.Context) error {
	token, err := ctx.Cookie(s.cookieName)
	if err == nil && token != "" {
		if err = s.sessions.Delete(ctx.Request.Context(), token); err != nil {
			return err
		}
	}

	ctx.SetCookie(s.cookieName, "", -1, "/", "", false, true)

	return nil
}

// RedirectToLogin sends a guest to the login page, preserving the
// originally requested URL in the `next` parameter.
func RedirectToLogin(ctx *gin.Context) {
	next := ctx.Request.URL.RequestURI()

	ctx.Redirect(http.StatusFound, loginPath+"?next="+url.QueryEscape(next))
}
