package gopolls

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/autowp/gopolls/users"
	"github.com/gin-gonic/gin"
)

const indexPath = "/polls/"

type AccountsREST struct {
	auth           *Auth
	userRepository *users.Repository
}

// NewAccountsREST constructor.
func NewAccountsREST(auth *Auth, userRepository *users.Repository) *AccountsREST {
	return &AccountsREST{
		auth:           auth,
		userRepository: userRepository,
	}
}

func (s *AccountsREST) SetupRouter(router *gin.Engine) {
	group := router.Group("/accounts")
	{
		group.GET("/login", s.loginFormAction)
		group.POST("/login", s.loginAction)
		group.GET("/logout", s.logoutAction)
		group.POST("/logout", s.logoutAction)
		group.GET("/signup", s.signupFormAction)
		group.POST("/signup", s.signupAction)
	}
}

func (s *AccountsREST) loginFormAction(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "login.html", gin.H{
		"next": ctx.Query("next"),
	})
}

func (s *AccountsREST) loginAction(ctx *gin.Context) {
	login := ctx.PostForm("username")
	password := ctx.PostForm("password")
	next := ctx.PostForm("next")

	user, err := s.userRepository.Authenticate(ctx.Request.Context(), login, password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			ctx.HTML(http.StatusUnprocessableEntity, "login.html", gin.H{
				"errorMessage": "Please enter a correct username and password.",
				"username":     login,
				"next":         next,
			})

			return
		}

		ctx.String(http.StatusInternalServerError, err.Error())

		return
	}

	if err = s.auth.SignIn(ctx, user.ID); err != nil {
		ctx.String(http.StatusInternalServerError, err.Error())

		return
	}

	ctx.Redirect(http.StatusFound, safeNext(next))
}

func (s *AccountsREST) logoutAction(ctx *gin.Context) {
	if err := s.auth.SignOut(ctx); err != nil {
		ctx.String(http.StatusInternalServerError, err.Error())

		return
	}

	ctx.Redirect(http.StatusFound, loginPath)
}

func (s *AccountsREST) signupFormAction(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "signup.html", gin.H{})
}

func (s *AccountsREST) signupAction(ctx *gin.Context) {
	options := users.CreateUserOptions{
		Login:           ctx.PostForm("username"),
		Email:           ctx.PostForm("email"),
		Password:        ctx.PostForm("password"),
		PasswordConfirm: ctx.PostForm("password_confirm"),
		Captcha:         ctx.PostForm("g-recaptcha-response"),
	}

	userID, violations, err := s.userRepository.CreateUser(ctx.Request.Context(), options, ctx.ClientIP())
	if err != nil {
		ctx.String(http.StatusInternalServerError, err.Error())

		return
	}

	if len(violations) > 0 {
		ctx.HTML(http.StatusUnprocessableEntity, "signup.html", gin.H{
			"invalidParams": violations,
			"username":      options.Login,
			"email":         options.Email,
		})

		return
	}

	if err = s.auth.SignIn(ctx, userID); err != nil {
		ctx.String(http.StatusInternalServerError, err.Error())

		return
	}

	ctx.Redirect(http.StatusFound, indexPath)
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if next == "" {
		return indexPath
	}

	parsed, err := url.Parse(next)
	if err != nil || parsed.IsAbs() || parsed.Host != "" {
		return indexPath
	}

	return next
}
