package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/autowp/gopolls/config"
	"github.com/autowp/gopolls/email"
	"github.com/autowp/gopolls/schema"
	"github.com/autowp/gopolls/validation"
	"github.com/doug-martin/goqu/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	LoginMinLength    = 2
	LoginMaxLength    = 50
	PasswordMinLength = 6
	PasswordMaxLength = 72 // bcrypt input limit
	EmailMaxLength    = 255
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid login or password")
)

// CreateUserOptions CreateUserOptions.
type CreateUserOptions struct {
	Login           string `json:"login"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	Captcha         string `json:"captcha"`
}

type Repository struct {
	db             *goqu.Database
	captchaEnabled bool
	emailSender    email.Sender
	smtpConfig     config.SMTPConfig
}

// NewRepository constructor.
func NewRepository(
	db *goqu.Database,
	captchaEnabled bool,
	emailSender email.Sender,
	smtpConfig config.SMTPConfig,
) *Repository {
	return &Repository{
		db:             db,
		captchaEnabled: captchaEnabled,
		emailSender:    emailSender,
		smtpConfig:     smtpConfig,
	}
}

// ValidateCreateUser returns per-field violations for the signup form.
func (s *Repository) ValidateCreateUser(
	options *CreateUserOptions, clientIP string,
) (map[string][]string, error) {
	result := make(map[string][]string)

	loginInputFilter := validation.InputFilter{
		Filters: []validation.FilterInterface{&validation.StringTrimFilter{}},
		Validators: []validation.ValidatorInterface{
			&validation.NotEmpty{},
			&validation.StringLength{Min: LoginMinLength, Max: LoginMaxLength},
			&validation.LoginNotExists{DB: s.db},
		},
	}

	login, problems, err := loginInputFilter.IsValidString(options.Login)
	if err != nil {
		return nil, err
	}

	options.Login = login

	if len(problems) > 0 {
		result["login"] = problems
	}

	emailInputFilter := validation.InputFilter{
		Filters: []validation.FilterInterface{&validation.StringTrimFilter{}},
		Validators: []validation.ValidatorInterface{
			&validation.NotEmpty{},
			&validation.StringLength{Max: EmailMaxLength},
			&validation.EmailAddress{},
			&validation.EmailNotExists{DB: s.db},
		},
	}

	emailAddr, problems, err := emailInputFilter.IsValidString(options.Email)
	if err != nil {
		return nil, err
	}

	options.Email = emailAddr

	if len(problems) > 0 {
		result["email"] = problems
	}

	passwordInputFilter := validation.InputFilter{
		Validators: []validation.ValidatorInterface{
			&validation.NotEmpty{},
			&validation.StringLength{Min: PasswordMinLength, Max: PasswordMaxLength},
		},
	}

	_, problems, err = passwordInputFilter.IsValidString(options.Password)
	if err != nil {
		return nil, err
	}

	if len(problems) > 0 {
		result["password"] = problems
	}

	passwordConfirmInputFilter := validation.InputFilter{
		Validators: []validation.ValidatorInterface{
			&validation.NotEmpty{},
			&validation.IdenticalStrings{Pattern: options.Password},
		},
	}

	_, problems, err = passwordConfirmInputFilter.IsValidString(options.PasswordConfirm)
	if err != nil {
		return nil, err
	}

	if len(problems) > 0 {
		result["password_confirm"] = problems
	}

	if s.captchaEnabled {
		captchaInputFilter := validation.InputFilter{
			Validators: []validation.ValidatorInterface{
				&validation.NotEmpty{},
				&validation.Recaptcha{ClientIP: clientIP},
			},
		}

		_, problems, err = captchaInputFilter.IsValidString(options.Captcha)
		if err != nil {
			return nil, err
		}

		if len(problems) > 0 {
			result["captcha"] = problems
		}
	}

	return result, nil
}

// CreateUser registers an account. Returns field violations when the
// form is invalid.
func (s *Repository) CreateUser(
	ctx context.Context, options CreateUserOptions, clientIP string,
) (int64, map[string][]string, error) {
	violations, err := s.ValidateCreateUser(&options, clientIP)
	if err != nil {
		return 0, nil, err
	}

	if len(violations) > 0 {
		return 0, violations, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(options.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, nil, err
	}

	now := time.Now()

	res, err := s.db.Insert(schema.UserTable).Rows(goqu.Record{
		schema.UserTableLoginColName:      options.Login,
		schema.UserTableEmailColName:      options.Email,
		schema.UserTablePasswordColName:   string(hash),
		schema.UserTableRegDateColName:    now,
		schema.UserTableLastOnlineColName: now,
	}).Executor().ExecContext(ctx)
	if err != nil {
		return 0, nil, err
	}

	userID, err := res.LastInsertId()
	if err != nil {
		return 0, nil, err
	}

	s.sendWelcomeEmail(options.Login, options.Email)

	return userID, nil, nil
}

func (s *Repository) sendWelcomeEmail(login, to string) {
	if s.emailSender == nil {
		return
	}

	body := fmt.Sprintf("Hello, %s!\n\nYour account is ready. Happy voting.", login)

	err := s.emailSender.Send(s.smtpConfig.From, []string{to}, "Welcome", body, "")
	if err != nil {
		logrus.Warnf("welcome email to `%s` failed: %s", to, err.Error())
	}
}

// Authenticate checks credentials and bumps last_online.
func (s *Repository) Authenticate(ctx context.Context, login, password string) (*schema.UserRow, error) {
	var row schema.UserRow

	success, err := s.db.Select(schema.UserTableIDCol, schema.UserTableLoginCol, schema.UserTableEmailCol,
		schema.UserTablePasswordCol, schema.UserTableRegDateCol, schema.UserTableLastOnlineCol,
		schema.UserTableDeletedCol).
		From(schema.UserTable).
		Where(
			schema.UserTableLoginCol.Eq(login),
			schema.UserTableDeletedCol.IsFalse(),
		).
		ScanStructContext(ctx, &row)
	if err != nil {
		return nil, err
	}

	if !success {
		return nil, ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(row.Password), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	_, err = s.db.Update(schema.UserTable).
		Set(goqu.Record{schema.UserTableLastOnlineColName: goqu.Func("NOW")}).
		Where(schema.UserTableIDCol.Eq(row.ID)).
		Executor().ExecContext(ctx)
	if err != nil {
		return nil, err
	}

	return &row, nil
}

// User returns an active user by id.
func (s *Repository) User(ctx context.Context, id int64) (*schema.UserRow, error) {
	var row schema.UserRow

	success, err := s.db.Select(schema.UserTableIDCol, schema.UserTableLoginCol, schema.UserTableEmailCol,
		schema.UserTableRegDateCol, schema.UserTableLastOnlineCol, schema.UserTableDeletedCol).
		From(schema.UserTable).
		Where(
			schema.UserTableIDCol.Eq(id),
			schema.UserTableDeletedCol.IsFalse(),
		).
		ScanStructContext(ctx, &row)
	if err != nil {
		return nil, err
	}

	if !success {
		return nil, ErrUserNotFound
	}

	return &row, nil
}
