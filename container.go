package gopolls

import (
	"database/sql"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/autowp/gopolls/config"
	"github.com/autowp/gopolls/email"
	"github.com/autowp/gopolls/polls"
	"github.com/autowp/gopolls/session"
	"github.com/autowp/gopolls/users"
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql" // enable mysql dialect
	"github.com/dpapathanasiou/go-recaptcha"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql" // enable mysql driver
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const readHeaderTimeout = time.Second * 30

// Container Container.
type Container struct {
	config           config.Config
	db               *sql.DB
	dbMutex          sync.Mutex
	goquDB           *goqu.Database
	redis            *redis.Client
	sessionStore     *session.Store
	auth             *Auth
	emailSender      email.Sender
	pollsRepository  *polls.Repository
	usersRepository  *users.Repository
	pollsREST        *PollsREST
	accountsREST     *AccountsREST
	publicRouter     *gin.Engine
	publicHTTPServer *http.Server
}

// NewContainer constructor.
func NewContainer(cfg config.Config) *Container {
	return &Container{
		config: cfg,
	}
}

func (s *Container) Close() error {
	s.pollsRepository = nil
	s.usersRepository = nil
	s.auth = nil
	s.sessionStore = nil

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			logrus.Error(err.Error())
		}

		s.db = nil
		s.goquDB = nil
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			logrus.Error(err.Error())
		}

		s.redis = nil
	}

	return nil
}

func (s *Container) Config() config.Config {
	return s.config
}

func (s *Container) DB() (*sql.DB, error) {
	s.dbMutex.Lock()
	defer s.dbMutex.Unlock()

	if s.db != nil {
		return s.db, nil
	}

	const (
		connectionTimeout = 60 * time.Second
		reconnectDelay    = 100 * time.Millisecond
	)

	start := time.Now()

	logrus.Info("Waiting for mysql")

	var (
		db  *sql.DB
		err error
	)

	for {
		db, err = sql.Open("mysql", s.config.DSN)
		if err != nil {
			return nil, err
		}

		err = db.Ping()
		if err == nil {
			logrus.Info("Started.")

			break
		}

		if time.Since(start) > connectionTimeout {
			return nil, err
		}

		logrus.Infof(". %s", err.Error())
		time.Sleep(reconnectDelay)
	}

	s.db = db

	return s.db, nil
}

func (s *Container) GoquDB() (*goqu.Database, error) {
	if s.goquDB == nil {
		db, err := s.DB()
		if err != nil {
			return nil, err
		}

		s.goquDB = goqu.New("mysql", db)
	}

	return s.goquDB, nil
}

func (s *Container) Redis() (*redis.Client, error) {
	if s.redis == nil {
		opts, err := redis.ParseURL(s.config.Redis)
		if err != nil {
			return nil, err
		}

		s.redis = redis.NewClient(opts)
	}

	return s.redis, nil
}

func (s *Container) SessionStore() (*session.Store, error) {
	if s.sessionStore == nil {
		client, err := s.Redis()
		if err != nil {
			return nil, err
		}

		s.sessionStore = session.NewStore(client, time.Duration(s.config.Sessions.Lifetime)*time.Second)
	}

	return s.sessionStore, nil
}

func (s *Container) Auth() (*Auth, error) {
	if s.auth == nil {
		store, err := s.SessionStore()
		if err != nil {
			return nil, err
		}

		s.auth = NewAuth(store, s.config.Sessions.Cookie, time.Duration(s.config.Sessions.Lifetime)*time.Second)
	}

	return s.auth, nil
}

func (s *Container) EmailSender() email.Sender {
	if s.emailSender == nil {
		if s.config.MockEmailSender {
			s.emailSender = &email.MockSender{}
		} else {
			s.emailSender = &email.SMTPSender{Config: s.config.SMTP}
		}
	}

	return s.emailSender
}

func (s *Container) PollsRepository() (*polls.Repository, error) {
	if s.pollsRepository == nil {
		db, err := s.GoquDB()
		if err != nil {
			return nil, err
		}

		s.pollsRepository = polls.NewRepository(db)
	}

	return s.pollsRepository, nil
}

func (s *Container) UsersRepository() (*users.Repository, error) {
	if s.usersRepository == nil {
		db, err := s.GoquDB()
		if err != nil {
			return nil, err
		}

		if s.config.Recaptcha.Enabled {
			recaptcha.Init(s.config.Recaptcha.PrivateKey)
		}

		s.usersRepository = users.NewRepository(db, s.config.Recaptcha.Enabled, s.EmailSender(), s.config.SMTP)
	}

	return s.usersRepository, nil
}

func (s *Container) PollsREST() (*PollsREST, error) {
	if s.pollsREST == nil {
		auth, err := s.Auth()
		if err != nil {
			return nil, err
		}

		repository, err := s.PollsRepository()
		if err != nil {
			return nil, err
		}

		userRepository, err := s.UsersRepository()
		if err != nil {
			return nil, err
		}

		s.pollsREST = NewPollsREST(auth, repository, userRepository, s.config.Polls.ListLimit)
	}

	return s.pollsREST, nil
}

func (s *Container) AccountsREST() (*AccountsREST, error) {
	if s.accountsREST == nil {
		auth, err := s.Auth()
		if err != nil {
			return nil, err
		}

		repository, err := s.UsersRepository()
		if err != nil {
			return nil, err
		}

		s.accountsREST = NewAccountsREST(auth, repository)
	}

	return s.accountsREST, nil
}

func (s *Container) PublicRouter() (*gin.Engine, error) {
	if s.publicRouter != nil {
		return s.publicRouter, nil
	}

	ginEngine := gin.New()
	ginEngine.Use(gin.Recovery(), MetricsMiddleware())

	if s.config.TrustedNetwork != "" {
		if err := ginEngine.SetTrustedProxies([]string{s.config.TrustedNetwork}); err != nil {
			return nil, fmt.Errorf("SetTrustedProxies(): %w", err)
		}
	}

	if len(s.config.PublicRest.Cors.Origin) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = s.config.PublicRest.Cors.Origin
		corsConfig.AllowCredentials = true
		ginEngine.Use(cors.New(corsConfig))
	}

	ginEngine.LoadHTMLGlob(s.config.Templates)

	ginEngine.GET("/", func(ctx *gin.Context) {
		ctx.Redirect(http.StatusFound, indexPath)
	})

	pollsREST, err := s.PollsREST()
	if err != nil {
		return nil, fmt.Errorf("PollsREST(): %w", err)
	}

	pollsREST.SetupRouter(ginEngine)

	accountsREST, err := s.AccountsREST()
	if err != nil {
		return nil, fmt.Errorf("AccountsREST(): %w", err)
	}

	accountsREST.SetupRouter(ginEngine)

	SetupMetricsRouter(ginEngine)

	s.publicRouter = ginEngine

	return s.publicRouter, nil
}

func (s *Container) PublicHTTPServer() (*http.Server, error) {
	if s.publicHTTPServer == nil {
		handler, err := s.PublicRouter()
		if err != nil {
			return nil, fmt.Errorf("PublicRouter(): %w", err)
		}

		s.publicHTTPServer = &http.Server{
			Addr:              s.config.PublicRest.Listen,
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
		}
	}

	return s.publicHTTPServer, nil
}
