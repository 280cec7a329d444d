package gopolls

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/autowp/gopolls/config"
	"github.com/autowp/gopolls/query"
	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql" // enable mysql migrations
	_ "github.com/golang-migrate/migrate/v4/source/file"    // enable file migration source
	"github.com/sirupsen/logrus"
)

// Application is Service Main Object.
type Application struct {
	container *Container
}

// NewApplication constructor.
func NewApplication(cfg config.Config) *Application {
	s := &Application{
		container: NewContainer(cfg),
	}

	gin.SetMode(cfg.GinMode)

	return s
}

func (s *Application) Migrate() error {
	_, err := s.container.DB()
	if err != nil {
		return err
	}

	err = applyMigrations(s.container.Config().Migrations)
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}

func (s *Application) ServePublic(quit chan bool) error {
	httpServer, err := s.container.PublicHTTPServer()
	if err != nil {
		return err
	}

	go func() {
		<-quit

		if err := httpServer.Shutdown(context.Background()); err != nil {
			logrus.Error(err.Error())
		}
	}()

	logrus.Println("public HTTP listener started")

	err = httpServer.ListenAndServe()
	if err != nil {
		// cannot panic, because this probably is an intentional close
		logrus.Printf("Httpserver: ListenAndServe() error: %s", err)
	}

	logrus.Println("public HTTP listener stopped")

	return nil
}

// CreateQuestion admin operation: question lifecycle is managed out of
// band, not through the public surface.
func (s *Application) CreateQuestion(
	ctx context.Context, text string, publishAt time.Time, endAt *time.Time, choices []string,
) (int64, error) {
	repository, err := s.container.PollsRepository()
	if err != nil {
		return 0, err
	}

	return repository.CreateQuestion(ctx, text, publishAt, endAt, choices)
}

// ListQuestions admin operation.
func (s *Application) ListQuestions(ctx context.Context) error {
	repository, err := s.container.PollsRepository()
	if err != nil {
		return err
	}

	rows, err := repository.List(ctx, &query.QuestionListOptions{OrderByPublishAtDesc: true})
	if err != nil {
		return err
	}

	for _, row := range rows {
		endAt := "-"
		if row.EndAt.Valid {
			endAt = row.EndAt.Time.Format(time.RFC3339)
		}

		logrus.Infof("#%d `%s` publish_at=%s end_at=%s", row.ID, row.Text,
			row.PublishAt.Format(time.RFC3339), endAt)
	}

	return nil
}

// DeleteQuestion admin operation.
func (s *Application) DeleteQuestion(ctx context.Context, id int64) error {
	repository, err := s.container.PollsRepository()
	if err != nil {
		return err
	}

	return repository.DeleteQuestion(ctx, id)
}

// Close Destructor.
func (s *Application) Close() error {
	logrus.Println("Closing service")

	err := s.container.Close()
	if err != nil {
		return err
	}

	logrus.Println("Service closed")

	return nil
}

func applyMigrations(config config.MigrationsConfig) error {
	logrus.Info("Apply migrations")

	dir := config.Dir
	if dir == "" {
		ex, err := os.Executable()
		if err != nil {
			return err
		}

		exPath := filepath.Dir(ex)
		dir = exPath + "/migrations"
	}

	m, err := migrate.New("file://"+dir, config.DSN)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil {
		return err
	}

	logrus.Info("Migrations applied")

	return nil
}
