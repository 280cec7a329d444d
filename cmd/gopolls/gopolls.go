package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/autowp/gopolls"
	"github.com/autowp/gopolls/config"
	"github.com/autowp/gopolls/util"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

var errNoChoices = errors.New("at least one --choice is required")

func main() { os.Exit(mainReturnWithCode()) }

func mainReturnWithCode() int {
	logrus.SetLevel(logrus.DebugLevel)

	cfg := config.LoadConfig(".")

	app := gopolls.NewApplication(cfg)
	defer util.Close(app)

	cmd := &cli.Command{
		Name:  "gopolls",
		Usage: "polls web application",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "apply migrations and serve the public HTTP listener",
				Action: func(_ context.Context, _ *cli.Command) error {
					err := app.Migrate()
					if err != nil {
						return err
					}

					quit := captureOsInterrupt()

					return app.ServePublic(quit)
				},
			},
			{
				Name:  "migrate",
				Usage: "apply database migrations",
				Action: func(_ context.Context, _ *cli.Command) error {
					return app.Migrate()
				},
			},
			{
				Name:  "question",
				Usage: "manage questions",
				Commands: []*cli.Command{
					{
						Name:  "add",
						Usage: "create a question with its choices",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "text", Required: true},
							&cli.StringFlag{Name: "publish-at", Usage: "RFC3339, defaults to now"},
							&cli.StringFlag{Name: "end-at", Usage: "RFC3339, optional voting deadline"},
							&cli.StringSliceFlag{Name: "choice", Required: true},
						},
						Action: func(ctx context.Context, cmd *cli.Command) error {
							publishAt := time.Now()

							if value := cmd.String("publish-at"); value != "" {
								var err error

								publishAt, err = time.Parse(time.RFC3339, value)
								if err != nil {
									return err
								}
							}

							var endAt *time.Time

							if value := cmd.String("end-at"); value != "" {
								parsed, err := time.Parse(time.RFC3339, value)
								if err != nil {
									return err
								}

								endAt = &parsed
							}

							choices := cmd.StringSlice("choice")
							if len(choices) == 0 {
								return errNoChoices
							}

							id, err := app.CreateQuestion(ctx, cmd.String("text"), publishAt, endAt, choices)
							if err != nil {
								return err
							}

							logrus.Infof("question #%d created", id)

							return nil
						},
					},
					{
						Name:  "list",
						Usage: "print questions",
						Action: func(ctx context.Context, _ *cli.Command) error {
							return app.ListQuestions(ctx)
						},
					},
					{
						Name:  "delete",
						Usage: "delete a question with its choices and votes",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "id", Required: true},
						},
						Action: func(ctx context.Context, cmd *cli.Command) error {
							return app.DeleteQuestion(ctx, int64(cmd.Int("id")))
						},
					},
				},
			},
		},
	}

	err := cmd.Run(context.Background(), os.Args)
	if err != nil {
		logrus.Error(err)

		return 1
	}

	return 0
}

func captureOsInterrupt() chan bool {
	quit := make(chan bool)

	go func() {
		c := make(chan os.Signal, 2)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)

		for sig := range c {
			logrus.Infof("captured %v, stopping and exiting.", sig)

			quit <- true
			close(quit)

			break
		}
	}()

	return quit
}
