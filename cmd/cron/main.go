package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"dripn/internal/app"
	"dripn/internal/pkg/logging"
	"dripn/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/samber/do"
	"github.com/urfave/cli/v2"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

func main() {
	cliApp := &cli.App{
		Name: "cronjob",
		Commands: []*cli.Command{
			commandSync(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandSync() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "periodically push the account to the backend",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "once",
				Usage: "push once and exit",
			},
		},
		Action: func(c *cli.Context) error {
			vs, err := env.EnvsRequired(
				"DB_DSN",
				"BACKEND_URL",
			)
			if err != nil {
				return err
			}

			container := app.NewContainer(vs)
			logging.Setup("cron", vs["API_MODE"], vs["LOG_FILE"])

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if _, err := app.Boot(ctx, container); err != nil {
				return err
			}

			serviceSync, err := do.Invoke[*services.ServiceSync](container)
			if err != nil {
				return err
			}

			job := NewSyncJob(container, serviceSync)
			if c.Bool("once") {
				job.run(ctx)
				return nil
			}

			cronRunner := cron.New()
			if err := job.Start(cronRunner, vs["CRON_SYNC"]); err != nil {
				return err
			}

			cronRunner.Start()
			log.Println("Start cronjob")
			<-ctx.Done()
			<-cronRunner.Stop().Done()
			return nil
		},
	}
}
