package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"dripn/internal/api/handler"
	"dripn/internal/app"
	"dripn/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
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
		Name: "debugger",
		Commands: []*cli.Command{
			commandState(),
			commandCredit(),
			commandShare(),
			commandReferral(),
			commandLogin(),
			commandEvaluateBadges(),
			commandToken(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func boot(ctx context.Context) (*do.Injector, error) {
	vs, err := env.EnvsRequired("DB_DSN")
	if err != nil {
		return nil, err
	}

	container := app.NewContainer(vs)
	if _, err := services.Boot(ctx, container); err != nil {
		return nil, err
	}
	return container, nil
}

func printJSON(v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(raw))
	return nil
}

func commandState() *cli.Command {
	return &cli.Command{
		Name:  "state",
		Usage: "print the stored account document",
		Action: func(c *cli.Context) error {
			container, err := boot(c.Context)
			if err != nil {
				return err
			}

			state, err := do.MustInvoke[*services.ServiceState](container).View()
			if err != nil {
				return err
			}
			return printJSON(state)
		},
	}
}

func commandCredit() *cli.Command {
	return &cli.Command{
		Name:  "credit",
		Usage: "credit points as if a task completed",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:     "amount",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "source",
				Value: services.SOURCE_VIDEO,
			},
		},
		Action: func(c *cli.Context) error {
			container, err := boot(c.Context)
			if err != nil {
				return err
			}

			account, err := do.MustInvoke[*services.ServiceLedger](container).Credit(c.Context, c.Int64("amount"), c.String("source"))
			if err != nil {
				return err
			}
			return printJSON(account)
		},
	}
}

func commandShare() *cli.Command {
	return &cli.Command{
		Name: "share",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "platform",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			container, err := boot(c.Context)
			if err != nil {
				return err
			}

			result, err := do.MustInvoke[*services.ServiceShare](container).RecordShare(c.Context, c.String("platform"))
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
}

func commandReferral() *cli.Command {
	return &cli.Command{
		Name:  "referral",
		Usage: "show the referral state, or enter a code with --code",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name: "code",
			},
		},
		Action: func(c *cli.Context) error {
			container, err := boot(c.Context)
			if err != nil {
				return err
			}

			serviceReferral := do.MustInvoke[*services.ServiceReferral](container)
			if code := c.String("code"); code != "" {
				accepted, err := serviceReferral.EnterCode(c.Context, code)
				if err != nil {
					return err
				}
				log.Printf("code %s accepted: %v\n", code, accepted)
				// the backend push runs in the background
				time.Sleep(time.Second)
			}

			referral, err := serviceReferral.Referral()
			if err != nil {
				return err
			}
			return printJSON(referral)
		},
	}
}

func commandLogin() *cli.Command {
	return &cli.Command{
		Name: "login",
		Action: func(c *cli.Context) error {
			container, err := boot(c.Context)
			if err != nil {
				return err
			}

			streak, err := do.MustInvoke[*services.ServiceTask](container).RecordLogin(c.Context)
			if err != nil {
				return err
			}
			log.Printf("login streak: %d\n", streak)
			return nil
		},
	}
}

func commandEvaluateBadges() *cli.Command {
	return &cli.Command{
		Name:  "badges",
		Usage: "re-check threshold badges, for instance after editing the catalog",
		Action: func(c *cli.Context) error {
			container, err := boot(c.Context)
			if err != nil {
				return err
			}

			serviceBadge := do.MustInvoke[*services.ServiceBadge](container)
			unlocked, err := serviceBadge.Evaluate(c.Context)
			if err != nil {
				return err
			}
			log.Printf("%d badges newly unlocked\n", len(unlocked))

			badges, err := serviceBadge.Badges()
			if err != nil {
				return err
			}
			return printJSON(badges)
		},
	}
}

func commandToken() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "issue an API access token",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "subject",
				Value: "device",
			},
			&cli.DurationFlag{
				Name:  "ttl",
				Value: 30 * 24 * time.Hour,
			},
		},
		Action: func(c *cli.Context) error {
			vs, err := env.EnvsRequired("API_JWT_SECRET")
			if err != nil {
				return err
			}

			token, err := handler.IssueToken(vs["API_JWT_SECRET"], c.String("subject"), c.Duration("ttl"))
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
}
