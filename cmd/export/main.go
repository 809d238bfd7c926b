package main

import (
	"context"
	"encoding/csv"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"dripn/internal/app"
	"dripn/internal/models"
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
		Name: "export",
		Commands: []*cli.Command{
			commandExportHistory(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandExportHistory() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "write the transaction history as CSV",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "out",
				Usage: "output file, stdout when empty",
			},
		},
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			vs, err := env.EnvsRequired("DB_DSN")
			if err != nil {
				return err
			}

			container := app.NewContainer(vs)
			if _, err := services.Boot(ctx, container); err != nil {
				return err
			}

			serviceLedger, err := do.Invoke[*services.ServiceLedger](container)
			if err != nil {
				return err
			}

			history, err := serviceLedger.History(0)
			if err != nil {
				return err
			}

			var w io.Writer = os.Stdout
			if out := c.String("out"); out != "" {
				file, err := os.Create(out)
				if err != nil {
					return err
				}
				defer file.Close()
				w = file
			}

			if err := writeHistory(w, history); err != nil {
				return err
			}
			log.Printf("exported %d entries\n", len(history))
			return nil
		},
	}
}

func writeHistory(w io.Writer, history []models.HistoryEntry) error {
	writer := csv.NewWriter(w)
	//nolint:errcheck
	writer.Write([]string{"id", "kind", "amount", "source", "timestamp", "date"})

	for _, entry := range history {
		err := writer.Write([]string{
			entry.ID,
			string(entry.Kind),
			strconv.FormatInt(entry.Amount, 10),
			entry.Source,
			entry.Timestamp.UTC().Format(time.RFC3339),
			entry.DisplayDate,
		})
		if err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
