package main

import (
	"context"
	"log"
	"os"
	"sort"
	"time"

	"dripn/internal/datastore"
	"dripn/internal/models"
	"dripn/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
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
	app := &cli.App{
		Name: "migrate",
		Commands: []*cli.Command{
			commandMigration(),
			commandConfigMigration(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func getDb() (*bun.DB, error) {
	vs, err := env.EnvsRequired("DB_DSN")
	if err != nil {
		return nil, err
	}
	return datastore.OpenDB(vs["DB_DSN"], os.Getenv("DB_PASSWORD"))
}

func commandMigration() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "create the document and config tables",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := datastore.Migrate(ctx, db); err != nil {
				return err
			}

			log.Println("migrated")
			return nil
		},
	}
}

func commandConfigMigration() *cli.Command {
	return &cli.Command{
		Name:  "seed-config",
		Usage: "write default tunables, keeping values that already exist",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "overwrite",
				Usage: "reset existing values to the defaults",
			},
		},
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				return err
			}
			defer db.Close()

			configs := services.DefaultConfigs()
			keys := make([]string, 0, len(configs))
			for key := range configs {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			for _, key := range keys {
				err := datastore.UpsertConfig(ctx, db, &models.Config{
					Key:       key,
					Value:     configs[key],
					UpdatedAt: time.Now().UTC(),
				}, c.Bool("overwrite"))
				if err != nil {
					return err
				}
				log.Printf("config %s=%s\n", key, configs[key])
			}

			return nil
		},
	}
}
