package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"vibeos/internal/datastore"
	"vibeos/internal/models"
	"vibeos/internal/services"

	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
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

func commandMigration() *cli.Command {
	return &cli.Command{
		Name: "migrate",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableUserProfile(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableInterestProfile(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableRewardTransaction(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableFraudCheck(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableConfig(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableReward(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			fmt.Println("Migration success")

			return nil
		},
	}
}

// insert default configs to db
func commandConfigMigration() *cli.Command {
	return &cli.Command{
		Name:        "migrate-config",
		Description: "Insert default configs to db",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			configs := []models.Config{
				{Key: services.CONFIG_SERVER_MODE, Value: "production"},
				{Key: services.CONFIG_LEADERBOARD_LIMIT, Value: "20"},
				{Key: services.CONFIG_FRAUD_SCAN_PAGE_SIZE, Value: "100"},
				{Key: services.CONFIG_FRAUD_VELOCITY_WINDOW_MIN, Value: "60"},
				{Key: services.CONFIG_FRAUD_RATIO_LOW, Value: "3"},
				{Key: services.CONFIG_FRAUD_RATIO_MEDIUM, Value: "5"},
				{Key: services.CONFIG_FRAUD_RATIO_HIGH, Value: "10"},
				{Key: services.CONFIG_CRONJOB_TIME_FRAUD_SCAN, Value: "@every 1h"},
				{Key: services.CONFIG_CRONJOB_TIME_LEADERBOARD, Value: "0 0 * * 1"},
			}

			for _, config := range configs {
				err = datastore.UpsertConfig(ctx, db, &config)
				if err != nil {
					log.Println(err)
				}
			}

			fmt.Println("Migration success")

			return nil
		},
	}
}

func getDb() (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(os.Getenv("DB_DSN")),
		pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
	))

	db := bun.NewDB(sqldb, pgdialect.New())
	return db, nil
}
