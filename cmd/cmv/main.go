// cmd/cmv/main.go
package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/barmetrics/backend-go/internal/cmv"
	"github.com/barmetrics/backend-go/internal/config"
	"github.com/barmetrics/backend-go/internal/domain"
	"github.com/barmetrics/backend-go/internal/repository/postgres"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func openDB(c *cli.Context) (*sqlx.DB, error) {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return sqlx.NewDb(db, "pgx"), nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "cmv",
		Usage: "Weekly cost-of-goods batch runner",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Compute and persist weekly CMV records",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.IntFlag{
						Name:  "week-offset",
						Usage: "Signed week offset from the current week (-1 is last week)",
						Value: -1,
					},
					&cli.Int64Flag{
						Name:  "venue-id",
						Usage: "Restrict the run to one venue (0 processes every active venue)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the run summary as JSON",
					},
				},
				Action: runWeekly,
			},
			{
				Name:   "check-rules",
				Usage:  "Validate the purchase category rules against the known vocabulary",
				Action: checkRules,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runWeekly(c *cli.Context) error {
	cfg := config.Load()

	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	venueRepo := postgres.NewVenueRepository(db)
	salesRepo := postgres.NewSalesRepository(db, cfg.CMV.PageSize, cfg.CMV.MaxPages)
	purchaseRepo := postgres.NewPurchaseRepository(db, cfg.CMV.PageSize, cfg.CMV.MaxPages)
	inventoryRepo := postgres.NewInventoryRepository(db, cfg.CMV.PageSize, cfg.CMV.MaxPages)
	weeklyRepo := postgres.NewWeeklyRepository(db)

	engine := cmv.NewEngine(venueRepo, weeklyRepo, inventoryRepo, salesRepo, purchaseRepo, cfg.CMV)

	offset := c.Int("week-offset")
	start := time.Now()
	summary, err := engine.Run(c.Context, cmv.RunRequest{
		WeekOffset: &offset,
		VenueID:    c.Int64("venue-id"),
	})
	if err != nil {
		return err
	}

	if c.Bool("json") {
		payload, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(payload))
		return nil
	}

	fmt.Printf("%s (week %d/%d, %s to %s)\n", summary.Message, summary.Week, summary.Year, summary.Start, summary.End)
	for _, r := range summary.Results {
		if r.Success {
			fmt.Printf("  ok   %-30s cmv=%.2f (%.1f%%)\n", r.VenueName, r.Record.CMVValue, r.Record.CMVPercent)
		} else {
			fmt.Printf("  FAIL %-30s %s\n", r.VenueName, r.Error)
		}
	}
	fmt.Printf("finished in %v\n", time.Since(start))

	if !summary.Success {
		return fmt.Errorf("%d of %d venues failed", summary.Processed-summary.Succeeded(), summary.Processed)
	}
	return nil
}

func checkRules(c *cli.Context) error {
	domain.ValidateRules()
	fmt.Println("rule check finished, see warnings above if any")
	return nil
}
