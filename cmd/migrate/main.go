// Command migrate applies the embedded schema migrations and exits.
//
//	go run ./cmd/migrate         apply pending migrations
//	go run ./cmd/migrate -info   list applied migrations
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"bookstore-graphql/internal/config"
	"bookstore-graphql/internal/infrastructure/database"
	"bookstore-graphql/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	info := flag.Bool("info", false, "print the schema history instead of migrating")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall deadline")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.App.Environment, cfg.Log.Level)

	if err := run(cfg, *info, *timeout); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}
}

func run(cfg *config.Config, info bool, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)
	if err := db.Connect(ctx); err != nil {
		return err
	}
	defer db.Close()

	migrator := database.NewMigrator(db.Pool, database.MigrateOptions{
		BaselineOnMigrate: cfg.Migrations.BaselineOnMigrate,
		BaselineVersion:   cfg.Migrations.BaselineVersion,
	})

	if info {
		history, err := migrator.Info(ctx)
		if err != nil {
			return err
		}
		printHistory(history)
		return nil
	}

	applied, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	log.Info().Int("applied", applied).Msg("migrations complete")
	return nil
}

func printHistory(history []database.AppliedMigration) {
	if len(history) == 0 {
		fmt.Println("no migrations applied")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tDESCRIPTION\tTYPE\tINSTALLED ON\tTIME\tSTATE")
	for _, m := range history {
		state := "Success"
		if !m.Success {
			state = "Failed"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			m.Version, m.Description, m.Type, m.InstalledOn.Format(time.RFC3339), m.ExecutionTime, state)
	}
	_ = w.Flush()
}
