package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"tabclass/adapters/postgres"
	"tabclass/adapters/postgres/migrations"
	"tabclass/internal/config"
)

func main() {
	_ = godotenv.Load()

	var databaseURL string
	rootCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the report database schema",
	}
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "PostgreSQL URL (default: DATABASE_URL)")

	open := func(ctx context.Context) (*migrations.Migrator, func(), error) {
		appConfig, err := config.Load()
		if err != nil {
			return nil, nil, err
		}
		if databaseURL != "" {
			appConfig.Database.URL = databaseURL
		}
		db, err := postgres.Open(ctx, appConfig.Database)
		if err != nil {
			return nil, nil, err
		}
		return migrations.NewMigrator(db.DB), func() { db.Close() }, nil
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				migrator, closeDB, err := open(cmd.Context())
				if err != nil {
					return err
				}
				defer closeDB()

				applied, err := migrator.Up(cmd.Context())
				for _, version := range applied {
					fmt.Printf("Applied migration: %s\n", version)
				}
				if err != nil {
					return err
				}
				if len(applied) == 0 {
					fmt.Println("Schema is up to date")
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Forget the last applied migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				migrator, closeDB, err := open(cmd.Context())
				if err != nil {
					return err
				}
				defer closeDB()

				version, err := migrator.Down(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Printf("Rolled back migration record: %s\n", version)
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show applied and pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				migrator, closeDB, err := open(cmd.Context())
				if err != nil {
					return err
				}
				defer closeDB()

				status, err := migrator.Status(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Println("Migration Status:")
				fmt.Println("=================")
				applied := 0
				for _, s := range status {
					state := "pending"
					if s.Applied {
						state = "applied"
						applied++
					}
					fmt.Printf("  %s: %s\n", s.Name, state)
				}
				fmt.Printf("\nSummary: %d/%d migrations applied\n", applied, len(status))
				return nil
			},
		},
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
