package main

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/prop-forecast/internal/database"
	"github.com/yourusername/prop-forecast/internal/models"
	"github.com/yourusername/prop-forecast/internal/repository"
)

var importFile string

func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "JSON array of archived propositions, or - for stdin")
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply archive schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.NewDB(cmd.Context(), &cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		if err := db.Migrate(cmd.Context()); err != nil {
			return err
		}
		version, err := db.MigrationVersion(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("schema at version %d\n", version)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load archived proposition results into Postgres",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(importFile)
		if err != nil {
			return err
		}
		var props []models.Proposition
		if err := json.Unmarshal(data, &props); err != nil {
			return fmt.Errorf("failed to parse archive: %w", err)
		}
		for i := range props {
			if err := props[i].Validate(); err != nil {
				return fmt.Errorf("entry %d: %w", i, err)
			}
		}

		db, err := database.Initialize(cmd.Context(), cfg, appLog)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		repos, err := repository.NewRepositories(db)
		if err != nil {
			return err
		}
		count, err := repos.Proposition.UpsertBatch(cmd.Context(), props)
		if err != nil {
			return err
		}
		appLog.WithFields(logrus.Fields{"count": count, "source": importFile}).Info("Archive imported")
		fmt.Printf("imported %d propositions\n", count)
		return nil
	},
}
