package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clefbase/clefbase/composer"
	"github.com/clefbase/clefbase/migration"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect()
		if err != nil {
			return err
		}
		defer db.DB.Close()

		m, err := migration.NewMigrator(db)
		if err != nil {
			return err
		}
		m.AddList(composer.GetMigrationList())

		applied, err := m.Applied()
		if err != nil {
			return err
		}

		pending, err := m.Pending()
		if err != nil {
			return err
		}

		fmt.Printf("applied (%d):\n", len(applied))
		for _, le := range applied {
			fmt.Printf("  %s  %s\n", le.AppliedAt.Format("2006-01-02 15:04:05"),
				le.MigrationID)
		}

		fmt.Printf("pending (%d):\n", len(pending))
		for _, r := range pending {
			fmt.Printf("  %s\n", r.ID)
		}

		return nil
	},
}
