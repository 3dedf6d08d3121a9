package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/clefbase/clefbase/composer"
	"github.com/clefbase/clefbase/migration"
)

var (
	migrateStrict  bool
	migrateTimeout time.Duration
	migrateSeed    bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(),
			syscall.SIGINT, syscall.SIGTERM)
		defer stop()

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
		m.SetStrict(migrateStrict)
		if migrateTimeout > 0 {
			m.SetStatementTimeout(migrateTimeout)
		}

		rep, err := m.Upgrade(ctx)
		if rep != nil {
			logReport(rep)
		}
		if err != nil {
			return err
		}

		if migrateSeed {
			if err := composer.Seed(db); err != nil {
				return err
			}
		}

		return nil
	},
}

func logReport(rep *migration.Report) {
	for _, a := range rep.Attempts {
		log.Info().
			Str("migration", a.ID).
			Str("outcome", string(a.Outcome)).
			Dur("duration", a.Duration).
			Msg("migration attempt")
	}

	log.Info().Msgf("migration run %s, %d attempted", rep.State, len(rep.Attempts))
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateStrict, "strict", false,
		"treat schema drift as an error instead of a warning")
	migrateCmd.Flags().DurationVar(&migrateTimeout, "timeout", 0,
		"per statement timeout, e.g. 30s (0 disables)")
	migrateCmd.Flags().BoolVar(&migrateSeed, "seed", false,
		"seed the composer table if it is empty")
}
