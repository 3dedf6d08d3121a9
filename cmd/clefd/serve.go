package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/clefbase/clefbase/api"
	"github.com/clefbase/clefbase/composer"
	"github.com/clefbase/clefbase/migration"
)

var serveSeed bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Apply pending migrations and run the HTTP API",
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

		rep, err := m.Upgrade(ctx)
		if err != nil {
			return err
		}
		logReport(rep)

		if serveSeed {
			if err := composer.Seed(db); err != nil {
				return err
			}
		}

		r := api.NewRouter(composer.NewStore(db), api.Config{
			AllowOrigin: viper.GetString("cors.origin"),
			Version:     Version,
		})

		addr := viper.GetString("server.addr")
		log.Info().Msgf("listening on %s", addr)

		return r.Run(addr)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveSeed, "seed", false,
		"seed the composer table if it is empty")
}
