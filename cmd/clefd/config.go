package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/clefbase/clefbase/sql"
)

// loadConfig reads clefbase.yaml if present and binds the DB settings to
// the environment variables the deploy scripts already export
func loadConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("clefbase")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/clefbase")
	}

	viper.SetDefault("server.addr", ":8000")
	viper.SetDefault("cors.origin", "http://localhost:3000")

	for key, env := range map[string]string{
		"db.host":       "DBHOST",
		"db.port":       "DBPORT",
		"db.user":       "DBUSER",
		"db.password":   "DBPASS",
		"db.name":       "DBNAME",
		"db.sslmode":    "SSLMODE",
		"db.searchpath": "DBSEARCHPATH",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			return err
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		// ENV only is a supported configuration
	} else {
		log.Info().Msgf("loaded config from %s", viper.ConfigFileUsed())
	}

	return nil
}

// connect opens the configured postgres connection
func connect() (db *sql.Connection, err error) {
	cp := sql.GetConnParamFromENV()

	if v := viper.GetString("db.host"); v != "" {
		cp.Host = v
	}
	if v := viper.GetString("db.port"); v != "" {
		cp.Port = v
	}
	if v := viper.GetString("db.user"); v != "" {
		cp.User = v
	}
	if v := viper.GetString("db.password"); v != "" {
		cp.Password = v
	}
	if v := viper.GetString("db.name"); v != "" {
		cp.DBName = v
	}
	if v := viper.GetString("db.sslmode"); v != "" {
		cp.SSLMode = fmt.Sprintf("sslmode=%s", v)
	}
	if v := viper.GetString("db.searchpath"); v != "" {
		cp.SearchPath = fmt.Sprintf("search_path=%s", v)
	}

	return sql.NewPostgresConn(cp)
}
