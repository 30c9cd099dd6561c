package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/becodeorg/liveboard/config"
	"github.com/becodeorg/liveboard/irail"
	"github.com/becodeorg/liveboard/storage"
)

var rootCmd = &cobra.Command{
	Use:          "liveboard",
	Short:        "iRail liveboard ingestion tool",
	Long:         "Fetches real-time departures from the iRail API and stores them",
	SilenceUsage: true,
}

var (
	sqlitePath  string
	postgresDSN string
	apiURL      string
	verbose     bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&sqlitePath, "db", "", "", "SQLite database path")
	rootCmd.PersistentFlags().StringVarP(&postgresDSN, "postgres", "", "", "Postgres connection string")
	rootCmd.PersistentFlags().StringVarP(&apiURL, "api", "", irail.DefaultBaseURL, "iRail liveboard URL")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(importStationsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// Opens the store selected by flags. Without flags, the postgres DSN
// is composed from the environment configuration.
func openStorage() (storage.Storage, error) {
	if postgresDSN != "" {
		return storage.NewPSQLStorage(postgresDSN, false)
	}
	if sqlitePath != "" {
		return storage.NewSQLiteStorage(storage.SQLiteConfig{OnDisk: true, Path: sqlitePath})
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return storage.NewPSQLStorage(cfg.PostgresDSN(), false)
}
