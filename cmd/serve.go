package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/becodeorg/liveboard"
	"github.com/becodeorg/liveboard/config"
	"github.com/becodeorg/liveboard/irail"
	"github.com/becodeorg/liveboard/server"
	"github.com/becodeorg/liveboard/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the ingestion endpoint over HTTP",
	RunE:  serve,
}

func serve(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	// Config is validated in full before anything is constructed;
	// missing credentials never get as far as a dial.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var store storage.Storage
	if sqlitePath != "" {
		store, err = storage.NewSQLiteStorage(storage.SQLiteConfig{OnDisk: true, Path: sqlitePath})
	} else {
		store, err = storage.NewPSQLStorage(cfg.PostgresDSN(), false)
	}
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer store.Close()

	client := irail.NewHTTPClient(cfg.IRailURL, irail.DefaultTimeout)
	pipeline := liveboard.NewPipeline(client, store, logger)
	srv := server.New(pipeline, logger)

	logger.WithField("addr", cfg.ListenAddr).Info("listening")
	return http.ListenAndServe(cfg.ListenAddr, srv.Handler())
}
