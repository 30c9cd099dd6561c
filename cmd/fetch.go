package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/becodeorg/liveboard"
	"github.com/becodeorg/liveboard/irail"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [station]",
	Short: "Runs one ingestion for a station and prints the result",
	Args:  cobra.MaximumNArgs(1),
	RunE:  fetch,
}

var previewOnly bool

func init() {
	fetchCmd.Flags().BoolVarP(&previewOnly, "preview", "p", false, "Fetch and display departures without storing them")
}

func fetch(cmd *cobra.Command, args []string) error {
	station := ""
	if len(args) > 0 {
		station = args[0]
	}

	logger := newLogger()
	client := irail.NewHTTPClient(apiURL, irail.DefaultTimeout)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if previewOnly {
		pipeline := liveboard.NewPipeline(client, nil, logger)
		preview, err := pipeline.Preview(context.Background(), station)
		if err != nil {
			return err
		}
		return enc.Encode(preview)
	}

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	pipeline := liveboard.NewPipeline(client, store, logger)
	result, err := pipeline.Run(context.Background(), station)
	if err != nil {
		return err
	}
	return enc.Encode(result)
}
