package main

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"
	"github.com/spkg/bom"

	"github.com/becodeorg/liveboard/storage"
)

var importStationsCmd = &cobra.Command{
	Use:   "import-stations <file.csv>",
	Short: "Seeds the stations table from a station list CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  importStations,
}

type stationRow struct {
	ID           string   `csv:"station_id"`
	Name         string   `csv:"name"`
	StandardName string   `csv:"standard_name"`
	Longitude    *float64 `csv:"longitude"`
	Latitude     *float64 `csv:"latitude"`
}

func importStations(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	// Station lists exported from spreadsheets tend to lead with a
	// BOM.
	data = bom.Clean(data)

	var rows []stationRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	imported := 0
	for _, row := range rows {
		if row.ID == "" {
			continue
		}
		err := store.UpsertStation(storage.Station{
			ID:           row.ID,
			Name:         row.Name,
			StandardName: row.StandardName,
			Latitude:     row.Latitude,
			Longitude:    row.Longitude,
		})
		if err != nil {
			return fmt.Errorf("upserting station %s: %w", row.ID, err)
		}
		imported++
	}

	fmt.Printf("imported %d stations\n", imported)
	return nil
}
