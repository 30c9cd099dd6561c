package liveboard

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// At most this many departures are included in a preview.
const previewLimit = 10

// PreviewDeparture is a display-oriented departure summary.
type PreviewDeparture struct {
	Destination  string `json:"destination"`
	Time         string `json:"time"`
	Platform     string `json:"platform"`
	DelayMinutes int    `json:"delay_minutes"`
	Vehicle      string `json:"vehicle"`
}

// Preview summarizes a station's upcoming departures without touching
// the store.
type Preview struct {
	Status          string             `json:"status"`
	Station         string             `json:"station"`
	StationID       string             `json:"station_id"`
	DeparturesCount int                `json:"departures_count"`
	Timestamp       string             `json:"timestamp"`
	Departures      []PreviewDeparture `json:"departures"`
}

// Preview fetches and normalizes a station's liveboard and returns up
// to ten upcoming departures. Nothing is persisted.
func (p *Pipeline) Preview(ctx context.Context, station string) (*Preview, error) {
	if station == "" {
		station = DefaultStation
	}

	board, err := p.Client.Liveboard(ctx, station)
	if err != nil {
		return nil, fmt.Errorf("fetching liveboard: %w", err)
	}

	deps := board.DepartureRecords()
	p.Logger.WithFields(logrus.Fields{
		"station":    station,
		"departures": len(deps),
	}).Info("fetched liveboard for preview")

	preview := &Preview{
		Status:          "success",
		Station:         station,
		StationID:       board.StationInfo.ID.Value(),
		DeparturesCount: len(deps),
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		Departures:      []PreviewDeparture{},
	}

	for _, dep := range deps {
		if len(preview.Departures) >= previewLimit {
			break
		}
		preview.Departures = append(preview.Departures, PreviewDeparture{
			Destination:  dep.Station.Value(),
			Time:         time.Unix(dep.Time.Or(0), 0).UTC().Format("15:04"),
			Platform:     dep.Platform.Value(),
			DelayMinutes: int(dep.Delay.Or(0) / 60),
			Vehicle:      dep.VehicleShortName(),
		})
	}

	return preview, nil
}
