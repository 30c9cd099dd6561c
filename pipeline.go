package liveboard

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/becodeorg/liveboard/irail"
	"github.com/becodeorg/liveboard/storage"
)

// Station used when the caller does not name one.
const DefaultStation = "Brussels-South"

// Pipeline runs one liveboard ingestion per call: fetch the station's
// departures from iRail, normalize them, write new records to
// storage, and append an audit row. Invocations are independent;
// storage is the only thing shared between them.
type Pipeline struct {
	Client irail.Client
	Store  storage.Storage
	Logger *logrus.Logger
}

func NewPipeline(client irail.Client, store storage.Storage, logger *logrus.Logger) *Pipeline {
	if logger == nil {
		logger = logrus.New()
	}
	return &Pipeline{
		Client: client,
		Store:  store,
		Logger: logger,
	}
}

// Result summarizes one ingestion run.
type Result struct {
	Status             string `json:"status"`
	Station            string `json:"station"`
	StationID          string `json:"station_id"`
	DeparturesFetched  int    `json:"departures_fetched"`
	DeparturesInserted int    `json:"departures_inserted"`
	DeparturesSkipped  int    `json:"departures_skipped"`
	Timestamp          string `json:"timestamp"`
}

// Run executes the full pipeline for one station. A record that is a
// duplicate or malformed is skipped, never fatal; connectivity and
// store failures abort the whole invocation.
func (p *Pipeline) Run(ctx context.Context, station string) (*Result, error) {
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
	}).Info("fetched liveboard")

	// A payload without a station ID still gets its departures
	// stored, keyed to the empty station ID. Only the station row
	// itself is skipped.
	stationID := board.StationInfo.ID.Value()
	if stationID != "" {
		err = p.Store.UpsertStation(storage.Station{
			ID:           stationID,
			Name:         board.StationInfo.Name.Value(),
			StandardName: board.StationInfo.StandardName.Value(),
			Latitude:     board.StationInfo.LocationY.Ptr(),
			Longitude:    board.StationInfo.LocationX.Ptr(),
		})
		if err != nil {
			return nil, fmt.Errorf("upserting station %s: %w", stationID, err)
		}
	}

	inserted, skipped := 0, 0
	for _, dep := range deps {
		id := dep.Connection.Value()
		if id == "" {
			skipped++
			continue
		}

		exists, err := p.Store.HasDeparture(id)
		if err != nil {
			return nil, fmt.Errorf("checking departure %s: %w", id, err)
		}
		if exists {
			skipped++
			continue
		}

		when, ok := dep.ScheduledAt()
		if !ok {
			p.Logger.WithField("departure_id", id).Warn("invalid departure time, skipping")
			skipped++
			continue
		}

		ok, err = p.Store.InsertDeparture(storage.Departure{
			ID:              id,
			StationID:       stationID,
			DestinationID:   dep.DestinationID(),
			DestinationName: dep.Station.Value(),
			ScheduledAt:     when,
			DelaySeconds:    int(dep.Delay.Or(0)),
			Platform:        dep.PlatformName(),
			VehicleID:       dep.Vehicle.Value(),
			VehicleShort:    dep.VehicleShortName(),
			Canceled:        dep.IsCanceled(),
			Left:            dep.HasLeft(),
			Occupancy:       dep.OccupancyName(),
		})
		if err != nil {
			return nil, fmt.Errorf("inserting departure %s: %w", id, err)
		}
		if !ok {
			// A concurrent invocation beat us to it.
			skipped++
			continue
		}
		inserted++
	}

	err = p.Store.RecordFetch(storage.FetchLog{
		StationID:   stationID,
		RecordCount: inserted,
		Success:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("recording fetch: %w", err)
	}

	p.Logger.WithFields(logrus.Fields{
		"station":  station,
		"inserted": inserted,
		"skipped":  skipped,
	}).Info("ingestion complete")

	return &Result{
		Status:             "success",
		Station:            station,
		StationID:          stationID,
		DeparturesFetched:  len(deps),
		DeparturesInserted: inserted,
		DeparturesSkipped:  skipped,
		Timestamp:          time.Now().UTC().Format(time.RFC3339),
	}, nil
}
