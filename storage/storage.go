package storage

import (
	"time"
)

// Storage persists stations, departures and fetch audit records. The
// sqlite and memory implementations are meant for local use and
// tests, postgres for production.
type Storage interface {
	// Inserts or updates a station by its ID. On conflict every
	// mutable field is overwritten with the new values, including
	// NULL coordinates.
	UpsertStation(station Station) error

	// Reports whether a departure with the given ID has been
	// stored.
	HasDeparture(departureID string) (bool, error)

	// Inserts a departure unless a row with the same ID already
	// exists. Reports whether a row was actually inserted; losing
	// a race against a concurrent insert is not an error.
	// FetchedAt is assigned by the store.
	InsertDeparture(dep Departure) (bool, error)

	// Appends a fetch audit record. FetchedAt is assigned by the
	// store.
	RecordFetch(log FetchLog) error

	// Retrieves a station by ID. Returns nil if there is no such
	// station.
	GetStation(stationID string) (*Station, error)

	// Retrieves all departures for a station, ordered by
	// scheduled time.
	ListDepartures(stationID string) ([]Departure, error)

	// Retrieves all fetch audit records for a station, most
	// recent first.
	ListFetchLogs(stationID string) ([]FetchLog, error)

	Close() error
}

// A transit stop. Coordinates are nil when the upstream payload lacks
// them.
type Station struct {
	ID           string
	Name         string
	StandardName string
	Latitude     *float64
	Longitude    *float64
}

// One scheduled vehicle departure at a station. Departures are
// immutable once stored; there is no update path.
type Departure struct {
	ID              string
	StationID       string
	DestinationID   string
	DestinationName string
	ScheduledAt     time.Time
	DelaySeconds    int
	Platform        string
	VehicleID       string
	VehicleShort    string
	Canceled        bool
	Left            bool
	Occupancy       string
	FetchedAt       time.Time
}

// One fetch audit record. Append-only.
type FetchLog struct {
	StationID   string
	FetchedAt   time.Time
	RecordCount int
	Success     bool
}
