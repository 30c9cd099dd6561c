package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

type PSQLStorage struct {
	db *sql.DB
}

// Creates a new Postgres Storage using the provided connection string.
//
// If clearDB is true, all tables are dropped and recreated on
// startup. You probably only want this for testing.
func NewPSQLStorage(connStr string, clearDB bool) (*PSQLStorage, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging db: %w", err)
	}

	if clearDB {
		_, err = db.Exec(`
DROP TABLE IF EXISTS stations;
DROP TABLE IF EXISTS departures;
DROP TABLE IF EXISTS fetch_logs;
`)
		if err != nil {
			return nil, fmt.Errorf("clearing db: %w", err)
		}
	}

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS stations (
    station_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    standard_name TEXT NOT NULL,
    latitude DOUBLE PRECISION,
    longitude DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS departures (
    departure_id TEXT NOT NULL UNIQUE,
    station_id TEXT NOT NULL,
    destination_id TEXT NOT NULL,
    destination_name TEXT NOT NULL,
    scheduled_time TIMESTAMPTZ NOT NULL,
    delay_seconds INTEGER NOT NULL,
    platform TEXT NOT NULL,
    vehicle_id TEXT NOT NULL,
    vehicle_short TEXT NOT NULL,
    is_canceled BOOLEAN NOT NULL,
    has_left BOOLEAN NOT NULL,
    occupancy TEXT NOT NULL,
    fetched_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_departures_station ON departures(station_id);

CREATE TABLE IF NOT EXISTS fetch_logs (
    station_id TEXT NOT NULL,
    fetched_at TIMESTAMPTZ NOT NULL,
    record_count INTEGER NOT NULL,
    success BOOLEAN NOT NULL
);`)
	if err != nil {
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &PSQLStorage{db: db}, nil
}

func (s *PSQLStorage) UpsertStation(station Station) error {
	_, err := s.db.Exec(`
INSERT INTO stations (station_id, name, standard_name, latitude, longitude)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (station_id) DO UPDATE SET
    name = excluded.name,
    standard_name = excluded.standard_name,
    latitude = excluded.latitude,
    longitude = excluded.longitude
`,
		station.ID,
		station.Name,
		station.StandardName,
		station.Latitude,
		station.Longitude,
	)
	if err != nil {
		return fmt.Errorf("upserting station: %w", err)
	}
	return nil
}

func (s *PSQLStorage) HasDeparture(departureID string) (bool, error) {
	var one int
	err := s.db.QueryRow(
		`SELECT 1 FROM departures WHERE departure_id = $1`,
		departureID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking departure: %w", err)
	}
	return true, nil
}

func (s *PSQLStorage) InsertDeparture(dep Departure) (bool, error) {
	res, err := s.db.Exec(`
INSERT INTO departures (
    departure_id,
    station_id,
    destination_id,
    destination_name,
    scheduled_time,
    delay_seconds,
    platform,
    vehicle_id,
    vehicle_short,
    is_canceled,
    has_left,
    occupancy,
    fetched_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (departure_id) DO NOTHING
`,
		dep.ID,
		dep.StationID,
		dep.DestinationID,
		dep.DestinationName,
		dep.ScheduledAt,
		dep.DelaySeconds,
		dep.Platform,
		dep.VehicleID,
		dep.VehicleShort,
		dep.Canceled,
		dep.Left,
		dep.Occupancy,
		time.Now().UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("inserting departure: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking rows affected: %w", err)
	}

	return n > 0, nil
}

func (s *PSQLStorage) RecordFetch(log FetchLog) error {
	_, err := s.db.Exec(`
INSERT INTO fetch_logs (station_id, fetched_at, record_count, success)
VALUES ($1, $2, $3, $4)
`,
		log.StationID,
		time.Now().UTC(),
		log.RecordCount,
		log.Success,
	)
	if err != nil {
		return fmt.Errorf("recording fetch: %w", err)
	}
	return nil
}

func (s *PSQLStorage) GetStation(stationID string) (*Station, error) {
	var station Station
	err := s.db.QueryRow(`
SELECT station_id, name, standard_name, latitude, longitude
FROM stations
WHERE station_id = $1
`, stationID).Scan(
		&station.ID,
		&station.Name,
		&station.StandardName,
		&station.Latitude,
		&station.Longitude,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting station: %w", err)
	}
	return &station, nil
}

func (s *PSQLStorage) ListDepartures(stationID string) ([]Departure, error) {
	rows, err := s.db.Query(`
SELECT
    departure_id,
    station_id,
    destination_id,
    destination_name,
    scheduled_time,
    delay_seconds,
    platform,
    vehicle_id,
    vehicle_short,
    is_canceled,
    has_left,
    occupancy,
    fetched_at
FROM departures
WHERE station_id = $1
ORDER BY scheduled_time
`, stationID)
	if err != nil {
		return nil, fmt.Errorf("listing departures: %w", err)
	}
	defer rows.Close()

	var deps []Departure
	for rows.Next() {
		var dep Departure
		err := rows.Scan(
			&dep.ID,
			&dep.StationID,
			&dep.DestinationID,
			&dep.DestinationName,
			&dep.ScheduledAt,
			&dep.DelaySeconds,
			&dep.Platform,
			&dep.VehicleID,
			&dep.VehicleShort,
			&dep.Canceled,
			&dep.Left,
			&dep.Occupancy,
			&dep.FetchedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning departure: %w", err)
		}
		deps = append(deps, dep)
	}

	return deps, rows.Err()
}

func (s *PSQLStorage) ListFetchLogs(stationID string) ([]FetchLog, error) {
	rows, err := s.db.Query(`
SELECT station_id, fetched_at, record_count, success
FROM fetch_logs
WHERE station_id = $1
ORDER BY fetched_at DESC
`, stationID)
	if err != nil {
		return nil, fmt.Errorf("listing fetch logs: %w", err)
	}
	defer rows.Close()

	var logs []FetchLog
	for rows.Next() {
		var log FetchLog
		err := rows.Scan(
			&log.StationID,
			&log.FetchedAt,
			&log.RecordCount,
			&log.Success,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning fetch log: %w", err)
		}
		logs = append(logs, log)
	}

	return logs, rows.Err()
}

func (s *PSQLStorage) Close() error {
	return s.db.Close()
}
