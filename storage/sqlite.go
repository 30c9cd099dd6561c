package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteConfig struct {
	OnDisk bool
	Path   string
}

type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(cfg ...SQLiteConfig) (*SQLiteStorage, error) {
	sourceName := ":memory:"
	if len(cfg) > 0 && cfg[0].OnDisk {
		sourceName = cfg[0].Path
		if sourceName == "" {
			sourceName = "liveboard.db"
		}
	}

	db, err := sql.Open("sqlite3", sourceName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// The in-memory database disappears if the pool opens a second
	// connection.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS stations (
    station_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    standard_name TEXT NOT NULL,
    latitude REAL,
    longitude REAL
);

CREATE TABLE IF NOT EXISTS departures (
    departure_id TEXT NOT NULL UNIQUE,
    station_id TEXT NOT NULL,
    destination_id TEXT NOT NULL,
    destination_name TEXT NOT NULL,
    scheduled_time TIMESTAMP NOT NULL,
    delay_seconds INTEGER NOT NULL,
    platform TEXT NOT NULL,
    vehicle_id TEXT NOT NULL,
    vehicle_short TEXT NOT NULL,
    is_canceled INTEGER NOT NULL,
    has_left INTEGER NOT NULL,
    occupancy TEXT NOT NULL,
    fetched_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_departures_station ON departures(station_id);

CREATE TABLE IF NOT EXISTS fetch_logs (
    station_id TEXT NOT NULL,
    fetched_at TIMESTAMP NOT NULL,
    record_count INTEGER NOT NULL,
    success INTEGER NOT NULL
);`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) UpsertStation(station Station) error {
	_, err := s.db.Exec(`
INSERT INTO stations (station_id, name, standard_name, latitude, longitude)
VALUES (?, ?, ?, ?, ?)
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

func (s *SQLiteStorage) HasDeparture(departureID string) (bool, error) {
	var one int
	err := s.db.QueryRow(
		`SELECT 1 FROM departures WHERE departure_id = ?`,
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

func (s *SQLiteStorage) InsertDeparture(dep Departure) (bool, error) {
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
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
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

func (s *SQLiteStorage) RecordFetch(log FetchLog) error {
	_, err := s.db.Exec(`
INSERT INTO fetch_logs (station_id, fetched_at, record_count, success)
VALUES (?, ?, ?, ?)
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

func (s *SQLiteStorage) GetStation(stationID string) (*Station, error) {
	var station Station
	err := s.db.QueryRow(`
SELECT station_id, name, standard_name, latitude, longitude
FROM stations
WHERE station_id = ?
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

func (s *SQLiteStorage) ListDepartures(stationID string) ([]Departure, error) {
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
WHERE station_id = ?
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

func (s *SQLiteStorage) ListFetchLogs(stationID string) ([]FetchLog, error) {
	rows, err := s.db.Query(`
SELECT station_id, fetched_at, record_count, success
FROM fetch_logs
WHERE station_id = ?
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

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
