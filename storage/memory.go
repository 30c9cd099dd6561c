package storage

import (
	"sort"
	"sync"
	"time"
)

// In memory implementation of Storage below. Used in tests and for
// poking at the pipeline without a database.

type MemoryStorage struct {
	mu         sync.Mutex
	Stations   map[string]Station
	Departures map[string]Departure
	FetchLogs  []FetchLog
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		Stations:   map[string]Station{},
		Departures: map[string]Departure{},
	}
}

func (s *MemoryStorage) UpsertStation(station Station) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Stations[station.ID] = station
	return nil
}

func (s *MemoryStorage) HasDeparture(departureID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.Departures[departureID]
	return ok, nil
}

func (s *MemoryStorage) InsertDeparture(dep Departure) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.Departures[dep.ID]; ok {
		return false, nil
	}
	dep.FetchedAt = time.Now().UTC()
	s.Departures[dep.ID] = dep
	return true, nil
}

func (s *MemoryStorage) RecordFetch(log FetchLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.FetchedAt = time.Now().UTC()
	s.FetchLogs = append(s.FetchLogs, log)
	return nil
}

func (s *MemoryStorage) GetStation(stationID string) (*Station, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	station, ok := s.Stations[stationID]
	if !ok {
		return nil, nil
	}
	return &station, nil
}

func (s *MemoryStorage) ListDepartures(stationID string) ([]Departure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deps []Departure
	for _, dep := range s.Departures {
		if dep.StationID != stationID {
			continue
		}
		deps = append(deps, dep)
	}
	sort.Slice(deps, func(i, j int) bool {
		return deps[i].ScheduledAt.Before(deps[j].ScheduledAt)
	})
	return deps, nil
}

func (s *MemoryStorage) ListFetchLogs(stationID string) ([]FetchLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var logs []FetchLog
	for _, log := range s.FetchLogs {
		if log.StationID != stationID {
			continue
		}
		logs = append(logs, log)
	}
	sort.Slice(logs, func(i, j int) bool {
		return logs[i].FetchedAt.After(logs[j].FetchedAt)
	})
	return logs, nil
}

func (s *MemoryStorage) Close() error {
	return nil
}
