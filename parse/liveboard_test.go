package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLiveboardDepartureList(t *testing.T) {
	board, err := ParseLiveboard([]byte(`{
		"station": "Brussels-South",
		"stationinfo": {
			"id": "BE.NMBS.008814308",
			"name": "Brussels-South",
			"standardname": "Brussel-Zuid/Bruxelles-Midi",
			"locationY": "50.835707",
			"locationX": "4.336531"
		},
		"departures": {
			"number": "2",
			"departure": [
				{
					"departureConnection": "http://irail.be/connections/8814308/20240101/IC1234",
					"time": "1704103200",
					"delay": "60",
					"station": "Antwerp-Central",
					"platform": "12"
				},
				{
					"departureConnection": "http://irail.be/connections/8814308/20240101/IC5678",
					"time": "1704103800",
					"delay": "0",
					"station": "Ghent-Sint-Pieters",
					"platform": "3"
				}
			]
		}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "BE.NMBS.008814308", board.StationInfo.ID.Value())
	assert.Equal(t, "Brussels-South", board.StationInfo.Name.Value())
	require.NotNil(t, board.StationInfo.LocationY.Ptr())
	assert.InDelta(t, 50.835707, *board.StationInfo.LocationY.Ptr(), 1e-9)

	deps := board.DepartureRecords()
	require.Len(t, deps, 2)
	assert.Equal(t, "Antwerp-Central", deps[0].Station.Value())

	when, ok := deps[0].ScheduledAt()
	require.True(t, ok)
	assert.Equal(t, time.Unix(1704103200, 0).UTC(), when)
	assert.Equal(t, int64(60), deps[0].Delay.Or(0))
}

// The API returns a single departure as an object rather than a
// one-element list.
func TestParseLiveboardSingleDeparture(t *testing.T) {
	board, err := ParseLiveboard([]byte(`{
		"stationinfo": {"id": "BE.NMBS.008814308"},
		"departures": {
			"number": "1",
			"departure": {
				"departureConnection": "http://irail.be/connections/8814308/20240101/IC1234",
				"time": "1704103200",
				"station": "Antwerp-Central"
			}
		}
	}`))
	require.NoError(t, err)

	deps := board.DepartureRecords()
	require.Len(t, deps, 1)
	assert.Equal(t, "Antwerp-Central", deps[0].Station.Value())
}

func TestParseLiveboardNoDepartures(t *testing.T) {
	for _, body := range []string{
		`{"stationinfo": {"id": "x"}}`,
		`{"stationinfo": {"id": "x"}, "departures": {"number": "0"}}`,
		`{"stationinfo": {"id": "x"}, "departures": {"departure": []}}`,
	} {
		board, err := ParseLiveboard([]byte(body))
		require.NoError(t, err, body)
		assert.Empty(t, board.DepartureRecords(), body)
	}
}

func TestParseLiveboardMissingStationInfo(t *testing.T) {
	board, err := ParseLiveboard([]byte(`{"departures": {}}`))
	require.NoError(t, err)
	assert.Equal(t, "", board.StationInfo.ID.Value())
	assert.Nil(t, board.StationInfo.LocationY.Ptr())
}

func TestParseLiveboardInvalidJSON(t *testing.T) {
	_, err := ParseLiveboard([]byte(`<html>not json</html>`))
	assert.Error(t, err)
}

// A malformed scalar inside one record must not sink the whole
// document decode.
func TestParseLiveboardBadTimeSurvivesDecode(t *testing.T) {
	board, err := ParseLiveboard([]byte(`{
		"departures": {
			"departure": [
				{"departureConnection": "a", "time": "not-a-number"},
				{"departureConnection": "b", "time": "1704103200"}
			]
		}
	}`))
	require.NoError(t, err)

	deps := board.DepartureRecords()
	require.Len(t, deps, 2)

	_, ok := deps[0].ScheduledAt()
	assert.False(t, ok)
	_, ok = deps[1].ScheduledAt()
	assert.True(t, ok)
}

func TestDepartureScheduledAtMissing(t *testing.T) {
	var dep Departure
	_, ok := dep.ScheduledAt()
	assert.False(t, ok)
}

func TestDepartureDefaults(t *testing.T) {
	board, err := ParseLiveboard([]byte(`{
		"departures": {
			"departure": [{"departureConnection": "a", "time": "1704103200"}]
		}
	}`))
	require.NoError(t, err)

	dep := board.DepartureRecords()[0]
	assert.False(t, dep.IsCanceled())
	assert.False(t, dep.HasLeft())
	assert.Equal(t, "unknown", dep.OccupancyName())
	assert.Equal(t, "", dep.PlatformName())
	assert.Equal(t, "", dep.VehicleShortName())
	assert.Equal(t, "", dep.DestinationID())
	assert.Equal(t, int64(0), dep.Delay.Or(0))
}

func TestDepartureFlags(t *testing.T) {
	board, err := ParseLiveboard([]byte(`{
		"departures": {
			"departure": [{
				"departureConnection": "a",
				"time": 1704103200,
				"canceled": "1",
				"left": 1,
				"occupancy": {"name": "low"},
				"platform": 4,
				"platforminfo": {"name": "4B"},
				"vehicle": "BE.NMBS.IC1234",
				"vehicleinfo": {"shortname": "IC 1234"},
				"stationinfo": {"id": "BE.NMBS.008821006"}
			}]
		}
	}`))
	require.NoError(t, err)

	dep := board.DepartureRecords()[0]
	assert.True(t, dep.IsCanceled())
	assert.True(t, dep.HasLeft())
	assert.Equal(t, "low", dep.OccupancyName())
	assert.Equal(t, "4B", dep.PlatformName())
	assert.Equal(t, "IC 1234", dep.VehicleShortName())
	assert.Equal(t, "BE.NMBS.008821006", dep.DestinationID())
}

// With no platforminfo, the raw platform value is used, even when it
// arrives as a number.
func TestDeparturePlatformFallback(t *testing.T) {
	board, err := ParseLiveboard([]byte(`{
		"departures": {
			"departure": [{"departureConnection": "a", "time": "1704103200", "platform": 7}]
		}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "7", board.DepartureRecords()[0].PlatformName())
}

// Canceled values other than 1 mean not canceled.
func TestDepartureCanceledNonOne(t *testing.T) {
	board, err := ParseLiveboard([]byte(`{
		"departures": {
			"departure": [
				{"departureConnection": "a", "time": "1", "canceled": "0"},
				{"departureConnection": "b", "time": "1", "canceled": "2"},
				{"departureConnection": "c", "time": "1", "canceled": "yes"}
			]
		}
	}`))
	require.NoError(t, err)

	for _, dep := range board.DepartureRecords() {
		assert.False(t, dep.IsCanceled())
	}
}
