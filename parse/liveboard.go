package parse

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// Occupancy label used when the payload carries none.
const OccupancyUnknown = "unknown"

// StationInfo describes a station, either the liveboard's own station
// or a departure's destination.
type StationInfo struct {
	ID           String `json:"id"`
	Name         String `json:"name"`
	StandardName String `json:"standardname"`
	LocationY    Float  `json:"locationY"` // latitude
	LocationX    Float  `json:"locationX"` // longitude
}

type PlatformInfo struct {
	Name String `json:"name"`
}

type VehicleInfo struct {
	ShortName String `json:"shortname"`
}

type OccupancyInfo struct {
	Name String `json:"name"`
}

// Departure is one raw departure record from the liveboard payload.
type Departure struct {
	Connection   String         `json:"departureConnection"`
	Time         Int            `json:"time"`
	Delay        Int            `json:"delay"`
	Platform     String         `json:"platform"`
	PlatformInfo *PlatformInfo  `json:"platforminfo"`
	Vehicle      String         `json:"vehicle"`
	VehicleInfo  *VehicleInfo   `json:"vehicleinfo"`
	Station      String         `json:"station"`
	StationInfo  *StationInfo   `json:"stationinfo"`
	Canceled     Int            `json:"canceled"`
	Left         Int            `json:"left"`
	Occupancy    *OccupancyInfo `json:"occupancy"`
}

// ScheduledAt interprets the record's time as Unix epoch seconds.
// Reports false when the field is missing or not a valid timestamp.
func (d Departure) ScheduledAt() (time.Time, bool) {
	v, ok := d.Time.Value()
	if !ok || v < 0 {
		return time.Time{}, false
	}
	return time.Unix(v, 0).UTC(), true
}

// PlatformName returns platforminfo's display name if present, else
// the raw platform value, else the empty string.
func (d Departure) PlatformName() string {
	if d.PlatformInfo != nil && d.PlatformInfo.Name.Value() != "" {
		return d.PlatformInfo.Name.Value()
	}
	return d.Platform.Value()
}

// VehicleShortName returns the vehicle's display label.
func (d Departure) VehicleShortName() string {
	if d.VehicleInfo == nil {
		return ""
	}
	return d.VehicleInfo.ShortName.Value()
}

// DestinationID returns the destination station's ID.
func (d Departure) DestinationID() string {
	if d.StationInfo == nil {
		return ""
	}
	return d.StationInfo.ID.Value()
}

// IsCanceled reports whether the canceled flag equals 1. Any other
// value, including absent, means not canceled.
func (d Departure) IsCanceled() bool {
	return d.Canceled.Or(0) == 1
}

// HasLeft reports whether the left flag equals 1.
func (d Departure) HasLeft() bool {
	return d.Left.Or(0) == 1
}

// OccupancyName returns the occupancy display name, defaulting to
// "unknown".
func (d Departure) OccupancyName() string {
	if d.Occupancy == nil || d.Occupancy.Name.Value() == "" {
		return OccupancyUnknown
	}
	return d.Occupancy.Name.Value()
}

// DepartureList handles the API quirk where a liveboard with exactly
// one departure carries it as an object rather than a one-element
// array.
type DepartureList []Departure

func (l *DepartureList) UnmarshalJSON(data []byte) error {
	var list []Departure
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}

	var single Departure
	if err := json.Unmarshal(data, &single); err != nil {
		return errors.Wrap(err, "departure is neither list nor object")
	}
	*l = DepartureList{single}
	return nil
}

// Liveboard is the decoded upstream payload.
type Liveboard struct {
	Station     String      `json:"station"`
	StationInfo StationInfo `json:"stationinfo"`
	Departures  struct {
		Departure DepartureList `json:"departure"`
	} `json:"departures"`
}

// ParseLiveboard decodes a liveboard payload. It fails only when the
// body is not valid JSON; malformed individual records survive the
// decode and are dealt with record by record further down the
// pipeline.
func ParseLiveboard(body []byte) (*Liveboard, error) {
	var board Liveboard
	if err := json.Unmarshal(body, &board); err != nil {
		return nil, errors.Wrap(err, "decoding liveboard")
	}
	return &board, nil
}

// DepartureRecords returns the coerced departure list, never nil.
func (b *Liveboard) DepartureRecords() []Departure {
	if b.Departures.Departure == nil {
		return []Departure{}
	}
	return b.Departures.Departure
}
