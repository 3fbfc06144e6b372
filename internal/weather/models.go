package weather

import (
	"time"
)

// Wind holds the wind portion of an observation. Direction and gust are
// frequently absent from provider payloads and stay nil when not reported.
// Unreported speed is carried as 0, which formats identically to calm
// ("00"), so it does not need the pointer treatment.
type Wind struct {
	DirectionDeg *int     `json:"directionDeg,omitempty"`
	SpeedMps     float64  `json:"speedMps"`
	GustMps      *float64 `json:"gustMps,omitempty"`
}

// Pressure holds sea-level (QNH) and station (QFE) pressure in hPa.
// Either field may be absent depending on what the station reports.
type Pressure struct {
	SeaLevelHpa *int `json:"seaLevelHpa,omitempty"`
	StationHpa  *int `json:"stationHpa,omitempty"`
}

// Observation is a single current-weather reading from a source, normalized
// to metric units with the timestamp in UTC. Optional fields are pointers so
// "not reported" stays distinguishable from zero all the way down to the
// formatter. An Observation is immutable once fetched; the cached source
// hands the same value to every caller.
type Observation struct {
	Location  string    `json:"location"`
	Timestamp time.Time `json:"timestamp"` // always UTC

	TemperatureC float64  `json:"temperatureC"`
	HumidityPct  float64  `json:"humidityPercent"`
	DewpointC    *float64 `json:"dewpointC,omitempty"` // measured; estimated downstream when nil

	Wind     Wind     `json:"wind"`
	Pressure Pressure `json:"pressure"`

	CloudPct    float64 `json:"cloudPercent"`
	VisibilityM *int    `json:"visibilityM,omitempty"`

	// PhenomenonCodes are the provider's present-weather codes
	// (https://openweathermap.org/weather-conditions). Codes >= 800 describe
	// clear/cloud-only states rather than phenomena.
	PhenomenonCodes []int `json:"phenomenonCodes,omitempty"`
}
