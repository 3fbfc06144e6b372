package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/piserverstatus/piserverstatusd/internal/weather"
)

// OpenWeatherSource implements weather.Source against the OpenWeatherMap
// current-weather endpoint.
type OpenWeatherSource struct {
	name    string
	apiKey  string
	baseURL string
	rc      *resilientClient
}

func NewOpenWeatherSource(client *http.Client, apiKey string, logger *zap.Logger) *OpenWeatherSource {
	backoff := Backoff{
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	}
	return &OpenWeatherSource{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		rc:      newResilientClient(client, "openweather", backoff, logger),
	}
}

func (s *OpenWeatherSource) Name() string {
	return s.name
}

// owmPayload mirrors the fields of the current-weather response this daemon
// cares about. Zero-valued optional fields are taken as "not reported".
type owmPayload struct {
	Name string `json:"name"`
	Dt   int64  `json:"dt"`
	Main struct {
		Temp        float64 `json:"temp"`
		Humidity    float64 `json:"humidity"`
		Pressure    float64 `json:"pressure"`
		SeaLevel    float64 `json:"sea_level"`
		GroundLevel float64 `json:"grnd_level"`
	} `json:"main"`
	Wind struct {
		Speed float64  `json:"speed"`
		Deg   *int     `json:"deg"`
		Gust  *float64 `json:"gust"`
	} `json:"wind"`
	Clouds struct {
		All float64 `json:"all"`
	} `json:"clouds"`
	Visibility *int `json:"visibility"`
	Weather    []struct {
		ID int `json:"id"`
	} `json:"weather"`
}

func (s *OpenWeatherSource) Fetch(ctx context.Context, lat, lon float64) (*weather.Observation, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("openweather api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("appid", s.apiKey)
		values.Set("units", "metric")
		values.Set("lat", fmt.Sprintf("%f", lat))
		values.Set("lon", fmt.Sprintf("%f", lon))

		u := fmt.Sprintf("%s?%s", s.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := s.rc.do(ctx, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload owmPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	return observationFromOWM(payload), nil
}

func observationFromOWM(payload owmPayload) *weather.Observation {
	ts := time.Unix(payload.Dt, 0).UTC()
	if payload.Dt == 0 {
		ts = time.Now().UTC()
	}

	obs := &weather.Observation{
		Location:     payload.Name,
		Timestamp:    ts,
		TemperatureC: payload.Main.Temp,
		HumidityPct:  payload.Main.Humidity,
		CloudPct:     payload.Clouds.All,
		VisibilityM:  payload.Visibility,
		Wind: weather.Wind{
			DirectionDeg: payload.Wind.Deg,
			SpeedMps:     payload.Wind.Speed,
			GustMps:      payload.Wind.Gust,
		},
	}

	// OWM reports "pressure" at station level when sea_level/grnd_level are
	// present; otherwise it is the only pressure we get and is kept as QFE.
	if payload.Main.SeaLevel > 0 {
		obs.Pressure.SeaLevelHpa = intPtr(int(math.Round(payload.Main.SeaLevel)))
	}
	switch {
	case payload.Main.GroundLevel > 0:
		obs.Pressure.StationHpa = intPtr(int(math.Round(payload.Main.GroundLevel)))
	case payload.Main.Pressure > 0:
		obs.Pressure.StationHpa = intPtr(int(math.Round(payload.Main.Pressure)))
	}

	for _, w := range payload.Weather {
		obs.PhenomenonCodes = append(obs.PhenomenonCodes, w.ID)
	}

	return obs
}

func intPtr(v int) *int { return &v }
