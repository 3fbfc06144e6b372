package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

// AppConfig carries everything the daemon reads from the environment.
type AppConfig struct {
	LogLevel string `validate:"oneof=debug info warn error"`
	Port     string

	// Weather source. Latitude/Longitude stay nil when unset so "not
	// configured" is distinguishable from the 0,0 coordinate.
	OpenWeatherAPIKey string
	Latitude          *float64 `validate:"omitempty,latitude"`
	Longitude         *float64 `validate:"omitempty,longitude"`

	// WeatherTTL is the minimum interval between provider fetches; between
	// refreshes the cached observation is served.
	WeatherTTL time.Duration

	// CycleInterval is how often the display cycle runs.
	CycleInterval time.Duration

	// HTTPTimeout bounds a single outbound provider request.
	HTTPTimeout time.Duration

	// Interfaces named in the network segment; empty means auto-discover.
	Interfaces []string

	// Segment toggles.
	TimeDisplay    bool
	NetworkDisplay bool
	LoadDisplay    bool
	CPUDisplay     bool
	WeatherDisplay bool
}

// WeatherConfigured reports whether the weather source has everything it
// needs to fetch.
func (c *AppConfig) WeatherConfigured() bool {
	return c.OpenWeatherAPIKey != "" && c.Latitude != nil && c.Longitude != nil
}

// Load reads configuration from the environment with sensible defaults.
// A non-empty envFile must exist and parse; without one, a .env in the
// working directory is picked up when present.
func Load(envFile string) (*AppConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", envFile, err)
		}
	} else {
		// Optional.
		_ = godotenv.Load()
	}

	cfg := &AppConfig{
		LogLevel:          strings.ToLower(getenvDefault("LOG_LEVEL", "info")),
		Port:              getenvDefault("PORT", "8080"),
		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		Interfaces:        splitList(getenvDefault("NETWORK_INTERFACES", "eth0,wlan0")),
		TimeDisplay:       getenvBool("TIME_DISPLAY", true),
		NetworkDisplay:    getenvBool("NETWORK_DISPLAY", true),
		LoadDisplay:       getenvBool("CPULOAD_DISPLAY", true),
		CPUDisplay:        getenvBool("CPU_DISPLAY", true),
		WeatherDisplay:    getenvBool("WEATHER_DISPLAY", true),
	}

	var err error
	if cfg.Latitude, err = getenvFloat("WEATHER_LATITUDE"); err != nil {
		return nil, err
	}
	if cfg.Longitude, err = getenvFloat("WEATHER_LONGITUDE"); err != nil {
		return nil, err
	}

	// Weather refresh: default 5 minutes, matching the provider's own
	// update cadence.
	if cfg.WeatherTTL, err = getenvDuration("WEATHER_REFRESH_INTERVAL", "5m"); err != nil {
		return nil, err
	}
	if cfg.CycleInterval, err = getenvDuration("DISPLAY_CYCLE_INTERVAL", "15s"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvFloat(key string) (*float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &f, nil
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
