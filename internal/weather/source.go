package weather

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Source abstracts a current-weather data source (e.g. OpenWeatherMap).
type Source interface {
	Name() string
	Fetch(ctx context.Context, lat, lon float64) (*Observation, error)
}

// CachedSource wraps a Source with a TTL cache. While the held observation is
// fresh it is served without touching the network; when it goes stale the
// next Current call refreshes it. A failed refresh keeps the last good
// observation, so the display keeps showing slightly old weather instead of
// nothing.
//
// The lock is never held across a fetch: while one caller refreshes, every
// other caller is served the held observation immediately.
type CachedSource struct {
	source Source
	lat    float64
	lon    float64
	ttl    time.Duration
	logger *zap.Logger

	mu         sync.Mutex
	obs        *Observation
	fetchedAt  time.Time
	refreshing bool
}

// NewCachedSource creates a CachedSource for a fixed coordinate pair.
func NewCachedSource(source Source, lat, lon float64, ttl time.Duration, logger *zap.Logger) *CachedSource {
	return &CachedSource{
		source: source,
		lat:    lat,
		lon:    lon,
		ttl:    ttl,
		logger: logger,
	}
}

// Current returns the cached observation, refreshing it first when stale.
// The second return is false only when no observation has ever been fetched.
func (c *CachedSource) Current(ctx context.Context) (*Observation, bool) {
	c.mu.Lock()
	if c.obs != nil && time.Since(c.fetchedAt) < c.ttl {
		obs := c.obs
		c.mu.Unlock()
		return obs, true
	}
	if c.refreshing {
		// Someone else is already fetching; serve the stale observation
		// rather than queueing behind the network call.
		obs := c.obs
		c.mu.Unlock()
		return obs, obs != nil
	}
	c.refreshing = true
	c.mu.Unlock()

	fetchID := uuid.NewString()
	c.logger.Info("refreshing weather observation",
		zap.String("fetch_id", fetchID),
		zap.String("source", c.source.Name()),
		zap.Float64("lat", c.lat),
		zap.Float64("lon", c.lon),
	)

	obs, err := c.source.Fetch(ctx, c.lat, c.lon)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshing = false

	if err != nil {
		// Keep the last good observation; the caller decides how stale is
		// too stale.
		c.logger.Warn("weather refresh failed, keeping previous observation",
			zap.String("fetch_id", fetchID),
			zap.Error(err),
		)
		return c.obs, c.obs != nil
	}

	c.obs = obs
	c.fetchedAt = time.Now()

	c.logger.Debug("weather observation refreshed",
		zap.String("fetch_id", fetchID),
		zap.String("location", obs.Location),
		zap.Time("observed_at", obs.Timestamp),
	)
	return c.obs, true
}
