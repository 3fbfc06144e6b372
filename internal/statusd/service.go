// Package statusd composes the display cycle: per cycle it renders the
// enabled segments (time, network addresses, CPU load, weather report) and
// hands each to the display. Segment failures are logged and skipped; the
// cycle itself never fails.
package statusd

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/piserverstatus/piserverstatusd/internal/metar"
	"github.com/piserverstatus/piserverstatusd/internal/sysinfo"
	"github.com/piserverstatus/piserverstatusd/internal/weather"
)

// ObservationProvider yields the current (possibly cached) observation.
// Satisfied by weather.CachedSource.
type ObservationProvider interface {
	Current(ctx context.Context) (*weather.Observation, bool)
}

// Segments selects which display segments a cycle renders.
type Segments struct {
	Time    bool
	Network bool
	Load    bool
	CPU     bool
	Weather bool
}

// Service runs the display cycle.
type Service struct {
	provider   ObservationProvider
	display    Display
	segments   Segments
	interfaces []string
	logger     *zap.Logger

	now func() time.Time
}

func NewService(provider ObservationProvider, display Display, segments Segments, interfaces []string, logger *zap.Logger) *Service {
	return &Service{
		provider:   provider,
		display:    display,
		segments:   segments,
		interfaces: interfaces,
		logger:     logger,
		now:        time.Now,
	}
}

// RunCycle renders one pass of the enabled segments. Nothing here returns an
// error to the caller: a broken segment is logged and the rest of the cycle
// carries on, so a flaky weather provider cannot blank the clock.
func (s *Service) RunCycle(ctx context.Context) {
	if s.segments.Time {
		s.show(sysinfo.Clock(s.now()))
	}

	if s.segments.Network {
		segs, err := sysinfo.InterfaceSegments(s.interfaces)
		switch {
		case err != nil:
			s.logger.Warn("failed to read interface addresses", zap.Error(err))
		case len(segs) > 0:
			s.show(strings.Join(segs, " | "))
		}
	}

	if s.segments.Load {
		seg, err := sysinfo.LoadSegment()
		if err != nil {
			s.logger.Warn("failed to read load average", zap.Error(err))
		} else {
			s.show(seg)
		}
	}

	if s.segments.CPU {
		seg, err := sysinfo.CPUSegment()
		if err != nil {
			s.logger.Warn("failed to sample cpu utilisation", zap.Error(err))
		} else {
			s.show(seg)
		}
	}

	if s.segments.Weather {
		if line, ok := s.Report(ctx); ok {
			s.show(line)
		}
	}
}

// Report builds the METAR-style line from the current observation. The
// second return is false when there is nothing to show this cycle: no
// observation yet, an incomplete one, or a phenomenon code we do not know
// (logged, since that is a data bug, not weather).
func (s *Service) Report(ctx context.Context) (string, bool) {
	if s.provider == nil {
		return "", false
	}
	obs, ok := s.provider.Current(ctx)
	if !ok {
		s.logger.Warn("no weather observation available")
		return "", false
	}

	line, err := metar.BuildReport(obs)
	if err != nil {
		s.logger.Error("failed to build weather report", zap.Error(err))
		return "", false
	}
	if line == "" {
		s.logger.Debug("observation incomplete, skipping weather segment")
		return "", false
	}
	return line, true
}

// Observation exposes the current observation for the status API.
func (s *Service) Observation(ctx context.Context) (*weather.Observation, bool) {
	if s.provider == nil {
		return nil, false
	}
	return s.provider.Current(ctx)
}

func (s *Service) show(text string) {
	if err := s.display.Show(text); err != nil {
		s.logger.Warn("display write failed", zap.String("text", text), zap.Error(err))
	}
}
