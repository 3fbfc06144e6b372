package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	httpapi "github.com/piserverstatus/piserverstatusd/internal/api/http"
	"github.com/piserverstatus/piserverstatusd/internal/config"
	"github.com/piserverstatus/piserverstatusd/internal/scheduler"
	"github.com/piserverstatus/piserverstatusd/internal/statusd"
	"github.com/piserverstatus/piserverstatusd/internal/weather"
	"github.com/piserverstatus/piserverstatusd/internal/weather/providers"
)

func main() {
	var (
		cfgFile    string
		foreground bool
	)
	pflag.StringVarP(&cfgFile, "cfg-file", "c", "", "path to the configuration file")
	pflag.BoolVarP(&foreground, "foreground", "f", false, "log to console instead of structured JSON")
	pflag.Parse()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel, foreground)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	segments := statusd.Segments{
		Time:    cfg.TimeDisplay,
		Network: cfg.NetworkDisplay,
		Load:    cfg.LoadDisplay,
		CPU:     cfg.CPUDisplay,
		Weather: cfg.WeatherDisplay,
	}

	// Weather source behind a TTL cache; absent configuration disables the
	// segment rather than failing startup.
	var provider statusd.ObservationProvider
	if cfg.WeatherConfigured() {
		source := providers.NewOpenWeatherSource(httpClient, cfg.OpenWeatherAPIKey, logger)
		provider = weather.NewCachedSource(source, *cfg.Latitude, *cfg.Longitude, cfg.WeatherTTL, logger)
	} else if segments.Weather {
		logger.Warn("weather display disabled: api key or coordinates not configured")
		segments.Weather = false
	}

	// The writer display stands in for the LED scroller; the hardware
	// integration plugs in here.
	display := statusd.NewWriterDisplay(os.Stdout)

	service := statusd.NewService(provider, display, segments, cfg.Interfaces, logger)

	sched := scheduler.New(service, cfg.CycleInterval, logger)
	if err := sched.Start(); err != nil {
		logger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "piserverstatusd",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())

	httpapi.RegisterRoutes(app, service, cfg.Interfaces)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("fiber server stopped", zap.Error(err))
		}
	}()

	logger.Info("piserverstatusd started",
		zap.String("port", cfg.Port),
		zap.Duration("cycle_interval", cfg.CycleInterval),
		zap.Bool("weather", segments.Weather),
	)

	// Wait for termination signal.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	// Blank the display on the way out, like the hardware daemon does.
	if err := display.Clear(); err != nil {
		logger.Warn("failed to clear display", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
}

func newLogger(level string, foreground bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var zcfg zap.Config
	if foreground {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)

	return zcfg.Build()
}
