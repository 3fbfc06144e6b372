package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/piserverstatus/piserverstatusd/internal/statusd"
	"github.com/piserverstatus/piserverstatusd/internal/sysinfo"
)

// statusResponse is the JSON mirror of what the display cycles through.
type statusResponse struct {
	Time      string   `json:"time"`
	Load      string   `json:"load,omitempty"`
	CPU       string   `json:"cpu,omitempty"`
	Addresses []string `json:"addresses,omitempty"`
	Report    string   `json:"report,omitempty"`
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *statusd.Service, interfaces []string) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "piserverstatusd",
		})
	})

	v1 := app.Group("/api/v1")

	v1.Get("/status", func(c *fiber.Ctx) error {
		resp := statusResponse{
			Time: sysinfo.Clock(time.Now()),
		}

		// Best effort: a segment that cannot be read is omitted, same as on
		// the display.
		if seg, err := sysinfo.LoadSegment(); err == nil {
			resp.Load = seg
		}
		if seg, err := sysinfo.CPUSegment(); err == nil {
			resp.CPU = seg
		}
		if segs, err := sysinfo.InterfaceSegments(interfaces); err == nil {
			resp.Addresses = segs
		}
		if report, ok := service.Report(c.UserContext()); ok {
			resp.Report = report
		}

		return c.JSON(resp)
	})

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		obs, ok := service.Observation(c.UserContext())
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no weather observation available")
		}
		return c.JSON(obs)
	})
}
