// Package metar renders weather observations as compact METAR-style status
// lines. It borrows the aviation conventions (wind/pressure/phenomenon
// encoding, M-prefixed negative temperatures) for a readable one-line
// summary; it does not aim for full METAR compliance.
//
// Every function here is pure: no I/O, no state, the same observation always
// formats to the same string.
package metar

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/piserverstatus/piserverstatusd/internal/weather"
)

// ErrUnknownCode reports a phenomenon code that is absent from the code
// table. This is a data error worth surfacing, never silently dropped.
var ErrUnknownCode = errors.New("unknown phenomenon code")

// ErrDegenerateHumidity reports a non-positive relative humidity handed to
// the dewpoint estimate, for which the formula has no defined result.
var ErrDegenerateHumidity = errors.New("relative humidity must be positive")

// reportHeader marks lines produced by this daemon; the trailing "=" is the
// METAR end-of-report sentinel.
const (
	reportHeader     = "PsMETAR"
	reportTerminator = "="
)

// Constants for the simplified Vaisala saturation-vapor-pressure formula,
// valid for the -20°C..+50°C range. See "Humidity Conversion Formulas"
// (Vaisala B210973EN), formula 6.
const (
	vaisalaA  = 6.116441
	vaisalaM  = 7.591386
	vaisalaTn = 240.7263
)

// KnotsFromMetersPerSecond converts a speed in m/s to knots. Callers that
// need an integer field truncate toward zero; speeds are non-negative so
// this only ever shaves the fraction.
func KnotsFromMetersPerSecond(mps float64) float64 {
	return mps * 1852 / 3600
}

// CloudCode converts cloud cover percentage to a METAR cover code. Each band
// is inclusive on its upper edge; 0 renders as no cloud field at all.
// Percentages outside [0,100] are the caller's bug to prevent.
func CloudCode(pct float64) string {
	switch {
	case pct == 0:
		return ""
	case pct <= 25:
		return "FEW"
	case pct <= 50:
		return "SCT"
	case pct <= 75:
		return "BKN"
	default:
		return "OVC"
	}
}

// Dewpoint estimates the dewpoint temperature in °C from air temperature and
// relative humidity using the simplified Vaisala formula. Used only when the
// weather source does not report a measured dewpoint.
func Dewpoint(tempC, rhPct float64) (float64, error) {
	if rhPct <= 0 {
		return 0, ErrDegenerateHumidity
	}

	pws := vaisalaA * math.Pow(10, vaisalaM*tempC/(tempC+vaisalaTn))
	pw := pws * rhPct / 100

	return vaisalaTn / (vaisalaM/math.Log10(pw/vaisalaA) - 1), nil
}

// FormatTemperature renders a temperature as a two-digit METAR token with an
// M prefix for below-zero values. Rounding is half away from zero, so
// -0.5 → "M01" and 0.5 → "01"; the M prefix follows the sign of the input,
// not of the rounded value, so -0.4 → "M00".
func FormatTemperature(tempC float64) string {
	sign := ""
	if tempC < 0 {
		sign = "M"
	}
	return fmt.Sprintf("%s%02d", sign, int(math.Round(math.Abs(tempC))))
}

// FormatWind renders the wind group, e.g. "32010KT" or "09025G43KT". Below
// 2 knots (or with no reported direction) the direction field is the calm
// "000" convention. Knot values are truncated toward zero.
func FormatWind(w weather.Wind) string {
	kt := KnotsFromMetersPerSecond(w.SpeedMps)

	dir := "000"
	if w.DirectionDeg != nil && kt >= 2 {
		dir = fmt.Sprintf("%03d", *w.DirectionDeg)
	}

	var b strings.Builder
	b.WriteString(dir)
	fmt.Fprintf(&b, "%02d", int(kt))
	if w.GustMps != nil && *w.GustMps != 0 {
		fmt.Fprintf(&b, "G%02d", int(KnotsFromMetersPerSecond(*w.GustMps)))
	}
	b.WriteString("KT")
	return b.String()
}

// FormatPressure renders sea-level pressure as QNH ("Q1013") and station
// pressure as QFE ("QFE1009"), in that order, each omitted when absent.
func FormatPressure(p weather.Pressure) string {
	parts := make([]string, 0, 2)
	if p.SeaLevelHpa != nil {
		parts = append(parts, fmt.Sprintf("Q%04d", *p.SeaLevelHpa))
	}
	if p.StationHpa != nil {
		parts = append(parts, fmt.Sprintf("QFE%04d", *p.StationHpa))
	}
	return strings.Join(parts, " ")
}

// FormatPhenomena renders present-weather codes as a space-joined token.
// Codes >= 800 describe sky state rather than phenomena and are skipped, so
// "mostly clear with isolated phenomena" reports come out right. A code
// below 800 that is missing from the table returns ErrUnknownCode.
func FormatPhenomena(codes []int) (string, error) {
	var parts []string
	for _, code := range codes {
		if code >= 800 {
			continue
		}
		text, ok := wxCodes[code]
		if !ok {
			return "", fmt.Errorf("%w: %d", ErrUnknownCode, code)
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " "), nil
}

// BuildReport assembles the full status line from an observation:
//
//	PsMETAR BRAY 011200 32020KT RA SCT 10/07 RH80 Q1015 QFE1013=
//
// Fields that format to "" are omitted; the observation time renders as
// DDHHMM in the timestamp's own zone (sources normalize to UTC). An
// observation without a location (or a nil one) yields ("", nil): there is
// nothing to report and the caller should skip the display cycle. Only an
// unknown phenomenon code is an error.
func BuildReport(obs *weather.Observation) (string, error) {
	if obs == nil || obs.Location == "" || obs.Timestamp.IsZero() {
		return "", nil
	}

	phenomena, err := FormatPhenomena(obs.PhenomenonCodes)
	if err != nil {
		return "", err
	}

	visibility := ""
	if obs.VisibilityM != nil {
		visibility = strconv.Itoa(*obs.VisibilityM)
	}

	fields := []string{
		strings.ToUpper(obs.Location),
		obs.Timestamp.Format("021504"),
		FormatWind(obs.Wind),
		visibility,
		phenomena,
		CloudCode(obs.CloudPct),
		FormatTemperature(obs.TemperatureC) + "/" + dewpointToken(obs),
		fmt.Sprintf("RH%d", int(math.Round(obs.HumidityPct))),
		FormatPressure(obs.Pressure),
	}

	parts := make([]string, 0, len(fields)+1)
	parts = append(parts, reportHeader)
	for _, f := range fields {
		if f != "" {
			parts = append(parts, f)
		}
	}

	return strings.Join(parts, " ") + reportTerminator, nil
}

// dewpointToken prefers the measured dewpoint and falls back to the Vaisala
// estimate. With degenerate humidity the dewpoint is unknowable and renders
// as the "//" placeholder rather than propagating NaN into the line.
func dewpointToken(obs *weather.Observation) string {
	if obs.DewpointC != nil {
		return FormatTemperature(*obs.DewpointC)
	}
	dp, err := Dewpoint(obs.TemperatureC, obs.HumidityPct)
	if err != nil {
		return "//"
	}
	return FormatTemperature(dp)
}
