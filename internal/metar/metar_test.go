package metar

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/piserverstatus/piserverstatusd/internal/weather"
)

func intPtr(v int) *int { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestKnotsFromMetersPerSecond(t *testing.T) {
	if got := KnotsFromMetersPerSecond(0); got != 0 {
		t.Fatalf("expected 0 knots for 0 m/s, got %v", got)
	}
	if got := KnotsFromMetersPerSecond(100); math.Abs(got-51.44) > 0.01 {
		t.Fatalf("expected ~51.44 knots for 100 m/s, got %v", got)
	}
	// Linearity.
	if got, want := KnotsFromMetersPerSecond(50), KnotsFromMetersPerSecond(100)/2; got != want {
		t.Fatalf("expected linear conversion, got %v want %v", got, want)
	}
}

func TestCloudCode(t *testing.T) {
	cases := []struct {
		pct  float64
		want string
	}{
		{0, ""},
		{12, "FEW"},
		{25, "FEW"},
		{26, "SCT"},
		{30, "SCT"},
		{50, "SCT"},
		{70, "BKN"},
		{75, "BKN"},
		{76, "OVC"},
		{99, "OVC"},
		{100, "OVC"},
	}
	for _, tc := range cases {
		if got := CloudCode(tc.pct); got != tc.want {
			t.Errorf("CloudCode(%v) = %q, want %q", tc.pct, got, tc.want)
		}
	}

	valid := map[string]bool{"": true, "FEW": true, "SCT": true, "BKN": true, "OVC": true}
	for p := 0.0; p <= 100; p++ {
		if !valid[CloudCode(p)] {
			t.Fatalf("CloudCode(%v) produced unexpected code %q", p, CloudCode(p))
		}
	}
}

func TestDewpoint(t *testing.T) {
	dp, err := Dewpoint(40, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(dp-27.59) > 0.01 {
		t.Fatalf("Dewpoint(40, 50) = %v, want ~27.59", dp)
	}

	// Dewpoint never exceeds the air temperature for valid humidity.
	for _, temp := range []float64{-15, 0, 10, 25, 40} {
		for rh := 5.0; rh <= 100; rh += 5 {
			dp, err := Dewpoint(temp, rh)
			if err != nil {
				t.Fatalf("Dewpoint(%v, %v) unexpected error: %v", temp, rh, err)
			}
			if dp > temp+1e-9 {
				t.Fatalf("Dewpoint(%v, %v) = %v exceeds temperature", temp, rh, dp)
			}
		}
	}
}

func TestDewpointDegenerateHumidity(t *testing.T) {
	for _, rh := range []float64{0, -5} {
		if _, err := Dewpoint(20, rh); !errors.Is(err, ErrDegenerateHumidity) {
			t.Fatalf("Dewpoint(20, %v) error = %v, want ErrDegenerateHumidity", rh, err)
		}
	}
}

func TestFormatTemperature(t *testing.T) {
	cases := []struct {
		tempC float64
		want  string
	}{
		{0, "00"},
		{-1, "M01"},
		{15, "15"},
		{-0.51, "M01"},
		// Rounding is half away from zero, the M prefix follows the sign of
		// the input.
		{-0.5, "M01"},
		{0.5, "01"},
		{-0.4, "M00"},
	}
	for _, tc := range cases {
		if got := FormatTemperature(tc.tempC); got != tc.want {
			t.Errorf("FormatTemperature(%v) = %q, want %q", tc.tempC, got, tc.want)
		}
	}
}

func TestFormatWind(t *testing.T) {
	cases := []struct {
		name string
		wind weather.Wind
		want string
	}{
		{
			name: "ordinary wind",
			wind: weather.Wind{DirectionDeg: intPtr(320), SpeedMps: 20},
			want: "32010KT",
		},
		{
			name: "sub two knot wind renders calm direction",
			wind: weather.Wind{DirectionDeg: intPtr(320), SpeedMps: 2},
			want: "00001KT",
		},
		{
			name: "gusting wind",
			wind: weather.Wind{DirectionDeg: intPtr(90), SpeedMps: 50, GustMps: floatPtr(85)},
			want: "09025G43KT",
		},
		{
			name: "missing direction",
			wind: weather.Wind{SpeedMps: 10},
			want: "00005KT",
		},
		{
			name: "calm",
			wind: weather.Wind{},
			want: "00000KT",
		},
	}
	for _, tc := range cases {
		if got := FormatWind(tc.wind); got != tc.want {
			t.Errorf("%s: FormatWind = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestFormatPressure(t *testing.T) {
	cases := []struct {
		p    weather.Pressure
		want string
	}{
		{weather.Pressure{SeaLevelHpa: intPtr(1046), StationHpa: intPtr(1043)}, "Q1046 QFE1043"},
		{weather.Pressure{StationHpa: intPtr(1043)}, "QFE1043"},
		{weather.Pressure{SeaLevelHpa: intPtr(1046)}, "Q1046"},
		{weather.Pressure{SeaLevelHpa: intPtr(999), StationHpa: intPtr(997)}, "Q0999 QFE0997"},
		{weather.Pressure{}, ""},
	}
	for _, tc := range cases {
		if got := FormatPressure(tc.p); got != tc.want {
			t.Errorf("FormatPressure(%+v) = %q, want %q", tc.p, got, tc.want)
		}
	}
}

func TestFormatPhenomena(t *testing.T) {
	got, err := FormatPhenomena([]int{771, 201})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "SQ TSRA" {
		t.Fatalf("FormatPhenomena([771 201]) = %q, want %q", got, "SQ TSRA")
	}

	got, err = FormatPhenomena([]int{800})
	if err != nil || got != "" {
		t.Fatalf("FormatPhenomena([800]) = %q, %v; want empty, nil", got, err)
	}

	got, err = FormatPhenomena([]int{201, 800})
	if err != nil || got != "TSRA" {
		t.Fatalf("FormatPhenomena([201 800]) = %q, %v; want %q, nil", got, err, "TSRA")
	}
}

func TestFormatPhenomenaUnknownCode(t *testing.T) {
	if _, err := FormatPhenomena([]int{599}); !errors.Is(err, ErrUnknownCode) {
		t.Fatalf("expected ErrUnknownCode for code 599, got %v", err)
	}
}

// Dewpoint fallback rendering as it appears inside the report token.
func TestEstimatedDewpointToken(t *testing.T) {
	cases := []struct {
		tempC float64
		rh    float64
		want  string
	}{
		{40, 50, "28"},
		{-10, 66, "M15"},
		{25, 100, "25"},
		{10, 50, "00"},
	}
	for _, tc := range cases {
		obs := &weather.Observation{TemperatureC: tc.tempC, HumidityPct: tc.rh}
		if got := dewpointToken(obs); got != tc.want {
			t.Errorf("dewpointToken(t=%v rh=%v) = %q, want %q", tc.tempC, tc.rh, got, tc.want)
		}
	}
}

func testObservation() *weather.Observation {
	return &weather.Observation{
		Location:  "Bray",
		Timestamp: time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC),
		// 38.9 m/s converts to just over 20 knots.
		Wind:            weather.Wind{DirectionDeg: intPtr(320), SpeedMps: 38.9},
		CloudPct:        30,
		PhenomenonCodes: []int{501},
		TemperatureC:    10,
		HumidityPct:     80,
		Pressure:        weather.Pressure{SeaLevelHpa: intPtr(1015), StationHpa: intPtr(1013)},
	}
}

func TestBuildReport(t *testing.T) {
	line, err := BuildReport(testObservation())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "PsMETAR BRAY 011200 32020KT RA SCT 10/07 RH80 Q1015 QFE1013="
	if line != want {
		t.Fatalf("BuildReport = %q, want %q", line, want)
	}
}

func TestBuildReportIsPure(t *testing.T) {
	obs := testObservation()
	first, err := BuildReport(obs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := BuildReport(obs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("formatting is not deterministic: %q vs %q", first, second)
	}
}

func TestBuildReportMeasuredDewpointWins(t *testing.T) {
	obs := testObservation()
	obs.DewpointC = floatPtr(4.2)

	line, err := BuildReport(obs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(line, " 10/04 ") {
		t.Fatalf("expected measured dewpoint in %q", line)
	}
}

func TestBuildReportDegenerateHumidity(t *testing.T) {
	obs := testObservation()
	obs.HumidityPct = 0

	line, err := BuildReport(obs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(line, " 10/// ") {
		t.Fatalf("expected unknown-dewpoint placeholder in %q", line)
	}
}

func TestBuildReportOmitsEmptyFields(t *testing.T) {
	obs := testObservation()
	obs.CloudPct = 0
	obs.PhenomenonCodes = nil
	obs.Pressure = weather.Pressure{}

	line, err := BuildReport(obs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(line, "  ") {
		t.Fatalf("doubled separator in %q", line)
	}
	want := "PsMETAR BRAY 011200 32020KT 10/07 RH80="
	if line != want {
		t.Fatalf("BuildReport = %q, want %q", line, want)
	}
}

func TestBuildReportVisibility(t *testing.T) {
	obs := testObservation()
	obs.VisibilityM = intPtr(9000)

	line, err := BuildReport(obs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(line, "32020KT 9000 RA") {
		t.Fatalf("expected visibility after wind in %q", line)
	}
}

func TestBuildReportAbsent(t *testing.T) {
	if line, err := BuildReport(nil); line != "" || err != nil {
		t.Fatalf("nil observation: got %q, %v", line, err)
	}

	obs := testObservation()
	obs.Location = ""
	if line, err := BuildReport(obs); line != "" || err != nil {
		t.Fatalf("missing location: got %q, %v", line, err)
	}

	obs = testObservation()
	obs.Timestamp = time.Time{}
	if line, err := BuildReport(obs); line != "" || err != nil {
		t.Fatalf("missing timestamp: got %q, %v", line, err)
	}
}

func TestBuildReportUnknownCode(t *testing.T) {
	obs := testObservation()
	obs.PhenomenonCodes = []int{42}

	line, err := BuildReport(obs)
	if !errors.Is(err, ErrUnknownCode) {
		t.Fatalf("expected ErrUnknownCode, got %v", err)
	}
	if line != "" {
		t.Fatalf("expected empty line on unknown code, got %q", line)
	}
}
