package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-venuetraffic/types"
)

func TestTrafficImpactTable(t *testing.T) {
	cases := []struct {
		condition string
		tempC     float64
		prefix    string
	}{
		{"Thunderstorm", 28, "SEVERE"},
		{"Tornado", 28, "SEVERE"},
		{"Rain", 25, "HIGH"},
		{"Drizzle", 25, "HIGH"},
		{"Snow", 2, "HIGH"},
		{"Mist", 20, "MODERATE"},
		{"Fog", 20, "MODERATE"},
		{"Haze", 20, "MODERATE"},
		{"Smoke", 20, "MODERATE"},
		{"Clear", 42, "LOW-MODERATE"},
		{"Clear", 38, "LOW"},
		{"Clouds", 30, "LOW"},
	}
	for _, tc := range cases {
		got := TrafficImpact(tc.condition, tc.tempC)
		if !strings.HasPrefix(got, tc.prefix) {
			t.Fatalf("TrafficImpact(%q, %v) = %q, want prefix %q", tc.condition, tc.tempC, got, tc.prefix)
		}
	}
	// The heat branch fires strictly above the threshold.
	for _, temp := range []float64{30, 38} {
		if got := TrafficImpact("Clear", temp); strings.HasPrefix(got, "LOW-MODERATE") {
			t.Fatalf("heat branch fired at %v: %q", temp, got)
		}
	}
}

func TestCurrentRainConditions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("appid") != "test-key" {
			t.Errorf("missing api key in query")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"weather": [{"main": "Rain", "description": "light rain"}],
			"main": {"temp": 24.5, "feels_like": 25.1, "humidity": 88},
			"wind": {"speed": 4.2, "deg": 230},
			"visibility": 6000,
			"clouds": {"all": 90},
			"rain": {"1h": 1.2}
		}`))
	}))
	defer srv.Close()

	c := NewClient("test-key")
	c.BaseURL = srv.URL

	got := c.Current(context.Background(), 18.5308, 73.8470)

	if got.Status != types.StatusOK {
		t.Fatalf("expected ok, got %s (%s)", got.Status, got.Error)
	}
	if got.Condition != "Light Rain" {
		t.Fatalf("unexpected condition: %q", got.Condition)
	}
	if !strings.HasPrefix(got.TrafficWeatherImpact, "HIGH") {
		t.Fatalf("rain should map to HIGH impact, got %q", got.TrafficWeatherImpact)
	}
	if got.WindSpeedKMH != 15.1 {
		t.Fatalf("wind speed not converted to km/h: %v", got.WindSpeedKMH)
	}
	if got.VisibilityKM != 6.0 {
		t.Fatalf("visibility not converted to km: %v", got.VisibilityKM)
	}
	if got.RainLast1hMM != 1.2 {
		t.Fatalf("unexpected rain volume: %v", got.RainLast1hMM)
	}
}

func TestCurrentMissingAPIKey(t *testing.T) {
	c := NewClient("")

	got := c.Current(context.Background(), 18.5308, 73.8470)

	if got.Status != types.StatusError {
		t.Fatalf("expected error status, got %s", got.Status)
	}
	if !strings.Contains(got.Error, "OPENWEATHER_API_KEY") {
		t.Fatalf("expected missing-key message, got %q", got.Error)
	}
}

func TestCurrentUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"cod": 401, "message": "Invalid API key"}`))
	}))
	defer srv.Close()

	c := NewClient("bad-key")
	c.BaseURL = srv.URL

	got := c.Current(context.Background(), 18.5308, 73.8470)

	if got.Status != types.StatusError {
		t.Fatalf("expected error status, got %s", got.Status)
	}
	if got.Error != "Invalid API key" {
		t.Fatalf("expected upstream message, got %q", got.Error)
	}
}

func TestCurrentNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(nil)
	srv.Close()

	c := NewClient("test-key")
	c.BaseURL = srv.URL

	got := c.Current(context.Background(), 18.5308, 73.8470)
	if got.Status != types.StatusError {
		t.Fatalf("expected in-band error, got %s", got.Status)
	}
}
