package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"go-venuetraffic/types"
)

func sampleObservation() types.ObservationRecord {
	return types.ObservationRecord{
		Venue: types.VenueInfo{Name: "Shivajinagar Stadium", Type: "stadium", Capacity: "25,000"},
		TrafficPrediction: types.TrafficPrediction{
			Severity:        types.SeverityHigh,
			CongestionIndex: 78,
			Confidence:      70,
		},
		Location: types.Location{Latitude: 18.5308, Longitude: 73.8470},
		MapplsLiveTraffic: types.LiveTraffic{
			Status:          types.StatusOK,
			TrafficDelayMin: 12.0,
			CongestionLevel: types.CongestionCritical,
		},
	}
}

// fakeGateway serves the OpenAI-compatible chat completion endpoint with a
// canned assistant reply.
func fakeGateway(t *testing.T, content string) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return srv, NewClientWithConfig(cfg)
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"a": 1}`, `{"a": 1}`},
		{"Sure, here you go:\n```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{`prefix {"a": {"b": 2}} suffix`, `{"a": {"b": 2}}`},
	}
	for _, tc := range cases {
		got, err := ExtractJSON(tc.in)
		if err != nil {
			t.Fatalf("ExtractJSON(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ExtractJSON(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExtractJSONNoObject(t *testing.T) {
	for _, in := range []string{"", "no json here", "} {"} {
		if _, err := ExtractJSON(in); !errors.Is(err, ErrNoJSON) {
			t.Fatalf("ExtractJSON(%q): expected ErrNoJSON, got %v", in, err)
		}
	}
}

const forecastReply = "```json\n" + `{
  "venue": {"name": "Shivajinagar Stadium", "type": "stadium", "capacity": "25,000"},
  "event_context": {"likely_event_today": "Pune Premier Cup, Monsoon Music Night", "date": "28 August 2026", "estimated_attendance": "18,000"},
  "traffic_prediction": {
    "severity": "HIGH",
    "congestion_index": 78,
    "confidence": 70,
    "peak_period": {"start": "18:30", "end": "21:00", "label": "6:30 PM - 9:00 PM", "description": "match exit overlaps evening rush"}
  },
  "impact_zones": [
    {"radius": "0-500m", "level": 8, "roads_affected": "Stadium Road"},
    {"radius": "500m-2km", "level": 5, "roads_affected": "JM Road, FC Road"}
  ]
}` + "\n```"

func TestForecastParsesWrappedJSON(t *testing.T) {
	srv, c := fakeGateway(t, forecastReply)
	defer srv.Close()

	got, err := c.Forecast(context.Background(), "Shivajinagar Stadium", "No reliable live data found.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Venue.Name != "Shivajinagar Stadium" {
		t.Fatalf("unexpected venue name: %q", got.Venue.Name)
	}
	if got.TrafficPrediction.Severity != "HIGH" {
		t.Fatalf("unexpected severity: %s", got.TrafficPrediction.Severity)
	}
	if len(got.ImpactZones) != 2 {
		t.Fatalf("expected 2 impact zones, got %d", len(got.ImpactZones))
	}
	if got.TrafficPrediction.PeakPeriod.Start != "18:30" {
		t.Fatalf("unexpected peak start: %q", got.TrafficPrediction.PeakPeriod.Start)
	}
}

func TestForecastNoJSONFailsHard(t *testing.T) {
	srv, c := fakeGateway(t, "I am sorry, I cannot help with that.")
	defer srv.Close()

	if _, err := c.Forecast(context.Background(), "venue", "snippet"); !errors.Is(err, ErrNoJSON) {
		t.Fatalf("expected ErrNoJSON, got %v", err)
	}
}

func TestForecastMissingFieldsFailsHard(t *testing.T) {
	srv, c := fakeGateway(t, `{"venue": {"name": ""}}`)
	defer srv.Close()

	if _, err := c.Forecast(context.Background(), "venue", "snippet"); err == nil {
		t.Fatalf("expected shape validation error")
	}
}

func TestForecastGatewayDown(t *testing.T) {
	srv, c := fakeGateway(t, "")
	srv.Close()

	if _, err := c.Forecast(context.Background(), "venue", "snippet"); err == nil {
		t.Fatalf("expected error on unreachable gateway")
	}
}

const decisionReply = `{
  "decision_summary": "Deploy wardens and extend green phases toward JM Road.",
  "priority_level": "high",
  "signal_actions": [
    {"junction_area": "Shivajinagar Chowk", "east_west_green_time_sec": 45, "north_south_green_time_sec": 30, "reason": "event egress"}
  ],
  "traffic_management_actions": ["Deploy 4 wardens", "Open overflow parking"],
  "public_advisories": ["Use metro where possible"],
  "risk_assessment": {"choke_probability": 0.7, "crash_risk": 0.2, "pedestrian_density": "high"},
  "map_visualization_flags": {"highlight_event_zone": true, "highlight_congestion": true, "show_metro_option": true, "alert_level": "orange"},
  "next_review_in_minutes": 30,
  "confidence": 0.8
}`

func TestDecideParsesDecision(t *testing.T) {
	srv, c := fakeGateway(t, decisionReply)
	defer srv.Close()

	got, err := c.Decide(context.Background(), sampleObservation())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PriorityLevel != "high" {
		t.Fatalf("unexpected priority: %s", got.PriorityLevel)
	}
	if len(got.SignalActions) != 1 || got.SignalActions[0].EastWestGreenTimeSec != 45 {
		t.Fatalf("unexpected signal actions: %+v", got.SignalActions)
	}
	if got.RiskAssessment.ChokeProbability != 0.7 {
		t.Fatalf("unexpected choke probability: %v", got.RiskAssessment.ChokeProbability)
	}
	if got.MapVisualizationFlags.AlertLevel != "orange" {
		t.Fatalf("unexpected alert level: %s", got.MapVisualizationFlags.AlertLevel)
	}
}

func TestDecideUnparsableFailsHard(t *testing.T) {
	srv, c := fakeGateway(t, "the junction is busy { maybe")
	defer srv.Close()

	if _, err := c.Decide(context.Background(), sampleObservation()); err == nil {
		t.Fatalf("expected error on unparsable output")
	}
}
