package decision

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"go-venuetraffic/oracle"
	"go-venuetraffic/store"
	"go-venuetraffic/types"
)

const decisionReply = `{
  "decision_summary": "Extend green phases toward JM Road.",
  "priority_level": "high",
  "signal_actions": [],
  "traffic_management_actions": ["Deploy 4 wardens"],
  "public_advisories": ["Use metro where possible"],
  "risk_assessment": {"choke_probability": 0.7, "crash_risk": 0.2, "pedestrian_density": "high"},
  "map_visualization_flags": {"highlight_event_zone": true, "highlight_congestion": true, "show_metro_option": true, "alert_level": "orange"},
  "next_review_in_minutes": 30,
  "confidence": 0.8
}`

func fakeOracle(t *testing.T, content string) (*httptest.Server, *oracle.Client) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
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
	return srv, oracle.NewClientWithConfig(cfg)
}

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := st.AppendObservation(types.ObservationRecord{
		RecordID: "obs-1",
		Venue:    types.VenueInfo{Name: "Shivajinagar Stadium"},
		TrafficPrediction: types.TrafficPrediction{
			Severity: types.SeverityHigh,
		},
	}); err != nil {
		t.Fatalf("failed to seed observation: %v", err)
	}
	return st
}

func TestGenerateAppendsDecision(t *testing.T) {
	srv, oc := fakeOracle(t, decisionReply)
	defer srv.Close()

	g := &Generator{Oracle: oc, Store: seededStore(t)}

	rec, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if rec.RecordID == "" || rec.GeneratedAt == "" {
		t.Fatalf("decision missing identity fields: %+v", rec)
	}
	if rec.PriorityLevel != types.PriorityHigh {
		t.Fatalf("unexpected priority: %s", rec.PriorityLevel)
	}

	decisions := g.Store.Decisions()
	if len(decisions) != 1 {
		t.Fatalf("expected 1 persisted decision, got %d", len(decisions))
	}
	if decisions[0].RecordID != rec.RecordID {
		t.Fatalf("persisted decision differs from returned one")
	}
}

func TestGenerateEmptyLogNoWrite(t *testing.T) {
	srv, oc := fakeOracle(t, decisionReply)
	defer srv.Close()

	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	g := &Generator{Oracle: oc, Store: st}

	if _, err := g.Generate(context.Background()); !errors.Is(err, store.ErrNoObservations) {
		t.Fatalf("expected ErrNoObservations, got %v", err)
	}
	if len(st.Decisions()) != 0 {
		t.Fatalf("no decision must be written on empty observation log")
	}
	if _, err := os.Stat(st.OutputPath()); !os.IsNotExist(err) {
		t.Fatalf("decision log file should not exist, stat err: %v", err)
	}
}

func TestGenerateUnparsableOutputNoWrite(t *testing.T) {
	srv, oc := fakeOracle(t, "sorry, nothing structured here")
	defer srv.Close()

	g := &Generator{Oracle: oc, Store: seededStore(t)}

	if _, err := g.Generate(context.Background()); err == nil {
		t.Fatalf("expected error on unparsable model output")
	}
	if len(g.Store.Decisions()) != 0 {
		t.Fatalf("no partial decision may be persisted")
	}
}
