package oracle

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"go-venuetraffic/types"
)

const decisionSystemPrompt = `You are a Government-grade AI Traffic Control System for Pune, India.

Your task is to analyze structured traffic state data and produce actionable traffic management decisions.

STRICT RULES:
- Output ONLY valid JSON
- No explanation
- No markdown
- No extra text
- Prioritize safety and congestion reduction
- Consider event impact, weather, congestion, metro proximity, and live traffic
- Use realistic traffic engineering actions`

const decisionOutputSchema = `Return JSON in EXACT format:

{
  "decision_summary": "short explanation",
  "priority_level": "low | medium | high | critical",

  "signal_actions": [
    {
      "junction_area": "name",
      "east_west_green_time_sec": number,
      "north_south_green_time_sec": number,
      "reason": "why"
    }
  ],

  "traffic_management_actions": ["action1", "action2"],

  "public_advisories": ["message1", "message2"],

  "risk_assessment": {
    "choke_probability": 0.0,
    "crash_risk": 0.0,
    "pedestrian_density": "low | moderate | high"
  },

  "map_visualization_flags": {
    "highlight_event_zone": true,
    "highlight_congestion": true,
    "show_metro_option": true,
    "alert_level": "green | orange | red"
  },

  "next_review_in_minutes": number,
  "confidence": 0.0
}`

// Decide turns the latest observation into a traffic-management plan.
// Unparsable model output fails hard; no partial decision is produced.
func (c *Client) Decide(ctx context.Context, obs types.ObservationRecord) (types.DecisionRecord, error) {
	state, err := json.MarshalIndent(obs, "", "  ")
	if err != nil {
		return types.DecisionRecord{}, fmt.Errorf("oracle: failed to encode observation: %w", err)
	}

	user := fmt.Sprintf("INPUT TRAFFIC STATE:\n%s\n\n%s", state, decisionOutputSchema)

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       decisionModel,
		Temperature: 0.2,
		MaxTokens:   900,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: decisionSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return types.DecisionRecord{}, fmt.Errorf("oracle: decision completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return types.DecisionRecord{}, fmt.Errorf("oracle: decision returned no choices")
	}

	raw, err := ExtractJSON(resp.Choices[0].Message.Content)
	if err != nil {
		return types.DecisionRecord{}, err
	}

	var decision types.DecisionRecord
	if err := json.Unmarshal([]byte(raw), &decision); err != nil {
		return types.DecisionRecord{}, fmt.Errorf("oracle: invalid decision JSON: %w", err)
	}
	if decision.DecisionSummary == "" && decision.PriorityLevel == "" {
		return types.DecisionRecord{}, fmt.Errorf("oracle: decision JSON missing required fields")
	}
	return decision, nil
}
