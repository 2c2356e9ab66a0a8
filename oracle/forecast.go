package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"go-venuetraffic/types"
)

const forecastSystemPrompt = `You are a Government-grade Smart City Traffic Intelligence AI for Pune, India.

STRICT OUTPUT RULES:
- Return ONLY valid JSON
- No explanation
- No markdown
- No extra text outside JSON
- Follow schema EXACTLY

EVENT NAMING RULES:
- Search the LIVE SEARCH DATA for events happening today
- Never use generic placeholder names like "Local Event" or "College Fest"
- If the search data has no real events, invent 2 to 3 plausible proper-named events for this venue (comma-separated)

TODAY'S DATE: %s

Output JSON structure EXACTLY:
{
  "venue": {
    "name": "full venue name",
    "type": "stadium | college | concert_hall | festival_ground | transit_hub | hospital | mall | protest_site | other",
    "capacity": "estimated max capacity e.g. 45,000"
  },
  "event_context": {
    "likely_event_today": "2-3 proper named events (comma-separated)",
    "date": "DD Month YYYY",
    "estimated_attendance": "estimated crowd today"
  },
  "traffic_prediction": {
    "severity": "CLEAR | LOW | MODERATE | HIGH | CRITICAL",
    "congestion_index": 0,
    "confidence": 50,
    "peak_period": {
      "start": "HH:MM",
      "end": "HH:MM",
      "label": "e.g. 6:30 PM - 9:00 PM",
      "description": "why this window is worst"
    }
  },
  "impact_zones": [
    { "radius": "0-500m", "level": 0, "roads_affected": "specific road names near venue" },
    { "radius": "500m-2km", "level": 0, "roads_affected": "major connecting roads and junctions" }
  ]
}`

// Forecast asks the oracle to fabricate the forecast field groups for a
// venue from the scraped situational snippet. Unparsable output is a hard
// failure; the forecast is structurally required in the merged record.
func (c *Client) Forecast(ctx context.Context, venue, liveData string) (types.VenueForecast, error) {
	system := fmt.Sprintf(forecastSystemPrompt, time.Now().Format("02 January 2006"))
	user := fmt.Sprintf("VENUE NAME: %s\n\nLIVE SEARCH DATA:\n%s\n\nReturn STRICT JSON only with proper event names (not generic).", venue, liveData)

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       forecastModel,
		Temperature: 0.25,
		MaxTokens:   650,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return types.VenueForecast{}, fmt.Errorf("oracle: forecast completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return types.VenueForecast{}, fmt.Errorf("oracle: forecast returned no choices")
	}

	raw, err := ExtractJSON(resp.Choices[0].Message.Content)
	if err != nil {
		return types.VenueForecast{}, err
	}

	var forecast types.VenueForecast
	if err := json.Unmarshal([]byte(raw), &forecast); err != nil {
		return types.VenueForecast{}, fmt.Errorf("oracle: invalid forecast JSON: %w", err)
	}
	if forecast.Venue.Name == "" || forecast.TrafficPrediction.Severity == "" {
		return types.VenueForecast{}, fmt.Errorf("oracle: forecast JSON missing required fields")
	}
	return forecast, nil
}
