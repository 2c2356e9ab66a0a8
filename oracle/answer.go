package oracle

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// NeedAnalysisTag marks a retrieval answer that could not be served from
// context. The assistant emits "[NEED_ANALYSIS: <venue>]" when asked about
// a venue absent from the loaded logs.
const NeedAnalysisTag = "[NEED_ANALYSIS:"

const answerSystemPrompt = `You are a Professional Smart City Traffic Intelligence Assistant for Pune.
Provide formal, concise, and data-driven responses.
Use the provided dataset to answer queries.

CRITICAL RULE - MISSING DATA:
If the user asks about a specific place, venue, or event that is NOT in the provided context, you MUST respond with a special trigger tag.
Format: [NEED_ANALYSIS: Actual Name of Venue]
Example: If the user asks about "Magarpatta City" and it's missing, you MUST return "[NEED_ANALYSIS: Magarpatta City]".
Do NOT add any other explanation or text.

CONTEXT:
%s`

// AnswerModel reports which model backs retrieval answers, for the chat
// audit trail.
func AnswerModel() string { return answerModel }

// Answer runs one retrieval turn: the two persisted logs go in as raw
// context and the user's free text is answered from them.
func (c *Client) Answer(ctx context.Context, query, ragContext string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: answerModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(answerSystemPrompt, ragContext)},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
	})
	if err != nil {
		return "", fmt.Errorf("oracle: answer completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("oracle: answer returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
