package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-venuetraffic/fusion"
	"go-venuetraffic/oracle"
	"go-venuetraffic/store"
	"go-venuetraffic/types"
)

// Bot is the Telegram retrieval front end. It serves both persisted logs
// as context for free-text questions and drives the fusion pipeline when
// the assistant flags a missing venue.
type Bot struct {
	api      *tgbotapi.BotAPI
	store    *store.Store
	oracle   *oracle.Client
	pipeline *fusion.Pipeline

	mu      sync.Mutex
	ragMode map[int64]bool
}

func New(token string, st *store.Store, oc *oracle.Client, pipeline *fusion.Pipeline) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("bot: failed to authorize: %w", err)
	}
	return &Bot{
		api:      api,
		store:    st,
		oracle:   oc,
		pipeline: pipeline,
		ragMode:  make(map[int64]bool),
	}, nil
}

// Run polls for updates until the process exits.
func (b *Bot) Run() {
	log.Printf("bot: authorized as @%s, polling for updates", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	for update := range b.api.GetUpdatesChan(u) {
		switch {
		case update.CallbackQuery != nil:
			b.handleCallback(update.CallbackQuery)
		case update.Message != nil && update.Message.IsCommand():
			b.handleCommand(update.Message)
		case update.Message != nil:
			b.handleMessage(update.Message)
		}
	}
}

func mainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Traffic Overview", "traffic")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("AI Decision Intelligence", "ai")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("System Status", "status")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Ask AI (Custom Query)", "ask")),
	)
}

func trafficMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Current Traffic Severity", "severity")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Weather Condition", "weather")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Venue Monitoring Status", "venue")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Back to Main Menu", "main")),
	)
}

func aiMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Priority Level", "priority")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Actions Executed", "actions")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Back to Main Menu", "main")),
	)
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	if msg.Command() != "start" {
		return
	}
	log.Printf("bot: user %s (ID %d) started the bot", msg.From.UserName, msg.From.ID)

	text := "SMART TRAFFIC MANAGEMENT SYSTEM\n" +
		"City: Pune\n" +
		"Mode: AI Traffic Intelligence (RAG Enabled)\n\n" +
		"Select a module from the control panel below."
	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ReplyMarkup = mainMenu()
	b.send(reply)
}

func (b *Bot) handleCallback(query *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		log.Printf("bot: failed to answer callback: %v", err)
	}

	var latestObs types.ObservationRecord
	if obs := b.store.Observations(); len(obs) > 0 {
		latestObs = obs[len(obs)-1]
	}
	var latestDec types.DecisionRecord
	if decs := b.store.Decisions(); len(decs) > 0 {
		latestDec = decs[len(decs)-1]
	}

	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID

	switch query.Data {
	case "main":
		b.edit(chatID, messageID, "Main Control Panel - Select Module:", mainMenu())
	case "traffic":
		b.edit(chatID, messageID, "Traffic Overview Module", trafficMenu())
	case "ai":
		b.edit(chatID, messageID, "AI Decision Intelligence Module", aiMenu())
	case "status":
		status := "SYSTEM STATUS\n" +
			"AI Engine: Connected (OpenRouter)\n" +
			"Data Pipeline: Active\n" +
			"Monitoring Network: Operational\n" +
			"City Grid: Pune Smart Traffic System"
		b.edit(chatID, messageID, status, mainMenu())
	case "severity":
		b.edit(chatID, messageID, "Current Traffic Severity: "+orNA(string(latestObs.TrafficPrediction.Severity)), trafficMenu())
	case "weather":
		b.edit(chatID, messageID, "Weather Condition: "+orNA(latestObs.Weather.Condition), trafficMenu())
	case "venue":
		b.edit(chatID, messageID, "Monitored Venue: "+orNA(latestObs.Venue.Name), trafficMenu())
	case "priority":
		b.edit(chatID, messageID, "AI Priority Level: "+orNA(string(latestDec.PriorityLevel)), aiMenu())
	case "actions":
		b.edit(chatID, messageID, fmt.Sprintf("Total AI Actions Executed: %d", len(latestDec.TrafficManagementActions)), aiMenu())
	case "ask":
		b.mu.Lock()
		b.ragMode[chatID] = true
		b.mu.Unlock()
		b.edit(chatID, messageID, "AI Query Mode Activated.\nPlease enter your traffic-related question.", tgbotapi.InlineKeyboardMarkup{})
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	b.mu.Lock()
	asking := b.ragMode[chatID]
	delete(b.ragMode, chatID)
	b.mu.Unlock()

	if !asking {
		reply := tgbotapi.NewMessage(chatID, "Please use the control panel below to interact with the system.")
		reply.ReplyMarkup = mainMenu()
		b.send(reply)
		return
	}

	log.Printf("bot: custom query from %s: %.50s", msg.From.UserName, msg.Text)
	if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		log.Printf("bot: failed to send typing action: %v", err)
	}

	answer := b.answerWithRetry(msg.Text)

	reply := tgbotapi.NewMessage(chatID, answer)
	reply.ReplyMarkup = mainMenu()
	b.send(reply)

	if err := b.store.AppendChatLog(types.ChatLogEntry{
		Timestamp:         time.Now().Format(time.RFC3339),
		UserID:            msg.From.ID,
		Username:          msg.From.UserName,
		UserQuery:         msg.Text,
		AssistantResponse: answer,
		Model:             oracle.AnswerModel(),
	}); err != nil {
		log.Printf("bot: chat logging error: %v", err)
	}
}

// answerWithRetry runs one retrieval turn. When the assistant flags a
// missing venue it triggers one fresh analysis and re-asks with the
// refreshed context, at most once per turn.
func (b *Bot) answerWithRetry(query string) string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	answer, err := b.oracle.Answer(ctx, query, b.loadContext())
	if err != nil {
		return "System Error: Unable to contact AI engine.\nDetails: " + err.Error()
	}

	if !strings.Contains(answer, oracle.NeedAnalysisTag) {
		return answer
	}

	venue := parseNeedAnalysis(answer)
	if venue == "" {
		return answer
	}
	log.Printf("bot: missing data for %q, triggering backend analysis", venue)

	if _, err := b.pipeline.Analyze(ctx, venue); err != nil {
		return fmt.Sprintf("Analysis failed for %q: %v", venue, err)
	}

	answer, err = b.oracle.Answer(ctx, query, b.loadContext())
	if err != nil {
		return fmt.Sprintf("System Error: Unable to complete live analysis for %q.", venue)
	}
	return answer
}

// loadContext renders both persisted logs as the retrieval context.
func (b *Bot) loadContext() string {
	var sb strings.Builder

	if obs := b.store.Observations(); len(obs) > 0 {
		if raw, err := json.MarshalIndent(obs, "", "  "); err == nil {
			sb.WriteString("INPUT TRAFFIC STATE DATA:\n")
			sb.Write(raw)
			sb.WriteString("\n\n")
		}
	}
	if decs := b.store.Decisions(); len(decs) > 0 {
		if raw, err := json.MarshalIndent(decs, "", "  "); err == nil {
			sb.WriteString("AI TRAFFIC DECISION DATA:\n")
			sb.Write(raw)
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

// parseNeedAnalysis extracts the venue from "[NEED_ANALYSIS: <venue>]".
func parseNeedAnalysis(answer string) string {
	_, after, found := strings.Cut(answer, oracle.NeedAnalysisTag)
	if !found {
		return ""
	}
	venue, _, found := strings.Cut(after, "]")
	if !found {
		return ""
	}
	return strings.TrimSpace(venue)
}

func (b *Bot) send(msg tgbotapi.MessageConfig) {
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("bot: failed to send message: %v", err)
	}
}

func (b *Bot) edit(chatID int64, messageID int, text string, markup tgbotapi.InlineKeyboardMarkup) {
	var edit tgbotapi.Chattable
	if len(markup.InlineKeyboard) > 0 {
		e := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, markup)
		edit = e
	} else {
		edit = tgbotapi.NewEditMessageText(chatID, messageID, text)
	}

	if _, err := b.api.Send(edit); err != nil {
		// Telegram rejects edits that change nothing; harmless.
		if strings.Contains(err.Error(), "message is not modified") {
			return
		}
		log.Printf("bot: edit failed, sending fresh message: %v", err)
		msg := tgbotapi.NewMessage(chatID, text)
		if len(markup.InlineKeyboard) > 0 {
			msg.ReplyMarkup = markup
		}
		b.send(msg)
	}
}

func orNA(s string) string {
	if s == "" {
		return "Not Available"
	}
	return s
}
