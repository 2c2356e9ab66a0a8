package types

// EventLogEntry is the one-line audit trail appended after each analysis.
type EventLogEntry struct {
	Timestamp       string   `json:"timestamp"`
	Venue           string   `json:"venue"`
	Severity        Severity `json:"severity"`
	CongestionLevel string   `json:"congestion_level"`
	Weather         string   `json:"weather"`
}

// ChatLogEntry records one bot conversation turn.
type ChatLogEntry struct {
	Timestamp         string `json:"timestamp"`
	UserID            int64  `json:"user_id"`
	Username          string `json:"username"`
	UserQuery         string `json:"user_query"`
	AssistantResponse string `json:"assistant_response"`
	Model             string `json:"model"`
}
