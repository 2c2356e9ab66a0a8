package types

type PriorityLevel string

const (
	PriorityLow      PriorityLevel = "low"
	PriorityMedium   PriorityLevel = "medium"
	PriorityHigh     PriorityLevel = "high"
	PriorityCritical PriorityLevel = "critical"
)

type SignalAction struct {
	JunctionArea           string `json:"junction_area"`
	EastWestGreenTimeSec   int    `json:"east_west_green_time_sec"`
	NorthSouthGreenTimeSec int    `json:"north_south_green_time_sec"`
	Reason                 string `json:"reason"`
}

type RiskAssessment struct {
	ChokeProbability  float64 `json:"choke_probability"`
	CrashRisk         float64 `json:"crash_risk"`
	PedestrianDensity string  `json:"pedestrian_density"`
}

type MapVisualizationFlags struct {
	HighlightEventZone  bool   `json:"highlight_event_zone"`
	HighlightCongestion bool   `json:"highlight_congestion"`
	ShowMetroOption     bool   `json:"show_metro_option"`
	AlertLevel          string `json:"alert_level"`
}

// DecisionRecord is one AI-generated traffic-management plan, derived from
// the latest ObservationRecord at generation time.
type DecisionRecord struct {
	RecordID                 string                `json:"record_id"`
	GeneratedAt              string                `json:"generated_at"`
	DecisionSummary          string                `json:"decision_summary"`
	PriorityLevel            PriorityLevel         `json:"priority_level"`
	SignalActions            []SignalAction        `json:"signal_actions"`
	TrafficManagementActions []string              `json:"traffic_management_actions"`
	PublicAdvisories         []string              `json:"public_advisories"`
	RiskAssessment           RiskAssessment        `json:"risk_assessment"`
	MapVisualizationFlags    MapVisualizationFlags `json:"map_visualization_flags"`
	NextReviewInMinutes      int                   `json:"next_review_in_minutes"`
	Confidence               float64               `json:"confidence"`
}
