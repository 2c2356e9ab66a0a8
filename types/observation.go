package types

// AdapterStatus tags every external-source result so callers can branch
// deterministically instead of probing for ad hoc error keys.
type AdapterStatus string

const (
	StatusOK       AdapterStatus = "ok"
	StatusNotFound AdapterStatus = "not_found"
	StatusSkipped  AdapterStatus = "skipped"
	StatusError    AdapterStatus = "error"
)

// Traffic severity levels as emitted by the forecast oracle.
type Severity string

const (
	SeverityClear    Severity = "CLEAR"
	SeverityLow      Severity = "LOW"
	SeverityModerate Severity = "MODERATE"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Congestion levels derived from live routing delay.
const (
	CongestionLow      = "LOW"
	CongestionModerate = "MODERATE"
	CongestionHigh     = "HIGH"
	CongestionCritical = "CRITICAL"
	CongestionUnknown  = "UNKNOWN"
)

type VenueInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Capacity string `json:"capacity"`
}

type EventContext struct {
	LikelyEventToday    string `json:"likely_event_today"`
	Date                string `json:"date"`
	EstimatedAttendance string `json:"estimated_attendance"`
}

type PeakPeriod struct {
	Start       string `json:"start"`
	End         string `json:"end"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

type TrafficPrediction struct {
	Severity        Severity   `json:"severity"`
	CongestionIndex int        `json:"congestion_index"`
	Confidence      int        `json:"confidence"`
	PeakPeriod      PeakPeriod `json:"peak_period"`
}

type ImpactZone struct {
	Radius        string `json:"radius"`
	Level         int    `json:"level"`
	RoadsAffected string `json:"roads_affected"`
}

// VenueForecast is the oracle's contribution to an observation: the four
// field groups the model is prompted to fabricate.
type VenueForecast struct {
	Venue             VenueInfo         `json:"venue"`
	EventContext      EventContext      `json:"event_context"`
	TrafficPrediction TrafficPrediction `json:"traffic_prediction"`
	ImpactZones       []ImpactZone      `json:"impact_zones"`
}

type Location struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	GoogleMapsLink string  `json:"google_maps_link"`
}

// MetroStation is the nearest-transit adapter result. NotFound keeps the
// sentinel station name so downstream consumers render it as-is.
type MetroStation struct {
	Status          AdapterStatus `json:"status"`
	StationName     string        `json:"station_name"`
	DistanceKM      *float64      `json:"distance_km"`
	WalkingTimeMins int           `json:"walking_time_mins,omitempty"`
	AutoTimeMins    int           `json:"auto_time_mins,omitempty"`
	Lat             *float64      `json:"lat"`
	Lon             *float64      `json:"lon"`
	OSMID           *int64        `json:"osm_id"`
	GoogleMapsLink  string        `json:"google_maps_link,omitempty"`
	Note            string        `json:"note,omitempty"`
	Error           string        `json:"error,omitempty"`
}

type WeatherReport struct {
	Status               AdapterStatus `json:"status"`
	Condition            string        `json:"condition,omitempty"`
	TemperatureC         float64       `json:"temperature_c,omitempty"`
	FeelsLikeC           float64       `json:"feels_like_c,omitempty"`
	HumidityPercent      int           `json:"humidity_percent,omitempty"`
	WindSpeedKMH         float64       `json:"wind_speed_kmh,omitempty"`
	WindDirectionDeg     *float64      `json:"wind_direction_deg,omitempty"`
	VisibilityKM         float64       `json:"visibility_km,omitempty"`
	CloudCoverPercent    *int          `json:"cloud_cover_percent,omitempty"`
	RainLast1hMM         float64       `json:"rain_last_1h_mm"`
	TrafficWeatherImpact string        `json:"traffic_weather_impact,omitempty"`
	Error                string        `json:"error,omitempty"`
}

type LiveTraffic struct {
	Status          AdapterStatus `json:"status"`
	DistanceKM      float64       `json:"distance_km,omitempty"`
	TravelTimeMin   float64       `json:"travel_time_min,omitempty"`
	TrafficDelayMin float64       `json:"traffic_delay_min"`
	AverageSpeedKMH float64       `json:"average_speed_kmh,omitempty"`
	CongestionLevel string        `json:"congestion_level"`
	Error           string        `json:"error,omitempty"`
}

// ObservationRecord is one fused per-venue snapshot. Every adapter field
// group is independently optional-on-failure: a failed source embeds its
// error in-band and never blocks the rest of the record.
type ObservationRecord struct {
	RecordID            string            `json:"record_id"`
	GeneratedAt         string            `json:"generated_at"`
	Venue               VenueInfo         `json:"venue"`
	EventContext        EventContext      `json:"event_context"`
	TrafficPrediction   TrafficPrediction `json:"traffic_prediction"`
	ImpactZones         []ImpactZone      `json:"impact_zones"`
	Location            Location          `json:"location"`
	NearestMetroStation MetroStation      `json:"nearest_metro_station"`
	Weather             WeatherReport     `json:"weather"`
	MapplsLiveTraffic   LiveTraffic       `json:"mappls_live_traffic"`
}
