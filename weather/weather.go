package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"go-venuetraffic/types"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// heatThresholdC is where extreme heat starts to dent peak-hour traffic.
const heatThresholdC = 38.0

// Client fetches current conditions from OpenWeatherMap and derives the
// categorical traffic impact.
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:  apiKey,
		BaseURL: defaultBaseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// openWeatherResponse mirrors the subset of the OpenWeatherMap payload we
// consume.
type openWeatherResponse struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64  `json:"speed"`
		Deg   *float64 `json:"deg"`
	} `json:"wind"`
	Visibility *int `json:"visibility"`
	Clouds     struct {
		All *int `json:"all"`
	} `json:"clouds"`
	Rain struct {
		OneH float64 `json:"1h"`
	} `json:"rain"`
	Message string `json:"message"`
}

// Current fetches weather for a coordinate pair. All failures, including a
// missing API key, come back as an in-band error report.
func (c *Client) Current(ctx context.Context, lat, lon float64) types.WeatherReport {
	if c.APIKey == "" {
		return errorReport("OPENWEATHER_API_KEY not set in .env")
	}

	url := fmt.Sprintf("%s?lat=%f&lon=%f&appid=%s&units=metric", c.BaseURL, lat, lon, c.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errorReport("weather fetch failed: " + err.Error())
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return errorReport("weather fetch failed: " + err.Error())
	}
	defer resp.Body.Close()

	var owResp openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&owResp); err != nil {
		return errorReport("weather fetch failed: " + err.Error())
	}

	if resp.StatusCode != http.StatusOK {
		msg := owResp.Message
		if msg == "" {
			msg = fmt.Sprintf("weather API status %d", resp.StatusCode)
		}
		return errorReport(msg)
	}
	if len(owResp.Weather) == 0 {
		return errorReport("weather API returned no conditions")
	}

	visibilityKM := 10.0
	if owResp.Visibility != nil {
		visibilityKM = math.Round(float64(*owResp.Visibility)/100) / 10
	}

	return types.WeatherReport{
		Status:               types.StatusOK,
		Condition:            titleCase(owResp.Weather[0].Description),
		TemperatureC:         owResp.Main.Temp,
		FeelsLikeC:           owResp.Main.FeelsLike,
		HumidityPercent:      owResp.Main.Humidity,
		WindSpeedKMH:         math.Round(owResp.Wind.Speed*3.6*10) / 10,
		WindDirectionDeg:     owResp.Wind.Deg,
		VisibilityKM:         visibilityKM,
		CloudCoverPercent:    owResp.Clouds.All,
		RainLast1hMM:         owResp.Rain.OneH,
		TrafficWeatherImpact: TrafficImpact(owResp.Weather[0].Main, owResp.Main.Temp),
	}
}

// TrafficImpact maps a condition keyword and temperature onto the fixed
// traffic-impact decision table.
func TrafficImpact(condition string, tempC float64) string {
	switch strings.ToLower(condition) {
	case "thunderstorm", "tornado":
		return "SEVERE: Expect major delays and road closures"
	case "rain", "drizzle", "snow":
		return "HIGH: Wet roads, reduced visibility, slower traffic"
	case "mist", "fog", "haze", "smoke":
		return "MODERATE: Low visibility may slow down traffic"
	}
	if tempC > heatThresholdC {
		return "LOW-MODERATE: Extreme heat may affect peak hour traffic"
	}
	return "LOW: Weather conditions are favorable for travel"
}

// titleCase capitalizes each word, matching how conditions like "light
// rain" are rendered in the persisted records.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func errorReport(msg string) types.WeatherReport {
	return types.WeatherReport{
		Status: types.StatusError,
		Error:  msg,
	}
}
