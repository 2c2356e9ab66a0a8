package mappls

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go-venuetraffic/types"
)

const (
	defaultTokenURL = "https://outpost.mappls.com/api/security/oauth/token"
	defaultRouteURL = "https://apis.mappls.com/advancedmaps/v1"
)

// destOffsetDeg displaces the probe destination northeast of the venue so
// the route samples nearby road conditions.
const destOffsetDeg = 0.02

// Congestion thresholds on traffic delay in minutes.
const (
	criticalDelayMin = 10
	highDelayMin     = 5
	moderateDelayMin = 2
)

// Client fetches live routing data from Mappls. Every data call is preceded
// by a client-credentials token exchange; a failed exchange short-circuits
// the adapter to a skipped result.
type Client struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	RouteURL     string
	HTTPClient   *http.Client
}

func NewClient(clientID, clientSecret string) *Client {
	return &Client{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     defaultTokenURL,
		RouteURL:     defaultRouteURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type routeResponse struct {
	Routes []struct {
		Distance               float64  `json:"distance"`
		Duration               float64  `json:"duration"`
		DurationWithoutTraffic *float64 `json:"duration_without_traffic"`
	} `json:"routes"`
}

func (c *Client) token(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.ClientID)
	form.Set("client_secret", c.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("mappls: failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("mappls: token request failed: %w", err)
	}
	defer resp.Body.Close()

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("mappls: failed to decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("mappls: no access_token in response (status %d)", resp.StatusCode)
	}
	return tok.AccessToken, nil
}

// FetchLiveTraffic probes a short drive from the venue and derives delay,
// average speed, and a congestion level. Failures stay in-band.
func (c *Client) FetchLiveTraffic(ctx context.Context, lat, lon float64) types.LiveTraffic {
	token, err := c.token(ctx)
	if err != nil {
		return types.LiveTraffic{
			Status:          types.StatusSkipped,
			CongestionLevel: types.CongestionUnknown,
			Error:           err.Error(),
		}
	}

	destLat := lat + destOffsetDeg
	destLon := lon + destOffsetDeg

	// Mappls route_adv takes lon,lat pairs in the path.
	routeURL := fmt.Sprintf("%s/%s/route_adv/driving/%f,%f;%f,%f?traffic=true&steps=false&resource=route_eta",
		c.RouteURL, token, lon, lat, destLon, destLat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, routeURL, nil)
	if err != nil {
		return errorTraffic(err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return errorTraffic(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errorTraffic(fmt.Errorf("route API status %d", resp.StatusCode))
	}

	var route routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&route); err != nil {
		return errorTraffic(err)
	}
	if len(route.Routes) == 0 {
		return errorTraffic(fmt.Errorf("no route data in response"))
	}

	r := route.Routes[0]
	distanceKM := r.Distance / 1000
	durationMin := r.Duration / 60
	durationNoTraffic := durationMin
	if r.DurationWithoutTraffic != nil {
		durationNoTraffic = *r.DurationWithoutTraffic / 60
	}
	delayMin := math.Max(0, durationMin-durationNoTraffic)

	avgSpeed := 0.0
	if durationMin > 0 {
		avgSpeed = distanceKM / (durationMin / 60)
	}

	return types.LiveTraffic{
		Status:          types.StatusOK,
		DistanceKM:      math.Round(distanceKM*100) / 100,
		TravelTimeMin:   math.Round(durationMin*10) / 10,
		TrafficDelayMin: math.Round(delayMin*10) / 10,
		AverageSpeedKMH: math.Round(avgSpeed*10) / 10,
		CongestionLevel: congestionLevel(delayMin),
	}
}

func congestionLevel(delayMin float64) string {
	switch {
	case delayMin > criticalDelayMin:
		return types.CongestionCritical
	case delayMin > highDelayMin:
		return types.CongestionHigh
	case delayMin > moderateDelayMin:
		return types.CongestionModerate
	default:
		return types.CongestionLow
	}
}

func errorTraffic(err error) types.LiveTraffic {
	return types.LiveTraffic{
		Status:          types.StatusError,
		CongestionLevel: types.CongestionUnknown,
		Error:           err.Error(),
	}
}
