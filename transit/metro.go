package transit

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

const defaultBaseURL = "https://overpass-api.de/api/interpreter"

const (
	searchRadiusM = 5000
	earthRadiusKM = 6371.0

	// Rough door-to-door speeds used for the time estimates: 80 m/min on
	// foot, 500 m/min by auto-rickshaw.
	walkingKMPerMin = 0.08
	autoKMPerMin    = 0.5
)

const notFoundStation = "No metro station found within 5km"

// Client finds the nearest metro station to a point using an Overpass
// bounded-radius query.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient() *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		HTTPClient: &http.Client{
			Timeout: 25 * time.Second,
		},
	}
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	ID   int64             `json:"id"`
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Tags map[string]string `json:"tags"`
}

// NearestMetro returns the closest metro station within the search radius,
// an explicit not-found sentinel when the radius is empty, or an in-band
// error result. It never fails past its boundary.
func (c *Client) NearestMetro(ctx context.Context, lat, lon float64) types.MetroStation {
	query := fmt.Sprintf(`
[out:json][timeout:25];
(
  node["railway"="station"]["station"="subway"](around:%d,%f,%f);
  node["railway"="subway_entrance"](around:%d,%f,%f);
  node["station"="subway"](around:%d,%f,%f);
);
out body;
`, searchRadiusM, lat, lon, searchRadiusM, lat, lon, searchRadiusM, lat, lon)

	form := url.Values{}
	form.Set("data", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return errorStation(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return errorStation(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errorStation(fmt.Errorf("overpass status %d", resp.StatusCode))
	}

	var out overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return errorStation(err)
	}

	if len(out.Elements) == 0 {
		return types.MetroStation{
			Status:      types.StatusNotFound,
			StationName: notFoundStation,
			Note:        "Pune Metro network may be expanding, check pmrda.gov.in",
		}
	}

	nearest := out.Elements[0]
	best := Haversine(lat, lon, nearest.Lat, nearest.Lon)
	for _, el := range out.Elements[1:] {
		if d := Haversine(lat, lon, el.Lat, el.Lon); d < best {
			best = d
			nearest = el
		}
	}

	name := nearest.Tags["name"]
	if name == "" {
		name = "Unknown Station"
	}

	dist := math.Round(best*100) / 100
	stLat, stLon, osmID := nearest.Lat, nearest.Lon, nearest.ID
	return types.MetroStation{
		Status:          types.StatusOK,
		StationName:     name,
		DistanceKM:      &dist,
		WalkingTimeMins: int(math.Round(best / walkingKMPerMin)),
		AutoTimeMins:    int(math.Round(best / autoKMPerMin)),
		Lat:             &stLat,
		Lon:             &stLon,
		OSMID:           &osmID,
		GoogleMapsLink:  fmt.Sprintf("https://www.google.com/maps/dir/?api=1&destination=%f,%f", stLat, stLon),
	}
}

func errorStation(err error) types.MetroStation {
	return types.MetroStation{
		Status:      types.StatusError,
		StationName: "Metro lookup failed",
		Error:       err.Error(),
		Note:        "Check https://punemetrorail.org for latest station info",
	}
}

// Haversine returns the great-circle distance in kilometers between two
// coordinate pairs.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLon := (lon2 - lon1) * math.Pi / 180.0

	rLat1 := lat1 * math.Pi / 180.0
	rLat2 := lat2 * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKM * c
}
