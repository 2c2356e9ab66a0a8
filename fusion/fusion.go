package fusion

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-venuetraffic/geocode"
	"go-venuetraffic/livesearch"
	"go-venuetraffic/mappls"
	"go-venuetraffic/oracle"
	"go-venuetraffic/store"
	"go-venuetraffic/transit"
	"go-venuetraffic/types"
	"go-venuetraffic/weather"
)

// ErrVenueNotFound marks a venue the geocoder could not resolve.
var ErrVenueNotFound = errors.New("fusion: venue could not be geocoded")

// Pipeline fuses the oracle forecast with the independent adapter results
// into one ObservationRecord and persists it.
type Pipeline struct {
	Geocoder *geocode.Client
	Search   *livesearch.Client
	Transit  *transit.Client
	Weather  *weather.Client
	Traffic  *mappls.Client
	Oracle   *oracle.Client
	Store    *store.Store
}

// Analyze runs one full venue analysis: geocode, fan out the independent
// sources, merge, persist. The adapters run concurrently and each failure
// stays in-band; only a geocoding miss or a forecast failure aborts.
func (p *Pipeline) Analyze(ctx context.Context, venue string) (types.ObservationRecord, error) {
	log.Printf("fusion: starting analysis for venue %q", venue)

	lat, lon, found, err := p.Geocoder.Lookup(ctx, venue)
	if err != nil {
		return types.ObservationRecord{}, fmt.Errorf("%w: %v", ErrVenueNotFound, err)
	}
	if !found {
		return types.ObservationRecord{}, fmt.Errorf("%w: %q", ErrVenueNotFound, venue)
	}
	log.Printf("fusion: geocoded %q to (%f, %f)", venue, lat, lon)

	var (
		wg          sync.WaitGroup
		forecast    types.VenueForecast
		forecastErr error
		metro       types.MetroStation
		report      types.WeatherReport
		live        types.LiveTraffic
	)

	// The search->forecast chain and the three data adapters are mutually
	// independent; the merge below waits for all of them.
	wg.Add(4)
	go func() {
		defer wg.Done()
		snippet := p.Search.Fetch(ctx, venue)
		forecast, forecastErr = p.Oracle.Forecast(ctx, venue, snippet)
	}()
	go func() {
		defer wg.Done()
		metro = p.Transit.NearestMetro(ctx, lat, lon)
	}()
	go func() {
		defer wg.Done()
		report = p.Weather.Current(ctx, lat, lon)
	}()
	go func() {
		defer wg.Done()
		live = p.Traffic.FetchLiveTraffic(ctx, lat, lon)
	}()
	wg.Wait()

	// The forecast is structurally required in the merged record; nothing
	// else is.
	if forecastErr != nil {
		return types.ObservationRecord{}, forecastErr
	}

	record := Merge(forecast, lat, lon, metro, report, live)

	if err := p.Store.AppendObservation(record); err != nil {
		log.Printf("fusion: failed to persist observation for %q: %v", venue, err)
	}
	if err := p.Store.AppendEventLog(types.EventLogEntry{
		Timestamp:       record.GeneratedAt,
		Venue:           venue,
		Severity:        record.TrafficPrediction.Severity,
		CongestionLevel: record.MapplsLiveTraffic.CongestionLevel,
		Weather:         record.Weather.Condition,
	}); err != nil {
		log.Printf("fusion: failed to append event log for %q: %v", venue, err)
	}

	log.Printf("fusion: analysis for %q recorded (severity %s)", venue, record.TrafficPrediction.Severity)
	return record, nil
}

// Merge shallow-merges the forecast and adapter results into the
// observation shape. Pure; every top-level field group is always present.
func Merge(forecast types.VenueForecast, lat, lon float64, metro types.MetroStation, report types.WeatherReport, live types.LiveTraffic) types.ObservationRecord {
	return types.ObservationRecord{
		RecordID:          uuid.NewString(),
		GeneratedAt:       time.Now().Format(time.RFC3339),
		Venue:             forecast.Venue,
		EventContext:      forecast.EventContext,
		TrafficPrediction: forecast.TrafficPrediction,
		ImpactZones:       forecast.ImpactZones,
		Location: types.Location{
			Latitude:       lat,
			Longitude:      lon,
			GoogleMapsLink: fmt.Sprintf("https://www.google.com/maps?q=%f,%f", lat, lon),
		},
		NearestMetroStation: metro,
		Weather:             report,
		MapplsLiveTraffic:   live,
	}
}
