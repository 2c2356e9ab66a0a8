package cronjobs

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"go-venuetraffic/decision"
	"go-venuetraffic/store"
)

// InitCronJobs starts the periodic decision refresh. The oracle advises
// its own review cadence per decision; the scheduler approximates it with
// a fixed half-hour sweep that is a no-op until the first observation
// lands.
func InitCronJobs(generator *decision.Generator) {
	log.Println("Starting Cron Jobs -------------------------------------------------------")
	c := cron.New()

	_, err := c.AddFunc("*/30 * * * *", func() {
		log.Println("CronJob: Decision Refresh Running")

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if _, err := generator.Generate(ctx); err != nil {
			if errors.Is(err, store.ErrNoObservations) {
				log.Println("CronJob: no observations yet, skipping decision refresh")
				return
			}
			log.Println("CronJob: decision refresh failed:", err)
		}
	})
	if err != nil {
		log.Println("Error scheduling Decision Refresh:", err)
	}

	c.Start()
}
