package main

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"go-venuetraffic/bot"
	"go-venuetraffic/cronjobs"
	"go-venuetraffic/decision"
	"go-venuetraffic/fusion"
	"go-venuetraffic/geocode"
	"go-venuetraffic/livesearch"
	"go-venuetraffic/mappls"
	"go-venuetraffic/oracle"
	"go-venuetraffic/routes"
	"go-venuetraffic/store"
	"go-venuetraffic/transit"
	"go-venuetraffic/weather"
)

const dataDir = "data"

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	st, err := store.New(dataDir)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}

	// Mirror the log stream into the debug file next to the data logs.
	debugLog, err := os.OpenFile(filepath.Join(dataDir, "app_debug.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("Failed to open debug log, logging to stderr only: %v", err)
	} else {
		defer debugLog.Close()
		log.SetOutput(io.MultiWriter(os.Stderr, debugLog))
	}

	log.Println("Initializing Smart Venue Traffic Intelligence API...")

	if os.Getenv("OPENROUTER_API_KEY") != "" {
		log.Println("OPENROUTER_API_KEY loaded")
	}

	oracleClient := oracle.NewClient(os.Getenv("OPENROUTER_API_KEY"))

	pipeline := &fusion.Pipeline{
		Geocoder: geocode.NewClient(),
		Search:   livesearch.NewClient(),
		Transit:  transit.NewClient(),
		Weather:  weather.NewClient(os.Getenv("OPENWEATHER_API_KEY")),
		Traffic:  mappls.NewClient(os.Getenv("MAPPLS_CLIENT_ID"), os.Getenv("MAPPLS_CLIENT_SECRET")),
		Oracle:   oracleClient,
		Store:    st,
	}

	generator := &decision.Generator{
		Oracle: oracleClient,
		Store:  st,
	}

	// Initialize cron jobs
	cronjobs.InitCronJobs(generator)

	// The Telegram front end is optional; a missing token disables it only.
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		tgBot, err := bot.New(token, st, oracleClient, pipeline)
		if err != nil {
			log.Printf("Telegram bot disabled: %v", err)
		} else {
			go tgBot.Run()
		}
	} else {
		log.Println("TELEGRAM_BOT_TOKEN not set, Telegram front end disabled")
	}

	r := routes.SetupRouter(pipeline, generator, st)
	if err := r.Run(":8080"); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
