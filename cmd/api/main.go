package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/assiaelattar/microbit-app/pkg/api"
	"github.com/assiaelattar/microbit-app/pkg/api/handlers"
	"github.com/assiaelattar/microbit-app/pkg/ble"
	"github.com/assiaelattar/microbit-app/pkg/db"
	"github.com/assiaelattar/microbit-app/pkg/gesture"
	"github.com/assiaelattar/microbit-app/pkg/mqtt"
	"github.com/assiaelattar/microbit-app/pkg/rover"
	"github.com/assiaelattar/microbit-app/pkg/usbuart"

	_ "github.com/assiaelattar/microbit-app/docs"
)

// @title           micro:bit rover API
// @version         1.0
// @description     REST API for driving a micro:bit rover over BLE UART

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

func main() {
	// Configure logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Parse flags
	dbPath := flag.String("db", "", "Path to database file (default: ~/.config/microbit-app/rover.db)")
	flag.Parse()

	ctx := context.Background()

	// Open database
	database, err := db.Open(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	log.Info().Str("path", database.Path()).Msg("Database opened")

	// Run migrations
	if err := database.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Bootstrap if needed (first run)
	needsBootstrap, err := database.NeedsBootstrap(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to check bootstrap status")
	}
	if needsBootstrap {
		log.Info().Msg("First run detected, bootstrapping database...")
		if err := database.Bootstrap(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to bootstrap database")
		}
		log.Info().Msg("Database bootstrapped successfully")
	}

	// Load configuration
	cfg, err := database.ActiveConfig(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().
		Str("profile", cfg.Profile.Name).
		Str("api_address", cfg.APIAddress()).
		Msg("Configuration loaded")

	// Build the rover link from the configured transport; fall back to
	// a null link so the API still serves status and docs
	link := buildLink(cfg.Rover)

	driver := rover.NewDriver(link, rover.WithRecorder(database.CommandLog()))

	// Gesture pilot, only when a camera and vision model are configured
	var pilot handlers.GesturePilot
	if cfg.Rover != nil && cfg.Rover.GestureConfigured() {
		classifier, err := gesture.NewBedrockClassifier(ctx, cfg.Rover.BedrockRegion, cfg.Rover.BedrockModel)
		if err != nil {
			log.Warn().Err(err).Msg("Bedrock classifier unavailable, gesture pilot disabled")
		} else {
			source := gesture.NewSnapshotSource(cfg.Rover.FrameURL)
			interval := time.Duration(cfg.Rover.GestureIntervalMS) * time.Millisecond
			pilot = gesture.NewPilot(source, classifier, driver, interval)
			log.Info().
				Str("frame_url", cfg.Rover.FrameURL).
				Str("model", cfg.Rover.BedrockModel).
				Dur("interval", interval).
				Msg("Gesture pilot configured")
		}
	}

	// MQTT telemetry, only when a broker is configured
	var publisher *mqtt.Publisher
	if cfg.Rover != nil && cfg.Rover.MQTTBroker != "" {
		publisher, err = mqtt.NewPublisher(cfg.Rover.MQTTBroker, cfg.Rover.MQTTTopic)
		if err != nil {
			log.Warn().Err(err).Str("broker", cfg.Rover.MQTTBroker).Msg("MQTT telemetry unavailable")
		} else {
			go publisher.Run(driver)
		}
	}

	// Create and start API router
	router := api.NewRouter(driver, driver, database.CommandLog(), pilot)

	// Handle shutdown gracefully
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("Shutting down...")
		if pilot != nil {
			pilot.Stop()
		}
		if err := driver.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to disconnect rover")
		}
		if publisher != nil {
			publisher.Close()
		}
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
		os.Exit(0)
	}()

	// Start server
	addr := cfg.APIAddress()
	log.Info().Str("address", addr).Msg("Starting API server")

	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

// buildLink constructs the transport for the configured rover.
func buildLink(r *db.Rover) rover.Link {
	if r == nil {
		log.Warn().Msg("No rover configured, using null link")
		return rover.NewNullLink()
	}

	switch r.Transport {
	case db.TransportSerial:
		if r.SerialPort == "" {
			log.Warn().Msg("Serial transport configured without a port, using null link")
			return rover.NewNullLink()
		}
		log.Info().Str("port", r.SerialPort).Msg("Using serial link")
		return usbuart.NewLink(r.SerialPort)

	case db.TransportBLE:
		if r.Address == "" {
			log.Warn().Msg("BLE transport configured without an address, using null link")
			return rover.NewNullLink()
		}
		link, err := ble.NewLink(r.Adapter, r.Address)
		if err != nil {
			log.Warn().Err(err).Msg("BlueZ unavailable, using null link")
			return rover.NewNullLink()
		}
		log.Info().Str("adapter", r.Adapter).Str("address", r.Address).Msg("Using BLE link")
		return link

	default:
		log.Warn().Str("transport", r.Transport).Msg("Unknown transport, using null link")
		return rover.NewNullLink()
	}
}
