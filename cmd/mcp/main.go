package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/assiaelattar/microbit-app/pkg/ble"
	"github.com/assiaelattar/microbit-app/pkg/db"
	"github.com/assiaelattar/microbit-app/pkg/gesture"
	rovermcp "github.com/assiaelattar/microbit-app/pkg/mcp"
	"github.com/assiaelattar/microbit-app/pkg/rover"
	"github.com/assiaelattar/microbit-app/pkg/usbuart"
)

func main() {
	// Logging must go to stderr, stdout is the MCP transport
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

	link := buildLink(cfg.Rover)
	driver := rover.NewDriver(link, rover.WithRecorder(database.CommandLog()))

	// Gesture pilot, only when a camera and vision model are configured
	var pilot rovermcp.GesturePilot
	if cfg.Rover != nil && cfg.Rover.GestureConfigured() {
		classifier, err := gesture.NewBedrockClassifier(ctx, cfg.Rover.BedrockRegion, cfg.Rover.BedrockModel)
		if err != nil {
			log.Warn().Err(err).Msg("Bedrock classifier unavailable, gesture pilot disabled")
		} else {
			source := gesture.NewSnapshotSource(cfg.Rover.FrameURL)
			interval := time.Duration(cfg.Rover.GestureIntervalMS) * time.Millisecond
			pilot = gesture.NewPilot(source, classifier, driver, interval)
		}
	}

	// Create and start MCP server
	mcpServer := rovermcp.NewServer(driver, pilot)

	log.Info().Msg("Starting MCP server on stdio")

	if err := mcpServer.ServeStdio(); err != nil {
		log.Fatal().Err(err).Msg("MCP server failed")
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
		return link

	default:
		log.Warn().Str("transport", r.Transport).Msg("Unknown transport, using null link")
		return rover.NewNullLink()
	}
}
