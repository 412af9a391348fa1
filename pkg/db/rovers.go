package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrRoverNotFound = errors.New("rover config not found")

// Transport names accepted in the rovers table.
const (
	TransportBLE    = "ble"
	TransportSerial = "serial"
)

// Rover holds the link and pipeline configuration for one vehicle.
type Rover struct {
	ID                int64
	ProfileID         int64
	Name              string
	Transport         string // "ble" or "serial"
	Address           string // BLE MAC address
	Adapter           string // BlueZ adapter, e.g. "hci0"
	SerialPort        string // serial device path for the "serial" transport
	FrameURL          string // camera snapshot endpoint for the gesture pilot
	BedrockRegion     string
	BedrockModel      string
	GestureIntervalMS int
	MQTTBroker        string // empty disables telemetry
	MQTTTopic         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// GestureConfigured reports whether the gesture pilot can run.
func (r *Rover) GestureConfigured() bool {
	return r.FrameURL != "" && r.BedrockModel != ""
}

// RoverStore provides rover config CRUD operations.
type RoverStore interface {
	Get(ctx context.Context, profileID int64) (*Rover, error)
	Create(ctx context.Context, r *Rover) error
	Update(ctx context.Context, r *Rover) error
}

// Rovers returns a RoverStore for this database.
func (db *DB) Rovers() RoverStore {
	return &roverStore{db: db}
}

type roverStore struct {
	db *DB
}

const roverColumns = `id, profile_id, name, transport, address, adapter, serial_port,
	frame_url, bedrock_region, bedrock_model, gesture_interval_ms,
	mqtt_broker, mqtt_topic, created_at, updated_at`

func (s *roverStore) Get(ctx context.Context, profileID int64) (*Rover, error) {
	r := &Rover{}
	var createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT `+roverColumns+`
		FROM rovers WHERE profile_id = ?
	`, profileID).Scan(
		&r.ID, &r.ProfileID, &r.Name, &r.Transport, &r.Address, &r.Adapter,
		&r.SerialPort, &r.FrameURL, &r.BedrockRegion, &r.BedrockModel,
		&r.GestureIntervalMS, &r.MQTTBroker, &r.MQTTTopic, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrRoverNotFound
	}
	if err != nil {
		return nil, err
	}
	if r.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
		return nil, err
	}
	if r.UpdatedAt, err = parseTimestamp("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *roverStore) Create(ctx context.Context, r *Rover) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO rovers (profile_id, name, transport, address, adapter, serial_port,
			frame_url, bedrock_region, bedrock_model, gesture_interval_ms,
			mqtt_broker, mqtt_topic)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ProfileID, r.Name, r.Transport, r.Address, r.Adapter, r.SerialPort,
		r.FrameURL, r.BedrockRegion, r.BedrockModel, r.GestureIntervalMS,
		r.MQTTBroker, r.MQTTTopic)
	if err != nil {
		return fmt.Errorf("failed to create rover config: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	r.ID = id
	return nil
}

func (s *roverStore) Update(ctx context.Context, r *Rover) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE rovers SET name = ?, transport = ?, address = ?, adapter = ?,
			serial_port = ?, frame_url = ?, bedrock_region = ?, bedrock_model = ?,
			gesture_interval_ms = ?, mqtt_broker = ?, mqtt_topic = ?,
			updated_at = datetime('now')
		WHERE profile_id = ?
	`, r.Name, r.Transport, r.Address, r.Adapter, r.SerialPort, r.FrameURL,
		r.BedrockRegion, r.BedrockModel, r.GestureIntervalMS, r.MQTTBroker,
		r.MQTTTopic, r.ProfileID)
	return err
}
