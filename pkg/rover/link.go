package rover

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotConnected indicates the rover link is not established
	ErrNotConnected = errors.New("rover not connected")

	// ErrNotFound indicates the rover device could not be found
	ErrNotFound = errors.New("rover device not found")

	// ErrTimeout indicates a link operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrUnavailable indicates the transport itself is missing
	// (no Bluetooth stack on the bus, no serial port)
	ErrUnavailable = errors.New("transport unavailable")

	// ErrPoweredOff indicates a movement command was refused because the
	// rover's motor power is switched off
	ErrPoweredOff = errors.New("rover powered off")
)

// Link is a transport carrying newline-terminated command words to the
// rover. Implementations exist for BLE UART (BlueZ) and USB serial.
// A Link performs one write at a time; there is no queueing or retry.
type Link interface {
	// Connect establishes the transport
	Connect(ctx context.Context) error

	// Disconnect tears the transport down; safe to call when not connected
	Disconnect(ctx context.Context) error

	// Send writes one payload to the rover
	Send(ctx context.Context, payload []byte) error

	// Connected reports whether the transport is currently up
	Connected() bool

	// Name returns a human-readable identifier for the remote end
	Name() string

	// SetDroppedHandler registers a callback invoked when the transport
	// drops out from under us (remote disconnect, unplugged cable).
	// Implementations must invoke the handler from its own goroutine,
	// never synchronously from inside Send: the handler takes driver
	// locks that the Send caller may already hold
	SetDroppedHandler(fn func())

	// Close releases transport resources
	Close()
}

// Event types emitted by the driver.
const (
	EventConnected    = "connected"
	EventDisconnected = "disconnected"
	EventCommandSent  = "command_sent"
	EventPowerChanged = "power_changed"
	EventError        = "error"
)

// Event describes a state change or transmission on the rover link.
type Event struct {
	Type      string    `json:"type"`
	Command   Command   `json:"command,omitempty"`
	Source    string    `json:"source,omitempty"`
	Device    string    `json:"device,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// EventSubscriber defines the interface for subscribing to rover events
type EventSubscriber interface {
	// Subscribe returns a channel that receives events
	Subscribe() chan Event

	// Unsubscribe removes a subscription
	Unsubscribe(ch chan Event)
}

// Status is the UI-facing snapshot of the rover link.
type Status struct {
	Connected   bool      `json:"connected"`
	Device      string    `json:"device,omitempty"`
	Powered     bool      `json:"powered"`
	LastCommand Command   `json:"last_command,omitempty"`
	LastSentAt  time.Time `json:"last_sent_at,omitzero"`
	LastError   string    `json:"last_error,omitempty"`
}

// Controller is the control surface the API and MCP layers program
// against. *Driver is the canonical implementation.
type Controller interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	SetPower(ctx context.Context, on bool, source string) error
	Drive(ctx context.Context, cmd Command, source string) error
	Status() Status
}

// Recorder persists transmitted commands; satisfied by db.CommandLogStore.
type Recorder interface {
	Record(ctx context.Context, cmd Command, source string) error
}
