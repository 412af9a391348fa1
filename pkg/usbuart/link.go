// Package usbuart implements the rover link over the micro:bit's USB
// serial interface, for bench use without a Bluetooth adapter. The wire
// format is identical to the BLE UART path: one command word per line.
package usbuart

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"go.bug.st/serial"

	"github.com/assiaelattar/microbit-app/pkg/rover"
)

// Link implements rover.Link over a serial port.
type Link struct {
	portPath string

	mu      sync.Mutex
	port    serial.Port
	dropped func()
}

// NewLink creates a serial link for the given port path. The port is not
// opened until Connect.
func NewLink(portPath string) *Link {
	return &Link{portPath: portPath}
}

// Connect opens the port at 115200 baud, 8N1, the micro:bit's USB
// serial settings.
func (l *Link) Connect(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.port != nil {
		return nil
	}

	mode := &serial.Mode{
		BaudRate: 115200,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(l.portPath, mode)
	if err != nil {
		return fmt.Errorf("open serial port %s: %w", l.portPath, err)
	}

	l.port = port
	log.Info().Str("port", l.portPath).Msg("Serial rover link opened")
	return nil
}

// Disconnect closes the port; safe to call when not connected.
func (l *Link) Disconnect(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.port == nil {
		return nil
	}
	err := l.port.Close()
	l.port = nil
	return err
}

// Send writes one payload to the port. A write failure means the cable
// is gone: the port is closed and the dropped handler fires. The handler
// runs on its own goroutine; the caller may still hold locks of its own
// when Send returns.
func (l *Link) Send(ctx context.Context, payload []byte) error {
	l.mu.Lock()

	if l.port == nil {
		l.mu.Unlock()
		return rover.ErrNotConnected
	}
	_, err := l.port.Write(payload)
	if err != nil {
		_ = l.port.Close()
		l.port = nil
		dropped := l.dropped
		l.mu.Unlock()
		if dropped != nil {
			go dropped()
		}
		return fmt.Errorf("serial write: %w", err)
	}

	l.mu.Unlock()
	return nil
}

// Connected reports whether the port is open.
func (l *Link) Connected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.port != nil
}

// Name returns the port path.
func (l *Link) Name() string {
	return l.portPath
}

// SetDroppedHandler registers the callback for write failures.
func (l *Link) SetDroppedHandler(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dropped = fn
}

// Close closes the port if open.
func (l *Link) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.port != nil {
		_ = l.port.Close()
		l.port = nil
	}
}
