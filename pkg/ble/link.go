// Package ble implements the rover link over BlueZ's D-Bus API: connect
// to the device, resolve the UART service, and write newline-terminated
// command words to its RX characteristic.
package ble

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog/log"

	"github.com/assiaelattar/microbit-app/pkg/rover"
)

const (
	// How long to wait for BlueZ to resolve GATT services after connect.
	resolveTimeout = 10 * time.Second
	resolvePoll    = 200 * time.Millisecond
)

// Link implements rover.Link over a BLE UART characteristic.
type Link struct {
	bz      *bluez
	adapter string
	addr    string

	mu        sync.Mutex
	connected bool
	name      string
	charPath  dbus.ObjectPath

	dropped func()
	stop    chan struct{}
}

// NewLink creates a BLE link for the rover at addr (MAC) via the given
// adapter ("hci0" by default). It verifies BlueZ is reachable but does
// not connect; connecting stays an explicit user action.
func NewLink(adapter, addr string) (*Link, error) {
	if adapter == "" {
		adapter = "hci0"
	}
	bz, err := newBluez()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rover.ErrUnavailable, err)
	}

	l := &Link{
		bz:      bz,
		adapter: adapter,
		addr:    addr,
		stop:    make(chan struct{}),
	}

	go l.watchSignals(bz.subscribePropertyChanges())

	return l, nil
}

// Connect powers the adapter if needed, connects the device, waits for
// service resolution and locates the UART RX characteristic.
func (l *Link) Connect(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.connected {
		return nil
	}

	powered, err := l.bz.adapterPowered(l.adapter)
	if err != nil {
		return fmt.Errorf("adapter %s: %w", l.adapter, err)
	}
	if !powered {
		if err := l.bz.setAdapterPowered(l.adapter, true); err != nil {
			return fmt.Errorf("power on adapter %s: %w", l.adapter, err)
		}
	}

	log.Info().Str("device", l.addr).Msg("Connecting to rover")
	if err := l.bz.connectDevice(l.adapter, l.addr); err != nil {
		if dbusErr, ok := err.(dbus.Error); ok && dbusErr.Name == "org.bluez.Error.Failed" {
			return fmt.Errorf("%w: %s", rover.ErrNotFound, l.addr)
		}
		return fmt.Errorf("connect %s: %w", l.addr, err)
	}

	if err := l.waitServicesResolved(ctx); err != nil {
		_ = l.bz.disconnectDevice(l.adapter, l.addr)
		return err
	}

	charPath, err := l.bz.findUARTCharacteristic(deviceObjectPath(l.adapter, l.addr))
	if err != nil {
		_ = l.bz.disconnectDevice(l.adapter, l.addr)
		return err
	}
	l.charPath = charPath

	if name, err := l.bz.deviceName(l.adapter, l.addr); err == nil {
		l.name = name
	} else {
		l.name = l.addr
	}

	l.connected = true
	log.Info().Str("device", l.name).Str("characteristic", string(charPath)).Msg("Rover connected")
	return nil
}

// waitServicesResolved polls the ServicesResolved property until BlueZ
// has finished GATT discovery. Callers hold l.mu.
func (l *Link) waitServicesResolved(ctx context.Context) error {
	deadline := time.Now().Add(resolveTimeout)
	for {
		resolved, err := l.bz.servicesResolved(l.adapter, l.addr)
		if err != nil {
			return fmt.Errorf("services resolved: %w", err)
		}
		if resolved {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: waiting for GATT services on %s", rover.ErrTimeout, l.addr)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(resolvePoll):
		}
	}
}

// Disconnect tears the connection down and clears the cached
// characteristic path.
func (l *Link) Disconnect(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.connected {
		return nil
	}
	err := l.bz.disconnectDevice(l.adapter, l.addr)
	l.clearLocked()
	return err
}

// Send writes one payload to the UART RX characteristic. One write at a
// time; no retry.
func (l *Link) Send(ctx context.Context, payload []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.connected || l.charPath == "" {
		return rover.ErrNotConnected
	}
	if err := l.bz.writeCharacteristic(l.charPath, payload); err != nil {
		return fmt.Errorf("write characteristic: %w", err)
	}
	return nil
}

// Connected reports the cached connection flag.
func (l *Link) Connected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.connected
}

// Name returns the device name, or the address before the first connect.
func (l *Link) Name() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.name != "" {
		return l.name
	}
	return l.addr
}

// SetDroppedHandler registers the callback for remote disconnects.
func (l *Link) SetDroppedHandler(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dropped = fn
}

// Close stops the signal watcher and releases the bus connection.
func (l *Link) Close() {
	close(l.stop)
	l.bz.close()
}

// clearLocked resets cached link state. Callers hold l.mu.
func (l *Link) clearLocked() {
	l.connected = false
	l.charPath = ""
}

// watchSignals follows PropertiesChanged for our device and clears the
// cached state when the remote side drops the connection.
func (l *Link) watchSignals(sigCh chan *dbus.Signal) {
	for {
		select {
		case <-l.stop:
			return
		case sig, ok := <-sigCh:
			if !ok {
				return
			}
			if sig.Name != propsSignal {
				continue
			}
			// Body: [interface_name string, changed_props map[string]Variant, invalidated []string]
			if len(sig.Body) < 2 {
				continue
			}
			iface, ok := sig.Body[0].(string)
			if !ok || iface != deviceIface {
				continue
			}
			changed, ok := sig.Body[1].(map[string]dbus.Variant)
			if !ok {
				continue
			}
			connVar, ok := changed["Connected"]
			if !ok {
				continue
			}
			connState, ok := connVar.Value().(bool)
			if !ok || connState {
				continue
			}
			if !strings.EqualFold(macFromPath(l.adapter, sig.Path), l.addr) {
				continue
			}

			l.mu.Lock()
			wasConnected := l.connected
			l.clearLocked()
			dropped := l.dropped
			l.mu.Unlock()

			if wasConnected {
				log.Warn().Str("device", l.addr).Msg("Rover disconnected remotely")
				if dropped != nil {
					dropped()
				}
			}
		}
	}
}
