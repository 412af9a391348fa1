package rover

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Driver wraps a Link with the power gate and status bookkeeping.
// It implements Controller and EventSubscriber.
//
// Commands are serialized: only one write is ever outstanding, matching
// the one-at-a-time nature of the UART characteristic.
type Driver struct {
	link Link

	mu         sync.Mutex
	powered    bool
	lastCmd    Command
	lastSentAt time.Time
	lastErr    string

	subscribers   []chan Event
	subscribersMu sync.Mutex

	recorder Recorder
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithRecorder persists every transmitted command through r.
func WithRecorder(r Recorder) DriverOption {
	return func(d *Driver) { d.recorder = r }
}

// NewDriver creates a Driver on top of link.
func NewDriver(link Link, opts ...DriverOption) *Driver {
	d := &Driver{link: link}
	for _, opt := range opts {
		opt(d)
	}
	link.SetDroppedHandler(d.handleLinkDropped)
	return d
}

// Connect establishes the rover link. Connecting is always an explicit,
// user-initiated action; the driver never reconnects on its own.
func (d *Driver) Connect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.link.Connected() {
		return nil
	}
	if err := d.link.Connect(ctx); err != nil {
		d.lastErr = err.Error()
		d.publish(Event{Type: EventError, Message: err.Error(), Timestamp: time.Now()})
		return err
	}
	d.lastErr = ""
	d.publish(Event{Type: EventConnected, Device: d.link.Name(), Timestamp: time.Now()})
	return nil
}

// Disconnect tears the link down and clears all cached link state, so
// subsequent sends are refused rather than written into the void.
func (d *Driver) Disconnect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	err := d.link.Disconnect(ctx)
	d.clearStateLocked()
	d.publish(Event{Type: EventDisconnected, Timestamp: time.Now()})
	return err
}

// SetPower toggles the rover's motor power. While disconnected this has
// no transmission effect and reports ErrNotConnected.
func (d *Driver) SetPower(ctx context.Context, on bool, source string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.link.Connected() {
		return ErrNotConnected
	}

	cmd := CommandPowerOff
	if on {
		cmd = CommandPowerOn
	}
	if err := d.sendLocked(ctx, cmd, source); err != nil {
		return err
	}
	d.powered = on
	d.publish(Event{Type: EventPowerChanged, Command: cmd, Source: source, Timestamp: time.Now()})
	return nil
}

// Drive transmits a movement command. Disconnected or powered-off states
// gate the transmission: nothing is written and the caller gets the
// matching sentinel error. Stop is exempt from the power gate.
func (d *Driver) Drive(ctx context.Context, cmd Command, source string) error {
	if !IsMovement(cmd) {
		// Outside the vocabulary: ignored, per the wire contract.
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.link.Connected() {
		return ErrNotConnected
	}
	if !d.powered && cmd != CommandStop {
		return ErrPoweredOff
	}
	return d.sendLocked(ctx, cmd, source)
}

// Status returns the current UI-facing snapshot.
func (d *Driver) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()

	return Status{
		Connected:   d.link.Connected(),
		Device:      d.link.Name(),
		Powered:     d.powered,
		LastCommand: d.lastCmd,
		LastSentAt:  d.lastSentAt,
		LastError:   d.lastErr,
	}
}

// Close shuts the underlying link.
func (d *Driver) Close() {
	d.link.Close()
}

// sendLocked encodes and writes one command. Callers hold d.mu.
func (d *Driver) sendLocked(ctx context.Context, cmd Command, source string) error {
	payload, ok := WireEncode(cmd)
	if !ok {
		return nil
	}

	if err := d.link.Send(ctx, payload); err != nil {
		d.lastErr = err.Error()
		log.Warn().Err(err).Str("command", string(cmd)).Str("source", source).Msg("Send failed")
		d.publish(Event{Type: EventError, Command: cmd, Source: source, Message: err.Error(), Timestamp: time.Now()})
		return err
	}

	d.lastCmd = cmd
	d.lastSentAt = time.Now()
	d.lastErr = ""
	log.Debug().Str("command", string(cmd)).Str("source", source).Msg("Command sent")

	if d.recorder != nil {
		if err := d.recorder.Record(ctx, cmd, source); err != nil {
			log.Warn().Err(err).Msg("Failed to record command")
		}
	}

	d.publish(Event{Type: EventCommandSent, Command: cmd, Source: source, Timestamp: time.Now()})
	return nil
}

// handleLinkDropped reacts to the transport vanishing underneath us.
func (d *Driver) handleLinkDropped() {
	d.mu.Lock()
	d.clearStateLocked()
	d.mu.Unlock()

	log.Warn().Msg("Rover link dropped")
	d.publish(Event{Type: EventDisconnected, Message: "link dropped", Timestamp: time.Now()})
}

// clearStateLocked resets cached link state. Callers hold d.mu.
func (d *Driver) clearStateLocked() {
	d.powered = false
	d.lastCmd = ""
}

// Subscribe returns a channel receiving driver events.
func (d *Driver) Subscribe() chan Event {
	ch := make(chan Event, 16)
	d.subscribersMu.Lock()
	d.subscribers = append(d.subscribers, ch)
	d.subscribersMu.Unlock()
	return ch
}

// Unsubscribe removes a subscription.
func (d *Driver) Unsubscribe(ch chan Event) {
	d.subscribersMu.Lock()
	defer d.subscribersMu.Unlock()
	for i, sub := range d.subscribers {
		if sub == ch {
			d.subscribers = append(d.subscribers[:i], d.subscribers[i+1:]...)
			close(ch)
			return
		}
	}
}

// publish fans an event out to all subscribers without blocking.
func (d *Driver) publish(ev Event) {
	d.subscribersMu.Lock()
	defer d.subscribersMu.Unlock()
	for _, ch := range d.subscribers {
		select {
		case ch <- ev:
		default:
			// Slow subscriber; drop rather than stall the link.
		}
	}
}
