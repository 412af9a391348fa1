package rover

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeLink is an in-memory Link recording every payload written to it.
type fakeLink struct {
	mu        sync.Mutex
	connected bool
	sent      []string
	dropped   func()
	sendErr   error
}

func (l *fakeLink) Connect(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.connected = true
	return nil
}

func (l *fakeLink) Disconnect(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.connected = false
	return nil
}

func (l *fakeLink) Send(ctx context.Context, payload []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.connected {
		return ErrNotConnected
	}
	if l.sendErr != nil {
		return l.sendErr
	}
	l.sent = append(l.sent, string(payload))
	return nil
}

func (l *fakeLink) Connected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.connected
}

func (l *fakeLink) Name() string { return "BBC micro:bit" }

func (l *fakeLink) SetDroppedHandler(fn func()) { l.dropped = fn }

func (l *fakeLink) Close() {}

func (l *fakeLink) sentPayloads() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.sent...)
}

func TestDrive_Disconnected(t *testing.T) {
	link := &fakeLink{}
	d := NewDriver(link)

	err := d.Drive(context.Background(), CommandForward, "api")
	if !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
	if len(link.sentPayloads()) != 0 {
		t.Errorf("expected no transmission while disconnected, got %v", link.sentPayloads())
	}
}

func TestSetPower_Disconnected(t *testing.T) {
	link := &fakeLink{}
	d := NewDriver(link)

	if err := d.SetPower(context.Background(), true, "api"); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
	if len(link.sentPayloads()) != 0 {
		t.Errorf("power toggle while disconnected must not transmit, got %v", link.sentPayloads())
	}
}

func TestDrive_PowerGate(t *testing.T) {
	link := &fakeLink{}
	d := NewDriver(link)
	ctx := context.Background()

	if err := d.Connect(ctx); err != nil {
		t.Fatal(err)
	}

	// Movement before power-on is refused.
	if err := d.Drive(ctx, CommandForward, "api"); !errors.Is(err, ErrPoweredOff) {
		t.Fatalf("expected ErrPoweredOff, got %v", err)
	}

	// Stop is exempt from the gate.
	if err := d.Drive(ctx, CommandStop, "api"); err != nil {
		t.Fatalf("stop should bypass the power gate: %v", err)
	}

	if err := d.SetPower(ctx, true, "api"); err != nil {
		t.Fatal(err)
	}
	if err := d.Drive(ctx, CommandForward, "api"); err != nil {
		t.Fatal(err)
	}

	want := []string{"stop\n", "on\n", "up\n"}
	got := link.sentPayloads()
	if len(got) != len(want) {
		t.Fatalf("sent %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sent[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDisconnect_ClearsState(t *testing.T) {
	link := &fakeLink{}
	d := NewDriver(link)
	ctx := context.Background()

	if err := d.Connect(ctx); err != nil {
		t.Fatal(err)
	}
	if err := d.SetPower(ctx, true, "api"); err != nil {
		t.Fatal(err)
	}
	if err := d.Disconnect(ctx); err != nil {
		t.Fatal(err)
	}

	st := d.Status()
	if st.Connected || st.Powered || st.LastCommand != "" {
		t.Errorf("disconnect must clear cached state, got %+v", st)
	}

	sent := len(link.sentPayloads())
	if err := d.Drive(ctx, CommandLeft, "api"); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected after disconnect, got %v", err)
	}
	if len(link.sentPayloads()) != sent {
		t.Error("send after disconnect must be a no-op")
	}
}

func TestLinkDropped_ClearsState(t *testing.T) {
	link := &fakeLink{}
	d := NewDriver(link)
	ctx := context.Background()

	if err := d.Connect(ctx); err != nil {
		t.Fatal(err)
	}
	if err := d.SetPower(ctx, true, "api"); err != nil {
		t.Fatal(err)
	}

	// Remote side vanished.
	link.mu.Lock()
	link.connected = false
	link.mu.Unlock()
	link.dropped()

	st := d.Status()
	if st.Powered || st.LastCommand != "" {
		t.Errorf("dropped link must clear cached state, got %+v", st)
	}
}

// unplugLink fails every write and fires the dropped callback the way
// the serial link does when the cable disappears mid-write: from its own
// goroutine, while the driver still holds its lock.
type unplugLink struct {
	fakeLink
}

func (l *unplugLink) Send(ctx context.Context, payload []byte) error {
	l.mu.Lock()
	l.connected = false
	dropped := l.dropped
	l.mu.Unlock()
	if dropped != nil {
		go dropped()
	}
	return errors.New("serial write: input/output error")
}

func TestSetPower_WriteFailureDropsLink(t *testing.T) {
	link := &unplugLink{}
	link.connected = true
	d := NewDriver(link)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- d.SetPower(ctx, true, "api") }()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected a write error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("SetPower never returned after a failed write")
	}

	// The drop notification races the return; wait for it to land.
	deadline := time.Now().Add(2 * time.Second)
	for {
		if err := d.Drive(ctx, CommandForward, "api"); errors.Is(err, ErrNotConnected) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("driver still accepts commands after the link dropped")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if st := d.Status(); st.Connected || st.Powered {
		t.Errorf("dropped link must clear cached state, got %+v", st)
	}
}

func TestDrive_IgnoresUnknownToken(t *testing.T) {
	link := &fakeLink{}
	d := NewDriver(link)
	ctx := context.Background()

	if err := d.Connect(ctx); err != nil {
		t.Fatal(err)
	}
	if err := d.Drive(ctx, Command("wiggle"), "api"); err != nil {
		t.Fatalf("unknown tokens are ignored, not errors: %v", err)
	}
	if len(link.sentPayloads()) != 0 {
		t.Errorf("unknown token must not transmit, got %v", link.sentPayloads())
	}
}

func TestDriver_Events(t *testing.T) {
	link := &fakeLink{}
	d := NewDriver(link)
	ctx := context.Background()

	ch := d.Subscribe()
	defer d.Unsubscribe(ch)

	if err := d.Connect(ctx); err != nil {
		t.Fatal(err)
	}
	if err := d.SetPower(ctx, true, "api"); err != nil {
		t.Fatal(err)
	}

	types := map[string]bool{}
	for len(ch) > 0 {
		ev := <-ch
		types[ev.Type] = true
	}
	for _, want := range []string{EventConnected, EventCommandSent, EventPowerChanged} {
		if !types[want] {
			t.Errorf("expected %s event, got %v", want, types)
		}
	}
}

type countingRecorder struct {
	mu      sync.Mutex
	records []string
}

func (r *countingRecorder) Record(ctx context.Context, cmd Command, source string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, string(cmd)+":"+source)
	return nil
}

func TestDriver_RecordsCommands(t *testing.T) {
	link := &fakeLink{}
	rec := &countingRecorder{}
	d := NewDriver(link, WithRecorder(rec))
	ctx := context.Background()

	if err := d.Connect(ctx); err != nil {
		t.Fatal(err)
	}
	if err := d.SetPower(ctx, true, "mcp"); err != nil {
		t.Fatal(err)
	}
	if err := d.Drive(ctx, CommandRight, "gesture"); err != nil {
		t.Fatal(err)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.records) != 2 {
		t.Fatalf("expected 2 recorded commands, got %v", rec.records)
	}
	if rec.records[1] != "right:gesture" {
		t.Errorf("unexpected record %q", rec.records[1])
	}
}
