package rover

import "context"

// NullLink is a no-op link used when no transport is available (no BlueZ
// on the system bus, no serial port). It lets the API run in limited mode:
// every operation reports ErrUnavailable and nothing is ever transmitted.
type NullLink struct{}

// NewNullLink creates a new NullLink.
func NewNullLink() *NullLink {
	return &NullLink{}
}

func (l *NullLink) Connect(ctx context.Context) error {
	return ErrUnavailable
}

func (l *NullLink) Disconnect(ctx context.Context) error {
	return nil
}

func (l *NullLink) Send(ctx context.Context, payload []byte) error {
	return ErrNotConnected
}

func (l *NullLink) Connected() bool {
	return false
}

func (l *NullLink) Name() string {
	return ""
}

func (l *NullLink) SetDroppedHandler(fn func()) {}

func (l *NullLink) Close() {}
