package mqtt

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	mqttlib "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assiaelattar/microbit-app/pkg/rover"
)

type publishedMessage struct {
	topic   string
	payload []byte
}

type fakeClient struct {
	mqttlib.Client

	mu        sync.Mutex
	published []publishedMessage
}

func (f *fakeClient) Publish(topic string, qos byte, retained bool, payload any) mqttlib.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, publishedMessage{
		topic:   topic,
		payload: payload.([]byte),
	})
	return &mqttlib.DummyToken{}
}

func (f *fakeClient) Disconnect(quiesce uint) {}

func (f *fakeClient) messages() []publishedMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]publishedMessage(nil), f.published...)
}

// fakeSubscriber closes the channel on Unsubscribe, like the driver does.
type fakeSubscriber struct {
	ch chan rover.Event

	mu           sync.Mutex
	unsubscribed bool
}

func (f *fakeSubscriber) Subscribe() chan rover.Event { return f.ch }

func (f *fakeSubscriber) Unsubscribe(ch chan rover.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.unsubscribed {
		f.unsubscribed = true
		close(ch)
	}
}

func TestPublisher_ForwardsEvents(t *testing.T) {
	client := &fakeClient{}
	p := newPublisherWithClient(client, "microbit-app")

	sub := &fakeSubscriber{ch: make(chan rover.Event, 2)}
	sub.ch <- rover.Event{Type: rover.EventCommandSent, Command: rover.CommandForward, Source: "api", Timestamp: time.Now()}
	sub.ch <- rover.Event{Type: rover.EventDisconnected, Timestamp: time.Now()}
	sub.Unsubscribe(sub.ch)

	p.Run(sub)

	msgs := client.messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "microbit-app/events/command_sent", msgs[0].topic)
	assert.Equal(t, "microbit-app/events/disconnected", msgs[1].topic)

	var ev rover.Event
	require.NoError(t, json.Unmarshal(msgs[0].payload, &ev))
	assert.Equal(t, rover.CommandForward, ev.Command)
	assert.Equal(t, "api", ev.Source)
}

func TestPublisher_CloseStopsRun(t *testing.T) {
	client := &fakeClient{}
	p := newPublisherWithClient(client, "microbit-app")

	sub := &fakeSubscriber{ch: make(chan rover.Event)}
	done := make(chan struct{})
	go func() {
		p.Run(sub)
		close(done)
	}()

	// Wait for Run to register its subscription before closing.
	require.Eventually(t, func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.events != nil
	}, time.Second, 10*time.Millisecond)

	p.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not exit after Close")
	}

	sub.mu.Lock()
	defer sub.mu.Unlock()
	assert.True(t, sub.unsubscribed, "Close must unsubscribe the forwarding loop")
}
