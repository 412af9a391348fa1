package mqtt

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqttlib "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/assiaelattar/microbit-app/pkg/rover"
)

// Publisher mirrors rover events onto an MQTT broker so dashboards
// and automations can follow the rover without holding an SSE stream.
type Publisher struct {
	client    mqttlib.Client
	rootTopic string

	mu         sync.Mutex
	subscriber rover.EventSubscriber
	events     chan rover.Event
}

// NewPublisher connects to the broker and announces the gateway as
// online. The broker URL uses the paho form, e.g. tcp://host:1883.
func NewPublisher(brokerURL, rootTopic string) (*Publisher, error) {
	opts := mqttlib.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(rootTopic)
	opts.AutoReconnect = true
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(1 * time.Second)
	opts.SetOrderMatters(false)
	opts.OnConnect = func(client mqttlib.Client) {
		log.Info().Str("broker", brokerURL).Msg("MQTT connected")
	}
	opts.OnConnectionLost = func(client mqttlib.Client, err error) {
		log.Warn().Err(err).Msg("MQTT connection lost")
	}

	client := mqttlib.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}

	p := newPublisherWithClient(client, rootTopic)
	p.publish("gateway/status", []byte("online"))

	return p, nil
}

// newPublisherWithClient wraps an already connected client (for testing).
func newPublisherWithClient(client mqttlib.Client, rootTopic string) *Publisher {
	return &Publisher{
		client:    client,
		rootTopic: rootTopic,
	}
}

// Run forwards rover events to the broker until the subscription is
// torn down by Close. Call it from its own goroutine.
func (p *Publisher) Run(subscriber rover.EventSubscriber) {
	events := subscriber.Subscribe()

	p.mu.Lock()
	p.subscriber = subscriber
	p.events = events
	p.mu.Unlock()

	for event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			continue
		}
		p.publish("events/"+event.Type, payload)
	}
}

// Close unsubscribes the forwarding loop, announces the gateway as
// offline and disconnects. Unsubscribing closes the event channel, which
// ends Run.
func (p *Publisher) Close() {
	p.mu.Lock()
	subscriber, events := p.subscriber, p.events
	p.subscriber, p.events = nil, nil
	p.mu.Unlock()

	if subscriber != nil {
		subscriber.Unsubscribe(events)
	}

	p.publish("gateway/status", []byte("offline"))
	p.client.Disconnect(250)
}

func (p *Publisher) publish(subTopic string, data []byte) {
	p.client.Publish(fmt.Sprintf("%v/%v", p.rootTopic, subTopic), 0, false, data)
}
