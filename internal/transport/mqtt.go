package transport

import (
	"context"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

const mqttConnectTimeout = 10 * time.Second

// MQTTConfig configures an MQTT endpoint.
type MQTTConfig struct {
	Broker      string // e.g. tcp://localhost:1883
	Username    string
	Password    string
	TopicPrefix string
	LinkID      string
	ClientID    string
}

// MQTT is an endpoint publishing to <prefix>/<link>/<outbox|inbox>.
type MQTT struct {
	client   mqtt.Client
	outTopic string
	inTopic  string
	queue    *queue

	subscribed chan error // first subscribe result, read by NewMQTT

	mu     sync.Mutex
	subErr error // last failed resubscribe after a reconnect
}

// NewMQTT connects to the broker and subscribes to the inbound topic for
// side. It fails if the broker cannot be reached or refuses the
// subscription.
func NewMQTT(cfg MQTTConfig, side Side) (*MQTT, error) {
	if cfg.Broker == "" {
		return nil, fmt.Errorf("mqtt: empty broker address")
	}
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "watchface-" + side.String() + "-" + uuid.NewString()
	}

	m := &MQTT{
		outTopic:   linkName("/", cfg.TopicPrefix, cfg.LinkID, side.outboxName()),
		inTopic:    linkName("/", cfg.TopicPrefix, cfg.LinkID, side.inboxName()),
		queue:      newQueue(16),
		subscribed: make(chan error, 1),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(mqttConnectTimeout)
	opts.OnConnect = m.subscribe

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(mqttConnectTimeout) {
		client.Disconnect(0)
		return nil, fmt.Errorf("mqtt: connect %s: timed out", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt: connect %s: %w", cfg.Broker, err)
	}
	m.client = client

	select {
	case err := <-m.subscribed:
		if err != nil {
			client.Disconnect(250)
			return nil, err
		}
	case <-time.After(mqttConnectTimeout):
		client.Disconnect(250)
		return nil, fmt.Errorf("mqtt: subscribe %s: timed out", m.inTopic)
	}
	return m, nil
}

// subscribe runs on every (re)connect.
func (m *MQTT) subscribe(c mqtt.Client) {
	var err error
	if token := c.Subscribe(m.inTopic, 1, m.dispatch); token.Wait() && token.Error() != nil {
		err = fmt.Errorf("mqtt: subscribe %s: %w", m.inTopic, token.Error())
	}
	m.mu.Lock()
	m.subErr = err
	m.mu.Unlock()
	select {
	case m.subscribed <- err:
	default:
	}
}

func (m *MQTT) dispatch(_ mqtt.Client, msg mqtt.Message) {
	m.queue.push(msg.Payload())
}

// Send publishes payload. A link whose inbound subscription failed is
// reported as not connected, since replies could never arrive.
func (m *MQTT) Send(ctx context.Context, payload []byte) error {
	if m.queue.closed() {
		return ErrClosed
	}
	if !m.client.IsConnectionOpen() {
		return ErrNotConnected
	}
	m.mu.Lock()
	subErr := m.subErr
	m.mu.Unlock()
	if subErr != nil {
		return fmt.Errorf("%w: %v", ErrNotConnected, subErr)
	}
	token := m.client.Publish(m.outTopic, 1, false, payload)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *MQTT) Receive(ctx context.Context) ([]byte, error) {
	return m.queue.pop(ctx)
}

func (m *MQTT) Close() error {
	m.queue.close()
	m.client.Unsubscribe(m.inTopic).WaitTimeout(time.Second)
	m.client.Disconnect(250)
	return nil
}
