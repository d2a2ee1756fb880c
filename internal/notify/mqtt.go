// AngelaMos | 2026
// mqtt.go

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/carterperez-dev/homemgmt/internal/config"
)

const (
	defaultConnectTimeout    = 10 * time.Second
	defaultPublishTimeout    = 5 * time.Second
	defaultDisconnectQuiesce = 1000
	defaultKeepAlive         = 60 * time.Second
)

var (
	ErrNotConnected  = errors.New("mqtt: not connected")
	ErrPublishFailed = errors.New("mqtt: publish failed")
)

type mqttClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token
	IsConnected() bool
	Disconnect(quiesce uint)
}

type MQTTPublisher struct {
	client  mqttClient
	prefix  string
	qos     byte
	timeout time.Duration
}

func Connect(cfg config.MQTTConfig) (*MQTTPublisher, error) {
	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(defaultConnectTimeout)
	opts.SetKeepAlive(defaultKeepAlive)

	client := pahomqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("connect mqtt %s: timeout after %v", cfg.Broker, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect mqtt %s: %w", cfg.Broker, err)
	}

	return newMQTTPublisher(client, cfg), nil
}

func newMQTTPublisher(client mqttClient, cfg config.MQTTConfig) *MQTTPublisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}

	return &MQTTPublisher{
		client:  client,
		prefix:  strings.TrimSuffix(cfg.TopicPrefix, "/"),
		qos:     byte(cfg.QoS), //nolint:gosec // G115: qos validated to 0..2 at config load
		timeout: timeout,
	}
}

// Topic returns <prefix>/events/<kind>/<action>.
func (p *MQTTPublisher) Topic(event Event) string {
	return fmt.Sprintf("%s/events/%s/%s", p.prefix, event.Kind, event.Action)
}

func (p *MQTTPublisher) Publish(ctx context.Context, event Event) error {
	if !p.client.IsConnected() {
		return ErrNotConnected
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	token := p.client.Publish(p.Topic(event), p.qos, false, payload)

	select {
	case <-token.Done():
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrPublishFailed, ctx.Err())
	case <-time.After(p.timeout):
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, p.timeout)
	}

	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return nil
}

func (p *MQTTPublisher) Close() error {
	p.client.Disconnect(defaultDisconnectQuiesce)
	return nil
}
