// AngelaMos | 2026
// notify_test.go

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/homemgmt/internal/config"
)

type fakeToken struct {
	err  error
	done chan struct{}
}

func newFakeToken(err error) *fakeToken {
	done := make(chan struct{})
	close(done)
	return &fakeToken{err: err, done: done}
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakeClient struct {
	connected    bool
	err          error
	messages     []published
	disconnected bool
}

func (c *fakeClient) Publish(
	topic string,
	qos byte,
	retained bool,
	payload interface{},
) pahomqtt.Token {
	c.messages = append(c.messages, published{
		topic:    topic,
		qos:      qos,
		retained: retained,
		payload:  payload.([]byte),
	})
	return newFakeToken(c.err)
}

func (c *fakeClient) IsConnected() bool { return c.connected }

func (c *fakeClient) Disconnect(uint) { c.disconnected = true }

func testMQTTConfig() config.MQTTConfig {
	return config.MQTTConfig{
		TopicPrefix: "homemgmt/",
		QoS:         1,
	}
}

func TestMQTTPublisherTopicAndPayload(t *testing.T) {
	client := &fakeClient{connected: true}
	pub := newMQTTPublisher(client, testMQTTConfig())

	event := NewEvent(KindRoom, ActionCreated, 3, "Kitchen")
	require.NoError(t, pub.Publish(context.Background(), event))

	require.Len(t, client.messages, 1)
	msg := client.messages[0]
	assert.Equal(t, "homemgmt/events/room/created", msg.topic)
	assert.Equal(t, byte(1), msg.qos)
	assert.False(t, msg.retained)

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.payload, &decoded))
	assert.Equal(t, KindRoom, decoded.Kind)
	assert.Equal(t, int64(3), decoded.ID)
	assert.Equal(t, "Kitchen", decoded.Name)
}

func TestMQTTPublisherNotConnected(t *testing.T) {
	pub := newMQTTPublisher(&fakeClient{}, testMQTTConfig())

	err := pub.Publish(context.Background(), NewEvent(KindEntity, ActionDeleted, 1, ""))
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestMQTTPublisherBrokerError(t *testing.T) {
	client := &fakeClient{connected: true, err: errors.New("broker refused")}
	pub := newMQTTPublisher(client, testMQTTConfig())

	err := pub.Publish(context.Background(), NewEvent(KindService, ActionUpdated, 9, "svc"))
	assert.ErrorIs(t, err, ErrPublishFailed)
}

func TestMQTTPublisherClose(t *testing.T) {
	client := &fakeClient{connected: true}
	pub := newMQTTPublisher(client, testMQTTConfig())

	require.NoError(t, pub.Close())
	assert.True(t, client.disconnected)
}

type failingPublisher struct{ calls int }

func (f *failingPublisher) Publish(context.Context, Event) error {
	f.calls++
	return errors.New("down")
}

func (f *failingPublisher) Close() error { return nil }

func TestEmitSwallowsErrors(t *testing.T) {
	pub := &failingPublisher{}

	assert.NotPanics(t, func() {
		Emit(context.Background(), pub, nil, NewEvent(KindRoom, ActionDeleted, 1, ""))
		Emit(context.Background(), nil, nil, NewEvent(KindRoom, ActionDeleted, 1, ""))
	})
	assert.Equal(t, 1, pub.calls)
}

func TestNoop(t *testing.T) {
	p := Noop()
	assert.NoError(t, p.Publish(context.Background(), NewEvent(KindRoom, ActionCreated, 1, "x")))
	assert.NoError(t, p.Close())
}
