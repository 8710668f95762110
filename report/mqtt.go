//go:build !tinygo

package report

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/merliot/ranger"
)

// MQTT publishes each reading to a broker topic at QoS 0.  The client
// reconnects in the background; publishing while disconnected is an error.
type MQTT struct {
	client  mqtt.Client
	topic   string
	timeout time.Duration
}

// NewMQTT connects to broker, a URL like tcp://host:1883.  A broker that is
// down at startup is not an error; the connection is retried.
func NewMQTT(broker, clientID, topic string, timeout time.Duration) (*MQTT, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetConnectTimeout(timeout).
		SetAutoReconnect(true).
		SetConnectRetry(true)
	client := mqtt.NewClient(opts)
	token := client.Connect()
	if token.WaitTimeout(timeout) && token.Error() != nil {
		return nil, fmt.Errorf("report: mqtt connect %s: %w", broker, token.Error())
	}
	return &MQTT{client: client, topic: topic, timeout: timeout}, nil
}

func (m *MQTT) Report(ctx context.Context, d ranger.Distance) error {
	token := m.client.Publish(m.topic, 0, false, encode(d))
	select {
	case <-token.Done():
	case <-ctx.Done():
		return fmt.Errorf("report: mqtt publish %s: %w", m.topic, ctx.Err())
	case <-time.After(m.timeout):
		return fmt.Errorf("report: mqtt publish %s: timeout", m.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("report: mqtt publish %s: %w", m.topic, err)
	}
	return nil
}

func (m *MQTT) Close() {
	m.client.Disconnect(250)
}
