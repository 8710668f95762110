//go:build tinygo

package report

import (
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	mqtt "github.com/soypat/natiu-mqtt"

	"github.com/merliot/ranger"
)

// MQTT publishes each reading to a broker topic at QoS 0, dialing the broker
// again whenever the connection has dropped.
type MQTT struct {
	client  *mqtt.Client
	broker  string
	id      []byte
	topic   []byte
	timeout time.Duration
}

// NewMQTT accepts broker as host:port or tcp://host:port
func NewMQTT(broker, clientID, topic string, timeout time.Duration) (*MQTT, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := mqtt.NewClient(mqtt.ClientConfig{
		Decoder: mqtt.DecoderNoAlloc{UserBuffer: make([]byte, 512)},
		OnPub: func(_ mqtt.Header, _ mqtt.VariablesPublish, r io.Reader) error {
			return nil
		},
	})
	return &MQTT{
		client:  client,
		broker:  strings.TrimPrefix(broker, "tcp://"),
		id:      []byte(clientID),
		topic:   []byte(topic),
		timeout: timeout,
	}, nil
}

func (m *MQTT) connect(ctx context.Context) error {
	conn, err := net.DialTimeout("tcp", m.broker, m.timeout)
	if err != nil {
		return err
	}
	var vc mqtt.VariablesConnect
	vc.SetDefaultMQTT(m.id)
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	if err := m.client.Connect(ctx, conn, &vc); err != nil {
		conn.Close()
		return err
	}
	return nil
}

func (m *MQTT) Report(ctx context.Context, d ranger.Distance) error {
	if !m.client.IsConnected() {
		if err := m.connect(ctx); err != nil {
			return fmt.Errorf("report: mqtt connect %s: %w", m.broker, err)
		}
	}
	flags, err := mqtt.NewPublishFlags(mqtt.QoS0, false, false)
	if err != nil {
		return err
	}
	vp := mqtt.VariablesPublish{TopicName: m.topic}
	if err := m.client.PublishPayload(flags, vp, encode(d)); err != nil {
		return fmt.Errorf("report: mqtt publish %s: %w", m.topic, err)
	}
	return nil
}

func (m *MQTT) Close() {
	m.client.Disconnect(io.EOF)
}
