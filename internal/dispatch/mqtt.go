package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// TopicPrefix — корень топиков точек.
const TopicPrefix = "lightadmin/points"

// Publisher is the part of mqtt.Client the sink needs.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// MQTTSink публикует уровни в lightadmin/points/<id>/level и запросы
// подсветки в lightadmin/points/<id>/identify.
type MQTTSink struct {
	client  Publisher
	qos     byte
	timeout time.Duration
	logger  *zap.SugaredLogger
}

var _ Sink = (*MQTTSink)(nil)

// NewMQTTSink подключается к брокеру.
func NewMQTTSink(broker, clientID string, logger *zap.SugaredLogger) (*MQTTSink, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectTimeout(10 * time.Second).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			logger.Warnw("mqtt connection lost", "error", err)
		}).
		SetOnConnectHandler(func(mqtt.Client) {
			logger.Infow("mqtt connected", "broker", broker)
		})

	client := mqtt.NewClient(opts)
	tok := client.Connect()
	if !tok.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("mqtt connect to %s: timeout", broker)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", broker, err)
	}
	return NewMQTTSinkWithClient(client, logger), nil
}

// NewMQTTSinkWithClient wraps an already connected publisher.
func NewMQTTSinkWithClient(client Publisher, logger *zap.SugaredLogger) *MQTTSink {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &MQTTSink{client: client, qos: 1, timeout: 5 * time.Second, logger: logger}
}

func levelTopic(id int64) string    { return fmt.Sprintf("%s/%d/level", TopicPrefix, id) }
func identifyTopic(id int64) string { return fmt.Sprintf("%s/%d/identify", TopicPrefix, id) }

func (s *MQTTSink) publish(ctx context.Context, topic string, v any, retained bool) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	tok := s.client.Publish(topic, s.qos, retained, payload)
	timeout := s.timeout
	if dl, ok := ctx.Deadline(); ok && time.Until(dl) < timeout {
		timeout = time.Until(dl)
	}
	select {
	case <-tok.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(timeout):
		return fmt.Errorf("publish %s: timeout", topic)
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Apply публикует каждый уровень как retained-сообщение.
func (s *MQTTSink) Apply(ctx context.Context, levels []Level) error {
	for _, l := range levels {
		if err := s.publish(ctx, levelTopic(l.PointID), l, true); err != nil {
			return err
		}
	}
	return nil
}

func (s *MQTTSink) Identify(ctx context.Context, target Level) error {
	return s.publish(ctx, identifyTopic(target.PointID), target, false)
}

func (s *MQTTSink) Close() {
	s.client.Disconnect(250)
}
