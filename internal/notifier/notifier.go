// Package notifier delivers Aadhaar one-time codes to their destination.
//
// LogNotifier only records the dispatch and is the default for local runs.
// KafkaNotifier publishes an event that a downstream SMS gateway consumes.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// LogNotifier writes the dispatch to the log without the code itself.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(_ context.Context, code, destination string) error {
	n.logger.Info("otp dispatched (simulated)",
		zap.String("destination", destination),
		zap.Int("code_length", len(code)),
	)
	return nil
}

// OTPEvent is the message published for every issued code.
type OTPEvent struct {
	Destination string    `json:"destination"`
	Code        string    `json:"code"`
	IssuedAt    time.Time `json:"issued_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publishes OTPEvents keyed by destination.
type KafkaNotifier struct {
	writer messageWriter
	logger *zap.Logger
}

// NewKafkaNotifier creates a synchronous producer for topic on brokers.
func NewKafkaNotifier(brokers []string, topic string, logger *zap.Logger) *KafkaNotifier {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		MaxAttempts:  3,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	logger.Info("kafka otp notifier initialized",
		zap.Strings("brokers", brokers),
		zap.String("topic", topic),
	)
	return &KafkaNotifier{writer: writer, logger: logger}
}

func (n *KafkaNotifier) Send(ctx context.Context, code, destination string) error {
	value, err := json.Marshal(OTPEvent{Destination: destination, Code: code, IssuedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to encode otp event: %w", err)
	}

	if err := n.writer.WriteMessages(ctx, kafka.Message{Key: []byte(destination), Value: value}); err != nil {
		return fmt.Errorf("failed to write kafka message: %w", err)
	}

	n.logger.Debug("otp event published", zap.String("destination", destination))
	return nil
}

func (n *KafkaNotifier) Close() error {
	if err := n.writer.Close(); err != nil {
		n.logger.Error("failed to close kafka producer", zap.Error(err))
		return err
	}
	return nil
}
