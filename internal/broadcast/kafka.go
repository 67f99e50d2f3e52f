package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaPublisher writes notices to one topic. Messages are keyed by event and
// student so the notices of one student stay ordered within a partition.
// Writes are asynchronous: Publish returns once the message is queued and
// delivery failures are logged by the completion callback.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
			WriteTimeout: 5 * time.Second,
			Async:        true,
			Completion:   logUndelivered,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, n Notice) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(messageKey(n)),
		Value: data,
		Time:  n.At,
	}
	if err = p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("p.writer.WriteMessages -> %w", err)
	}

	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func logUndelivered(messages []kafka.Message, err error) {
	if err == nil {
		return
	}
	zap.L().Warn("failed to deliver notices", zap.Int("messages", len(messages)), zap.Error(err))
}

func messageKey(n Notice) string {
	if n.StudentID == 0 {
		return fmt.Sprintf("event:%d", n.EventID)
	}
	return fmt.Sprintf("event:%d:student:%d", n.EventID, n.StudentID)
}
