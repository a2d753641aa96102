package broker

import (
	"context"

	"github.com/segmentio/kafka-go"
)

type KafkaConsumer struct {
	r *kafka.Reader
}

func NewConsumer(cfg *Config) *KafkaConsumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &KafkaConsumer{r: r}
}

// ReadMessage blocks for the next message and commits its offset.
func (c *KafkaConsumer) ReadMessage(ctx context.Context) (kafka.Message, error) {
	return c.r.ReadMessage(ctx)
}

func (c *KafkaConsumer) Close() error {
	return c.r.Close()
}
