package broker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var ErrProducerClosed = errors.New("producer closed")

type Config struct {
	Brokers []string
	Topic   string
	GroupID string
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer buffers messages in an inbox and writes them from one goroutine,
// so publishing never blocks a request on the broker.
type Producer struct {
	w       messageWriter
	inbox   chan kafka.Message
	done    chan struct{}
	closed  chan struct{}
	once    sync.Once
	logger  logger.ZapLogger
	timeout time.Duration
}

func NewProducer(cfg *Config, buf int, log logger.ZapLogger) *Producer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
	return newProducer(w, buf, log)
}

func newProducer(w messageWriter, buf int, log logger.ZapLogger) *Producer {
	if buf <= 0 {
		buf = 1
	}
	return &Producer{
		w:       w,
		inbox:   make(chan kafka.Message, buf),
		done:    make(chan struct{}),
		closed:  make(chan struct{}),
		logger:  log,
		timeout: 10 * time.Second,
	}
}

// Start runs the write loop until Close is called.
func (p *Producer) Start() {
	go func() {
		defer close(p.closed)
		for {
			select {
			case m := <-p.inbox:
				p.write(m)
			case <-p.done:
				// drain what is already queued
				for {
					select {
					case m := <-p.inbox:
						p.write(m)
					default:
						if err := p.w.Close(); err != nil {
							p.logger.Warn("kafka writer close", zap.Error(err))
						}
						return
					}
				}
			}
		}
	}()
}

func (p *Producer) write(m kafka.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := p.w.WriteMessages(ctx, m); err != nil {
		p.logger.Error("kafka write failed", zap.String("key", string(m.Key)), zap.Error(err))
	}
}

// Publish queues an envelope keyed by key. It drops nothing: when the inbox is
// full it waits for room or for ctx to end.
func (p *Producer) Publish(ctx context.Context, key string, env Envelope) error {
	value, err := json.Marshal(env)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "x-event-type", Value: []byte(env.EventType)},
			{Key: "x-event-version", Value: []byte("1")},
		},
	}
	select {
	case <-p.done:
		return ErrProducerClosed
	default:
	}
	select {
	case p.inbox <- msg:
		return nil
	case <-p.done:
		return ErrProducerClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting messages and flushes the inbox. It blocks until the
// writer is closed.
func (p *Producer) Close() {
	p.once.Do(func() { close(p.done) })
	<-p.closed
}
