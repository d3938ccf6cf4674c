package kafka

import (
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/ryabko/account-service/internal/infra/config"
)

// Producer wraps a sarama async producer. Delivery errors are drained on a
// background goroutine and logged; callers never block on broker failures.
type Producer struct {
	async  sarama.AsyncProducer
	logger *zap.Logger
	prefix string
	done   chan struct{}
}

// NewProducer connects to the configured brokers and starts the error drain.
func NewProducer(cfg config.KafkaSettings, logger *zap.Logger) (*Producer, error) {
	sc := sarama.NewConfig()
	sc.Version = sarama.V3_5_0_0
	sc.Producer.RequiredAcks = sarama.WaitForLocal
	sc.Producer.Compression = sarama.CompressionSnappy
	sc.Producer.Flush.Frequency = 100 * time.Millisecond
	sc.Producer.Flush.Messages = 100
	sc.Producer.Retry.Max = 3
	sc.Producer.Return.Successes = false
	sc.Producer.Return.Errors = true
	sc.Metadata.Retry.Max = 3
	sc.Metadata.Retry.Backoff = 250 * time.Millisecond

	async, err := sarama.NewAsyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	p := &Producer{
		async:  async,
		logger: logger,
		prefix: strings.TrimSpace(cfg.TopicPrefix),
		done:   make(chan struct{}),
	}
	go p.drainErrors()

	logger.Info("kafka producer started",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic_prefix", p.prefix),
	)

	return p, nil
}

func (p *Producer) drainErrors() {
	for {
		select {
		case perr := <-p.async.Errors():
			if perr != nil {
				p.logger.Error("kafka delivery failed",
					zap.String("topic", perr.Msg.Topic),
					zap.Error(perr.Err),
				)
			}
		case <-p.done:
			return
		}
	}
}

// Producer exposes the underlying async producer input channel owner.
func (p *Producer) Producer() sarama.AsyncProducer {
	return p.async
}

// TopicName prepends the configured prefix to an event type.
func (p *Producer) TopicName(eventType string) string {
	if p.prefix == "" || strings.HasPrefix(eventType, p.prefix+".") {
		return eventType
	}
	return p.prefix + "." + eventType
}

// Close stops the error drain and flushes pending messages.
func (p *Producer) Close() error {
	close(p.done)
	return p.async.Close()
}
