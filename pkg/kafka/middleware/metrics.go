package kafka_middleware

import (
	"context"
	"time"

	"snpr/pkg/kafka"
	"snpr/pkg/metrics"
)

const (
	directionProduce = "produce"
	directionConsume = "consume"
)

// MetricsProducerMiddleware records publish counts and latency per topic
func MetricsProducerMiddleware(m *metrics.Metrics) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()

		err := next(ctx, msg)

		m.KafkaDuration.WithLabelValues(directionProduce, msg.Topic).Observe(time.Since(start).Seconds())
		m.KafkaMessages.WithLabelValues(directionProduce, msg.Topic, metrics.Result(err)).Inc()

		return err
	}
}

// MetricsConsumerMiddleware records handled counts and latency per topic.
// Retries are counted once per attempt.
func MetricsConsumerMiddleware(m *metrics.Metrics) kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()

		err := next(ctx, msg)

		m.KafkaDuration.WithLabelValues(directionConsume, msg.Topic).Observe(time.Since(start).Seconds())
		m.KafkaMessages.WithLabelValues(directionConsume, msg.Topic, metrics.Result(err)).Inc()

		return err
	}
}
