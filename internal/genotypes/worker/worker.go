package worker

import (
	"context"
	"errors"
	"fmt"

	genotypeserrors "snpr/internal/genotypes/errors"
	"snpr/internal/genotypes/parser"
	"snpr/internal/genotypes/service"
	"snpr/pkg/app"
	"snpr/pkg/blob"
	"snpr/pkg/config"
	mongotx "snpr/pkg/db/mongo"
	"snpr/pkg/events"
	"snpr/pkg/kafka"
	kafka_config "snpr/pkg/kafka/config"
	kafka_middleware "snpr/pkg/kafka/middleware"
	"snpr/pkg/logger"
	"snpr/pkg/metrics"
)

// permanentErrors are parse failures that will not go away on redelivery.
var permanentErrors = []error{
	genotypeserrors.ErrNotFound,
	genotypeserrors.ErrInvalidID,
	blob.ErrNotFound,
	parser.ErrUnknownFiletype,
	service.ErrNoRecords,
}

// Handler turns genotype.uploaded events into Parse calls.
type Handler struct {
	parse service.ParseService
	log   *logger.Logger
}

func NewHandler(parse service.ParseService, log *logger.Logger) *Handler {
	return &Handler{parse: parse, log: log}
}

func (h *Handler) Handle(ctx context.Context, msg kafka.Message) error {
	if t := msg.GetEventType(); t != "" && t != events.EventTypeGenotypeUploaded {
		h.log.Warn("skipping unexpected event type", "event_type", t, "key", msg.Key)
		return nil
	}

	var evt events.GenotypeUploaded
	if err := msg.DecodeValue(&evt); err != nil {
		return kafka.NewPermanentError("deserialization failed", err)
	}
	if err := evt.Validate(); err != nil {
		return kafka.NewPermanentError("invalid genotype.uploaded event", err)
	}

	if err := h.parse.Parse(ctx, evt.GenotypeID); err != nil {
		return classify(evt.GenotypeID, err)
	}
	return nil
}

func classify(genotypeID string, err error) error {
	for _, target := range permanentErrors {
		if errors.Is(err, target) {
			return kafka.NewPermanentError("genotype parse failed", err).WithDetail("genotype_id", genotypeID)
		}
	}
	// Two workers racing on the same new SNP collide on the unique index;
	// the loser succeeds on retry.
	if mongotx.IsDuplicateKey(err) {
		return kafka.NewTransientError("concurrent snp insert", err).WithDetail("genotype_id", genotypeID)
	}
	return err
}

// NewConsumer builds the genotype.uploaded consumer with logging and metrics
// middleware.
func NewConsumer(kcfg *kafka_config.Config, cfg *config.Config, h *Handler, m *metrics.Metrics) (*kafka.Consumer, error) {
	consumer, err := kafka.NewConsumer(kcfg, cfg.GenotypeTopic, cfg.GenotypeGroupID, cfg.GenotypeDLQTopic, h.Handle, cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("create genotype consumer: %w", err)
	}
	if kcfg.EnableMiddleware {
		consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
		consumer.Use(kafka_middleware.MetricsConsumerMiddleware(m))
	}
	return consumer, nil
}

// Run adapts a consumer to the application worker loop. The consumer is
// closed when the loop returns.
func Run(consumer *kafka.Consumer, log *logger.Logger) app.Worker {
	return func(ctx context.Context) error {
		defer func() {
			if err := consumer.Close(); err != nil {
				log.Error("failed to close genotype consumer", "error", err)
			}
		}()
		err := consumer.Start(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
}
