package kafka

import (
	"context"
	"errors"
	"reflect"
	"testing"

	kafka_config "snpr/pkg/kafka/config"
	"snpr/pkg/logger"
)

func TestNewProducer_Validation(t *testing.T) {
	tests := []struct {
		name  string
		cfg   *kafka_config.Config
		topic string
	}{
		{name: "nil config", cfg: nil, topic: "t"},
		{name: "no brokers", cfg: &kafka_config.Config{}, topic: "t"},
		{name: "empty topic", cfg: &kafka_config.Config{Brokers: []string{"localhost:9092"}}, topic: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewProducer(tt.cfg, tt.topic, "", logger.Discard()); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, nil, "genotype.uploaded", "", logger.Discard())

	msg := NewMessage().WithKey("g1").WithRawValue([]byte(`{"genotype_id":"g1"}`)).WithEventType("genotype.uploaded").Build()
	if err := p.Publish(context.Background(), msg); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	got := w.written()
	if len(got) != 1 {
		t.Fatalf("wrote %d messages, want 1", len(got))
	}
	if string(got[0].Key) != "g1" {
		t.Errorf("key = %q", got[0].Key)
	}
	if headerValue(got[0], HeaderEventType) != "genotype.uploaded" {
		t.Errorf("event-type header missing")
	}
}

func TestProducer_PublishRejectsInvalid(t *testing.T) {
	p := newProducer(&fakeWriter{}, nil, "t", "", logger.Discard())
	ctx := context.Background()

	if err := p.Publish(ctx, Message{Value: []byte("x")}); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("empty key error = %v", err)
	}
	if err := p.Publish(ctx, Message{Key: "k"}); !errors.Is(err, ErrEmptyValue) {
		t.Errorf("empty value error = %v", err)
	}

	_ = p.Close()
	if err := p.Publish(ctx, Message{Key: "k", Value: []byte("x")}); !errors.Is(err, ErrProducerClosed) {
		t.Errorf("closed producer error = %v", err)
	}
}

func TestProducer_FailedPublishGoesToDLQ(t *testing.T) {
	boom := errors.New("connection refused")
	w := &fakeWriter{err: boom}
	dlq := &fakeWriter{}
	p := newProducer(w, dlq, "genotype.uploaded", "genotype.uploaded.dlq", logger.Discard())

	msg := Message{Key: "g1", Value: []byte("{}")}
	if err := p.Publish(context.Background(), msg); !errors.Is(err, boom) {
		t.Fatalf("Publish() error = %v, want %v", err, boom)
	}

	got := dlq.written()
	if len(got) != 1 {
		t.Fatalf("dlq got %d messages, want 1", len(got))
	}
	if headerValue(got[0], HeaderOriginalTopic) != "genotype.uploaded" {
		t.Errorf("original-topic header = %q", headerValue(got[0], HeaderOriginalTopic))
	}
	if headerValue(got[0], HeaderDLQError) != boom.Error() {
		t.Errorf("dlq-error header = %q", headerValue(got[0], HeaderDLQError))
	}
}

func TestProducer_MiddlewareOrder(t *testing.T) {
	p := newProducer(&fakeWriter{}, nil, "t", "", logger.Discard())
	var order []string
	for _, name := range []string{"first", "second"} {
		p.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
			order = append(order, name)
			return next(ctx, msg)
		})
	}

	if err := p.Publish(context.Background(), Message{Key: "k", Value: []byte("v")}); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(order, []string{"first", "second"}) {
		t.Errorf("middleware order = %v", order)
	}
}

func TestProducer_PublishBatch(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, nil, "t", "", logger.Discard())

	err := p.PublishBatch(context.Background(), []Message{
		{Key: "a", Value: []byte("1")},
		{Key: "", Value: []byte("skipped")},
		{Key: "b", Value: []byte("2")},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(w.written()) != 2 {
		t.Errorf("wrote %d, want 2", len(w.written()))
	}

	if err := p.PublishBatch(context.Background(), []Message{{}}); !errors.Is(err, ErrInvalidMessage) {
		t.Errorf("all-invalid batch error = %v", err)
	}
}
