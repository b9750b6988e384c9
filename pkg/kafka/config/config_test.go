package kafka_config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, " broker-a:9092, broker-b:9092 ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Brokers) != 2 || cfg.Brokers[0] != "broker-a:9092" || cfg.Brokers[1] != "broker-b:9092" {
		t.Errorf("Brokers = %v", cfg.Brokers)
	}
	if cfg.ProducerCompression != DefaultProducerCompression {
		t.Errorf("ProducerCompression = %s", cfg.ProducerCompression)
	}
	if cfg.ConsumerMaxRetries != DefaultConsumerMaxRetries {
		t.Errorf("ConsumerMaxRetries = %d", cfg.ConsumerMaxRetries)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv(EnvKafkaProducerCompression, "brotli")
	t.Setenv(EnvKafkaProducerRequireAcks, "7")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "1. ") || !strings.Contains(msg, "2. ") {
		t.Errorf("errors not numbered: %s", msg)
	}
	if !strings.Contains(msg, "ProducerCompression") || !strings.Contains(msg, "ProducerRequireAcks") {
		t.Errorf("missing field names: %s", msg)
	}
}
