package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		MongoURI:          DefaultMongoURI,
		MongoDatabaseName: DefaultMongoDatabaseName,
		MongoConnTimeout:  DefaultMongoConnTimeout,
		Port:              DefaultPort,
		RequestTimeout:    DefaultRequestTimeout,
		MaxRequestSize:    DefaultMaxRequestSize,
		MaxUploadSize:     DefaultMaxUploadSize,
		ReadTimeout:       DefaultReadTimeout,
		WriteTimeout:      DefaultWriteTimeout,
		IdleTimeout:       DefaultIdleTimeout,
		ShutdownTimeout:   DefaultShutdownTimeout,
		NewsLimit:         DefaultNewsLimit,
		BlobDriver:        DefaultBlobDriver,
		BlobFSRoot:        DefaultBlobFSRoot,
		GenotypeTopic:     DefaultGenotypeTopic,
		GenotypeGroupID:   DefaultGenotypeGroupID,
	}
}

func TestValidate_Defaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"bad port", func(c *Config) { c.Port = "99999" }, "Port must be between"},
		{"bad mongo scheme", func(c *Config) { c.MongoURI = "postgres://localhost" }, "MongoURI must start with"},
		{"empty database", func(c *Config) { c.MongoDatabaseName = "" }, "MongoDatabaseName cannot be empty"},
		{"zero read timeout", func(c *Config) { c.ReadTimeout = 0 }, "ReadTimeout must be positive"},
		{"news limit too high", func(c *Config) { c.NewsLimit = 500 }, "NewsLimit must be between"},
		{"unknown blob driver", func(c *Config) { c.BlobDriver = "gcs" }, "BlobDriver must be one of"},
		{"s3 without bucket", func(c *Config) { c.BlobDriver = "s3" }, "BlobS3Bucket is required"},
		{"empty topic", func(c *Config) { c.GenotypeTopic = "" }, "GenotypeTopic cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidate_NumbersEveryProblem(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "0"
	cfg.IdleTimeout = -time.Second

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "1. ") || !strings.Contains(err.Error(), "2. ") {
		t.Errorf("expected two numbered problems, got %q", err.Error())
	}
}

func TestRedactMongoURI(t *testing.T) {
	got := redactMongoURI("mongodb://admin:hunter2@db:27017/snpr")
	if strings.Contains(got, "hunter2") || !strings.Contains(got, "***:***@db") {
		t.Errorf("credentials not redacted: %q", got)
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("SNPR_TEST_NUM", "12")
	t.Setenv("SNPR_TEST_BAD_NUM", "twelve")
	t.Setenv("SNPR_TEST_DUR", "3s")
	t.Setenv("SNPR_TEST_BOOL", "false")

	if got := getEnvNum("SNPR_TEST_NUM", 1); got != 12 {
		t.Errorf("getEnvNum = %d, want 12", got)
	}
	if got := getEnvNum("SNPR_TEST_BAD_NUM", 1); got != 1 {
		t.Errorf("getEnvNum with garbage = %d, want fallback 1", got)
	}
	if got := getEnvDuration("SNPR_TEST_DUR", time.Second); got != 3*time.Second {
		t.Errorf("getEnvDuration = %s, want 3s", got)
	}
	if got := getEnvBool("SNPR_TEST_BOOL", true); got != false {
		t.Errorf("getEnvBool = %v, want false", got)
	}
	if got := getEnvStr("SNPR_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("getEnvStr = %q, want fallback", got)
	}
}

func TestNormalizePagination(t *testing.T) {
	if got := NormalizePaginationLimit(0); got != DefaultPageSize {
		t.Errorf("limit 0 -> %d, want %d", got, DefaultPageSize)
	}
	if got := NormalizePaginationLimit(1000); got != DefaultPaginationLimit {
		t.Errorf("limit 1000 -> %d, want %d", got, DefaultPaginationLimit)
	}
	if got := NormalizePaginationLimit(25); got != 25 {
		t.Errorf("limit 25 -> %d", got)
	}
	if got := NormalizeOffset(-4); got != 0 {
		t.Errorf("offset -4 -> %d, want 0", got)
	}
}
