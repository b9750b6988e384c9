package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"snpr/pkg/client"
	"snpr/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RequestTimeout time.Duration
	MaxRequestSize int
	MaxUploadSize  int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	KnownVariationsCache bool
	NewsLimit            int

	BlobDriver      string
	BlobFSRoot      string
	BlobS3Bucket    string
	BlobS3Region    string
	BlobS3Endpoint  string
	BlobS3PathStyle bool

	GenotypeTopic    string
	GenotypeDLQTopic string
	GenotypeGroupID  string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),
		MaxUploadSize:  getEnvNum(EnvMaxUploadSize, DefaultMaxUploadSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		KnownVariationsCache: getEnvBool(EnvKnownVariationsCache, DefaultKnownVariationsCache),
		NewsLimit:            getEnvNum(EnvNewsLimit, DefaultNewsLimit),

		BlobDriver:      getEnvStr(EnvBlobDriver, DefaultBlobDriver),
		BlobFSRoot:      getEnvStr(EnvBlobFSRoot, DefaultBlobFSRoot),
		BlobS3Bucket:    getEnvStr(EnvBlobS3Bucket, ""),
		BlobS3Region:    getEnvStr(EnvBlobS3Region, DefaultBlobRegion),
		BlobS3Endpoint:  getEnvStr(EnvBlobS3Endpoint, ""),
		BlobS3PathStyle: getEnvBool(EnvBlobS3PathStyle, false),

		GenotypeTopic:    getEnvStr(EnvGenotypeTopic, DefaultGenotypeTopic),
		GenotypeDLQTopic: getEnvStr(EnvGenotypeDLQTopic, DefaultGenotypeDLQTopic),
		GenotypeGroupID:  getEnvStr(EnvGenotypeGroupID, DefaultGenotypeGroupID),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"MongoConnTimeout", cfg.MongoConnTimeout},
		{"RequestTimeout", cfg.RequestTimeout},
		{"ReadTimeout", cfg.ReadTimeout},
		{"WriteTimeout", cfg.WriteTimeout},
		{"IdleTimeout", cfg.IdleTimeout},
		{"ShutdownTimeout", cfg.ShutdownTimeout},
	}
	for _, d := range durations {
		if d.value <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", d.name, d.value))
		}
	}

	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.MaxUploadSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxUploadSize must be positive, got: %d", cfg.MaxUploadSize))
	}
	if cfg.NewsLimit <= 0 || cfg.NewsLimit > DefaultPaginationLimit {
		errors = append(errors, fmt.Sprintf("NewsLimit must be between 1 and %d, got: %d", DefaultPaginationLimit, cfg.NewsLimit))
	}

	switch cfg.BlobDriver {
	case "fs":
		if cfg.BlobFSRoot == "" {
			errors = append(errors, "BlobFSRoot cannot be empty when BlobDriver is fs")
		}
	case "s3":
		if cfg.BlobS3Bucket == "" {
			errors = append(errors, "BlobS3Bucket is required when BlobDriver is s3")
		}
	case "memory":
	default:
		errors = append(errors, fmt.Sprintf("BlobDriver must be one of fs, s3, memory, got: %s", cfg.BlobDriver))
	}

	if cfg.GenotypeTopic == "" {
		errors = append(errors, "GenotypeTopic cannot be empty")
	}
	if cfg.GenotypeGroupID == "" {
		errors = append(errors, "GenotypeGroupID cannot be empty")
	}

	if len(errors) > 0 {
		var b strings.Builder
		b.WriteString("Configuration validation failed:\n")
		for i, err := range errors {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", b.String())
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"max_upload_size", cfg.MaxUploadSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"known_variations_cache", cfg.KnownVariationsCache,
		"news_limit", cfg.NewsLimit,
		"blob_driver", cfg.BlobDriver,
		"blob_s3_bucket", cfg.BlobS3Bucket,
		"genotype_topic", cfg.GenotypeTopic,
		"genotype_dlq_topic", cfg.GenotypeDLQTopic,
		"genotype_group_id", cfg.GenotypeGroupID,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log, cfg.ShutdownTimeout)
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	return min(limit, DefaultPaginationLimit)
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
