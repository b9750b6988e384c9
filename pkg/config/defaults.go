package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "snpr"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024  // 1MB
	DefaultMaxUploadSize  = 64 * 1024 * 1024 // 64MB, raw genotype exports run ~25MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPageSize        = 10
	DefaultPaginationLimit = 100

	DefaultKnownVariationsCache = true
	DefaultNewsLimit            = 20

	DefaultBlobDriver = "fs"
	DefaultBlobFSRoot = "./blobdata"
	DefaultBlobRegion = "us-east-1"

	DefaultGenotypeTopic    = "genotype.uploaded"
	DefaultGenotypeDLQTopic = "genotype.uploaded.dlq"
	DefaultGenotypeGroupID  = "genotype-parser"
)
