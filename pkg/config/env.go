package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"
	EnvMaxUploadSize  = "MAX_UPLOAD_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvKnownVariationsCache = "KNOWN_VARIATIONS_CACHE"
	EnvNewsLimit            = "NEWS_LIMIT"

	EnvBlobDriver      = "BLOB_DRIVER"
	EnvBlobFSRoot      = "BLOB_FS_ROOT"
	EnvBlobS3Bucket    = "BLOB_S3_BUCKET"
	EnvBlobS3Region    = "BLOB_S3_REGION"
	EnvBlobS3Endpoint  = "BLOB_S3_ENDPOINT"
	EnvBlobS3PathStyle = "BLOB_S3_PATH_STYLE"

	EnvGenotypeTopic    = "KAFKA_GENOTYPE_TOPIC"
	EnvGenotypeDLQTopic = "KAFKA_GENOTYPE_DLQ_TOPIC"
	EnvGenotypeGroupID  = "KAFKA_GENOTYPE_GROUP_ID"
)
