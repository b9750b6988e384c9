// Package factory selects a blob.Store driver from service configuration.
package factory

import (
	"context"
	"fmt"

	"snpr/pkg/blob"
	"snpr/pkg/blob/fs"
	"snpr/pkg/blob/memory"
	"snpr/pkg/blob/s3"
	"snpr/pkg/config"
)

// Open returns the store named by cfg.BlobDriver (fs, s3 or memory).
// S3 credentials come from the default AWS chain (AWS_ACCESS_KEY_ID etc).
func Open(ctx context.Context, cfg *config.Config) (blob.Store, error) {
	switch blob.Driver(cfg.BlobDriver) {
	case blob.DriverFilesystem, "":
		return fs.New(cfg.BlobFSRoot)
	case blob.DriverS3:
		return s3.New(ctx, s3.Config{
			Bucket:    cfg.BlobS3Bucket,
			Region:    cfg.BlobS3Region,
			Endpoint:  cfg.BlobS3Endpoint,
			PathStyle: cfg.BlobS3PathStyle,
		})
	case blob.DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", cfg.BlobDriver)
	}
}
