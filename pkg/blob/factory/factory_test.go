package factory

import (
	"context"
	"testing"

	"snpr/pkg/blob"
	"snpr/pkg/config"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.Config
		want    blob.Driver
		wantErr bool
	}{
		{name: "filesystem", cfg: &config.Config{BlobDriver: "fs", BlobFSRoot: t.TempDir()}, want: blob.DriverFilesystem},
		{name: "memory", cfg: &config.Config{BlobDriver: "memory"}, want: blob.DriverMemory},
		{name: "s3 without bucket", cfg: &config.Config{BlobDriver: "s3"}, wantErr: true},
		{name: "unknown", cfg: &config.Config{BlobDriver: "ftp"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(context.Background(), tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Open() expected error, got store %v", store)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if store.Driver() != tt.want {
				t.Errorf("Driver() = %s, want %s", store.Driver(), tt.want)
			}
		})
	}
}
