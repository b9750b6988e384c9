// Package events holds the payloads published on Kafka topics.
package events

import (
	"errors"
	"time"
)

const (
	EventTypeGenotypeUploaded = "genotype.uploaded"

	SchemaVersion = "1"
)

// GenotypeUploaded is published once a raw genotype file is stored and its
// record created. The message key is GenotypeID.
type GenotypeUploaded struct {
	GenotypeID string    `json:"genotype_id"`
	UserID     string    `json:"user_id"`
	Filetype   string    `json:"filetype"`
	FileKey    string    `json:"file_key"`
	UploadedAt time.Time `json:"uploaded_at"`
}

func (e GenotypeUploaded) Validate() error {
	if e.GenotypeID == "" {
		return errors.New("genotype_id is required")
	}
	if e.FileKey == "" {
		return errors.New("file_key is required")
	}
	return nil
}
