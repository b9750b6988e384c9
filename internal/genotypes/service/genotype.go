package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	genotypeserrors "snpr/internal/genotypes/errors"
	"snpr/internal/genotypes/repository"
	"snpr/internal/genotypes/validator"
	"snpr/pkg/blob"
	"snpr/pkg/config"
	apperrors "snpr/pkg/errors"
	"snpr/pkg/events"
	"snpr/pkg/kafka"
	"snpr/pkg/middleware"
	"snpr/pkg/model"
	"snpr/pkg/sanitizer"
)

const eventSource = "genotypes"

// UploadRequest is one raw genotype export as received from the client.
type UploadRequest struct {
	UserID      string
	Filetype    string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type GenotypeService interface {
	Upload(ctx context.Context, req UploadRequest) (*model.Genotype, error)
	GetByID(ctx context.Context, id string) (*model.Genotype, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Genotype, int64, error)
}

type genotypeService struct {
	repo      repository.GenotypeRepository
	store     blob.Store
	publisher kafka.Publisher
	validator *validator.GenotypeValidator
	cfg       *config.Config
}

func NewGenotypeService(
	repo repository.GenotypeRepository,
	store blob.Store,
	publisher kafka.Publisher,
	validator *validator.GenotypeValidator,
	cfg *config.Config,
) GenotypeService {
	return &genotypeService{
		repo:      repo,
		store:     store,
		publisher: publisher,
		validator: validator,
		cfg:       cfg,
	}
}

// FileKey is where an upload is stored: genotypes/<user_id>/<uuid>-<name>.
func FileKey(userID, filename string) string {
	return fmt.Sprintf("genotypes/%s/%s-%s", userID, uuid.NewString(), sanitizer.SanitizeFilename(filename))
}

func (s *genotypeService) Upload(ctx context.Context, req UploadRequest) (*model.Genotype, error) {
	if req.Body == nil || req.Size == 0 {
		return nil, apperrors.Validation("Genotype validation failed", map[string]any{
			"file": "is required",
		})
	}

	g := &model.Genotype{
		UserID:           strings.TrimSpace(req.UserID),
		Filetype:         strings.TrimSpace(req.Filetype),
		OriginalFilename: sanitizer.TrimAndNormalize(req.Filename),
		Status:           model.GenotypePending,
	}
	g.FileKey = FileKey(g.UserID, g.OriginalFilename)

	if err := s.validator.Validate(g); err != nil {
		s.cfg.Log.Warn("Genotype validation failed",
			"user_id", g.UserID,
			"filetype", g.Filetype,
			"error", err,
		)
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, apperrors.Validation("Genotype validation failed", validationErrs.Details())
		}
		return nil, apperrors.Validation("Genotype validation failed", map[string]any{"error": err.Error()})
	}

	info, err := s.store.Put(ctx, g.FileKey, req.Body, blob.PutOptions{
		ContentType: req.ContentType,
		Metadata: map[string]string{
			"user_id":           g.UserID,
			"filetype":          g.Filetype,
			"original_filename": g.OriginalFilename,
		},
	})
	if err != nil {
		s.cfg.Log.Error("Failed to store genotype file",
			"user_id", g.UserID,
			"key", g.FileKey,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to store genotype file", err)
	}

	if err := s.repo.Create(ctx, g); err != nil {
		s.cfg.Log.Error("Failed to create genotype",
			"user_id", g.UserID,
			"key", g.FileKey,
			"error", err,
		)
		if _, delErr := s.store.Delete(context.WithoutCancel(ctx), g.FileKey); delErr != nil {
			s.cfg.Log.Warn("Failed to remove orphaned genotype file", "key", g.FileKey, "error", delErr)
		}
		return nil, apperrors.Internal("Failed to create genotype", err)
	}

	s.cfg.Log.Info("Genotype uploaded successfully",
		"id", g.ID,
		"user_id", g.UserID,
		"filetype", g.Filetype,
		"size_bytes", info.Size,
	)

	s.publishUploaded(ctx, g)

	return g, nil
}

// publishUploaded does not fail the upload. The record stays pending and the
// producer routes undeliverable events to its DLQ for replay.
func (s *genotypeService) publishUploaded(ctx context.Context, g *model.Genotype) {
	msg, err := kafka.NewMessage().
		WithKey(g.ID).
		WithValue(events.GenotypeUploaded{
			GenotypeID: g.ID,
			UserID:     g.UserID,
			Filetype:   g.Filetype,
			FileKey:    g.FileKey,
			UploadedAt: g.CreatedAt,
		}).
		WithEventType(events.EventTypeGenotypeUploaded).
		WithSchemaVersion(events.SchemaVersion).
		WithSource(eventSource).
		WithCorrelationID(middleware.RequestID(ctx)).
		BuildE()
	if err == nil {
		err = s.publisher.Publish(ctx, msg)
	}
	if err != nil {
		s.cfg.Log.Error("Failed to publish genotype uploaded event",
			"id", g.ID,
			"error", err,
		)
	}
}

func (s *genotypeService) GetByID(ctx context.Context, id string) (*model.Genotype, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Genotype ID cannot be empty")
	}

	g, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, genotypeserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Genotype", id)
		}
		if errors.Is(err, genotypeserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid genotype ID format")
		}
		s.cfg.Log.Error("Failed to get genotype by ID",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve genotype", err)
	}

	return g, nil
}

func (s *genotypeService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Genotype, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var genotypes []*model.Genotype

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		count, err = s.repo.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		genotypes, err = s.repo.FindAll(gctx, limit, offset)
		return err
	})

	if err := g.Wait(); err != nil {
		s.cfg.Log.Error("Failed to list genotypes",
			"limit", limit,
			"offset", offset,
			"error", err,
		)
		return nil, 0, apperrors.Internal("Failed to retrieve genotypes", err)
	}

	return genotypes, count, nil
}
