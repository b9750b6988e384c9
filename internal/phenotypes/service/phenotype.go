package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	phenotypeserrors "snpr/internal/phenotypes/errors"
	"snpr/internal/phenotypes/repository"
	"snpr/internal/phenotypes/validator"
	"snpr/pkg/config"
	apperrors "snpr/pkg/errors"
	"snpr/pkg/metrics"
	"snpr/pkg/model"
	"snpr/pkg/sanitizer"
	"snpr/pkg/variation"
)

type PhenotypeService interface {
	Create(ctx context.Context, p *model.Phenotype) error
	GetByID(ctx context.Context, id string) (*model.Phenotype, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Phenotype, int64, error)

	AddUserPhenotype(ctx context.Context, phenotypeID string, up *model.UserPhenotype) error
	ListUserPhenotypes(ctx context.Context, phenotypeID string) ([]*model.UserPhenotype, error)
	KnownVariations(ctx context.Context, phenotypeID string) ([]string, error)
}

type phenotypeService struct {
	repo      repository.PhenotypeRepository
	userRepo  repository.UserPhenotypeRepository
	validator *validator.PhenotypeValidator
	known     variation.KnownVariations
	metrics   *metrics.Metrics
	cfg       *config.Config
}

// NewPhenotypeService wires the phenotype service. known may be nil, in which
// case known variations are recomputed on every read. m may be nil.
func NewPhenotypeService(
	repo repository.PhenotypeRepository,
	userRepo repository.UserPhenotypeRepository,
	validator *validator.PhenotypeValidator,
	known variation.KnownVariations,
	m *metrics.Metrics,
	cfg *config.Config,
) PhenotypeService {
	if known == nil {
		known = variation.Recompute{}
	}
	return &phenotypeService{
		repo:      repo,
		userRepo:  userRepo,
		validator: validator,
		known:     known,
		metrics:   m,
		cfg:       cfg,
	}
}

func (s *phenotypeService) Create(ctx context.Context, p *model.Phenotype) error {
	p.Characteristic = sanitizer.NormalizeCharacteristic(p.Characteristic)
	p.Description = sanitizer.TrimAndNormalize(p.Description)

	if err := s.validator.Validate(p); err != nil {
		s.cfg.Log.Warn("Phenotype validation failed",
			"characteristic", p.Characteristic,
			"error", err,
		)
		return validationError("Phenotype validation failed", err)
	}

	exists, err := s.repo.ExistsByCharacteristic(ctx, p.Characteristic)
	if err != nil {
		s.cfg.Log.Error("Failed to check phenotype duplicates",
			"characteristic", p.Characteristic,
			"error", err,
		)
		return apperrors.Internal("Failed to create phenotype", err)
	}
	if exists {
		return apperrors.Conflict(fmt.Sprintf("Phenotype %q already exists", p.Characteristic))
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, phenotypeserrors.ErrDuplicateCharacteristic) {
			return apperrors.Conflict(fmt.Sprintf("Phenotype %q already exists", p.Characteristic))
		}
		s.cfg.Log.Error("Failed to create phenotype",
			"characteristic", p.Characteristic,
			"error", err,
		)
		return apperrors.Internal("Failed to create phenotype", err)
	}

	s.cfg.Log.Info("Phenotype created successfully",
		"id", p.ID,
		"characteristic", p.Characteristic,
	)

	return nil
}

func (s *phenotypeService) GetByID(ctx context.Context, id string) (*model.Phenotype, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Phenotype ID cannot be empty")
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateFindError(id, err)
	}

	return p, nil
}

func (s *phenotypeService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Phenotype, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var phenotypes []*model.Phenotype

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		count, err = s.repo.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		phenotypes, err = s.repo.FindAll(gctx, limit, offset)
		return err
	})

	if err := g.Wait(); err != nil {
		s.cfg.Log.Error("Failed to list phenotypes",
			"limit", limit,
			"offset", offset,
			"error", err,
		)
		return nil, 0, apperrors.Internal("Failed to retrieve phenotypes", err)
	}

	return phenotypes, count, nil
}

func (s *phenotypeService) AddUserPhenotype(ctx context.Context, phenotypeID string, up *model.UserPhenotype) error {
	if phenotypeID == "" {
		return apperrors.InvalidInput("Phenotype ID cannot be empty")
	}

	up.PhenotypeID = phenotypeID
	up.Variation = sanitizer.NormalizeVariation(up.Variation)

	if err := s.validator.ValidateUserPhenotype(up); err != nil {
		s.cfg.Log.Warn("User phenotype validation failed",
			"phenotype_id", phenotypeID,
			"user_id", up.UserID,
			"error", err,
		)
		return validationError("User phenotype validation failed", err)
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := s.repo.FindByID(sessCtx, phenotypeID); err != nil {
			return s.translateFindError(phenotypeID, err)
		}

		exists, err := s.userRepo.ExistsForUser(sessCtx, phenotypeID, up.UserID)
		if err != nil {
			return fmt.Errorf("failed to check for duplicates: %w", err)
		}
		if exists {
			return duplicateUserPhenotype()
		}

		if err := s.userRepo.Create(sessCtx, up); err != nil {
			if errors.Is(err, phenotypeserrors.ErrDuplicateUserPhenotype) {
				return duplicateUserPhenotype()
			}
			return fmt.Errorf("failed to create user phenotype: %w", err)
		}

		if err := s.repo.IncrementUserPhenotypesCount(sessCtx, phenotypeID); err != nil {
			return fmt.Errorf("failed to update phenotype: %w", err)
		}

		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		s.cfg.Log.Error("Failed to add user phenotype",
			"phenotype_id", phenotypeID,
			"user_id", up.UserID,
			"error", err,
		)
		return apperrors.Internal("Failed to add user phenotype", err)
	}

	s.known.Invalidate(phenotypeID)

	s.cfg.Log.Info("User phenotype added successfully",
		"id", up.ID,
		"phenotype_id", phenotypeID,
		"user_id", up.UserID,
	)

	return nil
}

func (s *phenotypeService) ListUserPhenotypes(ctx context.Context, phenotypeID string) ([]*model.UserPhenotype, error) {
	if _, err := s.GetByID(ctx, phenotypeID); err != nil {
		return nil, err
	}

	userPhenotypes, err := s.userRepo.FindByPhenotype(ctx, phenotypeID)
	if err != nil {
		s.cfg.Log.Error("Failed to list user phenotypes",
			"phenotype_id", phenotypeID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve user phenotypes", err)
	}

	return userPhenotypes, nil
}

func (s *phenotypeService) KnownVariations(ctx context.Context, phenotypeID string) ([]string, error) {
	if _, err := s.GetByID(ctx, phenotypeID); err != nil {
		return nil, err
	}

	known, err := s.known.Get(ctx, phenotypeID, func(ctx context.Context) ([]string, error) {
		userPhenotypes, err := s.userRepo.FindByPhenotype(ctx, phenotypeID)
		if err != nil {
			return nil, err
		}
		return variation.Compute(userPhenotypes), nil
	})
	if s.metrics != nil {
		s.metrics.KnownVariationLookups.WithLabelValues(metrics.Result(err)).Inc()
	}
	if err != nil {
		s.cfg.Log.Error("Failed to compute known variations",
			"phenotype_id", phenotypeID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve known variations", err)
	}

	return known, nil
}

func (s *phenotypeService) translateFindError(id string, err error) error {
	if errors.Is(err, phenotypeserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Phenotype", id)
	}
	if errors.Is(err, phenotypeserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid phenotype ID format")
	}
	s.cfg.Log.Error("Failed to get phenotype by ID",
		"id", id,
		"error", err,
	)
	return apperrors.Internal("Failed to retrieve phenotype", err)
}

func validationError(msg string, err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return apperrors.Validation(msg, validationErrs.Details())
	}
	return apperrors.Validation(msg, map[string]any{
		"error": err.Error(),
	})
}

func duplicateUserPhenotype() error {
	return apperrors.Conflict("User already reported a variation for this phenotype")
}
