package service

import (
	"context"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"snpr/internal/news/repository"
	"snpr/pkg/config"
	apperrors "snpr/pkg/errors"
	"snpr/pkg/model"
)

// MaxLimit caps how many records of each kind a feed carries.
const MaxLimit = 100

type Feed struct {
	Genotypes         []*model.Genotype         `json:"genotypes"`
	Users             []*model.User             `json:"users"`
	Phenotypes        []*model.Phenotype        `json:"phenotypes"`
	PhenotypeComments []*model.PhenotypeComment `json:"phenotype_comments"`
	SnpComments       []*model.SnpComment       `json:"snp_comments"`
}

type NewsService interface {
	Latest(ctx context.Context, limit int) (*Feed, error)
}

type newsService struct {
	repo repository.NewsRepository
	cfg  *config.Config
}

func NewNewsService(repo repository.NewsRepository, cfg *config.Config) NewsService {
	return &newsService{
		repo: repo,
		cfg:  cfg,
	}
}

// Limit falls back to the configured default for non-positive values.
func (s *newsService) Limit(limit int) int {
	if limit <= 0 {
		limit = s.cfg.NewsLimit
	}
	return lo.Clamp(limit, 1, MaxLimit)
}

func (s *newsService) Latest(ctx context.Context, limit int) (*Feed, error) {
	limit = s.Limit(limit)
	feed := &Feed{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		feed.Genotypes, err = s.repo.RecentGenotypes(gctx, limit)
		return err
	})
	g.Go(func() (err error) {
		feed.Users, err = s.repo.RecentUsers(gctx, limit)
		return err
	})
	g.Go(func() (err error) {
		feed.Phenotypes, err = s.repo.RecentPhenotypes(gctx, limit)
		return err
	})
	g.Go(func() (err error) {
		feed.PhenotypeComments, err = s.repo.RecentPhenotypeComments(gctx, limit)
		return err
	})
	g.Go(func() (err error) {
		feed.SnpComments, err = s.repo.RecentSnpComments(gctx, limit)
		return err
	})

	if err := g.Wait(); err != nil {
		s.cfg.Log.Error("failed to load news feed", "limit", limit, "error", err)
		return nil, apperrors.Internal("Failed to load news feed", err)
	}

	s.cfg.Log.Debug("news feed loaded",
		"limit", limit,
		"genotypes", len(feed.Genotypes),
		"users", len(feed.Users),
		"phenotypes", len(feed.Phenotypes),
		"phenotype_comments", len(feed.PhenotypeComments),
		"snp_comments", len(feed.SnpComments),
	)
	return feed, nil
}
