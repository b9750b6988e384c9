package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/mongo"

	genotypeserrors "snpr/internal/genotypes/errors"
	"snpr/internal/genotypes/parser"
	"snpr/internal/genotypes/repository"
	"snpr/pkg/blob"
	"snpr/pkg/config"
	"snpr/pkg/metrics"
	"snpr/pkg/model"
)

const parseBatchSize = 1000

// ErrNoRecords is returned for files that contain no parsable SNP line.
var ErrNoRecords = errors.New("genotype file contains no SNP records")

// ParseService turns a stored genotype file into SNPs and user SNPs.
type ParseService interface {
	Parse(ctx context.Context, genotypeID string) error
}

type parseService struct {
	repo    repository.GenotypeRepository
	snps    repository.SnpRepository
	store   blob.Store
	metrics *metrics.Metrics
	cfg     *config.Config
}

// NewParseService wires the parser. m may be nil.
func NewParseService(
	repo repository.GenotypeRepository,
	snps repository.SnpRepository,
	store blob.Store,
	m *metrics.Metrics,
	cfg *config.Config,
) ParseService {
	return &parseService{
		repo:    repo,
		snps:    snps,
		store:   store,
		metrics: m,
		cfg:     cfg,
	}
}

// Parse is safe to repeat for the same genotype: already parsed genotypes are
// skipped and user SNPs the user already has are never duplicated.
func (s *parseService) Parse(ctx context.Context, genotypeID string) error {
	g, err := s.repo.StartParsing(ctx, genotypeID)
	if err != nil {
		if errors.Is(err, genotypeserrors.ErrAlreadyParsed) {
			s.cfg.Log.Info("Genotype already parsed, skipping", "id", genotypeID)
			return nil
		}
		return err
	}

	log := s.cfg.Log.With("id", g.ID, "user_id", g.UserID, "filetype", g.Filetype)
	log.Info("Parsing genotype")

	stats, created, err := s.parseFile(ctx, g)
	if err != nil {
		s.countGenotype(g.Filetype, model.GenotypeFailed)
		if markErr := s.repo.MarkFailed(context.WithoutCancel(ctx), g.ID, err.Error()); markErr != nil {
			log.Error("Failed to mark genotype as failed", "error", markErr)
		}
		log.Error("Failed to parse genotype", "error", err)
		return err
	}

	if err := s.repo.MarkParsed(ctx, g.ID, stats.Records); err != nil {
		return fmt.Errorf("failed to mark genotype parsed: %w", err)
	}
	s.countGenotype(g.Filetype, model.GenotypeParsed)

	log.Info("Genotype parsed successfully",
		"records", stats.Records,
		"skipped_lines", stats.Skipped,
		"invalid_lines", stats.Invalid,
		"user_snps_created", created,
	)
	return nil
}

// parseFile returns the scan statistics and how many user SNPs were created.
func (s *parseService) parseFile(ctx context.Context, g *model.Genotype) (parser.Stats, int, error) {
	_, body, err := s.store.Get(ctx, g.FileKey)
	if err != nil {
		return parser.Stats{}, 0, fmt.Errorf("failed to open genotype file: %w", err)
	}
	defer body.Close()

	known, err := s.snps.UserSnpNames(ctx, g.UserID)
	if err != nil {
		return parser.Stats{}, 0, err
	}

	created := 0
	batch := make([]parser.Record, 0, parseBatchSize)
	flush := func() error {
		n, err := s.storeBatch(ctx, g, batch, known)
		created += n
		batch = batch[:0]
		return err
	}

	stats, err := parser.Scan(body, g.Filetype, func(rec parser.Record) error {
		batch = append(batch, rec)
		if len(batch) == parseBatchSize {
			return flush()
		}
		return nil
	})
	if err == nil {
		err = flush()
	}
	s.countLines(g.Filetype, stats)
	if err != nil {
		return stats, created, err
	}

	if stats.Records == 0 {
		return stats, 0, fmt.Errorf("%w: %d malformed lines", ErrNoRecords, stats.Invalid)
	}
	return stats, created, nil
}

// storeBatch creates the SNPs and user SNPs for one batch in a transaction.
// known holds the user's SNP names and is updated after commit.
func (s *parseService) storeBatch(ctx context.Context, g *model.Genotype, batch []parser.Record, known map[string]bool) (int, error) {
	fresh := lo.UniqBy(
		lo.Filter(batch, func(r parser.Record, _ int) bool { return !known[r.SNPName] }),
		func(r parser.Record) string { return r.SNPName },
	)
	if len(fresh) == 0 {
		return 0, nil
	}
	names := lo.Map(fresh, func(r parser.Record, _ int) string { return r.SNPName })

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		existing, err := s.snps.ExistingSnpNames(sessCtx, names)
		if err != nil {
			return err
		}

		newSnps := lo.FilterMap(fresh, func(r parser.Record, _ int) (*model.Snp, bool) {
			return newSnp(r), !existing[r.SNPName]
		})
		if err := s.snps.CreateSnps(sessCtx, newSnps); err != nil {
			return err
		}

		userSnps := lo.Map(fresh, func(r parser.Record, _ int) *model.UserSnp {
			return &model.UserSnp{
				SnpName:       r.SNPName,
				GenotypeID:    g.ID,
				UserID:        g.UserID,
				LocalGenotype: r.Allele,
			}
		})
		if err := s.snps.CreateUserSnps(sessCtx, userSnps); err != nil {
			return err
		}

		return s.snps.IncrementUserSnpsCount(sessCtx, names)
	})
	if err != nil {
		return 0, err
	}

	for _, name := range names {
		known[name] = true
	}
	return len(fresh), nil
}

func newSnp(r parser.Record) *model.Snp {
	return &model.Snp{
		Name:              r.SNPName,
		Chromosome:        r.Chromosome,
		Position:          r.Position,
		AlleleFrequency:   map[string]int{"A": 0, "T": 0, "G": 0, "C": 0},
		GenotypeFrequency: map[string]int{},
	}
}

func (s *parseService) countGenotype(filetype, status string) {
	if s.metrics == nil {
		return
	}
	s.metrics.GenotypesParsed.WithLabelValues(filetype, status).Inc()
}

func (s *parseService) countLines(filetype string, stats parser.Stats) {
	if s.metrics == nil {
		return
	}
	for outcome, n := range map[string]int{
		"record":  stats.Records,
		"skipped": stats.Skipped,
		"invalid": stats.Invalid,
	} {
		s.metrics.GenotypeLines.WithLabelValues(filetype, outcome).Add(float64(n))
	}
}
