package service

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"

	genotypeserrors "snpr/internal/genotypes/errors"
	"snpr/pkg/config"
	mongotx "snpr/pkg/db/mongo"
	"snpr/pkg/kafka"
	"snpr/pkg/logger"
	"snpr/pkg/model"
)

const testUserID = "65f1a2b3c4d5e6f7a8b9c0d1"

func testConfig() *config.Config {
	return &config.Config{Log: logger.Discard()}
}

type mockGenotypeRepository struct {
	mu        sync.Mutex
	genotypes map[string]*model.Genotype
	createErr error
	txCalls   int
}

func newMockGenotypeRepository(genotypes ...*model.Genotype) *mockGenotypeRepository {
	m := &mockGenotypeRepository{genotypes: make(map[string]*model.Genotype)}
	for _, g := range genotypes {
		m.genotypes[g.ID] = g
	}
	return m
}

func (m *mockGenotypeRepository) Create(ctx context.Context, g *model.Genotype) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	g.ID = fmt.Sprintf("%024x", len(m.genotypes)+1)
	m.genotypes[g.ID] = g
	return nil
}

func (m *mockGenotypeRepository) FindByID(ctx context.Context, id string) (*model.Genotype, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.genotypes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", genotypeserrors.ErrNotFound, id)
	}
	return g, nil
}

func (m *mockGenotypeRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Genotype, error) {
	return []*model.Genotype{}, nil
}

func (m *mockGenotypeRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.genotypes)), nil
}

func (m *mockGenotypeRepository) StartParsing(ctx context.Context, id string) (*model.Genotype, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.genotypes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", genotypeserrors.ErrNotFound, id)
	}
	if g.Status == model.GenotypeParsed {
		return nil, fmt.Errorf("%w: %s", genotypeserrors.ErrAlreadyParsed, id)
	}
	g.Status = model.GenotypeParsing
	g.Error = ""
	return g, nil
}

func (m *mockGenotypeRepository) MarkParsed(ctx context.Context, id string, parsedSNPs int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.genotypes[id].Status = model.GenotypeParsed
	m.genotypes[id].ParsedSNPs = parsedSNPs
	return nil
}

func (m *mockGenotypeRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.genotypes[id].Status = model.GenotypeFailed
	m.genotypes[id].Error = reason
	return nil
}

func (m *mockGenotypeRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	m.txCalls++
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockSnpRepository struct {
	snps          map[string]*model.Snp
	userSnps      []*model.UserSnp
	createUserErr error
}

func newMockSnpRepository() *mockSnpRepository {
	return &mockSnpRepository{snps: make(map[string]*model.Snp)}
}

func (m *mockSnpRepository) ExistingSnpNames(ctx context.Context, names []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	for _, n := range names {
		if _, ok := m.snps[n]; ok {
			existing[n] = true
		}
	}
	return existing, nil
}

func (m *mockSnpRepository) CreateSnps(ctx context.Context, snps []*model.Snp) error {
	for _, s := range snps {
		if _, ok := m.snps[s.Name]; ok {
			return fmt.Errorf("duplicate snp %s", s.Name)
		}
		m.snps[s.Name] = s
	}
	return nil
}

func (m *mockSnpRepository) IncrementUserSnpsCount(ctx context.Context, names []string) error {
	for _, n := range names {
		m.snps[n].UserSnpsCount++
	}
	return nil
}

func (m *mockSnpRepository) UserSnpNames(ctx context.Context, userID string) (map[string]bool, error) {
	names := make(map[string]bool)
	for _, us := range m.userSnps {
		if us.UserID == userID {
			names[us.SnpName] = true
		}
	}
	return names, nil
}

func (m *mockSnpRepository) CreateUserSnps(ctx context.Context, userSnps []*model.UserSnp) error {
	if m.createUserErr != nil {
		return m.createUserErr
	}
	m.userSnps = append(m.userSnps, userSnps...)
	return nil
}

type fakePublisher struct {
	messages []kafka.Message
	err      error
}

func (p *fakePublisher) Publish(ctx context.Context, msg kafka.Message) error {
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, msg)
	return nil
}
