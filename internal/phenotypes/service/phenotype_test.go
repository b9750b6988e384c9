package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.mongodb.org/mongo-driver/mongo"

	phenotypeserrors "snpr/internal/phenotypes/errors"
	"snpr/internal/phenotypes/validator"
	"snpr/pkg/config"
	mongotx "snpr/pkg/db/mongo"
	apperrors "snpr/pkg/errors"
	"snpr/pkg/logger"
	"snpr/pkg/metrics"
	"snpr/pkg/model"
	"snpr/pkg/variation"
)

const (
	phenotypeID = "65f1a2b3c4d5e6f7a8b9c0d1"
	userA       = "65f1a2b3c4d5e6f7a8b9c0a1"
	userB       = "65f1a2b3c4d5e6f7a8b9c0a2"
	userC       = "65f1a2b3c4d5e6f7a8b9c0a3"
)

// ────────────────────────────────────────────────
// In-memory repositories
// ────────────────────────────────────────────────

type mockPhenotypeRepository struct {
	mu           sync.Mutex
	phenotypes   map[string]*model.Phenotype
	findAllFunc  func(ctx context.Context, limit int, offset int64) ([]*model.Phenotype, error)
	countFunc    func(ctx context.Context) (int64, error)
	txCalls      int
	findByIDErr  error
	existsResult bool
}

func newMockPhenotypeRepository(phenotypes ...*model.Phenotype) *mockPhenotypeRepository {
	m := &mockPhenotypeRepository{phenotypes: make(map[string]*model.Phenotype)}
	for _, p := range phenotypes {
		m.phenotypes[p.ID] = p
	}
	return m
}

func (m *mockPhenotypeRepository) Create(ctx context.Context, p *model.Phenotype) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = fmt.Sprintf("%024x", len(m.phenotypes)+1)
	m.phenotypes[p.ID] = p
	return nil
}

func (m *mockPhenotypeRepository) FindByID(ctx context.Context, id string) (*model.Phenotype, error) {
	if m.findByIDErr != nil {
		return nil, m.findByIDErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.phenotypes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", phenotypeserrors.ErrNotFound, id)
	}
	return p, nil
}

func (m *mockPhenotypeRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Phenotype, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return []*model.Phenotype{}, nil
}

func (m *mockPhenotypeRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockPhenotypeRepository) ExistsByCharacteristic(ctx context.Context, characteristic string) (bool, error) {
	return m.existsResult, nil
}

func (m *mockPhenotypeRepository) IncrementUserPhenotypesCount(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phenotypes[id].UserPhenotypesCount++
	return nil
}

func (m *mockPhenotypeRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	m.txCalls++
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockUserPhenotypeRepository struct {
	mu        sync.Mutex
	entries   []*model.UserPhenotype
	findCalls int
	createErr error
	findErr   error
}

func (m *mockUserPhenotypeRepository) Create(ctx context.Context, up *model.UserPhenotype) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	up.ID = fmt.Sprintf("%024x", len(m.entries)+1)
	up.CreatedAt = time.Now()
	m.entries = append(m.entries, up)
	return nil
}

func (m *mockUserPhenotypeRepository) ExistsForUser(ctx context.Context, phenotypeID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.PhenotypeID == phenotypeID && e.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserPhenotypeRepository) FindByPhenotype(ctx context.Context, phenotypeID string) ([]*model.UserPhenotype, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findCalls++
	var out []*model.UserPhenotype
	for _, e := range m.entries {
		if e.PhenotypeID == phenotypeID {
			out = append(out, e)
		}
	}
	return out, nil
}

func newTestService(repo *mockPhenotypeRepository, userRepo *mockUserPhenotypeRepository, known variation.KnownVariations, m *metrics.Metrics) PhenotypeService {
	cfg := &config.Config{Log: logger.Discard()}
	return NewPhenotypeService(repo, userRepo, validator.NewPhenotypeValidator(), known, m, cfg)
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error %v is not an AppError", err)
	}
	return appErr.StatusCode()
}

// ────────────────────────────────────────────────
// Create / Get
// ────────────────────────────────────────────────

func TestCreate(t *testing.T) {
	tests := []struct {
		name           string
		characteristic string
		exists         bool
		wantStatus     int
		wantStored     string
	}{
		{name: "normalizes whitespace", characteristic: "  Eye   color ", wantStored: "Eye color"},
		{name: "too short", characteristic: " x ", wantStatus: http.StatusUnprocessableEntity},
		{name: "empty", characteristic: "   ", wantStatus: http.StatusUnprocessableEntity},
		{name: "duplicate", characteristic: "Eye color", exists: true, wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockPhenotypeRepository()
			repo.existsResult = tt.exists
			svc := newTestService(repo, &mockUserPhenotypeRepository{}, nil, nil)

			p := &model.Phenotype{Characteristic: tt.characteristic}
			err := svc.Create(context.Background(), p)

			if tt.wantStatus != 0 {
				if got := statusOf(t, err); got != tt.wantStatus {
					t.Errorf("status = %d, want %d", got, tt.wantStatus)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if p.Characteristic != tt.wantStored || p.ID == "" {
				t.Errorf("stored %+v", p)
			}
		})
	}
}

func TestGetByID_Errors(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		repoErr    error
		wantStatus int
	}{
		{name: "empty id", id: "", wantStatus: http.StatusBadRequest},
		{name: "missing", id: phenotypeID, wantStatus: http.StatusNotFound},
		{name: "invalid id", id: "bad", repoErr: fmt.Errorf("%w: bad", phenotypeserrors.ErrInvalidID), wantStatus: http.StatusBadRequest},
		{name: "storage failure", id: phenotypeID, repoErr: errors.New("connection reset"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockPhenotypeRepository()
			repo.findByIDErr = tt.repoErr
			svc := newTestService(repo, &mockUserPhenotypeRepository{}, nil, nil)

			_, err := svc.GetByID(context.Background(), tt.id)
			if got := statusOf(t, err); got != tt.wantStatus {
				t.Errorf("status = %d, want %d", got, tt.wantStatus)
			}
		})
	}
}

func TestGetAll_NormalizesPagination(t *testing.T) {
	var gotLimit int
	var gotOffset int64
	repo := newMockPhenotypeRepository()
	repo.findAllFunc = func(ctx context.Context, limit int, offset int64) ([]*model.Phenotype, error) {
		gotLimit, gotOffset = limit, offset
		return []*model.Phenotype{{ID: phenotypeID}}, nil
	}
	repo.countFunc = func(ctx context.Context) (int64, error) { return 42, nil }
	svc := newTestService(repo, &mockUserPhenotypeRepository{}, nil, nil)

	items, total, err := svc.GetAll(context.Background(), 1000, -3)
	if err != nil {
		t.Fatal(err)
	}
	if gotLimit != config.DefaultPaginationLimit || gotOffset != 0 {
		t.Errorf("repo got limit=%d offset=%d", gotLimit, gotOffset)
	}
	if total != 42 || len(items) != 1 {
		t.Errorf("got %d items, total %d", len(items), total)
	}
}

func TestGetAll_CountFailure(t *testing.T) {
	repo := newMockPhenotypeRepository()
	repo.countFunc = func(ctx context.Context) (int64, error) { return 0, errors.New("boom") }
	svc := newTestService(repo, &mockUserPhenotypeRepository{}, nil, nil)

	if _, _, err := svc.GetAll(context.Background(), 10, 0); statusOf(t, err) != http.StatusInternalServerError {
		t.Errorf("error = %v", err)
	}
}

// ────────────────────────────────────────────────
// User phenotypes and known variations
// ────────────────────────────────────────────────

func TestAddUserPhenotype(t *testing.T) {
	repo := newMockPhenotypeRepository(&model.Phenotype{ID: phenotypeID, Characteristic: "Hobby"})
	userRepo := &mockUserPhenotypeRepository{}
	svc := newTestService(repo, userRepo, nil, nil)

	up := &model.UserPhenotype{UserID: userA, Variation: "  Ping   pong "}
	if err := svc.AddUserPhenotype(context.Background(), phenotypeID, up); err != nil {
		t.Fatalf("AddUserPhenotype() error = %v", err)
	}
	if up.Variation != "Ping pong" || up.PhenotypeID != phenotypeID {
		t.Errorf("stored %+v", up)
	}
	if repo.phenotypes[phenotypeID].UserPhenotypesCount != 1 {
		t.Errorf("count = %d, want 1", repo.phenotypes[phenotypeID].UserPhenotypesCount)
	}
	if repo.txCalls != 1 {
		t.Errorf("transactions = %d, want 1", repo.txCalls)
	}
}

func TestAddUserPhenotype_Errors(t *testing.T) {
	tests := []struct {
		name        string
		phenotypeID string
		up          model.UserPhenotype
		createErr   error
		wantStatus  int
	}{
		{name: "blank variation", phenotypeID: phenotypeID, up: model.UserPhenotype{UserID: userA, Variation: " \t "}, wantStatus: http.StatusUnprocessableEntity},
		{name: "missing user", phenotypeID: phenotypeID, up: model.UserPhenotype{Variation: "x"}, wantStatus: http.StatusUnprocessableEntity},
		{name: "unknown phenotype", phenotypeID: "65f1a2b3c4d5e6f7a8b9c0ff", up: model.UserPhenotype{UserID: userA, Variation: "x"}, wantStatus: http.StatusNotFound},
		{name: "second report by same user", phenotypeID: phenotypeID, up: model.UserPhenotype{UserID: userB, Variation: "x"}, wantStatus: http.StatusConflict},
		{
			name:        "unique index race",
			phenotypeID: phenotypeID,
			up:          model.UserPhenotype{UserID: userA, Variation: "x"},
			createErr:   phenotypeserrors.ErrDuplicateUserPhenotype,
			wantStatus:  http.StatusConflict,
		},
		{
			name:        "storage failure",
			phenotypeID: phenotypeID,
			up:          model.UserPhenotype{UserID: userA, Variation: "x"},
			createErr:   errors.New("write conflict"),
			wantStatus:  http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockPhenotypeRepository(&model.Phenotype{ID: phenotypeID})
			userRepo := &mockUserPhenotypeRepository{
				entries:   []*model.UserPhenotype{{PhenotypeID: phenotypeID, UserID: userB, Variation: "y"}},
				createErr: tt.createErr,
			}
			svc := newTestService(repo, userRepo, nil, nil)

			up := tt.up
			err := svc.AddUserPhenotype(context.Background(), tt.phenotypeID, &up)
			if got := statusOf(t, err); got != tt.wantStatus {
				t.Errorf("status = %d, want %d (err %v)", got, tt.wantStatus, err)
			}
			if repo.phenotypes[phenotypeID].UserPhenotypesCount != 0 {
				t.Error("count incremented on failure")
			}
		})
	}
}

func TestKnownVariations(t *testing.T) {
	tests := []struct {
		name       string
		variations []string
		want       []string
	}{
		{name: "none", variations: nil, want: []string{}},
		{name: "first casing wins", variations: []string{"Ping pong", "ping pong"}, want: []string{"Ping pong"}},
		{name: "order kept", variations: []string{"x", "y", "X"}, want: []string{"x", "y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockPhenotypeRepository(&model.Phenotype{ID: phenotypeID})
			userRepo := &mockUserPhenotypeRepository{}
			for _, v := range tt.variations {
				userRepo.entries = append(userRepo.entries, &model.UserPhenotype{PhenotypeID: phenotypeID, Variation: v})
			}
			svc := newTestService(repo, userRepo, nil, nil)

			got, err := svc.KnownVariations(context.Background(), phenotypeID)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("KnownVariations() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKnownVariations_CacheReadAfterWrite(t *testing.T) {
	ctx := context.Background()
	repo := newMockPhenotypeRepository(&model.Phenotype{ID: phenotypeID})
	userRepo := &mockUserPhenotypeRepository{}
	cache := variation.NewCache()
	m := metrics.New("test")
	svc := newTestService(repo, userRepo, cache, m)

	add := func(user, v string) {
		t.Helper()
		if err := svc.AddUserPhenotype(ctx, phenotypeID, &model.UserPhenotype{UserID: user, Variation: v}); err != nil {
			t.Fatal(err)
		}
	}

	add(userA, "Ping pong")
	first, err := svc.KnownVariations(ctx, phenotypeID)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, []string{"Ping pong"}) {
		t.Fatalf("first read = %q", first)
	}

	if _, err := svc.KnownVariations(ctx, phenotypeID); err != nil {
		t.Fatal(err)
	}
	if userRepo.findCalls != 1 {
		t.Errorf("loads = %d, want 1 (second read cached)", userRepo.findCalls)
	}

	add(userB, "ping pong")
	add(userC, "Tennis")

	got, err := svc.KnownVariations(ctx, phenotypeID)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"Ping pong", "Tennis"}) {
		t.Errorf("read after write = %q", got)
	}
	if v := testutil.ToFloat64(m.KnownVariationLookups.WithLabelValues(metrics.ResultSuccess)); v != 3 {
		t.Errorf("lookups = %v, want 3", v)
	}
}

func TestKnownVariations_Errors(t *testing.T) {
	repo := newMockPhenotypeRepository(&model.Phenotype{ID: phenotypeID})
	svc := newTestService(repo, &mockUserPhenotypeRepository{findErr: errors.New("boom")}, variation.NewCache(), nil)

	if _, err := svc.KnownVariations(context.Background(), phenotypeID); statusOf(t, err) != http.StatusInternalServerError {
		t.Errorf("load failure error = %v", err)
	}
	if _, err := svc.KnownVariations(context.Background(), "65f1a2b3c4d5e6f7a8b9c0ff"); statusOf(t, err) != http.StatusNotFound {
		t.Errorf("unknown phenotype error = %v", err)
	}
}

func TestListUserPhenotypes(t *testing.T) {
	repo := newMockPhenotypeRepository(&model.Phenotype{ID: phenotypeID})
	userRepo := &mockUserPhenotypeRepository{entries: []*model.UserPhenotype{
		{PhenotypeID: phenotypeID, UserID: userA, Variation: "a"},
		{PhenotypeID: "other", UserID: userA, Variation: "b"},
		{PhenotypeID: phenotypeID, UserID: userB, Variation: "c"},
	}}
	svc := newTestService(repo, userRepo, nil, nil)

	got, err := svc.ListUserPhenotypes(context.Background(), phenotypeID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Variation != "a" || got[1].Variation != "c" {
		t.Errorf("ListUserPhenotypes() = %+v", got)
	}
}
