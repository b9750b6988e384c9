package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"snpr/pkg/config"
	mongotx "snpr/pkg/db/mongo"
	"snpr/pkg/model"
)

const (
	SnpsCollectionName     = "Snps"
	UserSnpsCollectionName = "User_snps"
)

// SnpRepository stores the SNP catalogue and each user's genotype at a SNP.
// Names passed in are the lowercase names produced by the parser.
type SnpRepository interface {
	ExistingSnpNames(ctx context.Context, names []string) (map[string]bool, error)
	CreateSnps(ctx context.Context, snps []*model.Snp) error
	IncrementUserSnpsCount(ctx context.Context, names []string) error

	UserSnpNames(ctx context.Context, userID string) (map[string]bool, error)
	CreateUserSnps(ctx context.Context, userSnps []*model.UserSnp) error
}

type mongoSnpRepository struct {
	cfg      *config.Config
	snps     *mongo.Collection
	userSnps *mongo.Collection
}

func NewMongoSnpRepository(cfg *config.Config) SnpRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSnpRepository{
		cfg:      cfg,
		snps:     db.Collection(SnpsCollectionName),
		userSnps: db.Collection(UserSnpsCollectionName),
	}
}

func (r *mongoSnpRepository) ExistingSnpNames(ctx context.Context, names []string) (map[string]bool, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"name": 1, "_id": 0})
	cursor, err := r.snps.Find(ctx, bson.M{"name": bson.M{"$in": names}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query snps: %w", err)
	}
	return collectNames(ctx, cursor, "name")
}

func (r *mongoSnpRepository) CreateSnps(ctx context.Context, snps []*model.Snp) error {
	if len(snps) == 0 {
		return nil
	}
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	docs := make([]any, len(snps))
	for i, s := range snps {
		s.CreatedAt = now
		docs[i] = s
	}

	if _, err := r.snps.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to create snps: %w", err)
	}
	return nil
}

func (r *mongoSnpRepository) IncrementUserSnpsCount(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.snps.UpdateMany(ctx,
		bson.M{"name": bson.M{"$in": names}},
		bson.M{"$inc": bson.M{"user_snps_count": 1}},
	)
	if err != nil {
		return fmt.Errorf("failed to update snp counts: %w", err)
	}
	return nil
}

func (r *mongoSnpRepository) UserSnpNames(ctx context.Context, userID string) (map[string]bool, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"snp_name": 1, "_id": 0})
	cursor, err := r.userSnps.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query user snps: %w", err)
	}
	return collectNames(ctx, cursor, "snp_name")
}

func (r *mongoSnpRepository) CreateUserSnps(ctx context.Context, userSnps []*model.UserSnp) error {
	if len(userSnps) == 0 {
		return nil
	}
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	docs := make([]any, len(userSnps))
	for i, us := range userSnps {
		us.CreatedAt = now
		docs[i] = us
	}

	if _, err := r.userSnps.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to create user snps: %w", err)
	}
	return nil
}

func collectNames(ctx context.Context, cursor *mongo.Cursor, field string) (map[string]bool, error) {
	defer cursor.Close(ctx)

	names := make(map[string]bool)
	for cursor.Next(ctx) {
		name, ok := cursor.Current.Lookup(field).StringValueOK()
		if ok {
			names[name] = true
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s values: %w", field, err)
	}
	return names, nil
}
