package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"snpr/pkg/config"
	mongotx "snpr/pkg/db/mongo"
	"snpr/pkg/model"
)

// Kind names a collection the feed reads from.
type Kind string

const (
	KindGenotypes         Kind = "Genotypes"
	KindUsers             Kind = "Users"
	KindPhenotypes        Kind = "Phenotypes"
	KindPhenotypeComments Kind = "Phenotype_comments"
	KindSnpComments       Kind = "Snp_comments"
)

type NewsRepository interface {
	RecentGenotypes(ctx context.Context, limit int) ([]*model.Genotype, error)
	RecentUsers(ctx context.Context, limit int) ([]*model.User, error)
	RecentPhenotypes(ctx context.Context, limit int) ([]*model.Phenotype, error)
	RecentPhenotypeComments(ctx context.Context, limit int) ([]*model.PhenotypeComment, error)
	RecentSnpComments(ctx context.Context, limit int) ([]*model.SnpComment, error)
}

type mongoNewsRepository struct {
	cfg *config.Config
	db  *mongo.Database
}

func NewMongoNewsRepository(cfg *config.Config) NewsRepository {
	return &mongoNewsRepository{
		cfg: cfg,
		db:  cfg.Client.Mongo.Database(cfg.MongoDatabaseName),
	}
}

// RecentOptions orders newest first and caps the result at limit.
func RecentOptions(limit int) *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))
}

func findRecent[T any](ctx context.Context, r *mongoNewsRepository, kind Kind, limit int) ([]*T, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.db.Collection(string(kind)).Find(ctx, bson.M{}, RecentOptions(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", kind, err)
	}
	defer cursor.Close(ctx)

	items := []*T{}
	if err = cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", kind, err)
	}
	return items, nil
}

func (r *mongoNewsRepository) RecentGenotypes(ctx context.Context, limit int) ([]*model.Genotype, error) {
	return findRecent[model.Genotype](ctx, r, KindGenotypes, limit)
}

func (r *mongoNewsRepository) RecentUsers(ctx context.Context, limit int) ([]*model.User, error) {
	return findRecent[model.User](ctx, r, KindUsers, limit)
}

func (r *mongoNewsRepository) RecentPhenotypes(ctx context.Context, limit int) ([]*model.Phenotype, error) {
	return findRecent[model.Phenotype](ctx, r, KindPhenotypes, limit)
}

func (r *mongoNewsRepository) RecentPhenotypeComments(ctx context.Context, limit int) ([]*model.PhenotypeComment, error) {
	return findRecent[model.PhenotypeComment](ctx, r, KindPhenotypeComments, limit)
}

func (r *mongoNewsRepository) RecentSnpComments(ctx context.Context, limit int) ([]*model.SnpComment, error) {
	return findRecent[model.SnpComment](ctx, r, KindSnpComments, limit)
}
