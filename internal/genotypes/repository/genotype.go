package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	genotypeserrors "snpr/internal/genotypes/errors"
	"snpr/pkg/config"
	mongotx "snpr/pkg/db/mongo"
	"snpr/pkg/model"
)

const (
	CollectionName = "Genotypes"
)

type GenotypeRepository interface {
	Create(ctx context.Context, g *model.Genotype) error
	FindByID(ctx context.Context, id string) (*model.Genotype, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Genotype, error)
	Count(ctx context.Context) (int64, error)

	// StartParsing moves any genotype that is not yet parsed to parsing and
	// returns it. A redelivered event for a crashed parse may restart it.
	StartParsing(ctx context.Context, id string) (*model.Genotype, error)
	MarkParsed(ctx context.Context, id string, parsedSNPs int) error
	MarkFailed(ctx context.Context, id string, reason string) error

	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoGenotypeRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoGenotypeRepository(cfg *config.Config) GenotypeRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoGenotypeRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoGenotypeRepository) Create(ctx context.Context, g *model.Genotype) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	g.ID = ""
	g.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, g)
	if err != nil {
		return fmt.Errorf("failed to create genotype: %w", err)
	}

	g.ID = mongotx.InsertedHex(result)
	return nil
}

func (r *mongoGenotypeRepository) FindByID(ctx context.Context, id string) (*model.Genotype, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := mongotx.ParseObjectID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", genotypeserrors.ErrInvalidID, id)
	}

	var g model.Genotype
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&g)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", genotypeserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find genotype: %w", err)
	}
	return &g, nil
}

func (r *mongoGenotypeRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Genotype, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query genotypes: %w", err)
	}
	defer cursor.Close(ctx)

	genotypes := []*model.Genotype{}
	if err = cursor.All(ctx, &genotypes); err != nil {
		return nil, fmt.Errorf("failed to decode genotypes: %w", err)
	}
	return genotypes, nil
}

func (r *mongoGenotypeRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count genotypes: %w", err)
	}
	return count, nil
}

func (r *mongoGenotypeRepository) StartParsing(ctx context.Context, id string) (*model.Genotype, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := mongotx.ParseObjectID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", genotypeserrors.ErrInvalidID, id)
	}

	filter := bson.M{
		"_id":    objectID,
		"status": bson.M{"$ne": model.GenotypeParsed},
	}
	update := bson.M{
		"$set":   bson.M{"status": model.GenotypeParsing},
		"$unset": bson.M{"error": ""},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var g model.Genotype
	err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&g)
	if err == nil {
		return &g, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to start parsing genotype: %w", err)
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": objectID})
	if err != nil {
		return nil, fmt.Errorf("failed to find genotype: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: %s", genotypeserrors.ErrNotFound, id)
	}
	return nil, fmt.Errorf("%w: %s", genotypeserrors.ErrAlreadyParsed, id)
}

func (r *mongoGenotypeRepository) MarkParsed(ctx context.Context, id string, parsedSNPs int) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return r.setStatus(ctx, id, bson.M{
		"status":      model.GenotypeParsed,
		"parsed_snps": parsedSNPs,
		"parsed_at":   now,
	})
}

func (r *mongoGenotypeRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return r.setStatus(ctx, id, bson.M{
		"status": model.GenotypeFailed,
		"error":  reason,
	})
}

func (r *mongoGenotypeRepository) setStatus(ctx context.Context, id string, set bson.M) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := mongotx.ParseObjectID(id)
	if err != nil {
		return fmt.Errorf("%w: %s", genotypeserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update genotype status: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", genotypeserrors.ErrNotFound, id)
	}
	return nil
}

func (r *mongoGenotypeRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
