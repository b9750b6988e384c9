package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	phenotypeserrors "snpr/internal/phenotypes/errors"
	"snpr/pkg/config"
	mongotx "snpr/pkg/db/mongo"
	"snpr/pkg/model"
)

const (
	CollectionName = "Phenotypes"
)

// caseInsensitive matches the collation of the unique characteristic index.
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

type PhenotypeRepository interface {
	Create(ctx context.Context, p *model.Phenotype) error
	FindByID(ctx context.Context, id string) (*model.Phenotype, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Phenotype, error)
	Count(ctx context.Context) (int64, error)
	ExistsByCharacteristic(ctx context.Context, characteristic string) (bool, error)
	IncrementUserPhenotypesCount(ctx context.Context, id string) error

	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoPhenotypeRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoPhenotypeRepository(cfg *config.Config) PhenotypeRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPhenotypeRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoPhenotypeRepository) Create(ctx context.Context, p *model.Phenotype) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	p.ID = ""
	p.UserPhenotypesCount = 0
	p.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, p)
	if err != nil {
		if mongotx.IsDuplicateKey(err) {
			return fmt.Errorf("%w: %s", phenotypeserrors.ErrDuplicateCharacteristic, p.Characteristic)
		}
		return fmt.Errorf("failed to create phenotype: %w", err)
	}

	p.ID = mongotx.InsertedHex(result)
	return nil
}

func (r *mongoPhenotypeRepository) FindByID(ctx context.Context, id string) (*model.Phenotype, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := mongotx.ParseObjectID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", phenotypeserrors.ErrInvalidID, id)
	}

	var p model.Phenotype
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", phenotypeserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find phenotype: %w", err)
	}
	return &p, nil
}

func (r *mongoPhenotypeRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Phenotype, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query phenotypes: %w", err)
	}
	defer cursor.Close(ctx)

	phenotypes := []*model.Phenotype{}
	if err = cursor.All(ctx, &phenotypes); err != nil {
		return nil, fmt.Errorf("failed to decode phenotypes: %w", err)
	}

	return phenotypes, nil
}

func (r *mongoPhenotypeRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count phenotypes: %w", err)
	}
	return count, nil
}

func (r *mongoPhenotypeRepository) ExistsByCharacteristic(ctx context.Context, characteristic string) (bool, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Count().SetLimit(1).SetCollation(caseInsensitive)
	count, err := r.collection.CountDocuments(ctx, bson.M{"characteristic": characteristic}, opts)
	if err != nil {
		return false, fmt.Errorf("failed to check phenotype characteristic: %w", err)
	}
	return count > 0, nil
}

func (r *mongoPhenotypeRepository) IncrementUserPhenotypesCount(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := mongotx.ParseObjectID(id)
	if err != nil {
		return fmt.Errorf("%w: %s", phenotypeserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$inc": bson.M{"user_phenotypes_count": 1}},
	)
	if err != nil {
		return fmt.Errorf("failed to increment user phenotypes count: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", phenotypeserrors.ErrNotFound, id)
	}
	return nil
}

func (r *mongoPhenotypeRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
