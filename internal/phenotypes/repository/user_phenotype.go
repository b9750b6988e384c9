package repository

import (
	"context"
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
	UserPhenotypesCollectionName = "User_phenotypes"
)

type UserPhenotypeRepository interface {
	Create(ctx context.Context, up *model.UserPhenotype) error
	ExistsForUser(ctx context.Context, phenotypeID, userID string) (bool, error)
	// FindByPhenotype returns the reports oldest first, ties broken by insertion order.
	FindByPhenotype(ctx context.Context, phenotypeID string) ([]*model.UserPhenotype, error)
}

type mongoUserPhenotypeRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoUserPhenotypeRepository(cfg *config.Config) UserPhenotypeRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoUserPhenotypeRepository{
		cfg:        cfg,
		collection: db.Collection(UserPhenotypesCollectionName),
	}
}

func (r *mongoUserPhenotypeRepository) Create(ctx context.Context, up *model.UserPhenotype) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	up.ID = ""
	up.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, up)
	if err != nil {
		if mongotx.IsDuplicateKey(err) {
			return fmt.Errorf("%w: phenotype %s user %s", phenotypeserrors.ErrDuplicateUserPhenotype, up.PhenotypeID, up.UserID)
		}
		return fmt.Errorf("failed to create user phenotype: %w", err)
	}

	up.ID = mongotx.InsertedHex(result)
	return nil
}

func (r *mongoUserPhenotypeRepository) ExistsForUser(ctx context.Context, phenotypeID, userID string) (bool, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"phenotype_id": phenotypeID, "user_id": userID}
	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check user phenotype: %w", err)
	}
	return count > 0, nil
}

func (r *mongoUserPhenotypeRepository) FindByPhenotype(ctx context.Context, phenotypeID string) ([]*model.UserPhenotype, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	// ObjectIDs grow monotonically per process, which keeps same-millisecond
	// inserts in insertion order.
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"phenotype_id": phenotypeID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query user phenotypes: %w", err)
	}
	defer cursor.Close(ctx)

	userPhenotypes := []*model.UserPhenotype{}
	if err = cursor.All(ctx, &userPhenotypes); err != nil {
		return nil, fmt.Errorf("failed to decode user phenotypes: %w", err)
	}
	return userPhenotypes, nil
}
