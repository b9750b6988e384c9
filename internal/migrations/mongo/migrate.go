package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"snpr/internal/migrations/mongo/validators"
	"snpr/pkg/logger"
)

var createdAtDesc = mongo.IndexModel{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}

var (
	PhenotypesIndexes = []mongo.IndexModel{
		createdAtDesc,
		{
			Keys: bson.D{{Key: "characteristic", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetCollation(&options.Collation{Locale: "en", Strength: 2}),
		},
	}

	UserPhenotypesIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "phenotype_id", Value: 1}, {Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}},
		{
			Keys:    bson.D{{Key: "phenotype_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	GenotypesIndexes = []mongo.IndexModel{
		createdAtDesc,
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	}

	SnpsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	UserSnpsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "snp_name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "snp_name", Value: 1}}},
	}

	UsersIndexes             = []mongo.IndexModel{createdAtDesc}
	PhenotypeCommentsIndexes = []mongo.IndexModel{createdAtDesc, {Keys: bson.D{{Key: "phenotype_id", Value: 1}}}}
	SnpCommentsIndexes       = []mongo.IndexModel{createdAtDesc, {Keys: bson.D{{Key: "snp_name", Value: 1}}}}
)

type Collection struct {
	Name      string
	Indexes   []mongo.IndexModel
	Validator bson.M
}

var Collections = []Collection{
	{Name: "Phenotypes", Indexes: PhenotypesIndexes, Validator: validators.PhenotypeValidator},
	{Name: "User_phenotypes", Indexes: UserPhenotypesIndexes, Validator: validators.UserPhenotypeValidator},
	{Name: "Genotypes", Indexes: GenotypesIndexes, Validator: validators.GenotypeValidator},
	{Name: "Users", Indexes: UsersIndexes, Validator: validators.UserValidator},
	{Name: "Phenotype_comments", Indexes: PhenotypeCommentsIndexes, Validator: validators.PhenotypeCommentValidator},
	{Name: "Snp_comments", Indexes: SnpCommentsIndexes, Validator: validators.SnpCommentValidator},
	{Name: "Snps", Indexes: SnpsIndexes, Validator: validators.SnpValidator},
	{Name: "User_snps", Indexes: UserSnpsIndexes, Validator: validators.UserSnpValidator},
}

func RunMigration(ctx context.Context, client *mongo.Client, dbName string, log *logger.Logger) error {
	db := client.Database(dbName)
	log.Info("Running Mongo migrations", "database", dbName)

	for _, def := range Collections {
		if err := ensureCollection(ctx, db, def.Name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", def.Name, err)
		}
		if err := ensureIndexes(ctx, db, def.Name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", def.Name, err)
		}
	}

	log.Info("All migrations applied successfully", "collections", len(Collections))
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection already exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	if len(models) == 0 {
		return nil
	}
	if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "count", len(models))
	return nil
}
