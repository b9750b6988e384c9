package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrInvalidObjectID is returned by ParseObjectID for ids that are not 24 hex chars.
var ErrInvalidObjectID = errors.New("invalid object id")

// WithTimeout bounds ctx by timeout unless ctx is a transaction's SessionContext,
// which cannot be wrapped without detaching the operation from the session.
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, timeout)
}

func ParseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidObjectID
	}
	return oid, nil
}

// InsertedHex returns the hex form of an InsertOne result's generated id.
func InsertedHex(result *mongo.InsertOneResult) string {
	if result == nil {
		return ""
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return ""
}

func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
