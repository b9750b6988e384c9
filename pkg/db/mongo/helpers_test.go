package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestWithTimeout_AddsDeadline(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), time.Second)
	defer cancel()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("expected a deadline")
	}
	if remaining := time.Until(deadline); remaining <= 0 || remaining > time.Second {
		t.Errorf("unexpected remaining time %s", remaining)
	}
}

func TestWithTimeout_KeepsShorterParentDeadline(t *testing.T) {
	parent, cancelParent := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancelParent()

	ctx, cancel := WithTimeout(parent, time.Minute)
	defer cancel()

	parentDeadline, _ := parent.Deadline()
	deadline, _ := ctx.Deadline()
	if !deadline.Equal(parentDeadline) {
		t.Errorf("deadline = %v, want parent deadline %v", deadline, parentDeadline)
	}
}

func TestParseObjectID(t *testing.T) {
	oid := primitive.NewObjectID()

	got, err := ParseObjectID(oid.Hex())
	if err != nil || got != oid {
		t.Fatalf("ParseObjectID(%s) = %v, %v", oid.Hex(), got, err)
	}

	if _, err := ParseObjectID("not-an-id"); !errors.Is(err, ErrInvalidObjectID) {
		t.Errorf("expected ErrInvalidObjectID, got %v", err)
	}
}

func TestInsertedHex(t *testing.T) {
	oid := primitive.NewObjectID()
	if got := InsertedHex(&mongo.InsertOneResult{InsertedID: oid}); got != oid.Hex() {
		t.Errorf("InsertedHex = %q, want %q", got, oid.Hex())
	}
	if got := InsertedHex(&mongo.InsertOneResult{InsertedID: "custom"}); got != "" {
		t.Errorf("InsertedHex for non-ObjectID = %q, want empty", got)
	}
	if got := InsertedHex(nil); got != "" {
		t.Errorf("InsertedHex(nil) = %q, want empty", got)
	}
}
