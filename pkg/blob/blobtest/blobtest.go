// Package blobtest holds the behavioural checks every blob.Store driver must pass.
package blobtest

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"snpr/pkg/blob"
)

// Run exercises store against the create-only contract. store must be empty.
func Run(t *testing.T, store blob.Store) {
	t.Helper()
	ctx := context.Background()
	const key = "genotypes/u1/sample-23andme.txt"
	const body = "# rsid\tchromosome\tposition\tgenotype\nrs123\t1\t100\tAG\n"

	t.Run("put then head", func(t *testing.T) {
		info, err := store.Put(ctx, key, strings.NewReader(body), blob.PutOptions{
			ContentType: "text/plain",
			Metadata:    map[string]string{"filetype": "23andme"},
		})
		if err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if info.Key != key || info.Size != int64(len(body)) {
			t.Errorf("Put() info = %+v", info)
		}

		head, err := store.Head(ctx, key)
		if err != nil {
			t.Fatalf("Head() error = %v", err)
		}
		if head.Size != int64(len(body)) {
			t.Errorf("Head() size = %d, want %d", head.Size, len(body))
		}
	})

	t.Run("get returns content", func(t *testing.T) {
		_, rc, err := store.Get(ctx, key)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		defer rc.Close()
		got, err := io.ReadAll(rc)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != body {
			t.Errorf("Get() body = %q, want %q", got, body)
		}
	})

	t.Run("put is create only", func(t *testing.T) {
		_, err := store.Put(ctx, key, strings.NewReader("other"), blob.PutOptions{})
		if !errors.Is(err, blob.ErrExists) {
			t.Errorf("second Put() error = %v, want ErrExists", err)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		if _, err := store.Head(ctx, "genotypes/nobody/none.txt"); !errors.Is(err, blob.ErrNotFound) {
			t.Errorf("Head(missing) error = %v, want ErrNotFound", err)
		}
		if _, _, err := store.Get(ctx, "genotypes/nobody/none.txt"); !errors.Is(err, blob.ErrNotFound) {
			t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("invalid key", func(t *testing.T) {
		if _, err := store.Put(ctx, "../escape", strings.NewReader("x"), blob.PutOptions{}); !errors.Is(err, blob.ErrInvalidKey) {
			t.Errorf("Put(../escape) error = %v, want ErrInvalidKey", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		existed, err := store.Delete(ctx, key)
		if err != nil || !existed {
			t.Fatalf("Delete() = %v, %v; want true, nil", existed, err)
		}
		if _, err := store.Head(ctx, key); !errors.Is(err, blob.ErrNotFound) {
			t.Errorf("Head after delete error = %v, want ErrNotFound", err)
		}
	})
}
