// Package testutil provides shared test helpers for setting up stores.
package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/starford/figcaption/internal/metastore"
	"github.com/starford/figcaption/internal/models"
)

// TestStore creates a temporary SQLite store that is automatically cleaned up.
func TestStore(t *testing.T) *metastore.Store {
	t.Helper()
	dbFile, err := os.CreateTemp("", "figcaption-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	store, err := metastore.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// SeedPost inserts a post of the given type and returns it.
func SeedPost(t *testing.T, store *metastore.Store, typ models.OwnerType, authorID int64) *models.Post {
	t.Helper()
	p := &models.Post{Type: typ, Title: "Seeded " + string(typ), AuthorID: authorID}
	if err := store.CreatePost(context.Background(), p); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	return p
}

// SeedUser inserts a user holding role, authenticated by token.
func SeedUser(t *testing.T, store *metastore.Store, login string, role models.Role, tokenHash string) *models.User {
	t.Helper()
	u := &models.User{Login: login, Role: role}
	if err := store.CreateUser(context.Background(), u, tokenHash); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}
