package metastore

import (
	"context"

	"github.com/starford/figcaption/internal/models"
)

// MetaStore is per-post key/value persistence, one value per key,
// last write wins.
type MetaStore interface {
	Meta(ctx context.Context, postID int64, key string) (string, bool, error)
	SetMeta(ctx context.Context, postID int64, key, value string) error
}

// OptionStore holds site-wide named records.
type OptionStore interface {
	Option(ctx context.Context, name string) (string, bool, error)
	AddOption(ctx context.Context, name, value string) (bool, error)
	UpdateOption(ctx context.Context, name, value string) error
	DeleteOption(ctx context.Context, name string) error
}

// PostStore looks up host posts.
type PostStore interface {
	Post(ctx context.Context, id int64) (*models.Post, error)
}

// UserStore resolves host users.
type UserStore interface {
	UserByTokenHash(ctx context.Context, hash string) (*models.User, error)
}

// Verify *Store satisfies the store interfaces at compile time.
var (
	_ MetaStore   = (*Store)(nil)
	_ OptionStore = (*Store)(nil)
	_ PostStore   = (*Store)(nil)
	_ UserStore   = (*Store)(nil)
)
