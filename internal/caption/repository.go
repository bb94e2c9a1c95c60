// Package caption stores featured image captions as post metadata and
// formats them for templates.
package caption

import (
	"context"
	"fmt"

	"github.com/starford/figcaption/internal/apperr"
	"github.com/starford/figcaption/internal/metastore"
	"github.com/starford/figcaption/internal/models"
	"github.com/starford/figcaption/internal/sanitize"
)

// DefaultMetaKey is the post meta key captions are stored under.
const DefaultMetaKey = "_cc_featured_image_caption"

// Repository reads and writes the caption of a post.
type Repository struct {
	store     metastore.MetaStore
	sanitizer sanitize.Sanitizer
	key       string
}

// NewRepository creates a repository storing captions under key.
// An empty key selects DefaultMetaKey.
func NewRepository(store metastore.MetaStore, sanitizer sanitize.Sanitizer, key string) *Repository {
	if key == "" {
		key = DefaultMetaKey
	}
	return &Repository{store: store, sanitizer: sanitizer, key: key}
}

// Key returns the meta key captions are stored under.
func (r *Repository) Key() string {
	return r.key
}

// Get returns the caption of ownerID. A missing row and an empty value are
// both reported as an absent caption.
func (r *Repository) Get(ctx context.Context, ownerID int64) (models.Caption, error) {
	text, _, err := r.store.Meta(ctx, ownerID, r.key)
	if err != nil {
		return models.Caption{OwnerID: ownerID}, fmt.Errorf("%w: read caption %d: %v", apperr.ErrPersistence, ownerID, err)
	}
	return models.Caption{OwnerID: ownerID, Text: text}, nil
}

// Set sanitizes raw and stores it as the caption of ownerID, replacing the
// previous value. An empty raw clears the caption.
func (r *Repository) Set(ctx context.Context, ownerID int64, raw string) error {
	clean := r.sanitizer.Sanitize(raw)
	if err := r.store.SetMeta(ctx, ownerID, r.key, clean); err != nil {
		return fmt.Errorf("%w: write caption %d: %v", apperr.ErrPersistence, ownerID, err)
	}
	return nil
}
