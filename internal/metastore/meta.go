package metastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// Meta returns the value stored under key for postID. ok is false when
// no row exists; a missing post is not an error.
func (s *Store) Meta(ctx context.Context, postID int64, key string) (string, bool, error) {
	query, args, err := s.sb.Select("meta_value").
		From("postmeta").
		Where(sq.Eq{"post_id": postID, "meta_key": key}).
		ToSql()
	if err != nil {
		return "", false, fmt.Errorf("metastore: build meta query: %w", err)
	}
	var value string
	if err := s.db.GetContext(ctx, &value, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("metastore: get meta: %w", err)
	}
	return value, true, nil
}

// SetMeta writes value under key for postID, replacing any prior value.
// The post must exist.
func (s *Store) SetMeta(ctx context.Context, postID int64, key, value string) error {
	query, args, err := s.sb.Insert("postmeta").
		Columns("post_id", "meta_key", "meta_value").
		Values(postID, key, value).
		Suffix("ON CONFLICT(post_id, meta_key) DO UPDATE SET meta_value = excluded.meta_value").
		ToSql()
	if err != nil {
		return fmt.Errorf("metastore: build meta upsert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("metastore: set meta: %w", err)
	}
	return nil
}
