package metastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/starford/figcaption/internal/apperr"
	"github.com/starford/figcaption/internal/models"
)

// Post returns the post with the given id, or apperr.ErrNotFound.
func (s *Store) Post(ctx context.Context, id int64) (*models.Post, error) {
	query, args, err := s.sb.Select("id", "type", "title", "author_id").
		From("posts").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("metastore: build post query: %w", err)
	}
	var p models.Post
	if err := s.db.GetContext(ctx, &p, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("metastore: get post: %w", err)
	}
	return &p, nil
}

// CreatePost inserts p and sets its ID.
func (s *Store) CreatePost(ctx context.Context, p *models.Post) error {
	if p.Type == "" {
		p.Type = models.OwnerPost
	}
	query, args, err := s.sb.Insert("posts").
		Columns("type", "title", "author_id").
		Values(p.Type, p.Title, p.AuthorID).
		ToSql()
	if err != nil {
		return fmt.Errorf("metastore: build post insert: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("metastore: create post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("metastore: create post: %w", err)
	}
	p.ID = id
	return nil
}

// DeletePost removes a post. Its metadata goes with it.
func (s *Store) DeletePost(ctx context.Context, id int64) error {
	query, args, err := s.sb.Delete("posts").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("metastore: build post delete: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("metastore: delete post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
