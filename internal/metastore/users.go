package metastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/starford/figcaption/internal/apperr"
	"github.com/starford/figcaption/internal/models"
)

// CreateUser inserts u with the given token hash and sets its ID.
func (s *Store) CreateUser(ctx context.Context, u *models.User, tokenHash string) error {
	query, args, err := s.sb.Insert("users").
		Columns("login", "role", "token_hash").
		Values(u.Login, u.Role, tokenHash).
		ToSql()
	if err != nil {
		return fmt.Errorf("metastore: build user insert: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperr.ErrAlreadyExists
		}
		return fmt.Errorf("metastore: create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("metastore: create user: %w", err)
	}
	u.ID = id
	return nil
}

// UserByTokenHash returns the user owning the token hash, or apperr.ErrNotFound.
func (s *Store) UserByTokenHash(ctx context.Context, hash string) (*models.User, error) {
	if hash == "" {
		return nil, apperr.ErrNotFound
	}
	query, args, err := s.sb.Select("id", "login", "role").
		From("users").
		Where(sq.Eq{"token_hash": hash}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("metastore: build user query: %w", err)
	}
	var u models.User
	if err := s.db.GetContext(ctx, &u, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("metastore: get user: %w", err)
	}
	return &u, nil
}
