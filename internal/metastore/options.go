package metastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// Option returns the named option value.
func (s *Store) Option(ctx context.Context, name string) (string, bool, error) {
	query, args, err := s.sb.Select("value").From("options").Where(sq.Eq{"name": name}).ToSql()
	if err != nil {
		return "", false, fmt.Errorf("metastore: build option query: %w", err)
	}
	var value string
	if err := s.db.GetContext(ctx, &value, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("metastore: get option: %w", err)
	}
	return value, true, nil
}

// AddOption stores the option only if it does not exist yet and reports
// whether it was added.
func (s *Store) AddOption(ctx context.Context, name, value string) (bool, error) {
	query, args, err := s.sb.Insert("options").
		Options("OR IGNORE").
		Columns("name", "value").
		Values(name, value).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("metastore: build option insert: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("metastore: add option: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("metastore: add option: %w", err)
	}
	return n > 0, nil
}

// UpdateOption creates or replaces the option.
func (s *Store) UpdateOption(ctx context.Context, name, value string) error {
	query, args, err := s.sb.Insert("options").
		Columns("name", "value").
		Values(name, value).
		Suffix("ON CONFLICT(name) DO UPDATE SET value = excluded.value").
		ToSql()
	if err != nil {
		return fmt.Errorf("metastore: build option upsert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("metastore: update option: %w", err)
	}
	return nil
}

// DeleteOption removes the option. Deleting a missing option is not an error.
func (s *Store) DeleteOption(ctx context.Context, name string) error {
	query, args, err := s.sb.Delete("options").Where(sq.Eq{"name": name}).ToSql()
	if err != nil {
		return fmt.Errorf("metastore: build option delete: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("metastore: delete option: %w", err)
	}
	return nil
}
