package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/starford/figcaption/internal/checksum"
	"github.com/starford/figcaption/internal/lifecycle"
	"github.com/starford/figcaption/internal/mcpserver"
	"github.com/starford/figcaption/internal/metastore"
	"github.com/starford/figcaption/internal/models"
)

// withStore opens the configured store for the duration of fn.
func withStore(opts []Option, fn func(app *application, store *metastore.Store, logger *slog.Logger) error) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := newLogger(app)

	store, err := metastore.Open(app.config.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init metastore: %w", err)
	}
	defer store.Close()

	return fn(app, store, logger)
}

func newLifecycle(cfg *Config, store *metastore.Store, logger *slog.Logger) *lifecycle.Manager {
	return lifecycle.NewManager(store, cfg.Plugin.Version, cfg.Plugin.MinHostVersion, logger)
}

// Install runs the activation hook against the configured host version.
func Install(ctx context.Context, opts ...Option) error {
	return withStore(opts, func(app *application, store *metastore.Store, logger *slog.Logger) error {
		return newLifecycle(app.config, store, logger).Install(ctx, app.config.Plugin.HostVersion)
	})
}

// Uninstall removes the configuration record. Stored captions are kept.
func Uninstall(ctx context.Context, opts ...Option) error {
	return withStore(opts, func(app *application, store *metastore.Store, logger *slog.Logger) error {
		return newLifecycle(app.config, store, logger).Uninstall(ctx)
	})
}

// ServeMCP serves the caption tools over stdio until the client disconnects.
// Stdout carries the protocol, so the log goes to stderr unless opts say
// otherwise.
func ServeMCP(ctx context.Context, opts ...Option) error {
	opts = append([]Option{WithLogOutput(os.Stderr)}, opts...)
	return withStore(opts, func(app *application, store *metastore.Store, logger *slog.Logger) error {
		svc, err := newServices(app.config, store, logger)
		if err != nil {
			return fmt.Errorf("init services: %w", err)
		}
		if _, err := svc.lifecycle.Upgrade(ctx); err != nil {
			logger.Warn("upgrade check failed", slog.String("error", err.Error()))
		}
		logger.Info("MCP server starting on stdio", slog.String("meta_key", svc.captions.Key()))
		return mcpserver.New(svc.accessor, app.config.Plugin.Version).Serve(ctx, app.in, app.out)
	})
}

// CreateUser adds a user and prints its API token. Only the token hash is
// stored.
func CreateUser(ctx context.Context, login string, role models.Role, opts ...Option) error {
	err := validation.Errors{
		"login": validation.Validate(login, validation.Required, validation.Length(1, 60)),
		"role":  validation.Validate(string(role), validation.Required, validation.In(roleNames()...)),
	}.Filter()
	if err != nil {
		return err
	}
	return withStore(opts, func(app *application, store *metastore.Store, logger *slog.Logger) error {
		token := uuid.NewString()
		u := &models.User{Login: login, Role: role}
		if err := store.CreateUser(ctx, u, checksum.Token(token)); err != nil {
			return fmt.Errorf("create user %q: %w", login, err)
		}
		logger.Info("user created", slog.Int64("user_id", u.ID), slog.String("role", string(role)))
		_, err := fmt.Fprintf(app.out, "id=%d login=%s role=%s token=%s\n", u.ID, u.Login, u.Role, token)
		return err
	})
}

// CreatePost adds a post or page and prints its id.
func CreatePost(ctx context.Context, typ models.OwnerType, title string, authorID int64, opts ...Option) error {
	err := validation.Errors{
		"type":   validation.Validate(string(typ), validation.Required, validation.In(string(models.OwnerPost), string(models.OwnerPage))),
		"title":  validation.Validate(title, validation.Length(0, 200)),
		"author": validation.Validate(authorID, validation.Required, validation.Min(int64(1))),
	}.Filter()
	if err != nil {
		return err
	}
	return withStore(opts, func(app *application, store *metastore.Store, logger *slog.Logger) error {
		p := &models.Post{Type: typ, Title: title, AuthorID: authorID}
		if err := store.CreatePost(ctx, p); err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		logger.Info("post created", slog.Int64("post_id", p.ID), slog.String("type", string(p.Type)))
		_, err := fmt.Fprintf(app.out, "id=%d type=%s\n", p.ID, p.Type)
		return err
	})
}

// DeletePost removes a post together with its caption and other metadata.
func DeletePost(ctx context.Context, id int64, opts ...Option) error {
	if err := validation.Validate(id, validation.Required, validation.Min(int64(1))); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	return withStore(opts, func(app *application, store *metastore.Store, logger *slog.Logger) error {
		if err := store.DeletePost(ctx, id); err != nil {
			return fmt.Errorf("delete post %d: %w", id, err)
		}
		logger.Info("post deleted", slog.Int64("post_id", id))
		return nil
	})
}

func roleNames() []interface{} {
	out := make([]interface{}, 0, len(models.Roles))
	for _, r := range models.Roles {
		out = append(out, string(r))
	}
	return out
}
