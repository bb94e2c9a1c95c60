package editform

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starford/figcaption/internal/authz"
	"github.com/starford/figcaption/internal/metrics"
	"github.com/starford/figcaption/internal/models"
)

// Store is the caption repository as seen by the edit form.
type Store interface {
	Get(ctx context.Context, ownerID int64) (models.Caption, error)
	Set(ctx context.Context, ownerID int64, raw string) error
}

// Authorizer approves writes.
type Authorizer interface {
	Authorize(ctx context.Context, req authz.Request) bool
}

// TokenIssuer mints anti-forgery tokens for a form instance.
type TokenIssuer interface {
	Issue(userID, postID int64) (string, error)
}

// Service serves the caption field and saves its submissions.
type Service struct {
	store   Store
	gate    Authorizer
	tokens  TokenIssuer
	metrics *metrics.Registry
	logger  *slog.Logger
}

// NewService creates an edit form service. m may be nil.
func NewService(store Store, gate Authorizer, tokens TokenIssuer, m *metrics.Registry, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, gate: gate, tokens: tokens, metrics: m, logger: logger}
}

// Field returns the caption field for user editing ownerID, bound to a
// fresh anti-forgery token.
func (s *Service) Field(ctx context.Context, user models.User, ownerID int64) (Field, error) {
	c, err := s.store.Get(ctx, ownerID)
	if err != nil {
		return Field{}, err
	}
	token, err := s.tokens.Issue(user.ID, ownerID)
	if err != nil {
		return Field{}, fmt.Errorf("editform: issue token: %w", err)
	}
	return Field{
		OwnerID:    ownerID,
		ID:         FieldID,
		Title:      Title,
		Value:      c.Text,
		TokenField: TokenField,
		Token:      token,
	}, nil
}

// Save stores the submitted caption for ownerID and returns ownerID.
// Rejected submissions are dropped without an error; only a failed write
// is reported.
func (s *Service) Save(ctx context.Context, user models.User, ownerID int64, sub Submission) (int64, error) {
	if err := sub.Validate(); err != nil {
		s.logger.Debug("caption submission rejected",
			slog.Int64("post_id", ownerID),
			slog.String("error", err.Error()))
		s.metrics.Save(metrics.SaveDenied)
		return ownerID, nil
	}

	if !s.gate.Authorize(ctx, authz.Request{
		User:      user,
		OwnerID:   ownerID,
		OwnerType: sub.OwnerType,
		Token:     sub.Token,
	}) {
		s.metrics.Save(metrics.SaveDenied)
		return ownerID, nil
	}

	if err := s.store.Set(ctx, ownerID, sub.Caption); err != nil {
		s.metrics.Save(metrics.SaveFailed)
		return ownerID, err
	}

	s.metrics.Save(metrics.SaveStored)
	s.logger.Info("caption saved",
		slog.Int64("post_id", ownerID),
		slog.Int64("user_id", user.ID))
	return ownerID, nil
}
