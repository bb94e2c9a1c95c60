package authz

import (
	"context"
	"log/slog"

	"github.com/starford/figcaption/internal/models"
)

// TokenVerifier checks anti-forgery tokens.
type TokenVerifier interface {
	Verify(token string, userID, postID int64) error
}

// Request describes one attempted caption write.
type Request struct {
	User      models.User
	OwnerID   int64
	OwnerType models.OwnerType
	Token     string
}

// Gate approves caption writes. It must be consulted before every write.
type Gate struct {
	tokens TokenVerifier
	policy Policy
	logger *slog.Logger
}

// NewGate creates a Gate.
func NewGate(tokens TokenVerifier, policy Policy, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{tokens: tokens, policy: policy, logger: logger}
}

// Authorize reports whether req may write. The token is checked first;
// the policy is only consulted for a valid token. Pages need page-edit
// capability, every other type needs post-edit capability.
func (g *Gate) Authorize(ctx context.Context, req Request) bool {
	if err := g.tokens.Verify(req.Token, req.User.ID, req.OwnerID); err != nil {
		g.logger.Debug("caption write denied",
			slog.Int64("post_id", req.OwnerID),
			slog.Int64("user_id", req.User.ID),
			slog.String("reason", err.Error()))
		return false
	}

	var (
		ok  bool
		err error
	)
	if req.OwnerType == models.OwnerPage {
		ok, err = g.policy.CanEditPage(ctx, req.User, req.OwnerID)
	} else {
		ok, err = g.policy.CanEditPost(ctx, req.User, req.OwnerID)
	}
	if err != nil {
		g.logger.Warn("capability check failed",
			slog.Int64("post_id", req.OwnerID),
			slog.Int64("user_id", req.User.ID),
			slog.String("error", err.Error()))
		return false
	}
	if !ok {
		g.logger.Debug("caption write denied",
			slog.Int64("post_id", req.OwnerID),
			slog.Int64("user_id", req.User.ID),
			slog.String("reason", "missing capability"))
	}
	return ok
}
