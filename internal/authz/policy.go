// Package authz decides whether a user may change a post's caption.
package authz

import (
	"context"
	"errors"

	"github.com/starford/figcaption/internal/apperr"
	"github.com/starford/figcaption/internal/metastore"
	"github.com/starford/figcaption/internal/models"
)

// Policy answers capability questions about a user and a target entity.
type Policy interface {
	CanEditPost(ctx context.Context, user models.User, postID int64) (bool, error)
	CanEditPage(ctx context.Context, user models.User, pageID int64) (bool, error)
}

// RolePolicy grants edit capabilities from the user's role and the
// post's authorship:
//   - administrator, editor: any existing post or page
//   - author, contributor: their own posts, never pages
//   - everyone else: nothing
type RolePolicy struct {
	posts metastore.PostStore
}

// NewRolePolicy creates a RolePolicy looking posts up in posts.
func NewRolePolicy(posts metastore.PostStore) *RolePolicy {
	return &RolePolicy{posts: posts}
}

// CanEditPost implements Policy.
func (p *RolePolicy) CanEditPost(ctx context.Context, user models.User, postID int64) (bool, error) {
	post, ok, err := p.lookup(ctx, user, postID)
	if !ok || err != nil {
		return false, err
	}
	switch user.Role {
	case models.RoleAdministrator, models.RoleEditor:
		return true, nil
	case models.RoleAuthor, models.RoleContributor:
		return !post.IsPage() && post.AuthorID == user.ID, nil
	}
	return false, nil
}

// CanEditPage implements Policy.
func (p *RolePolicy) CanEditPage(ctx context.Context, user models.User, pageID int64) (bool, error) {
	if _, ok, err := p.lookup(ctx, user, pageID); !ok || err != nil {
		return false, err
	}
	return user.Role == models.RoleAdministrator || user.Role == models.RoleEditor, nil
}

func (p *RolePolicy) lookup(ctx context.Context, user models.User, id int64) (*models.Post, bool, error) {
	if user.IsAnonymous() || id <= 0 {
		return nil, false, nil
	}
	post, err := p.posts.Post(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return post, true, nil
}
