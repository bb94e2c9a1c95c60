// Package theme exposes captions to presentation templates. It resolves the
// post being rendered from the template's context value once and hands the
// explicit post id to the caption accessor.
package theme

import (
	"context"
	"errors"
	"html/template"

	"github.com/starford/figcaption/internal/caption"
	"github.com/starford/figcaption/internal/metrics"
	"github.com/starford/figcaption/internal/models"
)

// ErrNoCurrentPost is returned when a caption function runs outside a post
// context.
var ErrNoCurrentPost = errors.New("theme: caption function called outside a post context")

// CurrentPost is implemented by render-context values that know which post
// is being rendered.
type CurrentPost interface {
	CurrentPostID() (int64, bool)
}

// Loop is the render context of a single post.
type Loop struct {
	Post *models.Post
}

// CurrentPostID implements CurrentPost.
func (l Loop) CurrentPostID() (int64, bool) {
	if l.Post == nil || l.Post.ID <= 0 {
		return 0, false
	}
	return l.Post.ID, true
}

// Functions builds the caption template functions.
type Functions struct {
	acc     *caption.Accessor
	metrics *metrics.Registry
}

// NewFunctions creates the template function set. m may be nil.
func NewFunctions(acc *caption.Accessor, m *metrics.Registry) *Functions {
	return &Functions{acc: acc, metrics: m}
}

// FuncMap returns the template functions bound to ctx:
//
//	featured_image_caption       wrapped caption markup, or nothing
//	featured_image_caption_text  caption text, or false
//	has_featured_image_caption   whether a caption is set
//
// Each takes the template's context value, usually ".".
func (f *Functions) FuncMap(ctx context.Context) template.FuncMap {
	return template.FuncMap{
		"featured_image_caption": func(cur any) (template.HTML, error) {
			out, ok, err := f.render(ctx, cur, caption.ModeDisplay)
			if err != nil || !ok {
				return "", err
			}
			// Stored captions are sanitized on write.
			return template.HTML(out), nil
		},
		"featured_image_caption_text": func(cur any) (any, error) {
			out, ok, err := f.render(ctx, cur, caption.ModeRaw)
			if err != nil {
				return nil, err
			}
			if !ok {
				return false, nil
			}
			return out, nil
		},
		"has_featured_image_caption": func(cur any) (bool, error) {
			id, err := resolve(cur)
			if err != nil {
				return false, err
			}
			return f.acc.HasCaption(ctx, id)
		},
	}
}

func (f *Functions) render(ctx context.Context, cur any, mode caption.Mode) (string, bool, error) {
	id, err := resolve(cur)
	if err != nil {
		return "", false, err
	}
	out, ok, err := f.acc.Render(ctx, id, mode)
	if err == nil {
		f.metrics.Render(mode.String(), ok)
	}
	return out, ok, err
}

func resolve(cur any) (int64, error) {
	cp, ok := cur.(CurrentPost)
	if !ok {
		return 0, ErrNoCurrentPost
	}
	id, ok := cp.CurrentPostID()
	if !ok {
		return 0, ErrNoCurrentPost
	}
	return id, nil
}
