package caption

import (
	"context"
	"fmt"
	"html"

	"github.com/starford/figcaption/internal/models"
)

// DefaultClass is the styling hook wrapped around displayed captions.
const DefaultClass = "cc-featured-image-caption"

// Mode selects how Render formats a caption.
type Mode int

const (
	// ModeDisplay wraps the caption in its styling container.
	ModeDisplay Mode = iota
	// ModeRaw returns the stored caption text as is.
	ModeRaw
)

// ParseMode maps a query value to a Mode. Anything but "raw" is display.
func ParseMode(s string) Mode {
	if s == "raw" {
		return ModeRaw
	}
	return ModeDisplay
}

func (m Mode) String() string {
	if m == ModeRaw {
		return "raw"
	}
	return "display"
}

// Reader is the read half of Repository.
type Reader interface {
	Get(ctx context.Context, ownerID int64) (models.Caption, error)
}

// Accessor is the read-only view of captions used by presentation code.
type Accessor struct {
	repo  Reader
	class string
}

// NewAccessor creates an accessor wrapping displayed captions in a span
// with the given class. An empty class selects DefaultClass.
func NewAccessor(repo Reader, class string) *Accessor {
	if class == "" {
		class = DefaultClass
	}
	return &Accessor{repo: repo, class: class}
}

// Render formats the caption of ownerID. ok is false when there is no
// caption, in which case the caller prints nothing.
func (a *Accessor) Render(ctx context.Context, ownerID int64, mode Mode) (string, bool, error) {
	c, err := a.repo.Get(ctx, ownerID)
	if err != nil {
		return "", false, err
	}
	if !c.Present() {
		return "", false, nil
	}
	if mode == ModeRaw {
		return c.Text, true, nil
	}
	return fmt.Sprintf(`<span class="%s">%s</span>`, html.EscapeString(a.class), c.Text), true, nil
}

// HasCaption reports whether ownerID has a caption.
func (a *Accessor) HasCaption(ctx context.Context, ownerID int64) (bool, error) {
	_, ok, err := a.Render(ctx, ownerID, ModeRaw)
	return ok, err
}
