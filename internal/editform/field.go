// Package editform builds the caption field shown on the post edit screen
// and handles its submission.
package editform

import (
	"net/url"
	"slices"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/figcaption/internal/models"
)

// Form field names posted back by the edit screen.
const (
	FieldID        = "cc-featured-image-caption"
	TokenField     = "cc_featured_image_caption_nonce"
	OwnerTypeField = "post_type"
	Title          = "Featured Image Caption"
)

// MaxCaptionLength bounds a submitted caption, in runes.
const MaxCaptionLength = 10000

// Screens lists the post types the caption field is shown on.
var Screens = []models.OwnerType{models.OwnerPost, models.OwnerPage}

// ShownOn reports whether the caption field appears on the edit screen of typ.
func ShownOn(typ models.OwnerType) bool {
	return slices.Contains(Screens, typ)
}

// Field describes the caption input for the host to render.
type Field struct {
	OwnerID    int64  `json:"post_id"`
	ID         string `json:"field_id"`
	Title      string `json:"title"`
	Value      string `json:"value"`
	TokenField string `json:"token_field"`
	Token      string `json:"token"`
}

// Submission is what the edit screen posts back.
type Submission struct {
	Caption   string
	Token     string
	OwnerType models.OwnerType
}

// ParseSubmission reads a Submission from posted form values. A missing
// caption field reads as empty, which clears the caption.
func ParseSubmission(form url.Values) Submission {
	return Submission{
		Caption:   form.Get(FieldID),
		Token:     form.Get(TokenField),
		OwnerType: models.OwnerType(form.Get(OwnerTypeField)),
	}
}

// Validate checks the submission shape.
func (s Submission) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Caption, validation.By(maxRunes(MaxCaptionLength))),
		validation.Field(&s.OwnerType, validation.Length(0, 20)),
	)
}

func maxRunes(n int) validation.RuleFunc {
	return func(value any) error {
		if s, _ := value.(string); utf8.RuneCountInString(s) > n {
			return validation.NewError("validation_too_long", "caption is too long")
		}
		return nil
	}
}
