package api

import "github.com/starford/figcaption/internal/editform"

// CaptionResponse is the stored caption of a post.
type CaptionResponse struct {
	PostID  int64  `json:"post_id" example:"42" validate:"required"`
	Caption string `json:"caption" example:"A sunset."`
	Present bool   `json:"present" example:"true"`
}

// RawCaptionResponse carries the raw caption text, or false when there is
// none.
type RawCaptionResponse struct {
	Caption any `json:"caption" example:"A sunset."`
}

// SaveResponse is returned by the save handler whether or not the write
// was allowed.
type SaveResponse struct {
	PostID int64 `json:"post_id" example:"42" validate:"required"`
}

// FieldResponse is the caption form field descriptor.
type FieldResponse = editform.Field
