package models

// Caption is the featured image caption of a single post or page.
// An empty Text means no caption; there is no separate empty state.
type Caption struct {
	OwnerID int64  `json:"post_id"`
	Text    string `json:"caption"`
}

// Present reports whether a caption value exists. "0" is a caption.
func (c Caption) Present() bool {
	return c.Text != ""
}
