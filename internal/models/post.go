// Package models defines the domain types for figcaption.
package models

// OwnerType is the post type a caption belongs to.
type OwnerType string

const (
	OwnerPost OwnerType = "post"
	OwnerPage OwnerType = "page"
)

// Post is the host content entity a caption is attached to.
type Post struct {
	ID       int64     `db:"id" json:"id"`
	Type     OwnerType `db:"type" json:"type"`
	Title    string    `db:"title" json:"title"`
	AuthorID int64     `db:"author_id" json:"author_id"`
}

// IsPage reports whether the post is a page.
func (p Post) IsPage() bool {
	return p.Type == OwnerPage
}
