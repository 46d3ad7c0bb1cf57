package types

import "time"

// Post represents a blog post. Author is the display name supplied at
// creation time; AuthorID is the verified identity of the creator and is
// what ownership checks run against.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
