package post

// CreatePostRequest represents the create-post request body. All fields are
// required; the author display name travels in the body but the owning
// identity always comes from the verified token.
type CreatePostRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
	Author  string `json:"author" validate:"required"`
}

// UpdatePostRequest represents the update-post request body.
type UpdatePostRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
	Author  string `json:"author" validate:"required"`
}

// PostParams carries the validated fields into the repository layer.
type PostParams struct {
	Title   string
	Content string
	Author  string
}
