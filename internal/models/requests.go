package models

// CreateAlbumRequest is the body of POST /api/albums.
type CreateAlbumRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// RenameAlbumRequest is the body of PUT /api/albums/{id}.
type RenameAlbumRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// AddPhotoRequest is the body of POST /api/albums/{id}/add.
type AddPhotoRequest struct {
	PhotoID string `json:"photoId" validate:"required"`
}

// UpdatePhotoRequest is the body of PUT /api/photos/{id}.
// Only title, description and tags are mutable through this path; nil fields
// are left untouched.
type UpdatePhotoRequest struct {
	Title       *string   `json:"title" validate:"omitempty,max=200"`
	Description *string   `json:"description" validate:"omitempty,max=2000"`
	Tags        *[]string `json:"tags" validate:"omitempty,dive,min=1,max=50"`
}
