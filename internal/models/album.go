package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Album represents an album document in the albums collection.
// Photos are embedded entries, ordered by association time.
type Album struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Photos    []AlbumPhoto       `bson:"photos" json:"photos"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// AlbumPhoto is the embedded photo entry inside an album. It is a narrower
// shape than the standalone Photo document and carries its own identity.
type AlbumPhoto struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	Filename     string             `bson:"filename" json:"filename"`
	OriginalName string             `bson:"originalName" json:"originalName"`
	MimeType     string             `bson:"mimeType" json:"mimeType"`
	Size         int64              `bson:"size" json:"size"`
	URL          string             `bson:"url" json:"url"`
	Title        string             `bson:"title" json:"title"`
	UploadDate   time.Time          `bson:"uploadDate" json:"uploadDate"`
}
