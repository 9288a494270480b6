package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Photo represents a standalone photo document in the photos collection.
type Photo struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Filename     string             `bson:"filename" json:"filename"`
	OriginalName string             `bson:"originalName" json:"originalName"`
	MimeType     string             `bson:"mimeType" json:"mimeType"`
	Size         int64              `bson:"size" json:"size"`
	URL          string             `bson:"url" json:"url"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	Tags         []string           `bson:"tags" json:"tags"`
	Favorite     bool               `bson:"favorite" json:"favorite"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FileDescriptor describes one accepted file produced by the upload processor.
// It carries everything downstream services need to build metadata documents.
type FileDescriptor struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	MimeType     string `json:"mimeType"`
	Size         int64  `json:"size"`
}
