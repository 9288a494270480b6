package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"

	"github.com/photogallery/backend/internal/models"
	"github.com/photogallery/backend/internal/storage"
	"go.uber.org/zap"
)

const (
	// MaxUploadFiles caps the number of files accepted per upload request
	MaxUploadFiles = 10
	// MaxFileSize caps a single uploaded file at 5 MiB
	MaxFileSize = 5 << 20
)

// allowedMimeTypes is the image allow-list for uploads
var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Storage defines the interface for file store operations
type Storage interface {
	// Create creates a new file and returns a WriteCloser
	Create(filename string) (io.WriteCloser, error)

	// Open opens a file for reading and returns a ReadCloser
	Open(filename string) (io.ReadCloser, error)

	// OpenFile opens a file and returns *os.File for use with http.ServeContent
	OpenFile(filename string) (*os.File, error)

	// Delete removes a file
	Delete(filename string) error
}

// Uploader validates multipart files and writes accepted ones to the file
// store, producing descriptors for the metadata services.
type Uploader struct {
	storage Storage
	logger  *zap.Logger
}

// NewUploader creates a new uploader
func NewUploader(storage Storage, logger *zap.Logger) *Uploader {
	return &Uploader{storage: storage, logger: logger}
}

// SaveAll validates every file before any disk write, then stores the files in
// arrival order. It returns one descriptor per stored file together with a
// rollback recorder holding a delete action per written file; callers must Run
// the rollback if any later step of the request fails.
func (u *Uploader) SaveAll(ctx context.Context, files []*multipart.FileHeader) ([]models.FileDescriptor, *Rollback, error) {
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("%w: no files uploaded", models.ErrValidation)
	}
	if len(files) > MaxUploadFiles {
		return nil, nil, fmt.Errorf("%w: too many files (%d), maximum is %d per request",
			models.ErrValidation, len(files), MaxUploadFiles)
	}

	// Validate the whole batch before anything touches the disk
	for _, fh := range files {
		contentType := fh.Header.Get("Content-Type")
		if !allowedMimeTypes[contentType] {
			return nil, nil, fmt.Errorf("%w: file %q has unsupported type %q, only JPEG, PNG, GIF and WEBP are allowed",
				models.ErrValidation, fh.Filename, contentType)
		}
		if fh.Size > MaxFileSize {
			return nil, nil, fmt.Errorf("%w: file %q exceeds the %d MiB size limit",
				models.ErrValidation, fh.Filename, MaxFileSize>>20)
		}
	}

	rb := NewRollback(u.logger)
	descriptors := make([]models.FileDescriptor, 0, len(files))

	for _, fh := range files {
		// Stop writing as soon as the client goes away; the rollback removes
		// everything written so far
		if err := ctx.Err(); err != nil {
			rb.Run()
			return nil, nil, fmt.Errorf("upload canceled: %w", err)
		}

		desc, err := u.saveOne(fh)
		if err != nil {
			rb.Run()
			return nil, nil, err
		}

		filename := desc.Filename
		rb.Add("delete file "+filename, func() error {
			return u.storage.Delete(filename)
		})
		descriptors = append(descriptors, desc)
	}

	return descriptors, rb, nil
}

// saveOne writes a single file under a generated name. A partial file left by
// a failed copy is removed before returning.
func (u *Uploader) saveOne(fh *multipart.FileHeader) (models.FileDescriptor, error) {
	src, err := fh.Open()
	if err != nil {
		return models.FileDescriptor{}, fmt.Errorf("failed to open uploaded file %q: %w", fh.Filename, err)
	}
	defer src.Close()

	filename := storage.GenerateFileName(fh.Filename)

	dst, err := u.storage.Create(filename)
	if err != nil {
		return models.FileDescriptor{}, fmt.Errorf("failed to create file in store: %w", err)
	}

	sizeWriter := storage.NewSizeWriter()
	// LimitReader guards the ceiling against a declared size the body does not honor
	_, err = io.Copy(dst, io.TeeReader(io.LimitReader(src, MaxFileSize+1), sizeWriter))
	closeErr := dst.Close()

	if err == nil && closeErr != nil {
		err = closeErr
	}
	if err == nil && sizeWriter.Size() > MaxFileSize {
		err = fmt.Errorf("%w: file %q exceeds the %d MiB size limit",
			models.ErrValidation, fh.Filename, MaxFileSize>>20)
	}
	if err != nil {
		if delErr := u.storage.Delete(filename); delErr != nil {
			u.logger.Error("failed to delete partial file",
				zap.String("filename", filename),
				zap.Error(delErr),
			)
		}
		if errors.Is(err, models.ErrValidation) {
			return models.FileDescriptor{}, err
		}
		return models.FileDescriptor{}, fmt.Errorf("failed to write file %q: %w", fh.Filename, err)
	}

	return models.FileDescriptor{
		Filename:     filename,
		OriginalName: fh.Filename,
		MimeType:     fh.Header.Get("Content-Type"),
		Size:         sizeWriter.Size(),
	}, nil
}
