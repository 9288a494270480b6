package storage

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"time"
)

// GenerateFileName generates a collision-resistant storage name from a
// millisecond timestamp, a random disambiguator and the original extension.
// The extension is lowercased; anything that is not a clean extension is dropped.
func GenerateFileName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if strings.ContainsAny(ext, `/\`) {
		ext = ""
	}
	return fmt.Sprintf("%d-%09d%s", time.Now().UnixMilli(), rand.Int63n(1_000_000_000), ext)
}

// sizeWriter wraps a writer and tracks the total number of bytes written
type sizeWriter struct {
	size int64
}

// Write implements io.Writer
func (sw *sizeWriter) Write(p []byte) (int, error) {
	n := len(p)
	sw.size += int64(n)
	return n, nil
}

// Size returns the total number of bytes written
func (sw *sizeWriter) Size() int64 {
	return sw.size
}

// NewSizeWriter creates a new sizeWriter instance
func NewSizeWriter() *sizeWriter {
	return &sizeWriter{}
}
