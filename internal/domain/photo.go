package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// PhotoExt is the only extension the capture firmware writes.
const PhotoExt = ".jpg"

type Photo struct {
	Path    string
	Name    string
	Session string
	Size    int64
	TakenAt time.Time
	// FromExif is false when TakenAt fell back to the file modification time.
	FromExif bool
}

func NewPhoto(path string, size int64, takenAt time.Time, fromExif bool) Photo {
	return Photo{
		Path:     path,
		Name:     filepath.Base(path),
		Session:  filepath.Base(filepath.Dir(path)),
		Size:     size,
		TakenAt:  takenAt,
		FromExif: fromExif,
	}
}

// IsPhotoName reports whether name is a photo file. Only the lowercase .jpg
// extension counts; other files in a session directory are left alone.
func IsPhotoName(name string) bool {
	return strings.HasSuffix(name, PhotoExt) && len(name) > len(PhotoExt)
}
