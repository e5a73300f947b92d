// Package media classifies uploaded filenames into hosting categories and
// carries the per-category retention policy.
package media

import (
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Category identifies the kind of media a file belongs to. It determines the
// storage directory, the allowed extensions and the default retention.
type Category string

const (
	Audio Category = "audio"
	Image Category = "image"
)

const (
	defaultAudioRetention = 12 * time.Hour
	defaultImageRetention = 20 * time.Minute
)

// audioTypes maps supported audio extensions to their MIME types.
var audioTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".flac": "audio/flac",
	".aac":  "audio/aac",
	".ogg":  "audio/ogg",
	".m4a":  "audio/mp4",
	".wma":  "audio/x-ms-wma",
}

// imageTypes maps supported image extensions to their MIME types.
var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".tiff": "image/tiff",
	".ico":  "image/x-icon",
}

// Classification is the result of classifying a filename.
type Classification struct {
	Category Category
	MIME     string
	Ext      string // lowercased, including the leading dot
}

// UnsupportedMediaTypeError is returned when a filename's extension is not in
// any allow-list.
type UnsupportedMediaTypeError struct {
	Filename string
}

func (e UnsupportedMediaTypeError) Error() string {
	return "unsupported media type"
}

// Classify derives the lowercased extension of filename and matches it against
// the audio and image allow-lists. It has no side effects.
func Classify(filename string) (Classification, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	if mime, ok := audioTypes[ext]; ok {
		return Classification{Category: Audio, MIME: mime, Ext: ext}, nil
	}
	if mime, ok := imageTypes[ext]; ok {
		return Classification{Category: Image, MIME: mime, Ext: ext}, nil
	}

	return Classification{}, UnsupportedMediaTypeError{Filename: filename}
}

// DefaultRetention returns the built-in time-to-live for the category.
func (c Category) DefaultRetention() time.Duration {
	if c == Image {
		return defaultImageRetention
	}
	return defaultAudioRetention
}

// PublicPrefix returns the URL path prefix under which blobs of this category
// are served.
func (c Category) PublicPrefix() string {
	if c == Image {
		return "images"
	}
	return "static/audio"
}

// StorageSubdir returns the on-disk directory name for the category,
// relative to the storage root.
func (c Category) StorageSubdir() string {
	if c == Image {
		return "image_storage"
	}
	return "audio_storage"
}

// AllowedExtensions returns the supported extensions for the category without
// leading dots, sorted for stable error messages.
func (c Category) AllowedExtensions() []string {
	source := audioTypes
	if c == Image {
		source = imageTypes
	}

	exts := make([]string, 0, len(source))
	for ext := range source {
		exts = append(exts, strings.TrimPrefix(ext, "."))
	}
	sort.Strings(exts)
	return exts
}
