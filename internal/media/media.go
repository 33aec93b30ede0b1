// Package media provides the image sources used to attach photos to products
// and the camera permission check.
package media

import (
	"context"
	"errors"
	"net/url"
	"path/filepath"
	"strings"
)

var (
	// ErrCancelled means the user picked nothing.
	ErrCancelled = errors.New("no images picked")
	// ErrDenied means the source is not available to this user.
	ErrDenied = errors.New("image source denied")
)

// Kind selects an image source.
type Kind int

const (
	KindLibrary Kind = iota
	KindCamera
)

func (k Kind) String() string {
	if k == KindCamera {
		return "camera"
	}
	return "library"
}

// Request describes one pick.
type Request struct {
	Kind Kind
	// Multiple allows more than one image to be returned.
	Multiple bool
	// Query is what the user typed for library picks: paths, directories or
	// glob patterns separated by whitespace.
	Query string
}

// Source returns image references for a request. Picking nothing yields
// ErrCancelled; an unavailable source yields ErrDenied.
type Source interface {
	Pick(ctx context.Context, req Request) ([]string, error)
}

// Permission answers whether the camera may be used.
type Permission interface {
	Camera(ctx context.Context) (bool, error)
}

// Sources routes a request to the source for its kind.
type Sources struct {
	Library Source
	Camera  Source
}

// Pick implements Source.
func (s Sources) Pick(ctx context.Context, req Request) ([]string, error) {
	src := s.Library
	if req.Kind == KindCamera {
		src = s.Camera
	}
	if src == nil {
		return nil, ErrDenied
	}
	return src.Pick(ctx, req)
}

// URI returns the file:// reference for an absolute path.
func URI(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

// Path returns the local path behind ref. Refs without a scheme are treated
// as paths. ok is false for any other scheme.
func Path(ref string) (string, bool) {
	if ref == "" {
		return "", false
	}
	if !strings.Contains(ref, "://") {
		return ref, true
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "file" || u.Path == "" {
		return "", false
	}
	return filepath.FromSlash(u.Path), true
}

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	".heic": true, ".heif": true, ".bmp": true, ".tif": true, ".tiff": true,
}

// IsImage reports whether path has a known image extension.
func IsImage(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
}
