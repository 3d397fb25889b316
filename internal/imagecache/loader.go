package imagecache

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"path"

	"github.com/vovakirdan/photo-quiz/internal/core"
)

// Loader resolves an image key to a decoded image.
type Loader interface {
	Load(ctx context.Context, key string) (Image, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, key string) (Image, error)

func (f LoaderFunc) Load(ctx context.Context, key string) (Image, error) {
	return f(ctx, key)
}

// extensions tried after the bare key.
var extensions = []string{".png", ".jpg", ".jpeg"}

// FSLoader decodes images from a file system. A key is tried as given and
// then with each known extension.
type FSLoader struct {
	FS fs.FS
}

// NewFSLoader creates a loader reading from fsys.
func NewFSLoader(fsys fs.FS) *FSLoader {
	return &FSLoader{FS: fsys}
}

// Load finds and decodes the asset for key.
// A key with no matching file returns core.ErrNotFound.
func (l *FSLoader) Load(ctx context.Context, key string) (Image, error) {
	if err := ctx.Err(); err != nil {
		return Image{}, err
	}
	if l.FS == nil {
		return Image{}, fmt.Errorf("imagecache: no asset directory for %q: %w", key, core.ErrNotFound)
	}

	for _, name := range candidates(key) {
		f, err := l.FS.Open(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Image{}, fmt.Errorf("imagecache: cannot open %s: %w", name, err)
		}

		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			return Image{}, fmt.Errorf("imagecache: cannot decode %s: %w", name, err)
		}
		return Image{Key: key, Img: img}, nil
	}
	return Image{}, fmt.Errorf("imagecache: no asset for %q: %w", key, core.ErrNotFound)
}

func candidates(key string) []string {
	clean := path.Clean(key)
	if !fs.ValidPath(clean) {
		return nil
	}
	out := []string{clean}
	if path.Ext(clean) == "" {
		for _, ext := range extensions {
			out = append(out, clean+ext)
		}
	}
	return out
}
