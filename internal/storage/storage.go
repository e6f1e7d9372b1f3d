// Package storage stores document content in the backend selected by a document location.
package storage

import (
	"context"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/hrmsuite/hrms/internal/config"
	"github.com/hrmsuite/hrms/internal/db/models"
)

// Backend reads and writes objects addressed by key.
type Backend interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// Factory builds the Backend of a location. Backends are cheap and built per request,
// so edits to a location take effect without a restart.
type Factory struct {
	fs        afero.Fs
	localRoot string
}

// NewFactory creates a factory. fs is the filesystem local locations live on; nil means
// the operating system filesystem.
func NewFactory(cfg config.Storage, fs afero.Fs) *Factory {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &Factory{fs: fs, localRoot: cfg.LocalRoot}
}

// Open returns the backend for loc.
func (f *Factory) Open(loc *models.DocumentLocation) (Backend, error) {
	cfg := loc.Config.Data()

	switch loc.LocationType {
	case models.LocationLocal:
		root := cfg.Root
		if root == "" {
			root = f.localRoot
		}

		if root == "" {
			return nil, ErrMissingRoot
		}

		return newLocal(f.fs, root), nil
	case models.LocationWasabi, models.LocationS3:
		return newObjectStore(loc.LocationType, cfg)
	default:
		log.Warn().Str("locationType", string(loc.LocationType)).Uint64("location", loc.ID).
			Msg("document location has an unsupported type")

		return nil, ErrUnknownLocationType
	}
}

// NewObjectKey returns a fresh key for a file called name, e.g. "2024/05/<uuid>.pdf".
func NewObjectKey(name string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\ `) {
		ext = ""
	}

	return path.Join(now.UTC().Format("2006/01"), uuid.NewString()+ext)
}

// cleanKey rejects keys that are empty, absolute or climb out of the location root.
func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return "", ErrInvalidKey
	}

	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}

	return cleaned, nil
}
