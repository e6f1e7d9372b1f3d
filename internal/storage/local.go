package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path"

	"github.com/spf13/afero"
)

const (
	dirPerm  = 0o750
	filePerm = 0o640
)

// Local stores objects as files below a root directory.
type Local struct {
	fs afero.Fs
}

func newLocal(fs afero.Fs, root string) *Local {
	return &Local{fs: afero.NewBasePathFs(fs, root)}
}

// Put writes r to key, replacing an existing file.
func (l *Local) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}

	if err := l.fs.MkdirAll(path.Dir("/"+key), dirPerm); err != nil {
		return err
	}

	f, err := l.fs.OpenFile("/"+key, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = l.fs.Remove("/" + key)

		return err
	}

	return f.Close()
}

// Get opens key for reading.
func (l *Local) Get(_ context.Context, key string) (io.ReadCloser, error) {
	key, err := cleanKey(key)
	if err != nil {
		return nil, err
	}

	f, err := l.fs.Open("/" + key)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrObjectNotFound
	}

	if err != nil {
		return nil, err
	}

	return f, nil
}

// Delete removes key. Missing files are not an error.
func (l *Local) Delete(_ context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}

	if err := l.fs.Remove("/" + key); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return nil
}
