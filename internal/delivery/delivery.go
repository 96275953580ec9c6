package delivery

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const defaultOutputDir = "barcodes"

// Deliverer hands downloaded bytes to the user under a suggested file name.
type Deliverer interface {
	Deliver(ctx context.Context, filename string, data []byte) (string, error)
}

var _ Deliverer = (*FileDeliverer)(nil)

// FileDeliverer writes artifacts into a directory.
type FileDeliverer struct {
	fs  afero.Fs
	dir string
}

func NewFileDeliverer(dir string) (*FileDeliverer, error) {
	return NewFileDelivererWithFs(afero.NewOsFs(), dir)
}

func NewFileDelivererWithFs(fs afero.Fs, dir string) (*FileDeliverer, error) {
	if fs == nil {
		return nil, fmt.Errorf("filesystem is required")
	}

	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = defaultOutputDir
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir %q: %w", dir, err)
	}

	return &FileDeliverer{fs: fs, dir: dir}, nil
}

// Deliver writes data to <dir>/<base of filename> and returns the written path.
// An existing file with the same name is overwritten.
func (d *FileDeliverer) Deliver(ctx context.Context, filename string, data []byte) (string, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return "", err
		}
	}

	name := filepath.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("invalid file name %q", filename)
	}

	path := filepath.Join(d.dir, name)
	if err := afero.WriteFile(d.fs, path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %q: %w", path, err)
	}

	return path, nil
}

func (d *FileDeliverer) Dir() string { return d.dir }
