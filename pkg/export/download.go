package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrInvalidFilename indicates a filename that is empty after cleaning or escapes its directory.
	ErrInvalidFilename = errors.New("invalid export filename")
)

// FileSaver persists bytes under a filename. Implementations decide where
// the bytes land: a local directory, blob storage, or an HTTP response.
type FileSaver interface {
	Save(ctx context.Context, data []byte, filename string) error
}

// SaverFunc adapts a function to the FileSaver interface.
type SaverFunc func(ctx context.Context, data []byte, filename string) error

func (f SaverFunc) Save(ctx context.Context, data []byte, filename string) error {
	return f(ctx, data, filename)
}

// Download encodes v as pretty JSON and hands it to saver under filename,
// defaulting to DefaultFilename. It returns the number of bytes saved.
func Download(ctx context.Context, saver FileSaver, v any, filename string) (int, error) {
	if filename == "" {
		filename = DefaultFilename
	}

	data, err := MarshalIndent(v)
	if err != nil {
		return 0, err
	}

	if err := saver.Save(ctx, data, filename); err != nil {
		return 0, fmt.Errorf("save %s: %w", filename, err)
	}

	return len(data), nil
}

// CleanFilename reduces name to a single path element ending in .json.
func CleanFilename(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultFilename, nil
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", ErrInvalidFilename
	}
	if !strings.EqualFold(filepath.Ext(name), ".json") {
		name += ".json"
	}
	return name, nil
}

// DirSaver writes files into a local directory.
type DirSaver struct {
	Dir  string
	Perm os.FileMode
}

// NewDirSaver creates a DirSaver rooted at dir with 0644 file permissions.
func NewDirSaver(dir string) *DirSaver {
	return &DirSaver{Dir: dir, Perm: 0644}
}

func (d *DirSaver) Save(ctx context.Context, data []byte, filename string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name, err := CleanFilename(filename)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	return os.WriteFile(filepath.Join(d.Dir, name), data, d.Perm)
}

// Path returns the location Save writes filename to.
func (d *DirSaver) Path(filename string) string {
	name, err := CleanFilename(filename)
	if err != nil {
		return ""
	}
	return filepath.Join(d.Dir, name)
}
