package media

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/helper/chroot"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// FileScheme is an optional location prefix for local files.
const FileScheme = "file://"

// ErrOutsideRoot is returned for locations that escape the reader root.
var ErrOutsideRoot = errors.New("location escapes media root")

// Reader reads media locations from a billy filesystem. It satisfies
// field.Reader.
type Reader struct {
	fs     billy.Filesystem
	logger *slog.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithLogger sets the logger used for read traces.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewReader wraps fs.
func NewReader(fs billy.Filesystem, opts ...Option) *Reader {
	r := &Reader{fs: fs, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// NewLocalReader reads from the directory root on the local disk.
func NewLocalReader(root string, opts ...Option) (*Reader, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("media root: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("media root %s is not a directory", root)
	}

	return NewReader(osfs.New(root, osfs.WithBoundOS()), opts...), nil
}

// NewMemReader returns a reader over an empty in-memory filesystem,
// to be populated through Filesystem.
func NewMemReader(opts ...Option) *Reader {
	return NewReader(memfs.New(), opts...)
}

// Filesystem returns the underlying filesystem.
func (r *Reader) Filesystem() billy.Filesystem { return r.fs }

// Sub returns a reader rooted at dir.
func (r *Reader) Sub(dir string) (*Reader, error) {
	clean, err := cleanLocation(dir)
	if err != nil {
		return nil, err
	}

	return &Reader{fs: chroot.New(r.fs, clean), logger: r.logger}, nil
}

// Read returns the content stored at location.
func (r *Reader) Read(location string) ([]byte, error) {
	clean, err := cleanLocation(location)
	if err != nil {
		return nil, err
	}

	data, err := util.ReadFile(r.fs, clean)
	if err != nil {
		return nil, fmt.Errorf("media %s: %w", location, err)
	}

	r.logger.Debug("read media", "location", clean, "bytes", len(data))

	return data, nil
}

// Write stores data at location, creating parent directories.
func (r *Reader) Write(location string, data []byte) error {
	clean, err := cleanLocation(location)
	if err != nil {
		return err
	}

	if dir := path.Dir(clean); dir != "." {
		if err := r.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("media %s: %w", location, err)
		}
	}

	if err := util.WriteFile(r.fs, clean, data, 0o644); err != nil {
		return fmt.Errorf("media %s: %w", location, err)
	}

	return nil
}

func cleanLocation(location string) (string, error) {
	loc := strings.ReplaceAll(strings.TrimPrefix(location, FileScheme), "\\", "/")
	loc = path.Clean(loc)

	if loc == ".." || strings.HasPrefix(loc, "../") {
		return "", fmt.Errorf("%s: %w", location, ErrOutsideRoot)
	}

	return strings.TrimPrefix(loc, "/"), nil
}
