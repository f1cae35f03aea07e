package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/xid"

	"github.com/devraider/dataroom/internal/core"
)

// LocalStore keeps blobs on the local filesystem under a base directory,
// one subdirectory per workspace. Blob names are random ids, so the original
// file name never touches the filesystem.
type LocalStore struct {
	base string
}

func NewLocalStore(base string) (*LocalStore, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("resolving storage path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &LocalStore{base: abs}, nil
}

func (s *LocalStore) Save(workspaceID int64, name string, r io.Reader) (string, int64, error) {
	dir := filepath.Join(s.base, fmt.Sprintf("ws-%d", workspaceID))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", 0, fmt.Errorf("creating workspace directory: %w", err)
	}

	blobName := xid.New().String()
	if ext := filepath.Ext(filepath.Base(name)); ext != "" {
		blobName += ext
	}
	rel := filepath.Join(fmt.Sprintf("ws-%d", workspaceID), blobName)

	f, err := os.OpenFile(filepath.Join(s.base, rel), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", 0, fmt.Errorf("creating blob: %w", err)
	}

	size, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", 0, fmt.Errorf("writing blob: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", 0, fmt.Errorf("closing blob: %w", err)
	}
	return rel, size, nil
}

func (s *LocalStore) Open(path string) (io.ReadCloser, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if os.IsNotExist(err) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("opening blob: %w", err)
	}
	return f, nil
}

func (s *LocalStore) Remove(path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing blob: %w", err)
	}
	return nil
}

// resolve rejects paths that would escape the base directory.
func (s *LocalStore) resolve(path string) (string, error) {
	full := filepath.Join(s.base, filepath.Clean(path))
	if !strings.HasPrefix(full, s.base+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid blob path %q", path)
	}
	return full, nil
}

// compile-time interface check
var _ core.BlobStore = (*LocalStore)(nil)
