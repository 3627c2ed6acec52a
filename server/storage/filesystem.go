package storage

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gear6io/glacier/pkg/errors"
)

// FilesystemIO implements FileIO on the local filesystem. A "file://"
// scheme on incoming paths is accepted and stripped.
type FilesystemIO struct{}

var _ FileIO = (*FilesystemIO)(nil)

// NewFilesystemIO creates a local-disk FileIO.
func NewFilesystemIO() *FilesystemIO {
	return &FilesystemIO{}
}

func localPath(path string) string {
	return strings.TrimPrefix(path, "file://")
}

func (f *FilesystemIO) Write(path string, data []byte) error {
	p := localPath(path)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return errors.New(ErrFileWriteFailed, "failed to create parent directory", err).
			AddContext("path", path)
	}
	if err := os.WriteFile(p, data, 0644); err != nil {
		return errors.New(ErrFileWriteFailed, "failed to write file", err).
			AddContext("path", path)
	}
	return nil
}

func (f *FilesystemIO) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(localPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(ErrFileNotFound, "file not found", err).AddContext("path", path)
		}
		return nil, errors.New(ErrFileReadFailed, "failed to read file", err).AddContext("path", path)
	}
	return data, nil
}

func (f *FilesystemIO) Remove(path string) error {
	if err := os.Remove(localPath(path)); err != nil {
		if os.IsNotExist(err) {
			return errors.New(ErrFileNotFound, "file not found", err).AddContext("path", path)
		}
		return errors.New(ErrFileWriteFailed, "failed to remove file", err).AddContext("path", path)
	}
	return nil
}

func (f *FilesystemIO) Exists(path string) (bool, error) {
	_, err := os.Stat(localPath(path))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.New(ErrFileReadFailed, "failed to stat file", err).AddContext("path", path)
	}
	return true, nil
}
