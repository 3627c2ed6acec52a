// Package storage provides the object-storage seam the catalog writes
// metadata documents through. The catalog persists only metadata-location
// pointers; these implementations own the bytes behind them.
package storage

import "github.com/gear6io/glacier/pkg/errors"

// Package-specific error codes
var (
	ErrFileNotFound    = errors.MustNewCode("storage.file_not_found")
	ErrFileWriteFailed = errors.MustNewCode("storage.file_write_failed")
	ErrFileReadFailed  = errors.MustNewCode("storage.file_read_failed")
)

// FileIO writes, reads and deletes whole documents by path.
type FileIO interface {
	Write(path string, data []byte) error
	Read(path string) ([]byte, error)
	Remove(path string) error
	Exists(path string) (bool, error)
}
