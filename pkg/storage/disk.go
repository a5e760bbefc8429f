// Package storage is the file abstraction behind data backups and the
// reset-sales archive.
//
// Two drivers are available:
//   - "local": a directory on the local filesystem (default)
//   - "s3": S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
// Quick start:
//
//	disk, err := storage.Open(ctx, config.StorageDisk())
//	err = disk.Put(ctx, "backups/20260101-120000/orders.txt", data)
package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrMissing is returned by Get when path does not exist.
var ErrMissing = errors.New("storage: file does not exist")

// Disk is the driver interface. Paths are slash-separated and relative to the
// disk root.
type Disk interface {
	// Put writes content to path, creating parents as needed. An existing
	// file is replaced.
	Put(ctx context.Context, path string, content []byte) error

	// Get returns the full content of the file at path.
	Get(ctx context.Context, path string) ([]byte, error)

	Exists(ctx context.Context, path string) bool

	// Delete removes a file. Returns nil if the file did not exist.
	Delete(ctx context.Context, path string) error

	// AllFiles lists every file under directory, recursively, as paths
	// relative to the disk root in lexical order.
	AllFiles(ctx context.Context, directory string) ([]string, error)

	// URL is the public location of path, for operator output.
	URL(path string) string
}

// Open builds the named disk from configuration.
func Open(ctx context.Context, name string) (Disk, error) {
	switch name {
	case "", "local":
		return NewLocal(localConfig())
	case "s3":
		return NewS3(ctx, s3Config())
	default:
		return nil, fmt.Errorf("storage: unknown disk %q (supported: local, s3)", name)
	}
}
