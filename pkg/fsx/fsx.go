// Package fsx abstracts file storage behind a small interface so the
// service can run against local disk in development and S3 in production.
package fsx

import "context"

// FileSystem is the minimal storage surface the application needs.
type FileSystem interface {
	// Write stores data under path, creating or replacing it.
	Write(ctx context.Context, path string, data []byte) error

	// Read returns the full contents stored under path.
	Read(ctx context.Context, path string) ([]byte, error)

	// Exists reports whether path holds an object.
	Exists(ctx context.Context, path string) (bool, error)

	// Delete removes the object under path. Deleting a missing path is
	// not an error.
	Delete(ctx context.Context, path string) error
}
