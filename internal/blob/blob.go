// Package blob stores gallery binaries and resolves them to public URLs.
// Deleting a gallery record triggers a best-effort delete of its blob:
// only URLs the store recognizes as its own are touched, and a failed
// delete never blocks removal of the record (orphaned blobs are
// tolerated).
package blob

import (
	"context"
	"errors"
	"io"
)

var (
	ErrNotOwned = errors.New("blob: url not owned by this store")
	ErrNotFound = errors.New("blob: not found")
)

type Store interface {
	// Upload persists the content and returns its public URL.
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)

	// Owns reports whether url points into this store.
	Owns(url string) bool

	// Delete removes the blob behind url. ErrNotOwned when the url is
	// foreign; callers skip the delete entirely in that case.
	Delete(ctx context.Context, url string) error
}
