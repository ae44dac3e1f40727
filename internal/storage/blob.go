package storage

import "io"

// ArtifactStore holds exported files (charts, CSV) under stable keys.
type ArtifactStore interface {
	Put(key string, r io.Reader) (string, error) // returns where it was written
}
