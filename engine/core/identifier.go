package core

import (
	"path/filepath"

	"github.com/google/uuid"
)

// assetNamespace seeds the name-based ids handed out for asset paths.
var assetNamespace = uuid.MustParse("6f1c9a52-3c1e-4b7a-9d43-2a0f7f1d8e11")

// NewID returns a fresh random identifier for resources created at runtime
// (merged textures, materials, entities).
func NewID() uuid.UUID {
	return uuid.New()
}

// PathID returns the identifier for the asset stored at path. The same path
// always yields the same id, so two requests for one file alias the same handle.
func PathID(path string) uuid.UUID {
	return uuid.NewSHA1(assetNamespace, []byte(filepath.ToSlash(filepath.Clean(path))))
}

// IsNilID reports whether id was never assigned.
func IsNilID(id uuid.UUID) bool {
	return id == uuid.Nil
}
