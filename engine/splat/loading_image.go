package splat

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/triplanar/engine/renderer/metadata"
)

// LoadingImage tracks one requested image until its load completes.
type LoadingImage struct {
	handle metadata.ImageHandle
	loaded bool
}

func NewLoadingImage(handle metadata.ImageHandle) *LoadingImage {
	return &LoadingImage{handle: handle}
}

func (li *LoadingImage) Handle() metadata.ImageHandle {
	return li.handle
}

func (li *LoadingImage) Loaded() bool {
	return li.loaded
}

// Notify marks the image loaded when id is the tracked asset and reports
// whether it matched. Once loaded, it stays loaded.
func (li *LoadingImage) Notify(id uuid.UUID) bool {
	if id != li.handle.ID() {
		return false
	}
	li.loaded = true
	return true
}
