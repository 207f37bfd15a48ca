package splat

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spaghettifunk/triplanar/engine/renderer/metadata"
)

// LayerArray loads N same-sized images that end up stacked into one texture.
type LayerArray struct {
	images []*LoadingImage
}

// NewLayerArray requests every path from the store, in order. The number of
// paths must equal n and n must be at least 1.
func NewLayerArray(paths []string, n int, store AssetStore) (*LayerArray, error) {
	if n < 1 || len(paths) != n {
		return nil, fmt.Errorf("%w: %d paths for %d layers", ErrLayerCount, len(paths), n)
	}
	la := &LayerArray{images: make([]*LoadingImage, n)}
	for i, p := range paths {
		la.images[i] = NewLoadingImage(store.RequestLoad(p))
	}
	return la, nil
}

func (la *LayerArray) Len() int {
	return len(la.images)
}

func (la *LayerArray) Handles() []metadata.ImageHandle {
	out := make([]metadata.ImageHandle, len(la.images))
	for i, im := range la.images {
		out[i] = im.Handle()
	}
	return out
}

// NotifyAny hands id to every layer and reports whether any of them matched.
// Several layers may share a handle, so every layer must see every id.
func (la *LayerArray) NotifyAny(id uuid.UUID) bool {
	matched := false
	for _, im := range la.images {
		if im.Notify(id) {
			matched = true
		}
	}
	return matched
}

// References reports whether any layer tracks id, without changing state.
func (la *LayerArray) References(id uuid.UUID) bool {
	for _, im := range la.images {
		if im.Handle().ID() == id {
			return true
		}
	}
	return false
}

func (la *LayerArray) AllLoaded() bool {
	for _, im := range la.images {
		if !im.Loaded() {
			return false
		}
	}
	return true
}

// Merge stacks the layers along the height axis of a new image and stores it.
// The result has layer 0's width, format, usage and sampler, N times its
// height and a layer count of 1. Each call stores a new image.
func (la *LayerArray) Merge(store AssetStore) (metadata.ImageHandle, error) {
	if !la.AllLoaded() {
		return metadata.ImageHandle{}, ErrLayersNotLoaded
	}

	images := make([]*metadata.ImageData, len(la.images))
	for i, im := range la.images {
		img, err := store.Resolve(im.Handle().ID())
		if err != nil {
			return metadata.ImageHandle{}, fmt.Errorf("layer %d: %w", i, err)
		}
		if img == nil {
			return metadata.ImageHandle{}, fmt.Errorf("layer %d: %w: %s", i, ErrUnresolvableHandle, im.Handle())
		}
		images[i] = img
	}

	first := images[0]
	expected := first.Descriptor()
	size := 0
	for i, img := range images {
		if img.LayerCount > 1 {
			return metadata.ImageHandle{}, fmt.Errorf("%w: layer %d has %d array layers", ErrArrayLayer, i, img.LayerCount)
		}
		if i > 0 {
			if actual := img.Descriptor(); actual != expected {
				return metadata.ImageHandle{}, &MismatchedLayerError{Index: i, Expected: expected, Actual: actual}
			}
		}
		if len(img.Pixels) != img.ExpectedSize() {
			return metadata.ImageHandle{}, fmt.Errorf("%w: layer %d has %d bytes, expected %d", ErrLayerDataSize, i, len(img.Pixels), img.ExpectedSize())
		}
		size += len(img.Pixels)
	}

	pixels := make([]uint8, 0, size)
	for _, img := range images {
		pixels = append(pixels, img.Pixels...)
	}

	merged := &metadata.ImageData{
		Name:       fmt.Sprintf("%s[%d layers]", first.Name, len(images)),
		Width:      first.Width,
		Height:     first.Height * uint32(len(images)),
		LayerCount: 1,
		Format:     first.Format,
		Usage:      first.Usage,
		Pixels:     pixels,
	}
	if first.Sampler != nil {
		s := *first.Sampler
		merged.Sampler = &s
	}
	return store.Store(merged), nil
}
