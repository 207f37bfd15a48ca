package splat

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/triplanar/engine/core"
	"github.com/spaghettifunk/triplanar/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadingImageNotify(t *testing.T) {
	h := metadata.NewImageHandle(core.PathID("a.png"))
	li := NewLoadingImage(h)
	assert.False(t, li.Loaded())

	assert.False(t, li.Notify(core.PathID("b.png")))
	assert.False(t, li.Loaded())

	assert.True(t, li.Notify(h.ID()))
	assert.True(t, li.Loaded())

	// loaded never reverts
	assert.False(t, li.Notify(core.PathID("b.png")))
	assert.True(t, li.Loaded())
}

func TestNewLayerArrayValidatesCount(t *testing.T) {
	store := newMemStore()
	_, err := NewLayerArray([]string{"a.png"}, 2, store)
	assert.ErrorIs(t, err, ErrLayerCount)
	_, err = NewLayerArray(nil, 0, store)
	assert.ErrorIs(t, err, ErrLayerCount)
	assert.Empty(t, store.requests)
}

func TestNewLayerArrayRequestsInOrder(t *testing.T) {
	store := newMemStore()
	la, err := NewLayerArray([]string{"x.png", "y.png", "z.png"}, 3, store)
	require.NoError(t, err)
	assert.Equal(t, []string{"x.png", "y.png", "z.png"}, store.requests)
	assert.Equal(t, 3, la.Len())
	assert.Equal(t, core.PathID("y.png"), la.Handles()[1].ID())
}

func TestMergeTwoLayersEitherOrder(t *testing.T) {
	for _, order := range [][]int{{0, 1}, {1, 0}} {
		store := newMemStore()
		paths := []string{"layer0.png", "layer1.png"}
		la, err := NewLayerArray(paths, 2, store)
		require.NoError(t, err)

		images := []*metadata.ImageData{
			solidImage("layer0", 4, 4, 0x11),
			solidImage("layer1", 4, 4, 0x22),
		}
		for _, i := range order {
			assert.False(t, la.AllLoaded())
			ev := store.complete(paths[i], images[i])
			assert.True(t, la.NotifyAny(ev.ID))
		}
		require.True(t, la.AllLoaded())

		h, err := la.Merge(store)
		require.NoError(t, err)
		merged, err := store.Resolve(h.ID())
		require.NoError(t, err)

		assert.Equal(t, uint32(4), merged.Width)
		assert.Equal(t, uint32(8), merged.Height)
		assert.Equal(t, uint32(1), merged.LayerCount)
		assert.Equal(t, metadata.PixelFormatRGBA8Unorm, merged.Format)
		half := len(merged.Pixels) / 2
		assert.Equal(t, images[0].Pixels, merged.Pixels[:half])
		assert.Equal(t, images[1].Pixels, merged.Pixels[half:])
	}
}

func TestMergeIsDeterministicButNotIdempotent(t *testing.T) {
	store := newMemStore()
	paths := []string{"a.png", "b.png", "c.png"}
	la, err := NewLayerArray(paths, 3, store)
	require.NoError(t, err)
	for i, p := range paths {
		la.NotifyAny(store.complete(p, solidImage(p, 2, 3, uint8(i+1))).ID)
	}

	h1, err := la.Merge(store)
	require.NoError(t, err)
	h2, err := la.Merge(store)
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.Len(t, store.stored, 2)
	m1, _ := store.Resolve(h1.ID())
	m2, _ := store.Resolve(h2.ID())
	assert.Equal(t, m1.Pixels, m2.Pixels)
}

func TestMergeMismatchedFormat(t *testing.T) {
	store := newMemStore()
	paths := []string{"eight.png", "sixteen.png"}
	la, err := NewLayerArray(paths, 2, store)
	require.NoError(t, err)

	wide := &metadata.ImageData{
		Width: 4, Height: 4, LayerCount: 1,
		Format: metadata.PixelFormatRGBA16Unorm,
		Usage:  metadata.AssetUsageDefault,
	}
	wide.Pixels = make([]uint8, wide.ExpectedSize())
	la.NotifyAny(store.complete(paths[0], solidImage("eight", 4, 4, 1)).ID)
	la.NotifyAny(store.complete(paths[1], wide).ID)

	_, err = la.Merge(store)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMismatchedLayer)

	var mismatch *MismatchedLayerError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, 1, mismatch.Index)
	assert.Equal(t, metadata.PixelFormatRGBA8Unorm, mismatch.Expected.Format)
	assert.Equal(t, metadata.PixelFormatRGBA16Unorm, mismatch.Actual.Format)
	assert.Empty(t, store.stored)
}

func TestMergeMismatchedSizeAndUsage(t *testing.T) {
	store := newMemStore()
	paths := []string{"a.png", "b.png", "c.png"}
	la, err := NewLayerArray(paths, 3, store)
	require.NoError(t, err)

	other := solidImage("c", 4, 4, 3)
	other.Usage = metadata.AssetUsageRenderWorld
	la.NotifyAny(store.complete(paths[0], solidImage("a", 4, 4, 1)).ID)
	la.NotifyAny(store.complete(paths[1], solidImage("b", 4, 4, 2)).ID)
	la.NotifyAny(store.complete(paths[2], other).ID)

	_, err = la.Merge(store)
	var mismatch *MismatchedLayerError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, 2, mismatch.Index)
	assert.Contains(t, mismatch.Error(), "layer 2")
}

func TestMergeRequiresAllLoaded(t *testing.T) {
	store := newMemStore()
	la, err := NewLayerArray([]string{"a.png", "b.png"}, 2, store)
	require.NoError(t, err)
	la.NotifyAny(store.complete("a.png", solidImage("a", 1, 1, 1)).ID)

	_, err = la.Merge(store)
	assert.ErrorIs(t, err, ErrLayersNotLoaded)
}

func TestMergeUnresolvableHandle(t *testing.T) {
	store := newMemStore()
	la, err := NewLayerArray([]string{"a.png"}, 1, store)
	require.NoError(t, err)
	// the notification arrives but the store lost the image
	la.NotifyAny(core.PathID("a.png"))

	_, err = la.Merge(store)
	assert.ErrorIs(t, err, ErrUnresolvableHandle)
}

func TestMergeRejectsShortPixelData(t *testing.T) {
	store := newMemStore()
	la, err := NewLayerArray([]string{"a.png"}, 1, store)
	require.NoError(t, err)
	img := solidImage("a", 2, 2, 1)
	img.Pixels = img.Pixels[:5]
	la.NotifyAny(store.complete("a.png", img).ID)

	_, err = la.Merge(store)
	assert.ErrorIs(t, err, ErrLayerDataSize)
}

func TestMergeRejectsArrayLayers(t *testing.T) {
	for _, arrayIndex := range []int{0, 1} {
		store := newMemStore()
		la, err := NewLayerArray([]string{"a.png", "b.png"}, 2, store)
		require.NoError(t, err)
		for i, p := range []string{"a.png", "b.png"} {
			img := solidImage(p, 4, 4, uint8(i))
			if i == arrayIndex {
				// consistent with itself, so only the layer count can reject it
				img.LayerCount = 2
				img.Pixels = make([]uint8, img.ExpectedSize())
			}
			la.NotifyAny(store.complete(p, img).ID)
		}

		_, err = la.Merge(store)
		assert.ErrorIs(t, err, ErrArrayLayer, "array layer at %d", arrayIndex)
		assert.Empty(t, store.stored, "nothing stored")
	}
}

func TestMergeInheritsFirstSampler(t *testing.T) {
	store := newMemStore()
	la, err := NewLayerArray([]string{"a.png"}, 1, store)
	require.NoError(t, err)
	img := solidImage("a", 1, 1, 9)
	img.Sampler = metadata.RepeatLinearSampler()
	la.NotifyAny(store.complete("a.png", img).ID)

	h, err := la.Merge(store)
	require.NoError(t, err)
	merged, _ := store.Resolve(h.ID())
	require.NotNil(t, merged.Sampler)
	assert.Equal(t, *img.Sampler, *merged.Sampler)
	assert.NotSame(t, img.Sampler, merged.Sampler)
}

func TestNotifyAnyDoesNotShortCircuit(t *testing.T) {
	store := newMemStore()
	// the same file in both slots aliases one handle
	la, err := NewLayerArray([]string{"same.png", "same.png"}, 2, store)
	require.NoError(t, err)

	ev := store.complete("same.png", solidImage("same", 2, 2, 7))
	assert.True(t, la.NotifyAny(ev.ID))
	assert.True(t, la.AllLoaded())
	assert.True(t, la.References(ev.ID))
	assert.False(t, la.References(core.PathID("other.png")))
}
