package splat

import (
	"fmt"

	"github.com/spaghettifunk/triplanar/engine/core"
	"github.com/spaghettifunk/triplanar/engine/renderer/metadata"
)

// MaterialPaths lists the layer image paths of each material channel.
type MaterialPaths struct {
	BaseColor  []string
	Occlusion  []string
	NormalMap  []string
	MetalRough []string
}

// MaterialHandles follows the four channel layer arrays until they have all
// loaded, then merges them and spawns the splatted entity exactly once.
type MaterialHandles struct {
	BaseColor  *LayerArray
	Occlusion  *LayerArray
	NormalMap  *LayerArray
	MetalRough *LayerArray

	layers   int
	store    AssetStore
	assembly Assembly

	spawned bool
	entity  metadata.EntityID
	merged  MergedTextures
	// set once finalization failed; the entity is never spawned afterwards
	err error
	// err has been returned by TryFinalize
	reported bool
}

func NewMaterialHandles(paths MaterialPaths, n int, store AssetStore, assembly Assembly) (*MaterialHandles, error) {
	mh := &MaterialHandles{layers: n, store: store, assembly: assembly}
	var err error
	if mh.BaseColor, err = NewLayerArray(paths.BaseColor, n, store); err != nil {
		return nil, fmt.Errorf("base color: %w", err)
	}
	if mh.Occlusion, err = NewLayerArray(paths.Occlusion, n, store); err != nil {
		return nil, fmt.Errorf("occlusion: %w", err)
	}
	if mh.NormalMap, err = NewLayerArray(paths.NormalMap, n, store); err != nil {
		return nil, fmt.Errorf("normal map: %w", err)
	}
	if mh.MetalRough, err = NewLayerArray(paths.MetalRough, n, store); err != nil {
		return nil, fmt.Errorf("metal rough: %w", err)
	}
	return mh, nil
}

func (mh *MaterialHandles) channels() [4]*LayerArray {
	return [4]*LayerArray{mh.BaseColor, mh.Occlusion, mh.NormalMap, mh.MetalRough}
}

// Notify feeds one asset event to every channel and reports whether any layer
// matched. A matched LoadedWithDependencies image gets the repeating linear
// sampler. A matched Failed event fails the material. Nothing happens once
// the entity is spawned or the material failed.
func (mh *MaterialHandles) Notify(event core.AssetEvent) bool {
	if mh.spawned || mh.err != nil {
		return false
	}

	switch event.Kind {
	case core.AssetEventLoadedWithDependencies:
	case core.AssetEventFailed:
		for _, la := range mh.channels() {
			if la.References(event.ID) {
				mh.err = fmt.Errorf("%w: %s", ErrLayerLoadFailed, event.ID)
				return true
			}
		}
		return false
	default:
		return false
	}

	matched := false
	for _, la := range mh.channels() {
		// every channel sees the event, handles may be shared
		if la.NotifyAny(event.ID) {
			matched = true
		}
	}
	if !matched {
		return false
	}

	img, err := mh.store.Resolve(event.ID)
	if err != nil {
		core.LogWarn("cannot configure sampler of %s: %s", event.ID, err)
		return true
	}
	img.Sampler = metadata.RepeatLinearSampler()
	return true
}

func (mh *MaterialHandles) AllLoaded() bool {
	for _, la := range mh.channels() {
		if !la.AllLoaded() {
			return false
		}
	}
	return true
}

func (mh *MaterialHandles) Spawned() bool {
	return mh.spawned
}

// Err returns the error that failed the material, if any.
func (mh *MaterialHandles) Err() error {
	return mh.err
}

// Entity returns the spawned entity and the merged textures it uses.
func (mh *MaterialHandles) Entity() (metadata.EntityID, MergedTextures, bool) {
	return mh.entity, mh.merged, mh.spawned
}

// TryFinalize spawns the entity when every layer has loaded. It reports
// whether this call spawned it. Errors, including a failed layer load, fail
// the material for good and are returned by exactly one call.
func (mh *MaterialHandles) TryFinalize(scene SceneBuilder, store AssetStore) (bool, error) {
	if mh.err != nil {
		// a failed load latches err outside of finalization
		if mh.reported {
			return false, nil
		}
		mh.reported = true
		return false, mh.err
	}
	if mh.spawned || !mh.AllLoaded() {
		return false, nil
	}
	if err := mh.Finalize(scene, store); err != nil {
		mh.reported = true
		return false, err
	}
	return true, nil
}

// Finalize merges the four channels, builds the weighted mesh and the material
// and spawns the entity.
func (mh *MaterialHandles) Finalize(scene SceneBuilder, store AssetStore) error {
	if mh.spawned {
		return ErrAlreadySpawned
	}
	if mh.err != nil {
		return mh.err
	}
	if !mh.AllLoaded() {
		return ErrLayersNotLoaded
	}

	var merged MergedTextures
	targets := [4]*metadata.ImageHandle{&merged.BaseColor, &merged.Occlusion, &merged.NormalMap, &merged.MetalRough}
	names := [4]string{"base color", "occlusion", "normal map", "metal rough"}
	for i, la := range mh.channels() {
		h, err := la.Merge(store)
		if err != nil {
			mh.err = fmt.Errorf("merge %s: %w", names[i], err)
			return mh.err
		}
		*targets[i] = h
	}

	entity, err := mh.assembly.Assemble(scene, merged, uint32(mh.layers))
	if err != nil {
		mh.err = err
		return err
	}

	mh.spawned = true
	mh.entity = entity
	mh.merged = merged
	return nil
}
