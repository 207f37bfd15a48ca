package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spaghettifunk/triplanar/engine/assets/loaders"
	"github.com/spaghettifunk/triplanar/engine/core"
	"github.com/spaghettifunk/triplanar/engine/renderer/metadata"
)

var (
	ErrManagerClosed = errors.New("asset manager already closed")
	ErrNoLoader      = errors.New("no loader registered for asset type")
	ErrUnknownType   = errors.New("unknown asset type")
)

// eventBuffer bounds how many file notifications may pile up between two ticks.
const eventBuffer = 256

type AssetInfo struct {
	// Path relative to the asset base path, slash separated.
	Path       string
	ID         uuid.UUID
	Type       metadata.ResourceType
	ModTime    time.Time
	LastLoaded time.Time
}

// AssetManager indexes the asset directory, loads files through the loader
// registered for their type and, when watching, reports on-disk changes as
// asset events.
type AssetManager struct {
	basePath string
	assets   map[string]AssetInfo
	loaders  map[metadata.ResourceType]Loader

	mutex sync.RWMutex

	done     chan struct{}
	wg       sync.WaitGroup
	fsnotify *fsnotify.Watcher
	isClosed bool
	events   chan core.AssetEvent
}

func NewAssetManager(basePath string) *AssetManager {
	return &AssetManager{
		basePath: filepath.Clean(basePath),
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[metadata.ResourceType]Loader),
		events:   make(chan core.AssetEvent, eventBuffer),
		done:     make(chan struct{}),
	}
}

// Initialize indexes the base path and registers the built-in loaders. With
// watch set, the directory tree is also watched for changes.
func (am *AssetManager) Initialize(watch bool) error {
	am.registerLoader(metadata.ResourceTypeImage, &loaders.ImageLoader{})
	am.registerLoader(metadata.ResourceTypeMesh, &loaders.MeshLoader{})
	am.registerLoader(metadata.ResourceTypeShader, &loaders.ShaderLoader{})

	if _, err := os.Stat(am.basePath); err != nil {
		return fmt.Errorf("asset base path: %w", err)
	}

	if watch {
		fsWatch, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		am.fsnotify = fsWatch
	}
	if err := am.watchRecursive(am.basePath, false); err != nil {
		return err
	}
	if am.fsnotify != nil {
		am.wg.Add(1)
		go am.start()
	}
	core.LogDebug("asset manager indexed %d files under %s", am.Count(), am.basePath)
	return nil
}

func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return ErrManagerClosed
	}
	am.isClosed = true
	am.mutex.Unlock()

	close(am.done)
	am.wg.Wait()
	return nil
}

// Events delivers Added, Modified and Removed notifications for watched files.
func (am *AssetManager) Events() <-chan core.AssetEvent {
	return am.events
}

// FullPath joins a relative asset path onto the base path.
func (am *AssetManager) FullPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(am.basePath, filepath.FromSlash(path))
}

// AssetID is the stable id of a path. Spellings of the same file share it.
func (am *AssetManager) AssetID(path string) uuid.UUID {
	return core.PathID(am.relative(path))
}

func (am *AssetManager) Lookup(path string) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	info, ok := am.assets[am.relative(path)]
	return info, ok
}

func (am *AssetManager) Count() int {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	return len(am.assets)
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType metadata.ResourceType, loader Loader) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.loaders[assetType] = loader
}

// LoadAsset loads a file relative to the base path with the loader matching
// its extension. It is safe to call from job workers.
func (am *AssetManager) LoadAsset(path string, params interface{}) (*metadata.Resource, error) {
	resourceType := DetermineAssetType(path)
	if resourceType == metadata.ResourceTypeNone {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, path)
	}

	am.mutex.RLock()
	loader, loaderExists := am.loaders[resourceType]
	am.mutex.RUnlock()
	if !loaderExists {
		return nil, fmt.Errorf("%w: %s", ErrNoLoader, resourceType)
	}

	res, err := loader.Load(am.FullPath(path), resourceType, params)
	if err != nil {
		return nil, err
	}

	// Files created after indexing and not seen by a watcher are indexed on first load.
	rel := am.relative(path)
	am.mutex.Lock()
	info, ok := am.assets[rel]
	if !ok {
		info = AssetInfo{Path: rel, ID: core.PathID(rel), Type: resourceType}
	}
	info.LastLoaded = time.Now()
	am.assets[rel] = info
	am.mutex.Unlock()

	return res, nil
}

func (am *AssetManager) UnloadAsset(res *metadata.Resource) error {
	if res == nil {
		return nil
	}
	am.mutex.RLock()
	loader, ok := am.loaders[res.Type]
	am.mutex.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoLoader, res.Type)
	}
	return loader.Unload(res)
}

func (am *AssetManager) start() {
	defer am.wg.Done()
	for {
		select {

		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := am.watchRecursive(e.Name, false); err != nil {
						core.LogWarn("failed to watch %s: %s", e.Name, err)
					}
				}
				continue
			}
			// Handle create or modify events
			if e.Op&fsnotify.Create != 0 {
				am.handleFileEvent(e.Name, core.AssetEventAdded)
			} else if e.Op&fsnotify.Write != 0 {
				am.handleFileEvent(e.Name, core.AssetEventModified)
			}
			//Can't stat a deleted directory, so just pretend that it's always a directory and
			//try to remove from the watch list...  we really have no clue if it's a directory or not...
			if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				am.removeAsset(e.Name)
				_ = am.fsnotify.Remove(e.Name)
			}

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("%s", err.Error())

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}

// watchRecursive indexes every file under path and, when watching, adds all
// directories under it to the watch list.
func (am *AssetManager) watchRecursive(path string, unWatch bool) error {
	return filepath.WalkDir(path, func(walkPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if am.fsnotify == nil {
				return nil
			}
			if unWatch {
				return am.fsnotify.Remove(walkPath)
			}
			return am.fsnotify.Add(walkPath)
		}
		am.indexFile(walkPath)
		return nil
	})
}

func (am *AssetManager) indexFile(fullPath string) (AssetInfo, bool) {
	rel := am.relative(fullPath)
	assetType := DetermineAssetType(rel)
	if assetType == metadata.ResourceTypeNone {
		return AssetInfo{}, false
	}
	info := AssetInfo{
		Path: rel,
		ID:   core.PathID(rel),
		Type: assetType,
	}
	if s, err := os.Stat(fullPath); err == nil {
		info.ModTime = s.ModTime()
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()
	if prev, ok := am.assets[rel]; ok {
		info.LastLoaded = prev.LastLoaded
	}
	am.assets[rel] = info
	return info, true
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(fullPath string, kind core.AssetEventKind) {
	info, ok := am.indexFile(fullPath)
	if !ok {
		return
	}
	am.emit(core.AssetEvent{Kind: kind, ID: info.ID})
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(fullPath string) {
	rel := am.relative(fullPath)
	am.mutex.Lock()
	info, ok := am.assets[rel]
	delete(am.assets, rel)
	am.mutex.Unlock()
	if ok {
		am.emit(core.AssetEvent{Kind: core.AssetEventRemoved, ID: info.ID})
	}
}

func (am *AssetManager) emit(e core.AssetEvent) {
	select {
	case am.events <- e:
	default:
		core.LogWarn("asset event queue full, dropping %s", e)
	}
}

func (am *AssetManager) relative(path string) string {
	if filepath.IsAbs(path) || strings.HasPrefix(filepath.Clean(path), am.basePath+string(filepath.Separator)) {
		if rel, err := filepath.Rel(am.basePath, path); err == nil {
			path = rel
		}
	}
	return filepath.ToSlash(filepath.Clean(path))
}

func DetermineAssetType(path string) metadata.ResourceType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp":
		return metadata.ResourceTypeImage
	case ".gltf", ".glb":
		return metadata.ResourceTypeMesh
	case ".wgsl":
		return metadata.ResourceTypeShader
	case ".toml":
		return metadata.ResourceTypeConfig
	default:
		return metadata.ResourceTypeNone
	}
}
