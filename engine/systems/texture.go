package systems

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/spaghettifunk/triplanar/engine/assets"
	"github.com/spaghettifunk/triplanar/engine/containers"
	"github.com/spaghettifunk/triplanar/engine/core"
	"github.com/spaghettifunk/triplanar/engine/renderer/metadata"
	"github.com/spaghettifunk/triplanar/engine/splat"
)

type TextureSystemConfig struct {
	/** @brief The maximum number of textures that can be held at once. */
	MaxTextureCount uint32
	/** @brief Initial capacity of the per-tick event queue. It grows when full. */
	EventQueueSize int
	/** @brief Decode colour data as sRGB. */
	Srgb bool
}

type textureLoadResult struct {
	id    uuid.UUID
	path  string
	image *metadata.ImageData
	err   error
}

// TextureSystem is the asset store for images. Loads are decoded on the job
// system and committed in Update, which also queues the asset events read
// by the rest of the tick.
type TextureSystem struct {
	Config *TextureSystemConfig

	images    map[uuid.UUID]*metadata.ImageData
	requested map[uuid.UUID]string
	inFlight  int
	events    *containers.RingQueue[core.AssetEvent]

	// written by job workers
	mutex     sync.Mutex
	completed []textureLoadResult

	// sub systems
	jobSystem    *JobSystem
	assetManager *assets.AssetManager
}

func NewTextureSystem(config *TextureSystemConfig, js *JobSystem, am *assets.AssetManager) (*TextureSystem, error) {
	if config.MaxTextureCount == 0 {
		err := fmt.Errorf("func NewTextureSystem - config.MaxTextureCount must be > 0")
		core.LogError("%s", err.Error())
		return nil, err
	}
	if js == nil || am == nil {
		err := fmt.Errorf("func NewTextureSystem - job system and asset manager are required")
		core.LogError("%s", err.Error())
		return nil, err
	}
	queueSize := config.EventQueueSize
	if queueSize <= 0 {
		queueSize = 64
	}

	return &TextureSystem{
		Config:       config,
		images:       make(map[uuid.UUID]*metadata.ImageData),
		requested:    make(map[uuid.UUID]string),
		events:       containers.NewRingQueue[core.AssetEvent](queueSize),
		jobSystem:    js,
		assetManager: am,
	}, nil
}

func (ts *TextureSystem) Shutdown() error {
	ts.images = make(map[uuid.UUID]*metadata.ImageData)
	ts.requested = make(map[uuid.UUID]string)
	ts.events.Drain()
	return nil
}

// RequestLoad starts loading path and returns its handle right away. Paths
// naming the same file share one handle and one load.
func (ts *TextureSystem) RequestLoad(path string) metadata.ImageHandle {
	id := ts.assetManager.AssetID(path)
	handle := metadata.NewImageHandle(id)
	if _, ok := ts.requested[id]; ok {
		return handle
	}
	if _, ok := ts.images[id]; ok {
		return handle
	}
	ts.requested[id] = path

	if uint32(len(ts.images)+ts.inFlight) >= ts.Config.MaxTextureCount {
		ts.fail(id, path, fmt.Errorf("texture limit of %d reached", ts.Config.MaxTextureCount))
		return handle
	}

	params := &metadata.ImageResourceParams{Srgb: ts.Config.Srgb}
	err := ts.jobSystem.Submit(metadata.JobTask{
		JobType:     metadata.JOB_TYPE_RESOURCE_LOAD,
		Priority:    metadata.JOB_PRIORITY_NORMAL,
		InputParams: path,
		OnStart: func(p interface{}) (interface{}, error) {
			res, err := ts.assetManager.LoadAsset(p.(string), params)
			if err != nil {
				return nil, err
			}
			img, ok := res.Data.(*metadata.ImageData)
			if !ok {
				return nil, fmt.Errorf("%s is not an image", p)
			}
			return img, nil
		},
		OnComplete: func(result interface{}) {
			ts.complete(textureLoadResult{id: id, path: path, image: result.(*metadata.ImageData)})
		},
		OnFailure: func(_ interface{}, err error) {
			ts.complete(textureLoadResult{id: id, path: path, err: err})
		},
	})
	if err != nil {
		ts.fail(id, path, err)
		return handle
	}
	ts.inFlight++
	return handle
}

func (ts *TextureSystem) complete(r textureLoadResult) {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()
	ts.completed = append(ts.completed, r)
}

func (ts *TextureSystem) fail(id uuid.UUID, path string, err error) {
	core.LogError("failed to load texture '%s': %s", path, err)
	ts.enqueue(core.AssetEvent{Kind: core.AssetEventFailed, ID: id})
}

func (ts *TextureSystem) enqueue(e core.AssetEvent) {
	if ts.events.IsFull() {
		ts.events.Grow()
	}
	if err := ts.events.Enqueue(e); err != nil {
		core.LogError("dropping asset event %s: %s", e, err)
	}
}

/**
 * @brief Commits finished loads and collects file changes. Should happen once an update cycle.
 */
func (ts *TextureSystem) Update() {
	ts.mutex.Lock()
	done := ts.completed
	ts.completed = nil
	ts.mutex.Unlock()

	for _, r := range done {
		ts.inFlight--
		if r.err != nil {
			ts.fail(r.id, r.path, r.err)
			continue
		}
		ts.images[r.id] = r.image
		core.LogDebug("texture '%s' loaded (%s)", r.path, r.image.Descriptor())
		ts.enqueue(core.AssetEvent{Kind: core.AssetEventLoadedWithDependencies, ID: r.id})
	}

	for {
		select {
		case e := <-ts.assetManager.Events():
			if _, tracked := ts.requested[e.ID]; tracked && e.Kind == core.AssetEventModified {
				core.LogInfo("texture %s changed on disk; loaded images are not reloaded", e.ID)
			}
			ts.enqueue(e)
		default:
			return
		}
	}
}

// ReadEvents returns the events queued since the last call, in order.
func (ts *TextureSystem) ReadEvents() []core.AssetEvent {
	return ts.events.Drain()
}

func (ts *TextureSystem) Resolve(id uuid.UUID) (*metadata.ImageData, error) {
	img, ok := ts.images[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", splat.ErrUnresolvableHandle, id)
	}
	return img, nil
}

// Store adds an image created at runtime under a new id.
func (ts *TextureSystem) Store(img *metadata.ImageData) metadata.ImageHandle {
	id := core.NewID()
	ts.images[id] = img
	ts.enqueue(core.AssetEvent{Kind: core.AssetEventAdded, ID: id})
	return metadata.NewImageHandle(id)
}

// Pending returns the number of loads not yet committed.
func (ts *TextureSystem) Pending() int {
	return ts.inFlight
}

func (ts *TextureSystem) Count() int {
	return len(ts.images)
}

var _ splat.AssetStore = (*TextureSystem)(nil)
