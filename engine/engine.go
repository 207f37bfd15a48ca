package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spaghettifunk/triplanar/engine/assets"
	"github.com/spaghettifunk/triplanar/engine/config"
	"github.com/spaghettifunk/triplanar/engine/core"
	"github.com/spaghettifunk/triplanar/engine/plugin"
	"github.com/spaghettifunk/triplanar/engine/renderer"
	"github.com/spaghettifunk/triplanar/engine/renderer/metadata"
	"github.com/spaghettifunk/triplanar/engine/splat"
	"github.com/spaghettifunk/triplanar/engine/systems"
)

var ErrNotTicking = errors.New("engine is not initialized or already shut down")

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine has released every subsystem
	EngineStageShutdown
)

type Engine struct {
	currentStage  Stage
	config        *config.Config
	isRunning     bool
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager
	eventSystem   *core.EventSystem
	renderer      *renderer.Renderer
	material      *splat.MaterialHandles
	clock         *core.Clock
	metrics       *core.Metrics
	tickCount     uint64
	lastTime      float64
}

func New(cfg *config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		core.LogError("%s", err.Error())
		return nil, err
	}

	am := assets.NewAssetManager(cfg.Assets.BasePath)

	sm, err := systems.NewSystemManager(cfg, am)
	if err != nil {
		core.LogError("%s", err.Error())
		return nil, err
	}

	return &Engine{
		currentStage:  EngineStageUninitialized,
		config:        cfg,
		isRunning:     true,
		assetManager:  am,
		systemManager: sm,
		eventSystem:   core.NewEventSystem(),
		renderer:      renderer.NewRenderer(renderer.NewHeadlessBackend()),
		clock:         core.NewClock(),
		metrics:       core.NewMetrics(),
	}, nil
}

// Initialize indexes the assets, installs the splat shaders and requests every
// texture layer the material config lists.
func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageUninitialized {
		return fmt.Errorf("engine already initialized")
	}
	e.currentStage = EngineStageInitializing

	if err := e.assetManager.Initialize(e.config.Assets.Watch); err != nil {
		return err
	}

	ss := e.systemManager.ShaderSystem()
	if err := plugin.Install(ss); err != nil {
		return err
	}

	if err := e.renderer.Initialize(e.config.Application.Name); err != nil {
		return err
	}
	for _, s := range plugin.Shaders() {
		shader, err := ss.GetShader(s.Name)
		if err != nil {
			return err
		}
		if err := e.renderer.ShaderCreate(shader); err != nil {
			return err
		}
	}

	assembly, err := e.assembly()
	if err != nil {
		return err
	}

	paths := splat.MaterialPaths{
		BaseColor:  e.config.Material.BaseColor,
		Occlusion:  e.config.Material.Occlusion,
		NormalMap:  e.config.Material.NormalMap,
		MetalRough: e.config.Material.MetalRough,
	}
	e.material, err = splat.NewMaterialHandles(paths, e.config.Material.Layers, e.systemManager.TextureSystem(), assembly)
	if err != nil {
		return err
	}

	// register some events
	e.eventSystem.Register(core.EVENT_CODE_APPLICATION_QUIT, e, e.onQuit)
	e.eventSystem.Register(core.EVENT_CODE_ASSET_LOADED_WITH_DEPENDENCIES, e, e.onAssetEvent)
	e.eventSystem.Register(core.EVENT_CODE_ASSET_FAILED, e, e.onAssetEvent)
	e.eventSystem.Register(core.EVENT_CODE_MATERIAL_SPAWNED, e, e.onSpawned)

	e.currentStage = EngineStageInitialized
	core.LogInfo("engine initialized: %d layers, %s projection, mesh '%s'", e.config.Material.Layers, e.config.Material.Projection, e.config.Mesh.Source)
	return nil
}

// assembly builds the scene template from the configuration.
func (e *Engine) assembly() (splat.Assembly, error) {
	projection, err := e.config.Projection()
	if err != nil {
		return splat.Assembly{}, err
	}

	a := splat.DefaultAssembly()
	a.Axis = e.config.Axis()
	a.Sharpness = e.config.Weights.Sharpness
	a.Material.Metallic = e.config.Material.Metallic
	a.Material.PerceptualRoughness = e.config.Material.PerceptualRoughness
	a.Material.UVScale = e.config.Material.UVScale
	a.Material.Projection = projection

	if e.config.Mesh.Source == config.MeshSourceIcosphere {
		a.Mesh = splat.IcosphereMesh(e.config.Mesh.Radius, e.config.Mesh.Subdivisions)
		return a, nil
	}
	source := e.config.Mesh.Source
	a.Mesh = func() (*metadata.Mesh, error) {
		res, err := e.assetManager.LoadAsset(source, nil)
		if err != nil {
			return nil, err
		}
		mesh, ok := res.Data.(*metadata.Mesh)
		if !ok {
			return nil, fmt.Errorf("%s is not a mesh", source)
		}
		return mesh, nil
	}
	return a, nil
}

// Tick runs one update: commits finished loads, dispatches their events and
// spawns the splatted entity once every layer is in. The returned error is
// the finalization failure hit during this tick, if any.
func (e *Engine) Tick() error {
	if e.currentStage != EngineStageInitialized && e.currentStage != EngineStageRunning {
		return ErrNotTicking
	}
	ts := e.systemManager.TextureSystem()
	ts.Update()
	for _, event := range ts.ReadEvents() {
		e.eventSystem.FireAsset(ts, event)
	}

	spawned, err := e.material.TryFinalize(e.systemManager.EntitySystem(), ts)
	if err != nil {
		core.LogError("splat material failed: %s", err)
		return err
	}
	if spawned {
		entity, _, _ := e.material.Entity()
		e.eventSystem.Fire(core.EVENT_CODE_MATERIAL_SPAWNED, e, core.EventContext{
			Asset: core.AssetEvent{ID: entity.ID},
			Data:  entity,
		})
	}
	e.tickCount++
	return nil
}

// Run ticks at the configured rate until ctx is done, max_ticks is reached or
// the quit event fires.
func (e *Engine) Run(ctx context.Context) error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine is not initialized")
	}
	e.currentStage = EngineStageRunning

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	ticker := time.NewTicker(time.Duration(float64(time.Second) / e.config.Application.TickRate))
	defer ticker.Stop()
	// log the metrics about once a second
	reportEvery := uint64(e.config.Application.TickRate)
	if reportEvery == 0 {
		reportEvery = 1
	}

	for e.isRunning {
		select {
		case <-ctx.Done():
			core.LogInfo("stopping after %d ticks: %s", e.tickCount, ctx.Err())
			return nil
		case <-ticker.C:
		}

		e.clock.Update()
		currentTime := e.clock.Elapsed()
		frameStart := time.Now()

		// finalization errors are latched by the material; keep ticking
		_ = e.Tick()

		e.metrics.Update(time.Since(frameStart).Seconds())
		if e.tickCount%reportEvery == 0 {
			fps, ms := e.metrics.Frame()
			core.LogDebug("tick %d: %.0f ticks/s, %.3fms avg, %.2fs elapsed", e.tickCount, fps, ms, currentTime-e.lastTime)
		}
		e.lastTime = currentTime

		if limit := e.config.Application.MaxTicks; limit > 0 && e.tickCount >= limit {
			core.LogInfo("reached %d ticks", limit)
			break
		}
	}
	return nil
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShutdown {
		return core.ErrAlreadyShutdown
	}
	e.currentStage = EngineStageShuttingDown
	e.isRunning = false

	var errs []error
	errs = append(errs, e.eventSystem.Shutdown())
	errs = append(errs, e.renderer.Shutdown())
	errs = append(errs, e.systemManager.Shutdown())
	if err := e.assetManager.Shutdown(); err != nil && !errors.Is(err, assets.ErrManagerClosed) {
		errs = append(errs, err)
	}

	e.currentStage = EngineStageShutdown
	return errors.Join(errs...)
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

func (e *Engine) Ticks() uint64 {
	return e.tickCount
}

func (e *Engine) Material() *splat.MaterialHandles {
	return e.material
}

func (e *Engine) SystemManager() *systems.SystemManager {
	return e.systemManager
}

func (e *Engine) EventSystem() *core.EventSystem {
	return e.eventSystem
}

func (e *Engine) Renderer() *renderer.Renderer {
	return e.renderer
}

func (e *Engine) onQuit(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
	e.isRunning = false
	return true
}

func (e *Engine) onAssetEvent(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	if e.material.Notify(data.Asset) {
		core.LogDebug("splat layer event %s", data.Asset)
	}
	// other listeners may track the same asset
	return false
}

func (e *Engine) onSpawned(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	entity, ok := data.Data.(metadata.EntityID)
	if !ok {
		return false
	}
	for _, ent := range e.systemManager.EntitySystem().Entities() {
		if ent.ID != entity {
			continue
		}
		material, err := e.systemManager.MaterialSystem().Get(ent.Material)
		if err != nil {
			core.LogError("%s", err.Error())
			return false
		}
		if err := e.renderer.UploadMaterial(e.systemManager.TextureSystem(), material); err != nil {
			core.LogError("upload of entity %s failed: %s", entity, err)
			return false
		}
		core.LogInfo("splat entity %s spawned with %d layers (%d textures uploaded)", entity, material.LayerCount, e.renderer.TextureCount())
		return false
	}
	core.LogWarn("spawned entity %s not found in scene", entity)
	return false
}
