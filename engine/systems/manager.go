package systems

import (
	"github.com/spaghettifunk/triplanar/engine/assets"
	"github.com/spaghettifunk/triplanar/engine/config"
)

type SystemManager struct {
	jobSystem      *JobSystem
	textureSystem  *TextureSystem
	shaderSystem   *ShaderSystem
	materialSystem *MaterialSystem
	meshSystem     *MeshSystem
	entitySystem   *EntitySystem
}

func NewSystemManager(cfg *config.Config, am *assets.AssetManager) (*SystemManager, error) {
	js, err := NewJobSystem(cfg.Jobs.Workers, cfg.Jobs.QueueSize)
	if err != nil {
		return nil, err
	}
	ts, err := NewTextureSystem(&TextureSystemConfig{
		MaxTextureCount: 1000,
		EventQueueSize:  64,
	}, js, am)
	if err != nil {
		return nil, err
	}
	ssys, err := NewShaderSystem(&ShaderSystemConfig{
		MaxShaderCount: 64,
	})
	if err != nil {
		return nil, err
	}
	ms, err := NewMaterialSystem(&MaterialSystemConfig{
		MaxMaterialCount: 1000,
	}, ssys, ts)
	if err != nil {
		return nil, err
	}
	mls, err := NewMeshSystem(ssys)
	if err != nil {
		return nil, err
	}
	es, err := NewEntitySystem(mls, ms)
	if err != nil {
		return nil, err
	}
	return &SystemManager{
		jobSystem:      js,
		textureSystem:  ts,
		shaderSystem:   ssys,
		materialSystem: ms,
		meshSystem:     mls,
		entitySystem:   es,
	}, nil
}

func (sm *SystemManager) JobSystem() *JobSystem           { return sm.jobSystem }
func (sm *SystemManager) TextureSystem() *TextureSystem   { return sm.textureSystem }
func (sm *SystemManager) ShaderSystem() *ShaderSystem     { return sm.shaderSystem }
func (sm *SystemManager) MaterialSystem() *MaterialSystem { return sm.materialSystem }
func (sm *SystemManager) MeshSystem() *MeshSystem         { return sm.meshSystem }
func (sm *SystemManager) EntitySystem() *EntitySystem     { return sm.entitySystem }

func (sm *SystemManager) Shutdown() error {
	if err := sm.entitySystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.meshSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.materialSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.shaderSystem.Shutdown(); err != nil {
		return err
	}
	// stop the workers before dropping the images they might still commit
	if err := sm.jobSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.textureSystem.Shutdown(); err != nil {
		return err
	}
	return nil
}
