package systems

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/triplanar/engine/core"
	"github.com/spaghettifunk/triplanar/engine/renderer/metadata"
)

var (
	ErrShaderExists       = errors.New("shader already exists")
	ErrShaderNotFound     = errors.New("shader not found")
	ErrPipelineExists     = errors.New("pipeline already registered")
	ErrPipelineNotFound   = errors.New("pipeline not found")
	ErrAttributeConflict  = errors.New("vertex attribute conflicts with a registered one")
	ErrAttributeNotFound  = errors.New("vertex attribute not registered")
	ErrSchemaExists       = errors.New("material schema already registered")
	ErrSchemaNotFound     = errors.New("material schema not found")
	ErrShaderLimitReached = errors.New("shader limit reached")
)

/** @brief Configuration for the shader system. */
type ShaderSystemConfig struct {
	/** @brief The maximum number of shaders held in the system. */
	MaxShaderCount uint16
}

// ShaderSystem keeps the compiled shader modules, the pipelines built from
// them and the vertex attributes and material schemas those pipelines expect.
type ShaderSystem struct {
	// This system's configuration.
	Config *ShaderSystemConfig
	// A lookup table for shader name->id
	Lookup map[string]uint32
	// A collection of created shaders.
	Shaders []*metadata.Shader

	pipelines  map[string]*metadata.PipelineConfig
	attributes map[string]metadata.VertexAttribute
	schemas    map[string]*metadata.MaterialSchema
}

func NewShaderSystem(config *ShaderSystemConfig) (*ShaderSystem, error) {
	// Verify configuration.
	if config.MaxShaderCount == 0 {
		err := fmt.Errorf("NewShaderSystem - config.MaxShaderCount must be greater than 0")
		core.LogError("%s", err.Error())
		return nil, err
	}

	return &ShaderSystem{
		Config:     config,
		Lookup:     make(map[string]uint32),
		Shaders:    make([]*metadata.Shader, 0, config.MaxShaderCount),
		pipelines:  make(map[string]*metadata.PipelineConfig),
		attributes: make(map[string]metadata.VertexAttribute),
		schemas:    make(map[string]*metadata.MaterialSchema),
	}, nil
}

/**
 * @brief Shuts down the shader system.
 */
func (shaderSystem *ShaderSystem) Shutdown() error {
	for _, s := range shaderSystem.Shaders {
		s.State = metadata.SHADER_STATE_NOT_CREATED
		s.SPIRV = nil
	}
	shaderSystem.Shaders = shaderSystem.Shaders[:0]
	shaderSystem.Lookup = make(map[string]uint32)
	shaderSystem.pipelines = make(map[string]*metadata.PipelineConfig)
	return nil
}

/**
 * @brief Creates a new shader from its source config and compiled SPIR-V words.
 */
func (shaderSystem *ShaderSystem) CreateShader(config *metadata.ShaderConfig, spirv []uint32) (*metadata.Shader, error) {
	if _, ok := shaderSystem.Lookup[config.Name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrShaderExists, config.Name)
	}
	if len(shaderSystem.Shaders) >= int(shaderSystem.Config.MaxShaderCount) {
		return nil, fmt.Errorf("%w: %d", ErrShaderLimitReached, shaderSystem.Config.MaxShaderCount)
	}
	if len(spirv) == 0 {
		return nil, fmt.Errorf("shader %s has no code", config.Name)
	}
	shader := &metadata.Shader{
		ID:     uint32(len(shaderSystem.Shaders)),
		Name:   config.Name,
		State:  metadata.SHADER_STATE_INITIALIZED,
		Stages: append([]metadata.ShaderStage(nil), config.Stages...),
		SPIRV:  spirv,
	}
	shaderSystem.Shaders = append(shaderSystem.Shaders, shader)
	shaderSystem.Lookup[config.Name] = shader.ID
	core.LogDebug("shader '%s' created (%d words)", config.Name, len(spirv))
	return shader, nil
}

/**
 * @brief Gets the identifier of a shader by name. Returns false if not found.
 */
func (shaderSystem *ShaderSystem) GetShaderID(shaderName string) (uint32, bool) {
	id, ok := shaderSystem.Lookup[shaderName]
	return id, ok
}

func (shaderSystem *ShaderSystem) GetShader(shaderName string) (*metadata.Shader, error) {
	id, ok := shaderSystem.Lookup[shaderName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrShaderNotFound, shaderName)
	}
	return shaderSystem.Shaders[id], nil
}

// RegisterVertexAttribute makes a custom attribute known. Registering the same
// attribute twice is fine; reusing its name, id or location for another is not.
func (shaderSystem *ShaderSystem) RegisterVertexAttribute(attr metadata.VertexAttribute) error {
	if prev, ok := shaderSystem.attributes[attr.Name]; ok {
		if prev == attr {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrAttributeConflict, attr.Name)
	}
	for _, a := range shaderSystem.attributes {
		if a.ID == attr.ID || a.Location == attr.Location {
			return fmt.Errorf("%w: %s and %s", ErrAttributeConflict, attr.Name, a.Name)
		}
	}
	shaderSystem.attributes[attr.Name] = attr
	return nil
}

func (shaderSystem *ShaderSystem) VertexAttribute(name string) (metadata.VertexAttribute, bool) {
	a, ok := shaderSystem.attributes[name]
	return a, ok
}

// RegisterPipeline adds a pipeline over an existing shader. Every attribute it
// consumes must already be registered.
func (shaderSystem *ShaderSystem) RegisterPipeline(config *metadata.PipelineConfig) error {
	if _, ok := shaderSystem.pipelines[config.Name]; ok {
		return fmt.Errorf("%w: %s", ErrPipelineExists, config.Name)
	}
	shader, err := shaderSystem.GetShader(config.ShaderName)
	if err != nil {
		return fmt.Errorf("pipeline %s: %w", config.Name, err)
	}
	for _, a := range config.Attributes {
		if reg, ok := shaderSystem.attributes[a.Name]; !ok || reg != a {
			return fmt.Errorf("pipeline %s: %w: %s", config.Name, ErrAttributeNotFound, a.Name)
		}
	}
	shaderSystem.pipelines[config.Name] = config
	core.LogDebug("pipeline '%s' registered on shader '%s' (%s)", config.Name, shader.Name, shader.Stages)
	return nil
}

func (shaderSystem *ShaderSystem) GetPipeline(name string) (*metadata.PipelineConfig, error) {
	p, ok := shaderSystem.pipelines[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPipelineNotFound, name)
	}
	return p, nil
}

// RegisterMaterialSchema adds a material kind. Its pipelines must exist.
func (shaderSystem *ShaderSystem) RegisterMaterialSchema(schema *metadata.MaterialSchema) error {
	if _, ok := shaderSystem.schemas[schema.Name]; ok {
		return fmt.Errorf("%w: %s", ErrSchemaExists, schema.Name)
	}
	for proj, name := range schema.Pipelines {
		if _, err := shaderSystem.GetPipeline(name); err != nil {
			return fmt.Errorf("schema %s (%s): %w", schema.Name, proj, err)
		}
	}
	for _, a := range schema.Attributes {
		if _, ok := shaderSystem.attributes[a.Name]; !ok {
			return fmt.Errorf("schema %s: %w: %s", schema.Name, ErrAttributeNotFound, a.Name)
		}
	}
	shaderSystem.schemas[schema.Name] = schema
	return nil
}

func (shaderSystem *ShaderSystem) GetMaterialSchema(name string) (*metadata.MaterialSchema, error) {
	s, ok := shaderSystem.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, name)
	}
	return s, nil
}
