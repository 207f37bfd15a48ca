// Package plugin registers the splat material kind with a shader registry:
// the packed weights attribute, one shader and pipeline per projection and the
// material schema binding them together.
package plugin

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/google/uuid"
	"github.com/spaghettifunk/triplanar/engine/assets/loaders"
	"github.com/spaghettifunk/triplanar/engine/core"
	"github.com/spaghettifunk/triplanar/engine/renderer/metadata"
	"github.com/spaghettifunk/triplanar/engine/splat"
)

//go:embed shaders/triplanar.wgsl
var triplanarShaderWGSL string

//go:embed shaders/biplanar.wgsl
var biplanarShaderWGSL string

var ErrShaderCompile = errors.New("shader compilation failed")

var (
	TRIPLANAR_SHADER_HANDLE = uuid.MustParse("0cdc37f0-b08f-42f9-8e80-368e3b79484d")
	BIPLANAR_SHADER_HANDLE  = uuid.MustParse("c4884a47-d77a-45bc-96d1-56c3ff4c0811")
)

const (
	TriplanarShaderName   = "shader.builtin.triplanar"
	BiplanarShaderName    = "shader.builtin.biplanar"
	TriplanarPipelineName = "pipeline.splat.triplanar"
	BiplanarPipelineName  = "pipeline.splat.biplanar"

	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

// Registry is the part of the shader system the plugin installs into.
type Registry interface {
	CreateShader(config *metadata.ShaderConfig, spirv []uint32) (*metadata.Shader, error)
	RegisterVertexAttribute(attr metadata.VertexAttribute) error
	RegisterPipeline(config *metadata.PipelineConfig) error
	RegisterMaterialSchema(schema *metadata.MaterialSchema) error
}

// ShaderSource is one embedded WGSL module.
type ShaderSource struct {
	Handle     uuid.UUID
	Name       string
	Pipeline   string
	Projection metadata.Projection
	Source     string
}

// Shaders lists the embedded modules, triplanar first.
func Shaders() []ShaderSource {
	return []ShaderSource{
		{
			Handle:     TRIPLANAR_SHADER_HANDLE,
			Name:       TriplanarShaderName,
			Pipeline:   TriplanarPipelineName,
			Projection: metadata.ProjectionTriplanar,
			Source:     triplanarShaderWGSL,
		},
		{
			Handle:     BIPLANAR_SHADER_HANDLE,
			Name:       BiplanarShaderName,
			Pipeline:   BiplanarPipelineName,
			Projection: metadata.ProjectionBiplanar,
			Source:     biplanarShaderWGSL,
		},
	}
}

// CompileShader turns WGSL source into SPIR-V words.
func CompileShader(name, source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrShaderCompile, name, err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("shader %s: SPIR-V length %d is not word aligned", name, len(spirvBytes))
	}
	return loaders.BytesToBytecode(spirvBytes), nil
}

// MaterialSchema describes the bindings of the splat material.
func MaterialSchema() *metadata.MaterialSchema {
	pipelines := make(map[metadata.Projection]string)
	for _, s := range Shaders() {
		pipelines[s.Projection] = s.Pipeline
	}
	return &metadata.MaterialSchema{
		Name: metadata.TriplanarMaterialName,
		Textures: []metadata.TextureUse{
			metadata.TextureUseBaseColor,
			metadata.TextureUseOcclusion,
			metadata.TextureUseNormalMap,
			metadata.TextureUseMetallicRoughness,
		},
		Attributes: []metadata.VertexAttribute{splat.ATTRIBUTE_MATERIAL_WEIGHTS},
		Pipelines:  pipelines,
	}
}

// Install compiles both shaders and registers everything the splat material
// needs. It fails on the first registration error.
func Install(registry Registry) error {
	if err := registry.RegisterVertexAttribute(splat.ATTRIBUTE_MATERIAL_WEIGHTS); err != nil {
		return err
	}

	for _, s := range Shaders() {
		spirv, err := CompileShader(s.Name, s.Source)
		if err != nil {
			return err
		}
		stages := []metadata.ShaderStage{metadata.ShaderStageVertex, metadata.ShaderStageFragment}
		if _, err := registry.CreateShader(&metadata.ShaderConfig{Name: s.Name, Source: s.Source, Stages: stages}, spirv); err != nil {
			return err
		}
		if err := registry.RegisterPipeline(&metadata.PipelineConfig{
			Name:               s.Pipeline,
			ShaderName:         s.Name,
			VertexEntryPoint:   VertexEntryPoint,
			FragmentEntryPoint: FragmentEntryPoint,
			Attributes:         []metadata.VertexAttribute{splat.ATTRIBUTE_MATERIAL_WEIGHTS},
		}); err != nil {
			return err
		}
		core.LogDebug("installed %s shader %s (%d words)", s.Projection, s.Handle, len(spirv))
	}

	return registry.RegisterMaterialSchema(MaterialSchema())
}
