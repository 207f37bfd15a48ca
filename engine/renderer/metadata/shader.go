package metadata

/** @brief Shader stages. */
type ShaderStage int

const (
	ShaderStageVertex   ShaderStage = 0x1
	ShaderStageFragment ShaderStage = 0x2
)

func (s ShaderStage) String() string {
	switch s {
	case ShaderStageVertex:
		return "vertex"
	case ShaderStageFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

/**
 * @brief Represents the current state of a given shader.
 */
type ShaderState int

const (
	/** @brief The shader has not yet gone through the creation process, and is unusable.*/
	SHADER_STATE_NOT_CREATED ShaderState = iota
	/** @brief The shader is compiled and ready for use.*/
	SHADER_STATE_INITIALIZED
)

/**
 * @brief Source for one shader module.
 */
type ShaderConfig struct {
	/** @brief The name of the shader to be created. */
	Name string
	/** @brief WGSL source text. */
	Source string
	/** @brief The stages the module provides entry points for. */
	Stages []ShaderStage
}

/**
 * @brief A compiled shader module.
 */
type Shader struct {
	/** @brief The shader identifier */
	ID     uint32
	Name   string
	State  ShaderState
	Stages []ShaderStage
	/** @brief SPIR-V words. */
	SPIRV []uint32
}

/**
 * @brief A render pipeline built from a compiled shader module.
 */
type PipelineConfig struct {
	Name               string
	ShaderName         string
	VertexEntryPoint   string
	FragmentEntryPoint string
	/** @brief Vertex attributes in location order. */
	Attributes []VertexAttribute
}
