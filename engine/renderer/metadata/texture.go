package metadata

/** @brief Represents supported texture filtering modes. */
type TextureFilter int

const (
	/** @brief Nearest-neighbor filtering. */
	TextureFilterModeNearest TextureFilter = 0x0
	/** @brief Linear (i.e. bilinear) filtering.*/
	TextureFilterModeLinear TextureFilter = 0x1
)

type TextureRepeat int

const (
	TextureRepeatRepeat         TextureRepeat = 0x1
	TextureRepeatMirroredRepeat TextureRepeat = 0x2
	TextureRepeatClampToEdge    TextureRepeat = 0x3
	TextureRepeatClampToBorder  TextureRepeat = 0x4
)

/**
 * @brief How a texture is sampled.
 */
type SamplerDescriptor struct {
	/** @brief The repeat mode on the U axis (or X, or S) */
	RepeatU TextureRepeat
	/** @brief The repeat mode on the V axis (or Y, or T) */
	RepeatV TextureRepeat
	/** @brief The repeat mode on the W axis (or Z, or U) */
	RepeatW TextureRepeat
	/** @brief Texture filtering mode for minification. */
	FilterMinify TextureFilter
	/** @brief Texture filtering mode for magnification. */
	FilterMagnify TextureFilter
	/** @brief Texture filtering mode between mip levels. */
	FilterMipmap TextureFilter
}

// RepeatLinearSampler is the sampler every splat layer uses: tiled in all
// directions and linearly filtered.
func RepeatLinearSampler() *SamplerDescriptor {
	return &SamplerDescriptor{
		RepeatU:       TextureRepeatRepeat,
		RepeatV:       TextureRepeatRepeat,
		RepeatW:       TextureRepeatRepeat,
		FilterMinify:  TextureFilterModeLinear,
		FilterMagnify: TextureFilterModeLinear,
		FilterMipmap:  TextureFilterModeLinear,
	}
}

/** @brief A collection of texture uses */
type TextureUse int

const (
	/** @brief An unknown use. This is default, but should never actually be used. */
	TextureUseUnknown TextureUse = iota
	/** @brief Base colour (albedo) layers. */
	TextureUseBaseColor
	/** @brief Ambient occlusion layers. */
	TextureUseOcclusion
	/** @brief Tangent space normal map layers. */
	TextureUseNormalMap
	/** @brief Metallic (B) roughness (G) layers. */
	TextureUseMetallicRoughness
	/** @brief Emissive layers. */
	TextureUseEmissive
)

func (u TextureUse) String() string {
	switch u {
	case TextureUseBaseColor:
		return "base_color"
	case TextureUseOcclusion:
		return "occlusion"
	case TextureUseNormalMap:
		return "normal_map"
	case TextureUseMetallicRoughness:
		return "metal_rough"
	case TextureUseEmissive:
		return "emissive"
	default:
		return "unknown"
	}
}

/**
 * @brief A structure which maps a merged layer texture to its use.
 */
type TextureMap struct {
	/** @brief The merged texture. */
	Texture ImageHandle
	/** @brief The Use of the texture */
	Use TextureUse
	/** @brief How many layers are stacked along the texture height. */
	LayerCount uint32
}
