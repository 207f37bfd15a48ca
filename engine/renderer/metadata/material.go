package metadata

import "github.com/google/uuid"

/** @brief The name of the splat material schema. */
const TriplanarMaterialName string = "triplanar_material"

/** @brief Selects the shader variant a material is drawn with. */
type Projection int

const (
	/** @brief Samples all three axis projections. */
	ProjectionTriplanar Projection = iota
	/** @brief Samples only the two dominant projections; cheaper. */
	ProjectionBiplanar
)

func (p Projection) String() string {
	if p == ProjectionBiplanar {
		return "biplanar"
	}
	return "triplanar"
}

type AlphaMode int

const (
	AlphaModeOpaque AlphaMode = iota
	AlphaModeMask
	AlphaModeBlend
)

type CullMode int

const (
	CullModeBack CullMode = iota
	CullModeFront
	CullModeNone
)

/**
 * @brief A PBR material whose textures hold N stacked layers, blended per
 * vertex by the packed MaterialWeights attribute.
 */
type TriplanarMaterial struct {
	/** @brief Multiplied with the base colour texture. */
	BaseColor        [4]float32
	BaseColorTexture *TextureMap
	Emissive         [4]float32
	EmissiveTexture  *TextureMap
	/** @brief Linear perceptual roughness, clamped to [0.089, 1.0] by the shader. */
	PerceptualRoughness float32
	Metallic            float32
	/** @brief Metallic in B, roughness in G. */
	MetallicRoughnessTexture *TextureMap
	/** @brief Specular intensity for non-metals, 0.5 is 4% reflectance. */
	Reflectance      float32
	NormalMapTexture *TextureMap
	FlipNormalMapY   bool
	OcclusionTexture *TextureMap
	DoubleSided      bool
	CullMode         CullMode
	Unlit            bool
	AlphaMode        AlphaMode
	AlphaCutoff      float32
	DepthBias        float32
	/** @brief World units per texture repeat. */
	UVScale    float32
	Projection Projection
	/** @brief Number of layers stacked in each texture. */
	LayerCount uint32
}

// DefaultTriplanarMaterial mirrors the standard PBR defaults.
func DefaultTriplanarMaterial() *TriplanarMaterial {
	return &TriplanarMaterial{
		BaseColor:           [4]float32{1, 1, 1, 1},
		Emissive:            [4]float32{0, 0, 0, 1},
		PerceptualRoughness: 0.5,
		Metallic:            0.0,
		Reflectance:         0.5,
		CullMode:            CullModeBack,
		AlphaMode:           AlphaModeOpaque,
		AlphaCutoff:         0.5,
		UVScale:             1.0,
		Projection:          ProjectionTriplanar,
		LayerCount:          1,
	}
}

// Textures returns the bound texture maps in binding order, skipping unset ones.
func (m *TriplanarMaterial) Textures() []*TextureMap {
	out := make([]*TextureMap, 0, 5)
	for _, t := range []*TextureMap{m.BaseColorTexture, m.EmissiveTexture, m.MetallicRoughnessTexture, m.OcclusionTexture, m.NormalMapTexture} {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}

type MaterialHandle struct {
	ID uuid.UUID
}

/**
 * @brief Describes the bindings a material kind exposes to its pipeline.
 */
type MaterialSchema struct {
	Name string
	/** @brief Texture uses in binding order. */
	Textures []TextureUse
	/** @brief Custom vertex attributes the material requires. */
	Attributes []VertexAttribute
	/** @brief Pipeline name per projection. */
	Pipelines map[Projection]string
}
