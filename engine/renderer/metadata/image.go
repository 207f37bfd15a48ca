package metadata

import (
	"fmt"

	"github.com/google/uuid"
)

/**
 * @brief An opaque reference to an image owned by the asset store.
 * Handles compare equal when they point at the same asset.
 */
type ImageHandle struct {
	id uuid.UUID
}

func NewImageHandle(id uuid.UUID) ImageHandle {
	return ImageHandle{id: id}
}

/** @brief The asset id the handle points at. */
func (h ImageHandle) ID() uuid.UUID {
	return h.id
}

func (h ImageHandle) IsValid() bool {
	return h.id != uuid.Nil
}

func (h ImageHandle) String() string {
	return h.id.String()
}

/** @brief Pixel layouts understood by the splat pipeline. */
type PixelFormat int

const (
	PixelFormatUnknown PixelFormat = iota
	/** @brief 8 bits per channel, 4 channels, linear. */
	PixelFormatRGBA8Unorm
	/** @brief 8 bits per channel, 4 channels, sRGB encoded. */
	PixelFormatRGBA8UnormSrgb
	/** @brief 16 bits per channel, 4 channels. */
	PixelFormatRGBA16Unorm
	/** @brief single 8 bit channel (occlusion, height). */
	PixelFormatR8Unorm
	/** @brief single 16 bit channel. */
	PixelFormatR16Unorm
	/** @brief two 8 bit channels (metallic-roughness). */
	PixelFormatRG8Unorm
)

// BytesPerPixel returns the storage size of one texel, or 0 for unknown formats.
func (f PixelFormat) BytesPerPixel() uint32 {
	switch f {
	case PixelFormatRGBA8Unorm, PixelFormatRGBA8UnormSrgb:
		return 4
	case PixelFormatRGBA16Unorm:
		return 8
	case PixelFormatR8Unorm:
		return 1
	case PixelFormatR16Unorm, PixelFormatRG8Unorm:
		return 2
	default:
		return 0
	}
}

func (f PixelFormat) String() string {
	switch f {
	case PixelFormatRGBA8Unorm:
		return "rgba8unorm"
	case PixelFormatRGBA8UnormSrgb:
		return "rgba8unorm-srgb"
	case PixelFormatRGBA16Unorm:
		return "rgba16unorm"
	case PixelFormatR8Unorm:
		return "r8unorm"
	case PixelFormatR16Unorm:
		return "r16unorm"
	case PixelFormatRG8Unorm:
		return "rg8unorm"
	default:
		return "unknown"
	}
}

/** @brief Where an image is expected to live once created. Bit flags. */
type AssetUsage uint8

const (
	AssetUsageMainWorld AssetUsage = 1 << iota
	AssetUsageRenderWorld
)

const AssetUsageDefault = AssetUsageMainWorld | AssetUsageRenderWorld

func (u AssetUsage) String() string {
	switch u {
	case AssetUsageMainWorld:
		return "main_world"
	case AssetUsageRenderWorld:
		return "render_world"
	case AssetUsageDefault:
		return "main_world|render_world"
	default:
		return fmt.Sprintf("usage(%d)", uint8(u))
	}
}

/**
 * @brief The subset of an image that must agree across texture layers.
 */
type ImageDescriptor struct {
	Width  uint32
	Height uint32
	Format PixelFormat
	Usage  AssetUsage
}

func (d ImageDescriptor) String() string {
	return fmt.Sprintf("%dx%d %s %s", d.Width, d.Height, d.Format, d.Usage)
}

/**
 * @brief A CPU side image as stored by the asset store.
 */
type ImageData struct {
	/** @brief The name of the image, usually the path it was loaded from. */
	Name string
	/** @brief The width of the image. */
	Width uint32
	/** @brief The height of the image. */
	Height uint32
	/** @brief The number of array layers. Stacked layer arrays keep this at 1. */
	LayerCount uint32
	/** @brief The pixel layout of Pixels. */
	Format PixelFormat
	/** @brief Where the image lives once created. */
	Usage AssetUsage
	/** @brief How the image is sampled. Nil means the backend default. */
	Sampler *SamplerDescriptor
	/** @brief The pixel data of the image, row-major, top to bottom. */
	Pixels []uint8
}

func (img *ImageData) Descriptor() ImageDescriptor {
	return ImageDescriptor{
		Width:  img.Width,
		Height: img.Height,
		Format: img.Format,
		Usage:  img.Usage,
	}
}

// ExpectedSize returns the byte length Pixels should have for the descriptor.
func (img *ImageData) ExpectedSize() int {
	layers := img.LayerCount
	if layers == 0 {
		layers = 1
	}
	return int(img.Width) * int(img.Height) * int(layers) * int(img.Format.BytesPerPixel())
}

/** @brief Parameters used when loading an image. */
type ImageResourceParams struct {
	/** @brief Indicates if the image should be flipped on the y-axis when loaded. */
	FlipY bool
	/** @brief Decode colour data as sRGB. */
	Srgb bool
}
