package vulkan

import (
	"errors"
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/triplanar/engine/renderer/metadata"
)

var ErrUnsupportedFormat = errors.New("pixel format has no vulkan equivalent")

// Format returns the vulkan format backing a pixel format.
func Format(f metadata.PixelFormat) (vk.Format, error) {
	switch f {
	case metadata.PixelFormatRGBA8Unorm:
		return vk.FormatR8g8b8a8Unorm, nil
	case metadata.PixelFormatRGBA8UnormSrgb:
		return vk.FormatR8g8b8a8Srgb, nil
	case metadata.PixelFormatRGBA16Unorm:
		return vk.FormatR16g16b16a16Unorm, nil
	case metadata.PixelFormatR8Unorm:
		return vk.FormatR8Unorm, nil
	case metadata.PixelFormatR16Unorm:
		return vk.FormatR16Unorm, nil
	case metadata.PixelFormatRG8Unorm:
		return vk.FormatR8g8Unorm, nil
	default:
		return vk.FormatUndefined, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
}

// FormatName is the VK_FORMAT_* spelling used in logs.
func FormatName(f vk.Format) string {
	switch f {
	case vk.FormatR8g8b8a8Unorm:
		return "VK_FORMAT_R8G8B8A8_UNORM"
	case vk.FormatR8g8b8a8Srgb:
		return "VK_FORMAT_R8G8B8A8_SRGB"
	case vk.FormatR16g16b16a16Unorm:
		return "VK_FORMAT_R16G16B16A16_UNORM"
	case vk.FormatR8Unorm:
		return "VK_FORMAT_R8_UNORM"
	case vk.FormatR16Unorm:
		return "VK_FORMAT_R16_UNORM"
	case vk.FormatR8g8Unorm:
		return "VK_FORMAT_R8G8_UNORM"
	default:
		return fmt.Sprintf("VK_FORMAT(%d)", int32(f))
	}
}

func addressMode(r metadata.TextureRepeat) vk.SamplerAddressMode {
	switch r {
	case metadata.TextureRepeatMirroredRepeat:
		return vk.SamplerAddressModeMirroredRepeat
	case metadata.TextureRepeatClampToEdge:
		return vk.SamplerAddressModeClampToEdge
	case metadata.TextureRepeatClampToBorder:
		return vk.SamplerAddressModeClampToBorder
	default:
		return vk.SamplerAddressModeRepeat
	}
}

func filter(f metadata.TextureFilter) vk.Filter {
	if f == metadata.TextureFilterModeNearest {
		return vk.FilterNearest
	}
	return vk.FilterLinear
}

func mipmapMode(f metadata.TextureFilter) vk.SamplerMipmapMode {
	if f == metadata.TextureFilterModeNearest {
		return vk.SamplerMipmapModeNearest
	}
	return vk.SamplerMipmapModeLinear
}

// SamplerCreateInfo translates a sampler descriptor. A nil descriptor gets
// the repeating linear sampler.
func SamplerCreateInfo(s *metadata.SamplerDescriptor) vk.SamplerCreateInfo {
	if s == nil {
		s = metadata.RepeatLinearSampler()
	}
	return vk.SamplerCreateInfo{
		SType:                   vk.StructureTypeSamplerCreateInfo,
		MagFilter:               filter(s.FilterMagnify),
		MinFilter:               filter(s.FilterMinify),
		MipmapMode:              mipmapMode(s.FilterMipmap),
		AddressModeU:            addressMode(s.RepeatU),
		AddressModeV:            addressMode(s.RepeatV),
		AddressModeW:            addressMode(s.RepeatW),
		MaxAnisotropy:           1.0,
		BorderColor:             vk.BorderColorIntOpaqueBlack,
		UnnormalizedCoordinates: vk.False,
		CompareEnable:           vk.False,
		CompareOp:               vk.CompareOpAlways,
		MinLod:                  0.0,
		MaxLod:                  1000.0, // VK_LOD_CLAMP_NONE
	}
}

// ImageCreateInfo describes a sampled 2D image for the stored image data.
// Stacked layer textures stay a single array layer.
func ImageCreateInfo(img *metadata.ImageData) (vk.ImageCreateInfo, error) {
	format, err := Format(img.Format)
	if err != nil {
		return vk.ImageCreateInfo{}, err
	}
	layers := img.LayerCount
	if layers == 0 {
		layers = 1
	}
	return vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Format:    format,
		Extent: vk.Extent3D{
			Width:  img.Width,
			Height: img.Height,
			Depth:  1,
		},
		MipLevels:     1,
		ArrayLayers:   layers,
		Samples:       vk.SampleCount1Bit,
		Tiling:        vk.ImageTilingOptimal,
		Usage:         vk.ImageUsageFlags(vk.ImageUsageSampledBit | vk.ImageUsageTransferDstBit),
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}, nil
}
