package vulkan

import (
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/triplanar/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	f, err := Format(metadata.PixelFormatRGBA8UnormSrgb)
	require.NoError(t, err)
	assert.Equal(t, vk.FormatR8g8b8a8Srgb, f)
	assert.Equal(t, "VK_FORMAT_R8G8B8A8_SRGB", FormatName(f))

	_, err = Format(metadata.PixelFormatUnknown)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestSamplerCreateInfo(t *testing.T) {
	info := SamplerCreateInfo(nil)
	assert.Equal(t, vk.SamplerAddressModeRepeat, info.AddressModeU)
	assert.Equal(t, vk.SamplerAddressModeRepeat, info.AddressModeV)
	assert.Equal(t, vk.SamplerAddressModeRepeat, info.AddressModeW)
	assert.Equal(t, vk.FilterLinear, info.MinFilter)
	assert.Equal(t, vk.FilterLinear, info.MagFilter)
	assert.Equal(t, vk.SamplerMipmapModeLinear, info.MipmapMode)

	clamp := &metadata.SamplerDescriptor{
		RepeatU:      metadata.TextureRepeatClampToEdge,
		FilterMinify: metadata.TextureFilterModeNearest,
		FilterMipmap: metadata.TextureFilterModeNearest,
	}
	info = SamplerCreateInfo(clamp)
	assert.Equal(t, vk.SamplerAddressModeClampToEdge, info.AddressModeU)
	assert.Equal(t, vk.FilterNearest, info.MinFilter)
	assert.Equal(t, vk.SamplerMipmapModeNearest, info.MipmapMode)
}

func TestImageCreateInfoKeepsStackedLayout(t *testing.T) {
	img := &metadata.ImageData{Width: 4, Height: 8, LayerCount: 1, Format: metadata.PixelFormatRGBA8Unorm}
	info, err := ImageCreateInfo(img)
	require.NoError(t, err)
	assert.Equal(t, uint32(8), info.Extent.Height)
	assert.Equal(t, uint32(1), info.ArrayLayers)
	assert.Equal(t, vk.FormatR8g8b8a8Unorm, info.Format)
}
