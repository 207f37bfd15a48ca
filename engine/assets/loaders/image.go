package loaders

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/spaghettifunk/triplanar/engine/renderer/metadata"
)

var ErrEmptyImage = errors.New("image has no pixels")

// ImageLoader decodes png, jpeg, bmp, tiff and webp files into RGBA8 image data.
type ImageLoader struct{}

func (il *ImageLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	typedParams, ok := params.(*metadata.ImageResourceParams)
	if !ok || typedParams == nil {
		typedParams = &metadata.ImageResourceParams{}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode image %q: %w", path, err)
	}

	data, err := ImageDataFromImage(filepath.ToSlash(path), img, typedParams)
	if err != nil {
		return nil, fmt.Errorf("image %q (%s): %w", path, format, err)
	}

	return &metadata.Resource{
		Name:     data.Name,
		FullPath: path,
		Type:     metadata.ResourceTypeImage,
		DataSize: uint64(len(data.Pixels)),
		Data:     data,
	}, nil
}

func (il *ImageLoader) Unload(res *metadata.Resource) error {
	if res != nil {
		res.Data = nil
		res.DataSize = 0
	}
	return nil
}

// ImageDataFromImage converts any decoded image into tightly packed RGBA8 rows.
func ImageDataFromImage(name string, img image.Image, params *metadata.ImageResourceParams) (*metadata.ImageData, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, ErrEmptyImage
	}

	rgba := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	pixels := rgba.Pix
	if params != nil && params.FlipY {
		pixels = flipRows(pixels, rgba.Stride, bounds.Dy())
	}

	format := metadata.PixelFormatRGBA8Unorm
	if params != nil && params.Srgb {
		format = metadata.PixelFormatRGBA8UnormSrgb
	}

	return &metadata.ImageData{
		Name:       name,
		Width:      uint32(bounds.Dx()),
		Height:     uint32(bounds.Dy()),
		LayerCount: 1,
		Format:     format,
		Usage:      metadata.AssetUsageDefault,
		Pixels:     pixels,
	}, nil
}

func flipRows(pix []uint8, stride, rows int) []uint8 {
	out := make([]uint8, len(pix))
	for y := 0; y < rows; y++ {
		copy(out[y*stride:(y+1)*stride], pix[(rows-1-y)*stride:(rows-y)*stride])
	}
	return out
}
