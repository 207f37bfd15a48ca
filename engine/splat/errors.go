package splat

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/triplanar/engine/renderer/metadata"
)

var (
	ErrLayerCount         = errors.New("layer path count does not match layer count")
	ErrLayersNotLoaded    = errors.New("not every layer has finished loading")
	ErrUnresolvableHandle = errors.New("image handle cannot be resolved")
	ErrMismatchedLayer    = errors.New("texture layers do not match")
	ErrLayerDataSize      = errors.New("layer pixel data does not match its descriptor")
	ErrAlreadySpawned     = errors.New("material entity already spawned")
	ErrLayerLoadFailed    = errors.New("texture layer failed to load")
	ErrArrayLayer         = errors.New("texture layer is already an array")
)

// MismatchedLayerError reports the first layer whose descriptor differs from layer 0.
type MismatchedLayerError struct {
	Index    int
	Expected metadata.ImageDescriptor
	Actual   metadata.ImageDescriptor
}

func (e *MismatchedLayerError) Error() string {
	return fmt.Sprintf("layer %d is %s, layer 0 is %s", e.Index, e.Actual, e.Expected)
}

func (e *MismatchedLayerError) Is(target error) bool {
	return target == ErrMismatchedLayer
}
