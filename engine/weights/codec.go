// Package weights packs per-vertex material blend weights into a single
// uint32 attribute. Lane 0 occupies bits 0-7, lane 3 bits 24-31; the splat
// shaders unpack in the same order.
package weights

import (
	"errors"
	"fmt"
	m "math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/triplanar/engine/math"
)

const (
	// LaneCount is the number of material identities one vertex can blend.
	LaneCount = 4
	// MaxLane is the value of a fully weighted lane.
	MaxLane = 255
	// Epsilon keeps SoftThreshold away from its poles at 0 and 1.
	Epsilon float32 = 1e-6
)

var ErrLaneOverflow = errors.New("weight lane out of range [0, 255]")

// Lanes holds the four 8 bit blend weights of one vertex.
type Lanes [LaneCount]uint8

// SignedToUnsigned maps [-1, 1] linearly onto [0, 1].
func SignedToUnsigned(x float32) float32 {
	return 0.5 * (x + 1.0)
}

// SoftThreshold is a logistic style curve on (0, 1) that pushes values
// toward 0 or 1 as sharpness grows; 0.5 stays at 0.5. Inputs are clamped to
// [Epsilon, 1-Epsilon] so the result is always finite.
func SoftThreshold(x, sharpness float32) float32 {
	if m.IsNaN(float64(x)) {
		x = 0.5
	}
	x = math.Clamp(x, Epsilon, 1-Epsilon)
	ratio := float64(x) / float64(1-x)
	y := float32(1.0 / (1.0 + m.Pow(ratio, float64(-sharpness))))
	if !math.IsFinite(y) {
		// only reachable for extreme sharpness; the curve has saturated
		if x < 0.5 {
			return 0
		}
		return 1
	}
	return y
}

// Quantize rounds a unit weight to an 8 bit lane.
func Quantize(y float32) uint8 {
	if m.IsNaN(float64(y)) {
		return 0
	}
	return uint8(m.Round(float64(math.Saturate(y) * MaxLane)))
}

// Complement returns the weight that makes w0 and the result sum to 255.
func Complement(w0 uint8) uint8 {
	return MaxLane - w0
}

// Pack encodes the four lanes, lane 0 in the low byte.
func Pack(l Lanes) uint32 {
	return uint32(l[0]) | uint32(l[1])<<8 | uint32(l[2])<<16 | uint32(l[3])<<24
}

// Unpack is the inverse of Pack and matches the shader side decoding.
func Unpack(v uint32) Lanes {
	return Lanes{
		uint8(v & 0xff),
		uint8((v >> 8) & 0xff),
		uint8((v >> 16) & 0xff),
		uint8((v >> 24) & 0xff),
	}
}

// LanesFromInts validates untyped lane values, rejecting anything that would
// spill into a neighbouring lane.
func LanesFromInts(w [LaneCount]int) (Lanes, error) {
	var l Lanes
	for i, v := range w {
		if v < 0 || v > MaxLane {
			return Lanes{}, fmt.Errorf("%w: lane %d = %d", ErrLaneOverflow, i, v)
		}
		l[i] = uint8(v)
	}
	return l, nil
}

// SaturateLanes clamps untyped lane values into range instead of rejecting them.
func SaturateLanes(w [LaneCount]int) Lanes {
	var l Lanes
	for i, v := range w {
		l[i] = uint8(math.Clamp(v, 0, MaxLane))
	}
	return l
}

// Normalized returns the lanes as unit weights, the same values the shader sees.
func (l Lanes) Normalized() [LaneCount]float32 {
	var out [LaneCount]float32
	for i, v := range l {
		out[i] = float32(v) / MaxLane
	}
	return out
}

// LaneLayer is the stacked texture layer lane is sampled from in a material
// with the given layer count. Lanes past the last layer fold onto it, which
// puts lane 2 of a two layer material on layer 1. The splat shaders use the
// same mapping.
func LaneLayer(lane, layers int) int {
	if layers < 1 {
		return 0
	}
	return min(lane, layers-1)
}

// LayerWeights sums the lanes that land on each of the given layers.
func (l Lanes) LayerWeights(layers int) []uint32 {
	if layers < 1 {
		layers = 1
	}
	out := make([]uint32, layers)
	for lane, v := range l {
		out[LaneLayer(lane, layers)] += uint32(v)
	}
	return out
}

// BlendWeight computes the packed two material weight for a vertex normal:
// lane 0 grows as the normal turns toward axis, lane 2 takes the remainder,
// lanes 1 and 3 stay empty.
func BlendWeight(normal, axis mgl32.Vec3, sharpness float32) uint32 {
	w := SoftThreshold(SignedToUnsigned(normal.Dot(axis)), sharpness)
	w0 := Quantize(w)
	w1 := Complement(w0)
	return Pack(Lanes{w0, 0, w1, 0})
}

// BlendWeights runs BlendWeight over every normal, preserving order and length.
func BlendWeights(normals []mgl32.Vec3, axis mgl32.Vec3, sharpness float32) []uint32 {
	out := make([]uint32, len(normals))
	for i, n := range normals {
		out[i] = BlendWeight(n, axis, sharpness)
	}
	return out
}
