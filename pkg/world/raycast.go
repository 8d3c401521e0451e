package world

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Block face constants, as used by player action packets.
const (
	FaceBottom = 0 // -Y
	FaceTop    = 1 // +Y
	FaceNorth  = 2 // -Z
	FaceSouth  = 3 // +Z
	FaceWest   = 4 // -X
	FaceEast   = 5 // +X
)

var (
	// ErrZeroDirection is returned by Raycast for a zero direction vector.
	ErrZeroDirection = errors.New("raycast: zero direction vector")
	// ErrNegativeDistance is returned by Raycast for a negative maximum
	// distance.
	ErrNegativeDistance = errors.New("raycast: negative max distance")
)

// RayHit describes the first non-ignored solid block a ray crossed.
type RayHit struct {
	// X, Y, Z are the coordinates of the hit block.
	X, Y, Z int
	// Face is the face the ray entered through (Face* constants).
	Face int
	// Intersect is the point where the ray crossed that face.
	Intersect mgl64.Vec3
	// StateID is the block state at the hit position.
	StateID int32
}

// tieEpsilon breaks ties between boundary crossings: within it the X axis
// advances first, then Y, then Z.
const tieEpsilon = 1e-9

// Raycast walks the voxel grid from origin along direction (any length)
// and returns the first solid, non-ignored block within maxDistance, or
// nil when nothing is hit. Unloaded chunks read as air. A block containing
// the origin itself is reported with the face and distance of the first
// grid boundary the ray would cross.
func (s *Store) Raycast(origin, direction mgl64.Vec3, maxDistance float64, ignore func(stateID int32) bool) (*RayHit, error) {
	if maxDistance < 0 {
		return nil, ErrNegativeDistance
	}
	length := direction.Len()
	if length == 0 {
		return nil, ErrZeroDirection
	}
	dir := direction.Mul(1 / length)

	var (
		voxel  [3]int
		step   [3]int
		tMax   [3]float64
		tDelta [3]float64
	)
	for axis := 0; axis < 3; axis++ {
		voxel[axis] = int(math.Floor(origin[axis]))
		d := dir[axis]
		switch {
		case d > 0:
			step[axis] = 1
			tDelta[axis] = 1 / d
			tMax[axis] = (float64(voxel[axis]+1) - origin[axis]) / d
		case d < 0:
			step[axis] = -1
			tDelta[axis] = -1 / d
			tMax[axis] = (float64(voxel[axis]) - origin[axis]) / d
		default:
			tMax[axis] = math.Inf(1)
			tDelta[axis] = math.Inf(1)
		}
	}

	solid := func(x, y, z int) (int32, bool) {
		state := s.BlockStateID(x, y, z)
		if state == 0 {
			return 0, false
		}
		if ignore != nil && ignore(state) {
			return 0, false
		}
		return state, true
	}

	// A solid block at the origin is reported immediately, attributed to
	// the first boundary crossing.
	if state, ok := solid(voxel[0], voxel[1], voxel[2]); ok {
		axis := nextAxis(tMax)
		tHit := tMax[axis]
		if tHit > maxDistance {
			return nil, nil
		}
		return &RayHit{
			X: voxel[0], Y: voxel[1], Z: voxel[2],
			Face:      enterFace(axis, step[axis]),
			Intersect: origin.Add(dir.Mul(tHit)),
			StateID:   state,
		}, nil
	}

	maxSteps := int(maxDistance*3) + 9
	for i := 0; i < maxSteps; i++ {
		axis := nextAxis(tMax)
		tHit := tMax[axis]
		if tHit > maxDistance {
			return nil, nil
		}
		voxel[axis] += step[axis]
		tMax[axis] += tDelta[axis]

		if state, ok := solid(voxel[0], voxel[1], voxel[2]); ok {
			return &RayHit{
				X: voxel[0], Y: voxel[1], Z: voxel[2],
				Face:      enterFace(axis, step[axis]),
				Intersect: origin.Add(dir.Mul(tHit)),
				StateID:   state,
			}, nil
		}
	}
	return nil, nil
}

// nextAxis picks the axis with the smallest boundary distance, preferring
// X over Y over Z within tieEpsilon.
func nextAxis(tMax [3]float64) int {
	min := math.Min(tMax[0], math.Min(tMax[1], tMax[2]))
	switch {
	case tMax[0] <= min+tieEpsilon:
		return 0
	case tMax[1] <= min+tieEpsilon:
		return 1
	default:
		return 2
	}
}

// enterFace returns the face a ray enters a block through when stepping
// along the given axis: the face opposite the step direction.
func enterFace(axis, step int) int {
	switch axis {
	case 0:
		if step > 0 {
			return FaceWest
		}
		return FaceEast
	case 1:
		if step > 0 {
			return FaceBottom
		}
		return FaceTop
	default:
		if step > 0 {
			return FaceNorth
		}
		return FaceSouth
	}
}
