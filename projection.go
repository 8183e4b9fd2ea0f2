package tilegl

import "github.com/go-gl/mathgl/mgl32"

// BatchTransform carries the two matrices shared by every circle batch
// of one tile in one frame.
type BatchTransform struct {
	// Forward is the tile's current position matrix (tile units to
	// clip space).
	Forward mgl32.Mat4
	// Inverse maps a circle's placement-time projected position back
	// into tile units under the current camera. Applied right to left:
	// the placement viewport matrix takes it to screen pixels, the
	// current screen-to-clip matrix re-normalizes those pixels, and the
	// placement inverse projection lands in tile units. When the camera
	// has not moved the composite collapses to the inverse projection.
	Inverse mgl32.Mat4
}

// ComputeBatchTransform builds the re-projection for one tile. Pure:
// identical inputs yield a bit-identical result. Computed once per tile
// per frame, never per quad.
func ComputeBatchTransform(posMatrix, glCoordMatrix mgl32.Mat4, placement PlacementProjection) BatchTransform {
	return BatchTransform{
		Forward: posMatrix,
		Inverse: placement.InvProj.Mul4(glCoordMatrix).Mul4(placement.Viewport),
	}
}
