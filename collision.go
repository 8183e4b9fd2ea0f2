package tilegl

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// CollisionCircle is one per-glyph collision-test anchor as computed by
// the placement subsystem. X/Y are the circle center's projected screen
// position at placement time (clip space, after perspective divide);
// Radius is in pixels; Collision is 1 when the glyph failed placement,
// 0 otherwise. The four floats are uploaded verbatim as one quad's
// properties.
type CollisionCircle struct {
	X         float32
	Y         float32
	Radius    float32
	Collision float32
}

// CollisionCircleArray is the ordered, append-only circle sequence of
// one tile's bucket. The render path only ever reads it; placement owns
// all writes and stops mutating before the frame starts.
type CollisionCircleArray struct {
	circles []CollisionCircle
}

func (a *CollisionCircleArray) Append(circles ...CollisionCircle) {
	a.circles = append(a.circles, circles...)
}

func (a *CollisionCircleArray) Len() int {
	return len(a.circles)
}

func (a *CollisionCircleArray) At(i int) CollisionCircle {
	return a.circles[i]
}

// PlacementProjection is the projection snapshot the placement
// subsystem used when it computed circle screen positions. It is stale
// relative to the camera by the time the frame renders; the circle path
// compensates with the batch inverse transform.
type PlacementProjection struct {
	// InvProj inverts the tile projection that was current at placement
	// time (clip space back to tile units).
	InvProj mgl32.Mat4
	// Viewport maps placement-time clip space to screen pixels.
	Viewport mgl32.Mat4
	// Generation tags the placement pass that produced this snapshot.
	Generation uuid.UUID
}

// CollisionBuffers is a bucket's pre-built wireframe-box geometry,
// GPU-ready line segments in tile units.
type CollisionBuffers struct {
	Vertex  GeometryBuffer
	Index   GeometryBuffer
	Segment SegmentSpec
}

// SymbolBucket is the per-tile, per-layer output of symbol placement
// that the debug overlay consumes. Any of the buffer sets may be nil
// when the tile has no such geometry.
type SymbolBucket struct {
	TextCollisionBox *CollisionBuffers
	IconCollisionBox *CollisionBuffers
	Circles          CollisionCircleArray
	Placement        PlacementProjection
}
