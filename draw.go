package tilegl

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

type PrimitiveType uint8

const (
	PrimitiveTriangles PrimitiveType = iota
	PrimitiveLines
)

// IndicesPerPrimitive reports how many index-buffer entries one
// primitive of this type consumes.
func (p PrimitiveType) IndicesPerPrimitive() int {
	if p == PrimitiveLines {
		return 2
	}
	return 3
}

type DepthMode uint8

const (
	DepthDisabled DepthMode = iota
	DepthReadOnly
	DepthReadWrite
)

type StencilMode uint8

const (
	StencilDisabled StencilMode = iota
	StencilTest
)

type ColorMode uint8

const (
	ColorUnblended ColorMode = iota
	ColorAlphaBlended
)

type CullMode uint8

const (
	CullNone CullMode = iota
	CullBack
)

// SegmentSpec selects the window of a vertex/index buffer pair that one
// draw call covers. Offsets and counts are in vertices and primitives,
// not raw indices.
type SegmentSpec struct {
	VertexOffset    int
	VertexCount     int
	PrimitiveOffset int
	PrimitiveCount  int
}

// GeometryBuffer is a write-once GPU geometry buffer handle. Contents
// are fixed at creation; only the owner may Release it.
type GeometryBuffer interface {
	// Len reports the number of elements the buffer was created with.
	Len() int
	Release()
}

// QuadVertex is one corner of the shared circle-quad template. The
// vertex stores its own sequential index twice as a two-component
// integer attribute; the shader derives quad index and corner from it.
type QuadVertex struct {
	ID [2]int16 `tilegl:"layout" format:"short2" location:"0"`
}

// BoxVertex is one corner of a collision wireframe box: an anchor point
// in tile units plus a pixel-space extrusion direction.
type BoxVertex struct {
	Pos     [2]float32 `tilegl:"layout" format:"float2" location:"0"`
	Extrude [2]float32 `tilegl:"layout" format:"float2" location:"1"`
}

// Device creates geometry buffers. Implemented by the wgpu backend and
// by test fakes.
type Device interface {
	CreateQuadVertexBuffer(label string, vertices []QuadVertex) GeometryBuffer
	CreateBoxVertexBuffer(label string, vertices []BoxVertex) GeometryBuffer
	CreateIndexBuffer(label string, indices []uint16) GeometryBuffer
}

// CollisionBoxUniforms is the uniform payload of one wireframe-box draw
// call.
type CollisionBoxUniforms struct {
	Matrix                 mgl32.Mat4
	ExtrudeScale           [2]float32
	CameraToCenterDistance float32
	Color                  color.RGBA
	CollisionColor         color.RGBA
}

// CollisionCircleUniforms is the uniform payload of one circle-batch
// draw call. QuadProperties views the packer's scratch buffer and is
// valid only until the Draw call it was passed to returns; the scratch
// is overwritten by the next batch.
type CollisionCircleUniforms struct {
	Matrix                 mgl32.Mat4
	InvMatrix              mgl32.Mat4
	ViewportSize           [2]float32
	CameraToCenterDistance float32
	Color                  color.RGBA
	CollisionColor         color.RGBA
	QuadProperties         []float32
}

// DrawCall is one submission to the GPU abstraction layer.
type DrawCall struct {
	Primitive PrimitiveType
	Depth     DepthMode
	Stencil   StencilMode
	Color     ColorMode
	Cull      CullMode
	Uniforms  any
	LayerID   string
	Vertex    GeometryBuffer
	Index     GeometryBuffer
	Segment   SegmentSpec
	Zoom      float64
}

// DrawTarget consumes draw calls. Implementations must not retain the
// uniform payload past the call; slices inside it alias reused scratch.
type DrawTarget interface {
	Draw(call DrawCall)
}
