package tilegl

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// TranslateAnchor selects the space a layer's translate offset is
// expressed in.
type TranslateAnchor uint8

const (
	// AnchorMap keeps the offset fixed relative to the map, so it
	// rotates on screen with the bearing.
	AnchorMap TranslateAnchor = iota
	// AnchorViewport keeps the offset fixed relative to the screen.
	AnchorViewport
)

const defaultFieldOfView = 0.6435011087932844 // ~36.87 degrees

// Transform is the current map camera. Mutate the exported fields, then
// call UpdateProjection before the next frame; the per-frame draw paths
// only read derived state.
type Transform struct {
	Width   float64 // viewport width in pixels
	Height  float64 // viewport height in pixels
	Zoom    float64
	Bearing float64 // radians, clockwise from north
	Pitch   float64 // radians
	FOV     float64 // vertical field of view in radians

	// Fractional map center in [0,1) world coordinates.
	CenterX float64
	CenterY float64

	projMatrix             mgl32.Mat4
	glCoordMatrix          mgl32.Mat4
	pixelMatrix            mgl32.Mat4
	cameraToCenterDistance float64
}

func NewTransform(width, height int) *Transform {
	t := &Transform{
		Width:   float64(width),
		Height:  float64(height),
		FOV:     defaultFieldOfView,
		CenterX: 0.5,
		CenterY: 0.5,
	}
	t.UpdateProjection()
	return t
}

// worldSize is the map's side length in pixels at the current zoom.
func (t *Transform) worldSize() float64 {
	return TileSize * math.Pow(2, t.Zoom)
}

// UpdateProjection recomputes all derived matrices from the camera
// fields. Call after any field change; the draw paths treat the result
// as an immutable snapshot for the frame.
func (t *Transform) UpdateProjection() {
	if t.FOV == 0 {
		t.FOV = defaultFieldOfView
	}
	halfFov := t.FOV / 2
	t.cameraToCenterDistance = 0.5 / math.Tan(halfFov) * t.Height

	// Far plane: distance to the horizon-most visible ground point,
	// padded slightly to avoid z-fighting at the edge.
	groundAngle := math.Pi/2 + t.Pitch
	topHalfSurfaceDistance := math.Sin(halfFov) * t.cameraToCenterDistance /
		math.Sin(math.Pi-groundAngle-halfFov)
	farZ := (math.Cos(math.Pi/2-t.Pitch)*topHalfSurfaceDistance + t.cameraToCenterDistance) * 1.01

	proj := mgl32.Perspective(float32(t.FOV), float32(t.Width/t.Height), 1, float32(farZ))
	proj = proj.Mul4(mgl32.Scale3D(1, -1, 1))
	proj = proj.Mul4(mgl32.Translate3D(0, 0, float32(-t.cameraToCenterDistance)))
	proj = proj.Mul4(mgl32.HomogRotate3DX(float32(t.Pitch)))
	proj = proj.Mul4(mgl32.HomogRotate3DZ(float32(t.Bearing)))

	ws := t.worldSize()
	proj = proj.Mul4(mgl32.Translate3D(float32(-t.CenterX*ws), float32(-t.CenterY*ws), 0))
	t.projMatrix = proj

	// Clip space to screen pixels and back.
	t.pixelMatrix = mgl32.Scale3D(float32(t.Width)/2, -float32(t.Height)/2, 1).
		Mul4(mgl32.Translate3D(1, -1, 0))
	t.glCoordMatrix = mgl32.Translate3D(-1, 1, 0).
		Mul4(mgl32.Scale3D(2/float32(t.Width), -2/float32(t.Height), 1))
}

// CameraToCenterDistance is the eye distance to the map center, in
// pixels.
func (t *Transform) CameraToCenterDistance() float32 {
	return float32(t.cameraToCenterDistance)
}

// GLCoordMatrix maps screen pixels to clip coordinates.
func (t *Transform) GLCoordMatrix() mgl32.Mat4 {
	return t.glCoordMatrix
}

// PixelMatrix maps clip coordinates to screen pixels. Placement
// snapshots this as its viewport matrix.
func (t *Transform) PixelMatrix() mgl32.Mat4 {
	return t.pixelMatrix
}

// PixelsToGLUnits is the per-axis scale from screen pixels to clip
// units, used to extrude constant-width outlines.
func (t *Transform) PixelsToGLUnits() [2]float32 {
	return [2]float32{float32(2 / t.Width), float32(2 / t.Height)}
}

// PosMatrix maps the tile's local coordinates (tile units) into current
// clip space.
func (t *Transform) PosMatrix(id OverscaledTileID) mgl32.Mat4 {
	s := t.worldSize() / math.Pow(2, float64(id.Z))
	x := float64(id.X) * s
	y := float64(id.Y) * s
	tileMatrix := mgl32.Translate3D(float32(x), float32(y), 0).
		Mul4(mgl32.Scale3D(float32(s/TileExtent), float32(s/TileExtent), 1))
	return t.projMatrix.Mul4(tileMatrix)
}

// PixelsToTileUnits converts a pixel length into the tile's local
// units at the current zoom.
func (t *Transform) PixelsToTileUnits(id OverscaledTileID, pixels float32) float32 {
	return pixels * float32(TileExtent/(TileSize*math.Pow(2, t.Zoom-float64(id.OverscaledZ))))
}

// TranslatePosMatrix applies a layer's translate offset to a tile
// position matrix. A zero offset returns the matrix unchanged. With the
// viewport anchor the offset is counter-rotated by the bearing so it
// stays fixed on screen.
func (t *Transform) TranslatePosMatrix(matrix mgl32.Mat4, id OverscaledTileID, translate [2]float32, anchor TranslateAnchor) mgl32.Mat4 {
	if translate[0] == 0 && translate[1] == 0 {
		return matrix
	}
	offset := translate
	if anchor == AnchorViewport {
		s := float32(math.Sin(-t.Bearing))
		c := float32(math.Cos(-t.Bearing))
		offset = [2]float32{
			translate[0]*c - translate[1]*s,
			translate[0]*s + translate[1]*c,
		}
	}
	return matrix.Mul4(mgl32.Translate3D(
		t.PixelsToTileUnits(id, offset[0]),
		t.PixelsToTileUnits(id, offset[1]),
		0,
	))
}
