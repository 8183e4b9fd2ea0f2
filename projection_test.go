package tilegl

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestComputeBatchTransformForwardPassthrough(t *testing.T) {
	pos := mgl32.Translate3D(5, 7, 0)
	batch := ComputeBatchTransform(pos, mgl32.Ident4(), PlacementProjection{
		InvProj:  mgl32.Ident4(),
		Viewport: mgl32.Ident4(),
	})
	if batch.Forward != pos {
		t.Errorf("forward transform must be the tile pos matrix, got %v", batch.Forward)
	}
}

func TestComputeBatchTransformCompositionOrder(t *testing.T) {
	invProj := mgl32.Translate3D(1, 0, 0)
	glCoord := mgl32.Scale3D(2, 3, 1)
	viewport := mgl32.Translate3D(0, 5, 0)

	batch := ComputeBatchTransform(mgl32.Ident4(), glCoord, PlacementProjection{
		InvProj:  invProj,
		Viewport: viewport,
	})

	want := invProj.Mul4(glCoord).Mul4(viewport)
	if batch.Inverse != want {
		t.Errorf("inverse composite out of order:\ngot  %v\nwant %v", batch.Inverse, want)
	}
	// These matrices do not commute; the reversed order must differ.
	reversed := viewport.Mul4(glCoord).Mul4(invProj)
	if batch.Inverse == reversed {
		t.Error("inverse composite should not equal the reversed composition")
	}
}

func TestComputeBatchTransformDeterministic(t *testing.T) {
	tr := NewTransform(800, 600)
	tr.Zoom = 3.5
	tr.Bearing = 0.7
	tr.Pitch = 0.3
	tr.UpdateProjection()

	id := OverscaledTileID{Z: 3, X: 2, Y: 5, OverscaledZ: 3}
	placement := PlacementProjection{
		InvProj:  tr.PosMatrix(id).Inv(),
		Viewport: tr.PixelMatrix(),
	}

	a := ComputeBatchTransform(tr.PosMatrix(id), tr.GLCoordMatrix(), placement)
	b := ComputeBatchTransform(tr.PosMatrix(id), tr.GLCoordMatrix(), placement)
	if a != b {
		t.Error("identical inputs must yield bit-identical transforms")
	}
}

// With a placement snapshot taken under the same camera, the inverse
// composite must take a tile point's projected position back to its
// tile coordinates.
func TestBatchInverseRoundTripsStaticCamera(t *testing.T) {
	tr := NewTransform(1024, 768)
	tr.Zoom = 4
	tr.UpdateProjection()

	id := OverscaledTileID{Z: 4, X: 7, Y: 6, OverscaledZ: 4}
	posMatrix := tr.PosMatrix(id)
	placement := PlacementProjection{
		InvProj:  posMatrix.Inv(),
		Viewport: tr.PixelMatrix(),
	}
	batch := ComputeBatchTransform(posMatrix, tr.GLCoordMatrix(), placement)

	tilePoint := mgl32.Vec3{1200, 4500, 0}
	projected := mgl32.TransformCoordinate(tilePoint, posMatrix)
	back := mgl32.TransformCoordinate(projected, batch.Inverse)

	if !back.ApproxEqualThreshold(tilePoint, 0.1) {
		t.Errorf("round trip drifted: %v -> %v -> %v", tilePoint, projected, back)
	}
}
