package tilegl

import (
	"image/color"

	"golang.org/x/image/colornames"
)

// CollisionDebugStyle configures the overlay. Zero values for colors
// are replaced with the defaults at layer construction.
type CollisionDebugStyle struct {
	ShowTextBoxes bool
	ShowIconBoxes bool
	ShowCircles   bool

	// Translate shifts box geometry by a pixel offset, in the space
	// selected by TranslateAnchor. It never affects the circle path:
	// circles are re-projected from placement-time screen space and
	// must use the raw tile matrix.
	Translate       [2]float32
	TranslateAnchor TranslateAnchor

	BoxColor       color.RGBA
	CircleColor    color.RGBA
	CollisionColor color.RGBA
}

// DefaultCollisionDebugStyle shows everything: placed geometry in
// green, collided geometry in red.
func DefaultCollisionDebugStyle() CollisionDebugStyle {
	return CollisionDebugStyle{
		ShowTextBoxes:  true,
		ShowIconBoxes:  true,
		ShowCircles:    true,
		BoxColor:       colornames.Lime,
		CircleColor:    colornames.Deepskyblue,
		CollisionColor: colornames.Red,
	}
}

// CollisionDebugLayer draws the collision-debug overlay for one symbol
// layer. It owns its RenderResources; nothing here is safe for
// concurrent use, matching the single-threaded frame model.
type CollisionDebugLayer struct {
	ID    string
	Style CollisionDebugStyle

	device    Device
	resources *RenderResources
	budget    int
	log       Logger
}

// NewCollisionDebugLayer builds a layer for the symbol layer with the
// given id. uniformVectorBudget <= 0 selects the default budget; log
// may be nil.
func NewCollisionDebugLayer(id string, device Device, style CollisionDebugStyle, uniformVectorBudget int, log Logger) *CollisionDebugLayer {
	if log == nil {
		log = NewNopLogger()
	}
	zero := color.RGBA{}
	def := DefaultCollisionDebugStyle()
	if style.BoxColor == zero {
		style.BoxColor = def.BoxColor
	}
	if style.CircleColor == zero {
		style.CircleColor = def.CircleColor
	}
	if style.CollisionColor == zero {
		style.CollisionColor = def.CollisionColor
	}
	return &CollisionDebugLayer{
		ID:     id,
		Style:  style,
		device: device,
		budget: uniformVectorBudget,
		log:    log,
	}
}

// Draw renders the overlay for the given tiles under the current
// camera. Tiles with no bucket, no buffers, or no circles contribute
// nothing; there is no failure mode beyond a visually incomplete
// overlay.
func (l *CollisionDebugLayer) Draw(target DrawTarget, tr *Transform, source TileSource, tileIDs []OverscaledTileID) {
	for _, id := range tileIDs {
		tile, ok := source.GetTile(id)
		if !ok {
			l.log.Debugf("collision debug %q: tile %d/%d/%d not loaded", l.ID, id.Z, id.X, id.Y)
			continue
		}
		bucket, ok := tile.Bucket(l.ID)
		if !ok {
			continue
		}
		if l.Style.ShowTextBoxes {
			l.drawBoxes(target, tr, tile, bucket.TextCollisionBox)
		}
		if l.Style.ShowIconBoxes {
			l.drawBoxes(target, tr, tile, bucket.IconCollisionBox)
		}
		if l.Style.ShowCircles {
			l.drawCircles(target, tr, tile, bucket)
		}
	}
}

// Release frees the layer's shared geometry.
func (l *CollisionDebugLayer) Release() {
	if l.resources != nil {
		l.resources.Release()
		l.resources = nil
	}
}

func (l *CollisionDebugLayer) ensureResources() *RenderResources {
	if l.resources == nil {
		l.resources = NewRenderResources(l.device, l.budget)
	}
	return l.resources
}

// drawBoxes issues one line draw over the bucket's pre-built wireframe
// geometry. No batching: the bucket already holds GPU-ready buffers.
func (l *CollisionDebugLayer) drawBoxes(target DrawTarget, tr *Transform, tile *Tile, buffers *CollisionBuffers) {
	if buffers == nil || buffers.Vertex == nil || buffers.Index == nil {
		return
	}
	posMatrix := tr.TranslatePosMatrix(
		tr.PosMatrix(tile.ID), tile.ID, l.Style.Translate, l.Style.TranslateAnchor)

	target.Draw(DrawCall{
		Primitive: PrimitiveLines,
		Depth:     DepthDisabled,
		Stencil:   StencilDisabled,
		Color:     ColorAlphaBlended,
		Cull:      CullNone,
		Uniforms: &CollisionBoxUniforms{
			Matrix:                 posMatrix,
			ExtrudeScale:           tr.PixelsToGLUnits(),
			CameraToCenterDistance: tr.CameraToCenterDistance(),
			Color:                  l.Style.BoxColor,
			CollisionColor:         l.Style.CollisionColor,
		},
		LayerID: l.ID,
		Vertex:  buffers.Vertex,
		Index:   buffers.Index,
		Segment: buffers.Segment,
		Zoom:    tr.Zoom,
	})
}

// drawCircles packs the tile's circle array into fixed-capacity quad
// batches over the shared template, one draw call per full batch plus
// one for the leftover. The re-projection is computed once per tile.
func (l *CollisionDebugLayer) drawCircles(target DrawTarget, tr *Transform, tile *Tile, bucket *SymbolBucket) {
	circleCount := bucket.Circles.Len()
	if circleCount == 0 {
		return
	}
	res := l.ensureResources()
	res.ensureQuadTemplate()

	batch := ComputeBatchTransform(tr.PosMatrix(tile.ID), tr.GLCoordMatrix(), bucket.Placement)

	scratch := res.quadProps
	maxQuads := res.MaxQuads()
	batchQuadIdx := 0
	quadOffset := 0

	for quadOffset < circleCount {
		batchSize := min(circleCount-quadOffset, maxQuads-batchQuadIdx)
		for i := 0; i < batchSize; i++ {
			scratch.Write(batchQuadIdx+i, bucket.Circles.At(quadOffset+i))
		}
		batchQuadIdx += batchSize
		quadOffset += batchSize

		if batchQuadIdx == maxQuads {
			l.flushCircleBatch(target, tr, batch, res, batchQuadIdx)
			batchQuadIdx = 0
		}
	}
	if batchQuadIdx > 0 {
		l.flushCircleBatch(target, tr, batch, res, batchQuadIdx)
	}
}

// flushCircleBatch draws the first quads slots of the scratch buffer.
// The draw window is bounded to the filled region, so stale scratch
// contents past it are harmless.
func (l *CollisionDebugLayer) flushCircleBatch(target DrawTarget, tr *Transform, batch BatchTransform, res *RenderResources, quads int) {
	target.Draw(DrawCall{
		Primitive: PrimitiveTriangles,
		Depth:     DepthDisabled,
		Stencil:   StencilDisabled,
		Color:     ColorAlphaBlended,
		Cull:      CullNone,
		Uniforms: &CollisionCircleUniforms{
			Matrix:                 batch.Forward,
			InvMatrix:              batch.Inverse,
			ViewportSize:           [2]float32{float32(tr.Width), float32(tr.Height)},
			CameraToCenterDistance: tr.CameraToCenterDistance(),
			Color:                  l.Style.CircleColor,
			CollisionColor:         l.Style.CollisionColor,
			QuadProperties:         res.quadProps.Floats(quads),
		},
		LayerID: l.ID,
		Vertex:  res.templateVertices,
		Index:   res.templateIndices,
		Segment: SegmentSpec{
			VertexCount:    quads * 4,
			PrimitiveCount: quads * 2,
		},
		Zoom: tr.Zoom,
	})
}
