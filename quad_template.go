package tilegl

import "fmt"

const (
	// DefaultUniformVectorBudget is the de-facto minimum number of
	// four-component uniform vector slots guaranteed by the target
	// graphics backends.
	DefaultUniformVectorBudget = 128

	// matrixUniformVectors is reserved for the four mat4 uniforms of
	// the circle program, at 16 vector slots each.
	matrixUniformVectors = 64
)

// QuadBatchSize derives the per-draw-call quad capacity from a uniform
// vector budget: whatever remains after the matrix reservation, one
// vec4 slot per quad. Panics when the budget cannot fit a single quad;
// that is a misconfiguration, not a runtime condition.
func QuadBatchSize(uniformVectorBudget int) int {
	if uniformVectorBudget <= 0 {
		uniformVectorBudget = DefaultUniformVectorBudget
	}
	quads := uniformVectorBudget - matrixUniformVectors
	if quads < 1 {
		panic(fmt.Sprintf("tilegl: uniform vector budget %d leaves no room for quad properties", uniformVectorBudget))
	}
	return quads
}

// QuadTemplateVertices builds the shared template vertex data: each
// vertex carries its own sequential index twice, so the shader can
// recover quad index and corner without extra attributes.
func QuadTemplateVertices(maxQuads int) []QuadVertex {
	vertices := make([]QuadVertex, maxQuads*4)
	for v := range vertices {
		vertices[v] = QuadVertex{ID: [2]int16{int16(v), int16(v)}}
	}
	return vertices
}

// QuadTemplateIndices builds the shared template index data: quad i
// becomes triangles (4i, 4i+1, 4i+2) and (4i+2, 4i+3, 4i), consistent
// winding throughout.
func QuadTemplateIndices(maxQuads int) []uint16 {
	indices := make([]uint16, 0, maxQuads*6)
	for q := 0; q < maxQuads; q++ {
		v := uint16(q * 4)
		indices = append(indices, v, v+1, v+2, v+2, v+3, v)
	}
	return indices
}

// QuadPropertiesBuffer is the per-draw-call scratch for quad uniform
// properties, four floats per quad. It is fully overwritten batch by
// batch and reused across flushes and frames; only the region covered
// by the current batch is ever uploaded.
type QuadPropertiesBuffer struct {
	maxQuads int
	data     []float32
}

func NewQuadPropertiesBuffer(maxQuads int) *QuadPropertiesBuffer {
	return &QuadPropertiesBuffer{
		maxQuads: maxQuads,
		data:     make([]float32, maxQuads*4),
	}
}

func (b *QuadPropertiesBuffer) Cap() int { return b.maxQuads }

// Write stores one circle's four properties at the given quad slot.
func (b *QuadPropertiesBuffer) Write(quad int, c CollisionCircle) {
	if quad < 0 || quad >= b.maxQuads {
		panic(fmt.Sprintf("tilegl: quad slot %d out of range [0,%d)", quad, b.maxQuads))
	}
	i := quad * 4
	b.data[i+0] = c.X
	b.data[i+1] = c.Y
	b.data[i+2] = c.Radius
	b.data[i+3] = c.Collision
}

// Floats views the first quads slots as a flat float array. The view
// aliases the scratch and goes stale on the next Write.
func (b *QuadPropertiesBuffer) Floats(quads int) []float32 {
	return b.data[:quads*4]
}

// RenderResources owns the shared circle-batch geometry of one debug
// layer: the write-once quad template buffers and the reusable quad
// properties scratch. The template is built on first use and never
// regenerated; batches are capped to its capacity at pack time, so a
// capacity mismatch cannot occur.
type RenderResources struct {
	device    Device
	maxQuads  int
	quadProps *QuadPropertiesBuffer

	templateVertices GeometryBuffer
	templateIndices  GeometryBuffer
}

func NewRenderResources(device Device, uniformVectorBudget int) *RenderResources {
	maxQuads := QuadBatchSize(uniformVectorBudget)
	return &RenderResources{
		device:    device,
		maxQuads:  maxQuads,
		quadProps: NewQuadPropertiesBuffer(maxQuads),
	}
}

func (r *RenderResources) MaxQuads() int { return r.maxQuads }

// ensureQuadTemplate builds the template buffers exactly once. The
// presence check is not goroutine-safe; create resources during
// single-threaded layer setup when rendering from multiple threads.
func (r *RenderResources) ensureQuadTemplate() {
	if r.templateVertices != nil {
		return
	}
	r.templateVertices = r.device.CreateQuadVertexBuffer(
		"collision circle quad template vertices", QuadTemplateVertices(r.maxQuads))
	r.templateIndices = r.device.CreateIndexBuffer(
		"collision circle quad template indices", QuadTemplateIndices(r.maxQuads))
}

// Release frees the template buffers. Safe to call when the template
// was never built.
func (r *RenderResources) Release() {
	if r.templateVertices != nil {
		r.templateVertices.Release()
		r.templateVertices = nil
	}
	if r.templateIndices != nil {
		r.templateIndices.Release()
		r.templateIndices = nil
	}
}
