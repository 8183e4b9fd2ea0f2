package tilegl

type fakeBuffer struct {
	label    string
	length   int
	released bool
}

func (b *fakeBuffer) Len() int { return b.length }

func (b *fakeBuffer) Release() { b.released = true }

type fakeDevice struct {
	buffers      []*fakeBuffer
	quadVertices [][]QuadVertex
	boxVertices  [][]BoxVertex
	indices      [][]uint16
}

func (d *fakeDevice) track(label string, length int) GeometryBuffer {
	buf := &fakeBuffer{label: label, length: length}
	d.buffers = append(d.buffers, buf)
	return buf
}

func (d *fakeDevice) CreateQuadVertexBuffer(label string, vertices []QuadVertex) GeometryBuffer {
	d.quadVertices = append(d.quadVertices, vertices)
	return d.track(label, len(vertices))
}

func (d *fakeDevice) CreateBoxVertexBuffer(label string, vertices []BoxVertex) GeometryBuffer {
	d.boxVertices = append(d.boxVertices, vertices)
	return d.track(label, len(vertices))
}

func (d *fakeDevice) CreateIndexBuffer(label string, indices []uint16) GeometryBuffer {
	d.indices = append(d.indices, indices)
	return d.track(label, len(indices))
}

// drawRecorder captures submitted draw calls. The circle path reuses
// its scratch between flushes, so quad properties are snapshotted at
// submission time.
type drawRecorder struct {
	calls     []DrawCall
	quadProps [][]float32
}

func (r *drawRecorder) Draw(call DrawCall) {
	if u, ok := call.Uniforms.(*CollisionCircleUniforms); ok {
		props := make([]float32, len(u.QuadProperties))
		copy(props, u.QuadProperties)
		r.quadProps = append(r.quadProps, props)
	} else {
		r.quadProps = append(r.quadProps, nil)
	}
	r.calls = append(r.calls, call)
}

func (r *drawRecorder) callsFor(primitive PrimitiveType) []DrawCall {
	var out []DrawCall
	for _, c := range r.calls {
		if c.Primitive == primitive {
			out = append(out, c)
		}
	}
	return out
}
