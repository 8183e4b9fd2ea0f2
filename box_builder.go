package tilegl

// CollisionBox is one label or icon collision bound: an anchor point in
// tile units plus the box corners as pixel offsets around it.
type CollisionBox struct {
	AnchorX float32
	AnchorY float32
	X1      float32
	Y1      float32
	X2      float32
	Y2      float32
}

// BuildCollisionBoxBuffers builds the GPU-ready wireframe geometry a
// bucket carries for its boxes: four vertices and four line segments
// per box. In production the placement subsystem does this once per
// placement pass; the overlay only draws the result. Returns nil for an
// empty box list, which the box path skips.
func BuildCollisionBoxBuffers(device Device, label string, boxes []CollisionBox) *CollisionBuffers {
	if len(boxes) == 0 {
		return nil
	}
	vertices := make([]BoxVertex, 0, len(boxes)*4)
	indices := make([]uint16, 0, len(boxes)*8)
	for _, box := range boxes {
		base := uint16(len(vertices))
		anchor := [2]float32{box.AnchorX, box.AnchorY}
		vertices = append(vertices,
			BoxVertex{Pos: anchor, Extrude: [2]float32{box.X1, box.Y1}},
			BoxVertex{Pos: anchor, Extrude: [2]float32{box.X2, box.Y1}},
			BoxVertex{Pos: anchor, Extrude: [2]float32{box.X2, box.Y2}},
			BoxVertex{Pos: anchor, Extrude: [2]float32{box.X1, box.Y2}},
		)
		indices = append(indices,
			base, base+1,
			base+1, base+2,
			base+2, base+3,
			base+3, base,
		)
	}
	return &CollisionBuffers{
		Vertex: device.CreateBoxVertexBuffer(label+" vertices", vertices),
		Index:  device.CreateIndexBuffer(label+" indices", indices),
		Segment: SegmentSpec{
			VertexCount:    len(vertices),
			PrimitiveCount: len(indices) / 2,
		},
	}
}
