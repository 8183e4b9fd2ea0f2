package tilegl

import "testing"

func TestQuadTemplateVerticesSequential(t *testing.T) {
	vertices := QuadTemplateVertices(64)
	if len(vertices) != 256 {
		t.Fatalf("expected 256 template vertices, got %d", len(vertices))
	}
	for v, vertex := range vertices {
		if vertex.ID[0] != int16(v) || vertex.ID[1] != int16(v) {
			t.Errorf("vertex %d should store its own index twice, got %v", v, vertex.ID)
		}
	}
}

func TestQuadTemplateIndicesPattern(t *testing.T) {
	indices := QuadTemplateIndices(64)
	if len(indices) != 64*6 {
		t.Fatalf("expected %d indices, got %d", 64*6, len(indices))
	}
	for q := 0; q < 64; q++ {
		got := indices[q*6 : q*6+6]
		base := uint16(q * 4)
		want := []uint16{base, base + 1, base + 2, base + 2, base + 3, base}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("quad %d: index %d is %d, want %d", q, i, got[i], want[i])
			}
		}
	}
}

func TestQuadBatchSize(t *testing.T) {
	cases := []struct {
		budget int
		want   int
	}{
		{budget: 0, want: 64},
		{budget: -5, want: 64},
		{budget: 128, want: 64},
		{budget: 96, want: 32},
		{budget: 65, want: 1},
	}
	for _, c := range cases {
		if got := QuadBatchSize(c.budget); got != c.want {
			t.Errorf("QuadBatchSize(%d) = %d, want %d", c.budget, got, c.want)
		}
	}
}

func TestQuadBatchSizePanicsOnTinyBudget(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for a budget below the matrix reservation")
		}
	}()
	QuadBatchSize(64)
}

func TestQuadPropertiesBuffer(t *testing.T) {
	buf := NewQuadPropertiesBuffer(4)
	if buf.Cap() != 4 {
		t.Fatalf("expected capacity 4, got %d", buf.Cap())
	}
	buf.Write(0, CollisionCircle{X: 1, Y: 2, Radius: 3, Collision: 1})
	buf.Write(2, CollisionCircle{X: 10, Y: 20, Radius: 30, Collision: 0})

	floats := buf.Floats(3)
	if len(floats) != 12 {
		t.Fatalf("expected 12 floats for 3 quads, got %d", len(floats))
	}
	want := []float32{1, 2, 3, 1}
	for i := range want {
		if floats[i] != want[i] {
			t.Errorf("quad 0 float %d is %v, want %v", i, floats[i], want[i])
		}
	}
	if floats[8] != 10 || floats[9] != 20 || floats[10] != 30 || floats[11] != 0 {
		t.Errorf("quad 2 floats wrong: %v", floats[8:12])
	}
}

func TestQuadPropertiesBufferWriteBounds(t *testing.T) {
	buf := NewQuadPropertiesBuffer(2)
	defer func() {
		if recover() == nil {
			t.Error("expected panic writing past the buffer capacity")
		}
	}()
	buf.Write(2, CollisionCircle{})
}

func TestRenderResourcesTemplateBuiltOnce(t *testing.T) {
	dev := &fakeDevice{}
	res := NewRenderResources(dev, 0)

	res.ensureQuadTemplate()
	res.ensureQuadTemplate()

	if len(dev.buffers) != 2 {
		t.Fatalf("template should allocate exactly one vertex and one index buffer, got %d buffers", len(dev.buffers))
	}
	if len(dev.quadVertices[0]) != res.MaxQuads()*4 {
		t.Errorf("template vertex count %d, want %d", len(dev.quadVertices[0]), res.MaxQuads()*4)
	}
	if len(dev.indices[0]) != res.MaxQuads()*6 {
		t.Errorf("template index count %d, want %d", len(dev.indices[0]), res.MaxQuads()*6)
	}
}

func TestRenderResourcesRelease(t *testing.T) {
	dev := &fakeDevice{}
	res := NewRenderResources(dev, 0)
	res.Release() // never built, must not panic

	res.ensureQuadTemplate()
	res.Release()
	for _, buf := range dev.buffers {
		if !buf.released {
			t.Errorf("buffer %q not released", buf.label)
		}
	}
}
