package tilegl

import (
	"fmt"
	"image/color"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// uniformBufferAlignment is the required dynamic-offset alignment.
	uniformBufferAlignment = 256

	// maxDrawsPerFrame bounds the per-program uniform windows of one
	// frame. Draws past the bound are dropped with a warning; the
	// overlay is debug-only, so an incomplete frame beats a crash.
	maxDrawsPerFrame = 1024
)

// boxUniformBlock mirrors the WGSL BoxUniforms layout.
type boxUniformBlock struct {
	Matrix                 mgl32.Mat4
	ExtrudeScale           [2]float32
	CameraToCenterDistance float32
	_                      float32
	Color                  [4]float32
	CollisionColor         [4]float32
}

// circleUniformHeader mirrors the WGSL CircleUniforms layout up to the
// quads array; the quad properties are written right behind it.
type circleUniformHeader struct {
	Matrix                 mgl32.Mat4
	InvMatrix              mgl32.Mat4
	ViewportSize           [2]float32
	CameraToCenterDistance float32
	_                      float32
	Color                  [4]float32
	CollisionColor         [4]float32
}

// uniformWindow is one program's slice of uniform buffer space for a
// frame: fixed stride per draw, dynamic offset selects the slot.
type uniformWindow struct {
	buffer    *wgpu.Buffer
	bindGroup *wgpu.BindGroup
	stride    uint64
	capacity  int
	next      int
}

func (w *uniformWindow) reset() { w.next = 0 }

func (w *uniformWindow) alloc() (uint64, bool) {
	if w.next >= w.capacity {
		return 0, false
	}
	offset := uint64(w.next) * w.stride
	w.next++
	return offset, true
}

func (w *uniformWindow) release() {
	w.bindGroup.Release()
	w.buffer.Release()
}

// WGPUBackend implements Device and DrawTarget against a webgpu device.
// It owns the overlay's two render pipelines (line-list boxes,
// triangle-list circle quads) and the uniform windows they draw from.
type WGPUBackend struct {
	device   *wgpu.Device
	queue    *wgpu.Queue
	maxQuads int
	log      Logger

	boxPipeline    *wgpu.RenderPipeline
	circlePipeline *wgpu.RenderPipeline
	boxUniforms    uniformWindow
	circleUniforms uniformWindow

	pass *wgpu.RenderPassEncoder
}

// NewWGPUBackend builds pipelines and uniform storage for the given
// surface format. uniformVectorBudget <= 0 selects the default budget;
// log may be nil. Panics on device errors, as there is no fallback.
func NewWGPUBackend(device *wgpu.Device, queue *wgpu.Queue, format wgpu.TextureFormat, uniformVectorBudget int, log Logger) *WGPUBackend {
	if log == nil {
		log = NewNopLogger()
	}
	b := &WGPUBackend{
		device:   device,
		queue:    queue,
		maxQuads: QuadBatchSize(uniformVectorBudget),
		log:      log,
	}

	boxBlockSize := uint64(unsafe.Sizeof(boxUniformBlock{}))
	circleBlockSize := uint64(unsafe.Sizeof(circleUniformHeader{})) + uint64(b.maxQuads)*16

	boxLayout := createUniformBindGroupLayout(device, "collision box uniforms", boxBlockSize)
	defer boxLayout.Release()
	circleLayout := createUniformBindGroupLayout(device, "collision circle uniforms", circleBlockSize)
	defer circleLayout.Release()

	b.boxPipeline = createOverlayPipeline(device, "collision box", collisionBoxShaderWGSL,
		createVertexBufferLayout(BoxVertex{}), boxLayout, wgpu.PrimitiveTopologyLineList, format)
	b.circlePipeline = createOverlayPipeline(device, "collision circle",
		fmt.Sprintf(collisionCircleShaderWGSLTemplate, b.maxQuads),
		createVertexBufferLayout(QuadVertex{}), circleLayout, wgpu.PrimitiveTopologyTriangleList, format)

	b.boxUniforms = createUniformWindow(device, "collision box uniforms", boxLayout, boxBlockSize)
	b.circleUniforms = createUniformWindow(device, "collision circle uniforms", circleLayout, circleBlockSize)
	return b
}

// MaxQuads reports the circle-batch capacity the backend was built for.
func (b *WGPUBackend) MaxQuads() int { return b.maxQuads }

func createUniformBindGroupLayout(device *wgpu.Device, label string, blockSize uint64) *wgpu.BindGroupLayout {
	layout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: label,
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:             wgpu.BufferBindingTypeUniform,
					HasDynamicOffset: true,
					MinBindingSize:   blockSize,
				},
			},
		},
	})
	if err != nil {
		panic(err)
	}
	return layout
}

func createUniformWindow(device *wgpu.Device, label string, layout *wgpu.BindGroupLayout, blockSize uint64) uniformWindow {
	stride := alignUp(blockSize, uniformBufferAlignment)
	buffer, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  stride * maxDrawsPerFrame,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		panic(err)
	}
	bindGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label,
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: buffer, Offset: 0, Size: blockSize},
		},
	})
	if err != nil {
		panic(err)
	}
	return uniformWindow{
		buffer:    buffer,
		bindGroup: bindGroup,
		stride:    stride,
		capacity:  maxDrawsPerFrame,
	}
}

func createOverlayPipeline(device *wgpu.Device, name, shaderCode string, vertexLayout wgpu.VertexBufferLayout, bindLayout *wgpu.BindGroupLayout, topology wgpu.PrimitiveTopology, format wgpu.TextureFormat) *wgpu.RenderPipeline {
	shader, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          name,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaderCode},
	})
	if err != nil {
		panic(err)
	}
	defer shader.Release()

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            name,
		BindGroupLayouts: []*wgpu.BindGroupLayout{bindLayout},
	})
	if err != nil {
		panic(err)
	}
	defer pipelineLayout.Release()

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  name,
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{vertexLayout},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format: format,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
							Operation: wgpu.BlendOperationAdd,
						},
						Alpha: wgpu.BlendComponent{
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
							Operation: wgpu.BlendOperationAdd,
						},
					},
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  topology,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: nil,
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	})
	if err != nil {
		panic(err)
	}
	return pipeline
}

type wgpuGeometryBuffer struct {
	buffer *wgpu.Buffer
	length int
}

func (g *wgpuGeometryBuffer) Len() int { return g.length }

func (g *wgpuGeometryBuffer) Release() { g.buffer.Release() }

func (b *WGPUBackend) createGeometryBuffer(label string, contents []byte, length int, usage wgpu.BufferUsage) GeometryBuffer {
	buffer, err := b.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: contents,
		Usage:    usage,
	})
	if err != nil {
		panic(err)
	}
	return &wgpuGeometryBuffer{buffer: buffer, length: length}
}

func (b *WGPUBackend) CreateQuadVertexBuffer(label string, vertices []QuadVertex) GeometryBuffer {
	return b.createGeometryBuffer(label, sliceBytes(vertices), len(vertices), wgpu.BufferUsageVertex)
}

func (b *WGPUBackend) CreateBoxVertexBuffer(label string, vertices []BoxVertex) GeometryBuffer {
	return b.createGeometryBuffer(label, sliceBytes(vertices), len(vertices), wgpu.BufferUsageVertex)
}

func (b *WGPUBackend) CreateIndexBuffer(label string, indices []uint16) GeometryBuffer {
	return b.createGeometryBuffer(label, sliceBytes(indices), len(indices), wgpu.BufferUsageIndex)
}

// BeginPass binds the render pass the following draw calls record into
// and rewinds the uniform windows.
func (b *WGPUBackend) BeginPass(pass *wgpu.RenderPassEncoder) {
	b.pass = pass
	b.boxUniforms.reset()
	b.circleUniforms.reset()
}

// EndPass detaches the current pass. The caller still owns ending and
// submitting it.
func (b *WGPUBackend) EndPass() {
	b.pass = nil
}

// Draw records one overlay draw call into the current pass. Uniform
// payloads are copied into the frame's uniform window immediately, so
// the caller may reuse its scratch right after Draw returns.
func (b *WGPUBackend) Draw(call DrawCall) {
	if b.pass == nil {
		b.log.Warnf("draw call for layer %q outside a render pass, dropped", call.LayerID)
		return
	}

	switch u := call.Uniforms.(type) {
	case *CollisionBoxUniforms:
		offset, ok := b.boxUniforms.alloc()
		if !ok {
			b.log.Warnf("collision box uniform window exhausted, draw dropped")
			return
		}
		block := boxUniformBlock{
			Matrix:                 u.Matrix,
			ExtrudeScale:           u.ExtrudeScale,
			CameraToCenterDistance: u.CameraToCenterDistance,
			Color:                  rgbaToVec4(u.Color),
			CollisionColor:         rgbaToVec4(u.CollisionColor),
		}
		if err := b.queue.WriteBuffer(b.boxUniforms.buffer, offset, structBytes(&block)); err != nil {
			panic(err)
		}
		b.record(b.boxPipeline, &b.boxUniforms, offset, call)

	case *CollisionCircleUniforms:
		offset, ok := b.circleUniforms.alloc()
		if !ok {
			b.log.Warnf("collision circle uniform window exhausted, draw dropped")
			return
		}
		header := circleUniformHeader{
			Matrix:                 u.Matrix,
			InvMatrix:              u.InvMatrix,
			ViewportSize:           u.ViewportSize,
			CameraToCenterDistance: u.CameraToCenterDistance,
			Color:                  rgbaToVec4(u.Color),
			CollisionColor:         rgbaToVec4(u.CollisionColor),
		}
		if err := b.queue.WriteBuffer(b.circleUniforms.buffer, offset, structBytes(&header)); err != nil {
			panic(err)
		}
		if len(u.QuadProperties) > 0 {
			propsOffset := offset + uint64(unsafe.Sizeof(header))
			if err := b.queue.WriteBuffer(b.circleUniforms.buffer, propsOffset, sliceBytes(u.QuadProperties)); err != nil {
				panic(err)
			}
		}
		b.record(b.circlePipeline, &b.circleUniforms, offset, call)

	default:
		b.log.Errorf("unknown uniform payload %T for layer %q, draw dropped", call.Uniforms, call.LayerID)
	}
}

func (b *WGPUBackend) record(pipeline *wgpu.RenderPipeline, uniforms *uniformWindow, offset uint64, call DrawCall) {
	vertex, vok := call.Vertex.(*wgpuGeometryBuffer)
	index, iok := call.Index.(*wgpuGeometryBuffer)
	if !vok || !iok {
		b.log.Errorf("geometry buffers for layer %q were not created by this backend, draw dropped", call.LayerID)
		return
	}

	ipp := call.Primitive.IndicesPerPrimitive()
	indexCount := call.Segment.PrimitiveCount * ipp
	firstIndex := call.Segment.PrimitiveOffset * ipp

	b.pass.SetPipeline(pipeline)
	b.pass.SetVertexBuffer(0, vertex.buffer, 0, wgpu.WholeSize)
	b.pass.SetIndexBuffer(index.buffer, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
	b.pass.SetBindGroup(0, uniforms.bindGroup, []uint32{uint32(offset)})
	b.pass.DrawIndexed(uint32(indexCount), 1, uint32(firstIndex), int32(call.Segment.VertexOffset), 0)
}

// Release frees the backend's pipelines and uniform storage. Geometry
// buffers it created are owned and released by their callers.
func (b *WGPUBackend) Release() {
	b.boxUniforms.release()
	b.circleUniforms.release()
	b.boxPipeline.Release()
	b.circlePipeline.Release()
}

func rgbaToVec4(c color.RGBA) [4]float32 {
	return [4]float32{
		float32(c.R) / 255,
		float32(c.G) / 255,
		float32(c.B) / 255,
		float32(c.A) / 255,
	}
}
