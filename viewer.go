package tilegl

import (
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// ViewerConfig configures the standalone overlay viewer.
type ViewerConfig struct {
	Width  int
	Height int
	Title  string

	// UniformVectorBudget overrides the GPU uniform-vector capacity
	// assumption; <= 0 selects the default.
	UniformVectorBudget int

	Logger Logger
}

// Viewer is a minimal host for running the overlay outside a full map
// renderer: a glfw window, a wgpu surface, and a frame loop that drives
// a caller-provided draw function. Intended for debugging the debugger.
type Viewer struct {
	window        *glfw.Window
	surface       *wgpu.Surface
	adapter       *wgpu.Adapter
	device        *wgpu.Device
	queue         *wgpu.Queue
	surfaceConfig wgpu.SurfaceConfiguration
	backend       *WGPUBackend
	transform     *Transform
	log           Logger
}

// NewViewer opens the window and initializes the GPU. Must be called
// from the main goroutine; panics on window or device failure.
func NewViewer(cfg ViewerConfig) *Viewer {
	runtime.LockOSThread()
	log := cfg.Logger
	if log == nil {
		log = NewNopLogger()
	}
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 720
	}
	if cfg.Title == "" {
		cfg.Title = "collision debug"
	}

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // no OpenGL context, wgpu owns the surface
	glfw.WindowHint(glfw.Resizable, glfw.False)

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		panic(err)
	}

	instance := wgpu.CreateInstance(nil)
	defer instance.Release()
	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		panic(err)
	}
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Collision Debug Device",
	})
	if err != nil {
		panic(err)
	}
	queue := device.GetQueue()

	caps := surface.GetCapabilities(adapter)
	surfaceConfig := wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(cfg.Width),
		Height:      uint32(cfg.Height),
		PresentMode: wgpu.PresentModeFifo, // vsync
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, device, &surfaceConfig)

	backend := NewWGPUBackend(device, queue, surfaceConfig.Format, cfg.UniformVectorBudget, log)
	log.Infof("viewer window %dx%d, surface format %v", cfg.Width, cfg.Height, surfaceConfig.Format)

	return &Viewer{
		window:        window,
		surface:       surface,
		adapter:       adapter,
		device:        device,
		queue:         queue,
		surfaceConfig: surfaceConfig,
		backend:       backend,
		transform:     NewTransform(cfg.Width, cfg.Height),
		log:           log,
	}
}

// Backend exposes the viewer's GPU backend for buffer creation.
func (v *Viewer) Backend() *WGPUBackend { return v.backend }

// Transform exposes the viewer's camera.
func (v *Viewer) Transform() *Transform { return v.transform }

// Run drives the frame loop until the window closes. Each frame the
// draw callback receives the backend with a render pass already bound;
// it should issue layer draws and nothing else.
func (v *Viewer) Run(draw func(target DrawTarget, tr *Transform)) {
	for !v.window.ShouldClose() {
		glfw.PollEvents()
		v.renderFrame(draw)
	}
}

func (v *Viewer) renderFrame(draw func(target DrawTarget, tr *Transform)) {
	nextTexture, err := v.surface.GetCurrentTexture()
	if err != nil {
		v.log.Errorf("get current texture: %v", err)
		return
	}
	view, err := nextTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}
	defer view.Release()

	encoder, err := v.device.CreateCommandEncoder(nil)
	if err != nil {
		panic(err)
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: 0.05, G: 0.05, B: 0.08, A: 1.0},
			},
		},
	})
	defer pass.Release()

	v.backend.BeginPass(pass)
	draw(v.backend, v.transform)
	v.backend.EndPass()

	if err := pass.End(); err != nil {
		panic(err)
	}
	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		panic(err)
	}
	defer cmdBuffer.Release()

	v.queue.Submit(cmdBuffer)
	v.surface.Present()
}

// Close tears down the GPU state and the window.
func (v *Viewer) Close() {
	v.backend.Release()
	v.device.Release()
	v.adapter.Release()
	v.surface.Release()
	v.window.Destroy()
	glfw.Terminate()
}
