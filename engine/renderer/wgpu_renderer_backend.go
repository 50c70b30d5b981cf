package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Aman-3O/Esha-Suprise/common"
	"github.com/Aman-3O/Esha-Suprise/engine/loader"
	"github.com/Aman-3O/Esha-Suprise/engine/window"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// frameUniforms mirrors the WGSL Uniforms struct.
type frameUniforms struct {
	Proj   mgl32.Mat4
	View   mgl32.Mat4
	Model  mgl32.Mat4
	Color  mgl32.Vec4
	Params mgl32.Vec4
}

const (
	uniformSize        = uint64(3*64 + 2*16)
	pointStride        = uint64(3 * 4)
	spriteStride       = uint64(8 * 4)
	billboardVertices  = 6
	whiteTextureKey    = "\x00white"
	initialBufferBytes = 4096
)

// spriteBinding is the GPU side of one ring image.
type spriteBinding struct {
	texture   *wgpu.Texture
	view      *wgpu.TextureView
	bindGroup *wgpu.BindGroup
}

// spriteRange is a run of instances sharing one texture.
type spriteRange struct {
	binding *spriteBinding
	first   uint32
	count   uint32
}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface
	window   window.Window
	title    string

	surfaceFormat        wgpu.TextureFormat
	msaaTexture          *wgpu.Texture
	msaaTextureView      *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	presentMode wgpu.PresentMode // defaults to PresentModeFifo
	sampleCount MSAASampleCount  // MSAA sample count for the main render pass
	width       int
	height      int

	uniformLayout    *wgpu.BindGroupLayout
	textureLayout    *wgpu.BindGroupLayout
	uniformBuffer    *wgpu.Buffer
	uniformBindGroup *wgpu.BindGroup
	sampler          *wgpu.Sampler

	pointPipeline  *wgpu.RenderPipeline
	spritePipeline *wgpu.RenderPipeline

	pointBuffer    *wgpu.Buffer
	pointCapacity  uint64
	pointCount     uint32
	spriteBuffer   *wgpu.Buffer
	spriteCapacity uint64

	sprites      map[string]*spriteBinding
	instanceData []float32
	ranges       []spriteRange
	byKey        map[string][]int
	keyOrder     []string
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

// newWGPURendererBackend acquires an adapter and device for win's surface and builds
// the point and sprite pipelines.
func newWGPURendererBackend(win window.Window, forceFallbackAdapter bool, sampleCount MSAASampleCount) (*wgpuRendererBackendImpl, error) {
	runtime.LockOSThread()
	b := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		window:      win,
		title:       win.Title(),
		presentMode: wgpu.PresentModeFifo,
		sampleCount: sampleCount,
		sprites:     make(map[string]*spriteBinding),
		byKey:       make(map[string][]int),
	}
	b.surface = b.instance.CreateSurface(win.SurfaceDescriptor())

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: request adapter: %w", err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: request device: %w", err)
	}
	b.device = d
	b.queue = d.GetQueue()

	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 {
		return nil, errors.New("renderer: surface reports no formats")
	}
	b.surfaceFormat = capabilities.Formats[0]

	if err := b.initResources(); err != nil {
		return nil, err
	}
	return b, nil
}

// initResources creates the bind group layouts, the shared uniform buffer, the
// sampler and both render pipelines.
func (b *wgpuRendererBackendImpl) initResources() error {
	uniformEntry := wgpu.BindGroupLayoutEntry{
		Binding:    0,
		Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
	}
	uniformEntry.Buffer.Type = wgpu.BufferBindingTypeUniform
	uniformEntry.Buffer.MinBindingSize = uniformSize

	var err error
	b.uniformLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Uniforms Layout",
		Entries: []wgpu.BindGroupLayoutEntry{uniformEntry},
	})
	if err != nil {
		return fmt.Errorf("renderer: uniform layout: %w", err)
	}

	textureEntry := wgpu.BindGroupLayoutEntry{Binding: 0, Visibility: wgpu.ShaderStageFragment}
	textureEntry.Texture.SampleType = wgpu.TextureSampleTypeFloat
	textureEntry.Texture.ViewDimension = wgpu.TextureViewDimension2D
	samplerEntry := wgpu.BindGroupLayoutEntry{Binding: 1, Visibility: wgpu.ShaderStageFragment}
	samplerEntry.Sampler.Type = wgpu.SamplerBindingTypeFiltering

	b.textureLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Sprite Texture Layout",
		Entries: []wgpu.BindGroupLayoutEntry{textureEntry, samplerEntry},
	})
	if err != nil {
		return fmt.Errorf("renderer: texture layout: %w", err)
	}

	b.uniformBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Uniforms Buffer",
		Size:  uniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("renderer: uniform buffer: %w", err)
	}
	b.uniformBindGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Uniforms Bind Group",
		Layout: b.uniformLayout,
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  b.uniformBuffer,
			Offset:  0,
			Size:    wgpu.WholeSize,
		}},
	})
	if err != nil {
		return fmt.Errorf("renderer: uniform bind group: %w", err)
	}

	sampling := common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
	}
	b.sampler, err = b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Sprite Sampler",
		AddressModeU:  common.Coalesce(sampling.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  common.Coalesce(sampling.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  common.Coalesce(sampling.AddressModeW, wgpu.AddressModeClampToEdge),
		MagFilter:     common.Coalesce(sampling.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(sampling.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(sampling.MipmapFilter, wgpu.MipmapFilterModeNearest),
		LodMinClamp:   common.Coalesce(sampling.LodMinClamp, 0.0),
		LodMaxClamp:   common.Coalesce(sampling.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(sampling.MaxAnisotropy, 1),
	})
	if err != nil {
		return fmt.Errorf("renderer: sampler: %w", err)
	}

	b.pointPipeline, err = b.createPipeline("Points", pointShaderWGSL,
		wgpu.VertexBufferLayout{
			ArrayStride: pointStride,
			StepMode:    wgpu.VertexStepModeInstance,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			},
		},
		b.uniformLayout,
	)
	if err != nil {
		return err
	}

	b.spritePipeline, err = b.createPipeline("Sprites", spriteShaderWGSL,
		wgpu.VertexBufferLayout{
			ArrayStride: spriteStride,
			StepMode:    wgpu.VertexStepModeInstance,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},
				{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 1},
			},
		},
		b.uniformLayout, b.textureLayout,
	)
	if err != nil {
		return err
	}

	return b.ensureBuffer(&b.pointBuffer, &b.pointCapacity, initialBufferBytes, "Points")
}

// createPipeline compiles source and builds an alpha-blended, depthless billboard pipeline.
func (b *wgpuRendererBackendImpl) createPipeline(label, source string, instances wgpu.VertexBufferLayout, layouts ...*wgpu.BindGroupLayout) (*wgpu.RenderPipeline, error) {
	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: label + " Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: source,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: compile %s shader: %w", label, err)
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label,
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: %s pipeline layout: %w", label, err)
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{instances},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    b.surfaceFormat,
				WriteMask: wgpu.ColorWriteMaskAll,
				Blend: &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorSrcAlpha,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
					Alpha: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
				},
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: %s pipeline: %w", label, err)
	}
	return created, nil
}

// ensureBuffer grows *buf to hold at least size bytes, doubling to amortize growth.
func (b *wgpuRendererBackendImpl) ensureBuffer(buf **wgpu.Buffer, capacity *uint64, size uint64, label string) error {
	if *buf != nil && size <= *capacity {
		return nil
	}
	newCap := max(size, 2**capacity, initialBufferBytes)
	newCap = (newCap + 3) &^ 3

	created, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Instance Buffer",
		Size:  newCap,
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("renderer: grow %s buffer: %w", label, err)
	}
	if *buf != nil {
		(*buf).Release()
	}
	*buf = created
	*capacity = newCap
	return nil
}

// spriteTexture returns the bind group for tex, uploading it on first use.
// Textures without pixels share a 1x1 white texture.
func (b *wgpuRendererBackendImpl) spriteTexture(tex *loader.Texture) (*spriteBinding, error) {
	key := whiteTextureKey
	staging := common.TextureStagingData{Pixels: []byte{255, 255, 255, 255}, Width: 1, Height: 1}
	if tex != nil && tex.Width > 0 && tex.Height > 0 {
		key = tex.Key
		staging = tex.TextureStagingData
	}
	if sb, ok := b.sprites[key]; ok {
		return sb, nil
	}

	texture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     key + " Texture",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              staging.Width,
			Height:             staging.Height,
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, err
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		staging.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  staging.Width * 4,
			RowsPerImage: staging.Height,
		},
		&wgpu.Extent3D{
			Width:              staging.Width,
			Height:             staging.Height,
			DepthOrArrayLayers: 1,
		},
	)

	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, err
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  key + " Bind Group",
		Layout: b.textureLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: view},
			{Binding: 1, Sampler: b.sampler},
		},
	})
	if err != nil {
		view.Release()
		texture.Release()
		return nil, err
	}

	sb := &spriteBinding{texture: texture, view: view, bindGroup: bindGroup}
	b.sprites[key] = sb
	return sb, nil
}

// Resize reconfigures the surface and the MSAA target.
func (b *wgpuRendererBackendImpl) Resize(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if width <= 0 || height <= 0 {
		return
	}
	b.width, b.height = width, height

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTexture.Release()
		b.msaaTextureView, b.msaaTexture = nil, nil
	}

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1
	if msaaEnabled {
		// The render pass draws into the MSAA texture and resolves into the swapchain view.
		msaaTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			panic(err)
		}
		b.msaaTexture = msaaTexture
		b.msaaTextureView, err = msaaTexture.CreateView(nil)
		if err != nil {
			panic(err)
		}
	}

	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard // Don't store MSAA data, just resolve
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:          b.msaaTextureView, // nil when MSAA is off; set per frame
				ResolveTarget: nil,               // set per frame when MSAA is on
				LoadOp:        wgpu.LoadOpClear,
				StoreOp:       storeOp,
				ClearValue:    wgpu.Color{R: 0, G: 0, B: 0, A: 1},
			},
		},
	}
}

// SetPresentMode selects the swapchain present mode for the next Resize.
func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

func (b *wgpuRendererBackendImpl) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

func (b *wgpuRendererBackendImpl) Aspect() float32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.height == 0 {
		return 1
	}
	return float32(b.width) / float32(b.height)
}

// Input and resizes reach the engine through the window, not the surface.
func (b *wgpuRendererBackendImpl) SetInputCallback(func(Input)) {}

func (b *wgpuRendererBackendImpl) SetResizeCallback(func(width, height int)) {}

// prepareSprites packs instance data grouped by texture key so each texture is one draw.
func (b *wgpuRendererBackendImpl) prepareSprites(sprites []SpriteInstance) error {
	b.instanceData = b.instanceData[:0]
	b.ranges = b.ranges[:0]
	b.keyOrder = b.keyOrder[:0]
	for k := range b.byKey {
		b.byKey[k] = b.byKey[k][:0]
	}

	for i := range sprites {
		key := whiteTextureKey
		if t := sprites[i].Texture; t != nil && t.Width > 0 && t.Height > 0 {
			key = t.Key
		}
		if len(b.byKey[key]) == 0 {
			b.keyOrder = append(b.keyOrder, key)
		}
		b.byKey[key] = append(b.byKey[key], i)
	}

	for _, key := range b.keyOrder {
		idx := b.byKey[key]
		sb, err := b.spriteTexture(sprites[idx[0]].Texture)
		if err != nil {
			return fmt.Errorf("renderer: upload %s: %w", key, err)
		}
		b.ranges = append(b.ranges, spriteRange{
			binding: sb,
			first:   uint32(len(b.instanceData) / 8),
			count:   uint32(len(idx)),
		})
		for _, i := range idx {
			sp := &sprites[i]
			b.instanceData = append(b.instanceData,
				sp.Position[0], sp.Position[1], sp.Position[2], sp.Opacity,
				sp.Scale[0], sp.Scale[1], 0, 0,
			)
		}
	}

	if len(b.instanceData) == 0 {
		return nil
	}
	data := common.SliceToBytes(b.instanceData)
	if err := b.ensureBuffer(&b.spriteBuffer, &b.spriteCapacity, uint64(len(data)), "Sprites"); err != nil {
		return err
	}
	b.queue.WriteBuffer(b.spriteBuffer, 0, data)
	return nil
}

func (b *wgpuRendererBackendImpl) Draw(f *Frame) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.renderPassDescriptor == nil {
		return errors.New("renderer: surface not configured")
	}

	groupScale := f.Model.Col(1).Vec3().Len()
	u := frameUniforms{
		Proj:   f.Projection,
		View:   f.View,
		Model:  f.Model,
		Color:  f.PointColor.Vec4(f.PointSize),
		Params: mgl32.Vec4{f.FogDensity, groupScale, 0, 0},
	}
	b.queue.WriteBuffer(b.uniformBuffer, 0, common.StructToBytes(&u))

	count := uint32(len(f.Points) / 3)
	if f.PointsDirty || count != b.pointCount {
		data := common.SliceToBytes(f.Points[:count*3])
		if err := b.ensureBuffer(&b.pointBuffer, &b.pointCapacity, uint64(len(data)), "Points"); err != nil {
			return err
		}
		if len(data) > 0 {
			b.queue.WriteBuffer(b.pointBuffer, 0, data)
		}
		b.pointCount = count
	}

	if err := b.prepareSprites(f.Sprites); err != nil {
		return err
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}
	defer view.Release()
	defer surfaceTexture.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	// When MSAA is enabled, the MSAA texture is the color attachment View and
	// the swapchain view is the ResolveTarget.
	if b.sampleCount > 1 {
		b.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		b.renderPassDescriptor.ColorAttachments[0].View = view
	}
	pass := encoder.BeginRenderPass(b.renderPassDescriptor)

	if b.pointCount > 0 {
		pass.SetPipeline(b.pointPipeline)
		pass.SetBindGroup(0, b.uniformBindGroup, nil)
		pass.SetVertexBuffer(0, b.pointBuffer, 0, wgpu.WholeSize)
		pass.Draw(billboardVertices, b.pointCount, 0, 0)
	}

	if len(b.ranges) > 0 {
		pass.SetPipeline(b.spritePipeline)
		pass.SetBindGroup(0, b.uniformBindGroup, nil)
		pass.SetVertexBuffer(0, b.spriteBuffer, 0, wgpu.WholeSize)
		for _, r := range b.ranges {
			pass.SetBindGroup(1, r.binding.bindGroup, nil)
			pass.Draw(billboardVertices, r.count, 0, r.first)
		}
	}

	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	b.surface.Present()

	b.updateTitle(f.Progress)
	return nil
}

// updateTitle mirrors the loading indicator into the window title.
func (b *wgpuRendererBackendImpl) updateTitle(p ProgressState) {
	if p.Visible && p.Label != "" {
		b.window.SetTitle(b.title + " | " + p.Label)
		return
	}
	b.window.SetTitle(b.title)
}

func (b *wgpuRendererBackendImpl) Release() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for key, sb := range b.sprites {
		sb.bindGroup.Release()
		sb.view.Release()
		sb.texture.Release()
		delete(b.sprites, key)
	}
	for _, buf := range []*wgpu.Buffer{b.pointBuffer, b.spriteBuffer, b.uniformBuffer} {
		if buf != nil {
			buf.Release()
		}
	}
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTexture.Release()
	}
	if b.uniformBindGroup != nil {
		b.uniformBindGroup.Release()
	}
	if b.sampler != nil {
		b.sampler.Release()
	}
	if b.pointPipeline != nil {
		b.pointPipeline.Release()
	}
	if b.spritePipeline != nil {
		b.spritePipeline.Release()
	}
	b.queue.Release()
	b.device.Release()
	b.adapter.Release()
	b.surface.Release()
	b.instance.Release()
	return nil
}
