package vkbegins

import (
	"fmt"
	"unsafe"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// handleArena backs fake handles. It lives in the data segment so the
// addresses are stable and never collected.
var (
	handleArena [1 << 16]byte
	handleNext  int
)

func newHandle() unsafe.Pointer {
	handleNext++
	return unsafe.Pointer(&handleArena[handleNext])
}

type cmdState int

const (
	cmdInitial cmdState = iota
	cmdRecording
	cmdExecutable
	cmdPending
)

func (s cmdState) String() string {
	return [...]string{"initial", "recording", "executable", "pending"}[s]
}

type fakeGPU struct {
	handle     vk.PhysicalDevice
	name       string
	extensions []string
	families   []vk.QueueFamilyProperties
	present    map[uint32]bool
	caps       vk.SurfaceCapabilities
	formats    []vk.SurfaceFormat
	modes      []vk.PresentMode
}

func newFakeGPU(name string, families ...vk.QueueFlagBits) *fakeGPU {
	g := &fakeGPU{
		handle:     vk.PhysicalDevice(newHandle()),
		name:       name,
		extensions: []string{"VK_KHR_swapchain"},
		present:    map[uint32]bool{},
		caps: vk.SurfaceCapabilities{
			MinImageCount:  2,
			MaxImageCount:  8,
			CurrentExtent:  vk.Extent2D{Width: 800, Height: 600},
			MinImageExtent: vk.Extent2D{Width: 1, Height: 1},
			MaxImageExtent: vk.Extent2D{Width: 4096, Height: 4096},
		},
		formats: []vk.SurfaceFormat{{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorspaceSrgbNonlinear}},
		modes:   []vk.PresentMode{vk.PresentModeFifo},
	}
	for _, flags := range families {
		g.families = append(g.families, vk.QueueFamilyProperties{QueueFlags: vk.QueueFlags(flags), QueueCount: 1})
	}
	return g
}

// fakeDriver records every call and models the fence and command buffer
// states a validation layer would check. Misuse is collected in violations
// rather than failing the call.
type fakeDriver struct {
	calls      []string
	violations []string

	instanceExtensions []string
	instanceLayers     []string
	gpus               []*fakeGPU
	swapchainImages    int

	// noDebugEntry makes the loader lack the debug report entry points.
	noDebugEntry bool
	// supportSurface is the surface last passed to SurfaceSupport.
	supportSurface vk.Surface

	// fail makes the named method return an error.
	fail map[string]error
	// acquireResult and presentResult, when set, are returned as vk errors.
	acquireResult vk.Result
	presentResult vk.Result

	instance      vk.Instance
	deviceInfo    *vk.DeviceCreateInfo
	swapchainInfo *vk.SwapchainCreateInfo
	pipelineInfo  *vk.GraphicsPipelineCreateInfo
	renderPass    *vk.RenderPassCreateInfo
	poolInfo      *vk.CommandPoolCreateInfo
	submits       []vk.SubmitInfo
	presents      []vk.PresentInfo
	draws         int

	shaderModules map[vk.ShaderModule]bool
	fences        map[vk.Fence]bool
	fenceWork     map[vk.Fence]vk.CommandBuffer
	commands      map[vk.CommandBuffer]cmdState
	images        []vk.Image
	acquired      map[uint32]bool
	nextImage     uint32
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		instanceExtensions: []string{"VK_KHR_surface", "VK_KHR_xcb_surface", DebugReportExtension},
		instanceLayers:     []string{"VK_LAYER_KHRONOS_validation"},
		swapchainImages:    3,
		fail:               map[string]error{},
		acquireResult:      vk.Success,
		presentResult:      vk.Success,
		shaderModules:      map[vk.ShaderModule]bool{},
		fences:             map[vk.Fence]bool{},
		fenceWork:          map[vk.Fence]vk.CommandBuffer{},
		commands:           map[vk.CommandBuffer]cmdState{},
		acquired:           map[uint32]bool{},
	}
}

func (f *fakeDriver) record(name string) error {
	f.calls = append(f.calls, name)
	if err, ok := f.fail[name]; ok {
		return err
	}
	return nil
}

func (f *fakeDriver) violate(format string, args ...interface{}) {
	f.violations = append(f.violations, fmt.Sprintf(format, args...))
}

func (f *fakeDriver) count(name string) int {
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeDriver) gpu(handle vk.PhysicalDevice) *fakeGPU {
	for _, g := range f.gpus {
		if g.handle == handle {
			return g
		}
	}
	panic("unknown physical device")
}

func (f *fakeDriver) InstanceExtensions() ([]string, error) {
	return f.instanceExtensions, f.record("InstanceExtensions")
}

func (f *fakeDriver) InstanceLayers() ([]string, error) {
	return f.instanceLayers, f.record("InstanceLayers")
}

func (f *fakeDriver) CreateInstance(info *vk.InstanceCreateInfo) (vk.Instance, error) {
	if err := f.record("CreateInstance"); err != nil {
		return nil, err
	}
	f.instance = vk.Instance(newHandle())
	return f.instance, nil
}

func (f *fakeDriver) DestroyInstance(instance vk.Instance) {
	f.record("DestroyInstance")
}

func (f *fakeDriver) CreateDebugReportCallback(instance vk.Instance, info *vk.DebugReportCallbackCreateInfo) (vk.DebugReportCallback, error) {
	if err := f.record("CreateDebugReportCallback"); err != nil {
		return vk.NullDebugReportCallback, err
	}
	if f.noDebugEntry {
		return vk.NullDebugReportCallback, NewError(vk.ErrorExtensionNotPresent)
	}
	return vk.DebugReportCallback(newHandle()), nil
}

func (f *fakeDriver) DestroyDebugReportCallback(instance vk.Instance, callback vk.DebugReportCallback) {
	f.record("DestroyDebugReportCallback")
}

func (f *fakeDriver) DestroySurface(instance vk.Instance, surface vk.Surface) {
	f.record("DestroySurface")
}

func (f *fakeDriver) PhysicalDevices(instance vk.Instance) ([]vk.PhysicalDevice, error) {
	if err := f.record("PhysicalDevices"); err != nil {
		return nil, err
	}
	out := make([]vk.PhysicalDevice, 0, len(f.gpus))
	for _, g := range f.gpus {
		out = append(out, g.handle)
	}
	return out, nil
}

func (f *fakeDriver) DeviceName(gpu vk.PhysicalDevice) string {
	return f.gpu(gpu).name
}

func (f *fakeDriver) DeviceExtensions(gpu vk.PhysicalDevice) ([]string, error) {
	return f.gpu(gpu).extensions, f.record("DeviceExtensions")
}

func (f *fakeDriver) QueueFamilies(gpu vk.PhysicalDevice) []vk.QueueFamilyProperties {
	f.record("QueueFamilies")
	return f.gpu(gpu).families
}

func (f *fakeDriver) SurfaceSupport(gpu vk.PhysicalDevice, family uint32, surface vk.Surface) (bool, error) {
	f.record(fmt.Sprintf("SurfaceSupport(%d)", family))
	f.supportSurface = surface
	return f.gpu(gpu).present[family], nil
}

func (f *fakeDriver) SurfaceCapabilities(gpu vk.PhysicalDevice, surface vk.Surface) (vk.SurfaceCapabilities, error) {
	return f.gpu(gpu).caps, f.record("SurfaceCapabilities")
}

func (f *fakeDriver) SurfaceFormats(gpu vk.PhysicalDevice, surface vk.Surface) ([]vk.SurfaceFormat, error) {
	return f.gpu(gpu).formats, f.record("SurfaceFormats")
}

func (f *fakeDriver) SurfacePresentModes(gpu vk.PhysicalDevice, surface vk.Surface) ([]vk.PresentMode, error) {
	return f.gpu(gpu).modes, f.record("SurfacePresentModes")
}

func (f *fakeDriver) CreateDevice(gpu vk.PhysicalDevice, info *vk.DeviceCreateInfo) (vk.Device, error) {
	if err := f.record("CreateDevice"); err != nil {
		return nil, err
	}
	f.deviceInfo = info
	return vk.Device(newHandle()), nil
}

func (f *fakeDriver) DeviceQueue(device vk.Device, family uint32) vk.Queue {
	f.record(fmt.Sprintf("DeviceQueue(%d)", family))
	return vk.Queue(newHandle())
}

func (f *fakeDriver) DeviceWaitIdle(device vk.Device) error {
	return f.record("DeviceWaitIdle")
}

func (f *fakeDriver) DestroyDevice(device vk.Device) {
	f.record("DestroyDevice")
}

func (f *fakeDriver) CreateSwapchain(device vk.Device, info *vk.SwapchainCreateInfo) (vk.Swapchain, error) {
	if err := f.record("CreateSwapchain"); err != nil {
		return vk.NullSwapchain, err
	}
	f.swapchainInfo = info
	return vk.Swapchain(newHandle()), nil
}

func (f *fakeDriver) SwapchainImages(device vk.Device, swapchain vk.Swapchain) ([]vk.Image, error) {
	if err := f.record("SwapchainImages"); err != nil {
		return nil, err
	}
	if f.images == nil {
		for i := 0; i < f.swapchainImages; i++ {
			f.images = append(f.images, vk.Image(newHandle()))
		}
	}
	return f.images, nil
}

func (f *fakeDriver) DestroySwapchain(device vk.Device, swapchain vk.Swapchain) {
	f.record("DestroySwapchain")
}

func (f *fakeDriver) CreateImageView(device vk.Device, info *vk.ImageViewCreateInfo) (vk.ImageView, error) {
	if err := f.record("CreateImageView"); err != nil {
		return vk.NullImageView, err
	}
	return vk.ImageView(newHandle()), nil
}

func (f *fakeDriver) DestroyImageView(device vk.Device, view vk.ImageView) {
	f.record("DestroyImageView")
}

func (f *fakeDriver) CreateFramebuffer(device vk.Device, info *vk.FramebufferCreateInfo) (vk.Framebuffer, error) {
	if err := f.record("CreateFramebuffer"); err != nil {
		return vk.NullFramebuffer, err
	}
	return vk.Framebuffer(newHandle()), nil
}

func (f *fakeDriver) DestroyFramebuffer(device vk.Device, framebuffer vk.Framebuffer) {
	f.record("DestroyFramebuffer")
}

func (f *fakeDriver) CreateRenderPass(device vk.Device, info *vk.RenderPassCreateInfo) (vk.RenderPass, error) {
	if err := f.record("CreateRenderPass"); err != nil {
		return vk.NullRenderPass, err
	}
	f.renderPass = info
	return vk.RenderPass(newHandle()), nil
}

func (f *fakeDriver) DestroyRenderPass(device vk.Device, pass vk.RenderPass) {
	f.record("DestroyRenderPass")
}

func (f *fakeDriver) CreateShaderModule(device vk.Device, info *vk.ShaderModuleCreateInfo) (vk.ShaderModule, error) {
	if err := f.record("CreateShaderModule"); err != nil {
		return vk.NullShaderModule, err
	}
	module := vk.ShaderModule(newHandle())
	f.shaderModules[module] = true
	return module, nil
}

func (f *fakeDriver) DestroyShaderModule(device vk.Device, module vk.ShaderModule) {
	f.record("DestroyShaderModule")
	if !f.shaderModules[module] {
		f.violate("destroy of unknown shader module")
	}
	delete(f.shaderModules, module)
}

func (f *fakeDriver) CreatePipelineLayout(device vk.Device, info *vk.PipelineLayoutCreateInfo) (vk.PipelineLayout, error) {
	if err := f.record("CreatePipelineLayout"); err != nil {
		return vk.NullPipelineLayout, err
	}
	return vk.PipelineLayout(newHandle()), nil
}

func (f *fakeDriver) DestroyPipelineLayout(device vk.Device, layout vk.PipelineLayout) {
	f.record("DestroyPipelineLayout")
}

func (f *fakeDriver) CreateGraphicsPipeline(device vk.Device, info *vk.GraphicsPipelineCreateInfo) (vk.Pipeline, error) {
	if err := f.record("CreateGraphicsPipeline"); err != nil {
		return vk.NullPipeline, err
	}
	f.pipelineInfo = info
	return vk.Pipeline(newHandle()), nil
}

func (f *fakeDriver) DestroyPipeline(device vk.Device, pipeline vk.Pipeline) {
	f.record("DestroyPipeline")
}

func (f *fakeDriver) CreateCommandPool(device vk.Device, info *vk.CommandPoolCreateInfo) (vk.CommandPool, error) {
	if err := f.record("CreateCommandPool"); err != nil {
		return vk.NullCommandPool, err
	}
	f.poolInfo = info
	return vk.CommandPool(newHandle()), nil
}

func (f *fakeDriver) DestroyCommandPool(device vk.Device, pool vk.CommandPool) {
	f.record("DestroyCommandPool")
}

func (f *fakeDriver) AllocateCommandBuffer(device vk.Device, info *vk.CommandBufferAllocateInfo) (vk.CommandBuffer, error) {
	if err := f.record("AllocateCommandBuffer"); err != nil {
		return nil, err
	}
	cmd := vk.CommandBuffer(newHandle())
	f.commands[cmd] = cmdInitial
	return cmd, nil
}

func (f *fakeDriver) ResetCommandBuffer(cmd vk.CommandBuffer) error {
	if err := f.record("ResetCommandBuffer"); err != nil {
		return err
	}
	if f.commands[cmd] == cmdPending {
		f.violate("reset of pending command buffer")
	}
	f.commands[cmd] = cmdInitial
	return nil
}

func (f *fakeDriver) BeginCommandBuffer(cmd vk.CommandBuffer, info *vk.CommandBufferBeginInfo) error {
	if err := f.record("BeginCommandBuffer"); err != nil {
		return err
	}
	if f.commands[cmd] != cmdInitial {
		f.violate("begin of command buffer in %s state", f.commands[cmd])
	}
	f.commands[cmd] = cmdRecording
	return nil
}

func (f *fakeDriver) EndCommandBuffer(cmd vk.CommandBuffer) error {
	if err := f.record("EndCommandBuffer"); err != nil {
		return err
	}
	f.mustRecord(cmd, "EndCommandBuffer")
	f.commands[cmd] = cmdExecutable
	return nil
}

func (f *fakeDriver) mustRecord(cmd vk.CommandBuffer, op string) {
	if f.commands[cmd] != cmdRecording {
		f.violate("%s on command buffer in %s state", op, f.commands[cmd])
	}
}

func (f *fakeDriver) CmdBeginRenderPass(cmd vk.CommandBuffer, info *vk.RenderPassBeginInfo) {
	f.record("CmdBeginRenderPass")
	f.mustRecord(cmd, "CmdBeginRenderPass")
}

func (f *fakeDriver) CmdBindPipeline(cmd vk.CommandBuffer, pipeline vk.Pipeline) {
	f.record("CmdBindPipeline")
	f.mustRecord(cmd, "CmdBindPipeline")
}

func (f *fakeDriver) CmdSetViewport(cmd vk.CommandBuffer, viewport vk.Viewport) {
	f.record("CmdSetViewport")
	f.mustRecord(cmd, "CmdSetViewport")
}

func (f *fakeDriver) CmdSetScissor(cmd vk.CommandBuffer, scissor vk.Rect2D) {
	f.record("CmdSetScissor")
	f.mustRecord(cmd, "CmdSetScissor")
}

func (f *fakeDriver) CmdDraw(cmd vk.CommandBuffer, vertexCount, instanceCount uint32) {
	f.record("CmdDraw")
	f.mustRecord(cmd, "CmdDraw")
	if vertexCount != 3 || instanceCount != 1 {
		f.violate("draw(%d, %d)", vertexCount, instanceCount)
	}
	f.draws++
}

func (f *fakeDriver) CmdEndRenderPass(cmd vk.CommandBuffer) {
	f.record("CmdEndRenderPass")
	f.mustRecord(cmd, "CmdEndRenderPass")
}

func (f *fakeDriver) CreateSemaphore(device vk.Device) (vk.Semaphore, error) {
	if err := f.record("CreateSemaphore"); err != nil {
		return vk.NullSemaphore, err
	}
	return vk.Semaphore(newHandle()), nil
}

func (f *fakeDriver) DestroySemaphore(device vk.Device, semaphore vk.Semaphore) {
	f.record("DestroySemaphore")
}

func (f *fakeDriver) CreateFence(device vk.Device, signaled bool) (vk.Fence, error) {
	if err := f.record("CreateFence"); err != nil {
		return vk.NullFence, err
	}
	fence := vk.Fence(newHandle())
	f.fences[fence] = signaled
	return fence, nil
}

func (f *fakeDriver) DestroyFence(device vk.Device, fence vk.Fence) {
	f.record("DestroyFence")
}

// WaitForFence completes the work tied to fence. Waiting on an unsignaled
// fence with nothing submitted would never return.
func (f *fakeDriver) WaitForFence(device vk.Device, fence vk.Fence) error {
	if err := f.record("WaitForFence"); err != nil {
		return err
	}
	if cmd, ok := f.fenceWork[fence]; ok {
		f.commands[cmd] = cmdExecutable
		delete(f.fenceWork, fence)
		f.fences[fence] = true
	}
	if !f.fences[fence] {
		f.violate("wait on unsignaled fence with no pending work")
	}
	return nil
}

func (f *fakeDriver) ResetFence(device vk.Device, fence vk.Fence) error {
	if err := f.record("ResetFence"); err != nil {
		return err
	}
	if _, ok := f.fenceWork[fence]; ok {
		f.violate("reset of fence with pending work")
	}
	f.fences[fence] = false
	return nil
}

func (f *fakeDriver) AcquireNextImage(device vk.Device, swapchain vk.Swapchain, signal vk.Semaphore) (uint32, error) {
	if err := f.record("AcquireNextImage"); err != nil {
		return 0, err
	}
	if err := NewError(f.acquireResult); err != nil {
		return 0, err
	}
	index := f.nextImage
	f.nextImage = (f.nextImage + 1) % uint32(len(f.images))
	if f.acquired[index] {
		f.violate("image %d acquired twice", index)
	}
	f.acquired[index] = true
	return index, nil
}

func (f *fakeDriver) QueueSubmit(queue vk.Queue, info *vk.SubmitInfo, fence vk.Fence) error {
	if err := f.record("QueueSubmit"); err != nil {
		return err
	}
	if f.fences[fence] {
		f.violate("submit with signaled fence")
	}
	for _, cmd := range info.PCommandBuffers {
		if f.commands[cmd] != cmdExecutable {
			f.violate("submit of command buffer in %s state", f.commands[cmd])
		}
		f.commands[cmd] = cmdPending
		f.fenceWork[fence] = cmd
	}
	f.submits = append(f.submits, *info)
	return nil
}

func (f *fakeDriver) QueuePresent(queue vk.Queue, info *vk.PresentInfo) error {
	if err := f.record("QueuePresent"); err != nil {
		return err
	}
	for _, index := range info.PImageIndices {
		if !f.acquired[index] {
			f.violate("present of image %d that was not acquired", index)
		}
		delete(f.acquired, index)
	}
	f.presents = append(f.presents, *info)
	return NewError(f.presentResult)
}

var errInjected = errors.New("injected failure")

// fakeWindow closes after closeAfter polls.
type fakeWindow struct {
	width, height int
	extensions    []string
	polls         int
	closeAfter    int
	surfaceErr    error

	// surface is the VkSurfaceKHR CreateWindowSurface hands out by address.
	surface vk.Surface
}

func (w *fakeWindow) ShouldClose() bool {
	return w.polls >= w.closeAfter
}

func (w *fakeWindow) GetFramebufferSize() (int, int) {
	return w.width, w.height
}

func (w *fakeWindow) GetRequiredInstanceExtensions() []string {
	return w.extensions
}

func (w *fakeWindow) CreateWindowSurface(instance interface{}, allocCallbacks unsafe.Pointer) (uintptr, error) {
	if w.surfaceErr != nil {
		return 0, w.surfaceErr
	}
	w.surface = vk.Surface(newHandle())
	return uintptr(unsafe.Pointer(&w.surface)), nil
}

func newFakeDisplay(closeAfter int) (*Display, *fakeWindow) {
	w := &fakeWindow{
		width:      800,
		height:     600,
		extensions: []string{"VK_KHR_surface", "VK_KHR_xcb_surface"},
		closeAfter: closeAfter,
	}
	return NewDisplay(w, func() { w.polls++ }), w
}

// mapLoader serves shader binaries from memory.
type mapLoader map[string][]byte

func (m mapLoader) ReadBinary(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, errors.Errorf("no shader %s", path)
	}
	return data, nil
}

// spirvStub is a SPIR-V header; the fake never parses it.
var spirvStub = []byte{0x03, 0x02, 0x23, 0x07, 0x00, 0x00, 0x01, 0x00}

func testLoader(cfg Config) mapLoader {
	return mapLoader{cfg.VertexShader: spirvStub, cfg.FragmentShader: spirvStub}
}

// singleGPUDriver has one GPU whose only family does graphics and presents.
func singleGPUDriver() *fakeDriver {
	f := newFakeDriver()
	g := newFakeGPU("fake gpu", vk.QueueGraphicsBit)
	g.present[0] = true
	f.gpus = []*fakeGPU{g}
	return f
}
