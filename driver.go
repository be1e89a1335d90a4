package vkbegins

import vk "github.com/vulkan-go/vulkan"

// Driver is the part of the Vulkan API the renderer drives. NewVulkanDriver
// returns the implementation backed by vulkan-go. Every create call returns
// an error for a non-success result; destroy calls accept null handles.
//
// Create-info structs are passed through untouched so callers keep full
// control over what reaches the driver.
type Driver interface {
	// Instance level.
	InstanceExtensions() ([]string, error)
	InstanceLayers() ([]string, error)
	CreateInstance(info *vk.InstanceCreateInfo) (vk.Instance, error)
	DestroyInstance(instance vk.Instance)
	// CreateDebugReportCallback reports a missing entry point as
	// vk.ErrorExtensionNotPresent.
	CreateDebugReportCallback(instance vk.Instance, info *vk.DebugReportCallbackCreateInfo) (vk.DebugReportCallback, error)
	DestroyDebugReportCallback(instance vk.Instance, callback vk.DebugReportCallback)
	DestroySurface(instance vk.Instance, surface vk.Surface)

	// Physical devices.
	PhysicalDevices(instance vk.Instance) ([]vk.PhysicalDevice, error)
	DeviceName(gpu vk.PhysicalDevice) string
	DeviceExtensions(gpu vk.PhysicalDevice) ([]string, error)
	QueueFamilies(gpu vk.PhysicalDevice) []vk.QueueFamilyProperties
	SurfaceSupport(gpu vk.PhysicalDevice, family uint32, surface vk.Surface) (bool, error)
	SurfaceCapabilities(gpu vk.PhysicalDevice, surface vk.Surface) (vk.SurfaceCapabilities, error)
	SurfaceFormats(gpu vk.PhysicalDevice, surface vk.Surface) ([]vk.SurfaceFormat, error)
	SurfacePresentModes(gpu vk.PhysicalDevice, surface vk.Surface) ([]vk.PresentMode, error)

	// Logical device.
	CreateDevice(gpu vk.PhysicalDevice, info *vk.DeviceCreateInfo) (vk.Device, error)
	DeviceQueue(device vk.Device, family uint32) vk.Queue
	DeviceWaitIdle(device vk.Device) error
	DestroyDevice(device vk.Device)

	// Swapchain and attachments.
	CreateSwapchain(device vk.Device, info *vk.SwapchainCreateInfo) (vk.Swapchain, error)
	SwapchainImages(device vk.Device, swapchain vk.Swapchain) ([]vk.Image, error)
	DestroySwapchain(device vk.Device, swapchain vk.Swapchain)
	CreateImageView(device vk.Device, info *vk.ImageViewCreateInfo) (vk.ImageView, error)
	DestroyImageView(device vk.Device, view vk.ImageView)
	CreateFramebuffer(device vk.Device, info *vk.FramebufferCreateInfo) (vk.Framebuffer, error)
	DestroyFramebuffer(device vk.Device, framebuffer vk.Framebuffer)

	// Pipeline state.
	CreateRenderPass(device vk.Device, info *vk.RenderPassCreateInfo) (vk.RenderPass, error)
	DestroyRenderPass(device vk.Device, pass vk.RenderPass)
	CreateShaderModule(device vk.Device, info *vk.ShaderModuleCreateInfo) (vk.ShaderModule, error)
	DestroyShaderModule(device vk.Device, module vk.ShaderModule)
	CreatePipelineLayout(device vk.Device, info *vk.PipelineLayoutCreateInfo) (vk.PipelineLayout, error)
	DestroyPipelineLayout(device vk.Device, layout vk.PipelineLayout)
	CreateGraphicsPipeline(device vk.Device, info *vk.GraphicsPipelineCreateInfo) (vk.Pipeline, error)
	DestroyPipeline(device vk.Device, pipeline vk.Pipeline)

	// Commands.
	CreateCommandPool(device vk.Device, info *vk.CommandPoolCreateInfo) (vk.CommandPool, error)
	DestroyCommandPool(device vk.Device, pool vk.CommandPool)
	AllocateCommandBuffer(device vk.Device, info *vk.CommandBufferAllocateInfo) (vk.CommandBuffer, error)
	ResetCommandBuffer(cmd vk.CommandBuffer) error
	BeginCommandBuffer(cmd vk.CommandBuffer, info *vk.CommandBufferBeginInfo) error
	EndCommandBuffer(cmd vk.CommandBuffer) error
	CmdBeginRenderPass(cmd vk.CommandBuffer, info *vk.RenderPassBeginInfo)
	CmdBindPipeline(cmd vk.CommandBuffer, pipeline vk.Pipeline)
	CmdSetViewport(cmd vk.CommandBuffer, viewport vk.Viewport)
	CmdSetScissor(cmd vk.CommandBuffer, scissor vk.Rect2D)
	CmdDraw(cmd vk.CommandBuffer, vertexCount, instanceCount uint32)
	CmdEndRenderPass(cmd vk.CommandBuffer)

	// Synchronization and queues. Waits never time out.
	CreateSemaphore(device vk.Device) (vk.Semaphore, error)
	DestroySemaphore(device vk.Device, semaphore vk.Semaphore)
	CreateFence(device vk.Device, signaled bool) (vk.Fence, error)
	DestroyFence(device vk.Device, fence vk.Fence)
	WaitForFence(device vk.Device, fence vk.Fence) error
	ResetFence(device vk.Device, fence vk.Fence) error
	AcquireNextImage(device vk.Device, swapchain vk.Swapchain, signal vk.Semaphore) (uint32, error)
	QueueSubmit(queue vk.Queue, info *vk.SubmitInfo, fence vk.Fence) error
	QueuePresent(queue vk.Queue, info *vk.PresentInfo) error
}
