package vkbegins

import (
	vk "github.com/vulkan-go/vulkan"
)

type vulkanDriver struct{}

// NewVulkanDriver returns the Driver backed by vulkan-go. vk.Init must have
// been called with a loader (for GLFW: vk.SetGetInstanceProcAddr with
// glfw.GetVulkanGetInstanceProcAddress) before the first call.
func NewVulkanDriver() Driver {
	return vulkanDriver{}
}

func (vulkanDriver) InstanceExtensions() (names []string, err error) {
	defer checkErr(&err)

	var count uint32
	ret := vk.EnumerateInstanceExtensionProperties("", &count, nil)
	orPanic(NewError(ret))
	list := make([]vk.ExtensionProperties, count)
	ret = vk.EnumerateInstanceExtensionProperties("", &count, list)
	orPanic(NewError(ret))
	for _, ext := range list[:count] {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names, err
}

func (vulkanDriver) InstanceLayers() (names []string, err error) {
	defer checkErr(&err)

	var count uint32
	ret := vk.EnumerateInstanceLayerProperties(&count, nil)
	orPanic(NewError(ret))
	list := make([]vk.LayerProperties, count)
	ret = vk.EnumerateInstanceLayerProperties(&count, list)
	orPanic(NewError(ret))
	for _, layer := range list[:count] {
		layer.Deref()
		names = append(names, vk.ToString(layer.LayerName[:]))
	}
	return names, err
}

func (vulkanDriver) CreateInstance(info *vk.InstanceCreateInfo) (vk.Instance, error) {
	var instance vk.Instance
	if ret := vk.CreateInstance(info, nil, &instance); isError(ret) {
		return nil, NewError(ret)
	}
	if err := vk.InitInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, err
	}
	return instance, nil
}

func (vulkanDriver) DestroyInstance(instance vk.Instance) {
	if instance != nil {
		vk.DestroyInstance(instance, nil)
	}
}

func (vulkanDriver) CreateDebugReportCallback(instance vk.Instance, info *vk.DebugReportCallbackCreateInfo) (vk.DebugReportCallback, error) {
	var callback vk.DebugReportCallback
	ret := vk.CreateDebugReportCallback(instance, info, nil, &callback)
	if ret == vk.NotReady {
		// The bridge answers NotReady when the loader has no such entry point.
		ret = vk.ErrorExtensionNotPresent
	}
	if isError(ret) {
		return vk.NullDebugReportCallback, NewError(ret)
	}
	return callback, nil
}

func (vulkanDriver) DestroyDebugReportCallback(instance vk.Instance, callback vk.DebugReportCallback) {
	if callback != vk.NullDebugReportCallback {
		vk.DestroyDebugReportCallback(instance, callback, nil)
	}
}

func (vulkanDriver) DestroySurface(instance vk.Instance, surface vk.Surface) {
	if surface != vk.NullSurface {
		vk.DestroySurface(instance, surface, nil)
	}
}

func (vulkanDriver) PhysicalDevices(instance vk.Instance) ([]vk.PhysicalDevice, error) {
	var count uint32
	if ret := vk.EnumeratePhysicalDevices(instance, &count, nil); isError(ret) {
		return nil, NewError(ret)
	}
	if count == 0 {
		return nil, nil
	}
	gpus := make([]vk.PhysicalDevice, count)
	if ret := vk.EnumeratePhysicalDevices(instance, &count, gpus); isError(ret) {
		return nil, NewError(ret)
	}
	return gpus[:count], nil
}

func (vulkanDriver) DeviceName(gpu vk.PhysicalDevice) string {
	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(gpu, &props)
	props.Deref()
	return vk.ToString(props.DeviceName[:])
}

func (vulkanDriver) DeviceExtensions(gpu vk.PhysicalDevice) (names []string, err error) {
	defer checkErr(&err)

	var count uint32
	ret := vk.EnumerateDeviceExtensionProperties(gpu, "", &count, nil)
	orPanic(NewError(ret))
	list := make([]vk.ExtensionProperties, count)
	ret = vk.EnumerateDeviceExtensionProperties(gpu, "", &count, list)
	orPanic(NewError(ret))
	for _, ext := range list[:count] {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names, err
}

func (vulkanDriver) QueueFamilies(gpu vk.PhysicalDevice) []vk.QueueFamilyProperties {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, nil)
	props := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, props)
	for i := range props {
		props[i].Deref()
	}
	return props[:count]
}

func (vulkanDriver) SurfaceSupport(gpu vk.PhysicalDevice, family uint32, surface vk.Surface) (bool, error) {
	var supported vk.Bool32
	if ret := vk.GetPhysicalDeviceSurfaceSupport(gpu, family, surface, &supported); isError(ret) {
		return false, NewError(ret)
	}
	return supported.B(), nil
}

func (vulkanDriver) SurfaceCapabilities(gpu vk.PhysicalDevice, surface vk.Surface) (vk.SurfaceCapabilities, error) {
	var caps vk.SurfaceCapabilities
	if ret := vk.GetPhysicalDeviceSurfaceCapabilities(gpu, surface, &caps); isError(ret) {
		return caps, NewError(ret)
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()
	return caps, nil
}

func (vulkanDriver) SurfaceFormats(gpu vk.PhysicalDevice, surface vk.Surface) ([]vk.SurfaceFormat, error) {
	var count uint32
	if ret := vk.GetPhysicalDeviceSurfaceFormats(gpu, surface, &count, nil); isError(ret) {
		return nil, NewError(ret)
	}
	if count == 0 {
		return nil, nil
	}
	formats := make([]vk.SurfaceFormat, count)
	if ret := vk.GetPhysicalDeviceSurfaceFormats(gpu, surface, &count, formats); isError(ret) {
		return nil, NewError(ret)
	}
	for i := range formats {
		formats[i].Deref()
	}
	return formats[:count], nil
}

func (vulkanDriver) SurfacePresentModes(gpu vk.PhysicalDevice, surface vk.Surface) ([]vk.PresentMode, error) {
	var count uint32
	if ret := vk.GetPhysicalDeviceSurfacePresentModes(gpu, surface, &count, nil); isError(ret) {
		return nil, NewError(ret)
	}
	if count == 0 {
		return nil, nil
	}
	modes := make([]vk.PresentMode, count)
	if ret := vk.GetPhysicalDeviceSurfacePresentModes(gpu, surface, &count, modes); isError(ret) {
		return nil, NewError(ret)
	}
	return modes[:count], nil
}

func (vulkanDriver) CreateDevice(gpu vk.PhysicalDevice, info *vk.DeviceCreateInfo) (vk.Device, error) {
	var device vk.Device
	if ret := vk.CreateDevice(gpu, info, nil, &device); isError(ret) {
		return nil, NewError(ret)
	}
	return device, nil
}

func (vulkanDriver) DeviceQueue(device vk.Device, family uint32) vk.Queue {
	var queue vk.Queue
	vk.GetDeviceQueue(device, family, 0, &queue)
	return queue
}

func (vulkanDriver) DeviceWaitIdle(device vk.Device) error {
	return NewError(vk.DeviceWaitIdle(device))
}

func (vulkanDriver) DestroyDevice(device vk.Device) {
	if device != nil {
		vk.DestroyDevice(device, nil)
	}
}

func (vulkanDriver) CreateSwapchain(device vk.Device, info *vk.SwapchainCreateInfo) (vk.Swapchain, error) {
	var swapchain vk.Swapchain
	if ret := vk.CreateSwapchain(device, info, nil, &swapchain); isError(ret) {
		return vk.NullSwapchain, NewError(ret)
	}
	return swapchain, nil
}

func (vulkanDriver) SwapchainImages(device vk.Device, swapchain vk.Swapchain) ([]vk.Image, error) {
	var count uint32
	if ret := vk.GetSwapchainImages(device, swapchain, &count, nil); isError(ret) {
		return nil, NewError(ret)
	}
	images := make([]vk.Image, count)
	if ret := vk.GetSwapchainImages(device, swapchain, &count, images); isError(ret) {
		return nil, NewError(ret)
	}
	return images[:count], nil
}

func (vulkanDriver) DestroySwapchain(device vk.Device, swapchain vk.Swapchain) {
	if swapchain != vk.NullSwapchain {
		vk.DestroySwapchain(device, swapchain, nil)
	}
}

func (vulkanDriver) CreateImageView(device vk.Device, info *vk.ImageViewCreateInfo) (vk.ImageView, error) {
	var view vk.ImageView
	if ret := vk.CreateImageView(device, info, nil, &view); isError(ret) {
		return vk.NullImageView, NewError(ret)
	}
	return view, nil
}

func (vulkanDriver) DestroyImageView(device vk.Device, view vk.ImageView) {
	if view != vk.NullImageView {
		vk.DestroyImageView(device, view, nil)
	}
}

func (vulkanDriver) CreateFramebuffer(device vk.Device, info *vk.FramebufferCreateInfo) (vk.Framebuffer, error) {
	var framebuffer vk.Framebuffer
	if ret := vk.CreateFramebuffer(device, info, nil, &framebuffer); isError(ret) {
		return vk.NullFramebuffer, NewError(ret)
	}
	return framebuffer, nil
}

func (vulkanDriver) DestroyFramebuffer(device vk.Device, framebuffer vk.Framebuffer) {
	if framebuffer != vk.NullFramebuffer {
		vk.DestroyFramebuffer(device, framebuffer, nil)
	}
}

func (vulkanDriver) CreateRenderPass(device vk.Device, info *vk.RenderPassCreateInfo) (vk.RenderPass, error) {
	var pass vk.RenderPass
	if ret := vk.CreateRenderPass(device, info, nil, &pass); isError(ret) {
		return vk.NullRenderPass, NewError(ret)
	}
	return pass, nil
}

func (vulkanDriver) DestroyRenderPass(device vk.Device, pass vk.RenderPass) {
	if pass != vk.NullRenderPass {
		vk.DestroyRenderPass(device, pass, nil)
	}
}

func (vulkanDriver) CreateShaderModule(device vk.Device, info *vk.ShaderModuleCreateInfo) (vk.ShaderModule, error) {
	var module vk.ShaderModule
	if ret := vk.CreateShaderModule(device, info, nil, &module); isError(ret) {
		return vk.NullShaderModule, NewError(ret)
	}
	return module, nil
}

func (vulkanDriver) DestroyShaderModule(device vk.Device, module vk.ShaderModule) {
	if module != vk.NullShaderModule {
		vk.DestroyShaderModule(device, module, nil)
	}
}

func (vulkanDriver) CreatePipelineLayout(device vk.Device, info *vk.PipelineLayoutCreateInfo) (vk.PipelineLayout, error) {
	var layout vk.PipelineLayout
	if ret := vk.CreatePipelineLayout(device, info, nil, &layout); isError(ret) {
		return vk.NullPipelineLayout, NewError(ret)
	}
	return layout, nil
}

func (vulkanDriver) DestroyPipelineLayout(device vk.Device, layout vk.PipelineLayout) {
	if layout != vk.NullPipelineLayout {
		vk.DestroyPipelineLayout(device, layout, nil)
	}
}

func (vulkanDriver) CreateGraphicsPipeline(device vk.Device, info *vk.GraphicsPipelineCreateInfo) (vk.Pipeline, error) {
	pipelines := []vk.Pipeline{vk.NullPipeline}
	ret := vk.CreateGraphicsPipelines(device, vk.PipelineCache(vk.NullHandle), 1,
		[]vk.GraphicsPipelineCreateInfo{*info}, nil, pipelines)
	if isError(ret) {
		return vk.NullPipeline, NewError(ret)
	}
	return pipelines[0], nil
}

func (vulkanDriver) DestroyPipeline(device vk.Device, pipeline vk.Pipeline) {
	if pipeline != vk.NullPipeline {
		vk.DestroyPipeline(device, pipeline, nil)
	}
}

func (vulkanDriver) CreateCommandPool(device vk.Device, info *vk.CommandPoolCreateInfo) (vk.CommandPool, error) {
	var pool vk.CommandPool
	if ret := vk.CreateCommandPool(device, info, nil, &pool); isError(ret) {
		return vk.NullCommandPool, NewError(ret)
	}
	return pool, nil
}

func (vulkanDriver) DestroyCommandPool(device vk.Device, pool vk.CommandPool) {
	if pool != vk.NullCommandPool {
		vk.DestroyCommandPool(device, pool, nil)
	}
}

func (vulkanDriver) AllocateCommandBuffer(device vk.Device, info *vk.CommandBufferAllocateInfo) (vk.CommandBuffer, error) {
	buffers := make([]vk.CommandBuffer, 1)
	if ret := vk.AllocateCommandBuffers(device, info, buffers); isError(ret) {
		return nil, NewError(ret)
	}
	return buffers[0], nil
}

func (vulkanDriver) ResetCommandBuffer(cmd vk.CommandBuffer) error {
	return NewError(vk.ResetCommandBuffer(cmd, vk.CommandBufferResetFlags(0)))
}

func (vulkanDriver) BeginCommandBuffer(cmd vk.CommandBuffer, info *vk.CommandBufferBeginInfo) error {
	return NewError(vk.BeginCommandBuffer(cmd, info))
}

func (vulkanDriver) EndCommandBuffer(cmd vk.CommandBuffer) error {
	return NewError(vk.EndCommandBuffer(cmd))
}

func (vulkanDriver) CmdBeginRenderPass(cmd vk.CommandBuffer, info *vk.RenderPassBeginInfo) {
	vk.CmdBeginRenderPass(cmd, info, vk.SubpassContentsInline)
}

func (vulkanDriver) CmdBindPipeline(cmd vk.CommandBuffer, pipeline vk.Pipeline) {
	vk.CmdBindPipeline(cmd, vk.PipelineBindPointGraphics, pipeline)
}

func (vulkanDriver) CmdSetViewport(cmd vk.CommandBuffer, viewport vk.Viewport) {
	vk.CmdSetViewport(cmd, 0, 1, []vk.Viewport{viewport})
}

func (vulkanDriver) CmdSetScissor(cmd vk.CommandBuffer, scissor vk.Rect2D) {
	vk.CmdSetScissor(cmd, 0, 1, []vk.Rect2D{scissor})
}

func (vulkanDriver) CmdDraw(cmd vk.CommandBuffer, vertexCount, instanceCount uint32) {
	vk.CmdDraw(cmd, vertexCount, instanceCount, 0, 0)
}

func (vulkanDriver) CmdEndRenderPass(cmd vk.CommandBuffer) {
	vk.CmdEndRenderPass(cmd)
}

func (vulkanDriver) CreateSemaphore(device vk.Device) (vk.Semaphore, error) {
	var semaphore vk.Semaphore
	ret := vk.CreateSemaphore(device, &vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}, nil, &semaphore)
	if isError(ret) {
		return vk.NullSemaphore, NewError(ret)
	}
	return semaphore, nil
}

func (vulkanDriver) DestroySemaphore(device vk.Device, semaphore vk.Semaphore) {
	if semaphore != vk.NullSemaphore {
		vk.DestroySemaphore(device, semaphore, nil)
	}
}

func (vulkanDriver) CreateFence(device vk.Device, signaled bool) (vk.Fence, error) {
	info := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}
	if signaled {
		info.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}
	var fence vk.Fence
	if ret := vk.CreateFence(device, &info, nil, &fence); isError(ret) {
		return vk.NullFence, NewError(ret)
	}
	return fence, nil
}

func (vulkanDriver) DestroyFence(device vk.Device, fence vk.Fence) {
	if fence != vk.NullFence {
		vk.DestroyFence(device, fence, nil)
	}
}

func (vulkanDriver) WaitForFence(device vk.Device, fence vk.Fence) error {
	return NewError(vk.WaitForFences(device, 1, []vk.Fence{fence}, vk.True, vk.MaxUint64))
}

func (vulkanDriver) ResetFence(device vk.Device, fence vk.Fence) error {
	return NewError(vk.ResetFences(device, 1, []vk.Fence{fence}))
}

func (vulkanDriver) AcquireNextImage(device vk.Device, swapchain vk.Swapchain, signal vk.Semaphore) (uint32, error) {
	var index uint32
	ret := vk.AcquireNextImage(device, swapchain, vk.MaxUint64, signal, vk.NullFence, &index)
	if ret == vk.Suboptimal {
		return index, nil
	}
	return index, NewError(ret)
}

func (vulkanDriver) QueueSubmit(queue vk.Queue, info *vk.SubmitInfo, fence vk.Fence) error {
	return NewError(vk.QueueSubmit(queue, 1, []vk.SubmitInfo{*info}, fence))
}

func (vulkanDriver) QueuePresent(queue vk.Queue, info *vk.PresentInfo) error {
	ret := vk.QueuePresent(queue, info)
	if ret == vk.Suboptimal {
		return nil
	}
	return NewError(ret)
}
