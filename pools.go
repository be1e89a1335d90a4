package vkbegins

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// CommandPool owns the pool on the graphics family and the single primary
// command buffer every frame is recorded into.
type CommandPool struct {
	driver Driver
	device vk.Device
	pool   vk.CommandPool
	Buffer vk.CommandBuffer
}

// NewCommandPool creates a pool whose buffers can be reset one at a time.
func NewCommandPool(d Driver, device vk.Device, family uint32) (*CommandPool, error) {
	pool, err := d.CreateCommandPool(device, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
		QueueFamilyIndex: family,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create command pool")
	}
	return &CommandPool{driver: d, device: device, pool: pool}, nil
}

// Allocate allocates the primary command buffer.
func (c *CommandPool) Allocate() error {
	cmd, err := c.driver.AllocateCommandBuffer(c.device, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        c.pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	})
	if err != nil {
		return errors.Wrap(err, "allocate command buffer")
	}
	c.Buffer = cmd
	return nil
}

// RenderTarget is what one recording draws into.
type RenderTarget struct {
	RenderPass   vk.RenderPass
	Pipeline     vk.Pipeline
	Framebuffers []vk.Framebuffer
	Extent       vk.Extent2D
	ClearColor   [4]float32
}

// Reset returns the buffer to the initial state.
func (c *CommandPool) Reset() error {
	return errors.Wrap(c.driver.ResetCommandBuffer(c.Buffer), "reset command buffer")
}

// RecordFrame records the triangle into Framebuffers[imageIndex], leaving the
// buffer executable.
func (c *CommandPool) RecordFrame(imageIndex uint32, target RenderTarget) error {
	if int(imageIndex) >= len(target.Framebuffers) {
		return errors.Errorf("record frame: image index %d out of range [0, %d)", imageIndex, len(target.Framebuffers))
	}
	cmd := c.Buffer
	if err := c.driver.BeginCommandBuffer(cmd, &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
	}); err != nil {
		return errors.Wrap(err, "begin command buffer")
	}

	area := vk.Rect2D{Offset: vk.Offset2D{X: 0, Y: 0}, Extent: target.Extent}
	c.driver.CmdBeginRenderPass(cmd, &vk.RenderPassBeginInfo{
		SType:           vk.StructureTypeRenderPassBeginInfo,
		RenderPass:      target.RenderPass,
		Framebuffer:     target.Framebuffers[imageIndex],
		RenderArea:      area,
		ClearValueCount: 1,
		PClearValues:    []vk.ClearValue{vk.NewClearValue(target.ClearColor[:])},
	})
	c.driver.CmdBindPipeline(cmd, target.Pipeline)
	c.driver.CmdSetViewport(cmd, vk.Viewport{
		X:        0,
		Y:        0,
		Width:    float32(target.Extent.Width),
		Height:   float32(target.Extent.Height),
		MinDepth: 0.0,
		MaxDepth: 1.0,
	})
	c.driver.CmdSetScissor(cmd, area)
	c.driver.CmdDraw(cmd, 3, 1)
	c.driver.CmdEndRenderPass(cmd)

	if err := c.driver.EndCommandBuffer(cmd); err != nil {
		return errors.Wrap(err, "end command buffer")
	}
	return nil
}

// Destroy frees the pool and with it the command buffer.
func (c *CommandPool) Destroy() {
	if c == nil {
		return
	}
	c.driver.DestroyCommandPool(c.device, c.pool)
	c.pool = vk.NullCommandPool
	c.Buffer = nil
}
