package vkbegins

import (
	"fmt"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// FrameState is where DrawFrame currently is in the frame cycle.
type FrameState int

const (
	FrameIdle FrameState = iota
	FrameWaiting
	FrameAcquiring
	FrameRecording
	FrameSubmitted
	FramePresenting
)

var frameStateNames = [...]string{
	FrameIdle:       "idle",
	FrameWaiting:    "waiting",
	FrameAcquiring:  "acquiring",
	FrameRecording:  "recording",
	FrameSubmitted:  "submitted",
	FramePresenting: "presenting",
}

func (s FrameState) String() string {
	if s < 0 || int(s) >= len(frameStateNames) {
		return fmt.Sprintf("FrameState(%d)", int(s))
	}
	return frameStateNames[s]
}

// State reports the stage of the last DrawFrame. It is FrameIdle between
// completed frames and stays at the failing stage after an error.
func (c *Context) State() FrameState {
	return c.state
}

// Frames is the number of frames presented so far.
func (c *Context) Frames() uint64 {
	return c.frames
}

func (c *Context) setState(s FrameState) {
	c.state = s
	Logger().Debug("vulkan: frame state", "frame", c.frames, "state", s)
}

func (c *Context) target() RenderTarget {
	return RenderTarget{
		RenderPass:   c.Pipeline.RenderPass,
		Pipeline:     c.Pipeline.Handle,
		Framebuffers: c.Swapchain.Framebuffers,
		Extent:       c.Swapchain.Extent,
		ClearColor:   c.cfg.ClearColor,
	}
}

// DrawFrame renders and presents one frame. The previous frame's fence is
// waited on before its command buffer is touched again.
func (c *Context) DrawFrame() error {
	d := c.driver
	device := c.Device.Handle
	sync := c.Sync

	c.setState(FrameWaiting)
	if err := d.WaitForFence(device, sync.InFlight); err != nil {
		return errors.Wrap(err, "wait for in-flight fence")
	}
	if err := d.ResetFence(device, sync.InFlight); err != nil {
		return errors.Wrap(err, "reset in-flight fence")
	}

	c.setState(FrameAcquiring)
	imageIndex, err := d.AcquireNextImage(device, c.Swapchain.Handle, sync.ImageAvailable)
	if err != nil {
		return errors.Wrap(err, "acquire next image")
	}

	c.setState(FrameRecording)
	if err := c.Commands.Reset(); err != nil {
		return err
	}
	if err := c.Commands.RecordFrame(imageIndex, c.target()); err != nil {
		return err
	}

	if err := d.QueueSubmit(c.Device.GraphicsQueue, &vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{sync.ImageAvailable},
		PWaitDstStageMask:    []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{c.Commands.Buffer},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{sync.RenderFinished},
	}, sync.InFlight); err != nil {
		return errors.Wrap(err, "submit draw command buffer")
	}
	c.setState(FrameSubmitted)

	c.setState(FramePresenting)
	if err := d.QueuePresent(c.Device.PresentQueue, &vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{sync.RenderFinished},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{c.Swapchain.Handle},
		PImageIndices:      []uint32{imageIndex},
	}); err != nil {
		return errors.Wrap(err, "present")
	}

	c.frames++
	c.setState(FrameIdle)
	return nil
}
