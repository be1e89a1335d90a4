package vkbegins

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// FrameSync is the synchronization set for the single frame in flight.
// InFlight starts signaled so the first wait returns immediately.
type FrameSync struct {
	ImageAvailable vk.Semaphore
	RenderFinished vk.Semaphore
	InFlight       vk.Fence
}

func NewFrameSync(d Driver, device vk.Device) (*FrameSync, error) {
	s := &FrameSync{
		ImageAvailable: vk.NullSemaphore,
		RenderFinished: vk.NullSemaphore,
		InFlight:       vk.NullFence,
	}
	var err error
	if s.ImageAvailable, err = d.CreateSemaphore(device); err != nil {
		s.Destroy(d, device)
		return nil, errors.Wrap(err, "create image-available semaphore")
	}
	if s.RenderFinished, err = d.CreateSemaphore(device); err != nil {
		s.Destroy(d, device)
		return nil, errors.Wrap(err, "create render-finished semaphore")
	}
	if s.InFlight, err = d.CreateFence(device, true); err != nil {
		s.Destroy(d, device)
		return nil, errors.Wrap(err, "create in-flight fence")
	}
	return s, nil
}

func (s *FrameSync) Destroy(d Driver, device vk.Device) {
	if s == nil {
		return
	}
	d.DestroySemaphore(device, s.ImageAvailable)
	d.DestroySemaphore(device, s.RenderFinished)
	d.DestroyFence(device, s.InFlight)
	s.ImageAvailable = vk.NullSemaphore
	s.RenderFinished = vk.NullSemaphore
	s.InFlight = vk.NullFence
}
