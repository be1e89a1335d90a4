package vkbegins

import (
	"unsafe"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Window is what the renderer needs from the windowing system. *glfw.Window
// satisfies it.
type Window interface {
	ShouldClose() bool
	GetFramebufferSize() (width, height int)
	GetRequiredInstanceExtensions() []string
	CreateWindowSurface(instance interface{}, allocCallbacks unsafe.Pointer) (surface uintptr, err error)
}

// Display pairs a window with the function that pumps its event queue.
type Display struct {
	window Window
	poll   func()
}

func NewDisplay(window Window, poll func()) *Display {
	if poll == nil {
		poll = func() {}
	}
	return &Display{window: window, poll: poll}
}

func (d *Display) PollEvents() {
	d.poll()
}

func (d *Display) ShouldClose() bool {
	return d.window.ShouldClose()
}

// FramebufferSize returns the drawable size in pixels, which may differ
// from the window size on high-DPI screens.
func (d *Display) FramebufferSize() vk.Extent2D {
	w, h := d.window.GetFramebufferSize()
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return vk.Extent2D{Width: uint32(w), Height: uint32(h)}
}

func (d *Display) RequiredInstanceExtensions() []string {
	return d.window.GetRequiredInstanceExtensions()
}

func (d *Display) createSurface(instance vk.Instance) (vk.Surface, error) {
	ptr, err := d.window.CreateWindowSurface(instance, nil)
	if err != nil {
		return vk.NullSurface, errors.Wrap(err, "create window surface")
	}
	return vk.SurfaceFromPointer(ptr), nil
}
