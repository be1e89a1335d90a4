package vkbegins

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Init starts GLFW and points vulkan-go at the GLFW loader. It must run on
// the main thread before any other call into this package.
func Init() error {
	if err := glfw.Init(); err != nil {
		return errors.Wrap(err, "glfw init")
	}
	vk.SetGetInstanceProcAddr(glfw.GetVulkanGetInstanceProcAddress())
	if err := vk.Init(); err != nil {
		glfw.Terminate()
		return errors.Wrap(err, "vulkan loader init")
	}
	return nil
}

// Terminate shuts GLFW down. Call it last, on the main thread.
func Terminate() {
	glfw.Terminate()
}

// OpenWindow creates a fixed-size window with no client API attached, so the
// surface can be bound to Vulkan later.
func OpenWindow(cfg Config) (*Display, func(), error) {
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, nil, errors.Wrap(err, "create window")
	}
	return NewDisplay(window, glfw.PollEvents), window.Destroy, nil
}
