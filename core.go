package vkbegins

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Context owns every GPU object of the renderer. Fields are populated in
// creation order by NewContext and released in reverse by Destroy.
type Context struct {
	cfg     Config
	driver  Driver
	display *Display

	Instance  *Instance
	Surface   vk.Surface
	GPU       *PhysicalDeviceChoice
	Device    *LogicalDevice
	Swapchain *Swapchain
	Pipeline  *Pipeline
	Commands  *CommandPool
	Sync      *FrameSync

	state  FrameState
	frames uint64
}

// NewContext brings up the whole chain against display. On failure every
// object created so far is destroyed before the error is returned.
func NewContext(cfg Config, display *Display, d Driver, loader ShaderLoader) (*Context, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if loader == nil {
		loader = FileLoader{}
	}
	c := &Context{
		cfg:     cfg,
		driver:  d,
		display: display,
		Surface: vk.NullSurface,
	}
	if err := c.init(loader); err != nil {
		c.Destroy()
		return nil, err
	}
	Logger().Info("Successfully initialized Vulkan.")
	return c, nil
}

func (c *Context) init(loader ShaderLoader) (err error) {
	d := c.driver

	if c.Instance, err = createInstance(d, c.cfg, c.display); err != nil {
		return err
	}
	if c.Surface, err = c.display.createSurface(c.Instance.Handle); err != nil {
		return err
	}
	if c.GPU, err = pickPhysicalDevice(d, c.Instance.Handle, c.Surface, c.cfg.DeviceExtensions); err != nil {
		return err
	}
	if c.Device, err = createLogicalDevice(d, c.GPU, c.cfg.DeviceExtensions, c.Instance.Layers); err != nil {
		return err
	}
	device := c.Device.Handle

	if c.Swapchain, err = newSwapchain(d, device, c.Surface, c.GPU, c.display.FramebufferSize()); err != nil {
		return err
	}
	if c.Pipeline, err = newPipeline(d, device, loader, c.cfg, c.Swapchain.Format.Format); err != nil {
		return err
	}
	if err = c.Swapchain.createFramebuffers(d, device, c.Pipeline.RenderPass); err != nil {
		return err
	}
	if c.Commands, err = NewCommandPool(d, device, c.GPU.Queues.Graphics); err != nil {
		return err
	}
	if err = c.Commands.Allocate(); err != nil {
		return err
	}
	if c.Sync, err = NewFrameSync(d, device); err != nil {
		return err
	}
	return nil
}

func (c *Context) Driver() Driver {
	return c.driver
}

// Run draws frames until the window asks to close, then waits for the
// device to go idle. A frame error stops the loop.
func (c *Context) Run() error {
	for !c.display.ShouldClose() {
		c.display.PollEvents()
		if err := c.DrawFrame(); err != nil {
			if waitErr := c.driver.DeviceWaitIdle(c.Device.Handle); waitErr != nil {
				Logger().Error("vulkan: device wait idle", "err", waitErr)
			}
			return err
		}
	}
	Logger().Info("vulkan: window closed", "frames", c.frames)
	return errors.Wrap(c.driver.DeviceWaitIdle(c.Device.Handle), "wait device idle")
}

// Destroy releases everything NewContext created, children before
// parents. It is safe on a partially built context and safe to call twice.
func (c *Context) Destroy() {
	d := c.driver
	if c.Device != nil {
		device := c.Device.Handle
		c.Sync.Destroy(d, device)
		c.Sync = nil
		c.Commands.Destroy()
		c.Commands = nil
		if c.Swapchain != nil {
			c.Swapchain.destroyFramebuffers(d, device)
		}
		if c.Pipeline != nil {
			c.Pipeline.Destroy(d, device)
			c.Pipeline = nil
		}
		if c.Swapchain != nil {
			c.Swapchain.Destroy(d, device)
			c.Swapchain = nil
		}
		d.DestroyDevice(device)
		c.Device = nil
	}
	if c.Instance != nil {
		c.Instance.Debug.Destroy()
		c.Instance.Debug = nil
		d.DestroySurface(c.Instance.Handle, c.Surface)
		c.Surface = vk.NullSurface
		d.DestroyInstance(c.Instance.Handle)
		c.Instance = nil
	}
}
