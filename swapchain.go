package vkbegins

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// SwapchainSupport is what a surface offers on one adapter.
type SwapchainSupport struct {
	Capabilities vk.SurfaceCapabilities
	Formats      []vk.SurfaceFormat
	PresentModes []vk.PresentMode
}

// Adequate is true when there is at least one format and one present mode.
func (s SwapchainSupport) Adequate() bool {
	return len(s.Formats) > 0 && len(s.PresentModes) > 0
}

func QuerySwapchainSupport(d Driver, gpu vk.PhysicalDevice, surface vk.Surface) (SwapchainSupport, error) {
	var support SwapchainSupport
	var err error
	if support.Capabilities, err = d.SurfaceCapabilities(gpu, surface); err != nil {
		return support, errors.Wrap(err, "query surface capabilities")
	}
	if support.Formats, err = d.SurfaceFormats(gpu, surface); err != nil {
		return support, errors.Wrap(err, "query surface formats")
	}
	if support.PresentModes, err = d.SurfacePresentModes(gpu, surface); err != nil {
		return support, errors.Wrap(err, "query present modes")
	}
	return support, nil
}

// ChooseSurfaceFormat prefers BGRA8 sRGB with the sRGB non-linear color
// space wherever it sits in the list, else the first format.
func ChooseSurfaceFormat(formats []vk.SurfaceFormat) vk.SurfaceFormat {
	for _, format := range formats {
		if format.Format == vk.FormatB8g8r8a8Srgb && format.ColorSpace == vk.ColorspaceSrgbNonlinear {
			return format
		}
	}
	if len(formats) == 0 {
		return vk.SurfaceFormat{}
	}
	return formats[0]
}

// ChoosePresentMode prefers mailbox and falls back to FIFO, which every
// implementation supports.
func ChoosePresentMode(modes []vk.PresentMode) vk.PresentMode {
	for _, mode := range modes {
		if mode == vk.PresentModeMailbox {
			return mode
		}
	}
	return vk.PresentModeFifo
}

// ChooseExtent uses the surface's current extent unless it is the undefined
// sentinel, in which case the framebuffer size is clamped into the allowed
// range.
func ChooseExtent(caps vk.SurfaceCapabilities, framebuffer vk.Extent2D) vk.Extent2D {
	if caps.CurrentExtent.Width != vk.MaxUint32 {
		return caps.CurrentExtent
	}
	return vk.Extent2D{
		Width:  clampUint32(framebuffer.Width, caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clampUint32(framebuffer.Height, caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

// ChooseImageCount asks for one image above the minimum. A zero maximum
// means unbounded.
func ChooseImageCount(caps vk.SurfaceCapabilities) uint32 {
	count := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}

// sharingMode shares images concurrently between the graphics and present
// families when they differ.
func sharingMode(indices QueueFamilyIndices) (vk.SharingMode, []uint32) {
	if indices.Separate() {
		return vk.SharingModeConcurrent, []uint32{indices.Graphics, indices.Present}
	}
	return vk.SharingModeExclusive, nil
}

// Swapchain owns the presentable images and everything built per image.
type Swapchain struct {
	Handle       vk.Swapchain
	Format       vk.SurfaceFormat
	PresentMode  vk.PresentMode
	Extent       vk.Extent2D
	Images       []vk.Image
	Views        []vk.ImageView
	Framebuffers []vk.Framebuffer
}

func newSwapchain(d Driver, device vk.Device, surface vk.Surface, choice *PhysicalDeviceChoice, framebuffer vk.Extent2D) (*Swapchain, error) {
	caps := choice.Support.Capabilities
	format := ChooseSurfaceFormat(choice.Support.Formats)
	presentMode := ChoosePresentMode(choice.Support.PresentModes)
	extent := ChooseExtent(caps, framebuffer)
	mode, families := sharingMode(choice.Queues)

	handle, err := d.CreateSwapchain(device, &vk.SwapchainCreateInfo{
		SType:                 vk.StructureTypeSwapchainCreateInfo,
		Surface:               surface,
		MinImageCount:         ChooseImageCount(caps),
		ImageFormat:           format.Format,
		ImageColorSpace:       format.ColorSpace,
		ImageExtent:           extent,
		ImageArrayLayers:      1,
		ImageUsage:            vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode:      mode,
		QueueFamilyIndexCount: uint32(len(families)),
		PQueueFamilyIndices:   families,
		PreTransform:          caps.CurrentTransform,
		CompositeAlpha:        vk.CompositeAlphaOpaqueBit,
		PresentMode:           presentMode,
		Clipped:               vk.True,
		OldSwapchain:          vk.NullSwapchain,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create swapchain")
	}

	sc := &Swapchain{
		Handle:      handle,
		Format:      format,
		PresentMode: presentMode,
		Extent:      extent,
	}
	// The driver may hand back more images than requested.
	sc.Images, err = d.SwapchainImages(device, handle)
	if err != nil {
		sc.Destroy(d, device)
		return nil, errors.Wrap(err, "get swapchain images")
	}
	if len(sc.Images) == 0 {
		sc.Destroy(d, device)
		return nil, errors.New("get swapchain images: swapchain returned no images")
	}
	if err := sc.createImageViews(d, device); err != nil {
		sc.Destroy(d, device)
		return nil, err
	}
	Logger().Info("vulkan: swapchain created", "images", len(sc.Images),
		"width", extent.Width, "height", extent.Height, "present_mode", presentMode)
	return sc, nil
}

func (sc *Swapchain) createImageViews(d Driver, device vk.Device) error {
	sc.Views = make([]vk.ImageView, 0, len(sc.Images))
	for i, image := range sc.Images {
		view, err := d.CreateImageView(device, &vk.ImageViewCreateInfo{
			SType:    vk.StructureTypeImageViewCreateInfo,
			Image:    image,
			ViewType: vk.ImageViewType2d,
			Format:   sc.Format.Format,
			Components: vk.ComponentMapping{
				R: vk.ComponentSwizzleIdentity,
				G: vk.ComponentSwizzleIdentity,
				B: vk.ComponentSwizzleIdentity,
				A: vk.ComponentSwizzleIdentity,
			},
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
				BaseMipLevel:   0,
				LevelCount:     1,
				BaseArrayLayer: 0,
				LayerCount:     1,
			},
		})
		if err != nil {
			return errors.Wrapf(err, "create image view %d", i)
		}
		sc.Views = append(sc.Views, view)
	}
	return nil
}

// createFramebuffers binds each image view to pass.
func (sc *Swapchain) createFramebuffers(d Driver, device vk.Device, pass vk.RenderPass) error {
	sc.Framebuffers = make([]vk.Framebuffer, 0, len(sc.Views))
	for i, view := range sc.Views {
		framebuffer, err := d.CreateFramebuffer(device, &vk.FramebufferCreateInfo{
			SType:           vk.StructureTypeFramebufferCreateInfo,
			RenderPass:      pass,
			AttachmentCount: 1,
			PAttachments:    []vk.ImageView{view},
			Width:           sc.Extent.Width,
			Height:          sc.Extent.Height,
			Layers:          1,
		})
		if err != nil {
			return errors.Wrapf(err, "create framebuffer %d", i)
		}
		sc.Framebuffers = append(sc.Framebuffers, framebuffer)
	}
	return nil
}

func (sc *Swapchain) destroyFramebuffers(d Driver, device vk.Device) {
	for _, framebuffer := range sc.Framebuffers {
		d.DestroyFramebuffer(device, framebuffer)
	}
	sc.Framebuffers = nil
}

func (sc *Swapchain) destroyViews(d Driver, device vk.Device) {
	for _, view := range sc.Views {
		d.DestroyImageView(device, view)
	}
	sc.Views = nil
}

// Destroy releases any remaining framebuffers, the views and the swapchain.
func (sc *Swapchain) Destroy(d Driver, device vk.Device) {
	sc.destroyFramebuffers(d, device)
	sc.destroyViews(d, device)
	d.DestroySwapchain(device, sc.Handle)
	sc.Handle = vk.NullSwapchain
	sc.Images = nil
}
