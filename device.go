package vkbegins

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// PhysicalDeviceChoice is the adapter picked for rendering. It does not
// change after selection.
type PhysicalDeviceChoice struct {
	GPU     vk.PhysicalDevice
	Name    string
	Queues  QueueFamilyIndices
	Support SwapchainSupport
}

// LogicalDevice is the opened device with its queues. GraphicsQueue and
// PresentQueue are fetched separately even when they share a family.
type LogicalDevice struct {
	Handle        vk.Device
	GraphicsQueue vk.Queue
	PresentQueue  vk.Queue
}

// pickPhysicalDevice returns the first suitable adapter.
func pickPhysicalDevice(d Driver, instance vk.Instance, surface vk.Surface, extensions []string) (*PhysicalDeviceChoice, error) {
	gpus, err := d.PhysicalDevices(instance)
	if err != nil {
		return nil, errors.Wrap(err, "enumerate physical devices")
	}
	if len(gpus) == 0 {
		return nil, errors.WithStack(&CapabilityError{Kind: CapPhysicalDevice, Missing: []string{"any Vulkan capable GPU"}})
	}
	for _, gpu := range gpus {
		choice, ok, err := isSuitable(d, gpu, surface, extensions)
		if err != nil {
			return nil, err
		}
		if ok {
			Logger().Info("vulkan: selected physical device", "name", choice.Name,
				"graphics_family", choice.Queues.Graphics, "present_family", choice.Queues.Present)
			return choice, nil
		}
	}
	return nil, errors.WithStack(&CapabilityError{Kind: CapPhysicalDevice, Missing: []string{"suitable GPU"}})
}

// isSuitable holds when gpu has graphics and present families, supports
// every required extension and exposes at least one surface format and one
// present mode.
func isSuitable(d Driver, gpu vk.PhysicalDevice, surface vk.Surface, extensions []string) (*PhysicalDeviceChoice, bool, error) {
	name := d.DeviceName(gpu)
	indices, err := FindQueueFamilies(d, gpu, surface)
	if err != nil {
		return nil, false, err
	}
	if !indices.IsComplete() {
		Logger().Debug("vulkan: device lacks graphics or present family", "name", name)
		return nil, false, nil
	}
	caps, err := deviceExtensionCaps(d, gpu, extensions)
	if err != nil {
		return nil, false, err
	}
	if !caps.Check() {
		return nil, false, nil
	}
	support, err := QuerySwapchainSupport(d, gpu, surface)
	if err != nil {
		return nil, false, err
	}
	if !support.Adequate() {
		Logger().Debug("vulkan: device has no surface formats or present modes", "name", name)
		return nil, false, nil
	}
	return &PhysicalDeviceChoice{
		GPU:     gpu,
		Name:    name,
		Queues:  indices,
		Support: support,
	}, true, nil
}

// createLogicalDevice opens the chosen adapter with one queue per unique
// family, the required extensions and no optional features.
func createLogicalDevice(d Driver, choice *PhysicalDeviceChoice, extensions, layers []string) (*LogicalDevice, error) {
	queueInfos := queueCreateInfos(choice.Queues)
	handle, err := d.CreateDevice(choice.GPU, &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{{}},
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     safeStrings(layers),
	})
	if err != nil {
		return nil, errors.Wrap(err, "create logical device")
	}
	return &LogicalDevice{
		Handle:        handle,
		GraphicsQueue: d.DeviceQueue(handle, choice.Queues.Graphics),
		PresentQueue:  d.DeviceQueue(handle, choice.Queues.Present),
	}, nil
}
