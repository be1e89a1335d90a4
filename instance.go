package vkbegins

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Instance is the root of the GPU execution context.
type Instance struct {
	Handle     vk.Instance
	Extensions []string
	Layers     []string
	// Debug is nil unless validation is enabled.
	Debug *DebugMessenger
}

func createInstance(d Driver, cfg Config, display *Display) (*Instance, error) {
	extensions := RequiredInstanceExtensions(display, cfg.Validation)
	extCaps, err := instanceExtensionCaps(d, extensions)
	if err != nil {
		return nil, err
	}
	if !extCaps.Check() {
		return nil, extCaps.Err()
	}

	var layers []string
	if cfg.Validation {
		layerCaps, err := validationLayerCaps(d, cfg.ValidationLayers)
		if err != nil {
			return nil, err
		}
		if !layerCaps.Check() {
			return nil, layerCaps.Err()
		}
		layers = cfg.ValidationLayers
	}

	handle, err := d.CreateInstance(&vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			PApplicationName:   safeString(cfg.AppName),
			ApplicationVersion: cfg.AppVersionNumber(),
			PEngineName:        safeString(cfg.EngineName),
			EngineVersion:      uint32(vk.MakeVersion(1, 0, 0)),
			ApiVersion:         uint32(vk.MakeVersion(1, 0, 0)),
		},
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     safeStrings(layers),
	})
	if err != nil {
		return nil, errors.Wrap(err, "create instance")
	}
	Logger().Info("vulkan: instance created", "extensions", extensions, "layers", layers)

	inst := &Instance{
		Handle:     handle,
		Extensions: extensions,
		Layers:     layers,
	}
	if cfg.Validation {
		inst.Debug, err = NewDebugMessenger(d, handle, extensions)
		if err != nil {
			d.DestroyInstance(handle)
			return nil, err
		}
	}
	return inst, nil
}
