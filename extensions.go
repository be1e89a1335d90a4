package vkbegins

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// DebugReportExtension is enabled on the instance whenever validation is on.
const DebugReportExtension = "VK_EXT_debug_report"

// Capabilities pairs a required name set with what the system reports.
type Capabilities struct {
	kind     string
	required []string
	actual   []string
}

func NewCapabilities(kind string, required, actual []string) *Capabilities {
	return &Capabilities{kind: kind, required: required, actual: actual}
}

// Missing lists required names that are not available, in required order.
func (c *Capabilities) Missing() []string {
	return missingNames(c.actual, c.required)
}

// Check logs every missing name and reports whether all are present.
func (c *Capabilities) Check() bool {
	missing := c.Missing()
	for _, name := range missing {
		Logger().Error("missing required capability", "kind", c.kind, "name", name)
	}
	return len(missing) == 0
}

// Err returns a *CapabilityError when anything is missing.
func (c *Capabilities) Err() error {
	if missing := c.Missing(); len(missing) > 0 {
		return &CapabilityError{Kind: c.kind, Missing: missing}
	}
	return nil
}

// RequiredInstanceExtensions merges the extensions the window system needs
// with the debug report extension when validation is enabled.
func RequiredInstanceExtensions(display *Display, validation bool) []string {
	required := display.RequiredInstanceExtensions()
	if validation {
		return mergeNames(required, DebugReportExtension)
	}
	return mergeNames(required)
}

// ExtensionsSupported reports whether every required instance extension is
// available, logging each one that is not.
func ExtensionsSupported(d Driver, required []string) (bool, error) {
	caps, err := instanceExtensionCaps(d, required)
	if err != nil {
		return false, err
	}
	return caps.Check(), nil
}

// LayersSupported is ExtensionsSupported for instance layers.
func LayersSupported(d Driver, required []string) (bool, error) {
	caps, err := validationLayerCaps(d, required)
	if err != nil {
		return false, err
	}
	return caps.Check(), nil
}

// DeviceExtensionsSupported checks the extensions of one adapter.
func DeviceExtensionsSupported(d Driver, gpu vk.PhysicalDevice, required []string) (bool, error) {
	caps, err := deviceExtensionCaps(d, gpu, required)
	if err != nil {
		return false, err
	}
	return caps.Check(), nil
}

func instanceExtensionCaps(d Driver, required []string) (*Capabilities, error) {
	actual, err := d.InstanceExtensions()
	if err != nil {
		return nil, errors.Wrap(err, "enumerate instance extensions")
	}
	return NewCapabilities(CapInstanceExtension, required, actual), nil
}

func validationLayerCaps(d Driver, required []string) (*Capabilities, error) {
	actual, err := d.InstanceLayers()
	if err != nil {
		return nil, errors.Wrap(err, "enumerate instance layers")
	}
	return NewCapabilities(CapValidationLayer, required, actual), nil
}

func deviceExtensionCaps(d Driver, gpu vk.PhysicalDevice, required []string) (*Capabilities, error) {
	actual, err := d.DeviceExtensions(gpu)
	if err != nil {
		return nil, errors.Wrap(err, "enumerate device extensions")
	}
	return NewCapabilities(CapDeviceExtension, required, actual), nil
}
