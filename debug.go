package vkbegins

import (
	"context"
	"log/slog"
	"unsafe"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// DebugMessenger forwards validation layer reports to Logger. It only exists
// when validation is enabled.
type DebugMessenger struct {
	driver   Driver
	instance vk.Instance
	callback vk.DebugReportCallback
}

// NewDebugMessenger registers the report callback on instance. extensions
// are the names the instance was created with; without DebugReportExtension
// among them the entry points cannot exist and vk.ErrorExtensionNotPresent is
// returned.
func NewDebugMessenger(d Driver, instance vk.Instance, extensions []string) (*DebugMessenger, error) {
	if len(missingNames(extensions, []string{DebugReportExtension})) > 0 {
		return nil, errors.Wrapf(NewError(vk.ErrorExtensionNotPresent), "resolve %s", DebugReportExtension)
	}
	callback, err := d.CreateDebugReportCallback(instance, debugReportCreateInfo())
	if err != nil {
		return nil, errors.Wrap(err, "create debug messenger")
	}
	Logger().Info("vulkan: debug messenger enabled")
	return &DebugMessenger{driver: d, instance: instance, callback: callback}, nil
}

func (m *DebugMessenger) Destroy() {
	if m == nil {
		return
	}
	m.driver.DestroyDebugReportCallback(m.instance, m.callback)
	m.callback = vk.NullDebugReportCallback
}

// debugReportCreateInfo covers verbose, warning and error severities across
// general, validation and performance messages.
func debugReportCreateInfo() *vk.DebugReportCallbackCreateInfo {
	return &vk.DebugReportCallbackCreateInfo{
		SType: vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags: vk.DebugReportFlags(vk.DebugReportInformationBit | vk.DebugReportDebugBit |
			vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit | vk.DebugReportErrorBit),
		PfnCallback: debugReport,
	}
}

func reportLevel(flags vk.DebugReportFlags) slog.Level {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		return slog.LevelError
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit|vk.DebugReportPerformanceWarningBit) != 0:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

func debugReport(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint, messageCode int32, pLayerPrefix string,
	pMessage string, pUserData unsafe.Pointer) vk.Bool32 {

	Logger().Log(context.Background(), reportLevel(flags), "validation layer",
		"layer", pLayerPrefix, "code", messageCode, "message", pMessage)
	return vk.Bool32(vk.False)
}
