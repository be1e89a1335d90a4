package vkbegins

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Capability kinds reported by CapabilityError.
const (
	CapInstanceExtension = "instance extension"
	CapValidationLayer   = "validation layer"
	CapDeviceExtension   = "device extension"
	CapPhysicalDevice    = "physical device"
)

// CapabilityError reports a required extension, layer or device capability
// that the system does not expose.
type CapabilityError struct {
	Kind    string
	Missing []string
}

func (e *CapabilityError) Error() string {
	if len(e.Missing) == 0 {
		return fmt.Sprintf("vulkan: missing %s", e.Kind)
	}
	return fmt.Sprintf("vulkan: missing %s: %s", e.Kind, strings.Join(e.Missing, ", "))
}

func isError(ret vk.Result) bool {
	return ret != vk.Success
}

// NewError converts a non-success vk.Result into an error carrying a stack
// trace. It returns nil for vk.Success.
func NewError(ret vk.Result) error {
	if !isError(ret) {
		return nil
	}
	if err := vk.Error(ret); err != nil {
		return errors.WithStack(fmt.Errorf("vulkan error: %s (%d)", err.Error(), ret))
	}
	return errors.WithStack(fmt.Errorf("vulkan error: result %d", ret))
}

// exit is replaced in tests.
var exit = os.Exit

// Fatal runs the finalizers, logs err with its full chain and terminates the
// process. It does nothing when err is nil.
func Fatal(err error, finalizers ...func()) {
	if err == nil {
		return
	}
	for _, fn := range finalizers {
		fn()
	}
	Logger().Error("fatal", "err", fmt.Sprintf("%+v", err))
	exit(1)
}

func orPanic(err error) {
	if err != nil {
		panic(err)
	}
}

func checkErr(err *error) {
	if v := recover(); v != nil {
		if e, ok := v.(error); ok {
			*err = e
			return
		}
		*err = fmt.Errorf("%+v", v)
	}
}
