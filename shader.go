package vkbegins

//go:generate glslc shaders/shader.vert -o shaders/vert.spv
//go:generate glslc shaders/shader.frag -o shaders/frag.spv

import (
	"os"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// ShaderLoader reads compiled SPIR-V.
type ShaderLoader interface {
	ReadBinary(path string) ([]byte, error)
}

// FileLoader reads shader binaries from disk.
type FileLoader struct{}

func (FileLoader) ReadBinary(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		Logger().Error("could not open file", "path", path, "err", err)
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "read shader %s (run go generate from the module root)", path)
		}
		return nil, errors.Wrapf(err, "read shader %s", path)
	}
	return data, nil
}

// loadShaderModule reads path through loader and wraps it in a module. An
// empty binary is rejected before the driver sees it.
func loadShaderModule(d Driver, device vk.Device, loader ShaderLoader, path string) (vk.ShaderModule, error) {
	code, err := loader.ReadBinary(path)
	if err != nil {
		return vk.NullShaderModule, err
	}
	return createShaderModule(d, device, code, path)
}

func createShaderModule(d Driver, device vk.Device, code []byte, name string) (vk.ShaderModule, error) {
	if len(code) == 0 {
		return vk.NullShaderModule, errors.Errorf("create shader module %s: empty binary", name)
	}
	if len(code)%4 != 0 {
		return vk.NullShaderModule, errors.Errorf("create shader module %s: size %d is not a multiple of 4", name, len(code))
	}
	module, err := d.CreateShaderModule(device, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code)),
		PCode:    sliceUint32(code),
	})
	if err != nil {
		return vk.NullShaderModule, errors.Wrapf(err, "create shader module %s", name)
	}
	return module, nil
}
