package vkbegins

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// NoQueueFamily marks a family index that has not been found.
const NoQueueFamily = ^uint32(0)

// QueueFamilyIndices holds the graphics and present family of one adapter.
// The two may be the same family.
type QueueFamilyIndices struct {
	Graphics uint32
	Present  uint32
}

func (q QueueFamilyIndices) IsComplete() bool {
	return q.Graphics != NoQueueFamily && q.Present != NoQueueFamily
}

// Separate is true when presentation needs its own family.
func (q QueueFamilyIndices) Separate() bool {
	return q.Graphics != q.Present
}

// Unique returns the distinct family indices, graphics first.
func (q QueueFamilyIndices) Unique() []uint32 {
	if q.Separate() {
		return []uint32{q.Graphics, q.Present}
	}
	return []uint32{q.Graphics}
}

// FindQueueFamilies scans the families of gpu once, taking the first with
// graphics support and the first able to present to surface. The scan stops
// as soon as both are known.
func FindQueueFamilies(d Driver, gpu vk.PhysicalDevice, surface vk.Surface) (QueueFamilyIndices, error) {
	indices := QueueFamilyIndices{Graphics: NoQueueFamily, Present: NoQueueFamily}
	for i, family := range d.QueueFamilies(gpu) {
		index := uint32(i)
		if indices.Graphics == NoQueueFamily && family.QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
			indices.Graphics = index
		}
		if indices.Present == NoQueueFamily {
			supported, err := d.SurfaceSupport(gpu, index, surface)
			if err != nil {
				return indices, errors.Wrapf(err, "query present support of family %d", index)
			}
			if supported {
				indices.Present = index
			}
		}
		if indices.IsComplete() {
			break
		}
	}
	return indices, nil
}

// queueCreateInfos builds one single-queue create info per unique family.
func queueCreateInfos(indices QueueFamilyIndices) []vk.DeviceQueueCreateInfo {
	families := indices.Unique()
	infos := make([]vk.DeviceQueueCreateInfo, 0, len(families))
	for _, family := range families {
		infos = append(infos, vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: family,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		})
	}
	return infos
}
