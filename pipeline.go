package vkbegins

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Pipeline is the render pass, layout and graphics pipeline drawing the
// triangle. The three are created and destroyed together.
type Pipeline struct {
	RenderPass vk.RenderPass
	Layout     vk.PipelineLayout
	Handle     vk.Pipeline
}

// PipelineBuilder holds the fixed-function state of the triangle pipeline.
// Viewport and scissor are dynamic and set at record time.
type PipelineBuilder struct {
	shaderStages         []vk.PipelineShaderStageCreateInfo
	vertexInputInfo      vk.PipelineVertexInputStateCreateInfo
	inputAssembly        vk.PipelineInputAssemblyStateCreateInfo
	rasterizer           vk.PipelineRasterizationStateCreateInfo
	colorBlendAttachment vk.PipelineColorBlendAttachmentState
	multisampling        vk.PipelineMultisampleStateCreateInfo
	dynamicStates        []vk.DynamicState
}

func NewPipelineBuilder(vertex, fragment vk.ShaderModule) *PipelineBuilder {
	pb := PipelineBuilder{}

	pb.shaderStages = []vk.PipelineShaderStageCreateInfo{
		{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageVertexBit,
			Module: vertex,
			PName:  safeString("main"),
		},
		{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageFragmentBit,
			Module: fragment,
			PName:  safeString("main"),
		},
	}

	// Vertices come from the shader.
	pb.vertexInputInfo = vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   0,
		VertexAttributeDescriptionCount: 0,
	}

	pb.inputAssembly = vk.PipelineInputAssemblyStateCreateInfo{
		SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology:               vk.PrimitiveTopologyTriangleList,
		PrimitiveRestartEnable: vk.False,
	}

	pb.rasterizer = vk.PipelineRasterizationStateCreateInfo{
		SType:                   vk.StructureTypePipelineRasterizationStateCreateInfo,
		DepthClampEnable:        vk.False,
		RasterizerDiscardEnable: vk.False,
		PolygonMode:             vk.PolygonModeFill,
		CullMode:                vk.CullModeFlags(vk.CullModeBackBit),
		FrontFace:               vk.FrontFaceClockwise,
		DepthBiasEnable:         vk.False,
		LineWidth:               1.0,
	}

	pb.multisampling = vk.PipelineMultisampleStateCreateInfo{
		SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
		RasterizationSamples: vk.SampleCount1Bit,
		SampleShadingEnable:  vk.False,
		MinSampleShading:     1.0,
	}

	pb.colorBlendAttachment = vk.PipelineColorBlendAttachmentState{
		BlendEnable: vk.False,
		ColorWriteMask: vk.ColorComponentFlags(vk.ColorComponentRBit | vk.ColorComponentGBit |
			vk.ColorComponentBBit | vk.ColorComponentABit),
	}

	pb.dynamicStates = []vk.DynamicState{vk.DynamicStateViewport, vk.DynamicStateScissor}

	return &pb
}

// createInfo assembles the pipeline against pass and layout. Everything it
// points into lives in pb or in the returned value.
func (pb *PipelineBuilder) createInfo(pass vk.RenderPass, layout vk.PipelineLayout) *vk.GraphicsPipelineCreateInfo {
	// Counts only; the actual rectangles are dynamic.
	viewportState := vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: 1,
		ScissorCount:  1,
	}

	blendState := vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		LogicOpEnable:   vk.False,
		LogicOp:         vk.LogicOpCopy,
		AttachmentCount: 1,
		PAttachments:    []vk.PipelineColorBlendAttachmentState{pb.colorBlendAttachment},
	}

	dynamicState := vk.PipelineDynamicStateCreateInfo{
		SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
		DynamicStateCount: uint32(len(pb.dynamicStates)),
		PDynamicStates:    pb.dynamicStates,
	}

	return &vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount:          uint32(len(pb.shaderStages)),
		PStages:             pb.shaderStages,
		PVertexInputState:   &pb.vertexInputInfo,
		PInputAssemblyState: &pb.inputAssembly,
		PViewportState:      &viewportState,
		PRasterizationState: &pb.rasterizer,
		PMultisampleState:   &pb.multisampling,
		PColorBlendState:    &blendState,
		PDynamicState:       &dynamicState,
		Layout:              layout,
		RenderPass:          pass,
		Subpass:             0,
		BasePipelineHandle:  vk.NullPipeline,
		BasePipelineIndex:   -1,
	}
}

// newPipeline loads both shaders, builds the render pass, an empty layout
// and the pipeline. The shader modules are released before returning
// whether or not creation succeeded.
func newPipeline(d Driver, device vk.Device, loader ShaderLoader, cfg Config, format vk.Format) (*Pipeline, error) {
	vertex, err := loadShaderModule(d, device, loader, cfg.VertexShader)
	if err != nil {
		return nil, err
	}
	defer d.DestroyShaderModule(device, vertex)

	fragment, err := loadShaderModule(d, device, loader, cfg.FragmentShader)
	if err != nil {
		return nil, err
	}
	defer d.DestroyShaderModule(device, fragment)

	p := &Pipeline{}
	p.RenderPass, err = createRenderPass(d, device, format)
	if err != nil {
		return nil, err
	}

	p.Layout, err = d.CreatePipelineLayout(device, &vk.PipelineLayoutCreateInfo{
		SType:                  vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount:         0,
		PushConstantRangeCount: 0,
	})
	if err != nil {
		p.Destroy(d, device)
		return nil, errors.Wrap(err, "create pipeline layout")
	}

	builder := NewPipelineBuilder(vertex, fragment)
	p.Handle, err = d.CreateGraphicsPipeline(device, builder.createInfo(p.RenderPass, p.Layout))
	if err != nil {
		p.Destroy(d, device)
		return nil, errors.Wrap(err, "create graphics pipeline")
	}
	Logger().Info("vulkan: graphics pipeline created",
		"vertex", cfg.VertexShader, "fragment", cfg.FragmentShader)
	return p, nil
}

// Destroy releases the pipeline, then its layout, then the render pass.
func (p *Pipeline) Destroy(d Driver, device vk.Device) {
	d.DestroyPipeline(device, p.Handle)
	d.DestroyPipelineLayout(device, p.Layout)
	d.DestroyRenderPass(device, p.RenderPass)
	p.Handle = vk.NullPipeline
	p.Layout = vk.NullPipelineLayout
	p.RenderPass = vk.NullRenderPass
}
