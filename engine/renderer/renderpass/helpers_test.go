package renderpass

// tAttach contains attachments for testing.
var tAttach = [...]AttachmentDescription{
	{
		Format:        FormatR8G8B8A8Unorm,
		LoadOp:        LoadOps{Depth: LoadOpClear},
		StoreOp:       StoreOps{Depth: StoreOpStore},
		InitialLayout: Layout(ImageLayoutUndefined),
		FinalLayout:   Layout(ImageLayoutColorAttachmentOptimal),
	},
	{
		Format:        FormatB8G8R8A8Srgb,
		LoadOp:        LoadOps{Depth: LoadOpLoad},
		StoreOp:       StoreOps{Depth: StoreOpStore},
		InitialLayout: Layout(ImageLayoutColorAttachmentOptimal),
		FinalLayout:   Layout(ImageLayoutPresentSrc),
	},
	{
		Format:        FormatR16G16B16A16Sfloat,
		Samples:       SampleCount4,
		LoadOp:        LoadOps{Depth: LoadOpClear},
		StoreOp:       StoreOps{Depth: StoreOpDontCare},
		InitialLayout: Layout(ImageLayoutUndefined),
		FinalLayout:   Layout(ImageLayoutColorAttachmentOptimal),
	},
	{
		Format:        FormatD24UnormS8Uint,
		LoadOp:        LoadOps{Depth: LoadOpClear, Stencil: LoadOpClear},
		StoreOp:       StoreOps{Depth: StoreOpDontCare},
		InitialLayout: Layout(ImageLayoutUndefined),
		FinalLayout:   Layout(ImageLayoutDepthStencilAttachmentOptimal),
	},
	{
		Format:        FormatD32Sfloat,
		LoadOp:        LoadOps{Depth: LoadOpClear},
		StoreOp:       StoreOps{Depth: StoreOpStore},
		InitialLayout: Layout(ImageLayoutUndefined),
		FinalLayout:   Layout(ImageLayoutDepthReadOnlyOptimal),
	},
}

// tSubpass builds a subpass from its color references, optional depth-stencil
// reference, inputs and preserved attachments.
func tSubpass(colors []ColorAttachmentRef, ds *DepthStencilAttachmentRef, inputs []InputAttachmentReference, preserve []uint32) SubpassDescription {
	sp := NewSubpassDescription()
	copy(sp.ColorAttachments[:], colors)
	if ds != nil {
		sp.DepthStencilAttachment = *ds
	}
	sp.InputAttachments = inputs
	sp.PreserveAttachments = preserve
	return sp
}

func tDS(index uint32) *DepthStencilAttachmentRef {
	ref := DepthStencilAttachment(index, Layout(ImageLayoutDepthStencilAttachmentOptimal))
	return &ref
}

// tSingleColor is the smallest valid render pass: one subpass writing one color attachment.
func tSingleColor() *CreationParams {
	return &CreationParams{
		Attachments: []AttachmentDescription{tAttach[0]},
		Subpasses: []SubpassDescription{
			tSubpass([]ColorAttachmentRef{ColorAttachment(0, ImageLayoutColorAttachmentOptimal)}, nil, nil, nil),
		},
	}
}

// tDeferred is a two subpass render pass: a G-buffer pass followed by a
// lighting pass reading the G-buffer as input attachments.
func tDeferred() *CreationParams {
	return &CreationParams{
		Attachments: append([]AttachmentDescription(nil), tAttach[:4]...),
		Subpasses: []SubpassDescription{
			tSubpass(
				[]ColorAttachmentRef{
					ColorAttachment(0, ImageLayoutColorAttachmentOptimal),
					ResolvedColorAttachment(2, ImageLayoutColorAttachmentOptimal, 1, ImageLayoutColorAttachmentOptimal),
				},
				tDS(3),
				nil,
				nil,
			),
			tSubpass(
				[]ColorAttachmentRef{ColorAttachment(1, ImageLayoutColorAttachmentOptimal)},
				nil,
				[]InputAttachmentReference{
					InputAttachment(0, Layout(ImageLayoutShaderReadOnlyOptimal), AspectColor),
					InputAttachment(3, Layout(ImageLayoutDepthStencilReadOnlyOptimal), AspectDepth),
				},
				[]uint32{2},
			),
		},
		Dependencies: []SubpassDependency{
			{
				SrcSubpass:    SubpassExternal,
				DstSubpass:    0,
				SrcStageMask:  PipelineStageColorAttachmentOutput,
				DstStageMask:  PipelineStageColorAttachmentOutput,
				DstAccessMask: AccessColorAttachmentWrite,
			},
			{
				SrcSubpass:      0,
				DstSubpass:      1,
				SrcStageMask:    PipelineStageColorAttachmentOutput | PipelineStageLateFragmentTests,
				DstStageMask:    PipelineStageFragmentShader,
				SrcAccessMask:   AccessColorAttachmentWrite | AccessDepthStencilAttachmentWrite,
				DstAccessMask:   AccessInputAttachmentRead,
				DependencyFlags: DependencyByRegion,
			},
		},
	}
}
