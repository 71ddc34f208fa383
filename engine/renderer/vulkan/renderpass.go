package vulkan

import (
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/cockroachdb/errors"

	"github.com/spaghettifunk/renderpass/engine/core"
	"github.com/spaghettifunk/renderpass/engine/renderer/renderpass"
)

type VulkanRenderPassState int

const (
	READY VulkanRenderPassState = iota
	IN_RENDER_PASS
	NOT_ALLOCATED
)

type VulkanRenderpass struct {
	Handle vk.RenderPass
	// Clear values per attachment, only read for attachments loaded with LoadOpClear.
	ClearValues []vk.ClearValue
	State       VulkanRenderPassState

	device    vk.Device
	allocator *vk.AllocationCallbacks
}

/**
 * @brief Everything vkCreateRenderPass reads, kept together so the slices the
 * create info points at stay alive until the call returns.
 */
type VulkanRenderpassCreateInfo struct {
	Info       vk.RenderPassCreateInfo
	Multiview  *vk.RenderPassMultiviewCreateInfo
	subpasses  []vk.SubpassDescription
	depthRefs  []vk.AttachmentReference
	viewMasks  []uint32
	correlated []uint32
}

// RenderpassCreateInfo translates a compacted render pass into Vulkan create
// info. Subpass reference arrays are built from the render pass reference pool
// in pool order.
func RenderpassCreateInfo(rp *renderpass.Renderpass) (*VulkanRenderpassCreateInfo, error) {
	out := &VulkanRenderpassCreateInfo{}

	attachmentDescriptions := make([]vk.AttachmentDescription, rp.Attachments().Len())
	for i, a := range rp.Attachments().All() {
		desc, err := vulkanAttachmentDescription(a)
		if err != nil {
			return nil, errors.Wrapf(err, "attachment %d", i)
		}
		attachmentDescriptions[i] = desc
	}

	out.subpasses = make([]vk.SubpassDescription, rp.Subpasses().Len())
	out.depthRefs = make([]vk.AttachmentReference, rp.Subpasses().Len())
	for i, refs := range rp.SubpassReferences() {
		sp := rp.Subpasses().At(i)
		subpass := vk.SubpassDescription{
			Flags:             vk.SubpassDescriptionFlags(sp.Flags),
			PipelineBindPoint: vk.PipelineBindPointGraphics,
		}

		colors, err := vulkanAttachmentReferences(refs.Color)
		if err != nil {
			return nil, errors.Wrapf(err, "subpass %d color attachments", i)
		}
		subpass.ColorAttachmentCount = uint32(len(colors))
		subpass.PColorAttachments = colors

		inputs, err := vulkanAttachmentReferences(refs.Input)
		if err != nil {
			return nil, errors.Wrapf(err, "subpass %d input attachments", i)
		}
		subpass.InputAttachmentCount = uint32(len(inputs))
		subpass.PInputAttachments = inputs

		// Attachments used for multisampling colour attachments
		resolves, err := vulkanAttachmentReferences(refs.Resolve)
		if err != nil {
			return nil, errors.Wrapf(err, "subpass %d resolve attachments", i)
		}
		subpass.PResolveAttachments = resolves

		// depth-stencil resolves need VkSubpassDescriptionDepthStencilResolve, which this binding lacks
		if sp.DepthStencilAttachment.Resolve.Used() {
			return nil, errors.Wrapf(core.ErrBackend, "subpass %d resolves its depth-stencil attachment", i)
		}
		if refs.HasDepthStencil {
			ds, err := vulkanAttachmentReference(refs.DepthStencil)
			if err != nil {
				return nil, errors.Wrapf(err, "subpass %d depth-stencil attachment", i)
			}
			out.depthRefs[i] = ds
			subpass.PDepthStencilAttachment = &out.depthRefs[i]
		}

		// Attachments not used in this subpass, but must be preserved for the next.
		subpass.PreserveAttachmentCount = uint32(len(refs.Preserve))
		subpass.PPreserveAttachments = refs.Preserve

		out.subpasses[i] = subpass
	}

	dependencies := make([]vk.SubpassDependency, rp.SubpassDependencies().Len())
	for i, d := range rp.SubpassDependencies().All() {
		dependencies[i] = vulkanSubpassDependency(d)
	}

	out.Info = vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachmentDescriptions)),
		PAttachments:    attachmentDescriptions,
		SubpassCount:    uint32(len(out.subpasses)),
		PSubpasses:      out.subpasses,
		DependencyCount: uint32(len(dependencies)),
		PDependencies:   dependencies,
		PNext:           nil,
		Flags:           0,
	}

	params := rp.CreationParameters()
	if params.Multiview() {
		out.viewMasks = make([]uint32, len(out.subpasses))
		for i, sp := range rp.Subpasses().All() {
			out.viewMasks[i] = sp.ViewMask
		}
		out.correlated = params.ViewCorrelationGroup.Masks()
		out.Multiview = &vk.RenderPassMultiviewCreateInfo{
			SType:                vk.StructureTypeRenderPassMultiviewCreateInfo,
			SubpassCount:         uint32(len(out.viewMasks)),
			PViewMasks:           out.viewMasks,
			CorrelationMaskCount: uint32(len(out.correlated)),
			PCorrelationMasks:    out.correlated,
		}
	}
	return out, nil
}

// RenderpassCreate creates the Vulkan render pass for rp on device.
func RenderpassCreate(device vk.Device, allocator *vk.AllocationCallbacks, rp *renderpass.Renderpass) (*VulkanRenderpass, error) {
	info, err := RenderpassCreateInfo(rp)
	if err != nil {
		return nil, err
	}
	if info.Multiview != nil {
		ref, allocs := info.Multiview.PassRef()
		defer allocs.Free()
		info.Info.PNext = unsafe.Pointer(ref)
	}
	info.Info.Deref()

	outRenderpass := &VulkanRenderpass{
		ClearValues: make([]vk.ClearValue, rp.Attachments().Len()),
		State:       NOT_ALLOCATED,
		device:      device,
		allocator:   allocator,
	}

	var pRenderPass vk.RenderPass
	if res := vk.CreateRenderPass(device, &info.Info, allocator, &pRenderPass); res != vk.Success {
		err := errors.Wrapf(core.ErrBackend, "vkCreateRenderPass: %s", VulkanResultString(res, true))
		core.LogError(err.Error())
		return nil, err
	}
	outRenderpass.Handle = pRenderPass
	outRenderpass.State = READY
	core.LogDebug("vulkan render pass created with %d attachments and %d subpasses", rp.Attachments().Len(), rp.Subpasses().Len())
	return outRenderpass, nil
}

func (vr *VulkanRenderpass) RenderpassDestroy() {
	if vr.Handle != nil {
		vk.DestroyRenderPass(vr.device, vr.Handle, vr.allocator)
		vr.Handle = nil
	}
	vr.State = NOT_ALLOCATED
}

// SetClearColor sets the clear value of a color attachment.
func (vr *VulkanRenderpass) SetClearColor(attachment int, r, g, b, a float32) {
	vr.ClearValues[attachment].SetColor([]float32{r, g, b, a})
}

// SetClearDepthStencil sets the clear value of a depth-stencil attachment.
func (vr *VulkanRenderpass) SetClearDepthStencil(attachment int, depth float32, stencil uint32) {
	vr.ClearValues[attachment].SetDepthStencil(depth, stencil)
}

func (vr *VulkanRenderpass) RenderpassBegin(commandBuffer vk.CommandBuffer, frameBuffer vk.Framebuffer, area vk.Rect2D) {
	beginInfo := vk.RenderPassBeginInfo{
		SType:           vk.StructureTypeRenderPassBeginInfo,
		RenderPass:      vr.Handle,
		Framebuffer:     frameBuffer,
		RenderArea:      area,
		ClearValueCount: uint32(len(vr.ClearValues)),
		PClearValues:    vr.ClearValues,
	}
	beginInfo.Deref()

	vk.CmdBeginRenderPass(commandBuffer, &beginInfo, vk.SubpassContentsInline)
	vr.State = IN_RENDER_PASS
}

func (vr *VulkanRenderpass) RenderpassNextSubpass(commandBuffer vk.CommandBuffer) {
	vk.CmdNextSubpass(commandBuffer, vk.SubpassContentsInline)
}

func (vr *VulkanRenderpass) RenderpassEnd(commandBuffer vk.CommandBuffer) {
	vk.CmdEndRenderPass(commandBuffer)
	vr.State = READY
}
