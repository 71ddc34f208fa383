package vulkan

import (
	vk "github.com/goki/vulkan"

	"github.com/cockroachdb/errors"

	"github.com/spaghettifunk/renderpass/engine/core"
	"github.com/spaghettifunk/renderpass/engine/renderer/renderpass"
)

var vkFormats = [...]vk.Format{
	renderpass.FormatUnknown:                vk.FormatUndefined,
	renderpass.FormatR8Unorm:                vk.FormatR8Unorm,
	renderpass.FormatR8G8Unorm:              vk.FormatR8g8Unorm,
	renderpass.FormatR8G8B8A8Unorm:          vk.FormatR8g8b8a8Unorm,
	renderpass.FormatR8G8B8A8Srgb:           vk.FormatR8g8b8a8Srgb,
	renderpass.FormatB8G8R8A8Unorm:          vk.FormatB8g8r8a8Unorm,
	renderpass.FormatB8G8R8A8Srgb:           vk.FormatB8g8r8a8Srgb,
	renderpass.FormatA2B10G10R10UnormPack32: vk.FormatA2b10g10r10UnormPack32,
	renderpass.FormatR16G16B16A16Sfloat:     vk.FormatR16g16b16a16Sfloat,
	renderpass.FormatR32Sint:                vk.FormatR32Sint,
	renderpass.FormatR32G32Sfloat:           vk.FormatR32g32Sfloat,
	renderpass.FormatR32G32B32A32Sfloat:     vk.FormatR32g32b32a32Sfloat,
	renderpass.FormatD16Unorm:               vk.FormatD16Unorm,
	renderpass.FormatX8D24UnormPack32:       vk.FormatX8D24UnormPack32,
	renderpass.FormatD32Sfloat:              vk.FormatD32Sfloat,
	renderpass.FormatS8Uint:                 vk.FormatS8Uint,
	renderpass.FormatD16UnormS8Uint:         vk.FormatD16UnormS8Uint,
	renderpass.FormatD24UnormS8Uint:         vk.FormatD24UnormS8Uint,
	renderpass.FormatD32SfloatS8Uint:        vk.FormatD32SfloatS8Uint,
}

var vkImageLayouts = [...]vk.ImageLayout{
	renderpass.ImageLayoutUndefined:                             vk.ImageLayoutUndefined,
	renderpass.ImageLayoutGeneral:                               vk.ImageLayoutGeneral,
	renderpass.ImageLayoutColorAttachmentOptimal:                vk.ImageLayoutColorAttachmentOptimal,
	renderpass.ImageLayoutDepthStencilAttachmentOptimal:         vk.ImageLayoutDepthStencilAttachmentOptimal,
	renderpass.ImageLayoutDepthStencilReadOnlyOptimal:           vk.ImageLayoutDepthStencilReadOnlyOptimal,
	renderpass.ImageLayoutShaderReadOnlyOptimal:                 vk.ImageLayoutShaderReadOnlyOptimal,
	renderpass.ImageLayoutTransferSrcOptimal:                    vk.ImageLayoutTransferSrcOptimal,
	renderpass.ImageLayoutTransferDstOptimal:                    vk.ImageLayoutTransferDstOptimal,
	renderpass.ImageLayoutPreinitialized:                        vk.ImageLayoutPreinitialized,
	renderpass.ImageLayoutDepthReadOnlyStencilAttachmentOptimal: vk.ImageLayoutDepthReadOnlyStencilAttachmentOptimal,
	renderpass.ImageLayoutDepthAttachmentStencilReadOnlyOptimal: vk.ImageLayoutDepthAttachmentStencilReadOnlyOptimal,
	renderpass.ImageLayoutDepthAttachmentOptimal:                vk.ImageLayoutDepthAttachmentOptimal,
	renderpass.ImageLayoutDepthReadOnlyOptimal:                  vk.ImageLayoutDepthReadOnlyOptimal,
	renderpass.ImageLayoutStencilAttachmentOptimal:              vk.ImageLayoutStencilAttachmentOptimal,
	renderpass.ImageLayoutStencilReadOnlyOptimal:                vk.ImageLayoutStencilReadOnlyOptimal,
	renderpass.ImageLayoutReadOnlyOptimal:                       vk.ImageLayoutReadOnlyOptimal,
	renderpass.ImageLayoutAttachmentOptimal:                     vk.ImageLayoutAttachmentOptimal,
	renderpass.ImageLayoutPresentSrc:                            vk.ImageLayoutPresentSrc,
	renderpass.ImageLayoutSharedPresent:                         vk.ImageLayoutSharedPresent,
}

var vkLoadOps = [...]vk.AttachmentLoadOp{
	renderpass.LoadOpUndefined: vk.AttachmentLoadOpDontCare,
	renderpass.LoadOpLoad:      vk.AttachmentLoadOpLoad,
	renderpass.LoadOpClear:     vk.AttachmentLoadOpClear,
	renderpass.LoadOpDontCare:  vk.AttachmentLoadOpDontCare,
}

var vkStoreOps = [...]vk.AttachmentStoreOp{
	renderpass.StoreOpUndefined: vk.AttachmentStoreOpDontCare,
	renderpass.StoreOpStore:     vk.AttachmentStoreOpStore,
	renderpass.StoreOpDontCare:  vk.AttachmentStoreOpDontCare,
}

func VulkanFormat(f renderpass.Format) vk.Format {
	return vkFormats[f]
}

func VulkanImageLayout(l renderpass.ImageLayout) vk.ImageLayout {
	return vkImageLayouts[l]
}

func VulkanSampleCount(s renderpass.SampleCount) vk.SampleCountFlagBits {
	return vk.SampleCountFlagBits(s.Samples())
}

// attachmentWrite reports whether l lets the aspect it applies to be written.
// ok is false for layouts that do not describe a depth or stencil attachment.
func attachmentWrite(l renderpass.ImageLayout) (write, ok bool) {
	switch l {
	case renderpass.ImageLayoutDepthStencilAttachmentOptimal,
		renderpass.ImageLayoutDepthAttachmentOptimal,
		renderpass.ImageLayoutStencilAttachmentOptimal:
		return true, true
	case renderpass.ImageLayoutDepthStencilReadOnlyOptimal,
		renderpass.ImageLayoutDepthReadOnlyOptimal,
		renderpass.ImageLayoutStencilReadOnlyOptimal:
		return false, true
	}
	return false, false
}

/**
 * @brief Folds a depth/stencil layout pair into the single layout a VkAttachmentReference carries.
 * A stencil layout that follows its depth layout is dropped. A split pair is
 * mapped onto one of the combined depth-stencil layouts.
 */
func VulkanDepthStencilLayout(l renderpass.DepthStencilLayout) (vk.ImageLayout, error) {
	if l.Stencil == renderpass.ImageLayoutUndefined || l.Stencil == l.Depth {
		return VulkanImageLayout(l.Depth), nil
	}
	depthWrite, dok := attachmentWrite(l.Depth)
	stencilWrite, sok := attachmentWrite(l.Stencil)
	if !dok || !sok {
		return vk.ImageLayoutUndefined, errors.Wrapf(core.ErrBackend, "no single layout for depth %s with stencil %s", l.Depth, l.Stencil)
	}
	switch {
	case depthWrite && stencilWrite:
		return vk.ImageLayoutDepthStencilAttachmentOptimal, nil
	case depthWrite:
		return vk.ImageLayoutDepthAttachmentStencilReadOnlyOptimal, nil
	case stencilWrite:
		return vk.ImageLayoutDepthReadOnlyStencilAttachmentOptimal, nil
	}
	return vk.ImageLayoutDepthStencilReadOnlyOptimal, nil
}

func vulkanAttachmentDescription(a renderpass.AttachmentDescription) (vk.AttachmentDescription, error) {
	initial, err := VulkanDepthStencilLayout(a.InitialLayout)
	if err != nil {
		return vk.AttachmentDescription{}, err
	}
	final, err := VulkanDepthStencilLayout(a.FinalLayout)
	if err != nil {
		return vk.AttachmentDescription{}, err
	}
	desc := vk.AttachmentDescription{
		Format:         VulkanFormat(a.Format),
		Samples:        VulkanSampleCount(a.Samples),
		LoadOp:         vkLoadOps[a.LoadOp.ActualDepthOp()],
		StoreOp:        vkStoreOps[a.StoreOp.ActualDepthOp()],
		StencilLoadOp:  vkLoadOps[a.LoadOp.ActualStencilOp()],
		StencilStoreOp: vkStoreOps[a.StoreOp.ActualStencilOp()],
		InitialLayout:  initial,
		FinalLayout:    final,
	}
	if a.MayAlias {
		desc.Flags = vk.AttachmentDescriptionFlags(vk.AttachmentDescriptionMayAliasBit)
	}
	return desc, nil
}

func vulkanAttachmentReference(r renderpass.InputAttachmentReference) (vk.AttachmentReference, error) {
	if !r.Used() {
		return vk.AttachmentReference{Attachment: vk.AttachmentUnused, Layout: vk.ImageLayoutUndefined}, nil
	}
	layout, err := VulkanDepthStencilLayout(r.Layout)
	if err != nil {
		return vk.AttachmentReference{}, err
	}
	return vk.AttachmentReference{Attachment: r.Attachment, Layout: layout}, nil
}

func vulkanAttachmentReferences(refs []renderpass.InputAttachmentReference) ([]vk.AttachmentReference, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	out := make([]vk.AttachmentReference, len(refs))
	for i, r := range refs {
		ref, err := vulkanAttachmentReference(r)
		if err != nil {
			return nil, err
		}
		out[i] = ref
	}
	return out, nil
}

func vulkanSubpassDependency(d renderpass.SubpassDependency) vk.SubpassDependency {
	return vk.SubpassDependency{
		SrcSubpass:      d.SrcSubpass,
		DstSubpass:      d.DstSubpass,
		SrcStageMask:    vk.PipelineStageFlags(d.SrcStageMask),
		DstStageMask:    vk.PipelineStageFlags(d.DstStageMask),
		SrcAccessMask:   vk.AccessFlags(d.SrcAccessMask),
		DstAccessMask:   vk.AccessFlags(d.DstAccessMask),
		DependencyFlags: vk.DependencyFlags(d.DependencyFlags),
	}
}
