package renderpass

import "cmp"

type ImageLayout uint32

const (
	ImageLayoutUndefined ImageLayout = iota
	ImageLayoutGeneral
	ImageLayoutColorAttachmentOptimal
	ImageLayoutDepthStencilAttachmentOptimal
	ImageLayoutDepthStencilReadOnlyOptimal
	ImageLayoutShaderReadOnlyOptimal
	ImageLayoutTransferSrcOptimal
	ImageLayoutTransferDstOptimal
	ImageLayoutPreinitialized
	ImageLayoutDepthReadOnlyStencilAttachmentOptimal
	ImageLayoutDepthAttachmentStencilReadOnlyOptimal
	ImageLayoutDepthAttachmentOptimal
	ImageLayoutDepthReadOnlyOptimal
	ImageLayoutStencilAttachmentOptimal
	ImageLayoutStencilReadOnlyOptimal
	ImageLayoutReadOnlyOptimal
	ImageLayoutAttachmentOptimal
	ImageLayoutPresentSrc
	ImageLayoutSharedPresent
)

var imageLayoutNames = [...]string{
	ImageLayoutUndefined:                             "undefined",
	ImageLayoutGeneral:                               "general",
	ImageLayoutColorAttachmentOptimal:                "color_attachment_optimal",
	ImageLayoutDepthStencilAttachmentOptimal:         "depth_stencil_attachment_optimal",
	ImageLayoutDepthStencilReadOnlyOptimal:           "depth_stencil_read_only_optimal",
	ImageLayoutShaderReadOnlyOptimal:                 "shader_read_only_optimal",
	ImageLayoutTransferSrcOptimal:                    "transfer_src_optimal",
	ImageLayoutTransferDstOptimal:                    "transfer_dst_optimal",
	ImageLayoutPreinitialized:                        "preinitialized",
	ImageLayoutDepthReadOnlyStencilAttachmentOptimal: "depth_read_only_stencil_attachment_optimal",
	ImageLayoutDepthAttachmentStencilReadOnlyOptimal: "depth_attachment_stencil_read_only_optimal",
	ImageLayoutDepthAttachmentOptimal:                "depth_attachment_optimal",
	ImageLayoutDepthReadOnlyOptimal:                  "depth_read_only_optimal",
	ImageLayoutStencilAttachmentOptimal:              "stencil_attachment_optimal",
	ImageLayoutStencilReadOnlyOptimal:                "stencil_read_only_optimal",
	ImageLayoutReadOnlyOptimal:                       "read_only_optimal",
	ImageLayoutAttachmentOptimal:                     "attachment_optimal",
	ImageLayoutPresentSrc:                            "present_src",
	ImageLayoutSharedPresent:                         "shared_present",
}

func (l ImageLayout) String() string {
	if int(l) < len(imageLayoutNames) {
		return imageLayoutNames[l]
	}
	return "unknown_layout"
}

// ParseImageLayout maps the snake_case layout name back to its value.
func ParseImageLayout(name string) (ImageLayout, bool) {
	for i, n := range imageLayoutNames {
		if n == name {
			return ImageLayout(i), true
		}
	}
	return ImageLayoutUndefined, false
}

/**
 * @brief A depth layout and a stencil layout for the same image.
 * Leaving Stencil as ImageLayoutUndefined means the stencil aspect follows Depth.
 */
type DepthStencilLayout struct {
	Depth   ImageLayout
	Stencil ImageLayout
}

// ActualStencilLayout resolves the layout the stencil aspect really uses.
func (l DepthStencilLayout) ActualStencilLayout() ImageLayout {
	if l.Stencil != ImageLayoutUndefined {
		return l.Stencil
	}
	switch l.Depth {
	case ImageLayoutDepthAttachmentOptimal:
		return ImageLayoutStencilAttachmentOptimal
	case ImageLayoutDepthReadOnlyOptimal:
		return ImageLayoutStencilReadOnlyOptimal
	}
	return l.Depth
}

func (l DepthStencilLayout) Compare(o DepthStencilLayout) int {
	if c := cmp.Compare(l.Depth, o.Depth); c != 0 {
		return c
	}
	return cmp.Compare(l.Stencil, o.Stencil)
}

// Layout is shorthand for a layout pair whose stencil follows its depth.
func Layout(depth ImageLayout) DepthStencilLayout {
	return DepthStencilLayout{Depth: depth}
}

// DepthView is the layout a consumer sees when it ignores the stencil aspect.
func DepthView(l DepthStencilLayout) ImageLayout {
	return l.Depth
}

// layout types a reference may carry
type referenceLayout interface {
	ImageLayout | DepthStencilLayout
}

// splitLayout returns the depth view of l and, for layout pairs, the derived
// stencil layout.
func splitLayout[L referenceLayout](l L) (depth ImageLayout, stencil ImageLayout, pair bool) {
	switch v := any(l).(type) {
	case DepthStencilLayout:
		return v.Depth, v.ActualStencilLayout(), true
	case ImageLayout:
		return v, v, false
	}
	return ImageLayoutUndefined, ImageLayoutUndefined, false
}

func compareLayout[L referenceLayout](a, b L) int {
	return pairOf(a).Compare(pairOf(b))
}

// pairOf widens any reference layout to a layout pair.
func pairOf[L referenceLayout](l L) DepthStencilLayout {
	switch v := any(l).(type) {
	case DepthStencilLayout:
		return v
	case ImageLayout:
		return DepthStencilLayout{Depth: v}
	}
	return DepthStencilLayout{}
}

// disallowedFinalLayout reports layouts an attachment can never end a render pass in.
func disallowedFinalLayout(l ImageLayout) bool {
	switch l {
	case ImageLayoutUndefined, ImageLayoutPreinitialized:
		return true
	}
	return false
}

// disallowedStencilLayout reports layouts the stencil aspect of an attachment
// description may not start or end in.
func disallowedStencilLayout(l ImageLayout) bool {
	switch l {
	case ImageLayoutColorAttachmentOptimal, ImageLayoutDepthAttachmentOptimal, ImageLayoutDepthReadOnlyOptimal:
		return true
	}
	return false
}

// invalidReferenceLayout reports layouts no used attachment reference may request.
func invalidReferenceLayout(l ImageLayout) bool {
	switch l {
	case ImageLayoutUndefined, ImageLayoutPreinitialized, ImageLayoutPresentSrc:
		return true
	}
	return false
}
