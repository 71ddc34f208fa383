package renderpass

import "cmp"

// AttachmentUnused is the attachment index of a reference that is not used.
const AttachmentUnused uint32 = 0xFFFFFFFF

// AttachmentReference points a subpass at one attachment of the render pass.
// Color references carry a plain ImageLayout, everything else a layout pair.
type AttachmentReference[L ImageLayout | DepthStencilLayout] struct {
	Attachment uint32
	Layout     L
}

func (r AttachmentReference[L]) Used() bool {
	return r.Attachment != AttachmentUnused
}

// invalid reports whether a used reference asks for a layout no reference may
// use. Unused references are never invalid.
func (r AttachmentReference[L]) invalid() bool {
	if !r.Used() {
		return false
	}
	depth, stencil, pair := splitLayout(r.Layout)
	if invalidReferenceLayout(depth) {
		return true
	}
	if pair && invalidReferenceLayout(stencil) {
		return true
	}
	return false
}

func (r AttachmentReference[L]) Compare(o AttachmentReference[L]) int {
	if c := cmp.Compare(r.Attachment, o.Attachment); c != 0 {
		return c
	}
	return compareLayout(r.Layout, o.Layout)
}

type InputAttachmentReference struct {
	AttachmentReference[DepthStencilLayout]
	AspectMask AspectFlags
}

// InputAttachmentsEnd terminates the input attachment list of a subpass.
var InputAttachmentsEnd = InputAttachmentReference{
	AttachmentReference: AttachmentReference[DepthStencilLayout]{Attachment: AttachmentUnused},
}

// InputAttachment references attachment index for reading in the fragment shader.
func InputAttachment(index uint32, layout DepthStencilLayout, aspect AspectFlags) InputAttachmentReference {
	return InputAttachmentReference{
		AttachmentReference: AttachmentReference[DepthStencilLayout]{Attachment: index, Layout: layout},
		AspectMask:          aspect,
	}
}

func (r InputAttachmentReference) Valid() bool {
	if r.invalid() {
		return false
	}
	if !r.Used() {
		return true
	}
	if r.AspectMask == AspectNone {
		return false
	}
	// input attachments are read through the shader, never through an attachment-write layout.
	// Only the depth view is checked; backends reject a separate stencil layout they cannot express.
	switch DepthView(r.Layout) {
	case ImageLayoutColorAttachmentOptimal, ImageLayoutDepthAttachmentOptimal, ImageLayoutStencilAttachmentOptimal:
		return false
	}
	return true
}

func (r InputAttachmentReference) Compare(o InputAttachmentReference) int {
	if c := r.AttachmentReference.Compare(o.AttachmentReference); c != 0 {
		return c
	}
	return cmp.Compare(r.AspectMask, o.AspectMask)
}

// RenderAttachmentRef is an attachment rendered to by a subpass together with the
// attachment it is resolved into. Resolve is only meaningful when Render is used.
type RenderAttachmentRef[L ImageLayout | DepthStencilLayout] struct {
	Render  AttachmentReference[L]
	Resolve AttachmentReference[L]
}

type (
	ColorAttachmentRef        = RenderAttachmentRef[ImageLayout]
	DepthStencilAttachmentRef = RenderAttachmentRef[DepthStencilLayout]
)

// UnusedRenderAttachment returns a reference pair with neither side used.
func UnusedRenderAttachment[L ImageLayout | DepthStencilLayout]() RenderAttachmentRef[L] {
	return RenderAttachmentRef[L]{
		Render:  AttachmentReference[L]{Attachment: AttachmentUnused},
		Resolve: AttachmentReference[L]{Attachment: AttachmentUnused},
	}
}

func ColorAttachment(index uint32, layout ImageLayout) ColorAttachmentRef {
	r := UnusedRenderAttachment[ImageLayout]()
	r.Render = AttachmentReference[ImageLayout]{Attachment: index, Layout: layout}
	return r
}

// ResolvedColorAttachment renders into index and resolves into resolve at the end of the subpass.
func ResolvedColorAttachment(index uint32, layout ImageLayout, resolve uint32, resolveLayout ImageLayout) ColorAttachmentRef {
	return ColorAttachmentRef{
		Render:  AttachmentReference[ImageLayout]{Attachment: index, Layout: layout},
		Resolve: AttachmentReference[ImageLayout]{Attachment: resolve, Layout: resolveLayout},
	}
}

func DepthStencilAttachment(index uint32, layout DepthStencilLayout) DepthStencilAttachmentRef {
	r := UnusedRenderAttachment[DepthStencilLayout]()
	r.Render = AttachmentReference[DepthStencilLayout]{Attachment: index, Layout: layout}
	return r
}

func (r RenderAttachmentRef[L]) Valid() bool {
	if r.Render.invalid() || r.Resolve.invalid() {
		return false
	}
	if !r.Render.Used() {
		return !r.Resolve.Used()
	}
	depth, _, isDepth := splitLayout(r.Render.Layout)
	switch depth {
	case ImageLayoutColorAttachmentOptimal:
		if isDepth {
			return false
		}
	case ImageLayoutShaderReadOnlyOptimal:
		return false
	case ImageLayoutDepthAttachmentOptimal, ImageLayoutDepthReadOnlyOptimal:
		if !isDepth {
			return false
		}
	case ImageLayoutStencilAttachmentOptimal, ImageLayoutStencilReadOnlyOptimal:
		return false
	}
	return true
}

func (r RenderAttachmentRef[L]) Compare(o RenderAttachmentRef[L]) int {
	if c := r.Render.Compare(o.Render); c != 0 {
		return c
	}
	return r.Resolve.Compare(o.Resolve)
}
