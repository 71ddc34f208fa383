package renderpass

import (
	"cmp"
	"slices"
)

const MaxColorAttachments = 8

/**
 * @brief One phase of a render pass and the attachments it touches.
 * Build it with NewSubpassDescription: the zero value references attachment 0
 * from every color slot.
 */
type SubpassDescription struct {
	/** @brief Color targets and their resolve targets, indexed by fragment output location. */
	ColorAttachments       [MaxColorAttachments]ColorAttachmentRef
	DepthStencilAttachment DepthStencilAttachmentRef
	/** @brief Attachments read as input attachments. Ends at InputAttachmentsEnd or at the end of the slice. */
	InputAttachments       []InputAttachmentReference
	/** @brief Attachments the subpass does not touch but whose contents must survive it. Ends at AttachmentUnused. */
	PreserveAttachments    []uint32
	ViewMask               uint32
	Flags                  SubpassDescriptionFlags
}

// NewSubpassDescription returns a subpass that references no attachment.
func NewSubpassDescription() SubpassDescription {
	var sp SubpassDescription
	for i := range sp.ColorAttachments {
		sp.ColorAttachments[i] = UnusedRenderAttachment[ImageLayout]()
	}
	sp.DepthStencilAttachment = UnusedRenderAttachment[DepthStencilLayout]()
	return sp
}

// SubpassesEnd terminates a subpass table.
var SubpassesEnd = NewSubpassDescription()

func isSubpassesEnd(sp SubpassDescription) bool {
	return sp.Equal(SubpassesEnd)
}

// clone copies the input and preserve lists so the result shares no storage with sp.
func (sp SubpassDescription) clone() SubpassDescription {
	sp.InputAttachments = slices.Clone(sp.InputAttachments)
	sp.PreserveAttachments = slices.Clone(sp.PreserveAttachments)
	return sp
}

// Inputs returns the input references up to their terminator.
func (sp SubpassDescription) Inputs() []InputAttachmentReference {
	return tokenTerminated(sp.InputAttachments, InputAttachmentsEnd)
}

// Preserves returns the preserved attachment indices up to their terminator.
func (sp SubpassDescription) Preserves() []uint32 {
	return tokenTerminated(sp.PreserveAttachments, AttachmentUnused)
}

// ColorAttachmentCount is the number of color slots up to and including the
// last one whose render reference is used.
func (sp SubpassDescription) ColorAttachmentCount() uint32 {
	for i := MaxColorAttachments; i > 0; i-- {
		if sp.ColorAttachments[i-1].Render.Used() {
			return uint32(i)
		}
	}
	return 0
}

func (sp SubpassDescription) HasResolves() bool {
	for _, c := range sp.ColorAttachments {
		if c.Resolve.Used() {
			return true
		}
	}
	return false
}

// AttachmentReferenceCount is the number of attachment reference slots the
// subpass occupies once compacted: colors, inputs, resolves (one per color when
// any resolve is used) and the depth-stencil reference when it is used.
func (sp SubpassDescription) AttachmentReferenceCount() uint32 {
	colors := sp.ColorAttachmentCount()
	n := colors + uint32(len(sp.Inputs()))
	if sp.HasResolves() {
		n += colors
	}
	if sp.DepthStencilAttachment.Render.Used() {
		n++
	}
	return n
}

func (sp SubpassDescription) PreserveAttachmentCount() uint32 {
	return uint32(len(sp.Preserves()))
}

func (sp SubpassDescription) Valid() bool {
	for i := range sp.ColorAttachments {
		if !sp.ColorAttachments[i].Valid() {
			return false
		}
	}
	if !sp.DepthStencilAttachment.Valid() {
		return false
	}
	invalid := false
	visitTokenTerminated(sp.InputAttachments, InputAttachmentsEnd, func(ref InputAttachmentReference) bool {
		if !ref.Valid() {
			invalid = true
			return false
		}
		return true
	})
	return !invalid
}

func (sp SubpassDescription) Compare(o SubpassDescription) int {
	for i := range sp.ColorAttachments {
		if c := sp.ColorAttachments[i].Compare(o.ColorAttachments[i]); c != 0 {
			return c
		}
	}
	if c := sp.DepthStencilAttachment.Compare(o.DepthStencilAttachment); c != 0 {
		return c
	}
	if c := slices.CompareFunc(sp.Inputs(), o.Inputs(), InputAttachmentReference.Compare); c != 0 {
		return c
	}
	if c := slices.Compare(sp.Preserves(), o.Preserves()); c != 0 {
		return c
	}
	if c := cmp.Compare(sp.ViewMask, o.ViewMask); c != 0 {
		return c
	}
	return cmp.Compare(sp.Flags, o.Flags)
}

// Equal compares the subpasses field by field. Input and preserve lists compare
// by their terminated contents, so a nil list equals one holding only its terminator.
func (sp SubpassDescription) Equal(o SubpassDescription) bool {
	return sp.Compare(o) == 0
}
