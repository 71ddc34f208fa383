package renderpass

import (
	"iter"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/spaghettifunk/renderpass/engine/core"
)

// Range is a read-only view over storage owned by a Renderpass. Elements that
// hold slices into that storage are copied on the way out.
type Range[T any] struct {
	items []T
	copy  func(T) T
}

func (r Range[T]) Len() int {
	return len(r.items)
}

func (r Range[T]) At(i int) T {
	if r.copy != nil {
		return r.copy(r.items[i])
	}
	return r.items[i]
}

func (r Range[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := range r.items {
			if !yield(i, r.At(i)) {
				return
			}
		}
	}
}

// Clone copies the viewed elements into a new slice the caller owns.
func (r Range[T]) Clone() []T {
	out := slices.Clone(r.items)
	if r.copy != nil {
		for i := range out {
			out[i] = r.copy(out[i])
		}
	}
	return out
}

/**
 * @brief The compacted references of one subpass, in the order a backend consumes them.
 * Every slice is a copy of the subpass's window into the shared pools.
 * Color and Resolve entries keep their slot: an unused slot holds AttachmentUnused.
 */
type SubpassReferences struct {
	Color           []InputAttachmentReference
	Input           []InputAttachmentReference
	Resolve         []InputAttachmentReference
	DepthStencil    InputAttachmentReference
	HasDepthStencil bool
	Preserve        []uint32
}

/**
 * @brief A validated, immutable render pass.
 * It owns five allocations: the attachment, subpass and dependency tables, one
 * pool holding the attachment references of every subpass and one pool holding
 * every preserved attachment index. Subpasses only point into those pools.
 */
type Renderpass struct {
	params CreationParams

	attachments  []AttachmentDescription
	subpasses    []SubpassDescription
	dependencies []SubpassDependency

	// every reference kind is stored in its widest form
	attachmentRefs          []InputAttachmentReference
	preservedAttachmentRefs []uint32
}

// Create validates params and compacts them into a Renderpass.
func Create(params *CreationParams) (*Renderpass, error) {
	res := ValidateCreationParams(params)
	if !res.OK() {
		return nil, res.Err
	}
	return New(params, res), nil
}

// New compacts params into a Renderpass sized by counts, which must come from
// a successful ValidateCreationParams(params). Nothing is validated again; a
// failed result makes New panic. params is not retained.
func New(params *CreationParams, counts CreationParamValidationResult) *Renderpass {
	if !counts.OK() {
		panic(errors.AssertionFailedf("renderpass: construction from a failed validation result: %v", counts.Err))
	}
	rp := &Renderpass{
		params: CreationParams{ViewCorrelationGroup: params.ViewCorrelationGroup},
	}

	if counts.AttachmentCount > 0 {
		rp.attachments = make([]AttachmentDescription, counts.AttachmentCount)
		copy(rp.attachments, params.Attachments[:counts.AttachmentCount])
	}
	rp.subpasses = make([]SubpassDescription, counts.SubpassCount)
	copy(rp.subpasses, params.Subpasses[:counts.SubpassCount])
	if counts.DependencyCount > 0 {
		rp.dependencies = make([]SubpassDependency, counts.DependencyCount)
		copy(rp.dependencies, params.Dependencies[:counts.DependencyCount])
	}
	rp.params.Attachments = rp.attachments
	rp.params.Subpasses = rp.subpasses
	rp.params.Dependencies = rp.dependencies

	var attRefCnt, preservedAttRefCnt uint32
	for i := range rp.subpasses {
		attRefCnt += rp.subpasses[i].AttachmentReferenceCount()
		preservedAttRefCnt += rp.subpasses[i].PreserveAttachmentCount()
	}
	if attRefCnt > 0 {
		rp.attachmentRefs = make([]InputAttachmentReference, attRefCnt)
	}
	if preservedAttRefCnt > 0 {
		rp.preservedAttachmentRefs = make([]uint32, preservedAttRefCnt)
	}

	var refOffset, preservedRefOffset uint32
	for i := range rp.subpasses {
		sb := &rp.subpasses[i]
		colors := sb.ColorAttachmentCount()
		inputs := sb.Inputs()
		refs := rp.attachmentRefs

		for j := uint32(0); j < colors; j++ {
			refs[refOffset+j] = rp.pooledColor(sb.ColorAttachments[j].Render)
		}
		refOffset += colors

		copy(refs[refOffset:], inputs)
		sb.InputAttachments = refs[refOffset : refOffset+uint32(len(inputs)) : refOffset+uint32(len(inputs))]
		refOffset += uint32(len(inputs))

		if sb.HasResolves() {
			for j := uint32(0); j < colors; j++ {
				refs[refOffset+j] = rp.pooledColor(sb.ColorAttachments[j].Resolve)
			}
			refOffset += colors
		}

		if ds := sb.DepthStencilAttachment.Render; ds.Used() {
			refs[refOffset] = InputAttachmentReference{
				AttachmentReference: ds,
				AspectMask:          FormatAspects(rp.attachments[ds.Attachment].Format),
			}
			refOffset++
		}

		preserves := sb.Preserves()
		n := uint32(len(preserves))
		copy(rp.preservedAttachmentRefs[preservedRefOffset:], preserves)
		sb.PreserveAttachments = rp.preservedAttachmentRefs[preservedRefOffset : preservedRefOffset+n : preservedRefOffset+n]
		preservedRefOffset += n
	}

	core.LogDebug("render pass compacted: %d attachments, %d subpasses, %d dependencies, %d references, %d preserved",
		counts.AttachmentCount, counts.SubpassCount, counts.DependencyCount, attRefCnt, preservedAttRefCnt)
	return rp
}

func (rp *Renderpass) pooledColor(ref AttachmentReference[ImageLayout]) InputAttachmentReference {
	pooled := InputAttachmentReference{
		AttachmentReference: AttachmentReference[DepthStencilLayout]{
			Attachment: ref.Attachment,
			Layout:     Layout(ref.Layout),
		},
	}
	if ref.Used() {
		pooled.AspectMask = AspectColor
	}
	return pooled
}

func (rp *Renderpass) Attachments() Range[AttachmentDescription] {
	return Range[AttachmentDescription]{items: rp.attachments}
}

// Subpasses views the compacted subpasses. Their input and preserve lists are
// copied out of the pools.
func (rp *Renderpass) Subpasses() Range[SubpassDescription] {
	return Range[SubpassDescription]{rp.subpasses, SubpassDescription.clone}
}

func (rp *Renderpass) SubpassDependencies() Range[SubpassDependency] {
	return Range[SubpassDependency]{items: rp.dependencies}
}

// CreationParameters returns a copy of the parameters the render pass was
// built from. Use it to compare render passes.
func (rp *Renderpass) CreationParameters() CreationParams {
	return CreationParams{
		Attachments:          rp.Attachments().Clone(),
		Subpasses:            rp.Subpasses().Clone(),
		Dependencies:         rp.SubpassDependencies().Clone(),
		ViewCorrelationGroup: rp.params.ViewCorrelationGroup,
	}
}

func (rp *Renderpass) ReferencePoolSize() int {
	return len(rp.attachmentRefs)
}

func (rp *Renderpass) PreservePoolSize() int {
	return len(rp.preservedAttachmentRefs)
}

// SubpassReferences yields the compacted references of every subpass in order.
func (rp *Renderpass) SubpassReferences() iter.Seq2[int, SubpassReferences] {
	return func(yield func(int, SubpassReferences) bool) {
		var refOffset, preservedRefOffset uint32
		for i := range rp.subpasses {
			sb := &rp.subpasses[i]
			colors := sb.ColorAttachmentCount()
			inputs := uint32(len(sb.InputAttachments))
			refs := rp.attachmentRefs

			var out SubpassReferences
			out.Color = slices.Clone(refs[refOffset : refOffset+colors])
			refOffset += colors
			out.Input = slices.Clone(refs[refOffset : refOffset+inputs])
			refOffset += inputs
			if sb.HasResolves() {
				out.Resolve = slices.Clone(refs[refOffset : refOffset+colors])
				refOffset += colors
			}
			if sb.DepthStencilAttachment.Render.Used() {
				out.DepthStencil = refs[refOffset]
				out.HasDepthStencil = true
				refOffset++
			}
			n := uint32(len(sb.PreserveAttachments))
			out.Preserve = slices.Clone(rp.preservedAttachmentRefs[preservedRefOffset : preservedRefOffset+n])
			preservedRefOffset += n

			if !yield(i, out) {
				return
			}
		}
	}
}

// References returns the compacted references of subpass i.
func (rp *Renderpass) References(i int) SubpassReferences {
	for j, refs := range rp.SubpassReferences() {
		if j == i {
			return refs
		}
	}
	panic(errors.AssertionFailedf("renderpass: subpass %d out of range (have %d)", i, len(rp.subpasses)))
}
