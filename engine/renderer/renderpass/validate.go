package renderpass

import (
	"github.com/cockroachdb/errors"

	"github.com/spaghettifunk/renderpass/engine/core"
)

/**
 * @brief Outcome of ValidateCreationParams.
 * A result is only usable when OK reports true; a failed result has every
 * count at zero and Err set to the reason.
 */
type CreationParamValidationResult struct {
	AttachmentCount uint32
	SubpassCount    uint32
	DependencyCount uint32
	Err             error
}

func (r CreationParamValidationResult) OK() bool {
	return r.SubpassCount != 0
}

func rejected(err error) CreationParamValidationResult {
	core.LogDebug("render pass rejected: %v", err)
	return CreationParamValidationResult{Err: err}
}

// ValidateCreationParams checks params in a single pass over its tables and
// returns the table sizes New needs. It never modifies params.
func ValidateCreationParams(params *CreationParams) CreationParamValidationResult {
	if params == nil || len(params.Subpasses) == 0 || isSubpassesEnd(params.Subpasses[0]) {
		return rejected(core.ErrNoSubpasses)
	}

	var res CreationParamValidationResult
	var err error

	visitTokenTerminated(params.Attachments, AttachmentsEnd, func(a AttachmentDescription) bool {
		err = validateAttachment(res.AttachmentCount, a)
		if err != nil {
			return false
		}
		res.AttachmentCount++
		return true
	})
	if err != nil {
		return rejected(err)
	}

	visitTerminatedFunc(params.Subpasses, isSubpassesEnd, func(sp SubpassDescription) bool {
		if !sp.Valid() {
			err = errors.Wrapf(core.ErrInvalidSubpass, "subpass %d", res.SubpassCount)
			return false
		}
		if err = validateReferenceRange(res.SubpassCount, sp, res.AttachmentCount); err != nil {
			return false
		}
		res.SubpassCount++
		return true
	})
	if err != nil {
		return rejected(err)
	}

	visitTokenTerminated(params.Dependencies, DependenciesEnd, func(d SubpassDependency) bool {
		if err = validateDependency(res.DependencyCount, d, res.SubpassCount); err != nil {
			return false
		}
		res.DependencyCount++
		return true
	})
	if err != nil {
		return rejected(err)
	}
	return res
}

func validateAttachment(index uint32, a AttachmentDescription) error {
	if !a.Valid() {
		return errors.Wrapf(core.ErrInvalidAttachment, "attachment %d ends in layout %s/%s",
			index, a.FinalLayout.Depth, a.FinalLayout.ActualStencilLayout())
	}
	if !a.HasStencil() {
		return nil
	}
	if l := a.InitialLayout.ActualStencilLayout(); disallowedStencilLayout(l) {
		return errors.Wrapf(core.ErrInvalidStencilLayout, "attachment %d starts its stencil aspect in %s", index, l)
	}
	if l := a.FinalLayout.ActualStencilLayout(); disallowedStencilLayout(l) || disallowedFinalLayout(l) {
		return errors.Wrapf(core.ErrInvalidStencilLayout, "attachment %d ends its stencil aspect in %s", index, l)
	}
	return nil
}

// validateReferenceRange makes sure every used reference of the subpass names
// an attachment of the render pass.
func validateReferenceRange(index uint32, sp SubpassDescription, attachmentCount uint32) error {
	check := func(kind string, attachment uint32) error {
		if attachment != AttachmentUnused && attachment >= attachmentCount {
			return errors.Wrapf(core.ErrInvalidReference, "subpass %d %s attachment %d (have %d)",
				index, kind, attachment, attachmentCount)
		}
		return nil
	}
	for _, c := range sp.ColorAttachments {
		if err := check("color", c.Render.Attachment); err != nil {
			return err
		}
		if err := check("resolve", c.Resolve.Attachment); err != nil {
			return err
		}
	}
	if err := check("depth-stencil", sp.DepthStencilAttachment.Render.Attachment); err != nil {
		return err
	}
	if err := check("depth-stencil resolve", sp.DepthStencilAttachment.Resolve.Attachment); err != nil {
		return err
	}
	for _, in := range sp.Inputs() {
		if err := check("input", in.Attachment); err != nil {
			return err
		}
	}
	for _, p := range sp.Preserves() {
		if err := check("preserve", p); err != nil {
			return err
		}
	}
	return nil
}

func validateDependency(index uint32, d SubpassDependency, subpassCount uint32) error {
	inRange := func(s uint32) bool {
		return s == SubpassExternal || s < subpassCount
	}
	switch {
	case !inRange(d.SrcSubpass) || !inRange(d.DstSubpass):
		return errors.Wrapf(core.ErrInvalidDependency, "dependency %d links subpass %d to %d (have %d)",
			index, d.SrcSubpass, d.DstSubpass, subpassCount)
	case d.SrcSubpass == SubpassExternal && d.DstSubpass == SubpassExternal:
		return errors.Wrapf(core.ErrInvalidDependency, "dependency %d has both ends outside the render pass", index)
	case d.SrcSubpass != SubpassExternal && d.DstSubpass != SubpassExternal && d.SrcSubpass > d.DstSubpass:
		return errors.Wrapf(core.ErrInvalidDependency, "dependency %d points backwards from subpass %d to %d",
			index, d.SrcSubpass, d.DstSubpass)
	}
	return nil
}
