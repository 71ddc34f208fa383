package renderpass

import "cmp"

type LoadOp uint8

const (
	// LoadOpUndefined leaves the op unset. An unset depth op behaves as
	// LoadOpDontCare, an unset stencil op follows the depth op.
	LoadOpUndefined LoadOp = iota
	LoadOpLoad
	LoadOpClear
	LoadOpDontCare
)

var loadOpNames = [...]string{
	LoadOpUndefined: "undefined",
	LoadOpLoad:      "load",
	LoadOpClear:     "clear",
	LoadOpDontCare:  "dont_care",
}

func (o LoadOp) String() string {
	if int(o) < len(loadOpNames) {
		return loadOpNames[o]
	}
	return "unknown_load_op"
}

func ParseLoadOp(name string) (LoadOp, bool) {
	for i, n := range loadOpNames {
		if n == name {
			return LoadOp(i), true
		}
	}
	return LoadOpUndefined, false
}

type StoreOp uint8

const (
	StoreOpUndefined StoreOp = iota
	StoreOpStore
	StoreOpDontCare
)

var storeOpNames = [...]string{
	StoreOpUndefined: "undefined",
	StoreOpStore:     "store",
	StoreOpDontCare:  "dont_care",
}

func (o StoreOp) String() string {
	if int(o) < len(storeOpNames) {
		return storeOpNames[o]
	}
	return "unknown_store_op"
}

func ParseStoreOp(name string) (StoreOp, bool) {
	for i, n := range storeOpNames {
		if n == name {
			return StoreOp(i), true
		}
	}
	return StoreOpUndefined, false
}

// LoadOps holds the load op of the depth (or color) aspect and of the stencil aspect.
type LoadOps struct {
	Depth   LoadOp
	Stencil LoadOp
}

func (o LoadOps) ActualDepthOp() LoadOp {
	if o.Depth == LoadOpUndefined {
		return LoadOpDontCare
	}
	return o.Depth
}

func (o LoadOps) ActualStencilOp() LoadOp {
	if o.Stencil != LoadOpUndefined {
		return o.Stencil
	}
	return o.ActualDepthOp()
}

func (o LoadOps) Compare(p LoadOps) int {
	if c := cmp.Compare(o.Depth, p.Depth); c != 0 {
		return c
	}
	return cmp.Compare(o.Stencil, p.Stencil)
}

// StoreOps holds the store op of the depth (or color) aspect and of the stencil aspect.
type StoreOps struct {
	Depth   StoreOp
	Stencil StoreOp
}

func (o StoreOps) ActualDepthOp() StoreOp {
	if o.Depth == StoreOpUndefined {
		return StoreOpDontCare
	}
	return o.Depth
}

func (o StoreOps) ActualStencilOp() StoreOp {
	if o.Stencil != StoreOpUndefined {
		return o.Stencil
	}
	return o.ActualDepthOp()
}

func (o StoreOps) Compare(p StoreOps) int {
	if c := cmp.Compare(o.Depth, p.Depth); c != 0 {
		return c
	}
	return cmp.Compare(o.Stencil, p.Stencil)
}

/**
 * @brief Describes one image slot of a render pass.
 * Attachments are not typed as color or depth: the per-subpass limits
 * (1 depth-stencil, MaxColorAttachments color and resolve) only apply to
 * references, so a render pass may list any attachments in any order.
 */
type AttachmentDescription struct {
	Format        Format
	Samples       SampleCount
	MayAlias      bool
	LoadOp        LoadOps
	StoreOp       StoreOps
	InitialLayout DepthStencilLayout
	FinalLayout   DepthStencilLayout
}

// AttachmentsEnd terminates an attachment table. It is the zero value.
var AttachmentsEnd = AttachmentDescription{}

// Valid reports whether the attachment can legally end a render pass in FinalLayout.
func (a AttachmentDescription) Valid() bool {
	if disallowedFinalLayout(DepthView(a.FinalLayout)) {
		return false
	}
	if IsDepthOrStencilFormat(a.Format) && !IsDepthOnlyFormat(a.Format) && disallowedFinalLayout(a.FinalLayout.ActualStencilLayout()) {
		return false
	}
	return true
}

// HasStencil reports whether the attachment format carries a stencil aspect.
func (a AttachmentDescription) HasStencil() bool {
	return IsDepthOrStencilFormat(a.Format) && !IsDepthOnlyFormat(a.Format)
}

func (a AttachmentDescription) Compare(b AttachmentDescription) int {
	if c := cmp.Compare(a.Format, b.Format); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Samples, b.Samples); c != 0 {
		return c
	}
	if a.MayAlias != b.MayAlias {
		if !a.MayAlias {
			return -1
		}
		return 1
	}
	if c := a.LoadOp.Compare(b.LoadOp); c != 0 {
		return c
	}
	if c := a.StoreOp.Compare(b.StoreOp); c != 0 {
		return c
	}
	if c := a.InitialLayout.Compare(b.InitialLayout); c != 0 {
		return c
	}
	return a.FinalLayout.Compare(b.FinalLayout)
}
