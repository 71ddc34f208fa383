package renderpass

import "cmp"

// SubpassExternal names the commands outside the render pass as a dependency endpoint.
const SubpassExternal uint32 = 0xFFFFFFFF

type SubpassDependency struct {
	SrcSubpass      uint32
	DstSubpass      uint32
	SrcStageMask    PipelineStageFlags
	DstStageMask    PipelineStageFlags
	SrcAccessMask   AccessFlags
	DstAccessMask   AccessFlags
	DependencyFlags DependencyFlags
}

// DependenciesEnd terminates a dependency table. It is the zero value.
var DependenciesEnd = SubpassDependency{}

func (d SubpassDependency) Compare(o SubpassDependency) int {
	if c := cmp.Compare(d.SrcSubpass, o.SrcSubpass); c != 0 {
		return c
	}
	if c := cmp.Compare(d.DstSubpass, o.DstSubpass); c != 0 {
		return c
	}
	if c := cmp.Compare(d.SrcStageMask, o.SrcStageMask); c != 0 {
		return c
	}
	if c := cmp.Compare(d.DstStageMask, o.DstStageMask); c != 0 {
		return c
	}
	if c := cmp.Compare(d.SrcAccessMask, o.SrcAccessMask); c != 0 {
		return c
	}
	if c := cmp.Compare(d.DstAccessMask, o.DstAccessMask); c != 0 {
		return c
	}
	return cmp.Compare(d.DependencyFlags, o.DependencyFlags)
}
