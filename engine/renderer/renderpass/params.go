package renderpass

import "slices"

const MaxMultiviewViewCount = 32

// ViewCorrelationGroups assigns views to correlation groups. Views sharing a
// group are likely to be rendered with spatial coherence. The zero value leaves
// every view ungrouped.
type ViewCorrelationGroups struct {
	// group+1 per view, 0 means no group
	groups [MaxMultiviewViewCount]uint8
}

// Set puts view into group and reports whether it did. Both must be below
// MaxMultiviewViewCount; the table is left unchanged otherwise.
func (g *ViewCorrelationGroups) Set(view, group uint8) bool {
	if view >= MaxMultiviewViewCount || group >= MaxMultiviewViewCount {
		return false
	}
	g.groups[view] = group + 1
	return true
}

func (g *ViewCorrelationGroups) Clear(view uint8) {
	if view < MaxMultiviewViewCount {
		g.groups[view] = 0
	}
}

func (g ViewCorrelationGroups) Group(view uint8) (uint8, bool) {
	if view >= MaxMultiviewViewCount {
		return 0, false
	}
	v := g.groups[view]
	if v == 0 {
		return 0, false
	}
	return v - 1, true
}

// Masks returns one view mask per correlation group, in group order, skipping
// groups that hold no view.
func (g ViewCorrelationGroups) Masks() []uint32 {
	var perGroup [MaxMultiviewViewCount]uint32
	for view, v := range g.groups {
		if v != 0 {
			perGroup[v-1] |= 1 << view
		}
	}
	var masks []uint32
	for _, m := range perGroup {
		if m != 0 {
			masks = append(masks, m)
		}
	}
	return masks
}

func (g ViewCorrelationGroups) Compare(o ViewCorrelationGroups) int {
	return slices.Compare(g.groups[:], o.groups[:])
}

/**
 * @brief Everything needed to build a Renderpass.
 * The tables are borrowed from the caller for a single Validate+New call. Each
 * table ends at its last element or at the first entry equal to its End value,
 * whichever comes first.
 */
type CreationParams struct {
	Attachments          []AttachmentDescription
	Subpasses            []SubpassDescription
	Dependencies         []SubpassDependency
	ViewCorrelationGroup ViewCorrelationGroups
}

// terminated tables
func (p *CreationParams) attachments() []AttachmentDescription {
	return tokenTerminated(p.Attachments, AttachmentsEnd)
}

func (p *CreationParams) subpasses() []SubpassDescription {
	return terminatedFunc(p.Subpasses, isSubpassesEnd)
}

func (p *CreationParams) dependencies() []SubpassDependency {
	return tokenTerminated(p.Dependencies, DependenciesEnd)
}

// Compare orders two parameter bundles field by field, tables first.
func (p *CreationParams) Compare(o *CreationParams) int {
	if c := slices.CompareFunc(p.attachments(), o.attachments(), AttachmentDescription.Compare); c != 0 {
		return c
	}
	if c := slices.CompareFunc(p.subpasses(), o.subpasses(), SubpassDescription.Compare); c != 0 {
		return c
	}
	if c := slices.CompareFunc(p.dependencies(), o.dependencies(), SubpassDependency.Compare); c != 0 {
		return c
	}
	return p.ViewCorrelationGroup.Compare(o.ViewCorrelationGroup)
}

func (p *CreationParams) Equal(o *CreationParams) bool {
	return p.Compare(o) == 0
}

// Multiview reports whether any subpass uses a non-zero view mask.
func (p *CreationParams) Multiview() bool {
	for _, sp := range p.subpasses() {
		if sp.ViewMask != 0 {
			return true
		}
	}
	return false
}
