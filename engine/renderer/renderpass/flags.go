package renderpass

import (
	"strings"

	"golang.org/x/exp/constraints"
)

type AspectFlags uint32

const (
	AspectNone     AspectFlags = 0x0
	AspectColor    AspectFlags = 0x1
	AspectDepth    AspectFlags = 0x2
	AspectStencil  AspectFlags = 0x4
	AspectMetadata AspectFlags = 0x8
)

type PipelineStageFlags uint32

const (
	PipelineStageNone                         PipelineStageFlags = 0x0
	PipelineStageTopOfPipe                    PipelineStageFlags = 0x1
	PipelineStageDrawIndirect                 PipelineStageFlags = 0x2
	PipelineStageVertexInput                  PipelineStageFlags = 0x4
	PipelineStageVertexShader                 PipelineStageFlags = 0x8
	PipelineStageTessellationControlShader    PipelineStageFlags = 0x10
	PipelineStageTessellationEvaluationShader PipelineStageFlags = 0x20
	PipelineStageGeometryShader               PipelineStageFlags = 0x40
	PipelineStageFragmentShader               PipelineStageFlags = 0x80
	PipelineStageEarlyFragmentTests           PipelineStageFlags = 0x100
	PipelineStageLateFragmentTests            PipelineStageFlags = 0x200
	PipelineStageColorAttachmentOutput        PipelineStageFlags = 0x400
	PipelineStageComputeShader                PipelineStageFlags = 0x800
	PipelineStageTransfer                     PipelineStageFlags = 0x1000
	PipelineStageBottomOfPipe                 PipelineStageFlags = 0x2000
	PipelineStageHost                         PipelineStageFlags = 0x4000
	PipelineStageAllGraphics                  PipelineStageFlags = 0x8000
	PipelineStageAllCommands                  PipelineStageFlags = 0x10000
)

type AccessFlags uint32

const (
	AccessNone                        AccessFlags = 0x0
	AccessIndirectCommandRead         AccessFlags = 0x1
	AccessIndexRead                   AccessFlags = 0x2
	AccessVertexAttributeRead         AccessFlags = 0x4
	AccessUniformRead                 AccessFlags = 0x8
	AccessInputAttachmentRead         AccessFlags = 0x10
	AccessShaderRead                  AccessFlags = 0x20
	AccessShaderWrite                 AccessFlags = 0x40
	AccessColorAttachmentRead         AccessFlags = 0x80
	AccessColorAttachmentWrite        AccessFlags = 0x100
	AccessDepthStencilAttachmentRead  AccessFlags = 0x200
	AccessDepthStencilAttachmentWrite AccessFlags = 0x400
	AccessTransferRead                AccessFlags = 0x800
	AccessTransferWrite               AccessFlags = 0x1000
	AccessHostRead                    AccessFlags = 0x2000
	AccessHostWrite                   AccessFlags = 0x4000
	AccessMemoryRead                  AccessFlags = 0x8000
	AccessMemoryWrite                 AccessFlags = 0x10000
)

type DependencyFlags uint32

const (
	DependencyNone        DependencyFlags = 0x0
	DependencyByRegion    DependencyFlags = 0x1
	DependencyDeviceGroup DependencyFlags = 0x4
	DependencyViewLocal   DependencyFlags = 0x2
)

type SubpassDescriptionFlags uint8

const (
	SubpassDescriptionNone                 SubpassDescriptionFlags = 0x00
	SubpassDescriptionPerViewAttributes    SubpassDescriptionFlags = 0x01
	SubpassDescriptionPerViewPositionXOnly SubpassDescriptionFlags = 0x02
)

// flagName pairs a single bit with its snake_case name.
type flagName[T constraints.Unsigned] struct {
	bit  T
	name string
}

var aspectNames = []flagName[AspectFlags]{
	{AspectColor, "color"},
	{AspectDepth, "depth"},
	{AspectStencil, "stencil"},
	{AspectMetadata, "metadata"},
}

var pipelineStageNames = []flagName[PipelineStageFlags]{
	{PipelineStageTopOfPipe, "top_of_pipe"},
	{PipelineStageDrawIndirect, "draw_indirect"},
	{PipelineStageVertexInput, "vertex_input"},
	{PipelineStageVertexShader, "vertex_shader"},
	{PipelineStageTessellationControlShader, "tessellation_control_shader"},
	{PipelineStageTessellationEvaluationShader, "tessellation_evaluation_shader"},
	{PipelineStageGeometryShader, "geometry_shader"},
	{PipelineStageFragmentShader, "fragment_shader"},
	{PipelineStageEarlyFragmentTests, "early_fragment_tests"},
	{PipelineStageLateFragmentTests, "late_fragment_tests"},
	{PipelineStageColorAttachmentOutput, "color_attachment_output"},
	{PipelineStageComputeShader, "compute_shader"},
	{PipelineStageTransfer, "transfer"},
	{PipelineStageBottomOfPipe, "bottom_of_pipe"},
	{PipelineStageHost, "host"},
	{PipelineStageAllGraphics, "all_graphics"},
	{PipelineStageAllCommands, "all_commands"},
}

var accessNames = []flagName[AccessFlags]{
	{AccessIndirectCommandRead, "indirect_command_read"},
	{AccessIndexRead, "index_read"},
	{AccessVertexAttributeRead, "vertex_attribute_read"},
	{AccessUniformRead, "uniform_read"},
	{AccessInputAttachmentRead, "input_attachment_read"},
	{AccessShaderRead, "shader_read"},
	{AccessShaderWrite, "shader_write"},
	{AccessColorAttachmentRead, "color_attachment_read"},
	{AccessColorAttachmentWrite, "color_attachment_write"},
	{AccessDepthStencilAttachmentRead, "depth_stencil_attachment_read"},
	{AccessDepthStencilAttachmentWrite, "depth_stencil_attachment_write"},
	{AccessTransferRead, "transfer_read"},
	{AccessTransferWrite, "transfer_write"},
	{AccessHostRead, "host_read"},
	{AccessHostWrite, "host_write"},
	{AccessMemoryRead, "memory_read"},
	{AccessMemoryWrite, "memory_write"},
}

var dependencyNames = []flagName[DependencyFlags]{
	{DependencyByRegion, "by_region"},
	{DependencyViewLocal, "view_local"},
	{DependencyDeviceGroup, "device_group"},
}

var subpassFlagNames = []flagName[SubpassDescriptionFlags]{
	{SubpassDescriptionPerViewAttributes, "per_view_attributes"},
	{SubpassDescriptionPerViewPositionXOnly, "per_view_position_x_only"},
}

// HasFlags reports whether every bit of want is set in v.
func HasFlags[T constraints.Unsigned](v, want T) bool {
	return v&want == want
}

func parseFlags[T constraints.Unsigned](table []flagName[T], names []string) (T, string, bool) {
	var v T
	for _, n := range names {
		found := false
		for _, f := range table {
			if f.name == n {
				v |= f.bit
				found = true
				break
			}
		}
		if !found {
			return 0, n, false
		}
	}
	return v, "", true
}

func formatFlags[T constraints.Unsigned](table []flagName[T], v T) string {
	if v == 0 {
		return "none"
	}
	var names []string
	for _, f := range table {
		if HasFlags(v, f.bit) {
			names = append(names, f.name)
		}
	}
	return strings.Join(names, "|")
}

// ParseAspectFlags combines the named aspects. The second result is the first
// name that was not recognised.
func ParseAspectFlags(names []string) (AspectFlags, string, bool) {
	return parseFlags(aspectNames, names)
}

func ParsePipelineStageFlags(names []string) (PipelineStageFlags, string, bool) {
	return parseFlags(pipelineStageNames, names)
}

func ParseAccessFlags(names []string) (AccessFlags, string, bool) {
	return parseFlags(accessNames, names)
}

func ParseDependencyFlags(names []string) (DependencyFlags, string, bool) {
	return parseFlags(dependencyNames, names)
}

func ParseSubpassDescriptionFlags(names []string) (SubpassDescriptionFlags, string, bool) {
	return parseFlags(subpassFlagNames, names)
}

func (a AspectFlags) String() string             { return formatFlags(aspectNames, a) }
func (p PipelineStageFlags) String() string      { return formatFlags(pipelineStageNames, p) }
func (a AccessFlags) String() string             { return formatFlags(accessNames, a) }
func (d DependencyFlags) String() string         { return formatFlags(dependencyNames, d) }
func (s SubpassDescriptionFlags) String() string { return formatFlags(subpassFlagNames, s) }
