package loaders

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/renderpass/engine/core"
	"github.com/spaghettifunk/renderpass/engine/renderer/renderpass"
)

// Extension of render pass description files.
const RenderpassExtension = ".rpass.toml"

/** @brief A decoded render pass description file. */
type Description struct {
	Name   string
	Params *renderpass.CreationParams
}

type RenderpassLoader struct{}

// Load reads and decodes the description at path. The description is named
// after the file unless it sets a name itself.
func (rl *RenderpassLoader) Load(path string) (*Description, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	desc, err := DecodeRenderpass(f)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	if desc.Name == "" {
		desc.Name = strings.TrimSuffix(filepath.Base(path), RenderpassExtension)
	}
	return desc, nil
}

type attachmentEntry struct {
	Format               string `toml:"format"`
	Samples              uint32 `toml:"samples"`
	MayAlias             bool   `toml:"may_alias"`
	LoadOp               string `toml:"load_op"`
	StoreOp              string `toml:"store_op"`
	StencilLoadOp        string `toml:"stencil_load_op"`
	StencilStoreOp       string `toml:"stencil_store_op"`
	InitialLayout        string `toml:"initial_layout"`
	InitialStencilLayout string `toml:"initial_stencil_layout"`
	FinalLayout          string `toml:"final_layout"`
	FinalStencilLayout   string `toml:"final_stencil_layout"`
}

type colorEntry struct {
	Attachment    *uint32 `toml:"attachment"`
	Layout        string  `toml:"layout"`
	Resolve       *uint32 `toml:"resolve"`
	ResolveLayout string  `toml:"resolve_layout"`
}

type depthStencilEntry struct {
	Attachment    uint32 `toml:"attachment"`
	Layout        string `toml:"layout"`
	StencilLayout string `toml:"stencil_layout"`
}

type inputEntry struct {
	Attachment    uint32   `toml:"attachment"`
	Layout        string   `toml:"layout"`
	StencilLayout string   `toml:"stencil_layout"`
	Aspect        []string `toml:"aspect"`
}

type subpassEntry struct {
	Color        []colorEntry       `toml:"color"`
	DepthStencil *depthStencilEntry `toml:"depth_stencil"`
	Input        []inputEntry       `toml:"input"`
	Preserve     []uint32           `toml:"preserve"`
	ViewMask     uint32             `toml:"view_mask"`
	Flags        []string           `toml:"flags"`
}

type dependencyEntry struct {
	// a subpass index or "external"
	Src       any      `toml:"src"`
	Dst       any      `toml:"dst"`
	SrcStages []string `toml:"src_stages"`
	DstStages []string `toml:"dst_stages"`
	SrcAccess []string `toml:"src_access"`
	DstAccess []string `toml:"dst_access"`
	Flags     []string `toml:"flags"`
}

type correlationEntry struct {
	// views of each correlation group
	Groups [][]uint8 `toml:"groups"`
}

type renderpassFile struct {
	Name         string            `toml:"name"`
	Attachments  []attachmentEntry `toml:"attachment"`
	Subpasses    []subpassEntry    `toml:"subpass"`
	Dependencies []dependencyEntry `toml:"dependency"`
	Correlation  correlationEntry  `toml:"correlation"`
}

// DecodeRenderpass decodes one TOML description. Keys it does not know are an
// error. The result is not validated.
func DecodeRenderpass(r io.Reader) (*Description, error) {
	var file renderpassFile
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, errors.Wrap(err, "decoding render pass description")
	}

	params := &renderpass.CreationParams{}
	for i, a := range file.Attachments {
		att, err := decodeAttachment(a)
		if err != nil {
			return nil, errors.Wrapf(err, "attachment %d", i)
		}
		params.Attachments = append(params.Attachments, att)
	}
	for i, s := range file.Subpasses {
		sp, err := decodeSubpass(s)
		if err != nil {
			return nil, errors.Wrapf(err, "subpass %d", i)
		}
		params.Subpasses = append(params.Subpasses, sp)
	}
	for i, d := range file.Dependencies {
		dep, err := decodeDependency(d)
		if err != nil {
			return nil, errors.Wrapf(err, "dependency %d", i)
		}
		params.Dependencies = append(params.Dependencies, dep)
	}
	if n := len(file.Correlation.Groups); n > renderpass.MaxMultiviewViewCount {
		return nil, errors.Newf("%d correlation groups, at most %d", n, renderpass.MaxMultiviewViewCount)
	}
	for group, views := range file.Correlation.Groups {
		for _, view := range views {
			if !params.ViewCorrelationGroup.Set(view, uint8(group)) {
				return nil, errors.Newf("correlation group %d: view %d out of range", group, view)
			}
		}
	}

	core.LogDebug("decoded render pass description %q: %d attachments, %d subpasses, %d dependencies",
		file.Name, len(params.Attachments), len(params.Subpasses), len(params.Dependencies))
	return &Description{Name: file.Name, Params: params}, nil
}

func unknown(kind, name string) error {
	return errors.Wrapf(core.ErrUnknownEnumName, "%s %q", kind, name)
}

// parseLayout parses a layout name; an empty name is ImageLayoutUndefined.
func parseLayout(name string) (renderpass.ImageLayout, error) {
	if name == "" {
		return renderpass.ImageLayoutUndefined, nil
	}
	l, ok := renderpass.ParseImageLayout(name)
	if !ok {
		return l, unknown("layout", name)
	}
	return l, nil
}

func parseLayoutPair(depth, stencil string) (renderpass.DepthStencilLayout, error) {
	d, err := parseLayout(depth)
	if err != nil {
		return renderpass.DepthStencilLayout{}, err
	}
	s, err := parseLayout(stencil)
	if err != nil {
		return renderpass.DepthStencilLayout{}, err
	}
	return renderpass.DepthStencilLayout{Depth: d, Stencil: s}, nil
}

func parseLoadOp(name string) (renderpass.LoadOp, error) {
	if name == "" {
		return renderpass.LoadOpUndefined, nil
	}
	op, ok := renderpass.ParseLoadOp(name)
	if !ok {
		return op, unknown("load op", name)
	}
	return op, nil
}

func parseStoreOp(name string) (renderpass.StoreOp, error) {
	if name == "" {
		return renderpass.StoreOpUndefined, nil
	}
	op, ok := renderpass.ParseStoreOp(name)
	if !ok {
		return op, unknown("store op", name)
	}
	return op, nil
}

func decodeAttachment(a attachmentEntry) (renderpass.AttachmentDescription, error) {
	var att renderpass.AttachmentDescription
	var ok bool
	var err error

	if att.Format, ok = renderpass.ParseFormat(a.Format); !ok {
		return att, unknown("format", a.Format)
	}
	if a.Samples != 0 {
		if att.Samples, ok = renderpass.SampleCountOf(a.Samples); !ok {
			return att, errors.Wrapf(core.ErrUnknownEnumName, "sample count %d", a.Samples)
		}
	}
	att.MayAlias = a.MayAlias
	if att.LoadOp.Depth, err = parseLoadOp(a.LoadOp); err != nil {
		return att, err
	}
	if att.LoadOp.Stencil, err = parseLoadOp(a.StencilLoadOp); err != nil {
		return att, err
	}
	if att.StoreOp.Depth, err = parseStoreOp(a.StoreOp); err != nil {
		return att, err
	}
	if att.StoreOp.Stencil, err = parseStoreOp(a.StencilStoreOp); err != nil {
		return att, err
	}
	if att.InitialLayout, err = parseLayoutPair(a.InitialLayout, a.InitialStencilLayout); err != nil {
		return att, err
	}
	if att.FinalLayout, err = parseLayoutPair(a.FinalLayout, a.FinalStencilLayout); err != nil {
		return att, err
	}
	return att, nil
}

func decodeSubpass(s subpassEntry) (renderpass.SubpassDescription, error) {
	sp := renderpass.NewSubpassDescription()
	if len(s.Color) > renderpass.MaxColorAttachments {
		return sp, errors.Newf("%d color attachments, at most %d", len(s.Color), renderpass.MaxColorAttachments)
	}
	for i, c := range s.Color {
		if c.Attachment == nil {
			// an unused slot
			continue
		}
		layout, err := parseLayout(c.Layout)
		if err != nil {
			return sp, errors.Wrapf(err, "color %d", i)
		}
		if c.Resolve == nil {
			sp.ColorAttachments[i] = renderpass.ColorAttachment(*c.Attachment, layout)
			continue
		}
		resolveLayout, err := parseLayout(c.ResolveLayout)
		if err != nil {
			return sp, errors.Wrapf(err, "color %d resolve", i)
		}
		sp.ColorAttachments[i] = renderpass.ResolvedColorAttachment(*c.Attachment, layout, *c.Resolve, resolveLayout)
	}

	if ds := s.DepthStencil; ds != nil {
		layout, err := parseLayoutPair(ds.Layout, ds.StencilLayout)
		if err != nil {
			return sp, errors.Wrap(err, "depth_stencil")
		}
		sp.DepthStencilAttachment = renderpass.DepthStencilAttachment(ds.Attachment, layout)
	}

	for i, in := range s.Input {
		layout, err := parseLayoutPair(in.Layout, in.StencilLayout)
		if err != nil {
			return sp, errors.Wrapf(err, "input %d", i)
		}
		aspect, bad, ok := renderpass.ParseAspectFlags(in.Aspect)
		if !ok {
			return sp, errors.Wrapf(unknown("aspect", bad), "input %d", i)
		}
		sp.InputAttachments = append(sp.InputAttachments, renderpass.InputAttachment(in.Attachment, layout, aspect))
	}

	sp.PreserveAttachments = s.Preserve
	sp.ViewMask = s.ViewMask
	flags, bad, ok := renderpass.ParseSubpassDescriptionFlags(s.Flags)
	if !ok {
		return sp, unknown("subpass flag", bad)
	}
	sp.Flags = flags
	return sp, nil
}

// subpassIndex accepts a subpass index or the name "external".
func subpassIndex(v any) (uint32, error) {
	switch s := v.(type) {
	case int64:
		if s < 0 || s >= int64(renderpass.SubpassExternal) {
			return 0, errors.Newf("subpass index %d out of range", s)
		}
		return uint32(s), nil
	case string:
		if s == "external" {
			return renderpass.SubpassExternal, nil
		}
		return 0, unknown("subpass", s)
	case nil:
		return 0, errors.New("missing subpass")
	}
	return 0, errors.Newf("subpass must be an index or \"external\", have %v", v)
}

func decodeDependency(d dependencyEntry) (renderpass.SubpassDependency, error) {
	var dep renderpass.SubpassDependency
	var err error
	var bad string
	var ok bool

	if dep.SrcSubpass, err = subpassIndex(d.Src); err != nil {
		return dep, errors.Wrap(err, "src")
	}
	if dep.DstSubpass, err = subpassIndex(d.Dst); err != nil {
		return dep, errors.Wrap(err, "dst")
	}
	if dep.SrcStageMask, bad, ok = renderpass.ParsePipelineStageFlags(d.SrcStages); !ok {
		return dep, unknown("pipeline stage", bad)
	}
	if dep.DstStageMask, bad, ok = renderpass.ParsePipelineStageFlags(d.DstStages); !ok {
		return dep, unknown("pipeline stage", bad)
	}
	if dep.SrcAccessMask, bad, ok = renderpass.ParseAccessFlags(d.SrcAccess); !ok {
		return dep, unknown("access", bad)
	}
	if dep.DstAccessMask, bad, ok = renderpass.ParseAccessFlags(d.DstAccess); !ok {
		return dep, unknown("access", bad)
	}
	if dep.DependencyFlags, bad, ok = renderpass.ParseDependencyFlags(d.Flags); !ok {
		return dep, unknown("dependency flag", bad)
	}
	return dep, nil
}
