package renderpass

import "testing"

func TestSubpassesEnd(t *testing.T) {
	sp := NewSubpassDescription()
	if !sp.Equal(SubpassesEnd) {
		t.Fatalf("NewSubpassDescription() does not equal SubpassesEnd")
	}
	sp.InputAttachments = []InputAttachmentReference{InputAttachmentsEnd, InputAttachment(0, Layout(ImageLayoutGeneral), AspectColor)}
	sp.PreserveAttachments = []uint32{AttachmentUnused, 2}
	if !sp.Equal(SubpassesEnd) {
		t.Errorf("entries past a terminator take part in equality")
	}
	sp.ViewMask = 0x3
	if sp.Equal(SubpassesEnd) {
		t.Errorf("ViewMask does not take part in equality")
	}
}

func TestSubpassCounts(t *testing.T) {
	cases := [...]struct {
		sp                     SubpassDescription
		colors, refs, preserve uint32
	}{
		{NewSubpassDescription(), 0, 0, 0},
		{tSubpass([]ColorAttachmentRef{ColorAttachment(0, ImageLayoutColorAttachmentOptimal)}, nil, nil, nil), 1, 1, 0},
		// unused slots before the last used one still count
		{tSubpass([]ColorAttachmentRef{
			ColorAttachment(0, ImageLayoutColorAttachmentOptimal),
			UnusedRenderAttachment[ImageLayout](),
			ColorAttachment(1, ImageLayoutColorAttachmentOptimal),
		}, nil, nil, []uint32{2, 4}), 3, 3, 2},
		// C + I + C + 1
		{tSubpass(
			[]ColorAttachmentRef{
				ResolvedColorAttachment(2, ImageLayoutColorAttachmentOptimal, 1, ImageLayoutColorAttachmentOptimal),
				ColorAttachment(0, ImageLayoutColorAttachmentOptimal),
				ColorAttachment(5, ImageLayoutColorAttachmentOptimal),
			},
			tDS(3),
			[]InputAttachmentReference{
				InputAttachment(4, Layout(ImageLayoutShaderReadOnlyOptimal), AspectColor),
				InputAttachment(6, Layout(ImageLayoutShaderReadOnlyOptimal), AspectColor),
				InputAttachmentsEnd,
				InputAttachment(7, Layout(ImageLayoutShaderReadOnlyOptimal), AspectColor),
			},
			[]uint32{1, AttachmentUnused, 3},
		), 3, 3 + 2 + 3 + 1, 1},
		{tSubpass(nil, tDS(3), nil, nil), 0, 1, 0},
	}
	for i, c := range cases {
		if have := c.sp.ColorAttachmentCount(); have != c.colors {
			t.Errorf("cases[%d].ColorAttachmentCount()\nhave %d\nwant %d", i, have, c.colors)
		}
		if have := c.sp.AttachmentReferenceCount(); have != c.refs {
			t.Errorf("cases[%d].AttachmentReferenceCount()\nhave %d\nwant %d", i, have, c.refs)
		}
		if have := c.sp.PreserveAttachmentCount(); have != c.preserve {
			t.Errorf("cases[%d].PreserveAttachmentCount()\nhave %d\nwant %d", i, have, c.preserve)
		}
	}
}

func TestSubpassValid(t *testing.T) {
	good := tDeferred().Subpasses
	for i, sp := range good {
		if !sp.Valid() {
			t.Errorf("tDeferred().Subpasses[%d].Valid()\nhave false\nwant true", i)
		}
	}

	badColor := tSubpass([]ColorAttachmentRef{ColorAttachment(0, ImageLayoutShaderReadOnlyOptimal)}, nil, nil, nil)
	badDS := tSubpass(nil, &DepthStencilAttachmentRef{
		Render:  AttachmentReference[DepthStencilLayout]{Attachment: 3, Layout: Layout(ImageLayoutColorAttachmentOptimal)},
		Resolve: AttachmentReference[DepthStencilLayout]{Attachment: AttachmentUnused},
	}, nil, nil)
	badInput := tSubpass(nil, nil, []InputAttachmentReference{
		InputAttachment(0, Layout(ImageLayoutShaderReadOnlyOptimal), AspectColor),
		InputAttachment(1, Layout(ImageLayoutColorAttachmentOptimal), AspectColor),
	}, nil)
	// an invalid reference after the terminator is never looked at
	hiddenInput := tSubpass(nil, nil, []InputAttachmentReference{
		InputAttachment(0, Layout(ImageLayoutShaderReadOnlyOptimal), AspectColor),
		InputAttachmentsEnd,
		InputAttachment(1, Layout(ImageLayoutColorAttachmentOptimal), AspectColor),
	}, nil)
	cases := [...]struct {
		name string
		sp   SubpassDescription
		want bool
	}{
		{"badColor", badColor, false},
		{"badDS", badDS, false},
		{"badInput", badInput, false},
		{"hiddenInput", hiddenInput, true},
	}
	for _, c := range cases {
		if have := c.sp.Valid(); have != c.want {
			t.Errorf("%s.Valid()\nhave %t\nwant %t", c.name, have, c.want)
		}
	}
}

func TestSubpassCompare(t *testing.T) {
	a := tDeferred().Subpasses[1]
	b := tDeferred().Subpasses[1]
	if !a.Equal(b) {
		t.Fatalf("copies of the same subpass are not equal")
	}
	b.PreserveAttachments = []uint32{3}
	if a.Compare(b) >= 0 || b.Compare(a) <= 0 {
		t.Errorf("preserve lists do not take part in ordering")
	}
	b = tDeferred().Subpasses[1]
	b.InputAttachments = b.InputAttachments[:1]
	if a.Compare(b) <= 0 {
		t.Errorf("a longer input list should order after its prefix")
	}
	b = tDeferred().Subpasses[1]
	b.Flags = SubpassDescriptionPerViewAttributes
	if a.Equal(b) {
		t.Errorf("Flags do not take part in equality")
	}
}
