package renderpass

import "testing"

func TestActualStencilLayout(t *testing.T) {
	cases := [...]struct {
		l    DepthStencilLayout
		want ImageLayout
	}{
		{Layout(ImageLayoutDepthAttachmentOptimal), ImageLayoutStencilAttachmentOptimal},
		{Layout(ImageLayoutDepthReadOnlyOptimal), ImageLayoutStencilReadOnlyOptimal},
		{Layout(ImageLayoutGeneral), ImageLayoutGeneral},
		{Layout(ImageLayoutDepthStencilAttachmentOptimal), ImageLayoutDepthStencilAttachmentOptimal},
		{Layout(ImageLayoutShaderReadOnlyOptimal), ImageLayoutShaderReadOnlyOptimal},
		{Layout(ImageLayoutUndefined), ImageLayoutUndefined},
		{DepthStencilLayout{ImageLayoutDepthAttachmentOptimal, ImageLayoutStencilReadOnlyOptimal}, ImageLayoutStencilReadOnlyOptimal},
		{DepthStencilLayout{ImageLayoutGeneral, ImageLayoutTransferDstOptimal}, ImageLayoutTransferDstOptimal},
	}
	for _, c := range cases {
		if have := c.l.ActualStencilLayout(); have != c.want {
			t.Errorf("%v.ActualStencilLayout()\nhave %v\nwant %v", c.l, have, c.want)
		}
	}
}

func TestDepthView(t *testing.T) {
	l := DepthStencilLayout{ImageLayoutDepthReadOnlyOptimal, ImageLayoutStencilAttachmentOptimal}
	if have := DepthView(l); have != ImageLayoutDepthReadOnlyOptimal {
		t.Errorf("DepthView(%v)\nhave %v\nwant %v", l, have, ImageLayoutDepthReadOnlyOptimal)
	}
}

func TestDepthStencilLayoutCompare(t *testing.T) {
	a := Layout(ImageLayoutGeneral)
	b := DepthStencilLayout{ImageLayoutGeneral, ImageLayoutGeneral}
	c := Layout(ImageLayoutColorAttachmentOptimal)
	if a.Compare(a) != 0 {
		t.Errorf("a.Compare(a) != 0")
	}
	if a.Compare(b) >= 0 || b.Compare(a) <= 0 {
		t.Errorf("unset stencil should order before an explicit one")
	}
	if a.Compare(c) >= 0 {
		t.Errorf("%v.Compare(%v)\nhave >= 0\nwant < 0", a, c)
	}
}

func TestParseImageLayout(t *testing.T) {
	for _, l := range [...]ImageLayout{ImageLayoutUndefined, ImageLayoutDepthReadOnlyOptimal, ImageLayoutSharedPresent} {
		have, ok := ParseImageLayout(l.String())
		if !ok || have != l {
			t.Errorf("ParseImageLayout(%q)\nhave %v, %t\nwant %v, true", l.String(), have, ok, l)
		}
	}
	if _, ok := ParseImageLayout("optimal_enough"); ok {
		t.Errorf("ParseImageLayout(\"optimal_enough\")\nhave true\nwant false")
	}
}
