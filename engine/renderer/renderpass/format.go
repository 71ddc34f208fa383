package renderpass

type Format uint32

const (
	FormatUnknown Format = iota
	FormatR8Unorm
	FormatR8G8Unorm
	FormatR8G8B8A8Unorm
	FormatR8G8B8A8Srgb
	FormatB8G8R8A8Unorm
	FormatB8G8R8A8Srgb
	FormatA2B10G10R10UnormPack32
	FormatR16G16B16A16Sfloat
	FormatR32Sint
	FormatR32G32Sfloat
	FormatR32G32B32A32Sfloat
	FormatD16Unorm
	FormatX8D24UnormPack32
	FormatD32Sfloat
	FormatS8Uint
	FormatD16UnormS8Uint
	FormatD24UnormS8Uint
	FormatD32SfloatS8Uint
)

var formatNames = [...]string{
	FormatUnknown:                "unknown",
	FormatR8Unorm:                "r8_unorm",
	FormatR8G8Unorm:              "r8g8_unorm",
	FormatR8G8B8A8Unorm:          "r8g8b8a8_unorm",
	FormatR8G8B8A8Srgb:           "r8g8b8a8_srgb",
	FormatB8G8R8A8Unorm:          "b8g8r8a8_unorm",
	FormatB8G8R8A8Srgb:           "b8g8r8a8_srgb",
	FormatA2B10G10R10UnormPack32: "a2b10g10r10_unorm_pack32",
	FormatR16G16B16A16Sfloat:     "r16g16b16a16_sfloat",
	FormatR32Sint:                "r32_sint",
	FormatR32G32Sfloat:           "r32g32_sfloat",
	FormatR32G32B32A32Sfloat:     "r32g32b32a32_sfloat",
	FormatD16Unorm:               "d16_unorm",
	FormatX8D24UnormPack32:       "x8_d24_unorm_pack32",
	FormatD32Sfloat:              "d32_sfloat",
	FormatS8Uint:                 "s8_uint",
	FormatD16UnormS8Uint:         "d16_unorm_s8_uint",
	FormatD24UnormS8Uint:         "d24_unorm_s8_uint",
	FormatD32SfloatS8Uint:        "d32_sfloat_s8_uint",
}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "unknown_format"
}

func ParseFormat(name string) (Format, bool) {
	for i, n := range formatNames {
		if n == name {
			return Format(i), true
		}
	}
	return FormatUnknown, false
}

func IsDepthOrStencilFormat(f Format) bool {
	return f >= FormatD16Unorm && f <= FormatD32SfloatS8Uint
}

func IsDepthOnlyFormat(f Format) bool {
	switch f {
	case FormatD16Unorm, FormatX8D24UnormPack32, FormatD32Sfloat:
		return true
	}
	return false
}

func IsStencilOnlyFormat(f Format) bool {
	return f == FormatS8Uint
}

// FormatAspects returns the image aspects a view of the whole format covers.
func FormatAspects(f Format) AspectFlags {
	switch {
	case f == FormatUnknown:
		return AspectNone
	case IsDepthOnlyFormat(f):
		return AspectDepth
	case IsStencilOnlyFormat(f):
		return AspectStencil
	case IsDepthOrStencilFormat(f):
		return AspectDepth | AspectStencil
	}
	return AspectColor
}

/** @brief Number of samples per texel, stored as log2 so the zero value is one sample. */
type SampleCount uint8

const (
	SampleCount1 SampleCount = iota
	SampleCount2
	SampleCount4
	SampleCount8
	SampleCount16
	SampleCount32
	SampleCount64
)

// Samples returns the number of samples per texel.
func (s SampleCount) Samples() uint32 {
	return 1 << s
}

// SampleCountOf converts a sample count such as 4 into its SampleCount.
func SampleCountOf(n uint32) (SampleCount, bool) {
	for s := SampleCount1; s <= SampleCount64; s++ {
		if s.Samples() == n {
			return s, true
		}
	}
	return SampleCount1, false
}
