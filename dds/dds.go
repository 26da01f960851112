package dds

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/mogaika/prism_converter/utils"
)

const (
	MAGIC       = 0x20534444 // "DDS "
	HEADER_SIZE = 124

	PF_ALPHA_PIXELS = 0x1
	PF_ALPHA        = 0x2
	PF_FOURCC       = 0x4
	PF_RGB          = 0x40
	PF_LUMINANCE    = 0x20000
)

type PixelFormat struct {
	Flags       uint32
	FourCC      uint32
	RGBBitCount uint32
	RBitMask    uint32
	GBitMask    uint32
	BBitMask    uint32
	ABitMask    uint32
}

type KnownFormat struct {
	Name        string
	RGBBitCount uint32
	RBitMask    uint32
	GBitMask    uint32
	BBitMask    uint32
	ABitMask    uint32
}

var KnownFormats = []KnownFormat{
	{"A8R8G8B8", 32, 0x00ff0000, 0x0000ff00, 0x000000ff, 0xff000000},
	{"X8R8G8B8", 32, 0x00ff0000, 0x0000ff00, 0x000000ff, 0x00000000},
	{"A8B8G8R8", 32, 0x000000ff, 0x0000ff00, 0x00ff0000, 0xff000000},
	{"X8B8G8R8", 32, 0x000000ff, 0x0000ff00, 0x00ff0000, 0x00000000},
	{"R8G8B8", 24, 0x00ff0000, 0x0000ff00, 0x000000ff, 0x00000000},
	{"B8G8R8", 24, 0x000000ff, 0x0000ff00, 0x00ff0000, 0x00000000},
	{"R5G6B5", 16, 0xf800, 0x07e0, 0x001f, 0x0000},
	{"A1R5G5B5", 16, 0x7c00, 0x03e0, 0x001f, 0x8000},
	{"X1R5G5B5", 16, 0x7c00, 0x03e0, 0x001f, 0x0000},
	{"A4R4G4B4", 16, 0x0f00, 0x00f0, 0x000f, 0xf000},
	{"A8L8", 16, 0x00ff, 0x0000, 0x0000, 0xff00},
	{"L8", 8, 0xff, 0x00, 0x00, 0x00},
	{"A8", 8, 0x00, 0x00, 0x00, 0xff},
}

// Recognize matches uncompressed pixel format masks, nil if format is not known
func (pf *PixelFormat) Recognize() *KnownFormat {
	for i := range KnownFormats {
		kf := &KnownFormats[i]
		if kf.RGBBitCount == pf.RGBBitCount &&
			kf.RBitMask == pf.RBitMask && kf.GBitMask == pf.GBitMask &&
			kf.BBitMask == pf.BBitMask && kf.ABitMask == pf.ABitMask {
			return kf
		}
	}
	return nil
}

func (pf *PixelFormat) Compressed() bool {
	return pf.Flags&PF_FOURCC != 0
}

func FourCCString(v uint32) string {
	return string([]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
}

type Info struct {
	Height      uint32
	Width       uint32
	MipMapCount uint32
	PixelFormat PixelFormat
}

func Inspect(data []byte) (*Info, error) {
	bs := utils.NewBufStack("dds", data)
	if magic := bs.ReadLU32(); bs.Err() == nil && magic != MAGIC {
		return nil, errors.Errorf("Invalid dds magic: %d expected: %d", magic, MAGIC)
	}

	hbs := bs.SubBuf("header", 4).SetSize(HEADER_SIZE)
	info := &Info{}
	hbs.Skip(8)
	info.Height = hbs.ReadLU32()
	info.Width = hbs.ReadLU32()
	hbs.Skip(8)
	info.MipMapCount = hbs.ReadLU32()

	pf := hbs.SubBuf("pixel_format", 72)
	pf.Skip(4)
	info.PixelFormat = PixelFormat{
		Flags:       pf.ReadLU32(),
		FourCC:      pf.ReadLU32(),
		RGBBitCount: pf.ReadLU32(),
		RBitMask:    pf.ReadLU32(),
		GBitMask:    pf.ReadLU32(),
		BBitMask:    pf.ReadLU32(),
		ABitMask:    pf.ReadLU32(),
	}

	for _, b := range []*utils.BufStack{bs, hbs, pf} {
		if err := b.Err(); err != nil {
			return nil, err
		}
	}
	return info, nil
}

func InspectFile(path string) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "Cannot open dds file")
	}
	info, err := Inspect(data)
	if err != nil {
		return nil, errors.Wrapf(err, "Dds %q", path)
	}
	return info, nil
}

func (info *Info) String() string {
	var sb strings.Builder
	pf := &info.PixelFormat
	fmt.Fprintf(&sb, "size: %dx%d\n", info.Width, info.Height)
	if pf.Compressed() {
		fmt.Fprintf(&sb, "compression: %s\n", FourCCString(pf.FourCC))
	} else {
		if kf := pf.Recognize(); kf != nil {
			fmt.Fprintf(&sb, "pixel format = %s\n", kf.Name)
		} else {
			sb.WriteString("pixel format not known\n")
		}
		fmt.Fprintf(&sb, "bits: %d masks(rgba): %X/%X/%X/%X flags: %X\n",
			pf.RGBBitCount, pf.RBitMask, pf.GBitMask, pf.BBitMask, pf.ABitMask, pf.Flags)
	}
	fmt.Fprintf(&sb, "mipmaps count: %d\n", info.MipMapCount)
	return sb.String()
}
