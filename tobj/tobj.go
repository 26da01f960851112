package tobj

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/mogaika/prism_converter/utils"
)

const (
	TOBJ_MAGIC        = 1890650625
	HEADER_SIZE       = 40
	TEXTURE_DESC_SIZE = 8
)

type Type uint8

const (
	TYPE_GENERIC Type = 2
	TYPE_CUBIC   Type = 5
)

func (t Type) String() string {
	switch t {
	case TYPE_GENERIC:
		return "generic"
	case TYPE_CUBIC:
		return "cubic"
	}
	return fmt.Sprintf("unknown(%d)", uint8(t))
}

// TextureCount returns amount of texture paths stored after header
func (t Type) TextureCount() (int, error) {
	switch t {
	case TYPE_GENERIC:
		return 1, nil
	case TYPE_CUBIC:
		return 6, nil
	}
	return 0, errors.Errorf("Unknown tobj type %d", uint8(t))
}

// filter: nearest = 0, linear = 1, default = 3
// mip filter: trilinear = 1, nomips = 2, default = 3
// address: repeat = 0, clamp = 1, clamp_to_edge = 2, clamp_to_border = 3,
// mirror = 4, mirror_clamp = 5, mirror_clamp_to_edge = 6
type Header struct {
	Magic         uint32
	Bias          uint8
	Type          Type
	MagFilter     uint8
	MinFilter     uint8
	MipFilter     uint8
	AddrU         uint8
	AddrV         uint8
	AddrW         uint8
	UI            bool
	NoAnisotropic bool
	TsNormal      bool
}

type TextureObject struct {
	Header
	Textures []string // as stored in file, may be relative to tobj directory

	filePath string
}

func readHeader(bs *utils.BufStack) Header {
	var h Header
	h.Magic = bs.ReadLU32()
	bs.Skip(16 + 2)
	h.Bias = bs.ReadByte()
	bs.Skip(1)
	h.Type = Type(bs.ReadByte())
	bs.Skip(1)
	h.MagFilter = bs.ReadByte()
	h.MinFilter = bs.ReadByte()
	h.MipFilter = bs.ReadByte()
	bs.Skip(1)
	h.AddrU = bs.ReadByte()
	h.AddrV = bs.ReadByte()
	h.AddrW = bs.ReadByte()
	h.UI = bs.ReadByte() != 0
	bs.Skip(1)
	h.NoAnisotropic = bs.ReadByte() != 0
	bs.Skip(2)
	h.TsNormal = bs.ReadByte() != 0
	bs.Skip(1)
	return h
}

func Decode(data []byte) (*TextureObject, error) {
	root := utils.NewBufStack("tobj", data)
	hbs := root.SubBuf("header", 0).SetSize(HEADER_SIZE)
	h := readHeader(hbs)
	if err := hbs.Err(); err != nil {
		return nil, err
	}
	if h.Magic != TOBJ_MAGIC {
		return nil, errors.Errorf("Invalid tobj magic: %d expected: %d", h.Magic, TOBJ_MAGIC)
	}

	count, err := h.Type.TextureCount()
	if err != nil {
		return nil, err
	}

	t := &TextureObject{Header: h, Textures: make([]string, 0, count)}
	offset := HEADER_SIZE
	for i := 0; i < count; i++ {
		tbs := root.SubBuf("texture", offset)
		length := tbs.ReadLU32()
		tbs.Skip(4)
		path := tbs.ReadStringBuffer(int(length))
		if err := tbs.Err(); err != nil {
			return nil, errors.Wrapf(err, "Texture %d", i)
		}
		t.Textures = append(t.Textures, path)
		offset += TEXTURE_DESC_SIZE + int(length)
	}
	return t, nil
}

// Load reads tobj by logical path (with extension) relative to basePath
func Load(basePath, key string) (*TextureObject, error) {
	path := filepath.Join(basePath, filepath.FromSlash(key))
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "Cannot open tobj")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot read tobj %q", path)
	}

	t, err := Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot decode tobj %q", path)
	}
	t.filePath = key
	return t, nil
}

func (t *TextureObject) FilePath() string {
	return t.filePath
}

// TexturePaths returns logical texture paths, relative ones are resolved against tobj directory
func (t *TextureObject) TexturePaths() []string {
	result := make([]string, len(t.Textures))
	for i, tex := range t.Textures {
		if utils.IsAbsolutePath(tex) {
			result[i] = tex
		} else {
			result[i] = utils.Directory(t.filePath) + "/" + tex
		}
	}
	return result
}
