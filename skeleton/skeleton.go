package skeleton

import (
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/prism_converter/pix"
	"github.com/mogaika/prism_converter/utils"
)

const NoParent = -1

type Bone struct {
	Name   string
	Parent int // index in Model.Bones or NoParent
	Matrix mgl32.Mat4
}

// Model is skeleton of model, file paths are logical and without extension
type Model struct {
	Bones []Bone

	basePath string
	filePath string
	loaded   bool
}

func New(basePath, filePath string, bones []Bone) *Model {
	return &Model{
		Bones:    bones,
		basePath: basePath,
		filePath: filePath,
		loaded:   true,
	}
}

func (m *Model) Loaded() bool          { return m != nil && m.loaded }
func (m *Model) BasePath() string      { return m.basePath }
func (m *Model) FilePath() string      { return m.filePath }
func (m *Model) FileDirectory() string { return utils.Directory(m.filePath) }
func (m *Model) BoneCount() int        { return len(m.Bones) }
func (m *Model) BoneName(i int) string { return m.Bones[i].Name }
func (m *Model) BoneParent(i int) int  { return m.Bones[i].Parent }

// Load reads <basePath>/<filePath>.pis
func Load(basePath, filePath string) (*Model, error) {
	path := filepath.Join(basePath, filepath.FromSlash(filePath)) + ".pis"
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "Cannot read skeleton")
	}

	bones, err := Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "Skeleton %q", path)
	}
	return New(basePath, filePath, bones), nil
}

// Decode parses pis text document
func Decode(data []byte) ([]Bone, error) {
	doc, err := pix.Parse(data)
	if err != nil {
		return nil, err
	}

	if header := doc.Block("Header"); header != nil && header.Attr("Type") != nil {
		if typ, err := header.StringAttr("Type"); err != nil {
			return nil, err
		} else if typ != "Skeleton" {
			return nil, errors.Errorf("Document type is %q, expected \"Skeleton\"", typ)
		}
	}

	bonesBlock := doc.Block("Bones")
	if bonesBlock == nil {
		return nil, errors.New("Missing Bones block")
	}

	bones := make([]Bone, len(bonesBlock.Blocks))
	parentNames := make([]string, len(bonesBlock.Blocks))
	indexes := make(map[string]int, len(bonesBlock.Blocks))
	for i, b := range bonesBlock.Blocks {
		name, err := b.StringAttr("Name")
		if err != nil {
			return nil, err
		}
		if _, dup := indexes[name]; dup {
			return nil, errors.Errorf("Bone %q declared twice (line %d)", name, b.Line)
		}
		indexes[name] = i

		bones[i] = Bone{Name: name, Parent: NoParent, Matrix: mgl32.Ident4()}
		if b.Attr("Parent") != nil {
			if parentNames[i], err = b.StringAttr("Parent"); err != nil {
				return nil, err
			}
		}
		if attr := b.Attr("Matrix"); attr != nil {
			values, err := attr.Floats()
			if err != nil {
				return nil, errors.Wrapf(err, "Bone %q matrix", name)
			}
			if len(values) != 16 {
				return nil, errors.Errorf("Bone %q matrix has %d values, expected 16", name, len(values))
			}
			copy(bones[i].Matrix[:], values)
		}
	}

	for i, parentName := range parentNames {
		if parentName == "" {
			continue
		}
		parent, ok := indexes[parentName]
		if !ok {
			return nil, errors.Errorf("Bone %q parent %q not found", bones[i].Name, parentName)
		}
		bones[i].Parent = parent
	}

	if global := doc.Block("Global"); global != nil && global.Attr("BoneCount") != nil {
		count, err := global.IntAttr("BoneCount")
		if err != nil {
			return nil, err
		}
		if count != len(bones) {
			return nil, errors.Errorf("BoneCount is %d, but %d bones declared", count, len(bones))
		}
	}

	return bones, nil
}
