package pix

import (
	"math"
	"strconv"

	"github.com/pkg/errors"
)

type Kind int

const (
	KIND_STRING Kind = iota
	KIND_NUMBER
	KIND_HEXFLOAT
	KIND_IDENT
	KIND_TUPLE
)

type Value struct {
	Kind   Kind
	Text   string // unquoted string, identifier or raw lexeme
	Number float64
	Bits   uint32
	Tuple  []Value
}

// Float32 returns exact bit pattern for hex floats
func (v Value) Float32() (float32, error) {
	switch v.Kind {
	case KIND_HEXFLOAT:
		return math.Float32frombits(v.Bits), nil
	case KIND_NUMBER:
		return float32(v.Number), nil
	}
	return 0, errors.Errorf("Value %q is not a float", v.Text)
}

func (v Value) Int() (int, error) {
	if v.Kind != KIND_NUMBER {
		return 0, errors.Errorf("Value %q is not a number", v.Text)
	}
	i, err := strconv.Atoi(v.Text)
	if err != nil {
		return 0, errors.Wrapf(err, "Value %q is not an integer", v.Text)
	}
	return i, nil
}

// Floats flattens value and nested tuples into list of floats
func (v Value) Floats() ([]float32, error) {
	if v.Kind != KIND_TUPLE {
		f, err := v.Float32()
		if err != nil {
			return nil, err
		}
		return []float32{f}, nil
	}
	return floatsOf(v.Tuple)
}

func floatsOf(values []Value) ([]float32, error) {
	result := make([]float32, 0, len(values))
	for _, sub := range values {
		fs, err := sub.Floats()
		if err != nil {
			return nil, err
		}
		result = append(result, fs...)
	}
	return result, nil
}

type Attribute struct {
	Key    string
	Values []Value
	Line   int
}

func (a *Attribute) Floats() ([]float32, error) {
	return floatsOf(a.Values)
}

type Keyframe struct {
	Index  int
	Values []Value
	Line   int
}

func (k *Keyframe) Floats() ([]float32, error) {
	return floatsOf(k.Values)
}

type Block struct {
	Name       string
	Attributes []*Attribute
	Blocks     []*Block
	Keyframes  []*Keyframe
	Line       int
}

func (b *Block) Attr(key string) *Attribute {
	for _, a := range b.Attributes {
		if a.Key == key {
			return a
		}
	}
	return nil
}

func (b *Block) StringAttr(key string) (string, error) {
	a := b.Attr(key)
	if a == nil || len(a.Values) != 1 {
		return "", errors.Errorf("Block %q line %d: expected single value for %q", b.Name, b.Line, key)
	}
	v := a.Values[0]
	if v.Kind != KIND_STRING && v.Kind != KIND_IDENT {
		return "", errors.Errorf("Block %q line %d: %q is not a string", b.Name, a.Line, key)
	}
	return v.Text, nil
}

func (b *Block) IntAttr(key string) (int, error) {
	a := b.Attr(key)
	if a == nil || len(a.Values) != 1 {
		return 0, errors.Errorf("Block %q line %d: expected single value for %q", b.Name, b.Line, key)
	}
	return a.Values[0].Int()
}

func (b *Block) Block(name string) *Block {
	return findBlock(b.Blocks, name)
}

func (b *Block) BlocksNamed(name string) []*Block {
	return filterBlocks(b.Blocks, name)
}

type Document struct {
	Blocks []*Block
}

func (d *Document) Block(name string) *Block {
	return findBlock(d.Blocks, name)
}

func (d *Document) BlocksNamed(name string) []*Block {
	return filterBlocks(d.Blocks, name)
}

func findBlock(blocks []*Block, name string) *Block {
	for _, b := range blocks {
		if b.Name == name {
			return b
		}
	}
	return nil
}

func filterBlocks(blocks []*Block, name string) []*Block {
	result := make([]*Block, 0)
	for _, b := range blocks {
		if b.Name == name {
			result = append(result, b)
		}
	}
	return result
}
