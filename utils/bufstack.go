package utils

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/pkg/errors"
)

var ErrOutOfBounds = errors.New("read out of buffer bounds")

// BufStack is a view into a shared byte buffer that remembers where it came
// from. Reads past the end do not panic: the first failure is kept in Err()
// and all following reads return zero values.
type BufStack struct {
	parent         *BufStack
	childs         []*BufStack
	buf            []byte
	relativeOffset int
	absoluteOffset int
	size           int
	pos            int
	kind           string
	name           string
	err            error
}

func NewBufStack(kind string, b []byte) *BufStack {
	return &BufStack{
		buf:  b,
		size: len(b),
		kind: kind,
	}
}

func (bs *BufStack) addChild(childBs *BufStack) {
	index := sort.Search(len(bs.childs), func(i int) bool {
		return bs.childs[i].relativeOffset > childBs.relativeOffset
	})
	bs.childs = append(bs.childs, nil)
	copy(bs.childs[index+1:], bs.childs[index:])
	bs.childs[index] = childBs
}

// SubBuf creates child view starting at offset and limited by parent size.
// Child inherits parent error and gets its own one when offset lies outside parent.
func (bs *BufStack) SubBuf(kind string, offset int) *BufStack {
	childBs := &BufStack{
		parent:         bs,
		relativeOffset: offset,
		absoluteOffset: bs.absoluteOffset + offset,
		kind:           kind,
		err:            bs.err,
	}
	if childBs.err == nil {
		if offset < 0 || offset > bs.size {
			childBs.err = errors.Wrapf(ErrOutOfBounds, "sub buffer %q at 0x%x outside of %s", kind, offset, bs.StringChain())
		} else {
			childBs.buf = bs.buf[offset:bs.size]
			childBs.size = len(childBs.buf)
		}
	}
	bs.addChild(childBs)
	return childBs
}

func (bs *BufStack) SetName(name string) *BufStack {
	bs.name = name
	return bs
}

// SetSize limits view to size bytes
func (bs *BufStack) SetSize(size int) *BufStack {
	if bs.err == nil && (size < 0 || size > len(bs.buf)) {
		bs.err = errors.Wrapf(ErrOutOfBounds, "size 0x%x does not fit %s", size, bs.StringChain())
		return bs
	}
	bs.size = size
	return bs
}

// Require limits view to size bytes, size may come straight from untrusted header
func (bs *BufStack) Require(size uint64) *BufStack {
	if bs.err == nil && size > uint64(len(bs.buf)) {
		bs.err = errors.Wrapf(ErrOutOfBounds, "required 0x%x bytes, only 0x%x available in %s", size, len(bs.buf), bs.StringChain())
		return bs
	}
	return bs.SetSize(int(size))
}

func (bs *BufStack) Err() error { return bs.err }
func (bs *BufStack) Size() int  { return bs.size }

func (bs *BufStack) String() string {
	return fmt.Sprintf("buf<%v>(%v)[o:0x%x,s:0x%x,ao:0x%x,ae:0x%x]",
		bs.kind, bs.name, bs.relativeOffset, bs.size, bs.absoluteOffset, bs.absoluteOffset+bs.size)
}

func (bs *BufStack) StringChain() string {
	s := bs.String()
	if bs.parent != nil {
		s += fmt.Sprintf("::%s", bs.parent.String())
	}
	return s
}

func (bs *BufStack) stringTree(pad int) string {
	sPad := ""
	for i := 0; i < pad; i++ {
		sPad += ".  "
	}
	s := sPad + bs.String() + "\n"
	pos := 0
	for i, child := range bs.childs {
		if pos >= 0 && child.relativeOffset > pos {
			s += fmt.Sprintf("%s.  gap [o:0x%x,s:0x%x]\n", sPad, pos, child.relativeOffset-pos)
		}
		s += child.stringTree(pad + 1)
		if child.size != 0 {
			pos = child.relativeOffset + child.size
		} else {
			pos = -1
		}
		if child.size > 0 && i != len(bs.childs)-1 {
			if child.relativeOffset+child.size > bs.childs[i+1].relativeOffset {
				s += fmt.Sprintf("%s. [OVERLAP]\n", sPad)
			}
		}
	}
	return s
}

// StringTree renders layout of all sub buffers, useful to spot overlapping tables
func (bs *BufStack) StringTree() string {
	return bs.stringTree(0)
}

// Read returns next amount bytes or nil when they are not available
func (bs *BufStack) Read(amount int) []byte {
	if bs.err != nil {
		return nil
	}
	if amount < 0 || bs.pos+amount > bs.size {
		bs.err = errors.Wrapf(ErrOutOfBounds, "read 0x%x bytes at 0x%x from %s", amount, bs.pos, bs.StringChain())
		return nil
	}
	oldPos := bs.pos
	bs.pos += amount
	return bs.buf[oldPos:bs.pos]
}

// Seek moves read position inside view
func (bs *BufStack) Seek(pos int) *BufStack {
	if bs.err != nil {
		return bs
	}
	if pos < 0 || pos > bs.size {
		bs.err = errors.Wrapf(ErrOutOfBounds, "seek to 0x%x in %s", pos, bs.StringChain())
		return bs
	}
	bs.pos = pos
	return bs
}

func (bs *BufStack) Skip(amount int) {
	bs.Read(amount)
}

func (bs *BufStack) ReadLU64() uint64 {
	if b := bs.Read(8); b != nil {
		return binary.LittleEndian.Uint64(b)
	}
	return 0
}

func (bs *BufStack) ReadLU32() uint32 {
	if b := bs.Read(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (bs *BufStack) ReadLI32() int32 {
	return int32(bs.ReadLU32())
}

func (bs *BufStack) ReadByte() byte {
	if b := bs.Read(1); b != nil {
		return b[0]
	}
	return 0
}

func (bs *BufStack) ReadLF() float32 {
	return math.Float32frombits(bs.ReadLU32())
}

func (bs *BufStack) ReadStringBuffer(size int) string {
	if b := bs.Read(size); b != nil {
		return BytesToString(b)
	}
	return ""
}
