package utils

import (
	"math"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestBufStackReads(t *testing.T) {
	raw := []byte{
		0x03, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x80, 0x3f,
		0xaa,
	}
	bs := NewBufStack("test", raw)
	if v := bs.ReadLU32(); v != 3 {
		t.Errorf("ReadLU32() = %d, want 3", v)
	}
	if v := bs.ReadLF(); v != 1 {
		t.Errorf("ReadLF() = %v, want 1", v)
	}
	if v := bs.ReadByte(); v != 0xaa {
		t.Errorf("ReadByte() = 0x%x, want 0xaa", v)
	}
	if bs.Err() != nil {
		t.Fatalf("unexpected error %v", bs.Err())
	}
	if v := bs.ReadByte(); v != 0 {
		t.Errorf("ReadByte() past end = %d, want 0", v)
	}
	if !errors.Is(bs.Err(), ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", bs.Err())
	}
	// error is sticky
	bs.pos = 0
	if v := bs.ReadLU32(); v != 0 {
		t.Errorf("read after failure returned %d", v)
	}
}

func TestBufStackSubBuf(t *testing.T) {
	raw := make([]byte, 16)
	raw[12] = 0x7f
	root := NewBufStack("root", raw)

	sub := root.SubBuf("table", 12).SetName("tail")
	if b := sub.ReadByte(); b != 0x7f {
		t.Errorf("sub.ReadByte() = 0x%x", b)
	}
	if sub.Size() != 4 {
		t.Errorf("sub.Size() = %d, want 4", sub.Size())
	}

	for _, offset := range []int{-1, 17, math.MaxInt32} {
		bad := root.SubBuf("bad", offset)
		if !errors.Is(bad.Err(), ErrOutOfBounds) {
			t.Errorf("SubBuf(%d) error = %v, want ErrOutOfBounds", offset, bad.Err())
		}
		if v := bad.ReadLU32(); v != 0 {
			t.Errorf("SubBuf(%d).ReadLU32() = %d", offset, v)
		}
	}

	if root.Err() != nil {
		t.Errorf("child failure leaked into parent: %v", root.Err())
	}
	if tree := root.StringTree(); !strings.Contains(tree, "(tail)") {
		t.Errorf("StringTree does not mention named child:\n%s", tree)
	}
}

func TestBufStackSetSize(t *testing.T) {
	bs := NewBufStack("x", make([]byte, 8)).SetSize(4)
	bs.Skip(4)
	if bs.Err() != nil {
		t.Fatal(bs.Err())
	}
	bs.Skip(1)
	if !errors.Is(bs.Err(), ErrOutOfBounds) {
		t.Errorf("expected out of bounds after limited size, got %v", bs.Err())
	}
	if sub := NewBufStack("z", make([]byte, 8)).SetSize(4).SubBuf("sub", 2); sub.Err() != nil || sub.Size() != 2 {
		t.Errorf("SubBuf of limited buffer: size %d, err %v", sub.Size(), sub.Err())
	}
	if err := NewBufStack("z", make([]byte, 8)).SetSize(4).SubBuf("sub", 6).Err(); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("SubBuf past limited size error = %v", err)
	}
	if err := NewBufStack("y", make([]byte, 2)).SetSize(3).Err(); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("SetSize beyond buffer error = %v", err)
	}
}

func TestBufStackSeek(t *testing.T) {
	bs := NewBufStack("seek", []byte{1, 2, 3, 4})
	if b := bs.Seek(3).ReadByte(); b != 4 {
		t.Errorf("ReadByte after Seek(3) = %d", b)
	}
	if b := bs.Seek(0).ReadByte(); b != 1 {
		t.Errorf("ReadByte after Seek(0) = %d", b)
	}
	if bs.Seek(5).Err() == nil {
		t.Errorf("Seek past end must fail")
	}
}

func TestBufStackRequire(t *testing.T) {
	bs := NewBufStack("r", make([]byte, 8))
	if bs.Require(8).Err() != nil || bs.Size() != 8 {
		t.Errorf("Require(8) on 8 bytes failed: %v", bs.Err())
	}
	if err := NewBufStack("r", make([]byte, 8)).Require(1 << 40).Err(); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Require(1<<40) error = %v", err)
	}
}
