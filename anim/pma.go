package anim

import (
	"io"
	"math"
	"math/bits"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/mogaika/prism_converter/prism"
	"github.com/mogaika/prism_converter/utils"
)

const (
	PMA_SUPPORTED_VERSION = 3
	PMA_FLAG_DELTA_TRANS  = 2

	HEADER_SIZE = 0x2c
	FRAME_SIZE  = 0x34 // stretch(12) + rot(16) + trans(12) + scale(12)
	FLOAT3_SIZE = 0xc
)

type Header struct {
	Version          uint32
	Name             prism.Token
	AnimLength       float32
	Bones            uint32
	Frames           uint32
	Flags            uint32
	BonesOffset      int32
	FramesOffset     int32
	LengthsOffset    int32
	DeltaTransOffset int32
}

func readHeader(bs *utils.BufStack) Header {
	return Header{
		Version:          bs.ReadLU32(),
		Name:             prism.Token(bs.ReadLU64()),
		AnimLength:       bs.ReadLF(),
		Bones:            bs.ReadLU32(),
		Frames:           bs.ReadLU32(),
		Flags:            bs.ReadLU32(),
		BonesOffset:      bs.ReadLI32(),
		FramesOffset:     bs.ReadLI32(),
		LengthsOffset:    bs.ReadLI32(),
		DeltaTransOffset: bs.ReadLI32(),
	}
}

func readFloat3(bs *utils.BufStack) prism.Float3 {
	return prism.Float3{bs.ReadLF(), bs.ReadLF(), bs.ReadLF()}
}

func readQuaternion(bs *utils.BufStack) prism.Quaternion {
	return prism.Quaternion{W: bs.ReadLF(), X: bs.ReadLF(), Y: bs.ReadLF(), Z: bs.ReadLF()}
}

func readFrame(bs *utils.BufStack) Frame {
	return Frame{
		Stretch:     readFloat3(bs),
		Rotation:    readQuaternion(bs),
		Translation: readFloat3(bs),
		Scale:       readFloat3(bs),
	}
}

// table returns view over count elements of elemSize at offset.
// Sizes are checked against whole buffer before anything gets allocated.
func table(root *utils.BufStack, kind string, offset int32, count uint64, elemSize uint64) *utils.BufStack {
	if count == 0 {
		return utils.NewBufStack(kind, nil)
	}
	bs := root.SubBuf(kind, int(offset))
	if bs.Err() != nil {
		return bs
	}
	hi, size := bits.Mul64(count, elemSize)
	if hi != 0 {
		size = math.MaxUint64
	}
	return bs.Require(size)
}

// Decode parses pma file content. Animation returned only when whole file is valid.
func Decode(data []byte, l *utils.Logger) (*Animation, error) {
	root := utils.NewBufStack("pma", data)

	hbs := root.SubBuf("header", 0).SetSize(HEADER_SIZE)
	h := readHeader(hbs)
	if err := hbs.Err(); err != nil {
		return nil, &FormatError{Err: err}
	}
	root.SetName(h.Name.String())
	l.Printf("[pma] header %+v", h)

	if h.Version != PMA_SUPPORTED_VERSION {
		return nil, &FormatError{Err: errors.Wrapf(ErrUnsupportedVersion,
			"have: %d, expected: %d", h.Version, PMA_SUPPORTED_VERSION)}
	}

	bonesBs := table(root, "bones", h.BonesOffset, uint64(h.Bones), 1)
	framesBs := table(root, "frames", h.FramesOffset, uint64(h.Bones)*uint64(h.Frames), FRAME_SIZE)
	for _, bs := range []*utils.BufStack{bonesBs, framesBs} {
		if err := bs.Err(); err != nil {
			return nil, &FormatError{Err: err}
		}
	}

	// checked even without channels, so frame count is always bounded by file size
	lengthsBs := table(root, "lengths", h.LengthsOffset, uint64(h.Frames), 4)
	if err := lengthsBs.Err(); err != nil {
		return nil, &FormatError{Err: err}
	}

	var deltaBs *utils.BufStack
	if h.Flags == PMA_FLAG_DELTA_TRANS {
		deltaBs = table(root, "delta_trans", h.DeltaTransOffset, uint64(h.Frames), FLOAT3_SIZE)
		if err := deltaBs.Err(); err != nil {
			return nil, &FormatError{Err: err}
		}
	}

	a := &Animation{
		Name:        h.Name.String(),
		TotalLength: h.AnimLength,
		Bones:       make([]uint8, h.Bones),
		Frames:      make([][]Frame, h.Bones),
		Timeframes:  make([]float32, h.Frames),
	}

	boneCount := int(h.Bones)
	for i := range a.Bones {
		a.Bones[i] = bonesBs.ReadByte()
		a.Frames[i] = make([]Frame, h.Frames)
		for j := range a.Frames[i] {
			// time step major, channel minor
			framesBs.Seek(i*FRAME_SIZE + j*boneCount*FRAME_SIZE)
			a.Frames[i][j] = readFrame(framesBs)
			// time steps are read alongside first channel only
			if i == 0 {
				a.Timeframes[j] = lengthsBs.Seek(j * 4).ReadLF()
			}
		}
	}

	if deltaBs != nil {
		a.Movement = make([]prism.Float3, h.Frames)
		for j := range a.Movement {
			a.Movement[j] = readFloat3(deltaBs)
		}
	}

	for _, bs := range []*utils.BufStack{bonesBs, framesBs, lengthsBs, deltaBs} {
		if bs != nil && bs.Err() != nil {
			return nil, &FormatError{Err: bs.Err()}
		}
	}

	l.Printf("[pma] %q: %d channels, %d frames, movement: %t", a.Name, len(a.Bones), len(a.Timeframes), a.HasMovement())
	if l.Enabled() {
		l.Printf("[pma] layout of 0x%x bytes:\n%s", root.Size(), root.StringTree())
	}
	return a, nil
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open animation file", Path: path, Err: err}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &IOError{Op: "read animation file", Path: path, Err: err}
	}
	return data, nil
}

// Load reads <base>/<filePath>.pma. Relative filePath is resolved against skeleton directory.
func Load(skel Skeleton, filePath string, l *utils.Logger) (*Animation, error) {
	if skel == nil || !skel.Loaded() {
		return nil, &PreconditionError{Reason: "model is not loaded"}
	}

	if !utils.IsAbsolutePath(filePath) {
		filePath = skel.FileDirectory() + "/" + filePath
	}

	pmaPath := filepath.Join(skel.BasePath(), filepath.FromSlash(filePath)) + ".pma"
	data, err := readFile(pmaPath)
	if err != nil {
		return nil, err
	}

	a, err := Decode(data, l)
	if err != nil {
		if fe, ok := err.(*FormatError); ok {
			fe.Path = pmaPath
		}
		return nil, err
	}

	a.filePath = filePath
	a.skeleton = skel
	return a, nil
}
