package anim

import (
	"github.com/mogaika/prism_converter/prism"
	"github.com/mogaika/prism_converter/utils"
)

// Skeleton is model the animation is bound to.
// Paths are logical ('/' separated, without extension), BasePath is on disk.
type Skeleton interface {
	Loaded() bool
	BasePath() string
	FilePath() string
	FileDirectory() string
	BoneCount() int
	BoneName(index int) string
	// BoneParent returns -1 for root bones
	BoneParent(index int) int
}

type Frame struct {
	Stretch     prism.Float3
	Rotation    prism.Quaternion
	Translation prism.Float3
	Scale       prism.Float3
}

type Animation struct {
	Name        string
	TotalLength float32
	Bones       []uint8   // channel index => skeleton bone index
	Frames      [][]Frame // [channel][time step]
	Timeframes  []float32
	Movement    []prism.Float3 // root motion, nil if not present

	filePath string
	skeleton Skeleton
}

func (a *Animation) FilePath() string {
	return a.filePath
}

func (a *Animation) Skeleton() Skeleton {
	return a.skeleton
}

func (a *Animation) HasMovement() bool {
	return a.Movement != nil
}

// validateBones checks every channel against skeleton bones
func (a *Animation) validateBones() error {
	if a.skeleton == nil || !a.skeleton.Loaded() {
		return &PreconditionError{Reason: "animation is not bound to loaded skeleton"}
	}
	for _, bone := range a.Bones {
		if int(bone) >= a.skeleton.BoneCount() {
			return a.referenceError(bone)
		}
	}
	return nil
}

func (a *Animation) referenceError(bone uint8) *ReferenceError {
	return &ReferenceError{
		File:  utils.FileName(a.filePath),
		Index: int(bone),
		Count: a.skeleton.BoneCount(),
	}
}
