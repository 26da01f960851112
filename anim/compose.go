package anim

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Compose returns T * R * S for frame: point is scaled first, then rotated, then translated.
// Stretch is not part of exported matrix.
func Compose(frame Frame) mgl32.Mat4 {
	t, s := frame.Translation, frame.Scale
	return mgl32.Translate3D(t[0], t[1], t[2]).
		Mul4(frame.Rotation.Mat4()).
		Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
}

// ComposeAll returns matrices indexed [channel][time step]
func ComposeAll(a *Animation) [][]mgl32.Mat4 {
	result := make([][]mgl32.Mat4, len(a.Frames))
	for i, channel := range a.Frames {
		result[i] = make([]mgl32.Mat4, len(channel))
		for j, frame := range channel {
			result[i][j] = Compose(frame)
		}
	}
	return result
}
