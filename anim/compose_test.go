package anim

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/prism_converter/prism"
)

func rotatedFrame() Frame {
	f := identityFrame()
	f.Rotation.Set(prism.Float3{0, 0, 1}, math.Pi/2)
	f.Translation = prism.Float3{1, 2, 3}
	f.Scale = prism.Float3{2, 2, 2}
	return f
}

func TestComposeIdentity(t *testing.T) {
	if m := Compose(identityFrame()); m != mgl32.Ident4() {
		t.Errorf("Compose(identity) = %v", m)
	}
}

func TestComposeOrder(t *testing.T) {
	f := rotatedFrame()
	m := Compose(f)

	// scale, then rotate, then translate
	got := mgl32.TransformCoordinate(mgl32.Vec3{1, 0, 0}, m)
	if want := (mgl32.Vec3{1, 4, 3}); !got.ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("T*R*S applied to x axis = %v, want %v", got, want)
	}

	swapped := mgl32.Scale3D(2, 2, 2).Mul4(f.Rotation.Mat4()).Mul4(mgl32.Translate3D(1, 2, 3))
	if m.ApproxEqualThreshold(swapped, 1e-3) {
		t.Errorf("Composition is not order sensitive: %v", m)
	}
	if got := mgl32.TransformCoordinate(mgl32.Vec3{1, 0, 0}, swapped); !got.ApproxEqualThreshold(mgl32.Vec3{-4, 4, 6}, 1e-5) {
		t.Errorf("S*R*T applied to x axis = %v", got)
	}
}

func TestComposeIgnoresStretch(t *testing.T) {
	f := rotatedFrame()
	stretched := f
	stretched.Stretch = prism.Float3{5, -3, 0.25}
	if Compose(f) != Compose(stretched) {
		t.Errorf("Stretch affects composed matrix")
	}
}

func TestComposeAll(t *testing.T) {
	a := &Animation{
		Bones:  []uint8{0, 1},
		Frames: [][]Frame{{identityFrame(), rotatedFrame()}, {rotatedFrame(), identityFrame()}},
	}
	all := ComposeAll(a)
	if len(all) != 2 || len(all[0]) != 2 || len(all[1]) != 2 {
		t.Fatalf("ComposeAll dimensions: %v", all)
	}
	if all[0][0] != mgl32.Ident4() || all[1][0] != Compose(rotatedFrame()) {
		t.Errorf("ComposeAll mixed up channels")
	}
}
