package skeleton

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

const truckPis = `Header {
	FormatVersion: 3
	Source: "prism_converter 1.0"
	Type: "Skeleton"
	Name: "truck"
}
Global {
	BoneCount: 3
}
Bones {
	Bone0 {
		Name: "root"
		Parent: ""
		Matrix: ( &3f800000  &00000000  &00000000  &00000000
		          &00000000  &3f800000  &00000000  &00000000
		          &00000000  &00000000  &3f800000  &00000000
		          &3f800000  &40000000  &40400000  &3f800000 )
	}
	# declared before its parent
	Bone1 {
		Name: "wheel_l"
		Parent: "axle"
	}
	Bone2 {
		Name: "axle"
		Parent: "root"
	}
}
`

func TestDecode(t *testing.T) {
	bones, err := Decode([]byte(truckPis))
	if err != nil {
		t.Fatal(err)
	}
	if len(bones) != 3 {
		t.Fatalf("Got %d bones", len(bones))
	}

	for i, expected := range []struct {
		name   string
		parent int
	}{{"root", NoParent}, {"wheel_l", 2}, {"axle", 0}} {
		if bones[i].Name != expected.name || bones[i].Parent != expected.parent {
			t.Errorf("Bone %d = %q parent %d, expected %q parent %d",
				i, bones[i].Name, bones[i].Parent, expected.name, expected.parent)
		}
	}

	if tr := bones[0].Matrix.Col(3); tr != (mgl32.Vec4{1, 2, 3, 1}) {
		t.Errorf("Root translation column = %v", tr)
	}
	if bones[1].Matrix != mgl32.Ident4() {
		t.Errorf("Bone without matrix = %v", bones[1].Matrix)
	}
}

func TestDecodeErrors(t *testing.T) {
	for _, test := range []struct {
		name string
		from string
		to   string
		err  string
	}{
		{"type", `Type: "Skeleton"`, `Type: "Animation"`, "Document type"},
		{"count", "BoneCount: 3", "BoneCount: 4", "BoneCount is 4"},
		{"parent", `Parent: "axle"`, `Parent: "chassis"`, "parent \"chassis\" not found"},
		{"duplicate", `Name: "axle"`, `Name: "root"`, "declared twice"},
		{"matrix", "&3f800000 )", ")", "has 15 values"},
		{"bones", "Bones {", "Nodes {", "Missing Bones"},
	} {
		text := strings.Replace(truckPis, test.from, test.to, 1)
		if _, err := Decode([]byte(text)); err == nil || !strings.Contains(err.Error(), test.err) {
			t.Errorf("%s: expected error with %q, got %v", test.name, test.err, err)
		}
	}
}

func TestLoad(t *testing.T) {
	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "vehicle", "truck"), 0777); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(base, "vehicle", "truck", "truck.pis"), []byte(truckPis), 0666); err != nil {
		t.Fatal(err)
	}

	m, err := Load(base, "/vehicle/truck/truck")
	if err != nil {
		t.Fatal(err)
	}
	if !m.Loaded() || m.BasePath() != base || m.FilePath() != "/vehicle/truck/truck" || m.FileDirectory() != "/vehicle/truck" {
		t.Errorf("Model paths: %q %q %q", m.BasePath(), m.FilePath(), m.FileDirectory())
	}
	if m.BoneCount() != 3 || m.BoneName(1) != "wheel_l" || m.BoneParent(1) != 2 {
		t.Errorf("Model bones: %+v", m.Bones)
	}

	if _, err := Load(base, "/vehicle/truck/missing"); !os.IsNotExist(errors.Cause(err)) {
		t.Errorf("Missing skeleton: %v", err)
	}

	var nilModel *Model
	if nilModel.Loaded() {
		t.Errorf("Nil model reports loaded")
	}
}
