package prism

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/prism_converter/utils"
)

type Float3 [3]float32

func (f Float3) Vec3() mgl32.Vec3 {
	return mgl32.Vec3(f)
}

func (f Float3) String() string {
	return fmt.Sprintf("%s  %s  %s", utils.FloatHex(f[0]), utils.FloatHex(f[1]), utils.FloatHex(f[2]))
}
