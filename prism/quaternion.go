package prism

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/prism_converter/utils"
)

// cos(0.5), threshold at which angle extraction switches to asin for precision
const cosOneOverTwo = 0.87758256189037271611628158260383

// Quaternion layout matches the on-disk order (w, x, y, z).
type Quaternion struct {
	W, X, Y, Z float32
}

func QuatIdent() Quaternion {
	return Quaternion{W: 1}
}

// Set builds rotation of angle radians around axis.
// Axis expected to be normalized.
func (q *Quaternion) Set(axis Float3, angle float32) {
	halfAngle := float64(angle) * 0.5
	sin := float32(math.Sin(halfAngle))
	q.X = axis[0] * sin
	q.Y = axis[1] * sin
	q.Z = axis[2] * sin
	q.W = float32(math.Cos(halfAngle))
}

// Length returns squared length of vector part
func (q Quaternion) Length() float32 {
	return q.X*q.X + q.Y*q.Y + q.Z*q.Z
}

// SqLength returns length of vector part
func (q Quaternion) SqLength() float32 {
	return float32(math.Sqrt(float64(q.Length())))
}

// Normalize scales only the vector part, W stays as is.
func (q *Quaternion) Normalize() {
	l := q.SqLength()
	if l == 0 {
		return
	}
	q.X /= l
	q.Y /= l
	q.Z /= l
}

func (q Quaternion) Normalized() Quaternion {
	q.Normalize()
	return q
}

// Angle of rotation in radians, same as glm::angle
func (q Quaternion) Angle() float32 {
	w := float64(q.W)
	if math.Abs(w) > cosOneOverTwo {
		a := math.Asin(math.Sqrt(float64(q.Length()))) * 2
		if w < 0 {
			return float32(math.Pi*2 - a)
		}
		return float32(a)
	}
	return float32(math.Acos(w) * 2)
}

// Axis of rotation, same as glm::axis
func (q Quaternion) Axis() Float3 {
	tmp1 := 1 - q.W*q.W
	if tmp1 <= 0 {
		return Float3{0, 0, 1}
	}
	tmp2 := float32(1 / math.Sqrt(float64(tmp1)))
	return Float3{q.X * tmp2, q.Y * tmp2, q.Z * tmp2}
}

// Mat4 returns homogeneous rotation matrix built from angle-axis form
func (q Quaternion) Mat4() mgl32.Mat4 {
	axis := q.Axis().Vec3()
	if l := axis.Len(); l != 0 {
		axis = axis.Mul(1 / l)
	} else {
		axis = mgl32.Vec3{0, 0, 1}
	}
	return mgl32.HomogRotate3D(q.Angle(), axis)
}

// XYZW order used by gltf
func (q Quaternion) XYZW() [4]float32 {
	return [4]float32{q.X, q.Y, q.Z, q.W}
}

func (q Quaternion) String() string {
	return fmt.Sprintf("%s  %s  %s  %s",
		utils.FloatHex(q.W), utils.FloatHex(q.X), utils.FloatHex(q.Y), utils.FloatHex(q.Z))
}
