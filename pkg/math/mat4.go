package math

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Mat4 is a 4x4 matrix in column-major order, layout-compatible with mgl64.Mat4.
// Layout: [m0 m4 m8  m12]
//
//	[m1 m5 m9  m13]
//	[m2 m6 m10 m14]
//	[m3 m7 m11 m15]
//
// Matrices multiply column vectors on the right: p' = M·p.
type Mat4 [16]float64

// Vec4 is a homogeneous 4-component vector.
type Vec4 [4]float64

// Vec3 drops the w component without dividing.
func (v Vec4) Vec3() Vec3 {
	return Vec3{v[0], v[1], v[2]}
}

// Identity returns an identity matrix.
func Identity() Mat4 {
	return Mat4(mgl64.Ident4())
}

// At returns the element at row, col.
func (m Mat4) At(row, col int) float64 {
	return m[col*4+row]
}

// Translate returns a translation matrix.
func Translate(x, y, z float64) Mat4 {
	return Mat4(mgl64.Translate3D(x, y, z))
}

// TranslateVec returns a translation matrix by v.
func TranslateVec(v Vec3) Mat4 {
	return Translate(v.X, v.Y, v.Z)
}

// Scale returns a scale matrix.
func Scale(x, y, z float64) Mat4 {
	return Mat4(mgl64.Scale3D(x, y, z))
}

// RotateX returns a rotation around the X axis.
// Rows: [1 0 0], [0 c -s], [0 s c].
func RotateX(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY returns a rotation around the Y axis.
// Rows: [c 0 s], [0 1 0], [-s 0 c].
func RotateY(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotateZ returns a rotation around the Z axis.
// Rows: [c -s 0], [s c 0], [0 0 1].
func RotateZ(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// RotateXYZ returns Rx(ax)·Ry(ay)·Rz(az).
func RotateXYZ(ax, ay, az float64) Mat4 {
	return RotateX(ax).Mul(RotateY(ay)).Mul(RotateZ(az))
}

// Projection returns the perspective matrix used by the camera:
//
//	[n 0  0  0 ]
//	[0 n  0  0 ]
//	[0 0  v1 v2]
//	[0 0 -1  0 ]
//
// with v1 = -(f+n)/(f-n) and v2 = -2fn/(f-n). Screen x and y come out in
// pixels, scaled by n.
func Projection(near, far float64) Mat4 {
	v1 := -(far + near) / (far - near)
	v2 := -2 * far * near / (far - near)
	return Mat4{
		near, 0, 0, 0,
		0, near, 0, 0,
		0, 0, v1, -1,
		0, 0, v2, 0,
	}
}

// Mul multiplies this matrix by another (m * other).
func (m Mat4) Mul(other Mat4) Mat4 {
	return Mat4(mgl64.Mat4(m).Mul4(mgl64.Mat4(other)))
}

// MulVec4 multiplies the matrix by a Vec4.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v[0] + m[4]*v[1] + m[8]*v[2] + m[12]*v[3],
		m[1]*v[0] + m[5]*v[1] + m[9]*v[2] + m[13]*v[3],
		m[2]*v[0] + m[6]*v[1] + m[10]*v[2] + m[14]*v[3],
		m[3]*v[0] + m[7]*v[1] + m[11]*v[2] + m[15]*v[3],
	}
}

// TransformPoint transforms a point (w=1) and divides by the resulting w.
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	r := m.MulVec4(p.Vec4())
	if w := r[3]; w != 0 && w != 1 {
		return Vec3{r[0] / w, r[1] / w, r[2] / w}
	}
	return r.Vec3()
}

// TransformDirection transforms a direction vector (ignores translation).
func (m Mat4) TransformDirection(d Vec3) Vec3 {
	return Vec3{
		m[0]*d.X + m[4]*d.Y + m[8]*d.Z,
		m[1]*d.X + m[5]*d.Y + m[9]*d.Z,
		m[2]*d.X + m[6]*d.Y + m[10]*d.Z,
	}
}

// Det returns the determinant.
func (m Mat4) Det() float64 {
	return mgl64.Mat4(m).Det()
}

// Inverse returns the inverse of the matrix.
// Returns identity if the matrix is singular.
func (m Mat4) Inverse() Mat4 {
	if m.Det() == 0 {
		return Identity()
	}
	return Mat4(mgl64.Mat4(m).Inv())
}

// ApproxEqual reports whether every element differs by at most eps.
func (m Mat4) ApproxEqual(other Mat4, eps float64) bool {
	for i := range m {
		if math.Abs(m[i]-other[i]) > eps {
			return false
		}
	}
	return true
}
