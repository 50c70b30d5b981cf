package common

import (
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// Clamp limits v to the closed interval [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Approach moves current toward target by a fixed fraction of the remaining gap.
// A factor of 0 leaves current unchanged, a factor of 1 snaps it to target.
//
// Parameters:
//   - current: the value being smoothed
//   - target: the value being approached
//   - factor: fraction of the gap closed per call
//
// Returns:
//   - float64: the updated value
func Approach(current, target, factor float64) float64 {
	return current + (target-current)*factor
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// StructToBytes reinterprets a pointer to a struct as a raw byte slice using unsafe.
// The returned slice has length equal to the struct's size in memory.
//
// Parameters:
//   - v: pointer to the struct to reinterpret
//
// Returns:
//   - []byte: byte slice view of the struct's memory
func StructToBytes[T any](v *T) []byte {
	size := unsafe.Sizeof(*v)
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(size))
}

// Perspective creates a right-handed perspective projection matrix.
// Depth is mapped to the WebGPU clip range [0, 1] rather than the OpenGL range
// produced by mgl32.Perspective.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))
	var m mgl32.Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = far / (near - far)
	m[11] = -1.0
	m[14] = (near * far) / (near - far)
	return m
}

// AssemblyMatrix builds the model matrix applied to the whole scene assembly:
// a uniform scale followed by a rotation about Y and then X (Euler order XYZ).
//
// Parameters:
//   - scale: uniform scale factor
//   - rotX: rotation about the X axis in radians
//   - rotY: rotation about the Y axis in radians
//
// Returns:
//   - mgl32.Mat4: the column-major model matrix
func AssemblyMatrix(scale, rotX, rotY float32) mgl32.Mat4 {
	return mgl32.HomogRotate3DX(rotX).
		Mul4(mgl32.HomogRotate3DY(rotY)).
		Mul4(mgl32.Scale3D(scale, scale, scale))
}
