package camera

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraController orbits the camera around a fixed target using spherical
// coordinates (radius, azimuth, elevation). Rotation input is damped: each Update
// applies a fraction of the pending rotation and decays the rest, so the view
// eases to a stop. Panning is not supported; the target never moves.
// All methods are safe to call from window callbacks while the frame loop reads the position.
type CameraController interface {
	// Position returns the camera's world-space position.
	Position() mgl32.Vec3

	// Target returns the look-at point.
	Target() mgl32.Vec3

	// Rotate queues an orbit by the given angles.
	//
	// Parameters:
	//   - dAzimuth: horizontal angle in radians
	//   - dElevation: vertical angle in radians
	Rotate(dAzimuth, dElevation float32)

	// Drag queues an orbit from a pointer movement in pixels.
	//
	// Parameters:
	//   - dx, dy: pointer movement since the last event
	Drag(dx, dy float32)

	// OrbitLeft queues one keyboard step to the left.
	OrbitLeft()

	// OrbitRight queues one keyboard step to the right.
	OrbitRight()

	// OrbitUp queues one keyboard step upward.
	OrbitUp()

	// OrbitDown queues one keyboard step downward.
	OrbitDown()

	// Zoom moves the camera toward (positive) or away from (negative) the target.
	//
	// Parameters:
	//   - delta: zoom amount scaled by the zoom speed
	Zoom(delta float32)

	// Update applies damping to the pending rotation and recomputes the position.
	Update()

	// Radius returns the current distance from the target.
	Radius() float32

	// Azimuth returns the current horizontal angle in radians.
	Azimuth() float32

	// Elevation returns the current vertical angle in radians.
	Elevation() float32

	// DampingFactor returns the fraction of pending rotation applied per Update.
	DampingFactor() float32
}

// cameraControllerImpl is the single implementation of CameraController.
type cameraControllerImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	target   mgl32.Vec3

	radius    float32
	azimuth   float32
	elevation float32

	pendingAzimuth   float32
	pendingElevation float32

	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	orbitSpeed       float32
	mouseSensitivity float32
	zoomSpeed        float32
	damping          float32
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates an orbit controller at distance 50 on the +Z axis,
// looking at the origin, with damping factor 0.05.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu: &sync.Mutex{},

		radius: 50.0,

		minRadius:    1.0,
		maxRadius:    500.0,
		minElevation: float32(-math.Pi/2 + 0.01),
		maxElevation: float32(math.Pi/2 - 0.01),

		orbitSpeed:       0.05,
		mouseSensitivity: 0.005,
		zoomSpeed:        2.0,
		damping:          0.05,
	}

	for _, option := range options {
		option(cc)
	}

	cc.radius = clamp32(cc.radius, cc.minRadius, cc.maxRadius)
	cc.elevation = clamp32(cc.elevation, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
	return cc
}

func (cc *cameraControllerImpl) Position() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) Target() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *cameraControllerImpl) Rotate(dAzimuth, dElevation float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.pendingAzimuth += dAzimuth
	cc.pendingElevation += dElevation
}

func (cc *cameraControllerImpl) Drag(dx, dy float32) {
	cc.Rotate(-dx*cc.mouseSensitivity, dy*cc.mouseSensitivity)
}

func (cc *cameraControllerImpl) OrbitLeft() {
	cc.Rotate(-cc.orbitSpeed, 0)
}

func (cc *cameraControllerImpl) OrbitRight() {
	cc.Rotate(cc.orbitSpeed, 0)
}

func (cc *cameraControllerImpl) OrbitUp() {
	cc.Rotate(0, cc.orbitSpeed)
}

func (cc *cameraControllerImpl) OrbitDown() {
	cc.Rotate(0, -cc.orbitSpeed)
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius = clamp32(cc.radius-delta*cc.zoomSpeed, cc.minRadius, cc.maxRadius)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Update() {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	if cc.damping > 0 && cc.damping < 1 {
		cc.azimuth += cc.pendingAzimuth * cc.damping
		cc.elevation += cc.pendingElevation * cc.damping
		cc.pendingAzimuth *= 1 - cc.damping
		cc.pendingElevation *= 1 - cc.damping
	} else {
		cc.azimuth += cc.pendingAzimuth
		cc.elevation += cc.pendingElevation
		cc.pendingAzimuth, cc.pendingElevation = 0, 0
	}

	cc.elevation = clamp32(cc.elevation, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *cameraControllerImpl) Elevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.elevation
}

func (cc *cameraControllerImpl) DampingFactor() float32 {
	return cc.damping
}

// updatePosition recomputes the camera position from spherical coordinates.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) updatePosition() {
	cosElev := float32(math.Cos(float64(cc.elevation)))
	sinElev := float32(math.Sin(float64(cc.elevation)))
	cosAzim := float32(math.Cos(float64(cc.azimuth)))
	sinAzim := float32(math.Sin(float64(cc.azimuth)))

	cc.position = mgl32.Vec3{
		cc.target[0] + cc.radius*cosElev*sinAzim,
		cc.target[1] + cc.radius*sinElev,
		cc.target[2] + cc.radius*cosElev*cosAzim,
	}
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
