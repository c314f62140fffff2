package animator

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/spinner/common"
)

// Policy selects how yaw is derived from the frame clock.
type Policy int

const (
	// PolicyElapsed computes yaw directly from total elapsed time: yaw = elapsed * rate.
	// Frames are independent of each other and of the frame rate.
	PolicyElapsed Policy = iota

	// PolicyDelta integrates yaw from the time between successive updates: yaw += dt * rate.
	PolicyDelta
)

// String returns the configuration name of the policy.
func (p Policy) String() string {
	switch p {
	case PolicyElapsed:
		return "elapsed"
	case PolicyDelta:
		return "delta"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy maps a configuration name to a Policy. The empty string selects PolicyElapsed.
//
// Parameters:
//   - name: "elapsed", "delta", or ""
//
// Returns:
//   - Policy: the parsed policy
//   - error: an error if the name is unknown
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "elapsed":
		return PolicyElapsed, nil
	case "delta":
		return PolicyDelta, nil
	default:
		return PolicyElapsed, fmt.Errorf("unknown animation policy %q", name)
	}
}

// Orientation is the object's rotation for one frame, with the trig of each angle precomputed.
type Orientation struct {
	Yaw, Pitch, Roll   float32
	SinYaw, CosYaw     float32
	SinPitch, CosPitch float32
	SinRoll, CosRoll   float32
}

// Rotation returns RotationY(yaw) · RotationX(pitch) · RotationZ(roll).
//
// Returns:
//   - common.Mat4: the combined rotation
func (o Orientation) Rotation() common.Mat4 {
	return common.RotationYSinCos(o.SinYaw, o.CosYaw).
		Mul(common.RotationXSinCos(o.SinPitch, o.CosPitch)).
		Mul(common.RotationZSinCos(o.SinRoll, o.CosRoll))
}

type animatorImpl struct {
	mu *sync.Mutex

	rate   float32
	policy Policy

	pitch, sinPitch, cosPitch float32
	roll, sinRoll, cosRoll    float32

	// PolicyDelta state.
	yaw         float64
	lastElapsed float64
	started     bool
}

// Animator holds the object's animation state: a constant yaw angular rate plus fixed pitch and roll.
// Pitch and roll never change, so their sine and cosine are computed once at construction.
type Animator interface {
	// AngularRate returns the yaw rate in radians per second.
	//
	// Returns:
	//   - float32: the angular rate
	AngularRate() float32

	// Policy returns the yaw derivation policy.
	//
	// Returns:
	//   - Policy: the policy in use
	Policy() Policy

	// Yaw returns elapsedSeconds * AngularRate, the closed-form yaw at a point in time.
	// It does not depend on the policy or on previous calls.
	//
	// Parameters:
	//   - elapsedSeconds: seconds since the clock started
	//
	// Returns:
	//   - float32: the yaw angle in radians
	Yaw(elapsedSeconds float32) float32

	// Update returns the orientation for a frame at elapsedSeconds.
	// Under PolicyElapsed this is a pure function of elapsedSeconds. Under PolicyDelta the yaw
	// advances by the time since the previous Update; the first call only records the time.
	// The angle is computed in float64 and wrapped into [0, 2π) before narrowing, so the step
	// between frames stays exact however long the session runs.
	//
	// Parameters:
	//   - elapsedSeconds: seconds since the clock started
	//
	// Returns:
	//   - Orientation: yaw, pitch and roll with their sine and cosine
	Update(elapsedSeconds float64) Orientation
}

var _ Animator = &animatorImpl{}

// NewAnimator creates an Animator with the default angular rate and PolicyElapsed.
//
// Parameters:
//   - options: functional options to configure the animator
//
// Returns:
//   - Animator: the newly created animator
func NewAnimator(options ...AnimatorBuilderOption) Animator {
	a := &animatorImpl{
		mu:     &sync.Mutex{},
		rate:   DefaultAngularRate,
		policy: PolicyElapsed,
	}
	for _, option := range options {
		option(a)
	}
	a.sinPitch, a.cosPitch = common.SinCos(a.pitch)
	a.sinRoll, a.cosRoll = common.SinCos(a.roll)
	return a
}

// DefaultAngularRate is the yaw rate in radians per second (about one turn per second).
const DefaultAngularRate float32 = 6.5

func (a *animatorImpl) AngularRate() float32 {
	return a.rate
}

func (a *animatorImpl) Policy() Policy {
	return a.policy
}

func (a *animatorImpl) Yaw(elapsedSeconds float32) float32 {
	return elapsedSeconds * a.rate
}

func (a *animatorImpl) Update(elapsedSeconds float64) Orientation {
	var yaw float32
	switch a.policy {
	case PolicyDelta:
		a.mu.Lock()
		if a.started {
			a.yaw = wrapAngle(a.yaw + (elapsedSeconds-a.lastElapsed)*float64(a.rate))
		}
		a.started = true
		a.lastElapsed = elapsedSeconds
		yaw = float32(a.yaw)
		a.mu.Unlock()
	default:
		yaw = float32(wrapAngle(elapsedSeconds * float64(a.rate)))
	}

	sinYaw, cosYaw := common.SinCos(yaw)
	return Orientation{
		Yaw:      yaw,
		Pitch:    a.pitch,
		Roll:     a.roll,
		SinYaw:   sinYaw,
		CosYaw:   cosYaw,
		SinPitch: a.sinPitch,
		CosPitch: a.cosPitch,
		SinRoll:  a.sinRoll,
		CosRoll:  a.cosRoll,
	}
}

// wrapAngle maps angle into [0, 2π).
func wrapAngle(angle float64) float64 {
	angle = math.Mod(angle, 2*math.Pi)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle
}
