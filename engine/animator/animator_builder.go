package animator

// AnimatorBuilderOption is a functional option for configuring an Animator during construction.
type AnimatorBuilderOption func(*animatorImpl)

// WithAngularRate sets the yaw rate in radians per second.
//
// Parameters:
//   - rate: the angular rate
//
// Returns:
//   - AnimatorBuilderOption: a function that sets the angular rate
func WithAngularRate(rate float32) AnimatorBuilderOption {
	return func(a *animatorImpl) {
		a.rate = rate
	}
}

// WithPolicy sets how yaw is derived from the frame clock.
//
// Parameters:
//   - policy: PolicyElapsed or PolicyDelta
//
// Returns:
//   - AnimatorBuilderOption: a function that sets the policy
func WithPolicy(policy Policy) AnimatorBuilderOption {
	return func(a *animatorImpl) {
		a.policy = policy
	}
}

// WithPitch sets the constant rotation about the X axis, in radians.
func WithPitch(pitch float32) AnimatorBuilderOption {
	return func(a *animatorImpl) {
		a.pitch = pitch
	}
}

// WithRoll sets the constant rotation about the Z axis, in radians.
func WithRoll(roll float32) AnimatorBuilderOption {
	return func(a *animatorImpl) {
		a.roll = roll
	}
}
