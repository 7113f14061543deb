package loop

import "github.com/jakecoffman/cp"

// Body is the controllable entity the recorder reads from and the replayer
// drives. Any physics-backed actor satisfying this contract can be recorded
// or replayed; the package never reaches into a concrete body type.
type Body interface {
	Position() cp.Vector
	Velocity() cp.Vector
	Grounded() bool
	FacingRight() bool

	ApplyMovement(axis float64)
	BeginJump()
	// EndJump is invoked on every tick where the jump control is not held;
	// implementations treat it as a level, not an edge.
	EndJump()
	BeginDash(dir cp.Vector)
	SetPosition(pos cp.Vector)
	ApplyExternalForce(force cp.Vector)
}

// BlockReporter is an optional capability a Body may implement. A body that
// reports itself blocked mid-replay moves the replayer to Stuck instead of
// advancing.
type BlockReporter interface {
	Blocked() bool
}

// Interactor consumes the recorded interact/attack edges. Optional; a
// replayer without one simply skips those edges.
type Interactor interface {
	TriggerInteract()
	TriggerAttack()
	HasInteractableNearby() bool
}
