package loop

import "github.com/jakecoffman/cp"

// Frame is one tick of recorded truth: the control inputs that were active
// and the physical state the body had at the sampling instant. Position and
// velocity are recorded rather than recomputed so a replay can resynchronize
// if it is ever perturbed.
type Frame struct {
	// Tick counts fixed simulation steps from loop start, not wall-clock
	// time. Strictly increasing, no gaps within one recording.
	Tick int

	Position cp.Vector
	Velocity cp.Vector

	// MoveX is the normalized horizontal control axis in [-1, 1].
	MoveX float64

	JumpPressed bool
	JumpHeld    bool

	DashPressed bool
	// DashDir is only meaningful when DashPressed is true.
	DashDir cp.Vector

	InteractPressed bool
	AttackPressed   bool

	// ExternalForce is any non-control force sampled that tick (wind,
	// conveyors), replayed verbatim for exact reproduction.
	ExternalForce cp.Vector
}

// Input is the per-tick control sample the recorder captures alongside the
// body's physical state.
type Input struct {
	MoveX           float64
	JumpPressed     bool
	JumpHeld        bool
	DashPressed     bool
	DashDir         cp.Vector
	InteractPressed bool
	AttackPressed   bool
	ExternalForce   cp.Vector
}

// Recording is a sealed, ordered, immutable sequence of frames. Only
// Recorder.Stop produces a non-empty one; nothing mutates it afterward.
type Recording struct {
	frames []Frame
}

// Len returns the number of recorded frames.
func (r Recording) Len() int {
	return len(r.frames)
}

// Empty reports whether the recording holds no frames.
func (r Recording) Empty() bool {
	return len(r.frames) == 0
}

// At returns frame i. Callers index within [0, Len).
func (r Recording) At(i int) Frame {
	return r.frames[i]
}
