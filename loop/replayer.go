package loop

import "log"

// ReplayState is the replayer lifecycle state.
type ReplayState int

const (
	// Idle means no replay has started (or it was reset).
	Idle ReplayState = iota
	// Replaying means frames are being applied each tick.
	Replaying
	// Completed means every frame was consumed. Terminal until Reset.
	Completed
	// Stuck means the body could not continue or was force-stopped.
	// Terminal until Reset; the body stays where it stopped.
	Stuck
)

func (s ReplayState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Replaying:
		return "replaying"
	case Completed:
		return "completed"
	case Stuck:
		return "stuck"
	default:
		return "unknown"
	}
}

// Replayer deterministically reproduces one sealed recording by driving one
// body tick-for-tick. It never panics or errors: an inability to proceed
// becomes the Stuck state and is reported through the manager's events.
type Replayer struct {
	id         int
	rec        Recording
	cursor     int
	state      ReplayState
	body       Body
	interactor Interactor
}

// NewReplayer wraps a sealed recording. The replayer is the sole owner of
// its recording and its progress cursor.
func NewReplayer(id int, rec Recording) *Replayer {
	return &Replayer{id: id, rec: rec}
}

// ID returns the stable identity assigned at creation.
func (r *Replayer) ID() int {
	return r.id
}

// State returns the current lifecycle state.
func (r *Replayer) State() ReplayState {
	if r == nil {
		return Idle
	}
	return r.state
}

// Body returns the driven body, nil before StartReplay.
func (r *Replayer) Body() Body {
	if r == nil {
		return nil
	}
	return r.body
}

// AttachInteractor wires the optional interaction collaborator that receives
// the recorded interact/attack edges.
func (r *Replayer) AttachInteractor(i Interactor) {
	if r == nil {
		return
	}
	r.interactor = i
}

// StartReplay binds the body and begins replaying. The body is teleported to
// the first frame's recorded position so the clone retraces from the original
// origin. Starting from any state but Idle is a logged no-op.
func (r *Replayer) StartReplay(b Body) {
	if r == nil {
		return
	}
	if r.state != Idle {
		log.Printf("loop: Replayer %d StartReplay in state %s, ignoring", r.id, r.state)
		return
	}
	if b == nil {
		log.Printf("loop: Replayer %d StartReplay with nil body, ignoring", r.id)
		return
	}
	r.body = b
	if !r.rec.Empty() {
		b.SetPosition(r.rec.At(0).Position)
	}
	r.state = Replaying
}

// Step applies the frame under the cursor to the owned body, in the same
// order the live entity processed its controls when recorded: movement axis,
// jump edge, jump release, dash edge, interaction edges, external force.
// Order matters because commands have order-dependent side effects (a dash
// overrides velocity set by movement in the same tick). Stepping a
// non-replaying instance is a no-op.
func (r *Replayer) Step() ReplayState {
	if r == nil {
		return Idle
	}
	if r.state != Replaying {
		return r.state
	}
	if r.cursor >= r.rec.Len() {
		r.state = Completed
		return r.state
	}
	if br, ok := r.body.(BlockReporter); ok && br.Blocked() {
		r.state = Stuck
		return r.state
	}

	f := r.rec.At(r.cursor)
	r.body.ApplyMovement(f.MoveX)
	if f.JumpPressed {
		r.body.BeginJump()
	}
	if !f.JumpHeld {
		r.body.EndJump()
	}
	if f.DashPressed {
		r.body.BeginDash(f.DashDir)
	}
	if r.interactor != nil {
		if f.InteractPressed {
			r.interactor.TriggerInteract()
		}
		if f.AttackPressed {
			r.interactor.TriggerAttack()
		}
	}
	if f.ExternalForce.X != 0 || f.ExternalForce.Y != 0 {
		r.body.ApplyExternalForce(f.ExternalForce)
	}

	r.cursor++
	if r.cursor == r.rec.Len() {
		r.state = Completed
	}
	return r.state
}

// Progress returns the fraction of frames consumed, in [0, 1]. Zero for an
// empty recording.
func (r *Replayer) Progress() float64 {
	if r == nil || r.rec.Len() == 0 {
		return 0
	}
	return float64(r.cursor) / float64(r.rec.Len())
}

// ForceStop moves a replaying instance to Stuck, preserving the
// completed/stuck distinction for downstream effects. The body stays put.
func (r *Replayer) ForceStop() {
	if r == nil || r.state != Replaying {
		return
	}
	r.state = Stuck
}

// Reset returns a terminal replayer to Idle at cursor zero, keeping the
// owned recording so the same performance can be replayed again. Resetting
// while replaying is a logged no-op.
func (r *Replayer) Reset() {
	if r == nil {
		return
	}
	if r.state == Replaying {
		log.Printf("loop: Replayer %d Reset while replaying, ignoring", r.id)
		return
	}
	r.cursor = 0
	r.state = Idle
	r.body = nil
}
