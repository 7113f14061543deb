package loop

import "log"

// Recorder samples a live body and its control inputs once per fixed tick
// and accumulates frames until the session is sealed. It only ever reads
// from the body; replaying is the Replayer's job.
type Recorder struct {
	sampling bool
	tick     int
	frames   []Frame
}

// NewRecorder returns an idle recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Sampling reports whether a session is open.
func (r *Recorder) Sampling() bool {
	return r != nil && r.sampling
}

// Start opens a fresh session: empty sequence, tick counter at zero.
// Starting an already-open session is a logged no-op.
func (r *Recorder) Start() {
	if r == nil {
		return
	}
	if r.sampling {
		log.Printf("loop: Recorder.Start while already sampling, ignoring")
		return
	}
	r.frames = nil
	r.tick = 0
	r.sampling = true
}

// Sample captures one frame from the given inputs and body state. Call it
// exactly once per fixed tick while sampling. Sampling while idle is a usage
// error: the frame is dropped with a warning.
func (r *Recorder) Sample(in Input, b Body) {
	if r == nil {
		return
	}
	if !r.sampling {
		log.Printf("loop: Recorder.Sample while not sampling, frame dropped")
		return
	}
	f := Frame{
		Tick:            r.tick,
		MoveX:           in.MoveX,
		JumpPressed:     in.JumpPressed,
		JumpHeld:        in.JumpHeld,
		DashPressed:     in.DashPressed,
		DashDir:         in.DashDir,
		InteractPressed: in.InteractPressed,
		AttackPressed:   in.AttackPressed,
		ExternalForce:   in.ExternalForce,
	}
	if b != nil {
		f.Position = b.Position()
		f.Velocity = b.Velocity()
	}
	r.frames = append(r.frames, f)
	r.tick++
}

// Stop seals the session and hands the recording to the caller. The recorder
// keeps no reference to the sealed frames. Stopping while idle returns an
// empty sealed recording with a warning.
func (r *Recorder) Stop() Recording {
	if r == nil {
		return Recording{}
	}
	if !r.sampling {
		log.Printf("loop: Recorder.Stop while not sampling")
		return Recording{}
	}
	rec := Recording{frames: r.frames}
	r.frames = nil
	r.sampling = false
	return rec
}
