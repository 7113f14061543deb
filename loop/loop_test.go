package loop

import (
	"fmt"

	"github.com/jakecoffman/cp"
)

// fakeBody records every command issued to it so tests can assert on exact
// command streams.
type fakeBody struct {
	pos     cp.Vector
	vel     cp.Vector
	ground  bool
	facing  bool
	blocked bool
	ops     []string
}

func (b *fakeBody) Position() cp.Vector { return b.pos }
func (b *fakeBody) Velocity() cp.Vector { return b.vel }
func (b *fakeBody) Grounded() bool      { return b.ground }
func (b *fakeBody) FacingRight() bool   { return b.facing }
func (b *fakeBody) Blocked() bool       { return b.blocked }

func (b *fakeBody) ApplyMovement(axis float64) {
	b.ops = append(b.ops, fmt.Sprintf("move %.1f", axis))
}

func (b *fakeBody) BeginJump() {
	b.ops = append(b.ops, "jump")
}

func (b *fakeBody) EndJump() {
	b.ops = append(b.ops, "endjump")
}

func (b *fakeBody) BeginDash(dir cp.Vector) {
	b.ops = append(b.ops, fmt.Sprintf("dash %.0f,%.0f", dir.X, dir.Y))
}

func (b *fakeBody) SetPosition(pos cp.Vector) {
	b.pos = pos
	b.ops = append(b.ops, fmt.Sprintf("setpos %.0f,%.0f", pos.X, pos.Y))
}

func (b *fakeBody) ApplyExternalForce(force cp.Vector) {
	b.ops = append(b.ops, fmt.Sprintf("force %.0f,%.0f", force.X, force.Y))
}

type fakeInteractor struct {
	interacts int
	attacks   int
	nearby    bool
}

func (i *fakeInteractor) TriggerInteract()            { i.interacts++ }
func (i *fakeInteractor) TriggerAttack()              { i.attacks++ }
func (i *fakeInteractor) HasInteractableNearby() bool { return i.nearby }

// record builds a sealed recording of n frames sampled from the given body.
func record(n int, in Input, b Body) Recording {
	rec := NewRecorder()
	rec.Start()
	for i := 0; i < n; i++ {
		rec.Sample(in, b)
	}
	return rec.Stop()
}
