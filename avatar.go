package main

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/timeloop/common"
)

const (
	avatarWidth  = 24.0
	avatarHeight = 48.0

	moveSpeed    = 260.0
	jumpSpeed    = 600.0
	jumpCutSpeed = 180.0
	dashSpeed    = 520.0
)

// Avatar is a Chipmunk-backed actor satisfying loop.Body. The live player
// and every clone use the same implementation so recorded commands land on
// identical physics.
type Avatar struct {
	arena       *Arena
	body        *cp.Body
	shape       *cp.Shape
	groundShape *cp.Shape
	contact     *contactState
	facingRight bool
}

// NewAvatar adds a dynamic box body with a ground sensor to the arena.
func NewAvatar(arena *Arena, pos cp.Vector) *Avatar {
	body := cp.NewBody(1, math.Inf(1)) // infinite moment: no rotation
	body.SetPosition(pos)

	shape := cp.NewBox(body, avatarWidth, avatarHeight, 0)
	shape.SetFriction(0) // horizontal speed is set directly, not friction-driven
	shape.SetCollisionType(collisionTypeActor)
	shape.SetFilter(cp.NewShapeFilter(actorFilterGroup, cp.ALL_CATEGORIES, cp.ALL_CATEGORIES))

	bb := cp.BB{
		L: -avatarWidth * 0.45,
		B: avatarHeight / 2,
		R: avatarWidth * 0.45,
		T: avatarHeight/2 + 2,
	}
	groundShape := cp.NewBox2(body, bb, 0)
	groundShape.SetSensor(true)
	groundShape.SetCollisionType(collisionTypeGroundSensor)
	groundShape.SetFilter(cp.NewShapeFilter(actorFilterGroup, cp.ALL_CATEGORIES, cp.ALL_CATEGORIES))

	arena.Space().AddBody(body)
	arena.Space().AddShape(shape)
	arena.Space().AddShape(groundShape)

	a := &Avatar{
		arena:       arena,
		body:        body,
		shape:       shape,
		groundShape: groundShape,
		contact:     &contactState{},
		facingRight: true,
	}
	arena.registerGroundSensor(groundShape, a.contact)
	return a
}

// Remove takes the avatar out of the arena's space.
func (a *Avatar) Remove() {
	if a == nil || a.arena == nil {
		return
	}
	a.arena.unregisterGroundSensor(a.groundShape)
	space := a.arena.Space()
	space.RemoveShape(a.groundShape)
	space.RemoveShape(a.shape)
	space.RemoveBody(a.body)
}

func (a *Avatar) Position() cp.Vector {
	return a.body.Position()
}

func (a *Avatar) Velocity() cp.Vector {
	return a.body.Velocity()
}

func (a *Avatar) Grounded() bool {
	return a.contact.grounded
}

func (a *Avatar) FacingRight() bool {
	return a.facingRight
}

func (a *Avatar) ApplyMovement(axis float64) {
	axis = common.Clamp(axis, -1, 1)
	vel := a.body.Velocity()
	vel.X = axis * moveSpeed
	a.body.SetVelocityVector(vel)
	if axis < 0 {
		a.facingRight = false
	} else if axis > 0 {
		a.facingRight = true
	}
}

func (a *Avatar) BeginJump() {
	if !a.contact.grounded {
		return
	}
	vel := a.body.Velocity()
	vel.Y = -jumpSpeed
	a.body.SetVelocityVector(vel)
	a.contact.grounded = false
	a.contact.groundGrace = 0
}

// EndJump cuts a rising jump short for variable jump height. Called every
// tick the jump control is not held, so it must be a cheap no-op once the
// body is past the cut speed.
func (a *Avatar) EndJump() {
	vel := a.body.Velocity()
	if vel.Y < -jumpCutSpeed {
		vel.Y = -jumpCutSpeed
		a.body.SetVelocityVector(vel)
	}
}

func (a *Avatar) BeginDash(dir cp.Vector) {
	if dir.X == 0 && dir.Y == 0 {
		dir = cp.Vector{X: 1}
		if !a.facingRight {
			dir.X = -1
		}
	}
	a.body.SetVelocityVector(dir.Normalize().Mult(dashSpeed))
}

// SetPosition teleports the body and zeroes its velocity, used when a clone
// snaps to its recording's origin.
func (a *Avatar) SetPosition(pos cp.Vector) {
	a.body.SetPosition(pos)
	a.body.SetVelocityVector(cp.Vector{})
}

func (a *Avatar) ApplyExternalForce(force cp.Vector) {
	a.body.ApplyForceAtWorldPoint(force, a.body.Position())
}
