package main

import (
	"github.com/jakecoffman/cp"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypeActor
	collisionTypeGroundSensor
)

const gravity = 1400.0

// actorFilterGroup is shared by the player and every clone so actors pass
// through each other: a clone bumping the player would perturb the live run
// and break replay determinism.
const actorFilterGroup uint = 1

// contactState tracks an actor's ground contact. Grace ticks smooth over
// solver jitter at platform edges.
type contactState struct {
	grounded    bool
	groundGrace int
}

// Arena owns the Chipmunk space shared by the live player and every clone,
// plus the static level geometry.
type Arena struct {
	space     *cp.Space
	contacts  map[*cp.Shape]*contactState
	platforms []cp.BB
}

// NewArena builds a walled arena of the given pixel size.
func NewArena(width, height float64) *Arena {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: gravity})

	a := &Arena{
		space:    space,
		contacts: make(map[*cp.Shape]*contactState),
	}
	a.buildBounds(width, height)
	a.setupHandlers()
	return a
}

// Space returns the underlying Chipmunk space.
func (a *Arena) Space() *cp.Space {
	if a == nil {
		return nil
	}
	return a.space
}

// AddPlatform adds a static box the actors can stand on.
func (a *Arena) AddPlatform(x, y, w, h float64) {
	if a == nil || a.space == nil {
		return
	}
	bb := cp.BB{L: x, B: y, R: x + w, T: y + h}
	shape := cp.NewBox2(a.space.StaticBody, bb, 0)
	shape.SetFriction(0.8)
	shape.SetCollisionType(collisionTypeSolid)
	a.space.AddShape(shape)
	a.platforms = append(a.platforms, bb)
}

// Platforms returns the static platform boxes for rendering.
func (a *Arena) Platforms() []cp.BB {
	if a == nil {
		return nil
	}
	return a.platforms
}

// Step advances the physics simulation one fixed tick. Ground contact decays
// here and is re-established by the collision handlers during the step.
func (a *Arena) Step(dt float64) {
	if a == nil || a.space == nil {
		return
	}
	for _, state := range a.contacts {
		if state.groundGrace > 0 {
			state.groundGrace--
		} else {
			state.grounded = false
		}
	}
	a.space.Step(dt)
}

func (a *Arena) buildBounds(width, height float64) {
	thickness := 1.0
	segments := []struct {
		a cp.Vector
		b cp.Vector
	}{
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: width, Y: 0}},
		{a: cp.Vector{X: 0, Y: height}, b: cp.Vector{X: width, Y: height}},
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: 0, Y: height}},
		{a: cp.Vector{X: width, Y: 0}, b: cp.Vector{X: width, Y: height}},
	}
	for _, seg := range segments {
		shape := cp.NewSegment(a.space.StaticBody, seg.a, seg.b, thickness)
		shape.SetFriction(0.8)
		shape.SetCollisionType(collisionTypeSolid)
		a.space.AddShape(shape)
	}
}

func (a *Arena) setupHandlers() {
	groundHandler := a.space.NewCollisionHandler(collisionTypeGroundSensor, collisionTypeSolid)
	groundHandler.UserData = a
	groundHandler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		arena, ok := userData.(*Arena)
		if !ok || arena == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		state, ok := arena.contacts[shapeA]
		if !ok {
			state, ok = arena.contacts[shapeB]
		}
		if !ok || state == nil {
			return true
		}
		state.grounded = true
		state.groundGrace = 6
		return true
	}
}

func (a *Arena) registerGroundSensor(shape *cp.Shape, state *contactState) {
	if a == nil || shape == nil || state == nil {
		return
	}
	a.contacts[shape] = state
}

func (a *Arena) unregisterGroundSensor(shape *cp.Shape) {
	if a == nil || shape == nil {
		return
	}
	delete(a.contacts, shape)
}
