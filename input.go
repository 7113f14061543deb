package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/timeloop/loop"
)

const windForce = 900.0

// Input samples the keyboard and first gamepad into a loop.Input once per
// tick. Edges come from inpututil so a held key records as a single press.
type Input struct{}

func NewInput() *Input {
	return &Input{}
}

func (i *Input) Sample(facingRight bool) loop.Input {
	const stickDeadzone = 0.2

	left := ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	right := ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	up := ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp)
	down := ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown)

	jumpHeld := ebiten.IsKeyPressed(ebiten.KeySpace)
	jumpPressed := inpututil.IsKeyJustPressed(ebiten.KeySpace)
	dashPressed := inpututil.IsKeyJustPressed(ebiten.KeyShiftLeft)
	interactPressed := inpututil.IsKeyJustPressed(ebiten.KeyE)
	attackPressed := inpututil.IsKeyJustPressed(ebiten.KeyJ) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)

	moveX := 0.0
	if left {
		moveX -= 1
	}
	if right {
		moveX += 1
	}
	dashY := 0.0
	if up {
		dashY -= 1
	}
	if down {
		dashY += 1
	}

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		leftX := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if math.Abs(leftX) > stickDeadzone {
			moveX = leftX
		}
		leftY := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Abs(leftY) > stickDeadzone {
			dashY = leftY
		}

		jumpHeld = jumpHeld || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
		jumpPressed = jumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		dashPressed = dashPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonFrontBottomRight)
		interactPressed = interactPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightRight)
		attackPressed = attackPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightLeft)
	}

	in := loop.Input{
		MoveX:           moveX,
		JumpPressed:     jumpPressed,
		JumpHeld:        jumpHeld,
		DashPressed:     dashPressed,
		InteractPressed: interactPressed,
		AttackPressed:   attackPressed,
	}

	if dashPressed {
		dir := cp.Vector{X: moveX, Y: dashY}
		if dir.X == 0 && dir.Y == 0 {
			dir.X = 1
			if !facingRight {
				dir.X = -1
			}
		}
		in.DashDir = dir
	}

	// hold G for a wind gust, recorded as an external force
	if ebiten.IsKeyPressed(ebiten.KeyG) {
		in.ExternalForce = cp.Vector{X: windForce}
	}

	return in
}
