package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"

	"github.com/milk9111/timeloop/config"
	"github.com/milk9111/timeloop/loop"
	"github.com/milk9111/timeloop/script"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	messageTicks = 120
)

// cloneScript gives replayed interact/attack edges a visible consumer.
const cloneScript = `
on_interact := func(host, state) {
	host.pulse()
}
on_attack := func(host, state) {
	host.pulse()
}
`

type Game struct {
	cfg     config.Config
	cfgPath string

	arena   *Arena
	input   *Input
	player  *Avatar
	manager *loop.Manager
	watcher *config.Watcher

	pixel        *ebiten.Image
	frames       int
	pulses       int
	message      string
	messageTimer int
}

func NewGame(cfgPath string) *Game {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("game: load config: %v (using defaults)", err)
	}

	g := &Game{
		cfg:     cfg,
		cfgPath: cfgPath,
		input:   NewInput(),
	}

	g.arena = NewArena(baseWidth, baseHeight)
	g.arena.AddPlatform(200, 540, 300, 24)
	g.arena.AddPlatform(580, 430, 220, 24)
	g.arena.AddPlatform(900, 320, 240, 24)

	g.player = NewAvatar(g.arena, cp.Vector{X: 140, Y: baseHeight - avatarHeight})

	g.manager = loop.NewManager(loop.Settings{
		Capacity:          cfg.Capacity,
		LoopDurationTicks: cfg.LoopDurationTicks(),
		Spawn:             g.spawnClone,
		Despawn:           g.despawnClone,
	})

	if cfgPath != "" {
		watcher, err := config.NewWatcher(cfgPath)
		if err != nil {
			log.Printf("game: watch config: %v", err)
		} else {
			g.watcher = watcher
		}
	}

	g.pixel = ebiten.NewImage(1, 1)
	g.pixel.Fill(colornames.White)
	return g
}

func (g *Game) spawnClone(id int) (loop.Body, loop.Interactor) {
	body := NewAvatar(g.arena, g.player.Position())
	inter, err := script.NewInteractor([]byte(cloneScript), script.Funcs{
		"pulse": func() { g.pulses++ },
	})
	if err != nil {
		log.Printf("game: clone %d interactor: %v", id, err)
		return body, nil
	}
	return body, inter
}

func (g *Game) despawnClone(id int, b loop.Body) {
	if av, ok := b.(*Avatar); ok {
		av.Remove()
	}
}

func (g *Game) Update() error {
	g.frames++

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.manager.TriggerManualLoop()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		g.manager.ClearAll()
	}

	in := g.input.Sample(g.player.FacingRight())
	g.manager.Sample(in, g.player)
	applyInput(g.player, in)
	g.manager.Tick()
	g.arena.Step(1.0 / float64(g.cfg.TickRate))

	for _, evt := range g.manager.Events().Drain() {
		g.showEvent(evt)
	}
	g.pollConfigReload()

	if g.messageTimer > 0 {
		g.messageTimer--
	} else {
		g.message = ""
	}
	return nil
}

// applyInput drives the live player through the same command order the
// replayer uses, so a clone's physics matches the original run.
func applyInput(a *Avatar, in loop.Input) {
	a.ApplyMovement(in.MoveX)
	if in.JumpPressed {
		a.BeginJump()
	}
	if !in.JumpHeld {
		a.EndJump()
	}
	if in.DashPressed {
		a.BeginDash(in.DashDir)
	}
	if in.ExternalForce.X != 0 || in.ExternalForce.Y != 0 {
		a.ApplyExternalForce(in.ExternalForce)
	}
}

func (g *Game) showEvent(evt loop.Event) {
	switch evt.Type {
	case loop.EventSessionStarted:
		g.setMessage("recording...")
	case loop.EventSessionEnded:
		se, _ := evt.Data.(loop.SessionEnded)
		if se.CloneCreated {
			g.setMessage(fmt.Sprintf("loop ended: clone #%d (%d frames)", se.CloneID, se.Frames))
		} else {
			g.setMessage("loop ended: nothing recorded")
		}
	case loop.EventCloneCompleted:
		g.setMessage(fmt.Sprintf("clone #%d finished its loop", evt.Data.(loop.CloneEvent).ID))
	case loop.EventCloneStuck:
		g.setMessage(fmt.Sprintf("clone #%d is stuck", evt.Data.(loop.CloneEvent).ID))
	case loop.EventCloneEvicted:
		g.setMessage(fmt.Sprintf("clone #%d faded away", evt.Data.(loop.CloneEvent).ID))
	}
}

func (g *Game) setMessage(msg string) {
	g.message = msg
	g.messageTimer = messageTicks
}

func (g *Game) pollConfigReload() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case _, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			cfg, err := config.Load(g.cfgPath)
			if err != nil {
				log.Printf("game: reload config: %v", err)
				continue
			}
			g.cfg = cfg
			g.manager.SetCapacity(cfg.Capacity)
			g.manager.SetLoopDuration(cfg.LoopDurationTicks())
			ebiten.SetTPS(cfg.TickRate)
			log.Printf("game: config reloaded: capacity=%d loop=%d ticks", cfg.Capacity, cfg.LoopDurationTicks())
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("game: config watcher: %v", err)
		default:
			return
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)

	for _, bb := range g.arena.Platforms() {
		g.drawRect(screen, bb.L, bb.B, bb.R-bb.L, bb.T-bb.B, colornames.Darkslategray)
	}

	for _, rp := range g.manager.Replayers() {
		av, ok := rp.Body().(*Avatar)
		if !ok || av == nil {
			continue
		}
		clr := colornames.Steelblue
		switch rp.State() {
		case loop.Completed:
			clr = colornames.Seagreen
		case loop.Stuck:
			clr = colornames.Orange
		}
		pos := av.Position()
		g.drawRect(screen, pos.X-avatarWidth/2, pos.Y-avatarHeight/2, avatarWidth, avatarHeight, clr)
		// progress sliver above each clone
		g.drawRect(screen, pos.X-avatarWidth/2, pos.Y-avatarHeight/2-6, avatarWidth*rp.Progress(), 3, colornames.White)
	}

	pos := g.player.Position()
	g.drawRect(screen, pos.X-avatarWidth/2, pos.Y-avatarHeight/2, avatarWidth, avatarHeight, colornames.Crimson)

	status := "idle"
	if g.manager.Recording() {
		status = fmt.Sprintf("recording %d ticks", g.manager.Elapsed())
	}
	hud := fmt.Sprintf(
		"FPS: %.0f  %s  clones: %d/%d  pulses: %d\nTab: loop  Backspace: clear  Shift: dash  E: interact  G: wind\n%s",
		ebiten.ActualFPS(), status, len(g.manager.Replayers()), g.cfg.Capacity, g.pulses, g.message,
	)
	ebitenutil.DebugPrint(screen, hud)
}

func (g *Game) drawRect(screen *ebiten.Image, x, y, w, h float64, clr color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	screen.DrawImage(g.pixel, op)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}
