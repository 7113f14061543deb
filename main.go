package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfgPath := flag.String("config", "", "path to a timeloop.yaml (optional, watched for changes)")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("timeloop")

	game := NewGame(*cfgPath)
	ebiten.SetTPS(game.cfg.TickRate)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
