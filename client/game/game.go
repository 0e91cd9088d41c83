package game

import (
	"fmt"

	"github.com/cbodonnell/coinflip/client/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const (
	DefaultScreenWidth  = 640
	DefaultScreenHeight = 480
)

// PendingRunner runs scheduled callbacks that became due.
type PendingRunner interface {
	RunPending() int
	Pending() int
}

// Game implements ebiten.Game interface, which has Update, Draw and Layout methods.
type Game struct {
	// debug is a boolean value indicating whether debug mode is enabled.
	debug bool
	// scheduler delivers flip completions onto the ebiten goroutine.
	scheduler PendingRunner
	// scene is the current scene.
	scene scenes.Scene
}

type NewGameOptions struct {
	Debug     bool
	Scheduler PendingRunner
	Scene     scenes.Scene
}

func NewGame(opts NewGameOptions) (*Game, error) {
	g := &Game{
		debug:     opts.Debug,
		scheduler: opts.Scheduler,
	}

	if err := g.SetScene(opts.Scene); err != nil {
		return nil, fmt.Errorf("failed to set scene: %v", err)
	}

	return g, nil
}

func (g *Game) SetScene(scene scenes.Scene) error {
	if g.scene != nil {
		if err := g.scene.Destroy(); err != nil {
			return fmt.Errorf("failed to destroy previous scene: %v", err)
		}
	}

	g.scene = scene
	if err := g.scene.Init(); err != nil {
		return fmt.Errorf("failed to initialize scene: %v", err)
	}

	return nil
}

func (g *Game) Update() error {
	// Update the current scene
	if err := g.scene.Update(); err != nil {
		return fmt.Errorf("failed to update scene: %v", err)
	}

	// Land any flip whose delay has elapsed
	g.scheduler.RunPending()

	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
	if g.debug {
		g.drawDebugOverlay(screen)
	}
}

func (g *Game) drawDebugOverlay(screen *ebiten.Image) {
	ebitenutil.DebugPrint(screen, fmt.Sprintf("\n   FPS: %0.1f", ebiten.ActualFPS()))
	ebitenutil.DebugPrint(screen, fmt.Sprintf("\n\n   TPS: %0.1f", ebiten.ActualTPS()))
	ebitenutil.DebugPrint(screen, fmt.Sprintf("\n\n\n   Pending: %d", g.scheduler.Pending()))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return DefaultScreenWidth, DefaultScreenHeight
}
