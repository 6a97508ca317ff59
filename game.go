package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/valentine/common"
	"github.com/milk9111/valentine/deck"
	"github.com/milk9111/valentine/ecs"
	"github.com/milk9111/valentine/ecs/component"
	"github.com/milk9111/valentine/ecs/system"
)

type GameConfig struct {
	Deck     *deck.Deck
	DeckPath string
	Watch    bool
	Output   component.AudioOutput
	Logger   *log.Logger
	Quiet    time.Duration
	Master   float64
	Debug    bool
}

type Game struct {
	frames int
	debug  bool

	world   *ecs.World
	render  *system.RenderSystem
	screens map[component.StagePhase]*ebitenui.UI
	faces   *uiFaces

	deckPath string
	watcher  *deck.Watcher
	log      *log.Logger
	closed   bool
}

func NewGame(cfg GameConfig) (*Game, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = common.NopLogger()
	}

	world, err := system.NewSessionWorld(system.SessionConfig{
		Deck:          cfg.Deck,
		Output:        cfg.Output,
		Logger:        logger,
		QuietInterval: cfg.Quiet,
		Master:        cfg.Master,
		Input:         system.NewInputSystem(),
	})
	if err != nil {
		return nil, err
	}

	render, err := system.NewRenderSystem()
	if err != nil {
		return nil, err
	}
	faces, err := newUIFaces()
	if err != nil {
		return nil, err
	}

	g := &Game{
		debug:    cfg.Debug,
		world:    world,
		render:   render,
		faces:    faces,
		deckPath: cfg.DeckPath,
		log:      logger,
	}
	g.buildScreens(cfg.Deck)

	if cfg.Watch {
		if cfg.DeckPath == "" {
			logger.Warn("watch ignored: the embedded deck cannot change")
		} else if w, err := deck.WatchFile(cfg.DeckPath); err != nil {
			logger.Warn("deck watch disabled", "path", cfg.DeckPath, "err", err)
		} else {
			g.watcher = w
			logger.Info("watching deck", "path", cfg.DeckPath)
		}
	}
	return g, nil
}

func (g *Game) buildScreens(d *deck.Deck) {
	g.screens = map[component.StagePhase]*ebitenui.UI{
		component.StageGate:  newGateUI(g.world, d, g.faces),
		component.StageIntro: newIntroUI(g.world, d, g.faces),
		component.StageNope:  newNopeUI(d, g.faces),
	}
}

func (g *Game) Update() error {
	g.frames++

	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.debug = !g.debug
	}
	g.pollDeck()

	if ui := g.screens[system.CurrentStage(g.world)]; ui != nil {
		ui.Update()
	}
	g.world.Update()
	return nil
}

// pollDeck drains the watcher without blocking and reloads the deck on the
// game loop.
func (g *Game) pollDeck() {
	if g.watcher == nil {
		return
	}
	changed := false
drain:
	for {
		select {
		case name := <-g.watcher.Events:
			if sameFile(name, g.deckPath) {
				changed = true
			}
		case err := <-g.watcher.Errors:
			g.log.Warn("deck watch", "err", err)
		default:
			break drain
		}
	}
	if !changed {
		return
	}

	d, err := deck.LoadDeck(g.deckPath)
	if err != nil {
		g.log.Error("deck reload failed, keeping the current deck", "path", g.deckPath, "err", err)
		return
	}
	if err := system.ReloadDeck(g.world, d); err != nil {
		g.log.Error("deck reload", "err", err)
		return
	}
	g.buildScreens(d)
	g.log.Info("deck reloaded", "slides", d.Len(), "tracks", d.Music().Len())
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

func (g *Game) Draw(screen *ebiten.Image) {
	stage := system.CurrentStage(g.world)
	if stage == component.StageSlides {
		g.render.Draw(g.world, screen)
	} else if ui := g.screens[stage]; ui != nil {
		screen.Fill(screenBackground)
		ui.Draw(screen)
	}

	if g.debug {
		ebitenutil.DebugPrint(screen, g.debugText())
	}
}

func (g *Game) debugText() string {
	snap := system.TakeSnapshot(g.world)
	track := snap.Track
	if track == "" {
		track = "-"
	}
	return fmt.Sprintf(
		"stage: %s  slide: %d/%d  locked: %v\ntrack: %s  playing: %v  %s  vol: %.2f\ndeck v%d  tasks: %d  FPS: %.2f",
		snap.Stage, snap.Index, snap.Count, snap.Locked,
		track, snap.Playing, snap.MusicPhase, snap.Volume,
		snap.DeckVersion, snap.PendingTasks, ebiten.ActualFPS(),
	)
}

func (g *Game) Snapshot() system.Snapshot {
	return system.TakeSnapshot(g.world)
}

// Close tears down the session and stops watching the deck.
func (g *Game) Close() {
	if g.closed {
		return
	}
	g.closed = true
	system.Teardown(g.world)
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			g.log.Debug("close deck watcher", "err", err)
		}
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
