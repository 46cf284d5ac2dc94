package main

import (
	"fmt"
	"log"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/twentytwenty/analytics"
	"github.com/milk9111/twentytwenty/assets"
	"github.com/milk9111/twentytwenty/common"
	"github.com/milk9111/twentytwenty/ecs"
	"github.com/milk9111/twentytwenty/ecs/render"
	"github.com/milk9111/twentytwenty/ecs/system"
	"github.com/milk9111/twentytwenty/levels"
	"github.com/milk9111/twentytwenty/prefabs"
	"github.com/milk9111/twentytwenty/save"
	"github.com/milk9111/twentytwenty/scene"
)

// loaders opens images and tracks. Tests swap them for fakes so no GPU or
// audio device is needed.
type loaders struct {
	images func(name string) (*ebiten.Image, error)
	tracks system.TrackLoader
}

func defaultLoaders() loaders {
	return loaders{
		images: assets.LoadImage,
		tracks: func(name string) (system.Track, error) {
			p, err := assets.LoadAudioPlayer(name)
			if err != nil {
				return nil, err
			}
			return p, nil
		},
	}
}

type Game struct {
	cfg     Config
	load    loaders
	frames  int
	paused  bool
	quit    bool
	pauseUI *ebitenui.UI

	level   *levels.World
	stock   prefabs.StockSpec
	player  prefabs.PlayerSpec
	camera  prefabs.CameraSpec
	store   *save.Store
	tracker *analytics.Tracker
	sound   *system.SoundSystem
	lib     *render.AnimationLibrary
	watcher *levels.Watcher

	world   *ecs.World
	session *scene.Session
}

func NewGame(cfg Config, load loaders) (*Game, error) {
	level, err := levels.Load(cfg.Level)
	if err != nil {
		return nil, err
	}
	g := &Game{
		cfg:     cfg,
		load:    load,
		level:   level,
		tracker: analytics.NewTracker(cfg.Counter),
		sound:   system.NewSoundSystem(load.tracks),
		lib:     render.NewAnimationLibrary(frameCount),
	}
	g.loadSpecs()
	system.DefinePlayerAnimations(g.lib)

	g.store, err = save.Open(cfg.SaveApp)
	if err != nil {
		log.Printf("game: %v; progress will not be kept", err)
	}
	if cfg.Fresh {
		if err := g.store.Reset(); err != nil {
			log.Printf("game: %v", err)
		}
	}
	if err := g.store.SetRunID(g.tracker.RunID()); err != nil {
		log.Printf("game: %v", err)
	}

	if cfg.Watch {
		g.watcher, err = levels.NewWatcher("levels", "levels/scripts")
		if err != nil {
			log.Printf("game: watch levels: %v", err)
		}
	}

	checkpoint := g.store.LoadCheckpoint()
	if cfg.Checkpoint >= 0 {
		checkpoint = cfg.Checkpoint
	}
	if err := g.restart(checkpoint); err != nil {
		return nil, err
	}
	return g, nil
}

func frameCount(sheet string) int {
	info, ok := assets.Lookup(sheet)
	if !ok {
		return 0
	}
	return info.Frames
}

func sheetSource(images func(string) (*ebiten.Image, error)) system.SheetSource {
	return func(sheet string) (*ebiten.Image, int, int, bool) {
		info, ok := assets.Lookup(sheet)
		if !ok {
			return nil, 0, 0, false
		}
		var img *ebiten.Image
		if images != nil {
			var err error
			if img, err = images(sheet); err != nil {
				return nil, 0, 0, false
			}
		}
		return img, info.W, info.H, true
	}
}

// loadSpecs reads the tuning files, keeping built-in values for any that
// fail to load.
func (g *Game) loadSpecs() {
	var err error
	if g.stock, err = prefabs.LoadStockSpec(); err != nil {
		log.Printf("game: stock spec: %v", err)
		g.stock = scene.DefaultStockSpec
	}
	if g.player, err = prefabs.LoadPlayerSpec(); err != nil {
		log.Printf("game: player spec: %v", err)
	}
	if g.camera, err = prefabs.LoadCameraSpec(); err != nil {
		log.Printf("game: camera spec: %v", err)
	}
}

// restart tears the level down and rebuilds it with the player at a
// checkpoint. Triggers behind the checkpoint do not fire again.
func (g *Game) restart(checkpoint int) error {
	if g.session != nil {
		g.session.Close()
	}
	g.sound.StopAll()

	startX := 0.0
	if cp, ok := g.level.Checkpoint(checkpoint); ok && checkpoint > 0 {
		startX = cp.X
	}

	w := ecs.NewWorld()
	timers := system.NewTimerSystem(common.Step)
	physics := system.NewPhysicsSystem(common.Step)

	if _, err := scene.BuildStage(w, g.level, scene.StageOptions{
		Player: g.player,
		Camera: g.camera,
		StartX: startX,
		Images: g.load.images,
	}); err != nil {
		return fmt.Errorf("game: build stage: %w", err)
	}

	session, err := scene.NewSession(scene.Deps{
		World:       w,
		Colliders:   physics,
		Timers:      timers,
		Animations:  g.lib,
		Audio:       g.sound,
		Goals:       g.tracker,
		Checkpoints: g.store,
		Images:      g.load.images,
		Stock:       g.stock,
		ThrowFrames: g.player.ThrowFrames,
		Debug:       g.cfg.Debug,
	}, g.level)
	if err != nil {
		return fmt.Errorf("game: start level: %w", err)
	}

	renderer := system.NewRenderSystem(nil)
	if bg := g.camera.Background; bg != nil {
		renderer = system.NewRenderSystem(bg.Color)
	}
	trigger := system.NewTriggerSystem(session.Fire)
	trigger.Debug = g.cfg.Debug

	w.AddSystem(system.NewInputSystem())
	w.AddSystem(system.NewPlayerControllerSystem())
	w.AddSystem(trigger)
	w.AddSystem(timers)
	w.AddSystem(system.NewTweenSystem(common.Step))
	w.AddSystem(physics)
	w.AddSystem(system.NewAttachSystem())
	w.AddSystem(system.NewAnimationSystem(g.lib, sheetSource(g.load.images), common.Step))
	w.AddSystem(system.NewCameraSystem())
	w.AddSystem(renderer)
	w.AddSystem(system.NewTitleSystem(common.Step))
	w.AddSystem(g.sound)
	if g.cfg.Debug {
		w.AddSystem(system.NewPhysicsDebugSystem(physics))
	}

	system.SnapCamera(w)
	g.world, g.session = w, session
	if g.cfg.Debug {
		log.Printf("game: level %s from checkpoint %d at x=%v", g.level.Name, checkpoint, startX)
	}
	return nil
}

// reload re-reads the level file after an edit and restarts at the current
// checkpoint. A broken file keeps the running level.
func (g *Game) reload(changed string) {
	level, err := levels.Load(g.cfg.Level)
	if err != nil {
		log.Printf("game: reload after %s: %v", changed, err)
		return
	}
	g.level = level
	if err := g.restart(g.session.Checkpoint()); err != nil {
		log.Printf("game: reload after %s: %v", changed, err)
		return
	}
	log.Printf("game: reloaded %s", changed)
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
		if g.pauseUI == nil {
			g.pauseUI = NewPauseUI(g)
		}
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}
	g.frames++

	if changed, ok := g.watcher.Poll(); ok {
		g.reload(changed)
	}

	g.world.Update()
	return g.handleEvents()
}

// handleEvents applies what the level asked of the game loop this tick.
func (g *Game) handleEvents() error {
	for _, evt := range g.world.Events().Drain() {
		switch evt.Type {
		case ecs.EventGameOver:
			checkpoint, _ := evt.Data.(int)
			if err := g.restart(checkpoint); err != nil {
				return err
			}
			// The old world's remaining events belong to a dead level.
			return nil
		case ecs.EventCheckpoint:
			if g.cfg.Debug {
				log.Printf("game: checkpoint %v", evt.Data)
			}
		}
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.world.Draw(screen)
	if g.cfg.Debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("Frames: %d    FPS: %.2f    Checkpoint: %d", g.frames, ebiten.ActualFPS(), g.session.Checkpoint()))
	}
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// Close releases the level and the file watcher.
func (g *Game) Close() {
	if g.session != nil {
		g.session.Close()
	}
	g.sound.StopAll()
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}
