package scene

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/twentytwenty/assets"
	"github.com/milk9111/twentytwenty/common"
	"github.com/milk9111/twentytwenty/ecs"
	"github.com/milk9111/twentytwenty/ecs/component"
	"github.com/milk9111/twentytwenty/levels"
	"github.com/milk9111/twentytwenty/prefabs"
)

const groundSheet = "ground"

// Stage is the fixed scaffolding of a level: bounds, terrain, triggers, the
// player and the camera.
type Stage struct {
	Player ecs.Entity
	Camera ecs.Entity
}

// StageOptions tune BuildStage. StartX places the player, usually at a
// checkpoint; triggers behind it are marked fired.
type StageOptions struct {
	Player prefabs.PlayerSpec
	Camera prefabs.CameraSpec
	StartX float64
	// Images loads sheets; nil leaves sprites without images.
	Images func(name string) (*ebiten.Image, error)
}

// BuildStage populates w from the level file.
func BuildStage(w *ecs.World, level *levels.World, opts StageOptions) (Stage, error) {
	if w == nil || level == nil {
		return Stage{}, fmt.Errorf("%w: nil world or level", ErrInvalidArgument)
	}

	bounds := ecs.CreateEntity(w)
	if err := ecs.Add(w, bounds, component.LevelBoundsComponent.Kind(), &component.LevelBounds{Width: level.Width, Height: level.Height}); err != nil {
		return Stage{}, err
	}

	for _, r := range level.Ground {
		if err := addGround(w, r, opts.Images); err != nil {
			return Stage{}, fmt.Errorf("scene: ground: %w", err)
		}
	}

	for _, tr := range level.Triggers {
		e := ecs.CreateEntity(w)
		fired := tr.X < opts.StartX
		if err := ecs.Add(w, e, component.TriggerComponent.Kind(), &component.Trigger{X: tr.X, Module: tr.Module, Action: tr.Action, Fired: fired}); err != nil {
			return Stage{}, err
		}
	}

	player, err := addPlayer(w, level, opts)
	if err != nil {
		return Stage{}, fmt.Errorf("scene: player: %w", err)
	}

	cam := ecs.CreateEntity(w)
	if err := ecs.Add(w, cam, component.CameraComponent.Kind(), &component.Camera{
		Width:      common.BaseWidth,
		Height:     common.BaseHeight,
		LeadX:      opts.Camera.LeadX,
		Smoothness: opts.Camera.Smoothness,
	}); err != nil {
		return Stage{}, err
	}
	if err := ecs.Add(w, cam, component.CameraTagComponent.Kind(), &component.CameraTag{}); err != nil {
		return Stage{}, err
	}
	return Stage{Player: player, Camera: cam}, nil
}

// addGround stretches the ground tile over r.
func addGround(w *ecs.World, r levels.Rect, images func(string) (*ebiten.Image, error)) error {
	tileW, tileH := r.W, r.H
	if info, ok := assets.Lookup(groundSheet); ok {
		tileW, tileH = float64(info.W), float64(info.H)
	}
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: r.X, Y: r.Y, ScaleX: r.W / tileW, ScaleY: r.H / tileH}); err != nil {
		return err
	}
	sprite := &component.Sprite{Key: groundSheet, Width: tileW, Height: tileH, Alpha: 1}
	if images != nil {
		img, err := images(groundSheet)
		if err != nil {
			return err
		}
		sprite.Image = img
	}
	if err := ecs.Add(w, e, component.SpriteComponent.Kind(), sprite); err != nil {
		return err
	}
	if err := ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: common.DepthTerrain}); err != nil {
		return err
	}
	// Terrain elasticity 1 lets each body's own bounce decide the rebound.
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width: r.W, Height: r.H, OffsetX: r.W / 2, OffsetY: r.H / 2,
		Static: true, Friction: 0.8, Elasticity: 1,
	}); err != nil {
		return err
	}
	layer := groundLayer
	if err := ecs.Add(w, e, component.CollisionLayerComponent.Kind(), &layer); err != nil {
		return err
	}
	return ecs.Add(w, e, component.GroundTagComponent.Kind(), &component.GroundTag{})
}

func addPlayer(w *ecs.World, level *levels.World, opts StageOptions) (ecs.Entity, error) {
	spec := opts.Player
	x, y := level.Spawn.X, level.Spawn.Y
	if opts.StartX > 0 {
		x = opts.StartX
	}

	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1}); err != nil {
		return 0, err
	}
	sprite := &component.Sprite{Key: spec.Sprite.Image, OriginX: spec.Sprite.OriginX, OriginY: spec.Sprite.OriginY, Alpha: 1}
	if info, ok := assets.Lookup(spec.Sprite.Image); ok {
		sprite.Width, sprite.Height = float64(info.W), float64(info.H)
	}
	if opts.Images != nil && spec.Sprite.Image != "" {
		img, err := opts.Images(spec.Sprite.Image)
		if err != nil {
			return 0, err
		}
		sprite.Image = img
	}
	if err := ecs.Add(w, e, component.SpriteComponent.Kind(), sprite); err != nil {
		return 0, err
	}
	depth := spec.RenderLayer.Index
	if depth == 0 {
		depth = common.DepthPlayer
	}
	if err := ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: depth}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.PlayerComponent.Kind(), &component.Player{MoveSpeed: spec.MoveSpeed, JumpSpeed: spec.JumpSpeed}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.PlayerCollisionComponent.Kind(), &component.PlayerCollision{}); err != nil {
		return 0, err
	}
	width, height := spec.Collider.Width, spec.Collider.Height
	if width <= 0 || height <= 0 {
		width, height = 36, 60
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width: width, Height: height,
		OffsetX: spec.Collider.OffsetX, OffsetY: spec.Collider.OffsetY,
		Friction: spec.Collider.Friction, Elasticity: spec.Collider.Elasticity,
	}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.CollisionLayerComponent.Kind(), &component.CollisionLayer{
		Category: component.LayerPlayer,
		Mask:     component.LayerGround | component.LayerHazard,
	}); err != nil {
		return 0, err
	}
	return e, nil
}
