package scene

import (
	"fmt"
	"log"

	"github.com/milk9111/twentytwenty/assets"
	"github.com/milk9111/twentytwenty/common"
	"github.com/milk9111/twentytwenty/ecs"
	"github.com/milk9111/twentytwenty/ecs/component"
	"github.com/milk9111/twentytwenty/ecs/system"
	"github.com/milk9111/twentytwenty/levels"
)

// imageSpec describes an image or sprite to place.
type imageSpec struct {
	sheet   string
	x, y    float64
	originX float64
	originY float64
	depth   int
	scale   float64
}

// addImage creates an entity showing the first frame of a sheet.
func (s *Session) addImage(img imageSpec) (ecs.Entity, error) {
	w := s.World
	e := ecs.CreateEntity(w)

	scale := img.scale
	if scale == 0 {
		scale = 1
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: img.x, Y: img.y, ScaleX: scale, ScaleY: scale}); err != nil {
		return 0, fmt.Errorf("scene: add transform: %w", err)
	}

	sprite := &component.Sprite{Key: img.sheet, OriginX: img.originX, OriginY: img.originY, Alpha: 1}
	if info, ok := assets.Lookup(img.sheet); ok {
		sprite.Width, sprite.Height = float64(info.W), float64(info.H)
		if info.Frames > 1 {
			sprite.UseSource = true
			sprite.Source.Max.X, sprite.Source.Max.Y = info.W, info.H
		}
	}
	if s.Images != nil {
		sheet, err := s.Images(img.sheet)
		if err != nil {
			return 0, fmt.Errorf("scene: load %s: %w", img.sheet, err)
		}
		sprite.Image = sheet
	}
	if err := ecs.Add(w, e, component.SpriteComponent.Kind(), sprite); err != nil {
		return 0, fmt.Errorf("scene: add sprite: %w", err)
	}
	if err := ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: img.depth}); err != nil {
		return 0, fmt.Errorf("scene: add render layer: %w", err)
	}
	return e, nil
}

// addText creates a bitmap label.
func (s *Session) addText(value string, size, x, y, originX, originY float64, depth int) (ecs.Entity, error) {
	w := s.World
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.TextComponent.Kind(), &component.Text{Value: value, Size: size, OriginX: originX, OriginY: originY}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: depth}); err != nil {
		return 0, err
	}
	return e, nil
}

// addMapImage places a map object by its bottom-left corner behind the
// player. Map images can be cleared once passed.
func (s *Session) addMapImage(obj levels.Object) (ecs.Entity, error) {
	e, err := s.addImage(imageSpec{sheet: obj.Name, x: obj.X, y: obj.Y, originX: 0, originY: 1, depth: common.DepthForegroundBack})
	if err != nil {
		return 0, err
	}
	if err := ecs.Add(s.World, e, component.ClearableComponent.Kind(), &component.Clearable{}); err != nil {
		return 0, err
	}
	return e, nil
}

// placeLayer adds every object of a module's layer and runs its processor.
func (s *Session) placeLayer(module string, table *KindTable) error {
	for _, obj := range s.Level.Layer(module) {
		e, err := s.addMapImage(obj)
		if err != nil {
			return fmt.Errorf("scene: place %s in %s: %w", obj.Name, module, err)
		}
		kind := ParseObjectKind(obj.Name)
		if kind == KindUnknown {
			if s.Debug {
				log.Printf("scene: %s: unknown object %q placed as image", module, obj.Name)
			}
			continue
		}
		if table == nil || table[kind] == nil {
			continue
		}
		if err := table[kind](s, Placed{Entity: e, Kind: kind, Object: obj}); err != nil {
			return fmt.Errorf("scene: process %s in %s: %w", obj.Name, module, err)
		}
	}
	return nil
}

func (s *Session) setDepth(e ecs.Entity, depth int) {
	if layer, ok := ecs.Get(s.World, e, component.RenderLayerComponent.Kind()); ok {
		layer.Index = depth
	}
}

func (s *Session) spriteSize(e ecs.Entity) (w, h float64) {
	sprite, ok := ecs.Get(s.World, e, component.SpriteComponent.Kind())
	if !ok {
		return 0, 0
	}
	sx, sy := 1.0, 1.0
	if t, ok := ecs.Get(s.World, e, component.TransformComponent.Kind()); ok {
		if t.ScaleX != 0 {
			sx = t.ScaleX
		}
		if t.ScaleY != 0 {
			sy = t.ScaleY
		}
	}
	return sprite.Width * sx, sprite.Height * sy
}

// addBody gives e a box body matching its drawn size, whatever its origin.
func (s *Session) addBody(e ecs.Entity, body component.PhysicsBody, layer component.CollisionLayer) error {
	w, h := s.spriteSize(e)
	body.Width, body.Height = w, h
	if sprite, ok := ecs.Get(s.World, e, component.SpriteComponent.Kind()); ok {
		body.OffsetX = (0.5 - sprite.OriginX) * w
		body.OffsetY = (0.5 - sprite.OriginY) * h
	}
	if err := ecs.Add(s.World, e, component.PhysicsBodyComponent.Kind(), &body); err != nil {
		return err
	}
	return ecs.Add(s.World, e, component.CollisionLayerComponent.Kind(), &layer)
}

// critterLayer collides with terrain and the world edges only.
var critterLayer = component.CollisionLayer{Category: component.LayerCritter, Mask: component.LayerGround}

// groundLayer is what terrain and collapsed stocks use.
var groundLayer = component.CollisionLayer{
	Category: component.LayerGround,
	Mask:     component.LayerPlayer | component.LayerHazard | component.LayerCritter,
}

func (s *Session) setPhysicsEnabled(e ecs.Entity, enabled bool) {
	if body, ok := ecs.Get(s.World, e, component.PhysicsBodyComponent.Kind()); ok {
		body.Disabled = !enabled
	}
}

func (s *Session) play(e ecs.Entity, key string) {
	if err := system.PlayAnimation(s.World, e, key); err != nil {
		log.Printf("scene: play %s on %v: %v", key, e, err)
	}
}
