package system

import (
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/twentytwenty/ecs"
	"github.com/milk9111/twentytwenty/ecs/component"
	"golang.org/x/image/font/basicfont"
)

// labelFace is the bitmap face every label and title is drawn with; Size
// scales it.
var labelFace = text.NewGoXFace(basicfont.Face7x13)

const labelFaceSize = 13.0

type RenderSystem struct {
	camEntity ecs.Entity
	clear     color.Color
}

// NewRenderSystem creates a renderer that clears to background, or black
// when background is nil.
func NewRenderSystem(background color.Color) *RenderSystem {
	if background == nil {
		background = color.Black
	}
	return &RenderSystem{clear: background}
}

func (r *RenderSystem) Update(_ *ecs.World) {}

type drawable struct {
	e     ecs.Entity
	layer int
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}
	screen.Fill(r.clear)

	if !ecs.IsAlive(w, r.camEntity) {
		if camEntity, ok := ecs.First(w, component.CameraComponent.Kind()); ok {
			r.camEntity = camEntity
		}
	}
	camX, camY := 0.0, 0.0
	if cam, ok := ecs.Get(w, r.camEntity, component.CameraComponent.Kind()); ok {
		camX, camY = cam.X, cam.Y
	}

	items := make([]drawable, 0, 64)
	collect := func(e ecs.Entity) {
		li := 0
		if layer, ok := ecs.Get(w, e, component.RenderLayerComponent.Kind()); ok {
			li = layer.Index
		}
		items = append(items, drawable{e: e, layer: li})
	}
	ecs.ForEach2(w, component.SpriteComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.Sprite, _ *component.Transform) {
		collect(e)
	})
	ecs.ForEach2(w, component.TextComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.Text, _ *component.Transform) {
		if !ecs.Has(w, e, component.SpriteComponent.Kind()) {
			collect(e)
		}
	})
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].layer != items[j].layer {
			return items[i].layer < items[j].layer
		}
		return uint64(items[i].e) < uint64(items[j].e)
	})

	for _, it := range items {
		t, _ := ecs.Get(w, it.e, component.TransformComponent.Kind())
		if s, ok := ecs.Get(w, it.e, component.SpriteComponent.Kind()); ok {
			drawSprite(screen, s, t, camX, camY)
		}
		if txt, ok := ecs.Get(w, it.e, component.TextComponent.Kind()); ok {
			drawLabel(screen, txt.Value, txt.Size, txt.OriginX, txt.OriginY, t.X-camX, t.Y-camY, 1)
		}
	}
}

func drawSprite(screen *ebiten.Image, s *component.Sprite, t *component.Transform, camX, camY float64) {
	if s.Hidden || s.Image == nil {
		return
	}
	img := s.Image
	if s.UseSource {
		if sub, ok := s.Image.SubImage(s.Source).(*ebiten.Image); ok {
			img = sub
		}
	}
	iw, ih := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-s.OriginX*iw, -s.OriginY*ih)
	sx, sy := scaleOf(t)
	if s.FlipX {
		sx = -sx
	}
	op.GeoM.Scale(sx, sy)
	op.GeoM.Rotate(t.Rotation)
	op.GeoM.Translate(t.X-camX, t.Y-camY)
	if s.Alpha > 0 && s.Alpha < 1 {
		op.ColorScale.ScaleAlpha(float32(s.Alpha))
	}
	screen.DrawImage(img, op)
}

func scaleOf(t *component.Transform) (float64, float64) {
	sx, sy := t.ScaleX, t.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	return sx, sy
}

// drawLabel draws value with its normalized origin at (x, y) in screen space.
func drawLabel(screen *ebiten.Image, value string, size, originX, originY, x, y, alpha float64) {
	if value == "" {
		return
	}
	if size <= 0 {
		size = labelFaceSize
	}
	scale := size / labelFaceSize
	tw, th := text.Measure(value, labelFace, labelFaceSize)

	op := &text.DrawOptions{}
	op.GeoM.Translate(-originX*tw, -originY*th)
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(color.White)
	op.ColorScale.ScaleAlpha(float32(alpha))
	op.LineSpacing = labelFaceSize
	text.Draw(screen, value, labelFace, op)
}
