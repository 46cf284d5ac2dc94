package component

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Sprite draws an image (or a frame of a sheet) anchored at the transform.
// OriginX/OriginY are normalized: (0.5, 0.5) is the center, (0, 1) the
// bottom-left corner.
type Sprite struct {
	Key       string
	Image     *ebiten.Image
	Source    image.Rectangle
	UseSource bool
	Width     float64
	Height    float64
	OriginX   float64
	OriginY   float64
	FlipX     bool
	Alpha     float64
	Hidden    bool
}

var SpriteComponent = NewComponent[Sprite]()
