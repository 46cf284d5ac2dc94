package system

import (
	"github.com/milk9111/twentytwenty/common"
	"github.com/milk9111/twentytwenty/ecs"
	"github.com/milk9111/twentytwenty/ecs/component"
)

// CameraSystem follows the player horizontally, clamped to the level bounds.
type CameraSystem struct {
	camEntity ecs.Entity
}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{}
}

func (cs *CameraSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	if !ecs.IsAlive(w, cs.camEntity) {
		camEntity, ok := ecs.First(w, component.CameraComponent.Kind())
		if !ok {
			return
		}
		cs.camEntity = camEntity
	}
	cam, ok := ecs.Get(w, cs.camEntity, component.CameraComponent.Kind())
	if !ok {
		return
	}
	if cam.Width <= 0 || cam.Height <= 0 {
		cam.Width, cam.Height = common.BaseWidth, common.BaseHeight
	}

	px, _, ok := PlayerPosition(w)
	if !ok {
		return
	}
	target := px - cam.Width/2 + cam.LeadX

	maxX, maxY := target, 0.0
	if be, ok := ecs.First(w, component.LevelBoundsComponent.Kind()); ok {
		if b, ok := ecs.Get(w, be, component.LevelBoundsComponent.Kind()); ok {
			maxX = b.Width - cam.Width
			maxY = b.Height - cam.Height
		}
	}
	target = common.Clamp(target, 0, max(maxX, 0))

	if cam.Smoothness <= 0 || cam.Smoothness >= 1 {
		cam.X = target
	} else {
		cam.X += (target - cam.X) * cam.Smoothness
	}
	cam.Y = max(maxY, 0)
}

// SnapCamera moves the camera onto its target immediately, used after a
// level load or checkpoint restart.
func SnapCamera(w *ecs.World) {
	e, ok := ecs.First(w, component.CameraComponent.Kind())
	if !ok {
		return
	}
	cam, _ := ecs.Get(w, e, component.CameraComponent.Kind())
	smooth := cam.Smoothness
	cam.Smoothness = 0
	NewCameraSystem().Update(w)
	cam.Smoothness = smooth
}

// CameraView returns the camera's top-left corner and size.
func CameraView(w *ecs.World) (x, y, width, height float64) {
	e, ok := ecs.First(w, component.CameraComponent.Kind())
	if !ok {
		return 0, 0, common.BaseWidth, common.BaseHeight
	}
	cam, _ := ecs.Get(w, e, component.CameraComponent.Kind())
	width, height = cam.Width, cam.Height
	if width <= 0 || height <= 0 {
		width, height = common.BaseWidth, common.BaseHeight
	}
	return cam.X, cam.Y, width, height
}
