package scene

import (
	"math"
	"time"

	"github.com/milk9111/twentytwenty/common"
	"github.com/milk9111/twentytwenty/ecs"
	"github.com/milk9111/twentytwenty/ecs/component"
	"github.com/milk9111/twentytwenty/ecs/render"
	"github.com/milk9111/twentytwenty/ecs/system"
)

const (
	stockMarketTitleHold = 2000 * time.Millisecond
	catRunSpeed          = 700
	turtleSpeed          = 1
)

// level3 is 2020: the stock market crash and the quarantine at home.
type level3 struct {
	homeWalls   []ecs.Entity
	toiletItems []ecs.Entity
	cat         ecs.Entity
	owl         ecs.Entity
	turtle      ecs.Entity
	quarantine  *Sequence[ecs.Entity]
}

func (l *level3) Name() string { return "level3" }

func (l *level3) Preload(s *Session) error {
	l.homeWalls = nil
	l.toiletItems = nil

	var table KindTable
	foreground := func(s *Session, p Placed) error {
		s.setDepth(p.Entity, common.DepthForegroundMain)
		return nil
	}
	table[KindMask] = foreground
	table[KindCorona] = foreground
	table[KindBush] = foreground
	table[KindHome] = foreground
	table[KindCat] = l.processCat
	table[KindClosed] = rotateClosed
	table[KindHomeWall1] = l.processHomeWall
	table[KindHomeWall2] = l.processHomeWall
	table[KindOwl] = l.processOwl
	table[KindToilet] = l.processToiletItem
	table[KindBook1] = l.processToiletItem
	table[KindBook2] = l.processToiletItem
	table[KindBook3] = l.processToiletItem
	table[KindTurtle] = l.processTurtle

	if err := s.placeLayer(l.Name(), &table); err != nil {
		return err
	}
	DefineStockAnimations(s.Animations, s.stockSpec())
	return s.Audio.Add("clock", false, common.VolumeClock)
}

func (l *level3) Actions() map[Action]ActionFunc {
	return map[Action]ActionFunc{
		"checkpoint4":     l.checkpoint4,
		"checkpoint5":     l.checkpoint5,
		"checkpoint6":     l.checkpoint6,
		"showTitle":       l.showTitle,
		"startQuarantine": l.startQuarantine,
		"resumeMusic":     l.resumeMusic,
	}
}

func (l *level3) checkpoint4(s *Session) error {
	s.SetCheckpoint(4)
	s.Audio.SetMain("full")
	return nil
}

func (l *level3) checkpoint5(s *Session) error {
	s.SetCheckpoint(5)
	s.ClearScene()
	s.Audio.SetMain("full")
	return nil
}

func (l *level3) checkpoint6(s *Session) error {
	s.SetCheckpoint(6)
	return nil
}

func (l *level3) showTitle(s *Session) error {
	s.Title("STOCK MARKET CRASH", stockMarketTitleHold)
	return nil
}

// startQuarantine locks the player in the home while the toilet supplies
// run out one by one; when the last is gone the walls drop and the cat
// bolts.
func (l *level3) startQuarantine(s *Session) error {
	seq, err := StartSequence(s.Timers, l.toiletItems, common.DurationQuarantine,
		func(item ecs.Entity) { ecs.DestroyEntity(s.World, item) },
		func() { l.endQuarantine(s) },
	)
	if err != nil {
		return err
	}
	l.quarantine = seq
	l.toiletItems = nil
	s.cancels = append(s.cancels, seq.Cancel)

	s.Title("QUARANTINE", common.DurationQuarantine)
	s.Audio.StopMain()
	s.Audio.Play("clock")
	for _, wall := range l.homeWalls {
		s.setPhysicsEnabled(wall, true)
	}
	return nil
}

func (l *level3) endQuarantine(s *Session) {
	for _, wall := range l.homeWalls {
		s.setPhysicsEnabled(wall, false)
	}
	s.Audio.Stop("clock")
	if sprite, ok := ecs.Get(s.World, l.cat, component.SpriteComponent.Kind()); ok {
		sprite.FlipX = true
	}
	s.play(l.cat, "3-cat-run")
	system.SetVelocityX(s.World, l.cat, catRunSpeed)
}

func (l *level3) resumeMusic(s *Session) error {
	s.Audio.SetMain("beats")
	s.Audio.Destroy("clock")
	return nil
}

// rotateClosed re-anchors the sign at its center before tilting it.
func rotateClosed(s *Session, p Placed) error {
	w, h := s.spriteSize(p.Entity)
	sprite, _ := ecs.Get(s.World, p.Entity, component.SpriteComponent.Kind())
	t, _ := ecs.Get(s.World, p.Entity, component.TransformComponent.Kind())
	if sprite == nil || t == nil {
		return nil
	}
	sprite.OriginX, sprite.OriginY = 0.5, 0.5
	t.X += w / 2
	t.Y -= h / 2
	t.Rotation = math.Pi / 8
	return nil
}

func (l *level3) processHomeWall(s *Session, p Placed) error {
	s.setDepth(p.Entity, common.DepthImportant)
	if err := s.addBody(p.Entity, component.PhysicsBody{Static: true, Disabled: true}, component.CollisionLayer{
		Category: component.LayerGround,
		Mask:     component.LayerPlayer,
	}); err != nil {
		return err
	}
	l.homeWalls = append(l.homeWalls, p.Entity)
	return nil
}

func (l *level3) processToiletItem(s *Session, p Placed) error {
	s.setDepth(p.Entity, common.DepthForegroundMain)
	l.toiletItems = append(l.toiletItems, p.Entity)
	return nil
}

func (l *level3) processOwl(s *Session, p Placed) error {
	if t, ok := ecs.Get(s.World, p.Entity, component.TransformComponent.Kind()); ok {
		t.ScaleX, t.ScaleY = 2, 2
	}
	s.Animations.Define(render.AnimationDef{Key: "3-owl", Start: 0, End: 3, FrameRate: 4, Repeat: render.RepeatForever, Yoyo: true})
	s.play(p.Entity, "3-owl")
	l.owl = p.Entity
	return nil
}

func (l *level3) processTurtle(s *Session, p Placed) error {
	if err := s.addBody(p.Entity, component.PhysicsBody{}, critterLayer); err != nil {
		return err
	}
	s.Animations.Define(render.AnimationDef{Key: "3-turtle", Start: 0, End: 3, FrameRate: 5, Repeat: render.RepeatForever})
	s.play(p.Entity, "3-turtle")
	system.SetVelocity(s.World, p.Entity, turtleSpeed, 0)
	l.turtle = p.Entity
	return nil
}

func (l *level3) processCat(s *Session, p Placed) error {
	if err := s.addBody(p.Entity, component.PhysicsBody{}, critterLayer); err != nil {
		return err
	}
	s.Animations.Define(render.AnimationDef{Key: "3-cat", Start: 0, End: 3, FrameRate: 5, Repeat: render.RepeatForever, RepeatDelay: 6 * time.Second})
	s.Animations.Define(render.AnimationDef{Key: "3-cat-run", Start: 0, End: 2, FrameRate: 5, Repeat: render.RepeatForever})
	s.play(p.Entity, "3-cat")
	l.cat = p.Entity
	return nil
}
