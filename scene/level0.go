package scene

import (
	"time"

	"github.com/milk9111/twentytwenty/common"
	"github.com/milk9111/twentytwenty/ecs"
	"github.com/milk9111/twentytwenty/ecs/component"
	"github.com/milk9111/twentytwenty/ecs/render"
)

const throwDelay = 500 * time.Millisecond

// level0 is the "2019" prologue: a bird flyby and a ball thrown for the dog.
type level0 struct {
	ball ecs.Entity
}

func (l *level0) Name() string { return "level0" }

func (l *level0) Preload(s *Session) error {
	var table KindTable
	table[KindBall] = func(_ *Session, p Placed) error {
		l.ball = p.Entity
		return nil
	}
	if err := s.placeLayer(l.Name(), &table); err != nil {
		return err
	}
	return s.Audio.Add("intro", true, common.VolumeIntro)
}

func (l *level0) Actions() map[Action]ActionFunc {
	return map[Action]ActionFunc{
		"checkpoint0": l.checkpoint0,
		"addBird":     l.addBird,
		"showTitle":   l.showTitle,
		"throwBall":   l.throwBall,
	}
}

func (l *level0) checkpoint0(s *Session) error {
	s.SetCheckpoint(0)
	s.Audio.FadeIn("intro", common.VolumeIntro)
	return nil
}

// addBird flies a bird across the screen against the player's direction,
// swooping up on a cubic curve.
func (l *level0) addBird(s *Session) error {
	px, _ := s.PlayerPosition()
	bird, err := s.addImage(imageSpec{
		sheet:   "0-bird",
		x:       px + common.BaseWidth,
		y:       common.BaseHeight * 0.2,
		originX: 0.5,
		originY: 0.5,
		depth:   common.DepthForegroundMain,
		scale:   2,
	})
	if err != nil {
		return err
	}
	s.Animations.Define(render.AnimationDef{Key: "0-bird", Start: 0, End: 3, FrameRate: 10, Repeat: render.RepeatForever})
	s.play(bird, "0-bird")

	return ecs.Add(s.World, bird, component.TweenComponent.Kind(), &component.Tween{
		ToX:        px - common.BaseWidth*0.2,
		ToY:        common.BaseHeight * 0.1,
		EaseY:      common.EaseInOutCubic,
		Duration:   common.DurationBird,
		OnComplete: func() { ecs.DestroyEntity(s.World, bird) },
	})
}

func (l *level0) showTitle(s *Session) error {
	s.Title("2019", 0)
	return nil
}

// throwBall holds the player still, throws the ball away, then lets go.
func (l *level0) throwBall(s *Session) error {
	s.TakeControl()
	s.after(throwDelay, func() {
		ecs.DestroyEntity(s.World, l.ball)
		s.PlayerThrow()
		s.after(throwDelay, s.GiveControl)
	})
	return nil
}
