package component

import "time"

// Ease maps progress in [0, 1] to eased progress.
type Ease func(t float64) float64

// Tween moves a transform from its start position to (ToX, ToY) over
// Duration. Nil eases are linear.
type Tween struct {
	FromX, FromY float64
	ToX, ToY     float64
	EaseX        Ease
	EaseY        Ease
	Duration     time.Duration
	Elapsed      time.Duration
	Started      bool
	OnComplete   func()
}

var TweenComponent = NewComponent[Tween]()
