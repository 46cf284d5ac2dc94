package component

import "time"

// Animation is the playback state of a named clip from the animation
// library. Clip definitions live in the library, not on the entity.
type Animation struct {
	Current string
	Frame   int
	Elapsed time.Duration
	// Reverse is set while a yoyo clip plays backwards.
	Reverse bool
	// Loops counts completed passes for clips with a finite repeat.
	Loops int
	// Waiting is the remaining repeat delay before the next pass starts.
	Waiting time.Duration
	Playing bool
}

var AnimationComponent = NewComponent[Animation]()
