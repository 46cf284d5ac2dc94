package component

import "time"

// Title is a centered screen-space caption that fades in, holds, and fades
// out, then removes its entity.
type Title struct {
	Text    string
	Fade    time.Duration
	Hold    time.Duration
	Elapsed time.Duration
}

var TitleComponent = NewComponent[Title]()
