package render

import "time"

// RepeatForever loops a clip until another one is played.
const RepeatForever = -1

// AnimationDef is a named clip over a frame range of a sheet.
// Start and End are inclusive; both zero means every frame of the sheet.
type AnimationDef struct {
	Key            string
	Sheet          string
	Start          int
	End            int
	FrameRate      float64
	Repeat         int
	RepeatDelay    time.Duration
	Yoyo           bool
	HideOnComplete bool
}

// FrameCount returns the number of frames in one pass.
func (d AnimationDef) FrameCount() int {
	if d.End < d.Start {
		return 1
	}
	return d.End - d.Start + 1
}

// FrameDuration returns how long each frame is shown.
func (d AnimationDef) FrameDuration() time.Duration {
	if d.FrameRate <= 0 {
		return time.Second / 10
	}
	return time.Duration(float64(time.Second) / d.FrameRate)
}

// AnimationLibrary stores clip definitions by key.
type AnimationLibrary struct {
	defs map[string]AnimationDef
	// frameCounts resolves "every frame" clips against a sheet.
	frameCounts func(sheet string) int
}

// NewAnimationLibrary creates an empty library. frameCounts may be nil, in
// which case clips without an explicit range have one frame.
func NewAnimationLibrary(frameCounts func(sheet string) int) *AnimationLibrary {
	return &AnimationLibrary{defs: make(map[string]AnimationDef), frameCounts: frameCounts}
}

// Define registers a clip unless one already exists under the key. It
// reports whether the definition was added.
func (l *AnimationLibrary) Define(def AnimationDef) bool {
	if l == nil || def.Key == "" {
		return false
	}
	if _, exists := l.defs[def.Key]; exists {
		return false
	}
	if def.Sheet == "" {
		def.Sheet = def.Key
	}
	if def.Start == 0 && def.End == 0 && l.frameCounts != nil {
		if n := l.frameCounts(def.Sheet); n > 1 {
			def.End = n - 1
		}
	}
	l.defs[def.Key] = def
	return true
}

// Exists reports whether a clip is defined.
func (l *AnimationLibrary) Exists(key string) bool {
	if l == nil {
		return false
	}
	_, ok := l.defs[key]
	return ok
}

// Get returns a clip by key.
func (l *AnimationLibrary) Get(key string) (AnimationDef, bool) {
	if l == nil || key == "" {
		return AnimationDef{}, false
	}
	def, ok := l.defs[key]
	return def, ok
}
