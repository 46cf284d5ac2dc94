package common

import "time"

const (
	BaseWidth  = 1280
	BaseHeight = 720

	// TPS is the fixed update rate; every system advances by Step per tick.
	TPS  = 60
	Step = time.Second / TPS

	// Gravity is in px/s^2, screen-down positive.
	Gravity = 1400.0
)

// Display depths, lowest first.
const (
	DepthBackground     = 0
	DepthTerrain        = 10
	DepthForegroundBack = 20
	DepthPlayer         = 30
	DepthForegroundMain = 40
	DepthImportant      = 50
	DepthUI             = 100
)

const (
	DurationQuarantine = 10 * time.Second
	DurationBird       = 6 * time.Second
	DurationTitleFade  = 500 * time.Millisecond
	DurationTitleHold  = 1500 * time.Millisecond
)

const (
	VolumeIntro = 0.6
	VolumeMain  = 0.8
	VolumeClock = 0.8
)
