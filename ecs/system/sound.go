package system

import (
	"fmt"
	"log"

	"github.com/milk9111/twentytwenty/common"
	"github.com/milk9111/twentytwenty/ecs"
)

const (
	defaultSoundFadeFrames = 30
	defaultEffectVolume    = 1.0
)

// Track is the part of an ebiten audio player the sound system drives.
type Track interface {
	Play()
	Pause()
	Rewind() error
	IsPlaying() bool
	SetVolume(volume float64)
}

// TrackLoader opens a named track.
type TrackLoader func(name string) (Track, error)

type sound struct {
	track  Track
	loop   bool
	volume float64

	current float64
	target  float64
	step    float64
	// stopAtZero pauses the track once a fade out reaches silence.
	stopAtZero bool
	playing    bool
}

// SoundSystem owns every track of a level: registered sounds, one-shot
// effects and the main theme. Volume fades advance one step per update.
// Switching the main theme fades the old one out before the new one starts.
type SoundSystem struct {
	load       TrackLoader
	fadeFrames int
	sounds     map[string]*sound

	main        string
	pendingMain string
	switching   bool
}

func NewSoundSystem(load TrackLoader) *SoundSystem {
	return &SoundSystem{
		load:       load,
		fadeFrames: defaultSoundFadeFrames,
		sounds:     make(map[string]*sound),
	}
}

// Add registers a track under name.
func (s *SoundSystem) Add(name string, loop bool, volume float64) error {
	if _, ok := s.sounds[name]; ok {
		return nil
	}
	if s.load == nil {
		return fmt.Errorf("sound: no loader for %q", name)
	}
	track, err := s.load(name)
	if err != nil {
		return fmt.Errorf("sound: load %q: %w", name, err)
	}
	if volume <= 0 || volume > 1 {
		volume = defaultEffectVolume
	}
	s.sounds[name] = &sound{track: track, loop: loop, volume: volume}
	return nil
}

func (s *SoundSystem) get(name string, loop bool, volume float64) *sound {
	if snd, ok := s.sounds[name]; ok {
		return snd
	}
	if err := s.Add(name, loop, volume); err != nil {
		log.Printf("%v", err)
		return nil
	}
	return s.sounds[name]
}

func (snd *sound) start(volume float64) {
	_ = snd.track.Rewind()
	snd.current, snd.target, snd.step = volume, volume, 0
	snd.stopAtZero = false
	snd.track.SetVolume(volume)
	snd.track.Play()
	snd.playing = true
}

func (snd *sound) stop() {
	snd.track.Pause()
	_ = snd.track.Rewind()
	snd.current, snd.target, snd.step = 0, 0, 0
	snd.stopAtZero = false
	snd.playing = false
}

func (snd *sound) fadeTo(target float64, frames int, stopAtZero bool) {
	snd.target = target
	snd.stopAtZero = stopAtZero
	diff := target - snd.current
	if diff < 0 {
		diff = -diff
	}
	snd.step = diff / float64(frames)
	if snd.step <= 0 {
		snd.step = 1
	}
}

// Play starts a sound from the beginning at its registered volume.
func (s *SoundSystem) Play(name string) {
	if snd := s.get(name, false, defaultEffectVolume); snd != nil {
		snd.start(snd.volume)
	}
}

// Stop halts a sound and rewinds it.
func (s *SoundSystem) Stop(name string) {
	if snd, ok := s.sounds[name]; ok {
		snd.stop()
	}
}

// FadeIn starts a sound silent and raises it to volume.
func (s *SoundSystem) FadeIn(name string, volume float64) {
	snd := s.get(name, true, volume)
	if snd == nil {
		return
	}
	snd.start(0)
	snd.fadeTo(volume, s.fadeFrames, false)
}

// SetMain makes name the main theme. The current theme, if any, fades out
// first.
func (s *SoundSystem) SetMain(name string) {
	if snd := s.get(name, true, common.VolumeMain); snd == nil {
		return
	}
	if s.main == name && !s.switching {
		if snd := s.sounds[name]; !snd.playing {
			snd.start(snd.volume)
		}
		return
	}
	s.requestMain(name)
}

// StopMain fades the main theme out.
func (s *SoundSystem) StopMain() {
	s.requestMain("")
}

func (s *SoundSystem) requestMain(name string) {
	current, ok := s.sounds[s.main]
	if !ok || !current.playing {
		s.switchMain(name)
		return
	}
	s.pendingMain = name
	s.switching = true
	current.fadeTo(0, s.fadeFrames, true)
}

func (s *SoundSystem) switchMain(name string) {
	s.switching = false
	s.pendingMain = ""
	s.main = name
	if snd, ok := s.sounds[name]; ok {
		snd.start(snd.volume)
	}
}

// Destroy stops a sound and forgets it.
func (s *SoundSystem) Destroy(name string) {
	snd, ok := s.sounds[name]
	if !ok {
		return
	}
	snd.stop()
	delete(s.sounds, name)
	if s.main == name {
		s.main = ""
	}
}

// Main returns the current main theme.
func (s *SoundSystem) Main() string {
	return s.main
}

// Playing reports whether a sound is audible or fading.
func (s *SoundSystem) Playing(name string) bool {
	snd, ok := s.sounds[name]
	return ok && snd.playing
}

// Volume returns a sound's current volume.
func (s *SoundSystem) Volume(name string) float64 {
	if snd, ok := s.sounds[name]; ok {
		return snd.current
	}
	return 0
}

// StopAll silences everything, as when a level unloads.
func (s *SoundSystem) StopAll() {
	for _, snd := range s.sounds {
		snd.stop()
	}
	s.main, s.pendingMain, s.switching = "", "", false
}

func (s *SoundSystem) Update(_ *ecs.World) {
	for _, snd := range s.sounds {
		if !snd.playing {
			continue
		}
		if snd.current != snd.target {
			snd.current = approach(snd.current, snd.target, snd.step)
			snd.track.SetVolume(snd.current)
			if snd.current == 0 && snd.stopAtZero {
				snd.stop()
				continue
			}
		}
		if snd.track.IsPlaying() {
			continue
		}
		if snd.loop {
			_ = snd.track.Rewind()
			snd.track.Play()
		} else {
			snd.playing = false
		}
	}

	if s.switching {
		if current, ok := s.sounds[s.main]; !ok || !current.playing {
			s.switchMain(s.pendingMain)
		}
	}
}

func approach(v, target, step float64) float64 {
	if v < target {
		v += step
		if v > target {
			v = target
		}
		return v
	}
	v -= step
	if v < target {
		v = target
	}
	return v
}
