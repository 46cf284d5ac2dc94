package assets

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

const SampleRate = 44100

var (
	audioOnce    sync.Once
	audioContext *audio.Context
)

// AudioContext lazily creates the process-wide audio context so packages
// that never play sound do not open an audio device.
func AudioContext() *audio.Context {
	audioOnce.Do(func() {
		audioContext = audio.NewContext(SampleRate)
	})
	return audioContext
}

// tone is a synthesized stand-in for a music or effect track.
type tone struct {
	freqs    []float64
	note     float64 // seconds per note
	gap      float64 // seconds of silence after each note
	envelope float64 // decay rate; 0 holds the note
}

var tones = map[string]tone{
	"intro": {freqs: []float64{392, 440, 494, 523, 494, 440}, note: 0.35, gap: 0.05},
	"full":  {freqs: []float64{220, 277, 330, 277}, note: 0.25, gap: 0.02},
	"beats": {freqs: []float64{110, 0, 165, 0}, note: 0.2, gap: 0.05, envelope: 12},
	"clock": {freqs: []float64{1760, 1320}, note: 0.04, gap: 0.46, envelope: 60},
	"throw": {freqs: []float64{660, 880}, note: 0.05, gap: 0, envelope: 30},
}

// LoadAudioPlayer builds a player for a named track.
func LoadAudioPlayer(name string) (*audio.Player, error) {
	pcm, err := LoadPCM(name)
	if err != nil {
		return nil, err
	}
	return AudioContext().NewPlayerFromBytes(pcm), nil
}

// LoadPCM renders a named track to 16-bit little-endian stereo PCM.
func LoadPCM(name string) ([]byte, error) {
	t, ok := tones[cleanAssetPath(name)]
	if !ok {
		return nil, fmt.Errorf("assets: unknown audio %q", name)
	}
	return t.render(SampleRate), nil
}

func (t tone) render(rate int) []byte {
	noteSamples := int(t.note * float64(rate))
	gapSamples := int(t.gap * float64(rate))
	total := (noteSamples + gapSamples) * len(t.freqs)
	out := make([]byte, total*4)
	pos := 0
	for _, f := range t.freqs {
		for i := 0; i < noteSamples; i++ {
			var v float64
			if f > 0 {
				sec := float64(i) / float64(rate)
				v = 0.3 * math.Sin(2*math.Pi*f*sec)
				if t.envelope > 0 {
					v *= math.Exp(-t.envelope * sec)
				}
			}
			s := int16(v * math.MaxInt16)
			binary.LittleEndian.PutUint16(out[pos:], uint16(s))
			binary.LittleEndian.PutUint16(out[pos+2:], uint16(s))
			pos += 4
		}
		pos += gapSamples * 4
	}
	return out
}
