package levels

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed *.yaml scripts/*.tengo
var LevelsFS embed.FS

var ErrInvalidWorld = errors.New("levels: invalid world")

// World is the whole playable map: terrain, the per-module object layers,
// triggers and checkpoint positions.
type World struct {
	Name        string       `yaml:"name"`
	Width       float64      `yaml:"width"`
	Height      float64      `yaml:"height"`
	Spawn       Point        `yaml:"spawn"`
	Ground      []Rect       `yaml:"ground"`
	Layers      []Layer      `yaml:"layers"`
	Triggers    []Trigger    `yaml:"triggers"`
	Checkpoints []Checkpoint `yaml:"checkpoints"`
}

type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Rect is a terrain box; X, Y is the top-left corner.
type Rect struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// Layer holds the objects one level module places and processes.
type Layer struct {
	Module  string   `yaml:"module"`
	Objects []Object `yaml:"objects"`
}

// Object is a map image. Like map editors export them, X, Y is the
// bottom-left corner.
type Object struct {
	Name string  `yaml:"name"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

type Trigger struct {
	X      float64 `yaml:"x"`
	Module string  `yaml:"module"`
	Action string  `yaml:"action"`
}

type Checkpoint struct {
	ID int     `yaml:"id"`
	X  float64 `yaml:"x"`
}

// Parse decodes and validates a world file.
func Parse(data []byte) (*World, error) {
	var w World
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("levels: unmarshal world: %w", err)
	}
	if err := w.validate(); err != nil {
		return nil, err
	}
	sort.SliceStable(w.Triggers, func(i, j int) bool { return w.Triggers[i].X < w.Triggers[j].X })
	return &w, nil
}

func (w *World) validate() error {
	if w.Width <= 0 || w.Height <= 0 {
		return fmt.Errorf("%w: size %vx%v", ErrInvalidWorld, w.Width, w.Height)
	}
	for i, r := range w.Ground {
		if r.W <= 0 || r.H <= 0 {
			return fmt.Errorf("%w: ground %d has no area", ErrInvalidWorld, i)
		}
	}
	seen := make(map[string]bool, len(w.Layers))
	for _, l := range w.Layers {
		if l.Module == "" {
			return fmt.Errorf("%w: layer without module", ErrInvalidWorld)
		}
		if seen[l.Module] {
			return fmt.Errorf("%w: duplicate layer %q", ErrInvalidWorld, l.Module)
		}
		seen[l.Module] = true
	}
	for _, tr := range w.Triggers {
		if tr.Module == "" || tr.Action == "" {
			return fmt.Errorf("%w: trigger at x=%v needs module and action", ErrInvalidWorld, tr.X)
		}
	}
	ids := make(map[int]bool, len(w.Checkpoints))
	for _, cp := range w.Checkpoints {
		if ids[cp.ID] {
			return fmt.Errorf("%w: duplicate checkpoint %d", ErrInvalidWorld, cp.ID)
		}
		ids[cp.ID] = true
	}
	return nil
}

// Layer returns the objects for a module.
func (w *World) Layer(module string) []Object {
	for _, l := range w.Layers {
		if l.Module == module {
			return l.Objects
		}
	}
	return nil
}

// Modules lists the modules with a layer, in file order.
func (w *World) Modules() []string {
	out := make([]string, 0, len(w.Layers))
	for _, l := range w.Layers {
		out = append(out, l.Module)
	}
	return out
}

// Checkpoint looks up a checkpoint by id.
func (w *World) Checkpoint(id int) (Checkpoint, bool) {
	for _, cp := range w.Checkpoints {
		if cp.ID == id {
			return cp, true
		}
	}
	return Checkpoint{}, false
}

// Load reads a world file, preferring the copy on disk under levels/.
func Load(name string) (*World, error) {
	data, err := read(name)
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", name, err)
	}
	return Parse(data)
}

// LoadScript returns the tengo script for a module. A module without a
// script returns an error wrapping fs.ErrNotExist.
func LoadScript(module string) ([]byte, error) {
	return read("scripts/" + module + ".tengo")
}

func read(name string) ([]byte, error) {
	clean := cleanLevelPath(name)
	if data, err := os.ReadFile(filepath.Join("levels", filepath.FromSlash(clean))); err == nil {
		return data, nil
	}
	return LevelsFS.ReadFile(clean)
}

func cleanLevelPath(path string) string {
	s := filepath.ToSlash(path)
	return strings.TrimPrefix(s, "levels/")
}
