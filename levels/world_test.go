package levels

import (
	"errors"
	"io/fs"
	"testing"
)

func TestParseValidates(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		ok   bool
	}{
		{name: "minimal", yaml: "width: 100\nheight: 100\n", ok: true},
		{name: "no size", yaml: "name: x\n"},
		{name: "flat ground", yaml: "width: 100\nheight: 100\nground: [{x: 0, y: 0, w: 10, h: 0}]\n"},
		{name: "layer without module", yaml: "width: 100\nheight: 100\nlayers: [{objects: []}]\n"},
		{name: "duplicate layer", yaml: "width: 100\nheight: 100\nlayers: [{module: a}, {module: a}]\n"},
		{name: "trigger without action", yaml: "width: 100\nheight: 100\ntriggers: [{x: 1, module: a}]\n"},
		{name: "duplicate checkpoint", yaml: "width: 100\nheight: 100\ncheckpoints: [{id: 1, x: 0}, {id: 1, x: 5}]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if tt.ok && err != nil {
				t.Fatalf("expected valid world, got %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidWorld) {
				t.Fatalf("expected ErrInvalidWorld, got %v", err)
			}
		})
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("width: [")); err == nil {
		t.Fatalf("expected unmarshal error")
	}
}

func TestParseSortsTriggers(t *testing.T) {
	w, err := Parse([]byte(`
width: 100
height: 100
triggers:
  - {x: 50, module: a, action: second}
  - {x: 10, module: a, action: first}
  - {x: 50, module: a, action: third}
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got := []string{w.Triggers[0].Action, w.Triggers[1].Action, w.Triggers[2].Action}
	want := []string{"first", "second", "third"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestLoadBundledWorld(t *testing.T) {
	w, err := Load("world.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if w.Width <= 0 || len(w.Ground) == 0 {
		t.Fatalf("expected terrain in bundled world")
	}
	modules := w.Modules()
	if len(modules) != 2 || modules[0] != "level0" || modules[1] != "level3" {
		t.Fatalf("unexpected modules %v", modules)
	}
	if len(w.Layer("level3")) == 0 || w.Layer("missing") != nil {
		t.Fatalf("unexpected layer lookup")
	}
	for i := 1; i < len(w.Triggers); i++ {
		if w.Triggers[i].X < w.Triggers[i-1].X {
			t.Fatalf("triggers not sorted at %d", i)
		}
	}
	for _, id := range []int{0, 4, 5, 6} {
		if _, ok := w.Checkpoint(id); !ok {
			t.Fatalf("expected checkpoint %d", id)
		}
	}
	if _, ok := w.Checkpoint(99); ok {
		t.Fatalf("unexpected checkpoint 99")
	}
}

func TestLoadScript(t *testing.T) {
	src, err := LoadScript("level3")
	if err != nil || len(src) == 0 {
		t.Fatalf("expected level3 script, got err %v", err)
	}
	if _, err := LoadScript("level0"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist for a module without a script, got %v", err)
	}
}
