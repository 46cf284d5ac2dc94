package assets

import (
	"bytes"
	_ "embed"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Info describes a sheet: Frames frames of W x H laid out in one row.
type Info struct {
	W      int    `yaml:"w"`
	H      int    `yaml:"h"`
	Frames int    `yaml:"frames"`
	Color  string `yaml:"color"`
}

var (
	catalogOnce sync.Once
	catalog     map[string]Info
	catalogErr  error

	imagesMu sync.Mutex
	images   = map[string]*ebiten.Image{}
)

func loadCatalog() {
	catalog = make(map[string]Info)
	if err := yaml.Unmarshal(catalogYAML, &catalog); err != nil {
		catalogErr = fmt.Errorf("assets: unmarshal catalog: %w", err)
	}
}

// Lookup returns the catalog entry for a sheet name.
func Lookup(name string) (Info, bool) {
	catalogOnce.Do(loadCatalog)
	info, ok := catalog[cleanAssetPath(name)]
	if ok && info.Frames <= 0 {
		info.Frames = 1
	}
	return info, ok
}

// CatalogError reports a malformed embedded catalog.
func CatalogError() error {
	catalogOnce.Do(loadCatalog)
	return catalogErr
}

// LoadImage returns the sheet for name. A PNG on disk under assets/ wins;
// otherwise a placeholder sheet is drawn from the catalog entry.
func LoadImage(name string) (*ebiten.Image, error) {
	clean := cleanAssetPath(name)
	if clean == "" {
		return nil, fmt.Errorf("assets: empty image name")
	}

	imagesMu.Lock()
	defer imagesMu.Unlock()
	if img, ok := images[clean]; ok {
		return img, nil
	}

	img, err := loadImageFromDisk(clean)
	if err != nil {
		info, ok := Lookup(clean)
		if !ok {
			return nil, fmt.Errorf("assets: unknown image %q", name)
		}
		img = placeholderSheet(info)
	}
	images[clean] = img
	return img, nil
}

func loadImageFromDisk(clean string) (*ebiten.Image, error) {
	b, err := os.ReadFile(filepath.Join("assets", filepath.FromSlash(clean)+".png"))
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", clean, err)
	}
	return ebiten.NewImageFromImage(img), nil
}

// placeholderSheet draws one filled frame per animation step, each a little
// darker than the last so frame changes are visible.
func placeholderSheet(info Info) *ebiten.Image {
	frames := max(info.Frames, 1)
	img := ebiten.NewImage(max(info.W, 1)*frames, max(info.H, 1))
	base := parseHexColor(info.Color)
	for i := 0; i < frames; i++ {
		shade := 1 - 0.12*float64(i%4)
		c := color.RGBA{
			R: uint8(float64(base.R) * shade),
			G: uint8(float64(base.G) * shade),
			B: uint8(float64(base.B) * shade),
			A: 0xff,
		}
		frame := img.SubImage(image.Rect(i*info.W, 0, (i+1)*info.W, info.H)).(*ebiten.Image)
		frame.Fill(c)
	}
	return img
}

func parseHexColor(s string) color.RGBA {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{R: 0xff, G: 0x00, B: 0xff, A: 0xff}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{R: 0xff, G: 0x00, B: 0xff, A: 0xff}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	s = strings.TrimPrefix(s, "assets/")
	return strings.TrimSuffix(s, ".png")
}
