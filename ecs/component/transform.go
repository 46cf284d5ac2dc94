package component

// Transform is the world position of an entity. Sprites anchor on it using
// their origin; physics bodies are centered on it plus their offset.
type Transform struct {
	X        float64
	Y        float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
}

var TransformComponent = NewComponent[Transform]()
