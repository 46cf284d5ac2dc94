package component

// RenderLayer is the display depth; higher indices draw on top.
type RenderLayer struct {
	Index int
}

var RenderLayerComponent = NewComponent[RenderLayer]()
