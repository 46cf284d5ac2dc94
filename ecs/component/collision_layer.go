package component

const (
	LayerGround uint32 = 1 << iota
	LayerPlayer
	LayerHazard
	LayerCritter
)

// CollisionLayer declares a collision category and mask so the physics
// system only separates the pairs a level asked for. Objects without a
// layer are treated as ground.
type CollisionLayer struct {
	Category uint32 `yaml:"category,omitempty"`
	Mask     uint32 `yaml:"mask,omitempty"`
}

var CollisionLayerComponent = NewComponent[CollisionLayer]()
