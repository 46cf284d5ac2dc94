package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

type CameraTag struct{}

var CameraTagComponent = NewComponent[CameraTag]()

// GroundTag marks static scenery other bodies land on: terrain and the
// remnants of collapsed stocks.
type GroundTag struct{}

var GroundTagComponent = NewComponent[GroundTag]()

// Clearable objects are removed by ClearScene once they scroll out of view.
type Clearable struct{}

var ClearableComponent = NewComponent[Clearable]()
