package component

// Camera follows the player horizontally inside the level bounds.
type Camera struct {
	X          float64
	Y          float64
	Width      float64
	Height     float64
	LeadX      float64
	Smoothness float64
}

var CameraComponent = NewComponent[Camera]()
