package component

import "github.com/jakecoffman/cp"

// PhysicsBody stores Chipmunk2D runtime data and collider configuration.
// The box is centered on Transform plus Offset.
type PhysicsBody struct {
	Body  *cp.Body
	Shape *cp.Shape

	Width      float64
	Height     float64
	OffsetX    float64
	OffsetY    float64
	Mass       float64
	Friction   float64
	Elasticity float64

	Static bool
	// Immovable bodies are not pushed by other dynamic bodies.
	Immovable bool
	// NoGravity ignores the space gravity; AccelX/AccelY still apply.
	NoGravity bool
	AccelX    float64
	AccelY    float64
	// Disabled bodies keep their configuration but have no shape in the
	// space.
	Disabled bool

	// VelocitySet requests that VelocityX/VelocityY be written to the body
	// on the next physics step.
	VelocitySet bool
	VelocityX   float64
	VelocityY   float64
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
