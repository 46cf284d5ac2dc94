package component

// Trigger runs a level action once the player crosses X.
type Trigger struct {
	X      float64
	Module string
	Action string
	Fired  bool
}

var TriggerComponent = NewComponent[Trigger]()
