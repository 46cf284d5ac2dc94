package component

type Player struct {
	MoveSpeed float64
	JumpSpeed float64
	// Locked is set while a cutscene holds control; input is ignored.
	Locked bool
	// ThrowFrames counts down while the throw pose is shown.
	ThrowFrames int
}

var PlayerComponent = NewComponent[Player]()
