package component

// Attachment keeps an entity at a fixed offset from a parent, the way
// children of a container move with it. An attachment whose parent dies is
// destroyed with it.
type Attachment struct {
	Parent  EntityRef
	OffsetX float64
	OffsetY float64
}

var AttachmentComponent = NewComponent[Attachment]()
