package component

// Text renders a label with the bitmap face at the transform.
type Text struct {
	Value   string
	Size    float64
	OriginX float64
	OriginY float64
}

var TextComponent = NewComponent[Text]()
