package scene

import (
	"github.com/milk9111/twentytwenty/ecs"
	"github.com/milk9111/twentytwenty/levels"
)

// ObjectKind identifies a map object that level code knows about.
type ObjectKind int

const (
	KindUnknown ObjectKind = iota
	KindTree
	KindBall
	KindMask
	KindCorona
	KindBush
	KindCat
	KindClosed
	KindHome
	KindHomeWall1
	KindHomeWall2
	KindOwl
	KindToilet
	KindBook1
	KindBook2
	KindBook3
	KindTurtle
	KindStockGoogle
	KindStockAmazon
	KindStockMicrosoft
	KindStockFacebook
	KindStockApple

	kindCount
)

var kindNames = [kindCount]string{
	KindUnknown:        "",
	KindTree:           "0-tree",
	KindBall:           "0-ball",
	KindMask:           "c-mask",
	KindCorona:         "c-corona",
	KindBush:           "c-bush",
	KindCat:            "3-cat",
	KindClosed:         "3-closed",
	KindHome:           "3-home",
	KindHomeWall1:      "3-home-wall1",
	KindHomeWall2:      "3-home-wall2",
	KindOwl:            "3-owl",
	KindToilet:         "3-toilet",
	KindBook1:          "3-book1",
	KindBook2:          "3-book2",
	KindBook3:          "3-book3",
	KindTurtle:         "3-turtle",
	KindStockGoogle:    "3-stock-google",
	KindStockAmazon:    "3-stock-amazon",
	KindStockMicrosoft: "3-stock-microsoft",
	KindStockFacebook:  "3-stock-facebook",
	KindStockApple:     "3-stock-apple",
}

var kindsByName = func() map[string]ObjectKind {
	m := make(map[string]ObjectKind, kindCount)
	for k := KindUnknown + 1; k < kindCount; k++ {
		m[kindNames[k]] = k
	}
	return m
}()

// ParseObjectKind maps an object or sheet name to its kind. Unrecognized
// names are KindUnknown.
func ParseObjectKind(name string) ObjectKind {
	return kindsByName[name]
}

// String returns the sheet name for the kind.
func (k ObjectKind) String() string {
	if k < 0 || k >= kindCount {
		return ""
	}
	return kindNames[k]
}

// IsStock reports whether the kind is one of the falling stocks.
func (k ObjectKind) IsStock() bool {
	return k >= KindStockGoogle && k <= KindStockApple
}

// Placed is a map object after its image has been added to the world.
type Placed struct {
	Entity ecs.Entity
	Kind   ObjectKind
	Object levels.Object
}

// Processor post-processes one placed object.
type Processor func(s *Session, p Placed) error

// KindTable holds a module's processors, indexed by kind. Empty slots leave
// the object as a plain image.
type KindTable [kindCount]Processor
