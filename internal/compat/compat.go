package compat

// A bitset of syntax features. The lowering pass reports which features it
// removed from the AST so the driver can track what still needs transpiling.
type JSFeature uint64

const (
	LetDeclarations JSFeature = 1 << iota
	ConstDeclarations
	ForOf
	Destructuring
	Classes
	ArrowFunctions
)

func (features JSFeature) Has(feature JSFeature) bool {
	return (features & feature) != 0
}

var featureNames = map[JSFeature]string{
	LetDeclarations:   "let declarations",
	ConstDeclarations: "const declarations",
	ForOf:             "for-of loops",
	Destructuring:     "destructuring",
	Classes:           "class syntax",
	ArrowFunctions:    "arrow functions",
}

func (features JSFeature) String() string {
	text := ""
	for i := JSFeature(1); i != 0 && i <= features; i <<= 1 {
		if features.Has(i) {
			if text != "" {
				text += ", "
			}
			text += featureNames[i]
		}
	}
	return text
}
