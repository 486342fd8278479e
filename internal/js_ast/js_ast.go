package js_ast

import (
	"github.com/varify/varify/internal/logger"
)

// The tree is a single mutable Node type with a kind tag, an ordered child
// list, and a parent link. Passes that run after parsing do in-place surgery
// on the tree (insert-before, replace, detach), so unlike a parse-once
// compiler the nodes are not immutable variants. Scope and symbol information
// is deliberately not stored on the tree; it's rebuilt syntactically by each
// traversal (see the js_scope package), which keeps the tree valid across
// heavy rewrites.

type Kind uint8

const (
	KindScript Kind = iota

	// Statements
	KindBlock
	KindVar
	KindLet
	KindConst
	KindExprResult
	KindIf
	KindFor
	KindForIn
	KindForOf
	KindWhile
	KindDoWhile
	KindLabel
	KindBreak
	KindContinue
	KindReturn
	KindThrow
	KindTry
	KindCatch
	KindFinally
	KindEmpty

	// Statement or expression
	KindFunction

	// Expressions
	KindName
	KindNumber
	KindString
	KindTrue
	KindFalse
	KindNull
	KindThis
	KindArrayLit
	KindObjectLit
	KindCall
	KindNew
	KindGetProp
	KindGetElem
	KindHook
	KindBinary
	KindUnary
	KindCast

	// Object literal members
	KindStringKey
	KindGetterDef
	KindSetterDef

	// Helpers
	KindParamList
	KindLabelName

	// These are never produced by the parser in this compiler. They exist so
	// that passes can assert that earlier lowering already removed them.
	KindClass
	KindArrayPattern
	KindObjectPattern
)

var kindNames = map[Kind]string{
	KindScript:        "script",
	KindBlock:         "block",
	KindVar:           "var",
	KindLet:           "let",
	KindConst:         "const",
	KindExprResult:    "expression statement",
	KindIf:            "if",
	KindFor:           "for",
	KindForIn:         "for-in",
	KindForOf:         "for-of",
	KindWhile:         "while",
	KindDoWhile:       "do-while",
	KindLabel:         "label",
	KindBreak:         "break",
	KindContinue:      "continue",
	KindReturn:        "return",
	KindThrow:         "throw",
	KindTry:           "try",
	KindCatch:         "catch",
	KindFinally:       "finally",
	KindEmpty:         "empty",
	KindFunction:      "function",
	KindName:          "name",
	KindNumber:        "number",
	KindString:        "string",
	KindTrue:          "true",
	KindFalse:         "false",
	KindNull:          "null",
	KindThis:          "this",
	KindArrayLit:      "array literal",
	KindObjectLit:     "object literal",
	KindCall:          "call",
	KindNew:           "new",
	KindGetProp:       "property access",
	KindGetElem:       "indexed access",
	KindHook:          "conditional",
	KindBinary:        "binary operator",
	KindUnary:         "unary operator",
	KindCast:          "cast",
	KindStringKey:     "property key",
	KindGetterDef:     "getter",
	KindSetterDef:     "setter",
	KindParamList:     "parameter list",
	KindLabelName:     "label name",
	KindClass:         "class",
	KindArrayPattern:  "array pattern",
	KindObjectPattern: "object pattern",
}

func (k Kind) String() string {
	return kindNames[k]
}

// An opaque type tag. The real compiler attributes rich type information to
// nodes; this pass only has to carry the tags along when it clones or
// replaces nodes, so a small integer is enough.
type Color uint32

const (
	ColorNone Color = iota
	ColorTopObject
)

// The subset of JSDoc this compiler models: the raw comment text plus the
// constancy bit that "const" declarations carry onto their rewritten "var"
// forms.
type JSDoc struct {
	Raw       string
	Constancy bool
}

func (d *JSDoc) Clone() *JSDoc {
	if d == nil {
		return nil
	}
	clone := *d
	return &clone
}

type Node struct {
	Kind Kind
	Op   OpCode // only for KindBinary and KindUnary

	parent *Node
	first  *Node
	last   *Node
	prev   *Node
	next   *Node

	// The identifier, label, property name, or string value depending on Kind
	Value string

	// Only for KindNumber
	Number float64

	JSDoc *JSDoc
	Color Color

	Loc logger.Loc

	// Calls: true when the callee is evaluated without a receiver. Name
	// callees start out free; rewriting a callee to a property access must
	// clear this so the printer can guard with "(0, a.b)()" if it is ever
	// forced back on.
	FreeCall bool
}

func (n *Node) Parent() *Node      { return n.parent }
func (n *Node) GrandParent() *Node { return n.parent.parent }
func (n *Node) FirstChild() *Node  { return n.first }
func (n *Node) LastChild() *Node   { return n.last }
func (n *Node) Next() *Node        { return n.next }
func (n *Node) Prev() *Node        { return n.prev }

func (n *Node) HasChildren() bool {
	return n.first != nil
}

func (n *Node) HasMoreThanOneChild() bool {
	return n.first != nil && n.first.next != nil
}

func (n *Node) ChildCount() int {
	count := 0
	for c := n.first; c != nil; c = c.next {
		count++
	}
	return count
}

func (n *Node) ChildAtIndex(i int) *Node {
	c := n.first
	for ; i > 0; i-- {
		c = c.next
	}
	return c
}

// The single child of a node that is expected to have exactly one
func (n *Node) OnlyChild() *Node {
	if n.first == nil || n.first != n.last {
		panic("Internal error: expected exactly one child")
	}
	return n.first
}

// AppendChild adds child as the last child of n. The child must be detached.
func (n *Node) AppendChild(child *Node) {
	child.assertDetached()
	child.parent = n
	child.prev = n.last
	if n.last != nil {
		n.last.next = child
	} else {
		n.first = child
	}
	n.last = child
}

// PrependChild adds child as the first child of n. The child must be detached.
func (n *Node) PrependChild(child *Node) {
	child.assertDetached()
	child.parent = n
	child.next = n.first
	if n.first != nil {
		n.first.prev = child
	} else {
		n.last = child
	}
	n.first = child
}

// InsertBefore inserts n as the previous sibling of ref. n must be detached.
func (n *Node) InsertBefore(ref *Node) {
	n.assertDetached()
	parent := ref.parent
	n.parent = parent
	n.next = ref
	n.prev = ref.prev
	if ref.prev != nil {
		ref.prev.next = n
	} else {
		parent.first = n
	}
	ref.prev = n
}

// InsertAfter inserts n as the next sibling of ref. n must be detached.
func (n *Node) InsertAfter(ref *Node) {
	n.assertDetached()
	parent := ref.parent
	n.parent = parent
	n.prev = ref
	n.next = ref.next
	if ref.next != nil {
		ref.next.prev = n
	} else {
		parent.last = n
	}
	ref.next = n
}

// Detach removes n from its parent's child list. Detaching an already
// detached node is a no-op.
func (n *Node) Detach() *Node {
	parent := n.parent
	if parent == nil {
		return n
	}
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		parent.first = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		parent.last = n.prev
	}
	n.parent = nil
	n.prev = nil
	n.next = nil
	return n
}

// ReplaceWith swaps n for repl in n's parent's child list. repl must be
// detached; n ends up detached.
func (n *Node) ReplaceWith(repl *Node) {
	repl.InsertBefore(n)
	n.Detach()
}

// RemoveFirstChild detaches and returns the first child
func (n *Node) RemoveFirstChild() *Node {
	return n.first.Detach()
}

// TakeChildren detaches all children of n and returns them in order
func (n *Node) TakeChildren() []*Node {
	var children []*Node
	for n.first != nil {
		children = append(children, n.first.Detach())
	}
	return children
}

// AddChildrenToFront prepends the given detached nodes, preserving their order
func (n *Node) AddChildrenToFront(children []*Node) {
	for i := len(children) - 1; i >= 0; i-- {
		n.PrependChild(children[i])
	}
}

func (n *Node) assertDetached() {
	if n.parent != nil || n.prev != nil || n.next != nil {
		panic("Internal error: node is already attached to a tree")
	}
}

// CloneNode returns a shallow copy of n with no parent and no children.
// Annotations (color, JSDoc) are carried along.
func (n *Node) CloneNode() *Node {
	clone := &Node{
		Kind:     n.Kind,
		Op:       n.Op,
		Value:    n.Value,
		Number:   n.Number,
		JSDoc:    n.JSDoc.Clone(),
		Color:    n.Color,
		Loc:      n.Loc,
		FreeCall: n.FreeCall,
	}
	return clone
}

// CloneTree returns a deep copy of the subtree rooted at n
func (n *Node) CloneTree() *Node {
	clone := n.CloneNode()
	for c := n.first; c != nil; c = c.next {
		clone.AppendChild(c.CloneTree())
	}
	return clone
}
