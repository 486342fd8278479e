package js_ast

// Node shapes, in child-list order:
//
//   Script      statements...
//   Block       statements...
//   Var         Name... (each Name's optional first child is its initializer)
//   Let         like Var
//   Const       like Var
//   ExprResult  expression
//   If          condition, then, [else]
//   For         init, condition, update, body (slots may be Empty)
//   ForIn       target, object, body
//   ForOf       target, object, body
//   While       condition, body
//   DoWhile     body, condition
//   Label       LabelName, statement
//   Break       [LabelName]
//   Continue    [LabelName]
//   Return      [expression]
//   Throw       expression
//   Try         Block, [Catch], [Finally]
//   Catch       Name, Block
//   Finally     Block
//   Function    Name, ParamList, Block (an empty Value on the Name means the
//               function is anonymous)
//   ParamList   Name...
//   Call        callee, arguments...
//   New         callee, arguments...
//   GetProp     object (the property name is in Value)
//   GetElem     object, index
//   Binary      left, right (operator is in Op)
//   Unary       operand (operator is in Op)
//   Hook        condition, then, else
//   ArrayLit    expressions...
//   ObjectLit   StringKey/GetterDef/SetterDef...
//   StringKey   value (the key is in Value)
//   GetterDef   Function (the key is in Value)
//   SetterDef   Function (the key is in Value)
//   Cast        expression

func newNode(kind Kind, children ...*Node) *Node {
	n := &Node{Kind: kind}
	for _, child := range children {
		n.AppendChild(child)
	}
	return n
}

func Script(stmts ...*Node) *Node             { return newNode(KindScript, stmts...) }
func Block(stmts ...*Node) *Node              { return newNode(KindBlock, stmts...) }
func Var(names ...*Node) *Node                { return newNode(KindVar, names...) }
func Let(names ...*Node) *Node                { return newNode(KindLet, names...) }
func Const(names ...*Node) *Node              { return newNode(KindConst, names...) }
func ExprResult(expr *Node) *Node             { return newNode(KindExprResult, expr) }
func ParamList(names ...*Node) *Node          { return newNode(KindParamList, names...) }
func ObjectLit(props ...*Node) *Node          { return newNode(KindObjectLit, props...) }
func Empty() *Node                            { return newNode(KindEmpty) }
func This() *Node                             { return newNode(KindThis) }
func Null() *Node                             { return newNode(KindNull) }
func Return(value *Node) *Node                { return newNode(KindReturn, value) }
func ReturnNothing() *Node                    { return newNode(KindReturn) }
func Hook(test, yes, no *Node) *Node          { return newNode(KindHook, test, yes, no) }
func Cast(expr *Node, c Color) *Node          { n := newNode(KindCast, expr); n.Color = c; return n }
func Label(name, stmt *Node) *Node            { return newNode(KindLabel, name, stmt) }
func Function(name, params, body *Node) *Node { return newNode(KindFunction, name, params, body) }

func Name(name string) *Node {
	n := newNode(KindName)
	n.Value = name
	return n
}

func LabelName(name string) *Node {
	n := newNode(KindLabelName)
	n.Value = name
	return n
}

func Num(value float64) *Node {
	n := newNode(KindNumber)
	n.Number = value
	return n
}

func Str(value string) *Node {
	n := newNode(KindString)
	n.Value = value
	return n
}

func Bool(value bool) *Node {
	if value {
		return newNode(KindTrue)
	}
	return newNode(KindFalse)
}

func Binary(op OpCode, left, right *Node) *Node {
	n := newNode(KindBinary, left, right)
	n.Op = op
	return n
}

func Unary(op OpCode, value *Node) *Node {
	n := newNode(KindUnary, value)
	n.Op = op
	return n
}

func Assign(target, value *Node) *Node {
	return Binary(BinOpAssign, target, value)
}

func Comma(left, right *Node) *Node {
	return Binary(BinOpComma, left, right)
}

// The canonical "undefined" value, printed as "void 0"
func VoidZero() *Node {
	return Unary(UnOpVoid, Num(0))
}

func GetProp(object *Node, name string) *Node {
	n := newNode(KindGetProp, object)
	n.Value = name
	return n
}

func GetElem(object, index *Node) *Node {
	return newNode(KindGetElem, object, index)
}

func Call(target *Node, args ...*Node) *Node {
	n := newNode(KindCall, target)
	for _, arg := range args {
		n.AppendChild(arg)
	}
	return n
}

func New(target *Node, args ...*Node) *Node {
	n := newNode(KindNew, target)
	for _, arg := range args {
		n.AppendChild(arg)
	}
	return n
}

func StringKey(key string, value *Node) *Node {
	n := newNode(KindStringKey, value)
	n.Value = key
	return n
}

func Break(label *Node) *Node {
	if label == nil {
		return newNode(KindBreak)
	}
	return newNode(KindBreak, label)
}

func Continue(label *Node) *Node {
	if label == nil {
		return newNode(KindContinue)
	}
	return newNode(KindContinue, label)
}

func (n *Node) IsLoopStructure() bool {
	switch n.Kind {
	case KindFor, KindForIn, KindForOf, KindWhile, KindDoWhile:
		return true
	}
	return false
}

// A var, let, or const declaration list
func (n *Node) IsNameDeclaration() bool {
	switch n.Kind {
	case KindVar, KindLet, KindConst:
		return true
	}
	return false
}

// A named function in statement position. Function expressions live under
// expression nodes, so a function whose parent is a statement container is a
// declaration.
func (n *Node) IsFunctionDeclaration() bool {
	if n.Kind != KindFunction || n.parent == nil {
		return false
	}
	switch n.parent.Kind {
	case KindScript, KindBlock, KindLabel:
		return n.first.Value != ""
	}
	return false
}

// An identifier that refers to (or binds) a variable. Property names, label
// names, and object literal keys are separate kinds, so every non-empty Name
// node qualifies.
func (n *Node) IsReferenceName() bool {
	return n.Kind == KindName && n.Value != ""
}

// Whether nameNode is the binding of a block-scoped declaration: a let/const
// declarator, a catch parameter, a function declared directly inside a block,
// or a class declaration (which must have been lowered before this compiler's
// passes run).
func (nameNode *Node) IsBlockScopedDeclaration() bool {
	parent := nameNode.parent
	if parent == nil {
		return false
	}
	switch parent.Kind {
	case KindLet, KindConst:
		return true
	case KindCatch:
		return nameNode == parent.first
	case KindClass:
		return nameNode == parent.first
	case KindFunction:
		// Function declarations in a nested block are block-scoped. Ones
		// directly in a function body or at the top level hoist normally.
		if nameNode != parent.first || !parent.IsFunctionDeclaration() {
			return false
		}
		grandParent := parent.parent
		return grandParent.Kind == KindBlock && grandParent.parent.Kind != KindFunction
	}
	return false
}

// EnclosingNode walks from n upward (including n itself) and returns the
// first node matching pred, or nil
func EnclosingNode(n *Node, pred func(*Node) bool) *Node {
	for ; n != nil; n = n.parent {
		if pred(n) {
			return n
		}
	}
	return nil
}

// The block holding a loop's body statements. Every loop keeps its body in a
// block; do-while keeps it first, the others keep it last.
func (n *Node) LoopCodeBlock() *Node {
	var body *Node
	switch n.Kind {
	case KindDoWhile:
		body = n.first
	case KindFor, KindForIn, KindForOf, KindWhile:
		body = n.last
	default:
		panic("Internal error: not a loop: " + n.Kind.String())
	}
	if body.Kind != KindBlock {
		panic("Internal error: loop body is not a block")
	}
	return body
}
