package js_scope

// Syntactic scopes, rebuilt from the tree on demand. The lowering passes
// mutate the tree so aggressively that attaching symbol tables to nodes
// would mean keeping them consistent through every splice. Instead each
// traversal builds its own scope chain as it descends, the way a
// single-pass resolver would.

import (
	"github.com/varify/varify/internal/js_ast"
)

type VarKind uint8

const (
	// A "var" declaration, hoisted to the closest function or global scope
	VarNormal VarKind = iota
	VarLet
	VarConst
	VarParam
	VarCatch
	VarFunction
)

type Var struct {
	Name     string
	NameNode *js_ast.Node
	Kind     VarKind
	Scope    *Scope
}

func (v *Var) IsLet() bool   { return v.Kind == VarLet }
func (v *Var) IsConst() bool { return v.Kind == VarConst }

type Scope struct {
	Root   *js_ast.Node
	Parent *Scope

	vars  map[string]*Var
	order []string
}

// IsScopeRoot reports whether n opens a new scope: the script itself,
// functions (parameters), blocks, loop heads that can declare names, and
// catch clauses (the caught name lives outside the catch body's block).
func IsScopeRoot(n *js_ast.Node) bool {
	switch n.Kind {
	case js_ast.KindScript, js_ast.KindFunction, js_ast.KindBlock,
		js_ast.KindFor, js_ast.KindForIn, js_ast.KindForOf, js_ast.KindCatch:
		return true
	}
	return false
}

// NewScope builds the scope rooted at root, declaring exactly the names that
// syntactically belong to it
func NewScope(parent *Scope, root *js_ast.Node) *Scope {
	s := &Scope{
		Root:   root,
		Parent: parent,
		vars:   make(map[string]*Var),
	}

	switch root.Kind {
	case js_ast.KindScript:
		s.declareDirectStatements(root)
		s.declareHoistedVars(root)

	case js_ast.KindFunction:
		// A function expression can refer to itself by name. Declarations
		// put their name in the enclosing scope instead.
		name := root.FirstChild()
		if name.Value != "" && !root.IsFunctionDeclaration() {
			s.Declare(name.Value, name, VarFunction)
		}
		for param := name.Next().FirstChild(); param != nil; param = param.Next() {
			s.Declare(param.Value, param, VarParam)
		}

	case js_ast.KindBlock:
		s.declareDirectStatements(root)
		if root.Parent() != nil && root.Parent().Kind == js_ast.KindFunction {
			s.declareHoistedVars(root)
		}

	case js_ast.KindFor, js_ast.KindForIn:
		if init := root.FirstChild(); init != nil && isBlockScopedList(init) {
			s.declareList(init)
		}

	case js_ast.KindCatch:
		name := root.FirstChild()
		s.Declare(name.Value, name, VarCatch)
	}

	return s
}

func isBlockScopedList(n *js_ast.Node) bool {
	return n.Kind == js_ast.KindLet || n.Kind == js_ast.KindConst
}

func (s *Scope) declareList(list *js_ast.Node) {
	kind := VarLet
	if list.Kind == js_ast.KindConst {
		kind = VarConst
	}
	for name := list.FirstChild(); name != nil; name = name.Next() {
		s.Declare(name.Value, name, kind)
	}
}

// Block-scoped declarations that are direct children of this scope's root
func (s *Scope) declareDirectStatements(root *js_ast.Node) {
	for stmt := root.FirstChild(); stmt != nil; stmt = stmt.Next() {
		switch {
		case isBlockScopedList(stmt):
			s.declareList(stmt)
		case stmt.IsFunctionDeclaration():
			name := stmt.FirstChild()
			s.Declare(name.Value, name, VarFunction)
		case stmt.Kind == js_ast.KindLabel && stmt.LastChild().IsFunctionDeclaration():
			name := stmt.LastChild().FirstChild()
			s.Declare(name.Value, name, VarFunction)
		}
	}
}

// "var" declarations hoist out of blocks and loops up to the closest
// function body or the top level, but never out of a nested function
func (s *Scope) declareHoistedVars(n *js_ast.Node) {
	for child := n.FirstChild(); child != nil; child = child.Next() {
		switch child.Kind {
		case js_ast.KindFunction:
			continue
		case js_ast.KindVar:
			for name := child.FirstChild(); name != nil; name = name.Next() {
				if s.OwnSlot(name.Value) == nil {
					s.Declare(name.Value, name, VarNormal)
				}
			}
		}
		s.declareHoistedVars(child)
	}
}

func (s *Scope) Declare(name string, nameNode *js_ast.Node, kind VarKind) *Var {
	v := &Var{Name: name, NameNode: nameNode, Kind: kind, Scope: s}
	if _, exists := s.vars[name]; !exists {
		s.order = append(s.order, name)
	}
	s.vars[name] = v
	return v
}

func (s *Scope) Undeclare(v *Var) {
	if s.vars[v.Name] == v {
		delete(s.vars, v.Name)
		for i, name := range s.order {
			if name == v.Name {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}

// OwnSlot returns the variable declared directly in this scope, or nil
func (s *Scope) OwnSlot(name string) *Var {
	return s.vars[name]
}

// Lookup walks the scope chain from this scope outward
func (s *Scope) Lookup(name string) *Var {
	for scope := s; scope != nil; scope = scope.Parent {
		if v := scope.vars[name]; v != nil {
			return v
		}
	}
	return nil
}

// HasSlot reports whether the name resolves anywhere on the scope chain
func (s *Scope) HasSlot(name string) bool {
	return s.Lookup(name) != nil
}

// Names returns the declared names in declaration order
func (s *Scope) Names() []string {
	return s.order
}

func (s *Scope) IsGlobal() bool {
	return s.Root.Kind == js_ast.KindScript
}

func (s *Scope) IsFunctionScope() bool {
	return s.Root.Kind == js_ast.KindFunction
}

// The scope of a function's body block, as opposed to a nested block
func (s *Scope) IsFunctionBlockScope() bool {
	return s.Root.Kind == js_ast.KindBlock &&
		s.Root.Parent() != nil && s.Root.Parent().Kind == js_ast.KindFunction
}

// A hoist scope is one that "var" declarations cannot escape: the global
// scope, a function scope, or a function body block
func (s *Scope) IsHoistScope() bool {
	switch s.Root.Kind {
	case js_ast.KindScript, js_ast.KindFunction:
		return true
	case js_ast.KindBlock:
		return s.Root.Parent() != nil && s.Root.Parent().Kind == js_ast.KindFunction
	}
	return false
}

func (s *Scope) ClosestHoistScope() *Scope {
	for scope := s; scope != nil; scope = scope.Parent {
		if scope.IsHoistScope() {
			return scope
		}
	}
	return nil
}

// A Visitor is invoked in post-order with the innermost scope containing n.
// For a node that is itself a scope root that is its own scope.
type Visitor func(n *js_ast.Node, s *Scope)

// Traverse walks the subtree rooted at root in post-order, building scopes
// on the way down. shouldDescend, if non-nil, is consulted before entering a
// node; returning false skips the node entirely, children and visit both.
// Visitors may detach or replace the node they are given.
func Traverse(root *js_ast.Node, visit Visitor, shouldDescend func(*js_ast.Node) bool) {
	TraverseFrom(root, nil, visit, shouldDescend)
}

// TraverseFrom is Traverse starting inside an existing scope chain
func TraverseFrom(root *js_ast.Node, scope *Scope, visit Visitor, shouldDescend func(*js_ast.Node) bool) {
	if shouldDescend != nil && !shouldDescend(root) {
		return
	}
	current := scope
	if IsScopeRoot(root) {
		current = NewScope(scope, root)
	}
	for child := root.FirstChild(); child != nil; {
		// The visitor may detach the child, so grab its sibling first
		next := child.Next()
		TraverseFrom(child, current, visit, shouldDescend)
		child = next
	}
	visit(root, current)
}

// CollectExternVariableNames gathers every name the externs tree declares:
// declaration lists, function names and parameters, and catch parameters
func CollectExternVariableNames(externs *js_ast.Node) map[string]bool {
	names := make(map[string]bool)
	if externs == nil {
		return names
	}
	Traverse(externs, func(n *js_ast.Node, s *Scope) {
		switch n.Kind {
		case js_ast.KindVar, js_ast.KindLet, js_ast.KindConst:
			for name := n.FirstChild(); name != nil; name = name.Next() {
				names[name.Value] = true
			}
		case js_ast.KindFunction:
			if name := n.FirstChild(); name.Value != "" {
				names[name.Value] = true
			}
			for param := n.FirstChild().Next().FirstChild(); param != nil; param = param.Next() {
				names[param.Value] = true
			}
		case js_ast.KindCatch:
			names[n.FirstChild().Value] = true
		}
	}, nil)
	return names
}

// CollectUndeclaredNames gathers every name referenced in the given roots
// that no scope declares. Renaming a hoisted declaration to collide with one
// of these would change behavior, so the lowering pass avoids them.
func CollectUndeclaredNames(roots ...*js_ast.Node) map[string]bool {
	undeclared := make(map[string]bool)
	for _, root := range roots {
		if root == nil {
			continue
		}
		Traverse(root, func(n *js_ast.Node, s *Scope) {
			if n.IsReferenceName() && !s.HasSlot(n.Value) {
				undeclared[n.Value] = true
			}
		}, nil)
	}
	return undeclared
}
