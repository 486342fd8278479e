package js_lower

// Rewrites "let" and "const" declarations into "var", renaming block-scoped
// names that would collide once hoisted and rewriting loop-captured names
// into properties of a per-iteration loop object (see loop_closure.go).
//
// Destructuring, classes, arrow functions, and for-of loops must have been
// lowered by earlier stages before this pass runs.

import (
	"strconv"

	"github.com/varify/varify/internal/compat"
	"github.com/varify/varify/internal/js_ast"
	"github.com/varify/varify/internal/js_scope"
)

type Options struct {
	// When the input is only being transpiled, names may be referenced
	// without ever being declared. Renaming a hoisted declaration onto one
	// of those names would capture it, so they are collected up front.
	MayHaveUndeclaredVariables bool

	// Invoked after each tree mutation with a node near the change. Useful
	// for invalidating caches layered on top of the tree.
	OnChange func(n *js_ast.Node)

	// Supplies the unique id suffixes used in generated names. Defaults to
	// a counter starting at 0, matching generated names like "x$0" and
	// "$jscomp$loop$1".
	NextID func() string
}

type Pass struct {
	opts   Options
	nextID func() string

	// scope root -> old name -> new name
	renameTable map[*js_ast.Node]map[string]string

	letConsts      []*js_ast.Node
	letConstsIndex map[*js_ast.Node]bool

	undeclaredNames map[string]bool
	externNames     map[string]bool
}

func NewPass(options Options) *Pass {
	p := &Pass{
		opts:            options,
		nextID:          options.NextID,
		renameTable:     make(map[*js_ast.Node]map[string]string),
		letConstsIndex:  make(map[*js_ast.Node]bool),
		undeclaredNames: make(map[string]bool),
		externNames:     make(map[string]bool),
	}
	if p.nextID == nil {
		counter := 0
		p.nextID = func() string {
			id := strconv.Itoa(counter)
			counter++
			return id
		}
	}
	return p
}

// Process lowers every block-scoped declaration under root. The externs tree
// is only read, never modified. The returned feature set names the syntax
// that no longer appears in the tree.
func (p *Pass) Process(externs, root *js_ast.Node) compat.JSFeature {
	if p.opts.MayHaveUndeclaredVariables {
		p.undeclaredNames = js_scope.CollectUndeclaredNames(root)
	}
	p.externNames = js_scope.CollectExternVariableNames(externs)

	js_scope.Traverse(root, p.visit, nil)
	js_scope.Traverse(root, p.renameReferences, nil)

	transformer := newLoopClosureTransformer(p)
	js_scope.Traverse(root, transformer.visit, nil)
	transformer.transformLoopClosure()

	p.rewriteDeclsToVars()
	return compat.LetDeclarations | compat.ConstDeclarations
}

func (p *Pass) reportChange(n *js_ast.Node) {
	if p.opts.OnChange != nil {
		p.opts.OnChange(n)
	}
}

func (p *Pass) addLetConst(n *js_ast.Node) {
	if !p.letConstsIndex[n] {
		p.letConstsIndex[n] = true
		p.letConsts = append(p.letConsts, n)
	}
}

func (p *Pass) removeLetConst(n *js_ast.Node) {
	delete(p.letConstsIndex, n)
}

// The collision resolver: runs over every block-scoped declaration and
// renames the ones whose names would be captured once hoisted
func (p *Pass) visit(n *js_ast.Node, scope *js_scope.Scope) {
	if !n.HasChildren() || !n.FirstChild().IsBlockScopedDeclaration() {
		return
	}
	if parent := n.Parent(); parent != nil && parent.Kind == js_ast.KindForOf {
		panic("Internal error: for-of loops must be lowered before this pass runs")
	}

	if n.Kind == js_ast.KindLet || n.Kind == js_ast.KindConst {
		p.addLetConst(n)
	}
	if n.IsNameDeclaration() {
		for nameNode := n.FirstChild(); nameNode != nil; nameNode = nameNode.Next() {
			p.visitBlockScopedName(scope, n, nameNode)
		}
	} else {
		if n.Kind != js_ast.KindFunction && n.Kind != js_ast.KindCatch {
			panic("Internal error: unexpected declaration node: " + n.Kind.String())
		}
		p.visitBlockScopedName(scope, n, n.FirstChild())
	}
}

// Renames a block-scoped declaration that shadows a variable visible from
// the scope it will be hoisted into.
//
// Also normalizes "let x;" inside a loop to "let x = void 0;" since the
// declaration becomes a plain assignment to a loop object property and the
// property must reset on every iteration.
func (p *Pass) visitBlockScopedName(scope *js_scope.Scope, decl, nameNode *js_ast.Node) {
	parent := decl.Parent()
	if (decl.Kind == js_ast.KindLet || decl.Kind == js_ast.KindConst) &&
		!nameNode.HasChildren() &&
		(parent == nil || parent.Kind != js_ast.KindForIn) &&
		inLoop(decl) {
		nameNode.AppendChild(js_ast.VoidZero())
		p.reportChange(nameNode)
	}

	oldName := nameNode.Value
	hoistScope := scope.ClosestHoistScope()
	if scope != hoistScope {
		newName := oldName
		if hoistScope.HasSlot(oldName) || p.undeclaredNames[oldName] || p.externNames[oldName] {
			for {
				newName = oldName + "$" + p.nextID()
				if !hoistScope.HasSlot(newName) {
					break
				}
			}
			nameNode.Value = newName
			p.reportChange(nameNode)
			scopeRoot := scope.Root
			renames := p.renameTable[scopeRoot]
			if renames == nil {
				renames = make(map[string]string)
				p.renameTable[scopeRoot] = renames
			}
			renames[oldName] = newName
		}
		// Migrate the declaration into the hoist scope so later conflicts
		// within the same traversal are detected
		oldVar := scope.Lookup(oldName)
		oldVar.Scope.Undeclare(oldVar)
		hoistScope.Declare(newName, nameNode, oldVar.Kind)
	}
}

// Whether n is inside a loop. A function body inside a loop does not count;
// per-iteration capture is what the loop closure transformer exists for.
func inLoop(n *js_ast.Node) bool {
	enclosing := js_ast.EnclosingNode(n, func(n *js_ast.Node) bool {
		return n.Kind == js_ast.KindFunction || n.IsLoopStructure()
	})
	return enclosing != nil && enclosing.Kind != js_ast.KindFunction
}

// Applies the rename table to every reference. Walking outward from the
// reference, the first scope that either has a rename for the name or
// declares the name itself wins.
func (p *Pass) renameReferences(n *js_ast.Node, scope *js_scope.Scope) {
	if !n.IsReferenceName() {
		return
	}
	oldName := n.Value
	for current := scope; current != nil; current = current.Parent {
		if renames := p.renameTable[current.Root]; renames != nil {
			if newName, ok := renames[oldName]; ok {
				n.Value = newName
				p.reportChange(n)
				return
			}
		}
		if current.OwnSlot(oldName) != nil {
			return
		}
	}
}

func extractInlineJSDoc(srcDeclaration, srcName, destDeclaration *js_ast.Node) {
	info := srcDeclaration.JSDoc
	if info == nil {
		// The doc was written inline on the name, as in "let /** T */ x"
		info = srcName.JSDoc
		srcName.JSDoc = nil
	}
	destDeclaration.JSDoc = info.Clone()
}

func maybeAddConstJSDoc(srcDeclaration, srcName, destDeclaration *js_ast.Node) {
	if srcDeclaration.Kind == js_ast.KindConst {
		extractInlineJSDoc(srcDeclaration, srcName, destDeclaration)
		if destDeclaration.JSDoc == nil {
			destDeclaration.JSDoc = &js_ast.JSDoc{}
		}
		destDeclaration.JSDoc.Constancy = true
	}
}

// Splits a multi-name declaration list into one "var" statement per name so
// each can carry its own constancy annotation:
//
//	const i = 0, j = 0;
//
// becomes
//
//	/** @const */ var i = 0;
//	/** @const */ var j = 0;
//
// A multi-name list in a "for" head has no statement positions around it, so
// the whole list first moves out in front of the loop.
func (p *Pass) handleDeclarationList(declarationList, parent *js_ast.Node) {
	if declarationList.HasMoreThanOneChild() && parent != nil &&
		parent.Kind == js_ast.KindFor && parent.FirstChild() == declarationList {
		declarationList.ReplaceWith(js_ast.Empty())
		p.addNodeBeforeLoop(declarationList, parent)
	}
	for declarationList.HasMoreThanOneChild() {
		name := declarationList.LastChild().Detach()
		newDeclaration := js_ast.Var(name)
		maybeAddConstJSDoc(declarationList, name, newDeclaration)
		newDeclaration.InsertAfter(declarationList)
		p.reportChange(parent)
	}
	maybeAddConstJSDoc(declarationList, declarationList.FirstChild(), declarationList)
	declarationList.Kind = js_ast.KindVar
}

// Inserts newNode directly before loopNode, hopping over any labels so the
// insertion lands in statement position. A loop that is itself the braceless
// body of another statement first gets a block of its own.
func (p *Pass) addNodeBeforeLoop(newNode, loopNode *js_ast.Node) {
	insertSpot := loopNode
	for insertSpot.Parent().Kind == js_ast.KindLabel {
		insertSpot = insertSpot.Parent()
	}
	parent := insertSpot.Parent()
	if parent.Kind != js_ast.KindBlock && parent.Kind != js_ast.KindScript {
		block := js_ast.Block()
		insertSpot.ReplaceWith(block)
		block.AppendChild(insertSpot)
	}
	newNode.InsertBefore(insertSpot)
	p.reportChange(newNode)
}

func (p *Pass) rewriteDeclsToVars() {
	for _, n := range p.letConsts {
		if !p.letConstsIndex[n] {
			continue
		}
		if n.Kind == js_ast.KindConst {
			p.handleDeclarationList(n, n.Parent())
		}
		n.Kind = js_ast.KindVar
		p.reportChange(n)
	}
}
