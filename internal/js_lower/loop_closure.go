package js_lower

// Per-iteration capture. A let/const declared in a loop and captured by a
// function must give each iteration its own binding:
//
//	for (let i = 0; i < 3; i++) {
//	  use(function() { return i; });
//	}
//
// becomes
//
//	var $jscomp$loop$0 = {};
//	$jscomp$loop$0.$jscomp$loop$prop$i$1 = 0;
//	for (; $jscomp$loop$0.$jscomp$loop$prop$i$1 < 3;
//	    $jscomp$loop$0 = {$jscomp$loop$prop$i$1: $jscomp$loop$0.$jscomp$loop$prop$i$1},
//	    $jscomp$loop$0.$jscomp$loop$prop$i$1++) {
//	  use(function($jscomp$loop$0) {
//	    return function() { return $jscomp$loop$0.$jscomp$loop$prop$i$1; };
//	  }($jscomp$loop$0));
//	}
//
// The loop object is rebuilt from its previous value before each iteration,
// and every capturing function is wrapped in an immediately-invoked function
// that pins the object current at that iteration.

import (
	"github.com/varify/varify/internal/js_ast"
	"github.com/varify/varify/internal/js_scope"
)

const loopObjectName = "$jscomp$loop"
const loopObjectPropertyName = "$jscomp$loop$prop$"

type loopObject struct {
	// Also used as the label on the block wrapping the original loop body
	// when continue statements have to be rewritten. Labels and variables
	// are different namespaces, so sharing the name is safe.
	name string

	vars   []*js_scope.Var
	varSet map[*js_scope.Var]bool
}

func (o *loopObject) addVar(v *js_scope.Var) {
	if !o.varSet[v] {
		o.varSet[v] = true
		o.vars = append(o.vars, v)
	}
}

type loopClosureTransformer struct {
	p *Pass

	loopObjectMap map[*js_ast.Node]*loopObject
	loopOrder     []*js_ast.Node

	// Function (or object literal with an accessor) -> loop objects its
	// wrapper must receive
	wrapTargets   []*js_ast.Node
	wrapObjects   map[*js_ast.Node][]*loopObject
	wrapObjectSet map[*js_ast.Node]map[*loopObject]bool

	// Wrap target -> names already accounted for, so several references to
	// the same variable don't register the target twice
	handled map[*js_ast.Node]map[string]bool

	referenceMap    map[*js_scope.Var][]*js_ast.Node
	propertyNameMap map[*js_scope.Var]string
}

func newLoopClosureTransformer(p *Pass) *loopClosureTransformer {
	return &loopClosureTransformer{
		p:               p,
		loopObjectMap:   make(map[*js_ast.Node]*loopObject),
		wrapObjects:     make(map[*js_ast.Node][]*loopObject),
		wrapObjectSet:   make(map[*js_ast.Node]map[*loopObject]bool),
		handled:         make(map[*js_ast.Node]map[string]bool),
		referenceMap:    make(map[*js_scope.Var][]*js_ast.Node),
		propertyNameMap: make(map[*js_scope.Var]string),
	}
}

// The discovery pass: finds references to loop-declared let/const variables
// and records which functions capture them
func (t *loopClosureTransformer) visit(n *js_ast.Node, referencedIn *js_scope.Scope) {
	if !n.IsReferenceName() {
		return
	}

	name := n.Value
	v := referencedIn.Lookup(name)
	if v == nil || (!v.IsLet() && !v.IsConst()) {
		return
	}

	if parent := n.Parent(); parent.Kind == js_ast.KindLet || parent.Kind == js_ast.KindConst {
		t.p.addLetConst(parent)
	}

	// Walk outward from the declaration. Hitting a function body or the top
	// level first means no loop is involved; hitting a loop means references
	// to this variable may need to go through a loop object.
	declaredIn := v.Scope
	var loopNode *js_ast.Node
	for s := declaredIn; ; s = s.Parent {
		scopeRoot := s.Root
		if scopeRoot.IsLoopStructure() {
			loopNode = scopeRoot
			break
		} else if scopeRoot.Parent() != nil && scopeRoot.Parent().IsLoopStructure() {
			loopNode = scopeRoot.Parent()
			break
		} else if s.IsFunctionBlockScope() || s.IsGlobal() {
			return
		}
	}

	t.referenceMap[v] = append(t.referenceMap[v], n)

	// Walk inward from the reference. Crossing a function boundary on the
	// way back to the declaration means the function captures the variable.
	var outerMostFunctionScope *js_scope.Scope
	for s := referencedIn; s != declaredIn && s.Root != loopNode; s = s.Parent {
		if s.IsFunctionScope() {
			outerMostFunctionScope = s
		}
	}
	if outerMostFunctionScope == nil {
		return
	}

	enclosingFunction := outerMostFunctionScope.Root

	// A getter or setter cannot be wrapped on its own, so the whole object
	// literal gets the closure instead
	nodeToWrapInClosure := enclosingFunction
	if parent := enclosingFunction.Parent(); parent.Kind == js_ast.KindGetterDef ||
		parent.Kind == js_ast.KindSetterDef {
		nodeToWrapInClosure = enclosingFunction.GrandParent()
		if nodeToWrapInClosure.Kind != js_ast.KindObjectLit {
			panic("Internal error: accessor outside an object literal")
		}
	}
	if t.handled[nodeToWrapInClosure][name] {
		return
	}
	if t.handled[nodeToWrapInClosure] == nil {
		t.handled[nodeToWrapInClosure] = make(map[string]bool)
	}
	t.handled[nodeToWrapInClosure][name] = true

	object := t.loopObjectMap[loopNode]
	if object == nil {
		object = &loopObject{
			name:   loopObjectName + "$" + t.p.nextID(),
			varSet: make(map[*js_scope.Var]bool),
		}
		t.loopObjectMap[loopNode] = object
		t.loopOrder = append(t.loopOrder, loopNode)
	}
	object.addVar(v)
	t.propertyNameMap[v] = loopObjectPropertyName + v.Name + "$" + t.p.nextID()

	if !t.wrapObjectSet[nodeToWrapInClosure][object] {
		if t.wrapObjectSet[nodeToWrapInClosure] == nil {
			t.wrapObjectSet[nodeToWrapInClosure] = make(map[*loopObject]bool)
			t.wrapTargets = append(t.wrapTargets, nodeToWrapInClosure)
		}
		t.wrapObjectSet[nodeToWrapInClosure][object] = true
		t.wrapObjects[nodeToWrapInClosure] = append(t.wrapObjects[nodeToWrapInClosure], object)
	}
}

// A "$jscomp$loop$0" name node carrying the loop object's type tag
func (t *loopClosureTransformer) loopObjectNameNode(object *loopObject) *js_ast.Node {
	n := js_ast.Name(object.name)
	n.Color = js_ast.ColorTopObject
	return n
}

// A "$jscomp$loop$0.$jscomp$loop$prop$x$1" replacement for a reference to x
func (t *loopClosureTransformer) loopVarReferenceReplacement(
	object *loopObject, reference *js_ast.Node, propertyName string) *js_ast.Node {
	replacement := js_ast.GetProp(t.loopObjectNameNode(object), propertyName)
	replacement.Color = reference.Color
	return replacement
}

// Loops whose bodies get rewritten need the body in a block even if the
// source had a lone statement
func ensureLoopBodyBlock(loopNode *js_ast.Node) {
	body := loopNode.LastChild()
	if loopNode.Kind == js_ast.KindDoWhile {
		body = loopNode.FirstChild()
	}
	if body.Kind != js_ast.KindBlock {
		block := js_ast.Block()
		body.ReplaceWith(block)
		block.AppendChild(body)
	}
}

func (t *loopClosureTransformer) transformLoopClosure() {
	if len(t.loopOrder) == 0 {
		return
	}

	for _, loopNode := range t.loopOrder {
		object := t.loopObjectMap[loopNode]

		// The assignment run between iterations, copying every captured
		// property forward into a fresh object:
		//   $jscomp$loop$0 = {$jscomp$loop$prop$i$1: $jscomp$loop$0.$jscomp$loop$prop$i$1}
		// The declaration before the loop starts out empty instead of
		// duplicating this, because properties may refer to each other.
		objectLitNextIteration := js_ast.ObjectLit()
		for _, v := range object.vars {
			propertyName := t.propertyNameMap[v]
			objectLitNextIteration.AppendChild(js_ast.StringKey(
				propertyName,
				t.loopVarReferenceReplacement(object, v.NameNode, propertyName)))
		}
		updateLoopObject := js_ast.Assign(t.loopObjectNameNode(object), objectLitNextIteration)

		declName := t.loopObjectNameNode(object)
		declName.AppendChild(js_ast.ObjectLit())
		t.p.addNodeBeforeLoop(js_ast.Var(declName), loopNode)

		if loopNode.Kind == js_ast.KindFor {
			// The initializer moves out in front of the loop, and the loop
			// object update joins the increment clause
			initializer := loopNode.FirstChild()
			initializer.ReplaceWith(js_ast.Empty())
			if initializer.Kind != js_ast.KindEmpty {
				if !initializer.IsNameDeclaration() {
					initializer = js_ast.ExprResult(initializer)
				}
				t.p.addNodeBeforeLoop(initializer, loopNode)
			}

			increment := loopNode.ChildAtIndex(2)
			if increment.Kind == js_ast.KindEmpty {
				increment.ReplaceWith(updateLoopObject)
			} else {
				placeHolder := js_ast.Empty()
				increment.ReplaceWith(placeHolder)
				placeHolder.ReplaceWith(js_ast.Comma(updateLoopObject, increment))
			}
		} else {
			// The update runs as the last statement of the body. Continue
			// statements would skip it, so when any refer to this loop the
			// original body moves into a labeled block and the continues
			// become labeled breaks:
			//
			//	while (condition) {
			//	  $jscomp$loop$0: {
			//	    ...      // "continue" is now "break $jscomp$loop$0"
			//	  }
			//	  $jscomp$loop$0 = {...};
			//	}
			ensureLoopBodyBlock(loopNode)
			innerBlockLabel := object.name
			loopBody := loopNode.LoopCodeBlock()
			if t.maybeUpdateContinueStatements(loopNode, innerBlockLabel) {
				innerBlock := js_ast.Block()
				for _, stmt := range loopBody.TakeChildren() {
					innerBlock.AppendChild(stmt)
				}
				loopBody.PrependChild(js_ast.Label(js_ast.LabelName(innerBlockLabel), innerBlock))
			}
			loopBody.AppendChild(js_ast.ExprResult(updateLoopObject))
		}
		t.p.reportChange(loopNode)

		// Captured declarations become assignments to loop object
		// properties, and every reference is redirected through the object
		for _, v := range object.vars {
			propertyName := t.propertyNameMap[v]
			for _, reference := range t.referenceMap[v] {
				if loopNode.Kind == js_ast.KindForOf {
					panic("Internal error: for-of loops must be lowered before this pass runs")
				}
				if loopNode.Kind == js_ast.KindForIn && loopNode.FirstChild() == reference.Parent() {
					// The loop variable of "for (const p in obj)" keeps its
					// declaration as the assignment target. The body starts
					// by copying it into the loop object:
					//   $jscomp$loop$0.$jscomp$loop$prop$p$1 = p;
					if !reference.Parent().IsNameDeclaration() {
						panic("Internal error: expected a declaration in the for-in head")
					}
					loopVarReference := reference.CloneNode()
					loopNode.LastChild().PrependChild(js_ast.ExprResult(js_ast.Assign(
						t.loopVarReferenceReplacement(object, reference, propertyName),
						loopVarReference)))
				} else {
					if reference.Parent().IsNameDeclaration() {
						declaration := reference.Parent()
						grandParent := declaration.Parent()
						t.p.handleDeclarationList(declaration, grandParent)
						declaration = reference.Parent() // may differ after the split
						if reference.HasChildren() {
							newReference := reference.CloneNode()
							assign := js_ast.Assign(newReference, reference.RemoveFirstChild())
							extractInlineJSDoc(declaration, reference, declaration)
							maybeAddConstJSDoc(declaration, reference, declaration)
							assign.JSDoc = declaration.JSDoc

							declaration.ReplaceWith(js_ast.ExprResult(assign))
							reference = newReference
						} else {
							// No initial value, so the declaration just goes
							// away; the loop object update resets the
							// property each iteration
							declaration.Detach()
						}
						t.p.removeLetConst(declaration)
						t.p.reportChange(grandParent)
					}

					// The callee is no longer a plain name, so the call
					// stops being receiverless by default
					if parent := reference.Parent(); parent != nil &&
						parent.Kind == js_ast.KindCall && parent.FirstChild() == reference {
						parent.FreeCall = false
					}
					reference.ReplaceWith(
						t.loopVarReferenceReplacement(object, reference, propertyName))
				}
			}
		}
	}

	// Wrap each capturing function (or object literal) in a closure taking
	// the loop objects as parameters, called immediately with the current
	// objects
	for _, functionOrObjectLit := range t.wrapTargets {
		returnNode := js_ast.ReturnNothing()
		objects := t.wrapObjects[functionOrObjectLit]

		params := js_ast.ParamList()
		var args []*js_ast.Node
		for _, object := range objects {
			params.AppendChild(t.loopObjectNameNode(object))
			args = append(args, t.loopObjectNameNode(object))
		}

		iife := js_ast.Function(js_ast.Name(""), params, js_ast.Block(returnNode))
		iife.Color = js_ast.ColorTopObject
		call := js_ast.Call(iife, args...)
		call.Color = functionOrObjectLit.Color
		call.FreeCall = true

		isFunctionDeclaration := functionOrObjectLit.IsFunctionDeclaration()
		if isFunctionDeclaration {
			// "function f() {...}" must stay a statement that defines f, so
			// it becomes "var f = (wrapper)(...)". Hoisting is lost, but a
			// block-scoped function in a loop was never hoisted far anyway.
			fnName := js_ast.Name(functionOrObjectLit.FirstChild().Value)
			fnName.AppendChild(call)
			functionOrObjectLit.ReplaceWith(js_ast.Var(fnName))
		} else {
			functionOrObjectLit.ReplaceWith(call)
		}
		returnNode.PrependChild(functionOrObjectLit)
		t.p.reportChange(call)
	}
}

// Rewrites continue statements that refer to loopNode into
// "break $jscomp$loop$0" so the loop object update still runs. Returns true
// if anything was rewritten, in which case the caller labels the body block.
func (t *loopClosureTransformer) maybeUpdateContinueStatements(loopNode *js_ast.Node, breakLabel string) bool {
	originalLoopLabel := ""
	if loopParent := loopNode.Parent(); loopParent.Kind == js_ast.KindLabel {
		originalLoopLabel = loopParent.FirstChild().Value
	}
	updater := &continueStatementUpdater{
		breakLabel:        breakLabel,
		originalLoopLabel: originalLoopLabel,
	}
	js_scope.Traverse(loopNode.LoopCodeBlock(), updater.visit, updater.shouldDescend)
	return updater.replacedAContinueStatement
}

type continueStatementUpdater struct {
	// Label for the break statements that replace continue statements
	breakLabel        string
	originalLoopLabel string

	// How many loops deep below the one being rewritten
	loopDepth int

	replacedAContinueStatement bool
}

func (u *continueStatementUpdater) shouldDescend(n *js_ast.Node) bool {
	if n.Kind == js_ast.KindClass {
		panic("Internal error: classes must be lowered before this pass runs")
	}
	if n.Kind == js_ast.KindFunction {
		return false
	}
	if n.IsLoopStructure() {
		if u.originalLoopLabel == "" {
			// An unlabeled loop cannot be continued from inner loops
			return false
		}
		u.loopDepth++
	}
	return true
}

func (u *continueStatementUpdater) visit(n *js_ast.Node, _ *js_scope.Scope) {
	if n.IsLoopStructure() {
		u.loopDepth--
	} else if n.Kind == js_ast.KindContinue {
		if u.loopDepth == 0 && !n.HasChildren() {
			u.replaceWithBreak(n)
		} else if u.originalLoopLabel != "" && n.HasChildren() &&
			n.OnlyChild().Value == u.originalLoopLabel {
			u.replaceWithBreak(n)
		}
		// Any other continue belongs to an inner loop
	}
}

func (u *continueStatementUpdater) replaceWithBreak(continueNode *js_ast.Node) {
	continueNode.ReplaceWith(js_ast.Break(js_ast.LabelName(u.breakLabel)))
	u.replacedAContinueStatement = true
}
