package js_scope

import (
	"sort"
	"strings"
	"testing"

	"github.com/varify/varify/internal/js_ast"
	"github.com/varify/varify/internal/js_parser"
	"github.com/varify/varify/internal/logger"
	"github.com/varify/varify/internal/test"
)

func parseForTest(t *testing.T, contents string) *js_ast.Node {
	t.Helper()
	log := logger.NewDeferLog()
	tree, ok := js_parser.Parse(log, test.SourceForTest(contents))
	if !ok {
		t.Fatal("Expected no parse errors")
	}
	return tree
}

// The scope observed at a given reference, captured during a traversal
func scopeAtName(t *testing.T, tree *js_ast.Node, name string) *Scope {
	t.Helper()
	var found *Scope
	Traverse(tree, func(n *js_ast.Node, s *Scope) {
		if n.Kind == js_ast.KindName && n.Value == name {
			found = s
		}
	}, nil)
	if found == nil {
		t.Fatalf("Name %q not found", name)
	}
	return found
}

func TestVarHoisting(t *testing.T) {
	tree := parseForTest(t, "function f(p) { var a; { let b; var c; } }")
	s := scopeAtName(t, tree, "b")

	// The let is declared in the block itself
	if v := s.OwnSlot("b"); v == nil || !v.IsLet() {
		t.Fatal("Expected b to be a let in the block scope")
	}

	// The vars are not, even the one written inside the block
	test.AssertEqual(t, s.OwnSlot("a") == nil, true)
	test.AssertEqual(t, s.OwnSlot("c") == nil, true)

	hoist := s.ClosestHoistScope()
	test.AssertEqual(t, hoist.IsFunctionBlockScope(), true)
	test.AssertEqual(t, hoist.OwnSlot("a") != nil, true)
	test.AssertEqual(t, hoist.OwnSlot("c") != nil, true)
	test.AssertEqual(t, strings.Join(hoist.Names(), ","), "a,c")

	// The parameter lives in the function scope above the body block
	if v := s.Lookup("p"); v == nil || v.Kind != VarParam {
		t.Fatal("Expected p to be a parameter")
	}
}

func TestVarsDoNotEscapeFunctions(t *testing.T) {
	tree := parseForTest(t, "function f() { var a; } var b;")
	var script *Scope
	Traverse(tree, func(n *js_ast.Node, s *Scope) {
		if n.Kind == js_ast.KindScript {
			script = s
		}
	}, nil)
	test.AssertEqual(t, script.OwnSlot("a") == nil, true)
	test.AssertEqual(t, script.OwnSlot("b") != nil, true)
	test.AssertEqual(t, script.OwnSlot("f") != nil, true)
}

func TestLoopHeadScope(t *testing.T) {
	tree := parseForTest(t, "for (let i = 0; i < 3; i++) use(i);")
	s := scopeAtName(t, tree, "use")
	if v := s.Lookup("i"); v == nil || !v.IsLet() {
		t.Fatal("Expected i to be a let on the loop scope")
	}
	test.AssertEqual(t, s.Root.Kind, js_ast.KindFor)
	test.AssertEqual(t, s.IsHoistScope(), false)
	test.AssertEqual(t, s.ClosestHoistScope().IsGlobal(), true)
}

func TestCatchScope(t *testing.T) {
	tree := parseForTest(t, "try { f(); } catch (e) { use(e); }")
	s := scopeAtName(t, tree, "use")
	v := s.Lookup("e")
	if v == nil || v.Kind != VarCatch {
		t.Fatal("Expected e to be the caught name")
	}

	// The caught name belongs to the catch clause, not the body block
	test.AssertEqual(t, s.OwnSlot("e") == nil, true)
	test.AssertEqual(t, v.Scope.Root.Kind, js_ast.KindCatch)
}

func TestFunctionExpressionSelfName(t *testing.T) {
	tree := parseForTest(t, "var q = function r() { return r; };")
	s := scopeAtName(t, tree, "q")
	test.AssertEqual(t, s.IsGlobal(), true)

	// The expression's name is visible inside itself only
	test.AssertEqual(t, s.OwnSlot("r") == nil, true)
	inner := scopeAtName(t, tree, "r")
	if v := inner.Lookup("r"); v == nil || v.Kind != VarFunction {
		t.Fatal("Expected r to resolve to the function expression")
	}
}

func TestDeclareAndUndeclare(t *testing.T) {
	tree := parseForTest(t, "var a;")
	var script *Scope
	Traverse(tree, func(n *js_ast.Node, s *Scope) {
		if n.Kind == js_ast.KindScript {
			script = s
		}
	}, nil)

	v := script.Declare("z", js_ast.Name("z"), VarLet)
	test.AssertEqual(t, script.HasSlot("z"), true)
	test.AssertEqual(t, strings.Join(script.Names(), ","), "a,z")

	script.Undeclare(v)
	test.AssertEqual(t, script.HasSlot("z"), false)
	test.AssertEqual(t, strings.Join(script.Names(), ","), "a")

	// Undeclaring a stale handle does not remove a newer one
	v2 := script.Declare("z", js_ast.Name("z"), VarConst)
	script.Undeclare(v)
	test.AssertEqual(t, script.OwnSlot("z"), v2)
}

func TestShouldDescendSkipsNodeEntirely(t *testing.T) {
	tree := parseForTest(t, "a(); function f() { b(); } c();")
	var visited []string
	Traverse(tree, func(n *js_ast.Node, s *Scope) {
		if n.Kind == js_ast.KindName && n.Value != "" {
			visited = append(visited, n.Value)
		}
	}, func(n *js_ast.Node) bool {
		return n.Kind != js_ast.KindFunction
	})
	test.AssertEqual(t, strings.Join(visited, ","), "a,c")
}

func TestCollectUndeclaredNames(t *testing.T) {
	tree := parseForTest(t, "var a; b(a, c); function d(e) { f(e); }")
	undeclared := CollectUndeclaredNames(tree)
	var names []string
	for name := range undeclared {
		names = append(names, name)
	}
	sort.Strings(names)
	test.AssertEqual(t, strings.Join(names, ","), "b,c,f")
}

func TestCollectExternVariableNames(t *testing.T) {
	tree := parseForTest(t, "var x; function g(h) {} try {} catch (e) {}")
	names := CollectExternVariableNames(tree)
	var sorted []string
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)
	test.AssertEqual(t, strings.Join(sorted, ","), "e,g,h,x")

	test.AssertEqual(t, len(CollectExternVariableNames(nil)), 0)
}
