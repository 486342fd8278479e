package js_lower

import (
	"testing"

	"github.com/varify/varify/internal/compat"
	"github.com/varify/varify/internal/js_ast"
	"github.com/varify/varify/internal/js_parser"
	"github.com/varify/varify/internal/js_printer"
	"github.com/varify/varify/internal/logger"
	"github.com/varify/varify/internal/test"
)

func parseForTest(t *testing.T, contents string) *js_ast.Node {
	t.Helper()
	log := logger.NewDeferLog()
	tree, ok := js_parser.Parse(log, test.SourceForTest(contents))
	msgs := log.Done()
	text := ""
	for _, msg := range msgs {
		text += msg.String(logger.StderrOptions{}, logger.TerminalInfo{})
	}
	test.AssertEqualWithDiff(t, text, "")
	if !ok {
		t.Fatal("Expected no parse errors")
	}
	return tree
}

func lowerWithOptions(t *testing.T, contents string, options Options) string {
	t.Helper()
	tree := parseForTest(t, contents)
	pass := NewPass(options)
	pass.Process(nil, tree)
	return string(js_printer.Print(tree, js_printer.Options{}).JS)
}

func expectLowered(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		observed := lowerWithOptions(t, contents, Options{})
		test.AssertEqualWithDiff(t, observed, expected)
	})
}

func expectLoweredLoose(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		observed := lowerWithOptions(t, contents, Options{MayHaveUndeclaredVariables: true})
		test.AssertEqualWithDiff(t, observed, expected)
	})
}

func expectLoweredWithExterns(t *testing.T, externs string, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		tree := parseForTest(t, contents)
		externsTree := parseForTest(t, externs)
		pass := NewPass(Options{})
		pass.Process(externsTree, tree)
		observed := string(js_printer.Print(tree, js_printer.Options{}).JS)
		test.AssertEqualWithDiff(t, observed, expected)
	})
}

// Running the output through the pass again must be a no-op
func expectStable(t *testing.T, contents string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		once := lowerWithOptions(t, contents, Options{})
		twice := lowerWithOptions(t, once, Options{})
		test.AssertEqualWithDiff(t, twice, once)
	})
}

func TestSimpleDeclarations(t *testing.T) {
	expectLowered(t, "let x = 1;", "var x = 1;\n")
	expectLowered(t, "let x = 1, y = 2;", "var x = 1, y = 2;\n")
	expectLowered(t, "let x;", "var x;\n")
	expectLowered(t, "var x = 1;", "var x = 1;\n")

	// A top-level let keeps its name even when a nested function also uses it
	expectLowered(t, "let x = 1; function f() { var x = 2; return x; }",
		`var x = 1;
function f() {
  var x = 2;
  return x;
}
`)
}

func TestConstBecomesAnnotatedVar(t *testing.T) {
	expectLowered(t, "const x = 1;", "/** @const */ var x = 1;\n")

	// Each name of a multi-name const gets its own statement so each can
	// carry the annotation
	expectLowered(t, "const a = 1, b = 2;",
		"/** @const */ var a = 1;\n/** @const */ var b = 2;\n")

	// An existing comment is preserved and still marks constancy
	expectLowered(t, "/** @type {number} */ const n = 3;",
		"/** @type {number} */ var n = 3;\n")

	expectLowered(t, "{ const a = 1, b = 2; use(a, b); }",
		`{
  /** @const */ var a = 1;
  /** @const */ var b = 2;
  use(a, b);
}
`)
}

func TestForHeadMultiNameConst(t *testing.T) {
	// A for head has no statement positions, so the split statements land in
	// front of the loop instead
	expectLowered(t, "for (const i = 0, j = 3; i < j;) break;",
		`/** @const */ var i = 0;
/** @const */ var j = 3;
for (; i < j; )
  break;
`)

	// Later initializers may read earlier names, so the list moves out as a
	// whole before splitting
	expectLowered(t, "for (const a = next(), b = a + 1; a < b;) use(a, b);",
		`/** @const */ var a = next();
/** @const */ var b = a + 1;
for (; a < b; )
  use(a, b);
`)

	// The statements hop over a label on the loop
	expectLowered(t, "outer: for (const a = 1, b = 2; a < b;) break outer;",
		`/** @const */ var a = 1;
/** @const */ var b = 2;
outer: for (; a < b; )
  break outer;
`)

	// A single-name const stays in the head
	expectLowered(t, "for (const i = 0; i < 3;) break;",
		`for (/** @const */ var i = 0; i < 3; )
  break;
`)

	expectStable(t, "for (const i = 0, j = 3; i < j;) break;")
}

func TestBlockScopedShadowRenaming(t *testing.T) {
	expectLowered(t, "function f() { var x = 1; { let x = 2; use(x); } use(x); }",
		`function f() {
  var x = 1;
  {
    var x$0 = 2;
    use(x$0);
  }
  use(x);
}
`)

	// Two sibling blocks declaring the same name collide once both hoist
	expectLowered(t, "function f() { { let g = 1; use(g); } { let g = 2; use(g); } }",
		`function f() {
  {
    var g = 1;
    use(g);
  }
  {
    var g$0 = 2;
    use(g$0);
  }
}
`)

	// A name that is free in the shadowed region is left alone
	expectLowered(t, "{ let lone = 1; use(lone); }",
		`{
  var lone = 1;
  use(lone);
}
`)

	// Generated names skip over ones the program already uses
	expectLowered(t, "var x; var x$0; { let x = 1; }",
		`var x;
var x$0;
{
  var x$1 = 1;
}
`)
}

func TestRenamingStopsAtShadowingScope(t *testing.T) {
	// The inner function declares its own x, so its references do not get
	// renamed along with the outer block's x
	expectLowered(t,
		"function f() { var x = 1; { let x = 2; use(function() { var x = 3; return x; }); use(x); } }",
		`function f() {
  var x = 1;
  {
    var x$0 = 2;
    use(function() {
      var x = 3;
      return x;
    });
    use(x$0);
  }
}
`)
}

func TestCatchAndLoopHeadScopes(t *testing.T) {
	// The caught name is block-scoped and renames like a let
	expectLowered(t, "function f() { var e = 1; try { g(); } catch (e) { use(e); } use(e); }",
		`function f() {
  var e = 1;
  try {
    g();
  } catch (e$0) {
    use(e$0);
  }
  use(e);
}
`)

	// A loop-head let with no captures hoists in place
	expectLowered(t, "for (let i = 0; i < 3; i++) log(i);",
		`for (var i = 0; i < 3; i++)
  log(i);
`)

	// Same for const, which keeps its annotation in the loop head
	expectLowered(t, "for (const i = 0; i < 3; i++) log(i);",
		`for (/** @const */ var i = 0; i < 3; i++)
  log(i);
`)
}

func TestLooseModeAvoidsUndeclaredNames(t *testing.T) {
	// Without the option the block-scoped name hoists unrenamed, capturing
	// the top-level reference to a different "inner"
	expectLowered(t, "{ let inner = 1; log(inner); } inner.method();",
		`{
  var inner = 1;
  log(inner);
}
inner.method();
`)

	// With it, the declaration moves out of the way
	expectLoweredLoose(t, "{ let inner = 1; log(inner); } inner.method();",
		`{
  var inner$0 = 1;
  log(inner$0);
}
inner.method();
`)
}

func TestExternNamesForceRenaming(t *testing.T) {
	expectLoweredWithExterns(t, "var ext;", "{ let ext = 5; log(ext); }",
		`{
  var ext$0 = 5;
  log(ext$0);
}
`)

	// Function names and parameters in the externs count too
	expectLoweredWithExterns(t, "function handler(event) {}", "{ let event = 1; use(event); }",
		`{
  var event$0 = 1;
  use(event$0);
}
`)
}

func TestStability(t *testing.T) {
	expectStable(t, "function f() { var x = 1; { let x = 2; use(x); } use(x); }")
	expectStable(t, "for (const i = 0; i < 3; i++) log(i);")
	expectStable(t, "var a = []; for (let i = 0; i < 3; i++) a.push(function() { return i; });")
	expectStable(t, "while (cond()) { let x = next(); if (skip()) continue; defer(function() { use(x); }); }")
	expectStable(t, "for (const k in obj) setTimeout(function() { log(k); });")
}

func TestProcessReportsFeatures(t *testing.T) {
	tree := parseForTest(t, "let x = 1;")
	pass := NewPass(Options{})
	features := pass.Process(nil, tree)
	test.AssertEqual(t, features, compat.LetDeclarations|compat.ConstDeclarations)
}

func TestOnChangeCallback(t *testing.T) {
	changed := 0
	tree := parseForTest(t, "var x = 1; use(x);")
	pass := NewPass(Options{OnChange: func(*js_ast.Node) { changed++ }})
	pass.Process(nil, tree)
	test.AssertEqual(t, changed, 0)

	tree = parseForTest(t, "{ let x = 1; }")
	pass = NewPass(Options{OnChange: func(*js_ast.Node) { changed++ }})
	pass.Process(nil, tree)
	if changed == 0 {
		t.Fatal("Expected OnChange to fire for a rewritten declaration")
	}
}

func TestCustomIDSupplier(t *testing.T) {
	ids := []string{"a", "b", "c"}
	pass := NewPass(Options{NextID: func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}})
	tree := parseForTest(t, "{ let x; } { let x; }")
	pass.Process(nil, tree)
	observed := string(js_printer.Print(tree, js_printer.Options{}).JS)
	test.AssertEqualWithDiff(t, observed,
		`{
  var x;
}
{
  var x$a;
}
`)
}
