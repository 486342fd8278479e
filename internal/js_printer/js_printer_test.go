package js_printer

import (
	"testing"

	"github.com/varify/varify/internal/js_ast"
	"github.com/varify/varify/internal/test"
)

func printForTest(stmts ...*js_ast.Node) string {
	return string(Print(js_ast.Script(stmts...), Options{}).JS)
}

func TestFreeCallGuard(t *testing.T) {
	// A free call through a property access must not pick up the object as
	// its receiver
	call := js_ast.Call(js_ast.GetProp(js_ast.Name("a"), "b"))
	call.FreeCall = true
	test.AssertEqualWithDiff(t, printForTest(js_ast.ExprResult(call)), "(0, a.b)();\n")

	call = js_ast.Call(js_ast.GetElem(js_ast.Name("a"), js_ast.Str("b")))
	call.FreeCall = true
	test.AssertEqualWithDiff(t, printForTest(js_ast.ExprResult(call)), "(0, a[\"b\"])();\n")

	// A method call prints plainly
	call = js_ast.Call(js_ast.GetProp(js_ast.Name("a"), "b"))
	test.AssertEqualWithDiff(t, printForTest(js_ast.ExprResult(call)), "a.b();\n")

	// So does a free call of a plain name
	call = js_ast.Call(js_ast.Name("f"))
	call.FreeCall = true
	test.AssertEqualWithDiff(t, printForTest(js_ast.ExprResult(call)), "f();\n")
}

func TestIndentOption(t *testing.T) {
	name := js_ast.Name("x")
	name.AppendChild(js_ast.Num(1))
	block := js_ast.Block(js_ast.Var(name))
	observed := string(Print(js_ast.Script(block), Options{Indent: "\t"}).JS)
	test.AssertEqualWithDiff(t, observed, "{\n\tvar x = 1;\n}\n")
}

func TestQuoting(t *testing.T) {
	check := func(value string, expected string) {
		t.Helper()
		assign := js_ast.Assign(js_ast.Name("x"), js_ast.Str(value))
		test.AssertEqualWithDiff(t, printForTest(js_ast.ExprResult(assign)),
			"x = "+expected+";\n")
	}
	check("abc", "\"abc\"")
	check("a\"b", "\"a\\\"b\"")
	check("a\\b", "\"a\\\\b\"")
	check("a\nb", "\"a\\nb\"")
	check("a\r\tb", "\"a\\r\\tb\"")
	check("a\u2028b", "\"a\\u2028b\"")
	check("a\u2029b", "\"a\\u2029b\"")
	check("a\x01b", "\"a\\x01b\"")
}

func TestNumberFormatting(t *testing.T) {
	check := func(value float64, expected string) {
		t.Helper()
		assign := js_ast.Assign(js_ast.Name("x"), js_ast.Num(value))
		test.AssertEqualWithDiff(t, printForTest(js_ast.ExprResult(assign)),
			"x = "+expected+";\n")
	}
	check(0, "0")
	check(123, "123")
	check(0.5, "0.5")
	check(1e10, "10000000000")
	check(1e21, "1e+21")
}

func TestJSDocPrinting(t *testing.T) {
	name := js_ast.Name("x")
	name.AppendChild(js_ast.Num(1))
	decl := js_ast.Var(name)
	decl.JSDoc = &js_ast.JSDoc{Constancy: true}
	test.AssertEqualWithDiff(t, printForTest(decl), "/** @const */ var x = 1;\n")

	name = js_ast.Name("x")
	name.AppendChild(js_ast.Num(1))
	decl = js_ast.Var(name)
	decl.JSDoc = &js_ast.JSDoc{Raw: "@type {number}", Constancy: false}
	test.AssertEqualWithDiff(t, printForTest(decl), "/** @type {number} */ var x = 1;\n")
}

func TestStatementPositionWrapping(t *testing.T) {
	// An object literal in statement position must not parse as a block
	object := js_ast.ObjectLit(js_ast.StringKey("a", js_ast.Num(1)))
	test.AssertEqualWithDiff(t, printForTest(js_ast.ExprResult(object)), "({ a: 1 });\n")

	// Even when it only starts the expression
	prop := js_ast.GetProp(js_ast.ObjectLit(), "a")
	test.AssertEqualWithDiff(t, printForTest(js_ast.ExprResult(prop)), "({}.a);\n")
}
