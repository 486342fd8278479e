package api

import (
	"strings"
	"testing"

	"github.com/varify/varify/internal/test"
)

func TestTransform(t *testing.T) {
	result := Transform("{ let x = 1; }", TransformOptions{})
	test.AssertEqual(t, len(result.Errors), 0)
	test.AssertEqual(t, len(result.Warnings), 0)
	test.AssertEqualWithDiff(t, string(result.Code), "{\n  var x = 1;\n}\n")
	test.AssertEqual(t, strings.Join(result.TranspiledFeatures, ", "),
		"let declarations, const declarations")
}

func TestTransformLoopCapture(t *testing.T) {
	result := Transform(
		"var a = []; for (let i = 0; i < 3; i++) a.push(function() { return i; });",
		TransformOptions{})
	test.AssertEqual(t, len(result.Errors), 0)
	code := string(result.Code)
	if !strings.Contains(code, "var $jscomp$loop$0 = {};") {
		t.Fatal(code)
	}
	if strings.Contains(code, "let ") {
		t.Fatal("Expected no let declarations in the output")
	}
}

func TestTransformError(t *testing.T) {
	result := Transform("let [x] = y", TransformOptions{Sourcefile: "in.js"})
	test.AssertEqual(t, len(result.Errors), 1)
	test.AssertEqual(t, len(result.Code), 0)

	msg := result.Errors[0]
	test.AssertEqual(t, msg.Text, "Destructuring declarations must be lowered before this compiler runs")
	if msg.Location == nil {
		t.Fatal("Expected a location")
	}
	test.AssertEqual(t, msg.Location.File, "in.js")
	test.AssertEqual(t, msg.Location.Line, 1)
	test.AssertEqual(t, msg.Location.Column, 4)
	test.AssertEqual(t, msg.Location.Length, 1)
	test.AssertEqual(t, msg.Location.LineText, "let [x] = y")
}

func TestTransformDefaultSourcefile(t *testing.T) {
	result := Transform("var 1", TransformOptions{})
	test.AssertEqual(t, len(result.Errors), 1)
	test.AssertEqual(t, result.Errors[0].Location.File, "<stdin>")
}

func TestTransformExterns(t *testing.T) {
	result := Transform("{ let ext = 5; log(ext); }", TransformOptions{Externs: "var ext;"})
	test.AssertEqual(t, len(result.Errors), 0)
	test.AssertEqualWithDiff(t, string(result.Code), "{\n  var ext$0 = 5;\n  log(ext$0);\n}\n")
}

func TestTransformExternsError(t *testing.T) {
	result := Transform("var ok;", TransformOptions{Externs: "var ]"})
	test.AssertEqual(t, len(result.Errors), 1)
	test.AssertEqual(t, result.Errors[0].Location.File, "<externs>")
}

func TestTransformUndeclaredVariables(t *testing.T) {
	input := "{ let inner = 1; log(inner); } inner.method();"

	result := Transform(input, TransformOptions{})
	if !strings.Contains(string(result.Code), "var inner = 1;") {
		t.Fatal(string(result.Code))
	}

	result = Transform(input, TransformOptions{MayHaveUndeclaredVariables: true})
	if !strings.Contains(string(result.Code), "var inner$0 = 1;") {
		t.Fatal(string(result.Code))
	}
}
