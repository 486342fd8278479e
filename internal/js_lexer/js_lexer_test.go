package js_lexer

import (
	"testing"

	"github.com/varify/varify/internal/logger"
	"github.com/varify/varify/internal/test"
)

func lexerForTest(contents string) Lexer {
	return NewLexer(logger.NewDeferLog(), test.SourceForTest(contents))
}

func expectNumber(t *testing.T, contents string, expected float64) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		lexer := lexerForTest(contents)
		test.AssertEqual(t, lexer.Token, TNumericLiteral)
		test.AssertEqual(t, lexer.Number, expected)
	})
}

func expectString(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		lexer := lexerForTest(contents)
		test.AssertEqual(t, lexer.Token, TStringLiteral)
		test.AssertEqual(t, lexer.StringLiteral, expected)
	})
}

func TestTokens(t *testing.T) {
	lexer := lexerForTest("x = y.z")
	test.AssertEqual(t, lexer.Token, TIdentifier)
	test.AssertEqual(t, lexer.Identifier, "x")
	lexer.Next()
	test.AssertEqual(t, lexer.Token, TEquals)
	lexer.Next()
	test.AssertEqual(t, lexer.Token, TIdentifier)
	lexer.Next()
	test.AssertEqual(t, lexer.Token, TDot)
	lexer.Next()
	test.AssertEqual(t, lexer.Token, TIdentifier)
	test.AssertEqual(t, lexer.Identifier, "z")
	lexer.Next()
	test.AssertEqual(t, lexer.Token, TEndOfFile)
}

func TestKeywords(t *testing.T) {
	for text, token := range Keywords {
		lexer := lexerForTest(text)
		test.AssertEqual(t, lexer.Token, token)
	}

	// Keywords with a suffix are plain identifiers
	lexer := lexerForTest("lettuce")
	test.AssertEqual(t, lexer.Token, TIdentifier)
	test.AssertEqual(t, lexer.Identifier, "lettuce")
}

func TestNumericLiterals(t *testing.T) {
	expectNumber(t, "0", 0)
	expectNumber(t, "123", 123)
	expectNumber(t, "1.5", 1.5)
	expectNumber(t, "1.5e2", 150)
	expectNumber(t, "1E2", 100)
	expectNumber(t, "0x10", 16)
	expectNumber(t, "0XFF", 255)
}

func TestStringLiterals(t *testing.T) {
	expectString(t, "\"abc\"", "abc")
	expectString(t, "'abc'", "abc")
	expectString(t, "\"a\\nb\"", "a\nb")
	expectString(t, "\"a\\tb\"", "a\tb")
	expectString(t, "\"\\x41\"", "A")
	expectString(t, "\"\\u0041\"", "A")
	expectString(t, "\"quote \\\"inside\\\"\"", "quote \"inside\"")
	expectString(t, "'mixed \"quotes\"'", "mixed \"quotes\"")
}

func TestNewlineTracking(t *testing.T) {
	lexer := lexerForTest("a\nb c")
	test.AssertEqual(t, lexer.HasNewlineBefore, false)
	lexer.Next()
	test.AssertEqual(t, lexer.HasNewlineBefore, true)
	lexer.Next()
	test.AssertEqual(t, lexer.HasNewlineBefore, false)
}

func TestJSDocComments(t *testing.T) {
	lexer := lexerForTest("/** @const */ var")
	test.AssertEqual(t, lexer.Token, TVar)
	test.AssertEqual(t, lexer.JSDocComment, "@const")

	// Only "/**" comments count
	lexer = lexerForTest("/* @const */ var")
	test.AssertEqual(t, lexer.Token, TVar)
	test.AssertEqual(t, lexer.JSDocComment, "")

	// The comment is dropped once the token is consumed
	lexer = lexerForTest("/** @const */ var x")
	lexer.Next()
	test.AssertEqual(t, lexer.JSDocComment, "")
}
