package compat

import (
	"testing"
)

func TestHas(t *testing.T) {
	features := LetDeclarations | ForOf
	if !features.Has(LetDeclarations) || !features.Has(ForOf) {
		t.Fatal("Expected both features to be present")
	}
	if features.Has(ConstDeclarations) || features.Has(Classes) {
		t.Fatal("Expected other features to be absent")
	}
}

func TestString(t *testing.T) {
	check := func(features JSFeature, expected string) {
		t.Helper()
		if observed := features.String(); observed != expected {
			t.Fatalf("%q != %q", observed, expected)
		}
	}
	check(0, "")
	check(LetDeclarations, "let declarations")
	check(LetDeclarations|ConstDeclarations, "let declarations, const declarations")
	check(ForOf|ArrowFunctions, "for-of loops, arrow functions")
}
