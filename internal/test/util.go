package test

import (
	"fmt"
	"testing"

	"github.com/varify/varify/internal/logger"
)

func AssertEqual(t *testing.T, observed interface{}, expected interface{}) {
	t.Helper()
	if observed != expected {
		t.Fatalf("%s != %s", observed, expected)
	}
}

func AssertEqualWithDiff(t *testing.T, observed interface{}, expected interface{}) {
	t.Helper()
	if observed != expected {
		stringA := fmt.Sprintf("%v", observed)
		stringB := fmt.Sprintf("%v", expected)
		t.Fatal("\n" + Diff(stringB, stringA, logger.SupportsColorEscapes))
	}
}

func SourceForTest(contents string) logger.Source {
	return logger.Source{
		Index:          0,
		PrettyPath:     "<stdin>",
		Contents:       contents,
		IdentifierName: "stdin",
	}
}
