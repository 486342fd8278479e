package api

// This API lowers ES2015 block-scoped "let" and "const" declarations to
// function-scoped "var" declarations while preserving per-iteration capture
// semantics. The input must already be free of classes, destructuring,
// arrow functions, and for-of loops.
//
// Example usage:
//
//	result := api.Transform("{ let x = 1; }",
//	  api.TransformOptions{Sourcefile: "input.js"})
//	if len(result.Errors) == 0 {
//	  os.Stdout.Write(result.Code)
//	}

type LogLevel uint8

const (
	LogLevelNone LogLevel = iota
	LogLevelInfo
	LogLevelWarning
	LogLevelError
	LogLevelSilent
)

type StderrColor uint8

const (
	ColorIfTerminal StderrColor = iota
	ColorNever
	ColorAlways
)

type Location struct {
	File     string
	Line     int // 1-based
	Column   int // 0-based, in bytes
	Length   int // in bytes
	LineText string
}

type Message struct {
	Text     string
	Location *Location
}

type TransformOptions struct {
	// The file name used in error messages. Defaults to "<stdin>".
	Sourcefile string

	// Extra source whose declarations must not be collided with when the
	// transform invents names. Never modified or emitted.
	Externs string

	// Set when the input may reference names that are never declared, such
	// as when transpiling a fragment of a larger program
	MayHaveUndeclaredVariables bool

	ErrorLimit int
	LogLevel   LogLevel
	Color      StderrColor
}

type TransformResult struct {
	Errors   []Message
	Warnings []Message

	Code []byte

	// Names of the language features removed from the output, such as
	// "let declarations"
	TranspiledFeatures []string
}

func Transform(input string, options TransformOptions) TransformResult {
	return transformImpl(input, options)
}
