package api

import (
	"github.com/varify/varify/internal/compat"
	"github.com/varify/varify/internal/js_ast"
	"github.com/varify/varify/internal/js_lower"
	"github.com/varify/varify/internal/js_parser"
	"github.com/varify/varify/internal/js_printer"
	"github.com/varify/varify/internal/logger"
)

func convertMessages(msgs []logger.Msg, kind logger.MsgKind) []Message {
	var filtered []Message
	for _, msg := range msgs {
		if msg.Kind != kind {
			continue
		}
		var location *Location
		if msg.Location != nil {
			location = &Location{
				File:     msg.Location.File,
				Line:     msg.Location.Line,
				Column:   msg.Location.Column,
				Length:   msg.Location.Length,
				LineText: msg.Location.LineText,
			}
		}
		filtered = append(filtered, Message{Text: msg.Text, Location: location})
	}
	return filtered
}

func featureNames(features compat.JSFeature) []string {
	var names []string
	for _, feature := range []compat.JSFeature{
		compat.LetDeclarations,
		compat.ConstDeclarations,
		compat.ForOf,
		compat.Destructuring,
		compat.Classes,
		compat.ArrowFunctions,
	} {
		if features.Has(feature) {
			names = append(names, feature.String())
		}
	}
	return names
}

func transformImpl(input string, options TransformOptions) TransformResult {
	log := logger.NewDeferLog()

	prettyPath := options.Sourcefile
	if prettyPath == "" {
		prettyPath = "<stdin>"
	}
	source := logger.Source{
		Index:          0,
		PrettyPath:     prettyPath,
		IdentifierName: prettyPath,
		Contents:       input,
	}

	var result TransformResult
	tree, ok := js_parser.Parse(log, source)

	var externsTree *js_ast.Node
	if ok && options.Externs != "" {
		externsSource := logger.Source{
			Index:          1,
			PrettyPath:     "<externs>",
			IdentifierName: "<externs>",
			Contents:       options.Externs,
		}
		externsTree, ok = js_parser.Parse(log, externsSource)
	}

	if ok {
		pass := js_lower.NewPass(js_lower.Options{
			MayHaveUndeclaredVariables: options.MayHaveUndeclaredVariables,
		})
		features := pass.Process(externsTree, tree)
		printed := js_printer.Print(tree, js_printer.Options{})
		result.Code = printed.JS
		result.TranspiledFeatures = featureNames(features)
	}

	msgs := log.Done()
	result.Errors = convertMessages(msgs, logger.Error)
	result.Warnings = convertMessages(msgs, logger.Warning)
	if options.ErrorLimit > 0 && len(result.Errors) > options.ErrorLimit {
		result.Errors = result.Errors[:options.ErrorLimit]
	}
	return result
}
