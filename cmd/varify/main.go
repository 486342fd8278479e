package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/varify/varify/internal/logger"
	"github.com/varify/varify/pkg/api"
)

const varifyVersion = "0.4.0"

const helpText = `
Usage:
  varify [options] [entry point]

  Reads from stdin when no entry point is given. Lowers "let" and "const"
  declarations to "var" while preserving per-iteration loop captures.

Options:
  --outfile=...         The output file (defaults to stdout)
  --externs=...         A file of declarations to avoid colliding with
  --loose               Allow references to names that are never declared
  --watch               Re-run the transform when the input file changes
  --color=...           Force use of color terminal escapes (true or false)
  --error-limit=...     Maximum error count or 0 to disable (default 10)
  --log-level=...       Disable logging (info, warning, error, silent)
  --version             Print the current version and exit (` + varifyVersion + `)

Examples:
  # Lower a file in place of stdout redirection
  varify src.js --outfile=out.js

  # Keep output current while editing
  varify src.js --outfile=out.js --watch
`

type args struct {
	input      string
	outfile    string
	externs    string
	loose      bool
	watch      bool
	errorLimit int
	logLevel   api.LogLevel
	color      api.StderrColor
}

func parseArgs(osArgs []string) (args, error) {
	parsed := args{errorLimit: 10}

	for _, arg := range osArgs {
		switch {
		case arg == "-h", arg == "-help", arg == "--help", arg == "/?":
			fmt.Fprint(os.Stderr, helpText)
			os.Exit(0)

		case arg == "--version":
			fmt.Printf("%s\n", varifyVersion)
			os.Exit(0)

		case arg == "--watch":
			parsed.watch = true

		case arg == "--loose":
			parsed.loose = true

		case strings.HasPrefix(arg, "--outfile="):
			parsed.outfile = arg[len("--outfile="):]

		case strings.HasPrefix(arg, "--externs="):
			parsed.externs = arg[len("--externs="):]

		case strings.HasPrefix(arg, "--error-limit="):
			value := arg[len("--error-limit="):]
			limit := 0
			if _, err := fmt.Sscanf(value, "%d", &limit); err != nil || limit < 0 {
				return parsed, fmt.Errorf("Invalid error limit: %s", arg)
			}
			parsed.errorLimit = limit

		case strings.HasPrefix(arg, "--color="):
			switch arg[len("--color="):] {
			case "true":
				parsed.color = api.ColorAlways
			case "false":
				parsed.color = api.ColorNever
			default:
				return parsed, fmt.Errorf("Invalid color setting: %s", arg)
			}

		case strings.HasPrefix(arg, "--log-level="):
			switch arg[len("--log-level="):] {
			case "info":
				parsed.logLevel = api.LogLevelInfo
			case "warning":
				parsed.logLevel = api.LogLevelWarning
			case "error":
				parsed.logLevel = api.LogLevelError
			case "silent":
				parsed.logLevel = api.LogLevelSilent
			default:
				return parsed, fmt.Errorf("Invalid log level: %s", arg)
			}

		case !strings.HasPrefix(arg, "-"):
			if parsed.input != "" {
				return parsed, fmt.Errorf("Duplicate entry point: %s", arg)
			}
			parsed.input = arg

		default:
			return parsed, fmt.Errorf("Invalid flag: %s", arg)
		}
	}

	if parsed.watch && parsed.input == "" {
		return parsed, fmt.Errorf("Cannot use --watch when reading from stdin")
	}
	return parsed, nil
}

func runTransform(parsed args) int {
	var input []byte
	var err error
	sourcefile := "<stdin>"
	if parsed.input != "" {
		sourcefile = parsed.input
		input, err = os.ReadFile(parsed.input)
	} else {
		input, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		logger.PrintErrorToStderr(os.Args[1:], fmt.Sprintf(
			"Could not read from %s: %s", sourcefile, err.Error()))
		return 1
	}

	externs := ""
	if parsed.externs != "" {
		contents, err := os.ReadFile(parsed.externs)
		if err != nil {
			logger.PrintErrorToStderr(os.Args[1:], fmt.Sprintf(
				"Could not read externs from %s: %s", parsed.externs, err.Error()))
			return 1
		}
		externs = string(contents)
	}

	result := api.Transform(string(input), api.TransformOptions{
		Sourcefile:                 sourcefile,
		Externs:                    externs,
		MayHaveUndeclaredVariables: parsed.loose,
		ErrorLimit:                 parsed.errorLimit,
		LogLevel:                   parsed.logLevel,
		Color:                      parsed.color,
	})

	if parsed.logLevel < api.LogLevelSilent {
		for _, msg := range result.Errors {
			printMessage(msg, logger.Error)
		}
		if parsed.logLevel < api.LogLevelError {
			for _, msg := range result.Warnings {
				printMessage(msg, logger.Warning)
			}
		}
	}
	if len(result.Errors) > 0 {
		return 1
	}

	if parsed.outfile != "" {
		if err := os.WriteFile(parsed.outfile, result.Code, 0644); err != nil {
			logger.PrintErrorToStderr(os.Args[1:], fmt.Sprintf(
				"Could not write to %s: %s", parsed.outfile, err.Error()))
			return 1
		}
	} else {
		os.Stdout.Write(result.Code)
	}
	return 0
}

func printMessage(msg api.Message, kind logger.MsgKind) {
	converted := logger.Msg{Kind: kind, Text: msg.Text}
	if msg.Location != nil {
		converted.Location = &logger.MsgLocation{
			File:     msg.Location.File,
			Line:     msg.Location.Line,
			Column:   msg.Location.Column,
			Length:   msg.Location.Length,
			LineText: msg.Location.LineText,
		}
	}
	logger.PrintMessageToStderr(os.Args[1:], converted)
}

// Blocks forever, re-running the transform whenever the watched files change
func watchLoop(parsed args) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.PrintErrorToStderr(os.Args[1:], "Could not start watcher: "+err.Error())
		os.Exit(1)
	}
	defer watcher.Close()

	if err := watcher.Add(parsed.input); err != nil {
		logger.PrintErrorToStderr(os.Args[1:], "Could not watch "+parsed.input+": "+err.Error())
		os.Exit(1)
	}
	if parsed.externs != "" {
		if err := watcher.Add(parsed.externs); err != nil {
			logger.PrintErrorToStderr(os.Args[1:], "Could not watch "+parsed.externs+": "+err.Error())
			os.Exit(1)
		}
	}

	runTransform(parsed)

	// Editors often fire several events for one save, so changes are
	// coalesced over a short window
	var pending <-chan time.Time
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				pending = time.After(100 * time.Millisecond)

				// Some editors replace the file, which removes the watch
				watcher.Add(event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.PrintErrorToStderr(os.Args[1:], "Watch error: "+err.Error())

		case <-pending:
			pending = nil
			runTransform(parsed)
		}
	}
}

func main() {
	parsed, err := parseArgs(os.Args[1:])
	if err != nil {
		logger.PrintErrorToStderr(os.Args[1:], err.Error())
		os.Exit(1)
	}

	if parsed.watch {
		watchLoop(parsed)
		return
	}
	os.Exit(runTransform(parsed))
}
