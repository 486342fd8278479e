package main

import (
	"testing"

	"github.com/varify/varify/pkg/api"
)

func TestParseArgs(t *testing.T) {
	parsed, err := parseArgs([]string{
		"in.js",
		"--outfile=out.js",
		"--externs=ext.js",
		"--loose",
		"--error-limit=5",
		"--log-level=warning",
		"--color=false",
	})
	if err != nil {
		t.Fatal(err)
	}
	if parsed.input != "in.js" || parsed.outfile != "out.js" || parsed.externs != "ext.js" {
		t.Fatalf("Bad paths: %+v", parsed)
	}
	if !parsed.loose || parsed.watch {
		t.Fatalf("Bad flags: %+v", parsed)
	}
	if parsed.errorLimit != 5 {
		t.Fatalf("Bad error limit: %d", parsed.errorLimit)
	}
	if parsed.logLevel != api.LogLevelWarning {
		t.Fatalf("Bad log level: %d", parsed.logLevel)
	}
	if parsed.color != api.ColorNever {
		t.Fatalf("Bad color: %d", parsed.color)
	}
}

func TestParseArgsDefaults(t *testing.T) {
	parsed, err := parseArgs(nil)
	if err != nil {
		t.Fatal(err)
	}
	if parsed.input != "" || parsed.errorLimit != 10 {
		t.Fatalf("Bad defaults: %+v", parsed)
	}
}

func TestParseArgsErrors(t *testing.T) {
	invalid := [][]string{
		{"--watch"}, // stdin cannot be watched
		{"--bogus"},
		{"--error-limit=x"},
		{"--error-limit=-3"},
		{"--color=maybe"},
		{"--log-level=loud"},
		{"a.js", "b.js"},
	}
	for _, osArgs := range invalid {
		if _, err := parseArgs(osArgs); err == nil {
			t.Fatalf("Expected an error for %v", osArgs)
		}
	}
}
