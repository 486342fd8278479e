package test

import (
	"strings"

	"github.com/varify/varify/internal/logger"
)

// Diff renders a unified-style line diff between two strings. Good enough
// for test failure output; quadratic in the number of lines.
func Diff(old string, new string, color bool) string {
	lines := diffLines(nil, strings.Split(old, "\n"), strings.Split(new, "\n"), color)
	return strings.Join(lines, "\n")
}

func markLine(prefix string, line string, escape string, color bool) string {
	if color {
		return escape + prefix + line + logger.TerminalColors.Reset
	}
	return prefix + line
}

// Recursively splits both sides around their longest run of identical lines.
// No run at all means everything on the old side was removed and everything
// on the new side was added.
func diffLines(result []string, old []string, new []string, color bool) []string {
	oldStart, newStart, runLength := longestCommonRun(old, new)

	if runLength == 0 {
		for _, line := range old {
			result = append(result, markLine("-", line, logger.TerminalColors.Red, color))
		}
		for _, line := range new {
			result = append(result, markLine("+", line, logger.TerminalColors.Green, color))
		}
		return result
	}

	result = diffLines(result, old[:oldStart], new[:newStart], color)
	for _, line := range old[oldStart : oldStart+runLength] {
		result = append(result, markLine(" ", line, logger.TerminalColors.Dim, color))
	}
	return diffLines(result, old[oldStart+runLength:], new[newStart+runLength:], color)
}

// Longest run of lines present in both slices, found with the classic
// two-row dynamic programming table over line equality. Returns the start
// index in each slice and the length of the run.
func longestCommonRun(old []string, new []string) (oldStart int, newStart int, runLength int) {
	previousRow := make([]int, len(new))
	currentRow := make([]int, len(new))

	for i, oldLine := range old {
		for j, newLine := range new {
			if oldLine != newLine {
				currentRow[j] = 0
				continue
			}
			if j == 0 {
				currentRow[j] = 1
			} else {
				currentRow[j] = previousRow[j-1] + 1
			}
			if currentRow[j] > runLength {
				runLength = currentRow[j]
				oldStart = i + 1 - runLength
				newStart = j + 1 - runLength
			}
		}
		previousRow, currentRow = currentRow, previousRow
	}

	return oldStart, newStart, runLength
}
