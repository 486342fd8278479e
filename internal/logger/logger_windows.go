//go:build windows
// +build windows

package logger

import (
	"os"
	"strings"

	"golang.org/x/sys/windows"
)

const SupportsColorEscapes = true

func GetTerminalInfo(file *os.File) TerminalInfo {
	fd := windows.Handle(file.Fd())

	// Is this file descriptor a terminal?
	var unused uint32
	isTTY := windows.GetConsoleMode(fd, &unused) == nil

	// Get the width of the window
	var info windows.ConsoleScreenBufferInfo
	windows.GetConsoleScreenBufferInfo(fd, &info)

	return TerminalInfo{
		IsTTY:           isTTY,
		Width:           int(info.Size.X) - 1,
		Height:          int(info.Size.Y) - 1,
		UseColorEscapes: isTTY,
	}
}

func writeStringWithColor(file *os.File, text string) {
	const foregroundBlue = 1
	const foregroundGreen = 2
	const foregroundRed = 4
	const foregroundIntensity = 8

	fd := windows.Handle(file.Fd())
	i := 0

	for i < len(text) {
		var attributes uint16
		end := i

		switch {
		case text[i] != 033:
			i++
			continue

		case strings.HasPrefix(text[i:], TerminalColors.Reset):
			i += len(TerminalColors.Reset)
			attributes = foregroundRed | foregroundGreen | foregroundBlue

		case strings.HasPrefix(text[i:], TerminalColors.Red):
			i += len(TerminalColors.Red)
			attributes = foregroundRed

		case strings.HasPrefix(text[i:], TerminalColors.Green):
			i += len(TerminalColors.Green)
			attributes = foregroundGreen

		case strings.HasPrefix(text[i:], TerminalColors.Blue):
			i += len(TerminalColors.Blue)
			attributes = foregroundBlue

		case strings.HasPrefix(text[i:], TerminalColors.Cyan):
			i += len(TerminalColors.Cyan)
			attributes = foregroundGreen | foregroundBlue

		case strings.HasPrefix(text[i:], TerminalColors.Magenta):
			i += len(TerminalColors.Magenta)
			attributes = foregroundRed | foregroundBlue

		case strings.HasPrefix(text[i:], TerminalColors.Yellow):
			i += len(TerminalColors.Yellow)
			attributes = foregroundRed | foregroundGreen

		case strings.HasPrefix(text[i:], TerminalColors.Dim):
			i += len(TerminalColors.Dim)
			attributes = foregroundRed | foregroundGreen | foregroundBlue

		case strings.HasPrefix(text[i:], TerminalColors.Bold):
			i += len(TerminalColors.Bold)
			attributes = foregroundRed | foregroundGreen | foregroundBlue | foregroundIntensity

		case strings.HasPrefix(text[i:], TerminalColors.ResetBold):
			i += len(TerminalColors.ResetBold)
			attributes = foregroundRed | foregroundGreen | foregroundBlue | foregroundIntensity

		// Apparently underlines only work with the CJK locale on Windows :(
		case strings.HasPrefix(text[i:], TerminalColors.Underline):
			i += len(TerminalColors.Underline)
			attributes = foregroundRed | foregroundGreen | foregroundBlue

		default:
			i++
			continue
		}

		file.WriteString(text[:end])
		text = text[i:]
		i = 0
		windows.SetConsoleTextAttribute(fd, attributes)
	}

	file.WriteString(text)
}
