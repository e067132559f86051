// Package term detects the terminal's color capability so the CLI and the
// debug tracer can pick plain, 256-color or truecolor escape sequences.
package term

import (
	"os"
	"strings"

	"github.com/antgroup/structmerge/modules/strengthen"
	"golang.org/x/term"
)

// Level is the color capability of a stream.
type Level int

const (
	LevelNone Level = iota
	Level256
	Level16M
)

var (
	StderrLevel Level
	StdoutLevel Level
)

func detectLevel() Level {
	if strengthen.SimpleAtob(os.Getenv("STRUCTMERGE_FORCE_TRUECOLOR"), false) {
		return Level16M
	}
	if strengthen.SimpleAtob(os.Getenv("NO_COLOR"), false) {
		return LevelNone
	}
	if _, ok := os.LookupEnv("WT_SESSION"); ok {
		return Level16M
	}
	colorTermEnv := os.Getenv("COLORTERM")
	termEnv := os.Getenv("TERM")
	switch {
	case strings.Contains(termEnv, "24bit"), strings.Contains(termEnv, "truecolor"),
		strings.Contains(colorTermEnv, "24bit"), strings.Contains(colorTermEnv, "truecolor"):
		return Level16M
	case strings.Contains(termEnv, "256"), strings.Contains(colorTermEnv, "256"):
		return Level256
	}
	return LevelNone
}

func init() {
	level := detectLevel()
	if IsTerminal(os.Stderr.Fd()) {
		StderrLevel = level
	}
	if IsTerminal(os.Stdout.Fd()) {
		StdoutLevel = level
	}
}

func IsTerminal(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

func GetSize(fd int) (width, height int, err error) {
	return term.GetSize(fd)
}
