// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"errors"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/antgroup/structmerge/modules/trace"
	"github.com/antgroup/structmerge/pkg/version"
)

type Globals struct {
	Verbose bool        `short:"V" name:"verbose" help:"Make the operation more talkative"`
	Version VersionFlag `short:"v" name:"version" help:"Show version number and quit"`
	Values  []string    `short:"X" name:":config" help:"Configuration override, format: <key>=<value>; parsed but not applied by any command"`
	CWD     string      `name:"cwd" help:"Set the path to the repository worktree"`
}

// DbgPrint routes verbose CLI output through modules/trace, which owns the
// terminal-color-aware rendering and the logrus-backed error logging this
// concern is built on; Globals only decides whether verbose mode is on.
func (g *Globals) DbgPrint(format string, args ...any) {
	trace.NewDebuger(g.Verbose).DbgPrint(format, args...)
}

type VersionFlag bool

func (v VersionFlag) Decode(ctx *kong.DecodeContext) error { return nil }
func (v VersionFlag) IsBool() bool                         { return true }
func (v VersionFlag) BeforeApply(app *kong.Kong, vars kong.Vars) error {
	fmt.Println(version.GetVersionString())
	app.Exit(0)
	return nil
}

var (
	ErrArgRequired = errors.New("arg required")
)
