// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/antgroup/structmerge/pkg/command"
	"github.com/antgroup/structmerge/pkg/version"
)

type App struct {
	command.Globals
	MergeFile command.MergeFile `cmd:"merge-file" help:"Run a three-way structural merge on a single file"`
	Version   command.Version   `cmd:"version" help:"Display version information"`
}

func main() {
	var app App
	ctx := kong.Parse(&app,
		kong.Name("structmerge"),
		kong.Description("Structural three-way merge for class-based OO source files"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version.GetVersionString(),
		},
	)
	now := time.Now()
	err := ctx.Run(&app.Globals)
	if app.Verbose {
		app.DbgPrint("time spent: %v", time.Since(now))
	}
	if err == nil {
		return
	}
	if e, ok := err.(*command.ErrExitCode); ok {
		os.Exit(e.ExitCode)
	}
	os.Exit(127)
}
