// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package version carries build-time metadata injected via -ldflags.
package version

import (
	"fmt"
	"os"
	"path/filepath"
)

var (
	version     string
	buildCommit string
	buildTime   string
)

// GetVersionString returns a standard version header.
func GetVersionString() string {
	return fmt.Sprintf("%s %v (%s), built %v", filepath.Base(os.Args[0]), version, buildCommit, buildTime)
}

func GetBuildCommit() string {
	return buildCommit
}

// GetVersion returns the semver compatible version number.
func GetVersion() string {
	return version
}

// GetBuildTime returns the time at which the build took place.
func GetBuildTime() string {
	return buildTime
}

// GetUserAgent returns an agent string naming structmerge's version and,
// when Uname succeeds, the host system.
func GetUserAgent() string {
	if u, err := Uname(); err == nil {
		return fmt.Sprintf("structmerge/%s (%s; %s; %s)", version, u.Name, u.Machine, u.Release)
	}
	return "structmerge/" + version
}
