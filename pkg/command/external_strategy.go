// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"

	shepherdcmd "github.com/antgroup/structmerge/modules/command"
	"github.com/antgroup/structmerge/modules/merge"
	"github.com/antgroup/structmerge/modules/trace"
)

// ExternalToolStrategy builds a merge.PathLineStrategy that shells out to an
// external three-way merge tool (e.g. "git merge-file", "diff3") for
// semistructured mode's opaque leaves, using the shepherd process tracker to
// run and account for the child process (spec §6's outbound line-based
// strategy interface, §5's resource model).
//
// The external tool is invoked as: name args... leftPath basePath rightPath
// outPath, matching the conventional "ours/base/theirs" argument order most
// three-way merge tools accept; it must exit 0 on a clean merge and non-zero
// when it left conflict markers in outPath.
func ExternalToolStrategy(sh shepherdcmd.Shepherd, name string, args ...string) merge.PathLineStrategy {
	return func(ctx context.Context, leftPath, basePath, rightPath, outPath string) error {
		full := append(append([]string{}, args...), leftPath, basePath, rightPath, outPath)
		cmd := sh.New(ctx, "", name, full...)
		if err := cmd.Run(); err != nil {
			// outPath is pre-created empty by the caller before the tool
			// runs, so its mere existence proves nothing; only a tool that
			// actually wrote output (conflict markers included) leaves it
			// non-empty.
			if info, statErr := os.Stat(outPath); statErr == nil && info.Size() > 0 {
				// Many merge tools exit non-zero to report that conflict
				// markers were written, not that the merge failed outright.
				return nil
			}
			return trace.Errorf("external merge tool %q: %v", name, err)
		}
		return nil
	}
}

// DefaultShepherd is the process tracker used by CLI-invoked external merge
// tools; shared across a single process's merge-file invocations so its
// ProcessesCount reflects all outstanding external merges.
var DefaultShepherd = shepherdcmd.NewShepherd()
