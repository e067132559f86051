// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package merge

import (
	"context"
	"fmt"
	"os"

	"github.com/antgroup/structmerge/modules/artifact"
	"github.com/antgroup/structmerge/modules/textdiff"
)

// LineStrategy is the external line-based strategy (spec §6, outbound):
// given the three texts and their labels it returns merged text and whether
// the result is conflict-free. The core never inspects anything about its
// internals beyond this.
type LineStrategy func(ctx context.Context, textO, textA, textB, labelO, labelA, labelB string) (merged string, clean bool, err error)

// DefaultLineStrategy adapts the module's own line-based diff3 merge
// (textdiff.DefaultMerge) to the LineStrategy shape, so semistructured mode
// has a working fallback without any external process.
func DefaultLineStrategy(ctx context.Context, textO, textA, textB, labelO, labelA, labelB string) (string, bool, error) {
	merged, conflicts, err := textdiff.DefaultMerge(ctx, textO, textA, textB, labelO, labelA, labelB)
	return merged, !conflicts, err
}

// PathLineStrategy is the literal external-collaborator shape from spec §6:
// three input file paths and one output file path, returning success or a
// structured failure. ExternalLineStrategy adapts a PathLineStrategy into a
// LineStrategy by writing scratch files around the call, so a real
// subprocess-based merge tool can be substituted for DefaultLineStrategy
// without changing Engine's API.
type PathLineStrategy func(ctx context.Context, leftPath, basePath, rightPath, outPath string) error

// ExternalLineStrategy wraps strategy so it can be assigned to
// Semistructured.Strategy: it materializes textO/textA/textB under dir as
// scratch files scoped to this one call, invokes strategy, reads the output
// back, and removes every scratch file on all exit paths per spec §5's
// resource policy.
func ExternalLineStrategy(dir string, strategy PathLineStrategy) LineStrategy {
	return func(ctx context.Context, textO, textA, textB, labelO, labelA, labelB string) (string, bool, error) {
		basePath, err := writeScratch(dir, "structmerge-base-*.txt", textO)
		if err != nil {
			return "", false, err
		}
		defer removeScratch(basePath)
		leftPath, err := writeScratch(dir, "structmerge-left-*.txt", textA)
		if err != nil {
			return "", false, err
		}
		defer removeScratch(leftPath)
		rightPath, err := writeScratch(dir, "structmerge-right-*.txt", textB)
		if err != nil {
			return "", false, err
		}
		defer removeScratch(rightPath)
		outPath, err := writeScratch(dir, "structmerge-out-*.txt", "")
		if err != nil {
			return "", false, err
		}
		defer removeScratch(outPath)

		if err := strategy(ctx, leftPath, basePath, rightPath, outPath); err != nil {
			return "", false, fmt.Errorf("external line strategy failed: %w", err)
		}
		out, err := os.ReadFile(outPath)
		if err != nil {
			return "", false, err
		}
		clean := true
		for _, marker := range []string{textdiff.Sep1, textdiff.SepO, textdiff.Sep2, textdiff.Sep3} {
			if len(marker) > 0 && containsLine(string(out), marker) {
				clean = false
				break
			}
		}
		return string(out), clean, nil
	}
}

func containsLine(text, marker string) bool {
	for _, line := range splitLinesRaw(text) {
		if len(line) >= len(marker) && line[:len(marker)] == marker {
			return true
		}
	}
	return false
}

func splitLinesRaw(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, text[start:i])
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

// Semistructured, when set on an Engine, switches method/constructor bodies
// from structural merge to opaque-text merge via LineStrategy, per spec
// §4.4. Nil means fully structured merging.
type Semistructured struct {
	Enabled  bool
	Strategy LineStrategy
	ScratchDir string
}

// tryMergeOpaque merges left/right as opaque leaves when semistructured
// mode is enabled and both sides carry stored content. It returns
// (err, true) when it handled the merge (even if err is non-nil), or
// (nil, false) when the caller should fall through to structural merge.
func (e *Engine[N]) tryMergeOpaque(left, base, right, target *artifact.Artifact[N]) (error, bool) {
	if e.Semistructured == nil || !e.Semistructured.Enabled {
		return nil, false
	}
	if left.Node().Content() == "" && right.Node().Content() == "" {
		return nil, false
	}
	leftText := left.Node().Content()
	rightText := right.Node().Content()
	baseText := ""
	if base != nil {
		baseText = base.Node().Content()
	}
	if leftText == rightText {
		target.Node().SetContent(leftText)
		return nil, true
	}
	strategy := e.Semistructured.Strategy
	if strategy == nil {
		strategy = DefaultLineStrategy
	}
	merged, clean, err := strategy(context.Background(), baseText, leftText, rightText, string(artifact.Base), e.LeftName, e.RightName)
	if err != nil {
		return fmt.Errorf("semistructured merge failed: %w", err), true
	}
	target.Node().SetContent(merged)
	if !clean {
		target.SetConflict(true)
	}
	return nil, true
}

// writeScratch writes text to a uniquely-named temp file under dir (or the
// OS default when dir is empty) and returns its path, scoped to a single
// merge invocation per spec §5's resource policy. Callers must remove the
// file on every exit path.
func writeScratch(dir, pattern, text string) (string, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := f.WriteString(text); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func removeScratch(path string) {
	if path == "" {
		return
	}
	_ = os.Remove(path)
}
