// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package strategy_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/antgroup/structmerge/pkg/strategy"
)

// readFixture loads one leg (base/left/right) of a testdata scenario, per
// spec §8's literal testfiles layout.
func readFixture(t *testing.T, leg, relPath string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", leg, relPath))
	require.NoError(t, err)
	return string(b)
}

// TestEndToEndScenarios runs spec §8's five literal scenarios through the
// structured strategy and checks the properties the spec attaches to each:
// clean set-union merges stay conflict-free, and the described conflicts
// actually surface as a CONFLICT region in the merged output.
func TestEndToEndScenarios(t *testing.T) {
	cases := []struct {
		name     string
		relPath  string
		wantFunc string // substring that must appear in the merged source
		wantRest string
		clean    bool
	}{
		{
			name:     "Bag_DisjointAdditions",
			relPath:  "SimpleTests/Bag/Bag.java",
			wantFunc: "add(int x)",
			wantRest: "remove(int x)",
			clean:    true,
		},
		{
			name:    "Bag2_RenameVsBodyChange",
			relPath: "SimpleTests/Bag/Bag2.java",
			clean:   false,
		},
		{
			name:    "Bag3_DeleteVsModify",
			relPath: "SimpleTests/Bag/Bag3.java",
			clean:   false,
		},
		{
			name:     "ImportMess_DisjointImports",
			relPath:  "SimpleTests/ImportMess.java",
			wantFunc: "import java.util.Map;",
			wantRest: "import java.util.Set;",
			clean:    true,
		},
		{
			name:    "ExprTest_FixedAritySafetyTrap",
			relPath: "SimpleTests/ExprTest.java",
			clean:   false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			baseText := readFixture(t, "base", tc.relPath)
			leftText := readFixture(t, "left", tc.relPath)
			rightText := readFixture(t, "right", tc.relPath)

			cctx := strategy.DefaultContext()
			cctx.Strategy = strategy.Structured
			result, err := strategy.MergeThreeWay(context.Background(), cctx, baseText, leftText, rightText)
			require.NoError(t, err)
			require.Equal(t, strategy.Structured, result.UsedKind)
			require.Equal(t, tc.clean, result.Clean, "merged output:\n%s", result.Text)
			if tc.clean {
				require.NotContains(t, result.Text, "<<<<<<<")
			} else {
				require.Contains(t, result.Text, "<<<<<<<")
				require.Contains(t, result.Text, "=======")
				require.Contains(t, result.Text, ">>>>>>>")
			}
			if tc.wantFunc != "" {
				require.Contains(t, result.Text, tc.wantFunc)
			}
			if tc.wantRest != "" {
				require.Contains(t, result.Text, tc.wantRest)
			}
		})
	}
}

// TestImportMessImportsStayLexicallySorted pins down the "stable order"
// half of scenario 4: regardless of which side added which import, the
// printer sorts the ImportDecl set lexically.
func TestImportMessImportsStayLexicallySorted(t *testing.T) {
	baseText := readFixture(t, "base", "SimpleTests/ImportMess.java")
	leftText := readFixture(t, "left", "SimpleTests/ImportMess.java")
	rightText := readFixture(t, "right", "SimpleTests/ImportMess.java")

	cctx := strategy.DefaultContext()
	cctx.Strategy = strategy.Structured
	result, err := strategy.MergeThreeWay(context.Background(), cctx, baseText, leftText, rightText)
	require.NoError(t, err)
	require.True(t, result.Clean)

	listIdx := indexOf(result.Text, "import java.util.List;")
	mapIdx := indexOf(result.Text, "import java.util.Map;")
	setIdx := indexOf(result.Text, "import java.util.Set;")
	require.True(t, listIdx >= 0 && mapIdx >= 0 && setIdx >= 0, "merged output:\n%s", result.Text)
	require.Less(t, listIdx, mapIdx)
	require.Less(t, mapIdx, setIdx)
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}

// TestLineBasedFallbackOnSameFixtures exercises mergeLineBased against the
// same scenarios. Both fixtures conflict line by line: in Bag.java the two
// sides insert different lines at the same position (which the structured
// strategy merges cleanly), and in Bag3.java one side deletes the lines the
// other side edits.
func TestLineBasedFallbackOnSameFixtures(t *testing.T) {
	cases := []struct {
		relPath string
		clean   bool
	}{
		{"SimpleTests/Bag/Bag.java", false},
		{"SimpleTests/Bag/Bag3.java", false},
	}
	for _, tc := range cases {
		t.Run(tc.relPath, func(t *testing.T) {
			baseText := readFixture(t, "base", tc.relPath)
			leftText := readFixture(t, "left", tc.relPath)
			rightText := readFixture(t, "right", tc.relPath)

			cctx := strategy.DefaultContext()
			cctx.Strategy = strategy.LineBased
			result, err := strategy.MergeThreeWay(context.Background(), cctx, baseText, leftText, rightText)
			require.NoError(t, err)
			require.Equal(t, strategy.LineBased, result.UsedKind)
			require.Equal(t, tc.clean, result.Clean, "merged output:\n%s", result.Text)
		})
	}
}

// TestCombinedFallsBackOnParseFailure exercises the Combined strategy's
// fallback path: an input the javalang parser rejects must still produce a
// result via the linebased strategy instead of failing the merge outright.
func TestCombinedFallsBackOnParseFailure(t *testing.T) {
	baseText := "not java at all {{{ ???"
	leftText := "not java at all {{{ changed-left"
	rightText := "not java at all {{{ changed-right"

	cctx := strategy.DefaultContext()
	cctx.Strategy = strategy.Combined
	result, err := strategy.MergeThreeWay(context.Background(), cctx, baseText, leftText, rightText)
	require.NoError(t, err)
	require.Equal(t, strategy.LineBased, result.UsedKind)
}
