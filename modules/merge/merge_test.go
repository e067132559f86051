// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package merge_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/antgroup/structmerge/modules/artifact"
	"github.com/antgroup/structmerge/modules/lang/javalang"
	"github.com/antgroup/structmerge/modules/matcher"
	"github.com/antgroup/structmerge/modules/merge"
)

func parse(t *testing.T, src string) *javalang.Node {
	t.Helper()
	n, err := javalang.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return n.(*javalang.Node)
}

func runMerge(t *testing.T, baseSrc, leftSrc, rightSrc string) (*artifact.Artifact[*javalang.Node], *merge.Engine[*javalang.Node]) {
	t.Helper()
	base := artifact.New[*javalang.Node](parse(t, baseSrc), artifact.Base)
	left := artifact.New[*javalang.Node](parse(t, leftSrc), artifact.Left)
	right := artifact.New[*javalang.Node](parse(t, rightSrc), artifact.Right)

	lm := matcher.Match[*javalang.Node](base, left)
	rm := matcher.Match[*javalang.Node](base, right)
	combined := artifact.NewMatchings[*javalang.Node]()
	for _, m := range lm.All() {
		if r, ok := rm.Matched(m.Left); ok {
			combined.Add(m.Right, r, m.Score)
		}
	}

	scenario := &artifact.MergeScenario[*javalang.Node]{
		Type: artifact.ThreeWay, Left: left, Base: base, Right: right,
		LeftName: "left", RightName: "right",
	}
	engine := merge.NewEngine[*javalang.Node](scenario, combined)
	target := merge.NewTarget(left)
	if err := engine.Merge(left, base, right, target); err != nil {
		t.Fatalf("merge error: %v", err)
	}
	return target, engine
}

func TestBothSidesAddDisjointMembers(t *testing.T) {
	base := `package p;
class Bag {
	int size;
}
`
	left := `package p;
class Bag {
	int size;
	int capacity;
}
`
	right := `package p;
class Bag {
	int size;
	int weight;
}
`
	target, _ := runMerge(t, base, left, right)
	out := target.PrettyPrint()
	if !strings.Contains(out, "capacity") || !strings.Contains(out, "weight") {
		t.Fatalf("expected both added members present, got:\n%s", out)
	}
}

func TestDeleteVsModifyConflict(t *testing.T) {
	base := `package p;
class Bag {
	int helper() {
		return 1;
	}
}
`
	left := `package p;
class Bag {
}
`
	right := `package p;
class Bag {
	int helper() {
		return 2;
	}
}
`
	target, _ := runMerge(t, base, left, right)
	out := target.PrettyPrint()
	if !strings.Contains(out, "<<<<<<<") {
		t.Fatalf("expected a conflict marker for delete-vs-modify, got:\n%s", out)
	}
}

func TestFixedArityChangeOnBothSidesConflicts(t *testing.T) {
	base := `package p;
class Expr {
	int x = a ? 1 : 2;
}
`
	left := `package p;
class Expr {
	int x = a ? 1 : 3;
}
`
	right := `package p;
class Expr {
	int x = a ? a + 1 : 2;
}
`
	target, _ := runMerge(t, base, left, right)
	out := target.PrettyPrint()
	require.Contains(t, out, "<<<<<<<", "changing the ternary's branch kind on both sides must trip the fixed-arity safety trap")
}

func TestIdempotentMergeOfIdenticalInputs(t *testing.T) {
	src := `package p;
class Bag {
	int size;
}
`
	target, _ := runMerge(t, src, src, src)
	out := target.PrettyPrint()
	if strings.Contains(out, "<<<<<<<") {
		t.Fatalf("expected no conflicts merging identical revisions, got:\n%s", out)
	}
	if !strings.Contains(out, "class Bag") {
		t.Fatalf("expected output to retain the class body, got:\n%s", out)
	}
}
