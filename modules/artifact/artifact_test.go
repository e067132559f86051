// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package artifact_test

import (
	"testing"

	"github.com/antgroup/structmerge/modules/artifact"
	"github.com/antgroup/structmerge/modules/lang/javalang"
)

func parse(t *testing.T, src string) *javalang.Node {
	t.Helper()
	n, err := javalang.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return n.(*javalang.Node)
}

const bagSrc = `package p;
class Bag {
	int size() {
		return 0;
	}
}
`

func TestNewAssignsPreOrderNumbers(t *testing.T) {
	root := artifact.New[*javalang.Node](parse(t, bagSrc), artifact.Left)
	seen := map[int]bool{}
	var walk func(a *artifact.Artifact[*javalang.Node])
	walk = func(a *artifact.Artifact[*javalang.Node]) {
		if seen[a.Number()] {
			t.Fatalf("duplicate pre-order number %d", a.Number())
		}
		seen[a.Number()] = true
		for _, c := range a.Children() {
			if c.Number() <= a.Number() {
				t.Fatalf("child number %d not greater than parent %d", c.Number(), a.Number())
			}
			walk(c)
		}
	}
	walk(root)
}

func TestLinkIsSymmetric(t *testing.T) {
	left := artifact.New[*javalang.Node](parse(t, bagSrc), artifact.Left)
	right := artifact.New[*javalang.Node](parse(t, bagSrc), artifact.Right)
	left.Link(right)
	if left.MatchIn(artifact.Right) != right {
		t.Fatalf("left does not resolve its Right match")
	}
	if right.MatchIn(artifact.Left) != left {
		t.Fatalf("right does not resolve its Left match")
	}
}

func TestParentBackReferenceInvariant(t *testing.T) {
	root := artifact.New[*javalang.Node](parse(t, bagSrc), artifact.Left)
	var walk func(a *artifact.Artifact[*javalang.Node])
	walk = func(a *artifact.Artifact[*javalang.Node]) {
		for _, c := range a.Children() {
			if c.Parent() != a {
				t.Fatalf("child's parent back-reference does not point at its actual parent")
			}
			walk(c)
		}
	}
	walk(root)
}

func TestCloneProducesFreshIDs(t *testing.T) {
	root := artifact.New[*javalang.Node](parse(t, bagSrc), artifact.Left)
	clone := root.Clone()
	if clone.ID() == root.ID() {
		t.Fatalf("clone shares ID with original")
	}
	if clone.PrettyPrint() != root.PrettyPrint() {
		t.Fatalf("clone text differs from original:\n%s\nvs\n%s", clone.PrettyPrint(), root.PrettyPrint())
	}
}

func TestOperationAddIsIdempotent(t *testing.T) {
	root := artifact.New[*javalang.Node](parse(t, bagSrc), artifact.Left)
	clsChildren := root.Children()
	if len(clsChildren) == 0 {
		t.Fatalf("expected at least one top-level child")
	}
	cls := clsChildren[len(clsChildren)-1]
	newMember := parse(t, "class X { int y() { return 1; } }")
	newArtifact := artifact.New[*javalang.Node](newMember.Children()[0].(*javalang.Node), artifact.Left)

	before := len(cls.Children())
	op := artifact.Operation[*javalang.Node]{Kind: artifact.Add, Target: cls, Source: newArtifact, Position: -1}
	op.Apply()
	op.Apply()
	if len(cls.Children()) != before+1 {
		t.Fatalf("expected exactly one new child after two applications, got %d -> %d", before, len(cls.Children()))
	}
}
