// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package artifact

import "github.com/antgroup/structmerge/modules/lang"

// ScenarioType distinguishes a two-way merge (no common ancestor available,
// so every divergence between Left and Right is a potential conflict) from a
// three-way merge (Base lets the engines tell an unmodified side from an
// edited one).
type ScenarioType int

const (
	ThreeWay ScenarioType = iota
	TwoWay
)

// MergeScenario bundles the artifact trees a merge operates over. Base is
// nil for a TwoWay scenario; callers must check Type before dereferencing
// it.
type MergeScenario[N lang.Node] struct {
	Type  ScenarioType
	Left  *Artifact[N]
	Base  *Artifact[N]
	Right *Artifact[N]

	// LeftName/RightName label the two non-base sides in conflict markers
	// and choice pseudo-nodes (e.g. a VCS branch name or file path).
	LeftName  string
	RightName string
}

// NewThreeWayScenario builds a three-way scenario from three independently
// parsed trees.
func NewThreeWayScenario[N lang.Node](left, base, right N, leftName, rightName string) *MergeScenario[N] {
	return &MergeScenario[N]{
		Type:      ThreeWay,
		Left:      New(left, Left),
		Base:      New(base, Base),
		Right:     New(right, Right),
		LeftName:  leftName,
		RightName: rightName,
	}
}

// NewTwoWayScenario builds a two-way scenario with no common ancestor.
func NewTwoWayScenario[N lang.Node](left, right N, leftName, rightName string) *MergeScenario[N] {
	return &MergeScenario[N]{
		Type:      TwoWay,
		Left:      New(left, Left),
		Right:     New(right, Right),
		LeftName:  leftName,
		RightName: rightName,
	}
}
