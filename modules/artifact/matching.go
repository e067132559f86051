// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package artifact

import "github.com/antgroup/structmerge/modules/lang"

// Matching is a single cross-revision correspondence discovered by a
// matcher: Left and Right are artifacts from two distinct revisions judged
// to represent the same logical tree element, with Score the weight the
// matcher gave it (the classical matcher uses subtree size or the number of
// aligned child pairs; the cost-model search uses 1 minus the weighted cost
// of its whole matching).
type Matching[N lang.Node] struct {
	Left  *Artifact[N]
	Right *Artifact[N]
	Score float64
}

// Matchings is the set of correspondences a matcher produces between two
// trees. It is indexed both ways so callers can ask "what does this
// artifact map to" from either side without a linear scan, and it enforces
// the invariant that a matching is always recorded symmetrically: adding
// (l, r) also makes r look up l.
type Matchings[N lang.Node] struct {
	all      []Matching[N]
	byLeftID  map[int64]*Artifact[N]
	byRightID map[int64]*Artifact[N]
}

// NewMatchings returns an empty matching set.
func NewMatchings[N lang.Node]() *Matchings[N] {
	return &Matchings[N]{
		byLeftID:  make(map[int64]*Artifact[N]),
		byRightID: make(map[int64]*Artifact[N]),
	}
}

// Add records that left and right correspond with the given confidence
// score, and links the two artifacts so MatchIn resolves immediately. Adding
// the same pair twice is a no-op for the artifact link (Link is idempotent)
// but still appends a new Matching record, so callers that want idempotence
// at this layer should check Matched first.
func (m *Matchings[N]) Add(left, right *Artifact[N], score float64) {
	m.all = append(m.all, Matching[N]{Left: left, Right: right, Score: score})
	m.byLeftID[left.id] = right
	m.byRightID[right.id] = left
	left.Link(right)
}

// Matched reports whether left already has a recorded counterpart in this
// matching set.
func (m *Matchings[N]) Matched(left *Artifact[N]) (*Artifact[N], bool) {
	r, ok := m.byLeftID[left.id]
	return r, ok
}

// MatchedRight is the mirror of Matched for the right-hand tree.
func (m *Matchings[N]) MatchedRight(right *Artifact[N]) (*Artifact[N], bool) {
	l, ok := m.byRightID[right.id]
	return l, ok
}

// All returns every recorded correspondence, in the order they were added.
func (m *Matchings[N]) All() []Matching[N] {
	return m.all
}

// Len is the number of correspondences recorded.
func (m *Matchings[N]) Len() int {
	return len(m.all)
}
