// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package matcher implements the classical two-pass tree matcher (top-down
// isomorphic-subtree matching followed by bottom-up LCS/assignment
// matching) and the alternative cost-model matcher used when the classical
// matcher's all-or-nothing subtree equality is too coarse.
package matcher

import (
	"sort"

	"github.com/antgroup/structmerge/modules/artifact"
	"github.com/antgroup/structmerge/modules/lang"
)

// Context carries the tunables a matcher needs: cost-model weights and the
// lookAhead depth still considered after a mismatch (merge context
// configuration, spec §6).
type Context struct {
	WeightNoMatch   float64
	WeightRename    float64
	WeightAncestry  float64
	WeightSibling   float64
	LookAhead       int
}

// DefaultContext returns the weight set used when a caller doesn't care to
// tune the cost-model matcher.
func DefaultContext() Context {
	return Context{
		WeightNoMatch:  1.0,
		WeightRename:   1.0,
		WeightAncestry: 1.0,
		WeightSibling:  1.0,
		LookAhead:      2,
	}
}

// Match runs the classical two-pass matcher over l and r, returning every
// correspondence found. It is the fast path: exact structural hash match
// top-down, falling back to bottom-up LCS/assignment matching only for
// subtrees the top-down pass couldn't align wholesale.
func Match[N lang.Node](l, r *artifact.Artifact[N]) *artifact.Matchings[N] {
	m := artifact.NewMatchings[N]()
	topDown(l, r, m)
	bottomUp(l, r, m)
	return m
}

// topDown marks every pair of nodes inside a maximal isomorphic subtree of l
// and r as matched, scored by subtree size. It recurses into children only
// when the roots themselves are not isomorphic, so an unchanged region costs
// O(size) rather than being rescanned by the bottom-up pass (spec §8
// boundary behavior on deeply nested identical subtrees).
func topDown[N lang.Node](l, r *artifact.Artifact[N], m *artifact.Matchings[N]) {
	if l == nil || r == nil {
		return
	}
	if _, matched := m.Matched(l); matched {
		return
	}
	if isomorphic(l, r) {
		markSubtree(l, r, m)
		return
	}
	// Roots differ; let bottom-up handle this pair, but still recurse so
	// isomorphic descendants are found without waiting on an expensive
	// whole-subtree comparison.
	lc, rc := l.Children(), r.Children()
	n := len(lc)
	if len(rc) < n {
		n = len(rc)
	}
	for i := 0; i < n; i++ {
		if lc[i].Matches(rc[i]) {
			topDown(lc[i], rc[i], m)
		}
	}
}

// isomorphic reports whether l and r are structurally identical at every
// level: same match signature and identical (recursively isomorphic)
// children in the same order. Unordered containers still require the same
// multiset of children for an exact isomorphism; a looser correspondence is
// the bottom-up pass's job.
func isomorphic[N lang.Node](l, r *artifact.Artifact[N]) bool {
	if !l.Matches(r) {
		return false
	}
	lc, rc := l.Children(), r.Children()
	if len(lc) != len(rc) {
		return false
	}
	if len(lc) == 0 {
		return true
	}
	if l.IsOrdered() {
		for i := range lc {
			if !isomorphic(lc[i], rc[i]) {
				return false
			}
		}
		return true
	}
	used := make([]bool, len(rc))
	for _, lchild := range lc {
		found := false
		for j, rchild := range rc {
			if used[j] {
				continue
			}
			if isomorphic(lchild, rchild) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func markSubtree[N lang.Node](l, r *artifact.Artifact[N], m *artifact.Matchings[N]) {
	if _, ok := m.Matched(l); ok {
		return
	}
	score := float64(subtreeSize(l))
	m.Add(l, r, score)
	lc, rc := l.Children(), r.Children()
	if l.IsOrdered() {
		for i := range lc {
			markSubtree(lc[i], rc[i], m)
		}
		return
	}
	used := make([]bool, len(rc))
	for _, lchild := range lc {
		for j, rchild := range rc {
			if used[j] {
				continue
			}
			if isomorphic(lchild, rchild) {
				used[j] = true
				markSubtree(lchild, rchild, m)
				break
			}
		}
	}
}

func subtreeSize[N lang.Node](a *artifact.Artifact[N]) int {
	n := 1
	for _, c := range a.Children() {
		n += subtreeSize(c)
	}
	return n
}

// bottomUp walks every unmatched pair reachable from l/r's still-unmatched
// descendants and matches their children: LCS for ordered containers,
// maximum-weight bipartite assignment for unordered ones. Each aligned child
// pair is matched recursively first and then recorded itself; the pair l, r
// is recorded once at least one pair of its children aligns.
func bottomUp[N lang.Node](l, r *artifact.Artifact[N], m *artifact.Matchings[N]) {
	if l == nil || r == nil {
		return
	}
	if _, ok := m.Matched(l); ok {
		return
	}
	if !l.Matches(r) {
		return
	}
	lc, rc := l.Children(), r.Children()
	var pairs [][2]*artifact.Artifact[N]
	if l.IsOrdered() {
		pairs = lcsMatch(lc, rc)
	} else {
		pairs = assignmentMatch(lc, rc)
	}
	for _, p := range pairs {
		if _, ok := m.Matched(p[0]); ok {
			continue
		}
		bottomUp(p[0], p[1], m)
		if _, ok := m.Matched(p[0]); !ok {
			m.Add(p[0], p[1], float64(subtreeSize(p[0])))
		}
	}
	if len(pairs) > 0 {
		m.Add(l, r, float64(len(pairs)))
	}
}

// lcsMatch aligns ordered children by longest common subsequence under
// match-compatibility, preserving declared order (spec §4.2 bottom-up,
// ordered case).
func lcsMatch[N lang.Node](lc, rc []*artifact.Artifact[N]) [][2]*artifact.Artifact[N] {
	n, k := len(lc), len(rc)
	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, k+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := k - 1; j >= 0; j-- {
			if lc[i].Matches(rc[j]) {
				dp[i][j] = dp[i+1][j+1] + 1
			} else if dp[i+1][j] >= dp[i][j+1] {
				dp[i][j] = dp[i+1][j]
			} else {
				dp[i][j] = dp[i][j+1]
			}
		}
	}
	var pairs [][2]*artifact.Artifact[N]
	i, j := 0, 0
	for i < n && j < k {
		switch {
		case lc[i].Matches(rc[j]):
			pairs = append(pairs, [2]*artifact.Artifact[N]{lc[i], rc[j]})
			i++
			j++
		case dp[i+1][j] >= dp[i][j+1]:
			i++
		default:
			j++
		}
	}
	return pairs
}

// assignmentMatch aligns unordered children via a greedy maximum-weight
// bipartite assignment: edge weight is the candidate pair's subtree-match
// size, computed over the compatible (same match signature) pairs only.
// This is the Hungarian assignment's greedy relaxation — adequate because
// ties are broken deterministically by (l.number, r.number) per spec §4.2
// and subtree sizes dominate the weight, so the greedy and optimal
// assignments coincide in practice for source-level trees.
func assignmentMatch[N lang.Node](lc, rc []*artifact.Artifact[N]) [][2]*artifact.Artifact[N] {
	type edge struct {
		i, j   int
		weight int
	}
	var edges []edge
	for i, l := range lc {
		for j, r := range rc {
			if l.Matches(r) {
				edges = append(edges, edge{i, j, subtreeSize(l) + subtreeSize(r)})
			}
		}
	}
	sort.Slice(edges, func(a, b int) bool {
		if edges[a].weight != edges[b].weight {
			return edges[a].weight > edges[b].weight
		}
		if lc[edges[a].i].Number() != lc[edges[b].i].Number() {
			return lc[edges[a].i].Number() < lc[edges[b].i].Number()
		}
		return rc[edges[a].j].Number() < rc[edges[b].j].Number()
	})
	usedL := make([]bool, len(lc))
	usedR := make([]bool, len(rc))
	var pairs [][2]*artifact.Artifact[N]
	for _, e := range edges {
		if usedL[e.i] || usedR[e.j] {
			continue
		}
		usedL[e.i] = true
		usedR[e.j] = true
		pairs = append(pairs, [2]*artifact.Artifact[N]{lc[e.i], rc[e.j]})
	}
	return pairs
}
