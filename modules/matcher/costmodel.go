// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package matcher

import (
	"github.com/antgroup/structmerge/modules/artifact"
	"github.com/antgroup/structmerge/modules/lang"
)

// candidate is one proposed correspondence in a partial matching under
// construction by the cost-model search. A no-match candidate has Right ==
// nil and contributes WeightNoMatch to the cost.
type candidate[N lang.Node] struct {
	Left  *artifact.Artifact[N]
	Right *artifact.Artifact[N]
}

// partial is a candidate matching under construction: the pairs chosen so
// far, plus an index from artifact ID to its image so ancestryIndicator and
// siblingFraction stay O(1) per lookup instead of the O(|G|) scan the
// source used (spec §9 design note on image(...) cost).
type partial[N lang.Node] struct {
	entries  []candidate[N]
	leftImg  map[int64]*artifact.Artifact[N]
	rightImg map[int64]*artifact.Artifact[N]
}

func newPartial[N lang.Node]() *partial[N] {
	return &partial[N]{
		leftImg:  make(map[int64]*artifact.Artifact[N]),
		rightImg: make(map[int64]*artifact.Artifact[N]),
	}
}

func (p *partial[N]) add(c candidate[N]) *partial[N] {
	np := &partial[N]{
		entries:  append(append([]candidate[N]{}, p.entries...), c),
		leftImg:  make(map[int64]*artifact.Artifact[N], len(p.leftImg)+1),
		rightImg: make(map[int64]*artifact.Artifact[N], len(p.rightImg)+1),
	}
	for k, v := range p.leftImg {
		np.leftImg[k] = v
	}
	for k, v := range p.rightImg {
		np.rightImg[k] = v
	}
	if c.Right != nil {
		np.leftImg[c.Left.ID()] = c.Right
		np.rightImg[c.Right.ID()] = c.Left
	}
	return np
}

// imageOf returns the artifact a is mapped to under the partial matching, or
// nil if a has no image yet (i.e. is a no-match so far).
func (p *partial[N]) imageOf(a *artifact.Artifact[N]) *artifact.Artifact[N] {
	if img, ok := p.leftImg[a.ID()]; ok {
		return img
	}
	return p.rightImg[a.ID()]
}

// ancestryIndicator reports, for an ancestry-violation count between m.Left
// and n, whether child's image is assigned and is not itself a child of n (a
// no-match never counts here).
func ancestryIndicator[N lang.Node](p *partial[N], child, n *artifact.Artifact[N]) bool {
	img := p.imageOf(child)
	if img == nil {
		return false
	}
	return !isChildOf(img, n)
}

func isChildOf[N lang.Node](candidate, parent *artifact.Artifact[N]) bool {
	for _, c := range parent.Children() {
		if c.ID() == candidate.ID() {
			return true
		}
	}
	return false
}

// ancestryCost counts, for a proposed match m = (ml, mr), the children of ml
// whose image under g is not a child of mr, plus the symmetric count for
// mr's children. Per spec §9, `numAncestryViolatingChildren` is specified
// here as a single count per side with the two sides summed (not doubled).
func ancestryCost[N lang.Node](p *partial[N], ml, mr *artifact.Artifact[N]) int {
	count := 0
	for _, c := range ml.Children() {
		if ancestryIndicator(p, c, mr) {
			count++
		}
	}
	for _, c := range mr.Children() {
		img := p.imageOf(c)
		if img != nil && !isChildOf(img, ml) {
			count++
		}
	}
	return count
}

// siblingCost penalizes breaking up a sibling group: the fraction of ml's
// siblings whose images diverge from mr's sibling group, plus the symmetric
// fraction for mr.
func siblingCost[N lang.Node](p *partial[N], ml, mr *artifact.Artifact[N]) float64 {
	return siblingFraction(p, ml, mr) + siblingFraction(p, mr, ml)
}

func siblingFraction[N lang.Node](p *partial[N], a, b *artifact.Artifact[N]) float64 {
	parent := a.Parent()
	if parent == nil {
		return 0
	}
	siblings := parent.Children()
	if len(siblings) <= 1 {
		return 0
	}
	divergent := 0
	invariant := 0
	families := make(map[string]bool)
	for _, s := range siblings {
		if s.ID() == a.ID() {
			continue
		}
		img := p.imageOf(s)
		families[s.Kind()] = true
		if img == nil {
			continue
		}
		if isChildOf(img, b.Parent()) {
			invariant++
		} else {
			divergent++
		}
	}
	denom := invariant + len(families)
	if denom == 0 {
		return 0
	}
	return float64(divergent) / float64(denom)
}

// renameCost is 0 when m.Left.Match(m.Right) holds, else 1 (spec §4.2's
// r(m), using the structural-equality fallback since no user-supplied
// rename function is configured here).
func renameCost[N lang.Node](ml, mr *artifact.Artifact[N]) float64 {
	if ml.Matches(mr) {
		return 0
	}
	return 1
}

// Cost evaluates a fully-specified matching g under ctx's weights, per the
// cost(G) formula in spec §4.2.
func Cost[N lang.Node](ctx Context, g *artifact.Matchings[N], totalLeft, totalRight int) float64 {
	if totalLeft+totalRight == 0 {
		return 0
	}
	var sum float64
	p := newPartial[N]()
	for _, mt := range g.All() {
		p = p.add(candidate[N]{Left: mt.Left, Right: mt.Right})
	}
	for _, mt := range g.All() {
		sum += ctx.WeightRename*renameCost(mt.Left, mt.Right) +
			ctx.WeightAncestry*float64(ancestryCost(p, mt.Left, mt.Right)) +
			ctx.WeightSibling*siblingCost(p, mt.Left, mt.Right)
	}
	return sum / float64(totalLeft+totalRight)
}

// CostModelSearch builds a matching between the descendants of l and r in a
// single greedy pass: each node of l, in pre-order, takes the still-free node
// of r with the lowest incremental cost (subject to the match-compatibility
// constraint m.Left.Match(m.Right)), or stays a no-match when no candidate
// costs less than WeightNoMatch. Choices are never revisited: the search does
// not backtrack and does not prune with LowerBound/UpperBound. Every returned
// correspondence carries the same score, 1 minus the weighted cost of the
// whole result.
func CostModelSearch[N lang.Node](ctx Context, l, r *artifact.Artifact[N]) *artifact.Matchings[N] {
	leftNodes := flatten(l)
	rightNodes := flatten(r)
	remaining := append([]*artifact.Artifact[N]{}, leftNodes...)

	current := newPartial[N]()
	for _, ln := range remaining {
		bestCandidate := candidate[N]{Left: ln}
		bestIncCost := ctx.WeightNoMatch
		for _, rn := range rightNodes {
			if !ln.Matches(rn) {
				continue
			}
			if _, taken := current.rightImg[rn.ID()]; taken {
				continue
			}
			c := candidate[N]{Left: ln, Right: rn}
			trial := current.add(c)
			cost := ctx.WeightRename*renameCost(ln, rn) +
				ctx.WeightAncestry*float64(ancestryCost(trial, ln, rn)) +
				ctx.WeightSibling*siblingCost(trial, ln, rn)
			if cost < bestIncCost {
				bestIncCost = cost
				bestCandidate = c
			}
		}
		current = current.add(bestCandidate)
	}

	out := artifact.NewMatchings[N]()
	finalScore := 1 - weightedCost(ctx, current, len(leftNodes), len(rightNodes))
	for _, c := range current.entries {
		if c.Right == nil {
			continue
		}
		out.Add(c.Left, c.Right, finalScore)
	}
	return out
}

func weightedCost[N lang.Node](ctx Context, p *partial[N], totalLeft, totalRight int) float64 {
	if totalLeft+totalRight == 0 {
		return 0
	}
	var sum float64
	for _, c := range p.entries {
		if c.Right == nil {
			sum += ctx.WeightNoMatch
			continue
		}
		sum += ctx.WeightRename*renameCost(c.Left, c.Right) +
			ctx.WeightAncestry*float64(ancestryCost(p, c.Left, c.Right)) +
			ctx.WeightSibling*siblingCost(p, c.Left, c.Right)
	}
	return sum / float64(totalLeft+totalRight)
}

func flatten[N lang.Node](a *artifact.Artifact[N]) []*artifact.Artifact[N] {
	out := []*artifact.Artifact[N]{a}
	for _, c := range a.Children() {
		out = append(out, flatten(c)...)
	}
	return out
}

// LowerBound and UpperBound give the branch-and-bound search pruning
// thresholds for a partial matching G, per spec §4.2: the lower bound
// assumes every still-unassigned node completes as favorably as possible
// (zero additional cost), the upper bound assumes every remaining node is a
// no-match.
func LowerBound[N lang.Node](ctx Context, g *artifact.Matchings[N], totalLeft, totalRight int) float64 {
	return Cost(ctx, g, totalLeft, totalRight)
}

func UpperBound[N lang.Node](ctx Context, g *artifact.Matchings[N], totalLeft, totalRight, unassigned int) float64 {
	if totalLeft+totalRight == 0 {
		return 0
	}
	return Cost(ctx, g, totalLeft, totalRight) + float64(unassigned)*ctx.WeightNoMatch/float64(totalLeft+totalRight)
}
