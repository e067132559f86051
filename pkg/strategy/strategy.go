// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package strategy selects between structured (AST), line-based, and
// combined merge, and owns the merge context configuration enumerated in
// spec §6. It is the seam between the command layer and the structural
// merge core: the core never parses files or writes output itself.
package strategy

import (
	"context"
	"fmt"

	"github.com/antgroup/structmerge/modules/artifact"
	"github.com/antgroup/structmerge/modules/lang"
	"github.com/antgroup/structmerge/modules/lang/javalang"
	"github.com/antgroup/structmerge/modules/matcher"
	"github.com/antgroup/structmerge/modules/merge"
	"github.com/antgroup/structmerge/modules/textdiff"
)

// Kind selects which merge strategy a Context runs.
type Kind string

const (
	Structured     Kind = "structured"
	LineBased      Kind = "linebased"
	Semistructured Kind = "semistructured"
	Combined       Kind = "combined"
)

// Context is the merge context configuration (spec §6).
type Context struct {
	Strategy  Kind
	Quiet     bool
	Pretend   bool
	Weights   matcher.Context
	LookAhead int

	LeftName  string
	RightName string

	// Algorithm and ConflictStyle configure the linebased fallback only;
	// the structured strategy doesn't use a line-diff algorithm.
	Algorithm     textdiff.Algorithm
	ConflictStyle int

	// LineStrategy overrides the semistructured mode's opaque-leaf merge
	// function (spec §4.4); nil uses merge.DefaultLineStrategy, the
	// in-memory diff3. Set this to a merge.ExternalLineStrategy to shell
	// out to a real external tool instead.
	LineStrategy merge.LineStrategy
}

// DefaultContext returns a Context running the combined strategy with
// default cost-model weights.
func DefaultContext() Context {
	w := matcher.DefaultContext()
	return Context{
		Strategy:  Combined,
		Weights:   w,
		LookAhead: w.LookAhead,
		LeftName:  "left",
		RightName: "right",
	}
}

// Result is what a merge produces: the merged text, whether it is
// conflict-free, and which strategy actually produced it (Combined may fall
// back from structured to linebased).
type Result struct {
	Text      string
	Clean     bool
	UsedKind  Kind
}

// MergeThreeWay runs cctx's configured strategy over the three texts,
// parsed as javalang sources, producing merged text with conflict markers
// where the sides diverge irreconcilably.
func MergeThreeWay(ctx context.Context, cctx Context, baseText, leftText, rightText string) (*Result, error) {
	switch cctx.Strategy {
	case LineBased:
		return mergeLineBased(ctx, cctx, baseText, leftText, rightText)
	case Structured:
		return mergeStructured(ctx, cctx, baseText, leftText, rightText, false)
	case Semistructured:
		return mergeStructured(ctx, cctx, baseText, leftText, rightText, true)
	case Combined:
		res, err := mergeStructured(ctx, cctx, baseText, leftText, rightText, false)
		if err == nil {
			return res, nil
		}
		return mergeLineBased(ctx, cctx, baseText, leftText, rightText)
	default:
		return nil, fmt.Errorf("strategy: unsupported merge strategy %q", cctx.Strategy)
	}
}

func mergeLineBased(ctx context.Context, cctx Context, baseText, leftText, rightText string) (*Result, error) {
	opts := &textdiff.MergeOptions{
		TextO:  baseText,
		TextA:  leftText,
		TextB:  rightText,
		LabelO: string(artifact.Base),
		LabelA: cctx.LeftName,
		LabelB: cctx.RightName,
		A:      cctx.Algorithm,
		Style:  cctx.ConflictStyle,
	}
	text, conflicts, err := textdiff.Merge(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("linebased merge: %w", err)
	}
	return &Result{Text: text, Clean: !conflicts, UsedKind: LineBased}, nil
}

func mergeStructured(ctx context.Context, cctx Context, baseText, leftText, rightText string, semistructured bool) (*Result, error) {
	baseNode, err := javalang.Parse(baseText)
	if err != nil {
		return nil, fmt.Errorf("strategy: parse base: %w", err)
	}
	leftNode, err := javalang.Parse(leftText)
	if err != nil {
		return nil, fmt.Errorf("strategy: parse left: %w", err)
	}
	rightNode, err := javalang.Parse(rightText)
	if err != nil {
		return nil, fmt.Errorf("strategy: parse right: %w", err)
	}

	if semistructured {
		javalang.Opacify(leftNode)
		javalang.Opacify(baseNode)
		javalang.Opacify(rightNode)
	}

	scenario := artifact.NewThreeWayScenario[*javalang.Node](leftNode.(*javalang.Node), baseNode.(*javalang.Node), rightNode.(*javalang.Node), cctx.LeftName, cctx.RightName)

	lm := matcher.Match[*javalang.Node](scenario.Base, scenario.Left)
	rm := matcher.Match[*javalang.Node](scenario.Base, scenario.Right)
	combined := crossMatchings(lm, rm)

	engine := merge.NewEngine[*javalang.Node](scenario, combined)
	if semistructured {
		lineStrategy := cctx.LineStrategy
		if lineStrategy == nil {
			lineStrategy = merge.DefaultLineStrategy
		}
		engine.Semistructured = &merge.Semistructured{Enabled: true, Strategy: lineStrategy}
	}

	target := merge.NewTarget(scenario.Left)
	if err := engine.Merge(scenario.Left, scenario.Base, scenario.Right, target); err != nil {
		return nil, err
	}

	text := target.PrettyPrint()
	clean := !hasConflict(target)
	return &Result{Text: text, Clean: clean, UsedKind: kindFor(semistructured)}, nil
}

func kindFor(semistructured bool) Kind {
	if semistructured {
		return Semistructured
	}
	return Structured
}

// crossMatchings derives a left-right Matchings set by composing each
// side's match-to-base link: if l matches b and r matches the same b, l and
// r correspond. This is the classical matcher's job when run directly on
// (left, right); composing through base lets a single matcher.Match
// implementation serve both two-pass legs.
func crossMatchings(lm, rm *artifact.Matchings[*javalang.Node]) *artifact.Matchings[*javalang.Node] {
	out := artifact.NewMatchings[*javalang.Node]()
	for _, m := range lm.All() {
		if r, ok := rm.Matched(m.Left); ok {
			out.Add(m.Right, r, m.Score)
		}
	}
	return out
}

func hasConflict[N lang.Node](a *artifact.Artifact[N]) bool {
	if a.IsConflict() {
		return true
	}
	for _, c := range a.Children() {
		if hasConflict(c) {
			return true
		}
	}
	return false
}
