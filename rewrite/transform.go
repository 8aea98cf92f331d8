// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
package rewrite

import (
	"github.com/SnellerInc/graphexpr/expr"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Transformer runs the filter transformation
// pipeline, reporting the optimizations it had
// to give up on to Logger and Metrics.
type Transformer struct {
	Logger  log.Logger
	Metrics *Metrics
}

// NewTransformer returns a Transformer that logs
// to logger. logger may be nil and m may be nil.
func NewTransformer(logger log.Logger, m *Metrics) *Transformer {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Transformer{Logger: logger, Metrics: m}
}

var defaultTransformer = NewTransformer(nil, nil)

// FilterTransform prepares the filter n for
// index selection with a Transformer that
// neither logs nor counts.
func FilterTransform(n expr.Node) (expr.Node, error) {
	return defaultTransformer.FilterTransform(n)
}

// labels returns the number of distinct
// labels that n refers to.
func labels(n expr.Node) int {
	seen := make(map[string]struct{})
	for _, l := range expr.CollectAll(n, expr.KindLabel) {
		seen[expr.ToString(l)] = struct{}{}
	}
	return len(seen)
}

// FilterTransform prepares the filter n for
// index selection:
//
//  1. constant subtrees are folded (FoldConstantExpr),
//  2. comparisons are normalized (RewriteRelExpr)
//     and the moved constants folded again,
//  3. NOT is pushed down (ReduceUnaryNot).
//
// A folding error in step 1 is returned. Step 2
// is skipped when n refers to more than one
// label, and its result is dropped when the
// second fold fails; the filter then runs as
// folded by step 1. n is not modified.
func (t *Transformer) FilterTransform(n expr.Node) (expr.Node, error) {
	folded, err := FoldConstantExpr(n)
	if err != nil {
		t.Metrics.foldFailed()
		t.Metrics.transformed(resultFailed)
		return nil, err
	}
	if labels(folded) > 1 {
		t.Metrics.transformed(resultSkipped)
		return folded, nil
	}
	refolded, err := FoldConstantExpr(RewriteRelExpr(folded))
	if err != nil {
		level.Debug(t.Logger).Log("msg", "relational rewrite dropped", "filter", expr.ToString(folded), "err", err)
		t.Metrics.foldFailed()
		t.Metrics.transformed(resultFallback)
		return folded, nil
	}
	t.Metrics.transformed(resultRewritten)
	return ReduceUnaryNot(refolded), nil
}
