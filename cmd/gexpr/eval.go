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
package main

import (
	"fmt"

	"github.com/SnellerInc/graphexpr/expr"
	"github.com/SnellerInc/graphexpr/store"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var inputKinds = expr.OfKind(expr.KindVersionedVariable, expr.KindAggregate, expr.KindColumn,
	expr.KindVertex, expr.KindEdge, expr.KindLabel, expr.KindLabelAttribute, expr.KindLabelTagProperty)

// needsInput returns whether n reads a row, a
// variable or a graph element.
func needsInput(n expr.Node) bool {
	return expr.Find(n, func(x expr.Node) bool {
		switch k := x.Kind(); {
		case k.IsProperty():
			return true
		case k == expr.KindVariable:
			return !x.(*expr.Variable).Inner
		default:
			return inputKinds(x)
		}
	}) != nil
}

func init() {
	addCommand(func(a *app) *cobra.Command {
		return &cobra.Command{
			Use:   "eval <namespace> <name>",
			Short: "Evaluate a stored expression that needs no input",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				ns, err := store.ParseNamespace(args[0])
				if err != nil {
					return err
				}
				return a.withStore(func(s *store.Store) error {
					e, err := s.Get(ns, args[1])
					if err != nil {
						return err
					}
					if needsInput(e.Expr) {
						return errors.Errorf("%s/%s: `%s' depends on its input", ns, args[1], expr.ToString(e.Expr))
					}
					v := e.Expr.Eval(&expr.MapContext{})
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", v.Type(), v)
					return nil
				})
			},
		}
	})
	addCommand(func(a *app) *cobra.Command {
		return &cobra.Command{
			Use:              "version",
			Short:            "Print version information",
			PersistentPreRun: func(*cobra.Command, []string) {},
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), version())
			},
		}
	})
}
