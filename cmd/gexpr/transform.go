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
	"github.com/SnellerInc/graphexpr/rewrite"
	"github.com/SnellerInc/graphexpr/store"

	"github.com/go-kit/log"
	"github.com/spf13/cobra"
)

func init() {
	addCommand(func(a *app) *cobra.Command {
		var dryRun bool
		cmd := &cobra.Command{
			Use:   "transform <name>",
			Short: "Prepare a stored index filter for index selection",
			Long: `Transform folds the constants of a stored index filter,
normalizes its comparisons and pushes its negations
down, then stores the result in place of the filter.`,
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				t := rewrite.NewTransformer(log.With(a.logger, "component", "rewrite"), nil)
				return a.withStore(func(s *store.Store) error {
					if dryRun {
						e, err := s.Get(store.IndexFilters, args[0])
						if err != nil {
							return err
						}
						out, err := t.FilterTransform(e.Expr)
						if err != nil {
							return err
						}
						fmt.Fprintln(cmd.OutOrStdout(), expr.ToString(out))
						return nil
					}
					e, err := s.Update(store.IndexFilters, args[0], t.FilterTransform)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", e.Fingerprint, expr.ToString(e.Expr))
					return nil
				})
			},
		}
		cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "print the result without storing it")
		return cmd
	})
}
