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
	"text/tabwriter"

	"github.com/SnellerInc/graphexpr/expr"
	"github.com/SnellerInc/graphexpr/store"

	"github.com/spf13/cobra"
)

func init() {
	addCommand(func(a *app) *cobra.Command {
		return &cobra.Command{
			Use:   "list [namespace]",
			Short: "List stored expressions",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				namespaces := store.Namespaces
				if len(args) == 1 {
					ns, err := store.ParseNamespace(args[0])
					if err != nil {
						return err
					}
					namespaces = []store.Namespace{ns}
				}
				return a.withStore(func(s *store.Store) error {
					w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 1, ' ', 0)
					for _, ns := range namespaces {
						lst, err := s.List(ns)
						if err != nil {
							return err
						}
						for _, e := range lst {
							fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", ns, e.Name, e.Fingerprint.Short(),
								human(int64(e.Stored)), expr.ToString(e.Expr))
						}
					}
					return w.Flush()
				})
			},
		}
	})
}
