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
	"os"

	"github.com/SnellerInc/graphexpr/expr"
	"github.com/SnellerInc/graphexpr/store"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func init() {
	addCommand(func(a *app) *cobra.Command {
		var output string
		cmd := &cobra.Command{
			Use:   "get <namespace> <name>",
			Short: "Print a stored expression",
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
					if output == "" {
						fmt.Fprintln(cmd.OutOrStdout(), expr.ToString(e.Expr))
						return nil
					}
					buf, err := expr.Encode(e.Expr)
					if err != nil {
						return err
					}
					return errors.Wrap(os.WriteFile(output, buf, 0644), "writing output")
				})
			},
		}
		cmd.Flags().StringVarP(&output, "output", "o", "", "write the encoded expression to this file")
		return cmd
	})
	addCommand(func(a *app) *cobra.Command {
		return &cobra.Command{
			Use:   "rm <namespace> <name>",
			Short: "Delete a stored expression",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				ns, err := store.ParseNamespace(args[0])
				if err != nil {
					return err
				}
				return a.withStore(func(s *store.Store) error {
					return s.Delete(ns, args[1])
				})
			},
		}
	})
}
