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
	"io"
	"os"

	"github.com/SnellerInc/graphexpr/store"

	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func init() {
	addCommand(func(a *app) *cobra.Command {
		return &cobra.Command{
			Use:   "put <namespace> <name> <file|->",
			Short: "Validate and store an encoded expression",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				ns, err := store.ParseNamespace(args[0])
				if err != nil {
					return err
				}
				buf, err := readInput(cmd, args[2])
				if err != nil {
					return err
				}
				return a.withStore(func(s *store.Store) error {
					sum, err := s.PutEncoded(ns, args[1], buf)
					if err != nil {
						return err
					}
					level.Info(a.logger).Log("msg", "stored", "namespace", ns, "name", args[1])
					fmt.Fprintln(cmd.OutOrStdout(), sum)
					return nil
				})
			},
		}
	})
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		buf, err := io.ReadAll(cmd.InOrStdin())
		return buf, errors.Wrap(err, "reading stdin")
	}
	buf, err := os.ReadFile(path)
	return buf, errors.Wrap(err, "reading input")
}
