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
// Command gexpr manages persisted expressions:
// property default values and index filters.
//
// Expressions are exchanged in their encoded
// form (see expr.Encode) and printed as text.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/SnellerInc/graphexpr/config"
	"github.com/SnellerInc/graphexpr/store"

	"github.com/go-kit/log"
	"github.com/spf13/cobra"
)

// app holds the state shared by the commands
// of one invocation.
type app struct {
	cfgPath  string
	logLevel string

	cfg    *config.Config
	logger log.Logger
}

var commands []func(a *app) *cobra.Command

// addCommand registers a subcommand.
func addCommand(fn func(a *app) *cobra.Command) {
	commands = append(commands, fn)
}

func newRoot(stderr io.Writer) *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "gexpr",
		Short:         "Manage persisted graph expressions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(stderr)
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "", "configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override the configured log level")
	for _, fn := range commands {
		root.AddCommand(fn(a))
	}
	return root
}

func (a *app) setup(stderr io.Writer) error {
	cfg := config.Default()
	if a.cfgPath != "" {
		var err error
		cfg, err = config.Load(a.cfgPath)
		if err != nil {
			return err
		}
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Apply(); err != nil {
		return err
	}
	logger, err := config.NewLogger(stderr, cfg.LogLevel)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// withStore runs fn on the configured store and
// closes it afterwards.
func (a *app) withStore(fn func(s *store.Store) error) error {
	opts := a.cfg.StoreOptions()
	opts.Logger = log.With(a.logger, "component", "store")
	s, err := store.Open(opts)
	if err != nil {
		return err
	}
	err = fn(s)
	if cerr := s.Close(); err == nil {
		err = cerr
	}
	return err
}

func exitf(f string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, f, args...)
	os.Exit(1)
}

func main() {
	if err := newRoot(os.Stderr).Execute(); err != nil {
		exitf("gexpr: %s\n", err)
	}
}
