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
package store

import (
	"fmt"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// badgerLogger forwards badger's printf-style
// logs to a go-kit logger.
type badgerLogger struct {
	logger log.Logger
}

func (b badgerLogger) log(lvl func(log.Logger) log.Logger, f string, args ...interface{}) {
	lvl(b.logger).Log("component", "badger", "msg", strings.TrimSpace(fmt.Sprintf(f, args...)))
}

func (b badgerLogger) Errorf(f string, args ...interface{})   { b.log(level.Error, f, args...) }
func (b badgerLogger) Warningf(f string, args ...interface{}) { b.log(level.Warn, f, args...) }
func (b badgerLogger) Infof(f string, args ...interface{})    { b.log(level.Info, f, args...) }
func (b badgerLogger) Debugf(f string, args ...interface{})   { b.log(level.Debug, f, args...) }
