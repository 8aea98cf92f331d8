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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHuman(t *testing.T) {
	for _, td := range []struct {
		size int64
		text string
	}{
		{6, "6"},
		{1023, "1023"},
		{1024, "1.000 KiB"},
		{(1*1024 + 6) * 1024, "1.006 MiB"},
		{(1*1024 + 600) * 1024 * 1024, "1.586 GiB"},
		{1024 * 1024 * 1024 * 1024 * 1024 * 1024, "1.000 EiB"},
	} {
		require.Equal(t, td.text, human(td.size))
	}
}
