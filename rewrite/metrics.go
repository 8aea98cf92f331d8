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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// results of a filter transformation
const (
	resultRewritten = "rewritten"
	resultSkipped   = "skipped"
	resultFallback  = "fallback"
	resultFailed    = "failed"
)

// Metrics counts the outcomes of FilterTransform.
// A nil *Metrics counts nothing.
type Metrics struct {
	transforms *prometheus.CounterVec
	foldErrors prometheus.Counter
}

// NewMetrics registers the rewrite metrics on r.
func NewMetrics(r prometheus.Registerer) *Metrics {
	return &Metrics{
		transforms: promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Name: "graphexpr_filter_transform_total",
			Help: "Total number of filter transformations by result.",
		}, []string{"result"}),
		foldErrors: promauto.With(r).NewCounter(prometheus.CounterOpts{
			Name: "graphexpr_fold_errors_total",
			Help: "Total number of constant folding failures during filter transformation.",
		}),
	}
}

func (m *Metrics) transformed(result string) {
	if m != nil {
		m.transforms.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) foldFailed() {
	if m != nil {
		m.foldErrors.Inc()
	}
}
