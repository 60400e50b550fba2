// Copyright 2024-2025
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"math"

	"github.com/Pbierley/freeCashFlowTool/dataframe"
	"gonum.org/v1/gonum/stat"
)

// MarginSummary describes the level and stability of a ratio column over the
// analyzed window. Latest is the most recent defined value.
type MarginSummary struct {
	Column string  `json:"column"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
	Latest float64 `json:"latest"`
}

var summaryCols = []string{ColGrossMargin, ColOperMargin, ColNetMargin}

// SummarizeMargins computes the mean and standard deviation of each margin
// ratio column present in the enriched income statement. Undefined cells are
// excluded; columns with no defined values are omitted. A single defined
// value yields a zero standard deviation.
func SummarizeMargins(income *dataframe.DataFrame) []MarginSummary {
	if income == nil {
		return nil
	}

	summaries := make([]MarginSummary, 0, len(summaryCols))
	for _, colName := range summaryCols {
		col := income.Col(colName)
		if col == nil {
			continue
		}

		defined := make([]float64, 0, len(col))
		for _, v := range col {
			if !math.IsNaN(v) {
				defined = append(defined, v)
			}
		}
		if len(defined) == 0 {
			continue
		}

		summary := MarginSummary{
			Column: colName,
			Mean:   stat.Mean(defined, nil),
			Latest: defined[len(defined)-1],
		}
		if len(defined) > 1 {
			summary.StdDev = stat.StdDev(defined, nil)
		}

		summaries = append(summaries, summary)
	}

	return summaries
}
