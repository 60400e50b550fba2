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
	"fmt"
	"math"

	"github.com/Pbierley/freeCashFlowTool/dataframe"
)

// CAGR computes the compound annual growth rate between two values as a
// percentage. `start` is the earlier period's value and `end` the later
// period's value; every call site follows this convention. Returns false when
// the rate is undefined: non-positive start or end, or non-positive duration.
func CAGR(start, end, years float64) (float64, bool) {
	if start <= 0 || end <= 0 || years <= 0 {
		return 0, false
	}

	return (math.Pow(end/start, 1/years) - 1) * 100, true
}

// MultiPeriodCAGR computes trailing-window growth rates over a metric column.
// A window of p years compares the last row against the row p positions
// earlier, so it needs more than p data points; windows without sufficient
// history are omitted from the result, never zero-filled. Values are
// formatted with two decimal digits and a trailing percent sign, keyed by
// window label ("1Y", "3Y", ...).
func MultiPeriodCAGR(df *dataframe.DataFrame, colName string, periods []int) map[string]string {
	result := make(map[string]string, len(periods))

	col := df.Col(colName)
	if col == nil {
		return result
	}

	for _, p := range periods {
		if p <= 0 || len(col) <= p {
			continue
		}

		start := col[len(col)-1-p]
		end := col[len(col)-1]
		if rate, ok := CAGR(start, end, float64(p)); ok {
			result[fmt.Sprintf("%dY", p)] = fmt.Sprintf("%.2f%%", rate)
		}
	}

	return result
}
