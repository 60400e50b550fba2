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

package dataframe

// ResampleMonthly groups an ascending daily dataframe by calendar month and
// keeps the last observation in each month (month-end snapshot). Empty input
// yields an empty dataframe, never an error.
func (df *DataFrame) ResampleMonthly() *DataFrame {
	res := &DataFrame{
		ColNames: df.ColNames,
		Vals:     make([][]float64, len(df.ColNames)),
	}

	if df.Len() == 0 {
		return res
	}

	for idx, date := range df.Dates {
		lastOfMonth := idx == len(df.Dates)-1
		if !lastOfMonth {
			next := df.Dates[idx+1]
			lastOfMonth = next.Month() != date.Month() || next.Year() != date.Year()
		}

		if lastOfMonth {
			res.Dates = append(res.Dates, date)
			for colIdx := range df.Vals {
				res.Vals[colIdx] = append(res.Vals[colIdx], df.Vals[colIdx][idx])
			}
		}
	}

	return res
}
