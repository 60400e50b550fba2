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

package xbrl

import "sort"

// AnnualValue is one fiscal year of a metric after period selection
type AnnualValue struct {
	FiscalYear int     `json:"year"`
	Value      float64 `json:"value"`
	End        string  `json:"end_date"`
	Filed      string  `json:"filed,omitempty"`
}

// QuarterlyValue is one fiscal quarter of a metric after period selection
type QuarterlyValue struct {
	FiscalYear int     `json:"year"`
	Quarter    string  `json:"quarter"`
	Value      float64 `json:"value"`
	End        string  `json:"end_date"`
	Filed      string  `json:"filed,omitempty"`
}

// sortAnnualsDesc orders FY observations most-recent first. Fiscal year is
// the primary key; ties within a year are broken by period-end date, not
// filing date.
func sortAnnualsDesc(obs []Observation) {
	sort.SliceStable(obs, func(i, j int) bool {
		if obs[i].FY != obs[j].FY {
			return obs[i].FY > obs[j].FY
		}
		return obs[i].End > obs[j].End
	})
}

// LatestAnnual selects the most recent fiscal-year observation. When no FY
// observation exists it falls back to a trailing-twelve-month proxy: the sum
// of the most recent four quarterly observations by period end. Returns
// false when neither is available.
func LatestAnnual(obs []Observation) (float64, bool) {
	annuals := make([]Observation, 0, len(obs))
	for _, o := range obs {
		if o.FP == PeriodFY {
			annuals = append(annuals, o)
		}
	}

	if len(annuals) > 0 {
		sortAnnualsDesc(annuals)
		return annuals[0].Val, true
	}

	return TrailingTwelveMonths(obs)
}

// TrailingTwelveMonths sums the last four quarterly observations, ordered by
// period end date. Fails only when no quarterly observation exists at all.
func TrailingTwelveMonths(obs []Observation) (float64, bool) {
	quarterly := make([]Observation, 0, len(obs))
	for _, o := range obs {
		if o.IsQuarterly() {
			quarterly = append(quarterly, o)
		}
	}

	if len(quarterly) == 0 {
		return 0, false
	}

	sort.SliceStable(quarterly, func(i, j int) bool {
		return quarterly[i].End < quarterly[j].End
	})

	if len(quarterly) > 4 {
		quarterly = quarterly[len(quarterly)-4:]
	}

	var sum float64
	for _, o := range quarterly {
		sum += o.Val
	}

	return sum, true
}

// AnnualSeries extracts FY values for at most `years` distinct fiscal years,
// deduplicating restatements by fiscal year (the first observation in
// most-recent-first sort order wins). The result is ordered most-recent
// first; callers building a date-indexed series re-sort ascending.
func AnnualSeries(obs []Observation, years int) []AnnualValue {
	annuals := make([]Observation, 0, len(obs))
	for _, o := range obs {
		if o.FP == PeriodFY {
			annuals = append(annuals, o)
		}
	}

	sortAnnualsDesc(annuals)

	result := make([]AnnualValue, 0, years)
	seen := make(map[int]bool, years)
	for _, o := range annuals {
		if seen[o.FY] {
			continue
		}
		seen[o.FY] = true
		result = append(result, AnnualValue{
			FiscalYear: o.FY,
			Value:      o.Val,
			End:        o.End,
			Filed:      o.Filed,
		})
		if len(result) >= years {
			break
		}
	}

	return result
}

// QuarterlySeries extracts the most recent `quarters` quarterly values,
// ordered most-recent first
func QuarterlySeries(obs []Observation, quarters int) []QuarterlyValue {
	quarterly := make([]Observation, 0, len(obs))
	for _, o := range obs {
		if o.IsQuarterly() {
			quarterly = append(quarterly, o)
		}
	}

	sort.SliceStable(quarterly, func(i, j int) bool {
		if quarterly[i].FY != quarterly[j].FY {
			return quarterly[i].FY > quarterly[j].FY
		}
		return quarterly[i].End > quarterly[j].End
	})

	if len(quarterly) > quarters {
		quarterly = quarterly[:quarters]
	}

	result := make([]QuarterlyValue, 0, len(quarterly))
	for _, o := range quarterly {
		result = append(result, QuarterlyValue{
			FiscalYear: o.FY,
			Quarter:    o.FP,
			Value:      o.Val,
			End:        o.End,
			Filed:      o.Filed,
		})
	}

	return result
}
