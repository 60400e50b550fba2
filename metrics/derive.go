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

// Package metrics derives financial ratios and growth rates from normalized
// per-period statement tables. Every function is a pure transform: inputs are
// never mutated and no I/O is performed. Undefined ratios (zero or negative
// denominators) are represented as NaN cells so the period stays in the
// series; the single exception is fcf_yield, whose column is omitted outright
// when market cap is non-positive.
package metrics

import (
	"math"

	"github.com/Pbierley/freeCashFlowTool/dataframe"
	"github.com/rs/zerolog/log"
)

// Statement column names as delivered by the fundamentals provider
const (
	ColRevenue         = "revenue"
	ColGrossProfit     = "grossProfit"
	ColOperatingIncome = "operatingIncome"
	ColNetIncome       = "netIncome"
	ColEPSDiluted      = "epsDiluted"
	ColDilutedShares   = "weightedAverageShsOutDil"
	ColFreeCashFlow    = "freeCashFlow"
	ColSBC             = "stockBasedCompensation"
)

// Derived column names
const (
	ColPE          = "pe"
	ColGrossMargin = "grossProfitRatio"
	ColOperMargin  = "operatingIncomeRatio"
	ColNetMargin   = "netIncomeRatio"
	ColFCFMinusSBC = "fcf_minus_sbc"
	ColFCFYield    = "fcf_yield"
)

// Skip reasons reported for derived columns that could not be computed
const (
	ReasonMissingInput   = "missing input column"
	ReasonNonPositiveDen = "non-positive denominator"
)

// SkippedColumn records one derived column that was not computed and why
type SkippedColumn struct {
	Column string `json:"column"`
	Reason string `json:"reason"`
}

// Enrichment is the full set of derived series for one company
type Enrichment struct {
	Income   *dataframe.DataFrame
	Cashflow *dataframe.DataFrame
	Skipped  []SkippedColumn
}

// undefinedRatio maps infinities from zero denominators to NaN so downstream
// consumers treat the cell as missing rather than propagating infinity
func undefinedRatio(v float64) float64 {
	if math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

// AddPERatio returns a copy of the income table with a per-period `pe`
// column (price / diluted EPS). Price must be strictly positive; otherwise
// the table is returned unchanged with no column added. Zero-EPS periods get
// a NaN cell, the period itself is kept.
func AddPERatio(df *dataframe.DataFrame, price float64) *dataframe.DataFrame {
	df2 := df.Copy()
	if price <= 0 {
		return df2
	}

	eps := df2.Col(ColEPSDiluted)
	if eps == nil {
		return df2
	}

	pe := make([]float64, len(eps))
	for idx, v := range eps {
		pe[idx] = undefinedRatio(price / v)
	}

	return df2.Insert(ColPE, pe)
}

// marginSpec pairs a raw statement column with its derived margin column
type marginSpec struct {
	numerator string
	derived   string
}

var marginSpecs = []marginSpec{
	{ColGrossProfit, ColGrossMargin},
	{ColOperatingIncome, ColOperMargin},
	{ColNetIncome, ColNetMargin},
}

// AddProfitMargins returns a copy of the income table with gross, operating
// and net margin columns (metric / revenue * 100). A margin is computed only
// when both its raw column and revenue exist; zero-revenue periods get NaN
// cells under the same policy as P/E.
func AddProfitMargins(df *dataframe.DataFrame) (*dataframe.DataFrame, []SkippedColumn) {
	df2 := df.Copy()
	skipped := []SkippedColumn{}

	revenue := df2.Col(ColRevenue)
	if revenue == nil {
		for _, spec := range marginSpecs {
			skipped = append(skipped, SkippedColumn{Column: spec.derived, Reason: ReasonMissingInput})
		}
		return df2, skipped
	}

	for _, spec := range marginSpecs {
		col := df2.Col(spec.numerator)
		if col == nil {
			skipped = append(skipped, SkippedColumn{Column: spec.derived, Reason: ReasonMissingInput})
			continue
		}

		margin := make([]float64, len(col))
		for idx, v := range col {
			margin[idx] = undefinedRatio(v / revenue[idx] * 100)
		}
		df2.Insert(spec.derived, margin)
	}

	return df2, skipped
}

// AddFCFMetrics returns a copy of the cash-flow table with fcf_minus_sbc
// (freeCashFlow - stockBasedCompensation, per period where both exist) and
// fcf_yield ((fcf - sbc) / marketCap * 100). The yield column is omitted
// entirely when market cap is not strictly positive rather than filled with
// NaN cells; callers relying on column presence must account for this.
func AddFCFMetrics(df *dataframe.DataFrame, marketCap float64) (*dataframe.DataFrame, []SkippedColumn) {
	df2 := df.Copy()
	skipped := []SkippedColumn{}

	fcf := df2.Col(ColFreeCashFlow)
	sbc := df2.Col(ColSBC)
	if fcf == nil || sbc == nil {
		skipped = append(skipped,
			SkippedColumn{Column: ColFCFMinusSBC, Reason: ReasonMissingInput},
			SkippedColumn{Column: ColFCFYield, Reason: ReasonMissingInput})
		return df2, skipped
	}

	fcfMinusSBC := make([]float64, len(fcf))
	for idx := range fcf {
		fcfMinusSBC[idx] = fcf[idx] - sbc[idx]
	}
	df2.Insert(ColFCFMinusSBC, fcfMinusSBC)

	if marketCap <= 0 {
		log.Debug().Float64("MarketCap", marketCap).Msg("market cap not positive; omitting fcf_yield")
		skipped = append(skipped, SkippedColumn{Column: ColFCFYield, Reason: ReasonNonPositiveDen})
		return df2, skipped
	}

	fcfYield := make([]float64, len(fcfMinusSBC))
	for idx, v := range fcfMinusSBC {
		fcfYield[idx] = v / marketCap * 100
	}
	df2.Insert(ColFCFYield, fcfYield)

	return df2, skipped
}

// Enrich computes every derived series for one company: P/E and profit
// margins over the income table, FCF variants over the cash-flow table.
// Skipped reports each derived column that could not be computed and
// distinguishes missing inputs from non-positive denominators.
func Enrich(income, cashflow *dataframe.DataFrame, price, marketCap float64) *Enrichment {
	enriched := &Enrichment{Skipped: []SkippedColumn{}}

	withMargins, skipped := AddProfitMargins(income)
	enriched.Skipped = append(enriched.Skipped, skipped...)

	enriched.Income = AddPERatio(withMargins, price)
	if !enriched.Income.HasCol(ColPE) {
		reason := ReasonNonPositiveDen
		if !income.HasCol(ColEPSDiluted) {
			reason = ReasonMissingInput
		}
		enriched.Skipped = append(enriched.Skipped, SkippedColumn{Column: ColPE, Reason: reason})
	}

	enriched.Cashflow, skipped = AddFCFMetrics(cashflow, marketCap)
	enriched.Skipped = append(enriched.Skipped, skipped...)

	return enriched
}
