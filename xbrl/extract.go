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

import (
	"math"
	"sort"
	"time"

	"github.com/Pbierley/freeCashFlowTool/dataframe"
	"github.com/rs/zerolog/log"
)

// DefaultYears is the trailing window extracted for annual series
const DefaultYears = 5

// DefaultQuarters is the trailing window extracted for quarterly series
const DefaultQuarters = 20

// FactTable is the normalized per-company fact table: one single-column,
// date-ascending dataframe per logical metric. It is built fresh per request
// and never shared between requests.
type FactTable struct {
	EntityName string
	Metrics    map[string]*dataframe.DataFrame

	// Missing lists optional metrics that could not be resolved; core
	// metrics abort extraction instead of appearing here
	Missing []string
}

// Series returns the dataframe for a logical metric, or nil
func (ft *FactTable) Series(metric string) *dataframe.DataFrame {
	return ft.Metrics[metric]
}

// annualDataFrame converts a most-recent-first annual series into a
// single-column dataframe sorted ascending by period-end date. Values whose
// end date cannot be parsed are dropped.
func annualDataFrame(colName string, series []AnnualValue) *dataframe.DataFrame {
	sorted := make([]AnnualValue, len(series))
	copy(sorted, series)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].End < sorted[j].End
	})

	df := &dataframe.DataFrame{
		ColNames: []string{colName},
		Vals:     [][]float64{{}},
	}

	var prev time.Time
	for _, av := range sorted {
		dt, err := time.Parse("2006-01-02", av.End)
		if err != nil {
			log.Warn().Str("Metric", colName).Str("End", av.End).Msg("dropping annual value with unparseable end date")
			continue
		}
		if !dt.After(prev) {
			continue
		}
		prev = dt
		df.Dates = append(df.Dates, dt)
		df.Vals[0] = append(df.Vals[0], av.Value)
	}

	return df
}

// quarterlyDataFrame converts a most-recent-first quarterly series into a
// single-column dataframe sorted ascending by period-end date
func quarterlyDataFrame(colName string, series []QuarterlyValue) *dataframe.DataFrame {
	sorted := make([]QuarterlyValue, len(series))
	copy(sorted, series)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].End < sorted[j].End
	})

	df := &dataframe.DataFrame{
		ColNames: []string{colName},
		Vals:     [][]float64{{}},
	}

	var prev time.Time
	for _, qv := range sorted {
		dt, err := time.Parse("2006-01-02", qv.End)
		if err != nil {
			log.Warn().Str("Metric", colName).Str("End", qv.End).Msg("dropping quarterly value with unparseable end date")
			continue
		}
		if !dt.After(prev) {
			continue
		}
		prev = dt
		df.Dates = append(df.Dates, dt)
		df.Vals[0] = append(df.Vals[0], qv.Value)
	}

	return df
}

// ExtractFactTable runs the full resolution pipeline over the fixed metric
// set. CFO, CapEx and SBC are core: a resolution failure for any of them
// aborts extraction with a *NoMatchingFactError. EPS and shares degrade to
// an entry in FactTable.Missing.
func (cf *CompanyFacts) ExtractFactTable(years int) (*FactTable, error) {
	if years <= 0 {
		years = DefaultYears
	}

	ft := &FactTable{
		EntityName: cf.EntityName,
		Metrics:    make(map[string]*dataframe.DataFrame, len(DefaultSpecs)),
	}

	for _, metric := range []string{MetricCFO, MetricCapEx, MetricSBC} {
		obs, err := cf.Resolve(DefaultSpecs[metric])
		if err != nil {
			return nil, err
		}
		ft.Metrics[metric] = annualDataFrame(metric, AnnualSeries(obs, years))
	}

	if obs, err := cf.Resolve(DefaultSpecs[MetricEPS]); err != nil {
		log.Warn().Err(err).Msg("eps not available from company facts")
		ft.Missing = append(ft.Missing, MetricEPS)
	} else {
		ft.Metrics[MetricEPS] = quarterlyDataFrame(MetricEPS, QuarterlySeries(obs, DefaultQuarters))
	}

	if shares := cf.HistoricalShares(years); len(shares) > 0 {
		ft.Metrics[MetricShares] = annualDataFrame(MetricShares, shares)
	} else {
		ft.Missing = append(ft.Missing, MetricShares)
	}

	return ft, nil
}

type resolution struct {
	metric string
	series []AnnualValue
	err    error
}

// FreeCashFlowSeries resolves CFO, CapEx and SBC concurrently and derives
// per-year free cash flow. The three resolutions are order-independent so
// they run on separate goroutines; the join waits for all three and the
// whole operation fails if any one fails - no partial result is returned.
//
// The returned dataframe is indexed by fiscal-year end date and holds the
// columns cfo, capex, fcf (= cfo - capex), sbc and fcf_minus_sbc. A year is
// present only when both cfo and capex exist for it; sbc and fcf_minus_sbc
// are NaN for years missing an SBC observation.
func (cf *CompanyFacts) FreeCashFlowSeries(years int) (*dataframe.DataFrame, error) {
	if years <= 0 {
		years = DefaultYears
	}

	ch := make(chan resolution)
	for _, metric := range []string{MetricCFO, MetricCapEx, MetricSBC} {
		go func(metric string) {
			obs, err := cf.Resolve(DefaultSpecs[metric])
			if err != nil {
				ch <- resolution{metric: metric, err: err}
				return
			}
			ch <- resolution{metric: metric, series: AnnualSeries(obs, years)}
		}(metric)
	}

	series := make(map[string][]AnnualValue, 3)
	var firstErr error
	for ii := 0; ii < 3; ii++ {
		res := <-ch
		if res.err != nil {
			log.Warn().Err(res.err).Str("Metric", res.metric).Msg("metric resolution failed")
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		series[res.metric] = res.series
	}

	if firstErr != nil {
		return nil, firstErr
	}

	capexByYear := make(map[int]float64, len(series[MetricCapEx]))
	for _, av := range series[MetricCapEx] {
		capexByYear[av.FiscalYear] = av.Value
	}
	sbcByYear := make(map[int]float64, len(series[MetricSBC]))
	for _, av := range series[MetricSBC] {
		sbcByYear[av.FiscalYear] = av.Value
	}

	// keep only fiscal years where both cfo and capex are reported
	joined := make([]AnnualValue, 0, len(series[MetricCFO]))
	for _, av := range series[MetricCFO] {
		if _, ok := capexByYear[av.FiscalYear]; ok {
			joined = append(joined, av)
		}
	}
	sort.SliceStable(joined, func(i, j int) bool {
		return joined[i].End < joined[j].End
	})

	df := &dataframe.DataFrame{
		ColNames: []string{MetricCFO, MetricCapEx, "fcf", MetricSBC, "fcf_minus_sbc"},
		Vals:     make([][]float64, 5),
	}

	var prev time.Time
	for _, av := range joined {
		dt, err := time.Parse("2006-01-02", av.End)
		if err != nil || !dt.After(prev) {
			continue
		}
		prev = dt

		capex := capexByYear[av.FiscalYear]
		fcf := av.Value - capex

		sbc := math.NaN()
		fcfMinusSBC := math.NaN()
		if v, ok := sbcByYear[av.FiscalYear]; ok {
			sbc = v
			fcfMinusSBC = fcf - v
		}

		df.Dates = append(df.Dates, dt)
		for colIdx, v := range []float64{av.Value, capex, fcf, sbc, fcfMinusSBC} {
			df.Vals[colIdx] = append(df.Vals[colIdx], v)
		}
	}

	return df, nil
}

// SharesOutstanding returns the most recently reported share count
func (cf *CompanyFacts) SharesOutstanding() (float64, bool) {
	obs, err := cf.Resolve(DefaultSpecs[MetricShares])
	if err != nil {
		return 0, false
	}

	sort.SliceStable(obs, func(i, j int) bool {
		return obs[i].End > obs[j].End
	})

	for _, o := range obs {
		if o.Val > 0 {
			return o.Val, true
		}
	}

	return 0, false
}

// HistoricalShares extracts year-end share counts for the past N fiscal
// years. Share counts are frequently reported against Q4 rather than FY, so
// both period codes are accepted; restatements are deduplicated by fiscal
// year with the most recent period end winning.
func (cf *CompanyFacts) HistoricalShares(years int) []AnnualValue {
	obs, err := cf.Resolve(DefaultSpecs[MetricShares])
	if err != nil {
		return nil
	}

	annual := make([]Observation, 0, len(obs))
	for _, o := range obs {
		if o.Val > 0 && o.FY != 0 && (o.FP == PeriodFY || o.FP == PeriodQ4) {
			annual = append(annual, o)
		}
	}

	sortAnnualsDesc(annual)

	result := make([]AnnualValue, 0, years)
	seen := make(map[int]bool, years)
	for _, o := range annual {
		if seen[o.FY] {
			continue
		}
		seen[o.FY] = true
		result = append(result, AnnualValue{
			FiscalYear: o.FY,
			Value:      o.Val,
			End:        o.End,
		})
		if len(result) >= years {
			break
		}
	}

	return result
}
