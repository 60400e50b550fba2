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

package data

import (
	"context"
	"math"
	"time"

	"github.com/Pbierley/freeCashFlowTool/common"
	"github.com/Pbierley/freeCashFlowTool/dataframe"
	"github.com/Pbierley/freeCashFlowTool/metrics"
	"github.com/Pbierley/freeCashFlowTool/observability/opentelemetry"
	"github.com/Pbierley/freeCashFlowTool/xbrl"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// marketCapDeviationLimit is the relative disagreement between the reported
// market cap and price times shares outstanding beyond which the reported
// value is replaced by the computed one
const marketCapDeviationLimit = 0.3

var defaultCAGRPeriods = []int{1, 3, 5, 10}

// Manager orchestrates the providers into a single per-ticker analysis.
// Each Analyze call is independent; no state is shared between requests
// beyond the providers' payload cache.
type Manager struct {
	fmp     *FMP
	polygon *Polygon
	edgar   *SECEdgar
}

// NewManager creates an analysis orchestrator over the three providers
func NewManager(fmp *FMP, polygon *Polygon, edgar *SECEdgar) *Manager {
	return &Manager{
		fmp:     fmp,
		polygon: polygon,
		edgar:   edgar,
	}
}

// Analysis is the complete derived picture for one ticker
type Analysis struct {
	Ticker      string
	CompanyName string
	Price       float64
	MarketCap   float64

	Income       *dataframe.DataFrame
	Cashflow     *dataframe.DataFrame
	FreeCashFlow *dataframe.DataFrame

	RevenueCAGR map[string]string
	FCFCAGR     map[string]string
	Margins     []metrics.MarginSummary

	MonthlyPrices    *dataframe.DataFrame
	MarketCapHistory *dataframe.DataFrame

	Skipped     []metrics.SkippedColumn
	DroppedRows int
}

type fetchResult struct {
	name string
	err  error
}

// Analyze fetches all raw inputs for a ticker concurrently, resolves XBRL
// facts and computes every derived series. Profile, statements and company
// facts are required and abort the analysis on failure; price history is
// optional and degrades to missing price-derived series.
func (m *Manager) Analyze(ctx context.Context, ticker string, years int) (*Analysis, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "manager.Analyze")
	defer span.End()

	span.SetAttributes(attribute.String("Ticker", ticker))
	subLog := log.With().Str("Ticker", ticker).Logger()

	if years <= 0 {
		years = xbrl.DefaultYears
	}

	var (
		profile  *CompanyProfile
		income   *dataframe.DataFrame
		cashflow *dataframe.DataFrame
		facts    *xbrl.CompanyFacts
		monthly  *dataframe.DataFrame

		incomeDropped   int
		cashflowDropped int
		priceErr        error
	)

	now := time.Now().In(common.GetTimezone())
	begin := now.AddDate(-years-1, 0, 0)

	ch := make(chan fetchResult)

	go func() {
		var err error
		profile, err = m.fmp.Profile(ctx, ticker)
		ch <- fetchResult{name: "profile", err: err}
	}()
	go func() {
		var err error
		income, incomeDropped, err = m.fmp.IncomeStatement(ctx, ticker, years+1)
		ch <- fetchResult{name: "income", err: err}
	}()
	go func() {
		var err error
		cashflow, cashflowDropped, err = m.fmp.CashFlowStatement(ctx, ticker, years+1)
		ch <- fetchResult{name: "cashflow", err: err}
	}()
	go func() {
		var err error
		facts, err = m.edgar.CompanyFacts(ctx, ticker)
		ch <- fetchResult{name: "facts", err: err}
	}()
	go func() {
		monthly, priceErr = m.polygon.MonthlyClose(ctx, ticker, begin, now)
		ch <- fetchResult{name: "prices", err: nil}
	}()

	var firstErr error
	for ii := 0; ii < 5; ii++ {
		res := <-ch
		if res.err != nil {
			subLog.Error().Err(res.err).Str("Input", res.name).Msg("required input fetch failed")
			if firstErr == nil {
				firstErr = res.err
			}
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	if priceErr != nil {
		subLog.Warn().Err(priceErr).Msg("price history unavailable; price-derived series omitted")
		monthly = nil
	}

	fcf, err := facts.FreeCashFlowSeries(years)
	if err != nil {
		return nil, err
	}

	marketCap := m.reconcileMarketCap(profile, facts, subLog)

	enriched := metrics.Enrich(income, cashflow, profile.Price, marketCap)

	analysis := &Analysis{
		Ticker:       ticker,
		CompanyName:  profile.CompanyName,
		Price:        profile.Price,
		MarketCap:    marketCap,
		Income:       enriched.Income,
		Cashflow:     enriched.Cashflow,
		FreeCashFlow: fcf,
		RevenueCAGR:  metrics.MultiPeriodCAGR(enriched.Income, metrics.ColRevenue, defaultCAGRPeriods),
		FCFCAGR:      metrics.MultiPeriodCAGR(fcf, "fcf", defaultCAGRPeriods),
		Margins:      metrics.SummarizeMargins(enriched.Income),

		MonthlyPrices: monthly,
		Skipped:       enriched.Skipped,
		DroppedRows:   incomeDropped + cashflowDropped,
	}

	if monthly != nil {
		analysis.MarketCapHistory = marketCapHistory(monthly, facts.HistoricalShares(years))
	}

	return analysis, nil
}

// reconcileMarketCap cross-checks the provider's reported market cap against
// price times shares outstanding from the filings. When the two disagree by
// more than 30% the filings-derived value wins: the provider's cap is the
// less trustworthy input at that point.
func (m *Manager) reconcileMarketCap(profile *CompanyProfile, facts *xbrl.CompanyFacts, subLog zerolog.Logger) float64 {
	reported := profile.MarketCap

	shares, ok := facts.SharesOutstanding()
	if !ok || profile.Price <= 0 {
		return reported
	}

	computed := profile.Price * shares
	if reported <= 0 {
		return computed
	}

	deviation := math.Abs(computed-reported) / reported
	if deviation > marketCapDeviationLimit {
		subLog.Warn().
			Float64("Reported", reported).
			Float64("Computed", computed).
			Float64("Deviation", deviation).
			Msg("reported market cap inconsistent with price times shares outstanding; using computed value")
		return computed
	}

	return reported
}

// marketCapHistory builds an annual market cap series by valuing each
// fiscal-year share count at the last monthly close on or before the fiscal
// year end. Years without a preceding close are skipped.
func marketCapHistory(monthly *dataframe.DataFrame, shares []xbrl.AnnualValue) *dataframe.DataFrame {
	df := &dataframe.DataFrame{
		ColNames: []string{"marketCap"},
		Vals:     [][]float64{{}},
	}

	closeCol := monthly.Col("close")
	if closeCol == nil || len(shares) == 0 {
		return df
	}

	// shares arrive most-recent-first; the series must ascend
	for ii := len(shares) - 1; ii >= 0; ii-- {
		av := shares[ii]
		end, err := time.Parse("2006-01-02", av.End)
		if err != nil {
			continue
		}

		priceIdx := -1
		for idx, dt := range monthly.Dates {
			if dt.After(end) {
				break
			}
			priceIdx = idx
		}
		if priceIdx == -1 {
			continue
		}

		if len(df.Dates) > 0 && !end.After(df.Dates[len(df.Dates)-1]) {
			continue
		}

		df.Dates = append(df.Dates, end)
		df.Vals[0] = append(df.Vals[0], closeCol[priceIdx]*av.Value)
	}

	return df
}
