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
	"sort"
	"strings"
	"time"

	"github.com/Pbierley/freeCashFlowTool/common"
	"github.com/Pbierley/freeCashFlowTool/dataframe"
	"github.com/rs/zerolog/log"
)

// PriceBar is one OHLCV bar as delivered by the market-data provider, with
// short keys and a millisecond epoch timestamp
type PriceBar struct {
	Time   int64   `json:"t"`
	Open   float64 `json:"o"`
	High   float64 `json:"h"`
	Low    float64 `json:"l"`
	Close  float64 `json:"c"`
	Volume float64 `json:"v"`
}

// numericValue extracts a float from a decoded JSON value. Strings and other
// non-numeric types report false; statement rows mix numbers with labels like
// currency and filing links.
func numericValue(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// parseRowDate accepts ISO-8601-like date strings, tolerating a trailing
// time component
func parseRowDate(raw string) (time.Time, bool) {
	datePart, _, _ := strings.Cut(raw, "T")
	dt, err := time.ParseInLocation("2006-01-02", datePart, common.GetTimezone())
	if err != nil {
		return time.Time{}, false
	}
	return dt, true
}

// ToFinancialDataFrame converts loosely-typed statement rows into a
// date-ascending dataframe. Columns are the union of numeric fields across
// all rows, sorted by name; a row's missing fields become NaN cells. Rows
// lacking a parseable `date` field are dropped and counted so a partial
// upstream outage degrades visibly instead of aborting the pipeline.
func ToFinancialDataFrame(rows []map[string]interface{}) (*dataframe.DataFrame, int) {
	type parsedRow struct {
		date time.Time
		vals map[string]float64
	}

	colSet := make(map[string]bool)
	parsed := make([]parsedRow, 0, len(rows))
	dropped := 0

	for _, row := range rows {
		rawDate, ok := row["date"].(string)
		if !ok {
			dropped++
			continue
		}
		dt, ok := parseRowDate(rawDate)
		if !ok {
			dropped++
			continue
		}

		vals := make(map[string]float64, len(row))
		for k, v := range row {
			if k == "date" {
				continue
			}
			if n, ok := numericValue(v); ok {
				vals[k] = n
				colSet[k] = true
			}
		}

		parsed = append(parsed, parsedRow{date: dt, vals: vals})
	}

	if dropped > 0 {
		log.Warn().Int("Dropped", dropped).Int("Total", len(rows)).Msg("dropped statement rows without a parseable date")
	}

	colNames := make([]string, 0, len(colSet))
	for k := range colSet {
		colNames = append(colNames, k)
	}
	sort.Strings(colNames)

	sort.SliceStable(parsed, func(i, j int) bool {
		return parsed[i].date.Before(parsed[j].date)
	})

	df := &dataframe.DataFrame{
		ColNames: colNames,
		Vals:     make([][]float64, len(colNames)),
	}

	var prev time.Time
	for _, row := range parsed {
		// duplicate period dates keep the first occurrence
		if !row.date.After(prev) && len(df.Dates) > 0 {
			continue
		}
		prev = row.date
		df.InsertMap(row.date, row.vals)
	}

	return df, dropped
}

// ToPriceDataFrame converts OHLCV bars to a date-ascending dataframe with
// long-form column names. Bar timestamps are epoch milliseconds and are
// interpreted in the market reference timezone.
func ToPriceDataFrame(bars []PriceBar) *dataframe.DataFrame {
	sorted := make([]PriceBar, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time < sorted[j].Time
	})

	tz := common.GetTimezone()
	df := &dataframe.DataFrame{
		ColNames: []string{"open", "high", "low", "close", "volume"},
		Vals:     make([][]float64, 5),
	}

	var prev time.Time
	for _, bar := range sorted {
		dt := time.UnixMilli(bar.Time).In(tz)
		if !dt.After(prev) && len(df.Dates) > 0 {
			continue
		}
		prev = dt
		df.InsertRow(dt, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume)
	}

	return df
}
