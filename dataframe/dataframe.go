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

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
)

// Len returns the number of rows in the dataframe
func (df *DataFrame) Len() int {
	return len(df.Dates)
}

// ColCount returns the number of columns in the dataframe
func (df *DataFrame) ColCount() int {
	return len(df.ColNames)
}

// ColIndex returns the index of the named column; -1 if it doesn't exist
func (df *DataFrame) ColIndex(colName string) int {
	for idx, val := range df.ColNames {
		if colName == val {
			return idx
		}
	}

	return -1
}

// HasCol reports whether the named column exists
func (df *DataFrame) HasCol(colName string) bool {
	return df.ColIndex(colName) != -1
}

// Col returns the values of the named column; nil if it doesn't exist
func (df *DataFrame) Col(colName string) []float64 {
	colIdx := df.ColIndex(colName)
	if colIdx == -1 {
		return nil
	}
	return df.Vals[colIdx]
}

// Copy creates a deep copy of the dataframe
func (df *DataFrame) Copy() *DataFrame {
	df2 := &DataFrame{
		Dates:    make([]time.Time, len(df.Dates)),
		ColNames: make([]string, len(df.ColNames)),
		Vals:     make([][]float64, len(df.Vals)),
	}

	copy(df2.Dates, df.Dates)
	copy(df2.ColNames, df.ColNames)

	for idx := range df.Vals {
		df2.Vals[idx] = make([]float64, len(df.Vals[idx]))
		copy(df2.Vals[idx], df.Vals[idx])
	}

	return df2
}

// Insert adds a new column to the end of the dataframe. The column length
// must equal the number of rows; panics otherwise
func (df *DataFrame) Insert(name string, col []float64) *DataFrame {
	if len(col) != df.Len() {
		log.Panic().Int("NumVals", len(col)).Int("NumRows", df.Len()).Msg("column length must equal number of rows")
	}

	df.ColNames = append(df.ColNames, name)
	df.Vals = append(df.Vals, col)
	return df
}

// InsertRow adds a new row to the dataframe. The date must be after the last
// date already present and vals must equal the number of columns; panics if
// either condition is not met
func (df *DataFrame) InsertRow(date time.Time, vals ...float64) *DataFrame {
	if len(df.Dates) != 0 {
		last := df.Dates[len(df.Dates)-1]
		if !last.Before(date) {
			log.Panic().Time("lastDate", last).Time("newDate", date).Msg("newDate must be after lastDate")
		}
	}

	if len(vals) != len(df.ColNames) {
		log.Panic().Int("NumValsPassed", len(vals)).Int("NumColumns", len(df.ColNames)).Msg("number of vals passed must equal number of columns")
	}

	df.Dates = append(df.Dates, date)
	for colIdx := range df.ColNames {
		df.Vals[colIdx] = append(df.Vals[colIdx], vals[colIdx])
	}

	return df
}

// InsertMap adds a new row to the dataframe. The date must be after the last
// date already present otherwise panic. Columns missing from vals are filled
// with NaN; keys in vals that are not dataframe columns are ignored
func (df *DataFrame) InsertMap(date time.Time, vals map[string]float64) *DataFrame {
	if len(df.Dates) != 0 {
		last := df.Dates[len(df.Dates)-1]
		if !last.Before(date) {
			log.Panic().Time("lastDate", last).Time("newDate", date).Msg("newDate must be after lastDate")
		}
	}

	df.Dates = append(df.Dates, date)
	for colIdx, colName := range df.ColNames {
		if val, ok := vals[colName]; ok {
			df.Vals[colIdx] = append(df.Vals[colIdx], val)
		} else {
			df.Vals[colIdx] = append(df.Vals[colIdx], math.NaN())
		}
	}

	return df
}

// AsMap creates a map from date to the value of the specified column; an
// unknown column yields an empty map
func (df *DataFrame) AsMap(colName string) map[time.Time]float64 {
	res := make(map[time.Time]float64, df.Len())
	colIdx := df.ColIndex(colName)
	if colIdx == -1 {
		return res
	}

	for idx, date := range df.Dates {
		res[date] = df.Vals[colIdx][idx]
	}

	return res
}

// Drop removes rows where any column contains the value `val`; NaN may be
// passed to drop rows with missing values
func (df *DataFrame) Drop(val float64) *DataFrame {
	isNA := math.IsNaN(val)
	newVals := make([][]float64, len(df.Vals))
	newDates := make([]time.Time, 0, len(df.Dates))

	for idx, date := range df.Dates {
		keep := true
		for _, col := range df.Vals {
			rowVal := col[idx]
			keep = keep && !(rowVal == val || (isNA && math.IsNaN(rowVal)))
			if !keep {
				break
			}
		}

		if keep {
			newDates = append(newDates, date)
			for colIdx, col := range df.Vals {
				newVals[colIdx] = append(newVals[colIdx], col[idx])
			}
		}
	}

	df.Vals = newVals
	df.Dates = newDates
	return df
}

// Last returns a new dataframe with only the final row of the current one
func (df *DataFrame) Last() *DataFrame {
	if df.Len() == 0 {
		return df
	}

	lastRow := len(df.Dates) - 1
	lastVals := make([][]float64, len(df.ColNames))
	for idx, col := range df.Vals {
		lastVals[idx] = []float64{col[lastRow]}
	}

	return &DataFrame{
		Dates:    []time.Time{df.Dates[lastRow]},
		ColNames: df.ColNames,
		Vals:     lastVals,
	}
}

// Start returns the first date of the dataframe
func (df *DataFrame) Start() time.Time {
	if len(df.Dates) == 0 {
		return time.Time{}
	}
	return df.Dates[0]
}

// End returns the last date of the dataframe
func (df *DataFrame) End() time.Time {
	if len(df.Dates) == 0 {
		return time.Time{}
	}
	return df.Dates[len(df.Dates)-1]
}

// Trim the dataframe to the specified date range (inclusive) and return a
// new dataframe sharing the underlying value slices
func (df *DataFrame) Trim(begin, end time.Time) *DataFrame {
	df2 := &DataFrame{
		Dates:    df.Dates,
		ColNames: df.ColNames,
		Vals:     df.Vals,
	}

	// requested range is invalid
	if end.Before(begin) {
		df2.Dates = []time.Time{}
		df2.Vals = make([][]float64, len(df.ColNames))
		return df2
	}

	if df.Len() == 0 {
		return df2
	}

	// range is entirely outside of the dataframe
	if end.Before(df.Dates[0]) || begin.After(df.Dates[len(df.Dates)-1]) {
		df2.Dates = []time.Time{}
		df2.Vals = make([][]float64, len(df.ColNames))
		return df2
	}

	beginIdx := sort.Search(len(df.Dates), func(i int) bool {
		return !df.Dates[i].Before(begin)
	})

	endIdx := sort.Search(len(df.Dates), func(i int) bool {
		return !df.Dates[i].Before(end)
	})

	if endIdx != len(df.Dates) {
		endIdx++
	}

	df2.Dates = df.Dates[beginIdx:endIdx]
	df2.Vals = make([][]float64, len(df.Vals))
	for colIdx, col := range df.Vals {
		df2.Vals[colIdx] = col[beginIdx:endIdx]
	}

	return df2
}

// Table prints an ASCII formatted table to a string
func (df *DataFrame) Table() string {
	if len(df.Dates) == 0 {
		return "<NO DATA>" // nothing to do as there is no data available in the dataframe
	}

	tableCols := append([]string{"Date"}, df.ColNames...)

	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader(tableCols)
	footer := make([]string, len(tableCols))
	footer[0] = "Num Rows"
	footer[1] = fmt.Sprintf("%d", df.Len())
	table.SetFooter(footer)
	table.SetBorder(false)

	for idx, date := range df.Dates {
		row := make([]string, 0, len(df.Vals)+1)
		row = append(row, date.Format("2006-01-02"))
		for _, col := range df.Vals {
			row = append(row, fmt.Sprintf("%.4f", col[idx]))
		}
		table.Append(row)
	}

	table.Render()
	return s.String()
}
