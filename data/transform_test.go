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

package data_test

import (
	"math"
	"time"

	"github.com/Pbierley/freeCashFlowTool/common"
	"github.com/Pbierley/freeCashFlowTool/data"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ToFinancialDataFrame", func() {
	Context("with an empty input", func() {
		It("returns an empty series and no dropped rows", func() {
			df, dropped := data.ToFinancialDataFrame([]map[string]interface{}{})
			Expect(df.Len()).To(Equal(0))
			Expect(dropped).To(Equal(0))
		})
	})

	Context("with unsorted rows", func() {
		It("sorts strictly ascending by date", func() {
			rows := []map[string]interface{}{
				{"date": "2023-12-31", "revenue": 120.0},
				{"date": "2021-12-31", "revenue": 100.0},
				{"date": "2022-12-31", "revenue": 110.0},
			}

			df, dropped := data.ToFinancialDataFrame(rows)
			Expect(dropped).To(Equal(0))
			Expect(df.Len()).To(Equal(3))
			Expect(df.Col("revenue")).To(Equal([]float64{100, 110, 120}))
			Expect(df.Dates[0].Before(df.Dates[1])).To(BeTrue())
			Expect(df.Dates[1].Before(df.Dates[2])).To(BeTrue())
		})
	})

	Context("with rows missing a parseable date", func() {
		It("drops them and reports the count", func() {
			rows := []map[string]interface{}{
				{"date": "2022-12-31", "revenue": 110.0},
				{"revenue": 120.0},
				{"date": "not-a-date", "revenue": 130.0},
			}

			df, dropped := data.ToFinancialDataFrame(rows)
			Expect(df.Len()).To(Equal(1))
			Expect(dropped).To(Equal(2))
		})
	})

	Context("with mixed field types", func() {
		It("keeps numeric fields and fills gaps with NaN", func() {
			rows := []map[string]interface{}{
				{"date": "2021-12-31", "revenue": 100.0, "currency": "USD"},
				{"date": "2022-12-31", "revenue": 110.0, "netIncome": 40.0},
			}

			df, _ := data.ToFinancialDataFrame(rows)
			Expect(df.ColNames).To(Equal([]string{"netIncome", "revenue"}))
			Expect(df.Col("revenue")).To(Equal([]float64{100, 110}))
			Expect(math.IsNaN(df.Col("netIncome")[0])).To(BeTrue())
			Expect(df.Col("netIncome")[1]).To(Equal(40.0))
		})
	})
})

var _ = Describe("ToPriceDataFrame", func() {
	It("maps short keys to long-form columns and sorts ascending by time", func() {
		tz := common.GetTimezone()
		day1 := time.Date(2024, 1, 2, 0, 0, 0, 0, tz)
		day2 := time.Date(2024, 1, 3, 0, 0, 0, 0, tz)

		bars := []data.PriceBar{
			{Time: day2.UnixMilli(), Open: 11, High: 12, Low: 10, Close: 11.5, Volume: 2000},
			{Time: day1.UnixMilli(), Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 1000},
		}

		df := data.ToPriceDataFrame(bars)
		Expect(df.Len()).To(Equal(2))
		Expect(df.ColNames).To(Equal([]string{"open", "high", "low", "close", "volume"}))
		Expect(df.Col("close")).To(Equal([]float64{10.5, 11.5}))
		Expect(df.Dates[0].Equal(day1)).To(BeTrue())
	})

	It("returns an empty frame for no bars", func() {
		Expect(data.ToPriceDataFrame(nil).Len()).To(Equal(0))
	})
})
