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

package xbrl_test

import (
	"github.com/Pbierley/freeCashFlowTool/xbrl"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Period selection", func() {
	Describe("LatestAnnual", func() {
		Context("with fiscal-year observations present", func() {
			It("selects the latest by fiscal year then period end", func() {
				obs := []xbrl.Observation{
					{Val: 100, FY: 2022, FP: xbrl.PeriodFY, End: "2022-12-31"},
					{Val: 130, FY: 2024, FP: xbrl.PeriodFY, End: "2024-12-31"},
					{Val: 120, FY: 2024, FP: xbrl.PeriodFY, End: "2024-06-30"},
					{Val: 110, FY: 2023, FP: xbrl.PeriodFY, End: "2023-12-31"},
				}

				val, ok := xbrl.LatestAnnual(obs)
				Expect(ok).To(BeTrue())
				Expect(val).To(Equal(130.0))
			})

			It("breaks fiscal-year ties by period end, not filing date", func() {
				obs := []xbrl.Observation{
					{Val: 1, FY: 2024, FP: xbrl.PeriodFY, End: "2024-06-30", Filed: "2025-06-01"},
					{Val: 2, FY: 2024, FP: xbrl.PeriodFY, End: "2024-12-31", Filed: "2025-01-15"},
				}

				val, ok := xbrl.LatestAnnual(obs)
				Expect(ok).To(BeTrue())
				Expect(val).To(Equal(2.0))
			})
		})

		Context("with only quarterly observations", func() {
			It("falls back to the trailing-twelve-month sum", func() {
				obs := []xbrl.Observation{
					{Val: 10, FY: 2024, FP: xbrl.PeriodQ1, End: "2024-03-31"},
					{Val: 20, FY: 2024, FP: xbrl.PeriodQ2, End: "2024-06-30"},
					{Val: 30, FY: 2024, FP: xbrl.PeriodQ3, End: "2024-09-30"},
					{Val: 40, FY: 2024, FP: xbrl.PeriodQ4, End: "2024-12-31"},
				}

				val, ok := xbrl.LatestAnnual(obs)
				Expect(ok).To(BeTrue())
				Expect(val).To(Equal(100.0))
			})
		})

		Context("with no observations at all", func() {
			It("reports no value", func() {
				_, ok := xbrl.LatestAnnual([]xbrl.Observation{})
				Expect(ok).To(BeFalse())
			})
		})
	})

	Describe("TrailingTwelveMonths", func() {
		It("sums only the four most recent quarters by period end", func() {
			obs := []xbrl.Observation{
				{Val: 1, FY: 2023, FP: xbrl.PeriodQ4, End: "2023-12-31"},
				{Val: 10, FY: 2024, FP: xbrl.PeriodQ1, End: "2024-03-31"},
				{Val: 20, FY: 2024, FP: xbrl.PeriodQ2, End: "2024-06-30"},
				{Val: 30, FY: 2024, FP: xbrl.PeriodQ3, End: "2024-09-30"},
				{Val: 40, FY: 2024, FP: xbrl.PeriodQ4, End: "2024-12-31"},
			}

			val, ok := xbrl.TrailingTwelveMonths(obs)
			Expect(ok).To(BeTrue())
			Expect(val).To(Equal(100.0))
		})

		It("accepts fewer than four quarters", func() {
			obs := []xbrl.Observation{
				{Val: 25, FY: 2024, FP: xbrl.PeriodQ1, End: "2024-03-31"},
			}

			val, ok := xbrl.TrailingTwelveMonths(obs)
			Expect(ok).To(BeTrue())
			Expect(val).To(Equal(25.0))
		})
	})

	Describe("AnnualSeries", func() {
		It("deduplicates restatements by fiscal year and limits the window", func() {
			obs := []xbrl.Observation{
				{Val: 100, FY: 2021, FP: xbrl.PeriodFY, End: "2021-12-31"},
				{Val: 110, FY: 2022, FP: xbrl.PeriodFY, End: "2022-12-31"},
				{Val: 111, FY: 2022, FP: xbrl.PeriodFY, End: "2022-06-30"},
				{Val: 120, FY: 2023, FP: xbrl.PeriodFY, End: "2023-12-31"},
				{Val: 130, FY: 2024, FP: xbrl.PeriodFY, End: "2024-12-31"},
			}

			series := xbrl.AnnualSeries(obs, 3)
			Expect(series).To(HaveLen(3))
			Expect(series[0].FiscalYear).To(Equal(2024))
			Expect(series[1].FiscalYear).To(Equal(2023))
			Expect(series[2].FiscalYear).To(Equal(2022))
			Expect(series[2].Value).To(Equal(110.0))
		})

		It("ignores quarterly observations", func() {
			obs := []xbrl.Observation{
				{Val: 10, FY: 2024, FP: xbrl.PeriodQ1, End: "2024-03-31"},
			}

			Expect(xbrl.AnnualSeries(obs, 5)).To(BeEmpty())
		})
	})

	Describe("QuarterlySeries", func() {
		It("returns the most recent quarters first", func() {
			obs := []xbrl.Observation{
				{Val: 10, FY: 2024, FP: xbrl.PeriodQ1, End: "2024-03-31"},
				{Val: 20, FY: 2024, FP: xbrl.PeriodQ2, End: "2024-06-30"},
				{Val: 5, FY: 2023, FP: xbrl.PeriodQ4, End: "2023-12-31"},
			}

			series := xbrl.QuarterlySeries(obs, 2)
			Expect(series).To(HaveLen(2))
			Expect(series[0].Value).To(Equal(20.0))
			Expect(series[1].Value).To(Equal(10.0))
		})
	})
})
