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

package metrics_test

import (
	"time"

	"github.com/Pbierley/freeCashFlowTool/dataframe"
	"github.com/Pbierley/freeCashFlowTool/metrics"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("CAGR", func() {
	Context("with positive inputs", func() {
		It("computes the compound annual growth rate", func() {
			rate, ok := metrics.CAGR(100, 200, 3)
			Expect(ok).To(BeTrue())
			Expect(rate).To(BeNumerically("~", 25.9921, 0.0001))
		})

		It("handles a single-year window", func() {
			rate, ok := metrics.CAGR(130, 140, 1)
			Expect(ok).To(BeTrue())
			Expect(rate).To(BeNumerically("~", 7.6923, 0.0001))
		})

		It("reports negative growth", func() {
			rate, ok := metrics.CAGR(200, 100, 1)
			Expect(ok).To(BeTrue())
			Expect(rate).To(Equal(-50.0))
		})
	})

	Context("with non-positive inputs", func() {
		It("is undefined for a non-positive start value", func() {
			_, ok := metrics.CAGR(0, 200, 3)
			Expect(ok).To(BeFalse())

			_, ok = metrics.CAGR(-100, 200, 3)
			Expect(ok).To(BeFalse())
		})

		It("is undefined for a non-positive end value", func() {
			_, ok := metrics.CAGR(100, -200, 3)
			Expect(ok).To(BeFalse())
		})

		It("is undefined for a non-positive duration", func() {
			_, ok := metrics.CAGR(100, 200, 0)
			Expect(ok).To(BeFalse())
		})
	})
})

var _ = Describe("MultiPeriodCAGR", func() {
	Context("with five annual revenue observations", func() {
		var df *dataframe.DataFrame

		BeforeEach(func() {
			df = &dataframe.DataFrame{
				ColNames: []string{"revenue"},
				Vals:     [][]float64{{}},
			}
			for idx, rev := range []float64{100e9, 110e9, 120e9, 130e9, 140e9} {
				df.InsertRow(time.Date(2020+idx, 12, 31, 0, 0, 0, 0, time.UTC), rev)
			}
		})

		It("computes each window with sufficient history and omits the rest", func() {
			cagrs := metrics.MultiPeriodCAGR(df, "revenue", []int{1, 3, 5})

			Expect(cagrs).To(HaveKeyWithValue("1Y", "7.69%"))
			Expect(cagrs).To(HaveKeyWithValue("3Y", "8.37%"))
			// five data points support at most a 4-year window
			Expect(cagrs).NotTo(HaveKey("5Y"))
		})

		It("includes a window exactly when the series has more points than the window", func() {
			Expect(metrics.MultiPeriodCAGR(df, "revenue", []int{4})).To(HaveKey("4Y"))
			Expect(metrics.MultiPeriodCAGR(df, "revenue", []int{5})).NotTo(HaveKey("5Y"))
		})
	})

	Context("with an unknown column", func() {
		It("returns an empty map", func() {
			df := &dataframe.DataFrame{ColNames: []string{"revenue"}, Vals: [][]float64{{}}}
			Expect(metrics.MultiPeriodCAGR(df, "netIncome", []int{1})).To(BeEmpty())
		})
	})

	Context("with a non-positive start value in the window", func() {
		It("omits the undefined window instead of erroring", func() {
			df := &dataframe.DataFrame{
				ColNames: []string{"netIncome"},
				Vals:     [][]float64{{}},
			}
			df.InsertRow(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), -5.0)
			df.InsertRow(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), 10.0)

			Expect(metrics.MultiPeriodCAGR(df, "netIncome", []int{1})).To(BeEmpty())
		})
	})
})
