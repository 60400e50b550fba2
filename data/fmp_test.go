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
	"context"

	"github.com/Pbierley/freeCashFlowTool/data"

	"github.com/jarcoal/httpmock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("FMP provider", func() {
	var (
		fmp *data.FMP
		ctx context.Context
	)

	BeforeEach(func() {
		httpmock.Activate()
		fmp = data.NewFMP("TEST", data.NewCache(16, nil, 0))
		ctx = context.Background()
	})

	AfterEach(func() {
		httpmock.DeactivateAndReset()
	})

	Describe("Profile", func() {
		Context("when the provider knows the ticker", func() {
			BeforeEach(func() {
				httpmock.RegisterResponder("GET", `=~^https://financialmodelingprep\.com/api/v3/profile/AAPL`,
					httpmock.NewStringResponder(200, `[{"symbol": "AAPL", "price": 150.25, "mktCap": 2500000000000, "companyName": "Apple Inc."}]`))
			})

			It("decodes price and market cap", func() {
				profile, err := fmp.Profile(ctx, "AAPL")
				Expect(err).To(BeNil())
				Expect(profile.Price).To(Equal(150.25))
				Expect(profile.MarketCap).To(Equal(2.5e12))
				Expect(profile.CompanyName).To(Equal("Apple Inc."))
			})

			It("serves repeat requests from the cache", func() {
				_, err := fmp.Profile(ctx, "AAPL")
				Expect(err).To(BeNil())

				_, err = fmp.Profile(ctx, "AAPL")
				Expect(err).To(BeNil())

				Expect(httpmock.GetTotalCallCount()).To(Equal(1))
			})
		})

		Context("when the provider returns an empty list", func() {
			BeforeEach(func() {
				httpmock.RegisterResponder("GET", `=~^https://financialmodelingprep\.com/api/v3/profile/`,
					httpmock.NewStringResponder(200, `[]`))
			})

			It("reports the ticker as not found", func() {
				_, err := fmp.Profile(ctx, "NOPE")
				Expect(err).To(MatchError(data.ErrTickerNotFound))
			})
		})

		Context("when the provider errors", func() {
			BeforeEach(func() {
				httpmock.RegisterResponder("GET", `=~^https://financialmodelingprep\.com/api/v3/profile/`,
					httpmock.NewStringResponder(429, `{"error": "rate limited"}`))
			})

			It("surfaces the invalid status", func() {
				_, err := fmp.Profile(ctx, "AAPL")
				Expect(err).To(MatchError(data.ErrInvalidStatus))
			})
		})
	})

	Describe("IncomeStatement", func() {
		BeforeEach(func() {
			httpmock.RegisterResponder("GET", `=~^https://financialmodelingprep\.com/api/v3/income-statement/AAPL`,
				httpmock.NewStringResponder(200, `[
					{"date": "2024-09-28", "revenue": 391035000000, "netIncome": 93736000000, "reportedCurrency": "USD"},
					{"date": "2023-09-30", "revenue": 383285000000, "netIncome": 96995000000, "reportedCurrency": "USD"}
				]`))
		})

		It("returns a date-ascending statement table", func() {
			df, dropped, err := fmp.IncomeStatement(ctx, "AAPL", 5)
			Expect(err).To(BeNil())
			Expect(dropped).To(Equal(0))
			Expect(df.Len()).To(Equal(2))
			Expect(df.Col("revenue")).To(Equal([]float64{383285000000, 391035000000}))
		})
	})

	Context("without an API token", func() {
		It("fails before issuing any request", func() {
			fmp = data.NewFMP("", data.NewCache(16, nil, 0))

			_, err := fmp.Profile(ctx, "AAPL")
			Expect(err).To(MatchError(data.ErrMissingToken))
			Expect(httpmock.GetTotalCallCount()).To(Equal(0))
		})
	})
})
