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
	"net/http"

	"github.com/Pbierley/freeCashFlowTool/data"
	"github.com/Pbierley/freeCashFlowTool/xbrl"

	"github.com/jarcoal/httpmock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const companyTickersJSON = `{
	"0": {"cik_str": 320193, "ticker": "AAPL", "title": "Apple Inc."},
	"1": {"cik_str": 789019, "ticker": "MSFT", "title": "MICROSOFT CORP"}
}`

const companyFactsJSON = `{
	"cik": 320193,
	"entityName": "Apple Inc.",
	"facts": {
		"us-gaap": {
			"NetCashProvidedByUsedInOperatingActivities": {
				"label": "Net Cash Provided by (Used in) Operating Activities",
				"units": {
					"USD": [
						{"val": 110543000000, "fy": 2023, "fp": "FY", "end": "2023-09-30", "filed": "2023-11-03", "form": "10-K"}
					]
				}
			}
		}
	}
}`

var _ = Describe("SECEdgar provider", func() {
	var (
		edgar *data.SECEdgar
		ctx   context.Context
	)

	BeforeEach(func() {
		httpmock.Activate()
		edgar = data.NewSECEdgar("test example@example.com", data.NewCache(16, nil, 0))
		ctx = context.Background()

		httpmock.RegisterResponder("GET", "https://www.sec.gov/files/company_tickers.json",
			httpmock.NewStringResponder(200, companyTickersJSON))
		httpmock.RegisterResponder("GET", "https://data.sec.gov/api/xbrl/companyfacts/CIK0000320193.json",
			httpmock.NewStringResponder(200, companyFactsJSON))
	})

	AfterEach(func() {
		httpmock.DeactivateAndReset()
	})

	Describe("LookupCIK", func() {
		It("resolves tickers case-insensitively", func() {
			cik, err := edgar.LookupCIK(ctx, "aapl")
			Expect(err).To(BeNil())
			Expect(cik).To(Equal(int64(320193)))
		})

		It("reports unknown tickers", func() {
			_, err := edgar.LookupCIK(ctx, "ZZZZ")
			Expect(err).To(MatchError(data.ErrTickerNotFound))
		})
	})

	Describe("CompanyFacts", func() {
		It("decodes the zero-padded companyfacts payload", func() {
			facts, err := edgar.CompanyFacts(ctx, "AAPL")
			Expect(err).To(BeNil())
			Expect(facts.EntityName).To(Equal("Apple Inc."))

			obs, err := facts.Resolve(xbrl.DefaultSpecs[xbrl.MetricCFO])
			Expect(err).To(BeNil())
			Expect(obs).To(HaveLen(1))
			Expect(obs[0].Val).To(Equal(110543000000.0))
		})

		It("sends the configured user agent", func() {
			var gotUserAgent string
			httpmock.RegisterResponder("GET", "https://www.sec.gov/files/company_tickers.json",
				func(req *http.Request) (*http.Response, error) {
					gotUserAgent = req.Header.Get("User-Agent")
					return httpmock.NewStringResponse(200, companyTickersJSON), nil
				})

			_, err := edgar.LookupCIK(ctx, "AAPL")
			Expect(err).To(BeNil())
			Expect(gotUserAgent).To(Equal("test example@example.com"))
		})
	})

	Describe("RecentFilings", func() {
		BeforeEach(func() {
			httpmock.RegisterResponder("GET", "https://data.sec.gov/submissions/CIK0000320193.json",
				httpmock.NewStringResponder(200, `{
					"cik": "320193",
					"name": "Apple Inc.",
					"filings": {
						"recent": {
							"accessionNumber": ["0000320193-24-000123"],
							"filingDate": ["2024-11-01"],
							"form": ["10-K"],
							"primaryDocument": ["aapl-20240928.htm"]
						}
					}
				}`))
		})

		It("decodes the submissions payload", func() {
			subs, err := edgar.RecentFilings(ctx, "AAPL")
			Expect(err).To(BeNil())
			Expect(subs.Name).To(Equal("Apple Inc."))
			Expect(subs.Filings.Recent.Form).To(Equal([]string{"10-K"}))
			Expect(subs.Filings.Recent.FilingDate).To(Equal([]string{"2024-11-01"}))
		})
	})

	Context("without a user agent", func() {
		It("refuses to issue requests", func() {
			edgar = data.NewSECEdgar("", data.NewCache(16, nil, 0))

			_, err := edgar.LookupCIK(ctx, "AAPL")
			Expect(err).To(MatchError(data.ErrMissingUserAgent))
			Expect(httpmock.GetTotalCallCount()).To(Equal(0))
		})
	})
})
