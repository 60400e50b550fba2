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

package handler_test

import (
	"io"
	"net/http"

	"github.com/Pbierley/freeCashFlowTool/data"
	"github.com/Pbierley/freeCashFlowTool/handler"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/jarcoal/httpmock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const handlerTickersJSON = `{"0": {"cik_str": 320193, "ticker": "AAPL", "title": "Apple Inc."}}`

const handlerFactsJSON = `{
	"cik": 320193,
	"entityName": "Apple Inc.",
	"facts": {
		"us-gaap": {
			"NetCashProvidedByUsedInOperatingActivities": {
				"units": {"USD": [{"val": 1000, "fy": 2024, "fp": "FY", "end": "2024-09-28", "filed": "2024-11-01", "form": "10-K"}]}
			},
			"PaymentsToAcquirePropertyPlantAndEquipment": {
				"units": {"USD": [{"val": 100, "fy": 2024, "fp": "FY", "end": "2024-09-28", "filed": "2024-11-01", "form": "10-K"}]}
			},
			"ShareBasedCompensation": {
				"units": {"USD": [{"val": 50, "fy": 2024, "fp": "FY", "end": "2024-09-28", "filed": "2024-11-01", "form": "10-K"}]}
			}
		}
	}
}`

var _ = Describe("Facts endpoint", func() {
	var app *fiber.App

	BeforeEach(func() {
		httpmock.Activate()

		edgar := data.NewSECEdgar("test example@example.com", data.NewCache(16, nil, 0))
		app = fiber.New()
		app.Get("/v1/facts/:ticker", handler.Facts(edgar))

		httpmock.RegisterResponder("GET", "https://www.sec.gov/files/company_tickers.json",
			httpmock.NewStringResponder(200, handlerTickersJSON))
		httpmock.RegisterResponder("GET", "https://data.sec.gov/api/xbrl/companyfacts/CIK0000320193.json",
			httpmock.NewStringResponder(200, handlerFactsJSON))
	})

	AfterEach(func() {
		httpmock.DeactivateAndReset()
	})

	It("returns the normalized fact table", func() {
		req, _ := http.NewRequest("GET", "/v1/facts/aapl", nil)
		resp, err := app.Test(req, -1)
		Expect(err).To(BeNil())
		Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

		body, _ := io.ReadAll(resp.Body)
		var facts handler.FactsResponse
		Expect(json.Unmarshal(body, &facts)).To(Succeed())

		Expect(facts.Ticker).To(Equal("AAPL"))
		Expect(facts.EntityName).To(Equal("Apple Inc."))
		Expect(facts.Metrics).To(HaveKey("cfo"))
		Expect(facts.Metrics["cfo"]).To(HaveLen(1))
		Expect(facts.Missing).To(ConsistOf("eps", "shares"))
	})

	It("returns 404 for an unknown ticker", func() {
		req, _ := http.NewRequest("GET", "/v1/facts/ZZZZ", nil)
		resp, err := app.Test(req, -1)
		Expect(err).To(BeNil())
		Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))
	})

	It("returns a typed 404 when a core metric cannot be resolved", func() {
		httpmock.RegisterResponder("GET", "https://data.sec.gov/api/xbrl/companyfacts/CIK0000320193.json",
			httpmock.NewStringResponder(200, `{"cik": 320193, "entityName": "Apple Inc.", "facts": {}}`))

		req, _ := http.NewRequest("GET", "/v1/facts/AAPL", nil)
		resp, err := app.Test(req, -1)
		Expect(err).To(BeNil())
		Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))

		body, _ := io.ReadAll(resp.Body)
		payload := map[string]interface{}{}
		Expect(json.Unmarshal(body, &payload)).To(Succeed())
		Expect(payload["metric"]).To(Equal("cfo"))
		Expect(payload["candidates"]).NotTo(BeEmpty())
	})

	It("rejects a non-positive years parameter", func() {
		req, _ := http.NewRequest("GET", "/v1/facts/AAPL?years=0", nil)
		resp, err := app.Test(req, -1)
		Expect(err).To(BeNil())
		Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
	})
})

var _ = Describe("Ping", func() {
	It("responds with API status", func() {
		app := fiber.New()
		app.Get("/v1/", handler.Ping)

		req, _ := http.NewRequest("GET", "/v1/", nil)
		resp, err := app.Test(req, -1)
		Expect(err).To(BeNil())
		Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

		body, _ := io.ReadAll(resp.Body)
		var ping handler.PingResponse
		Expect(json.Unmarshal(body, &ping)).To(Succeed())
		Expect(ping.Status).To(Equal("success"))
	})
})
