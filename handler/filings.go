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

package handler

import (
	"errors"
	"strings"

	"github.com/Pbierley/freeCashFlowTool/data"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Filing struct {
	AccessionNumber string `json:"accessionNumber"`
	FilingDate      string `json:"filingDate"`
	Form            string `json:"form"`
	PrimaryDocument string `json:"primaryDocument"`
}

type FilingsResponse struct {
	Ticker  string   `json:"ticker"`
	Filings []Filing `json:"filings"`
}

// Filings lists recent SEC filings for one ticker, optionally filtered by
// form type via the `form` query parameter (e.g. 10-K)
func Filings(edgar *data.SECEdgar) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ticker := strings.ToUpper(c.Params("ticker"))
		form := strings.ToUpper(c.Query("form"))

		subLog := log.With().Str("Ticker", ticker).Logger()

		subs, err := edgar.RecentFilings(c.Context(), ticker)
		if err != nil {
			if errors.Is(err, data.ErrTickerNotFound) {
				return fiber.ErrNotFound
			}
			subLog.Error().Err(err).Msg("could not fetch filings")
			return fiber.ErrBadGateway
		}

		recent := subs.Filings.Recent
		resp := FilingsResponse{
			Ticker:  ticker,
			Filings: []Filing{},
		}
		// the submissions payload is parallel arrays; stop at the shortest
		count := len(recent.AccessionNumber)
		for _, arr := range [][]string{recent.FilingDate, recent.Form, recent.PrimaryDocument} {
			if len(arr) < count {
				count = len(arr)
			}
		}

		for idx := 0; idx < count; idx++ {
			if form != "" && recent.Form[idx] != form {
				continue
			}
			resp.Filings = append(resp.Filings, Filing{
				AccessionNumber: recent.AccessionNumber[idx],
				FilingDate:      recent.FilingDate[idx],
				Form:            recent.Form[idx],
				PrimaryDocument: recent.PrimaryDocument[idx],
			})
		}

		return c.JSON(resp)
	}
}
