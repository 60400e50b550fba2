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
	"strconv"
	"strings"

	"github.com/Pbierley/freeCashFlowTool/data"
	"github.com/Pbierley/freeCashFlowTool/xbrl"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type FactsResponse struct {
	Ticker     string                              `json:"ticker"`
	EntityName string                              `json:"entityName"`
	Metrics    map[string][]map[string]interface{} `json:"metrics"`
	Missing    []string                            `json:"missing,omitempty"`
}

// Facts resolves and returns the normalized fact table for one ticker
func Facts(edgar *data.SECEdgar) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ticker := strings.ToUpper(c.Params("ticker"))
		years, err := strconv.Atoi(c.Query("years", strconv.Itoa(xbrl.DefaultYears)))
		if err != nil || years <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "years must be a positive integer")
		}

		subLog := log.With().Str("Ticker", ticker).Int("Years", years).Logger()

		facts, err := edgar.CompanyFacts(c.Context(), ticker)
		if err != nil {
			if errors.Is(err, data.ErrTickerNotFound) {
				return fiber.ErrNotFound
			}
			subLog.Error().Err(err).Msg("could not fetch company facts")
			return fiber.ErrBadGateway
		}

		table, err := facts.ExtractFactTable(years)
		if err != nil {
			var noFact *xbrl.NoMatchingFactError
			if errors.As(err, &noFact) {
				subLog.Warn().Err(err).Msg("required metric missing from company facts")
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"status":     "error",
					"message":    noFact.Error(),
					"metric":     noFact.Metric,
					"candidates": noFact.Candidates,
					"keywords":   noFact.Keywords,
				})
			}
			subLog.Error().Err(err).Msg("fact extraction failed")
			return fiber.ErrInternalServerError
		}

		resp := FactsResponse{
			Ticker:     ticker,
			EntityName: table.EntityName,
			Metrics:    make(map[string][]map[string]interface{}, len(table.Metrics)),
			Missing:    table.Missing,
		}
		for name, df := range table.Metrics {
			resp.Metrics[name] = dataFrameRows(df)
		}

		return c.JSON(resp)
	}
}
