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
	"github.com/Pbierley/freeCashFlowTool/metrics"
	"github.com/Pbierley/freeCashFlowTool/observability/opentelemetry"
	"github.com/Pbierley/freeCashFlowTool/xbrl"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
)

type AnalyzeResponse struct {
	Ticker      string  `json:"ticker"`
	CompanyName string  `json:"companyName"`
	Price       float64 `json:"price"`
	MarketCap   float64 `json:"marketCap"`

	Income       []map[string]interface{} `json:"income"`
	Cashflow     []map[string]interface{} `json:"cashflow"`
	FreeCashFlow []map[string]interface{} `json:"freeCashFlow"`

	RevenueCAGR map[string]string       `json:"revenueCagr"`
	FCFCAGR     map[string]string       `json:"fcfCagr"`
	Margins     []metrics.MarginSummary `json:"margins"`

	MonthlyPrices    []map[string]interface{} `json:"monthlyPrices,omitempty"`
	MarketCapHistory []map[string]interface{} `json:"marketCapHistory,omitempty"`

	Skipped     []metrics.SkippedColumn `json:"skipped"`
	DroppedRows int                     `json:"droppedRows"`
}

// Analyze runs the full analysis pipeline for one ticker
func Analyze(mgr *data.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ticker := strings.ToUpper(c.Params("ticker"))
		years, err := strconv.Atoi(c.Query("years", strconv.Itoa(xbrl.DefaultYears)))
		if err != nil || years <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "years must be a positive integer")
		}

		subLog := log.With().Str("Ticker", ticker).Int("Years", years).Logger()

		ctx, span := otel.Tracer(opentelemetry.Name).Start(c.Context(), "handler.Analyze")
		defer span.End()
		span.SetAttributes(opentelemetry.SpanAttributesFromFiber(c)...)

		analysis, err := mgr.Analyze(ctx, ticker, years)
		if err != nil {
			var noFact *xbrl.NoMatchingFactError
			switch {
			case errors.As(err, &noFact):
				subLog.Warn().Err(err).Msg("required metric missing from company facts")
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"status":     "error",
					"message":    noFact.Error(),
					"metric":     noFact.Metric,
					"candidates": noFact.Candidates,
					"keywords":   noFact.Keywords,
				})
			case errors.Is(err, data.ErrTickerNotFound):
				return fiber.ErrNotFound
			default:
				subLog.Error().Err(err).Msg("analysis failed")
				return fiber.ErrBadGateway
			}
		}

		return c.JSON(AnalyzeResponse{
			Ticker:           analysis.Ticker,
			CompanyName:      analysis.CompanyName,
			Price:            analysis.Price,
			MarketCap:        analysis.MarketCap,
			Income:           dataFrameRows(analysis.Income),
			Cashflow:         dataFrameRows(analysis.Cashflow),
			FreeCashFlow:     dataFrameRows(analysis.FreeCashFlow),
			RevenueCAGR:      analysis.RevenueCAGR,
			FCFCAGR:          analysis.FCFCAGR,
			Margins:          analysis.Margins,
			MonthlyPrices:    dataFrameRows(analysis.MonthlyPrices),
			MarketCapHistory: dataFrameRows(analysis.MarketCapHistory),
			Skipped:          analysis.Skipped,
			DroppedRows:      analysis.DroppedRows,
		})
	}
}
