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

package data

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Pbierley/freeCashFlowTool/dataframe"
	"github.com/Pbierley/freeCashFlowTool/observability/opentelemetry"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var fmpAPI = "https://financialmodelingprep.com/api/v3"

// FMP fetches fundamentals from the Financial Modeling Prep API
type FMP struct {
	apikey string
	cache  *Cache
}

// NewFMP creates a new fundamentals provider sharing the given payload cache
func NewFMP(apikey string, cache *Cache) *FMP {
	return &FMP{
		apikey: apikey,
		cache:  cache,
	}
}

// CompanyProfile is the subset of the provider's profile payload the
// analysis pipeline consumes
type CompanyProfile struct {
	Symbol      string  `json:"symbol"`
	Price       float64 `json:"price"`
	MarketCap   float64 `json:"mktCap"`
	CompanyName string  `json:"companyName"`
	Currency    string  `json:"currency"`
	Sector      string  `json:"sector"`
	Industry    string  `json:"industry"`
}

// fetch retrieves one endpoint payload, consulting the cache first
func (f *FMP) fetch(ctx context.Context, endpoint, ticker string, params map[string]string) ([]byte, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "fmp.fetch")
	defer span.End()

	span.SetAttributes(
		attribute.String("Endpoint", endpoint),
		attribute.String("Ticker", ticker),
	)

	subLog := log.With().Str("Endpoint", endpoint).Str("Ticker", ticker).Logger()

	if f.apikey == "" {
		return nil, ErrMissingToken
	}

	key := CacheKey(endpoint, ticker, params)
	if payload, ok := f.cache.Get(ctx, key); ok {
		subLog.Debug().Msg("fmp payload served from cache")
		return payload, nil
	}

	query := url.Values{}
	for k, v := range params {
		query.Set(k, v)
	}
	query.Set("apikey", f.apikey)

	reqURL := fmt.Sprintf("%s/%s/%s?%s", fmpAPI, endpoint, url.PathEscape(ticker), query.Encode())
	resp, err := http.Get(reqURL)
	if err != nil {
		span.RecordError(err)
		msg := "fmp http request failed"
		span.SetStatus(codes.Error, msg)
		subLog.Error().Err(err).Msg(msg)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg := "fmp returned invalid response code"
		span.SetStatus(codes.Error, msg)
		subLog.Error().Int("HTTPResponseStatusCode", resp.StatusCode).Msg(msg)
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		msg := "could not read fmp body"
		span.SetStatus(codes.Error, msg)
		subLog.Error().Err(err).Msg(msg)
		return nil, err
	}

	f.cache.Set(ctx, key, body)
	return body, nil
}

// Profile returns the company profile for a ticker, including current price
// and reported market capitalization
func (f *FMP) Profile(ctx context.Context, ticker string) (*CompanyProfile, error) {
	body, err := f.fetch(ctx, "profile", ticker, nil)
	if err != nil {
		return nil, err
	}

	profiles := []CompanyProfile{}
	if err := json.Unmarshal(body, &profiles); err != nil {
		log.Error().Err(err).Str("Ticker", ticker).Msg("could not unmarshal profile json")
		return nil, err
	}

	if len(profiles) == 0 {
		return nil, ErrTickerNotFound
	}

	return &profiles[0], nil
}

// statement fetches an annual statement endpoint and normalizes it to a
// date-ascending dataframe; the second return value counts dropped rows
func (f *FMP) statement(ctx context.Context, endpoint, ticker string, limit int) (*dataframe.DataFrame, int, error) {
	body, err := f.fetch(ctx, endpoint, ticker, map[string]string{"limit": strconv.Itoa(limit)})
	if err != nil {
		return nil, 0, err
	}

	rows := []map[string]interface{}{}
	if err := json.Unmarshal(body, &rows); err != nil {
		log.Error().Err(err).Str("Endpoint", endpoint).Str("Ticker", ticker).Msg("could not unmarshal statement json")
		return nil, 0, err
	}

	df, dropped := ToFinancialDataFrame(rows)
	return df, dropped, nil
}

// IncomeStatement returns up to `limit` annual income statement periods
func (f *FMP) IncomeStatement(ctx context.Context, ticker string, limit int) (*dataframe.DataFrame, int, error) {
	return f.statement(ctx, "income-statement", ticker, limit)
}

// CashFlowStatement returns up to `limit` annual cash-flow statement periods
func (f *FMP) CashFlowStatement(ctx context.Context, ticker string, limit int) (*dataframe.DataFrame, int, error) {
	return f.statement(ctx, "cash-flow-statement", ticker, limit)
}
