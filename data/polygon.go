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
	"time"

	"github.com/Pbierley/freeCashFlowTool/dataframe"
	"github.com/Pbierley/freeCashFlowTool/observability/opentelemetry"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var polygonAPI = "https://api.polygon.io"

// Polygon fetches daily price aggregates from the polygon.io market-data API
type Polygon struct {
	apikey string
	cache  *Cache
}

// NewPolygon creates a new market-data provider sharing the given payload cache
func NewPolygon(apikey string, cache *Cache) *Polygon {
	return &Polygon{
		apikey: apikey,
		cache:  cache,
	}
}

type polygonAggsResponse struct {
	Ticker       string     `json:"ticker"`
	ResultsCount int        `json:"resultsCount"`
	Results      []PriceBar `json:"results"`
	Status       string     `json:"status"`
}

// DailyBars returns daily OHLCV bars for the requested range as a
// date-ascending dataframe
func (p *Polygon) DailyBars(ctx context.Context, ticker string, begin, end time.Time) (*dataframe.DataFrame, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "polygon.DailyBars")
	defer span.End()

	span.SetAttributes(attribute.String("Ticker", ticker))

	subLog := log.With().Str("Ticker", ticker).Time("Begin", begin).Time("End", end).Logger()

	if p.apikey == "" {
		return nil, ErrMissingToken
	}

	params := map[string]string{
		"from": begin.Format("2006-01-02"),
		"to":   end.Format("2006-01-02"),
	}

	key := CacheKey("aggs-daily", ticker, params)
	body, ok := p.cache.Get(ctx, key)
	if !ok {
		reqURL := fmt.Sprintf("%s/v2/aggs/ticker/%s/range/1/day/%s/%s?adjusted=true&sort=asc&apiKey=%s",
			polygonAPI, ticker, params["from"], params["to"], p.apikey)

		resp, err := http.Get(reqURL)
		if err != nil {
			span.RecordError(err)
			msg := "polygon http request failed"
			span.SetStatus(codes.Error, msg)
			subLog.Error().Err(err).Msg(msg)
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			msg := "polygon returned invalid response code"
			span.SetStatus(codes.Error, msg)
			subLog.Error().Int("HTTPResponseStatusCode", resp.StatusCode).Msg(msg)
			return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, resp.StatusCode)
		}

		if body, err = io.ReadAll(resp.Body); err != nil {
			span.RecordError(err)
			msg := "could not read polygon body"
			span.SetStatus(codes.Error, msg)
			subLog.Error().Err(err).Msg(msg)
			return nil, err
		}

		p.cache.Set(ctx, key, body)
	}

	aggs := polygonAggsResponse{}
	if err := json.Unmarshal(body, &aggs); err != nil {
		subLog.Error().Err(err).Msg("could not unmarshal polygon json")
		return nil, err
	}

	if len(aggs.Results) == 0 {
		subLog.Warn().Str("Status", aggs.Status).Msg("polygon returned no bars")
		return nil, ErrNoData
	}

	return ToPriceDataFrame(aggs.Results), nil
}

// MonthlyClose returns month-end closing prices over the requested range
func (p *Polygon) MonthlyClose(ctx context.Context, ticker string, begin, end time.Time) (*dataframe.DataFrame, error) {
	daily, err := p.DailyBars(ctx, ticker, begin, end)
	if err != nil {
		return nil, err
	}

	return daily.ResampleMonthly(), nil
}
