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
	"strings"

	"github.com/Pbierley/freeCashFlowTool/observability/opentelemetry"
	"github.com/Pbierley/freeCashFlowTool/xbrl"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	secTickersURL = "https://www.sec.gov/files/company_tickers.json"
	secDataAPI    = "https://data.sec.gov"
)

// SECEdgar fetches XBRL company facts and filing metadata from the SEC's
// EDGAR APIs. The SEC requires a descriptive User-Agent identifying the
// caller; requests without one are refused.
type SECEdgar struct {
	userAgent string
	cache     *Cache
}

// NewSECEdgar creates a new EDGAR provider sharing the given payload cache
func NewSECEdgar(userAgent string, cache *Cache) *SECEdgar {
	return &SECEdgar{
		userAgent: userAgent,
		cache:     cache,
	}
}

type tickerEntry struct {
	CIK    int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// Submissions is filing metadata for one company
type Submissions struct {
	CIK     string `json:"cik"`
	Name    string `json:"name"`
	Filings struct {
		Recent struct {
			AccessionNumber []string `json:"accessionNumber"`
			FilingDate      []string `json:"filingDate"`
			Form            []string `json:"form"`
			PrimaryDocument []string `json:"primaryDocument"`
		} `json:"recent"`
	} `json:"filings"`
}

// fetch retrieves an EDGAR URL with the mandatory User-Agent header,
// consulting the cache first
func (s *SECEdgar) fetch(ctx context.Context, cacheKey, reqURL string) ([]byte, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "secedgar.fetch")
	defer span.End()

	span.SetAttributes(attribute.String("Url", reqURL))
	subLog := log.With().Str("Url", reqURL).Logger()

	if s.userAgent == "" {
		return nil, ErrMissingUserAgent
	}

	if payload, ok := s.cache.Get(ctx, cacheKey); ok {
		subLog.Debug().Msg("edgar payload served from cache")
		return payload, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		span.RecordError(err)
		msg := "edgar http request failed"
		span.SetStatus(codes.Error, msg)
		subLog.Error().Err(err).Msg(msg)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg := "edgar returned invalid response code"
		span.SetStatus(codes.Error, msg)
		subLog.Error().Int("HTTPResponseStatusCode", resp.StatusCode).Msg(msg)
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		msg := "could not read edgar body"
		span.SetStatus(codes.Error, msg)
		subLog.Error().Err(err).Msg(msg)
		return nil, err
	}

	s.cache.Set(ctx, cacheKey, body)
	return body, nil
}

// LookupCIK resolves a ticker symbol to its SEC central index key
func (s *SECEdgar) LookupCIK(ctx context.Context, ticker string) (int64, error) {
	body, err := s.fetch(ctx, CacheKey("company-tickers", "all", nil), secTickersURL)
	if err != nil {
		return 0, err
	}

	entries := map[string]tickerEntry{}
	if err := json.Unmarshal(body, &entries); err != nil {
		log.Error().Err(err).Msg("could not unmarshal company tickers json")
		return 0, err
	}

	upper := strings.ToUpper(ticker)
	for _, entry := range entries {
		if strings.ToUpper(entry.Ticker) == upper {
			return entry.CIK, nil
		}
	}

	return 0, ErrTickerNotFound
}

// CompanyFacts fetches and decodes the full XBRL company facts payload for a
// ticker
func (s *SECEdgar) CompanyFacts(ctx context.Context, ticker string) (*xbrl.CompanyFacts, error) {
	cik, err := s.LookupCIK(ctx, ticker)
	if err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/api/xbrl/companyfacts/CIK%010d.json", secDataAPI, cik)
	body, err := s.fetch(ctx, CacheKey("companyfacts", ticker, nil), reqURL)
	if err != nil {
		return nil, err
	}

	facts := &xbrl.CompanyFacts{}
	if err := json.Unmarshal(body, facts); err != nil {
		log.Error().Err(err).Str("Ticker", ticker).Msg("could not unmarshal company facts json")
		return nil, err
	}

	return facts, nil
}

// RecentFilings fetches filing metadata for a ticker
func (s *SECEdgar) RecentFilings(ctx context.Context, ticker string) (*Submissions, error) {
	cik, err := s.LookupCIK(ctx, ticker)
	if err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/submissions/CIK%010d.json", secDataAPI, cik)
	body, err := s.fetch(ctx, CacheKey("submissions", ticker, nil), reqURL)
	if err != nil {
		return nil, err
	}

	subs := &Submissions{}
	if err := json.Unmarshal(body, subs); err != nil {
		log.Error().Err(err).Str("Ticker", ticker).Msg("could not unmarshal submissions json")
		return nil, err
	}

	return subs, nil
}
