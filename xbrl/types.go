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

package xbrl

import (
	"strings"
	"time"
)

const (
	TaxonomyGAAP = "us-gaap"
	TaxonomyDEI  = "dei"
)

// Fiscal period codes as reported in SEC company facts
const (
	PeriodFY = "FY"
	PeriodQ1 = "Q1"
	PeriodQ2 = "Q2"
	PeriodQ3 = "Q3"
	PeriodQ4 = "Q4"
)

// Observation is a single reported value for one concept. Multiple
// observations may exist for the same concept and period (restatements).
type Observation struct {
	Val   float64 `json:"val"`
	FY    int     `json:"fy"`
	FP    string  `json:"fp"`
	End   string  `json:"end"`
	Filed string  `json:"filed"`
	Form  string  `json:"form"`
	Frame string  `json:"frame,omitempty"`
}

// EndDate parses the observation period-end date
func (o *Observation) EndDate() (time.Time, error) {
	return time.Parse("2006-01-02", o.End)
}

// IsQuarterly reports whether the observation covers a fiscal quarter
func (o *Observation) IsQuarterly() bool {
	switch o.FP {
	case PeriodQ1, PeriodQ2, PeriodQ3, PeriodQ4:
		return true
	}
	return false
}

// Concept holds all reported observations for one XBRL concept, grouped by
// unit label (e.g. "USD", "shares", "USD/shares")
type Concept struct {
	Label       string                   `json:"label"`
	Description string                   `json:"description"`
	Units       map[string][]Observation `json:"units"`
}

// CompanyFacts is the decoded SEC companyfacts payload for one company
type CompanyFacts struct {
	CIK        int64                         `json:"cik"`
	EntityName string                        `json:"entityName"`
	Facts      map[string]map[string]Concept `json:"facts"`
}

// UnitClass selects which unit labels are acceptable for a metric
type UnitClass int

const (
	UnitCurrency UnitClass = iota
	UnitShares
)

// Matches reports whether the unit label belongs to the class. Currency
// accepts any USD-denominated label ('USD', 'iso4217:USD', ...); non-USD
// currencies are dropped, no conversion is performed.
func (u UnitClass) Matches(unitLabel string) bool {
	switch u {
	case UnitCurrency:
		return strings.Contains(strings.ToUpper(unitLabel), "USD")
	case UnitShares:
		return strings.Contains(strings.ToLower(unitLabel), "shares")
	}
	return false
}

func (u UnitClass) String() string {
	switch u {
	case UnitCurrency:
		return "USD"
	case UnitShares:
		return "shares"
	}
	return "unknown"
}
