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
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// Logical metric names in the company fact table
const (
	MetricCFO    = "cfo"
	MetricCapEx  = "capex"
	MetricSBC    = "sbc"
	MetricEPS    = "eps"
	MetricShares = "shares"
)

// MetricSpec describes how to locate observations for one logical metric: an
// ordered list of candidate concept tags tried first, then a keyword scan
// over every available concept name.
type MetricSpec struct {
	Name       string
	Candidates []string
	Keywords   []string
	Unit       UnitClass
}

// DefaultSpecs covers the fixed metric set extracted from SEC company facts.
// Candidate tags are either fully qualified ("taxonomy/ConceptName") or bare
// concept names searched in both dei and us-gaap.
var DefaultSpecs = map[string]MetricSpec{
	MetricCFO: {
		Name: MetricCFO,
		Candidates: []string{
			"us-gaap/NetCashProvidedByUsedInOperatingActivities",
			"us-gaap/NetCashProvidedByUsedInOperatingActivitiesContinuingOperations",
		},
		Keywords: []string{"netcashprovided", "operatingactivities"},
		Unit:     UnitCurrency,
	},
	MetricCapEx: {
		Name: MetricCapEx,
		Candidates: []string{
			"us-gaap/PaymentsToAcquirePropertyPlantAndEquipment",
			"us-gaap/PaymentsToAcquireProductiveAssets",
		},
		Keywords: []string{"paymentstoacquire", "property"},
		Unit:     UnitCurrency,
	},
	MetricSBC: {
		Name: MetricSBC,
		Candidates: []string{
			"us-gaap/ShareBasedCompensation",
			"us-gaap/AllocatedShareBasedCompensationExpense",
		},
		Keywords: []string{"sharebasedcompensation"},
		Unit:     UnitCurrency,
	},
	MetricEPS: {
		Name: MetricEPS,
		Candidates: []string{
			"us-gaap/EarningsPerShareBasic",
			"us-gaap/EarningsPerShareDiluted",
		},
		Keywords: []string{"earningspershare"},
		Unit:     UnitCurrency,
	},
	MetricShares: {
		Name: MetricShares,
		Candidates: []string{
			// Commonly found in dei or us-gaap; searched in both groups
			"EntityCommonStockSharesOutstanding",
			"CommonStockSharesOutstanding",
			"WeightedAverageNumberOfSharesOutstandingBasic",
		},
		Keywords: []string{"shares", "outstanding"},
		Unit:     UnitShares,
	},
}

// NoMatchingFactError reports that neither the candidate tags nor the
// keyword scan yielded any unit-filtered observation for a metric. It is
// fatal to every computation depending on that metric and always propagates.
type NoMatchingFactError struct {
	Metric     string
	Candidates []string
	Keywords   []string
}

func (e *NoMatchingFactError) Error() string {
	return fmt.Sprintf("no matching fact for metric %q (tried tags: %s; keywords: %s)",
		e.Metric, strings.Join(e.Candidates, ", "), strings.Join(e.Keywords, ", "))
}

// searchTaxonomies is the fixed order in which concept groups are consulted
// for unqualified tags and keyword scans
var searchTaxonomies = []string{TaxonomyDEI, TaxonomyGAAP}

// observationsForTag returns unit-filtered observations for a candidate tag.
// Qualified tags ("taxonomy/Name") address exactly one concept group;
// unqualified tags are looked up in dei then us-gaap.
func (cf *CompanyFacts) observationsForTag(tag string, unit UnitClass) []Observation {
	if taxonomy, name, ok := strings.Cut(tag, "/"); ok {
		concept, ok := cf.Facts[taxonomy][name]
		if !ok {
			return nil
		}
		return FilterUnits(concept.Units, unit)
	}

	observations := []Observation{}
	for _, taxonomy := range searchTaxonomies {
		if concept, ok := cf.Facts[taxonomy][tag]; ok {
			observations = append(observations, FilterUnits(concept.Units, unit)...)
		}
	}
	return observations
}

// conceptNames lists every concept name available for the company in the
// searched taxonomies, sorted within each taxonomy for a stable scan order
func (cf *CompanyFacts) conceptNames() []string {
	names := []string{}
	for _, taxonomy := range searchTaxonomies {
		group := make([]string, 0, len(cf.Facts[taxonomy]))
		for name := range cf.Facts[taxonomy] {
			group = append(group, taxonomy+"/"+name)
		}
		sort.Strings(group)
		names = append(names, group...)
	}
	return names
}

// matchesAllKeywords reports whether name contains every keyword,
// case-insensitive and order-independent
func matchesAllKeywords(name string, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}
	lower := strings.ToLower(name)
	for _, kw := range keywords {
		if !strings.Contains(lower, strings.ToLower(kw)) {
			return false
		}
	}
	return true
}

// Resolve locates observations for a logical metric. Each candidate tag is
// tried in order and the first yielding at least one unit-filtered
// observation wins. When no candidate yields data, every concept name
// available for the company is scanned and the first keyword-matched concept
// with a non-empty result is used. Failing both, a *NoMatchingFactError is
// returned; callers must propagate it since a missing core metric makes all
// derived metrics for the company unreliable.
func (cf *CompanyFacts) Resolve(spec MetricSpec) ([]Observation, error) {
	for _, tag := range spec.Candidates {
		if obs := cf.observationsForTag(tag, spec.Unit); len(obs) > 0 {
			return obs, nil
		}
	}

	subLog := log.With().Str("Metric", spec.Name).Strs("Candidates", spec.Candidates).Logger()
	subLog.Debug().Msg("no candidate tag matched; falling back to keyword scan")

	for _, qualified := range cf.conceptNames() {
		_, name, _ := strings.Cut(qualified, "/")
		if !matchesAllKeywords(name, spec.Keywords) {
			continue
		}
		if obs := cf.observationsForTag(qualified, spec.Unit); len(obs) > 0 {
			subLog.Info().Str("Concept", qualified).Msg("resolved metric via keyword scan")
			return obs, nil
		}
	}

	return nil, &NoMatchingFactError{
		Metric:     spec.Name,
		Candidates: spec.Candidates,
		Keywords:   spec.Keywords,
	}
}
