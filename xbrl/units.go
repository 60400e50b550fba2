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

import "sort"

// FilterUnits concatenates the observations of every unit label matching the
// requested class. A nil or empty unit map yields an empty slice. Unit labels
// are visited in sorted order so results are deterministic.
func FilterUnits(units map[string][]Observation, class UnitClass) []Observation {
	if len(units) == 0 {
		return []Observation{}
	}

	labels := make([]string, 0, len(units))
	for label := range units {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	observations := []Observation{}
	for _, label := range labels {
		if class.Matches(label) {
			observations = append(observations, units[label]...)
		}
	}

	return observations
}
