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

package dataframe

import (
	"errors"
	"time"
)

// DataFrame stores a table of values organized by date. Vals is column
// major - e.g.,
//
// revenue  netIncome
// 100      40
// 110      45
//
// Vals[0][1] = 110
// Vals[1][0] = 40
//
// Dates must be strictly ascending with no duplicates; missing periods are
// simply absent and never interpolated.
type DataFrame struct {
	Dates    []time.Time
	ColNames []string
	Vals     [][]float64
}

var ErrDateIndexNotAligned = errors.New("date index does not align")
