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

import "errors"

var (
	ErrInvalidStatus    = errors.New("HTTP request returned invalid status code")
	ErrTickerNotFound   = errors.New("ticker not found")
	ErrNoData           = errors.New("no data returned")
	ErrMissingUserAgent = errors.New("SEC requests require a user agent")
	ErrMissingToken     = errors.New("provider API token not set")
)
