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
	"math"
	"time"

	"github.com/Pbierley/freeCashFlowTool/dataframe"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type PingResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"API is alive"`
	Time    string `json:"time" example:"2025-06-19T08:09:10.115924-05:00"`
}

func Ping(c *fiber.Ctx) error {
	var response PingResponse
	now, err := time.Now().MarshalText()
	if err != nil {
		log.Error().Err(err).Msg("error while getting time in ping")
		response = PingResponse{
			Status:  "error",
			Message: err.Error(),
			Time:    string(now),
		}
	} else {
		response = PingResponse{
			Status:  "success",
			Message: "API is alive",
			Time:    string(now),
		}
	}
	return c.JSON(response)
}

// dataFrameRows converts a dataframe to row-oriented JSON-friendly maps.
// NaN and infinite cells become null since JSON has no encoding for them.
func dataFrameRows(df *dataframe.DataFrame) []map[string]interface{} {
	if df == nil {
		return nil
	}

	rows := make([]map[string]interface{}, 0, df.Len())
	for idx, date := range df.Dates {
		row := make(map[string]interface{}, df.ColCount()+1)
		row["date"] = date.Format("2006-01-02")
		for colIdx, name := range df.ColNames {
			v := df.Vals[colIdx][idx]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				row[name] = nil
			} else {
				row[name] = v
			}
		}
		rows = append(rows, row)
	}

	return rows
}
