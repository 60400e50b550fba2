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

package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Pbierley/freeCashFlowTool/common"
	"github.com/Pbierley/freeCashFlowTool/xbrl"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	factsCmd.Flags().IntP("years", "y", xbrl.DefaultYears, "Number of trailing fiscal years to extract")
	viper.BindPFlag("facts.years", factsCmd.Flags().Lookup("years"))

	rootCmd.AddCommand(factsCmd)
}

var factsCmd = &cobra.Command{
	Use:   "facts <ticker>",
	Short: "Resolve and print the normalized SEC fact table for a ticker",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()

		ticker := strings.ToUpper(args[0])
		years := viper.GetInt("facts.years")

		_, edgar := buildProviders()
		facts, err := edgar.CompanyFacts(context.Background(), ticker)
		if err != nil {
			log.Fatal().Err(err).Str("Ticker", ticker).Msg("could not fetch company facts")
		}

		table, err := facts.ExtractFactTable(years)
		if err != nil {
			log.Fatal().Err(err).Str("Ticker", ticker).Msg("fact extraction failed")
		}

		fmt.Printf("%s (%s)\n\n", table.EntityName, ticker)

		names := make([]string, 0, len(table.Metrics))
		for name := range table.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			fmt.Println(name)
			fmt.Println(table.Metrics[name].Table())
		}

		if len(table.Missing) > 0 {
			fmt.Printf("Unavailable metrics: %s\n", strings.Join(table.Missing, ", "))
		}
	},
}
