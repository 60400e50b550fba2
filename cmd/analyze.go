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
	"os"
	"sort"
	"strings"

	"github.com/Pbierley/freeCashFlowTool/common"
	"github.com/Pbierley/freeCashFlowTool/metrics"
	"github.com/Pbierley/freeCashFlowTool/xbrl"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	analyzeCmd.Flags().IntP("years", "y", xbrl.DefaultYears, "Number of trailing fiscal years to analyze")
	viper.BindPFlag("analyze.years", analyzeCmd.Flags().Lookup("years"))

	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <ticker>",
	Short: "Analyze a ticker and print its derived metrics",
	Long:  `Fetch fundamentals, prices and SEC company facts for a ticker and print the derived metric tables`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()

		ticker := strings.ToUpper(args[0])
		years := viper.GetInt("analyze.years")

		mgr, _ := buildProviders()
		analysis, err := mgr.Analyze(context.Background(), ticker, years)
		if err != nil {
			log.Fatal().Err(err).Str("Ticker", ticker).Msg("analysis failed")
		}

		fmt.Printf("%s (%s)\n", analysis.CompanyName, analysis.Ticker)
		fmt.Printf("Price: %.2f  Market Cap: %.0f\n\n", analysis.Price, analysis.MarketCap)

		fmt.Println("Income Statement")
		fmt.Println(analysis.Income.Table())

		fmt.Println("Cash Flow Statement")
		fmt.Println(analysis.Cashflow.Table())

		fmt.Println("Free Cash Flow (SEC company facts)")
		fmt.Println(analysis.FreeCashFlow.Table())

		printCAGR("Revenue CAGR", analysis.RevenueCAGR)
		printCAGR("FCF CAGR", analysis.FCFCAGR)
		printMargins(analysis.Margins)

		if len(analysis.Skipped) > 0 {
			fmt.Println("Skipped derived columns:")
			for _, sk := range analysis.Skipped {
				fmt.Printf("  %s: %s\n", sk.Column, sk.Reason)
			}
		}
	},
}

func printMargins(margins []metrics.MarginSummary) {
	if len(margins) == 0 {
		return
	}

	fmt.Println("Margin Stability")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Margin", "Latest", "Mean", "StdDev"})
	for _, m := range margins {
		table.Append([]string{
			m.Column,
			fmt.Sprintf("%.2f%%", m.Latest),
			fmt.Sprintf("%.2f%%", m.Mean),
			fmt.Sprintf("%.2f", m.StdDev),
		})
	}
	table.SetBorder(false)
	table.Render()
	fmt.Println()
}

func printCAGR(title string, cagr map[string]string) {
	if len(cagr) == 0 {
		return
	}

	windows := make([]string, 0, len(cagr))
	for k := range cagr {
		windows = append(windows, k)
	}
	sort.Slice(windows, func(i, j int) bool {
		return len(windows[i]) < len(windows[j]) || (len(windows[i]) == len(windows[j]) && windows[i] < windows[j])
	})

	fmt.Println(title)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(windows)
	row := make([]string, 0, len(windows))
	for _, w := range windows {
		row = append(row, cagr[w])
	}
	table.Append(row)
	table.SetBorder(false)
	table.Render()
	fmt.Println()
}
