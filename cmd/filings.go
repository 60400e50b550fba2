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
	"os"
	"strings"

	"github.com/Pbierley/freeCashFlowTool/common"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	filingsCmd.Flags().StringP("form", "f", "", "Only show filings of this form type (e.g. 10-K)")
	viper.BindPFlag("filings.form", filingsCmd.Flags().Lookup("form"))

	filingsCmd.Flags().IntP("limit", "n", 25, "Maximum number of filings to show")
	viper.BindPFlag("filings.limit", filingsCmd.Flags().Lookup("limit"))

	rootCmd.AddCommand(filingsCmd)
}

var filingsCmd = &cobra.Command{
	Use:   "filings <ticker>",
	Short: "List recent SEC filings for a ticker",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()

		ticker := strings.ToUpper(args[0])
		form := strings.ToUpper(viper.GetString("filings.form"))
		limit := viper.GetInt("filings.limit")

		_, edgar := buildProviders()
		subs, err := edgar.RecentFilings(context.Background(), ticker)
		if err != nil {
			log.Fatal().Err(err).Str("Ticker", ticker).Msg("could not fetch filings")
		}

		recent := subs.Filings.Recent
		count := len(recent.AccessionNumber)
		for _, arr := range [][]string{recent.FilingDate, recent.Form, recent.PrimaryDocument} {
			if len(arr) < count {
				count = len(arr)
			}
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Filed", "Form", "Accession", "Document"})
		shown := 0
		for idx := 0; idx < count && shown < limit; idx++ {
			if form != "" && recent.Form[idx] != form {
				continue
			}
			table.Append([]string{
				recent.FilingDate[idx],
				recent.Form[idx],
				recent.AccessionNumber[idx],
				recent.PrimaryDocument[idx],
			})
			shown++
		}
		table.SetBorder(false)
		table.Render()
	},
}
