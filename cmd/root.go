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
	"fmt"
	"os"

	"github.com/Pbierley/freeCashFlowTool/common"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Provider credentials
	viper.BindEnv("fmp.token", "FMP_TOKEN")
	rootCmd.PersistentFlags().String("fmp-token", "", "Financial Modeling Prep API token")
	viper.BindPFlag("fmp.token", rootCmd.PersistentFlags().Lookup("fmp-token"))

	viper.BindEnv("polygon.token", "POLYGON_TOKEN")
	rootCmd.PersistentFlags().String("polygon-token", "", "polygon.io API token")
	viper.BindPFlag("polygon.token", rootCmd.PersistentFlags().Lookup("polygon-token"))

	viper.BindEnv("sec.user_agent", "SEC_USER_AGENT")
	rootCmd.PersistentFlags().String("sec-user-agent", "", "User-Agent sent to SEC EDGAR (name and email, required by the SEC)")
	viper.BindPFlag("sec.user_agent", rootCmd.PersistentFlags().Lookup("sec-user-agent"))

	// Cache
	viper.BindEnv("cache.redis_url", "REDIS_URL")
	rootCmd.PersistentFlags().String("cache-redis-url", "", "redis server for the shared payload cache, if blank cache locally only")
	viper.BindPFlag("cache.redis_url", rootCmd.PersistentFlags().Lookup("cache-redis-url"))

	rootCmd.PersistentFlags().Int("cache-size", 256, "Maximum number of payloads held in the local cache")
	viper.BindPFlag("cache.size", rootCmd.PersistentFlags().Lookup("cache-size"))

	rootCmd.PersistentFlags().Duration("cache-ttl", 0, "Expiry for redis cached payloads, 0 keeps them forever")
	viper.BindPFlag("cache.ttl", rootCmd.PersistentFlags().Lookup("cache-ttl"))

	// Logging configuration
	viper.BindEnv("log.level", "FCF_LOG_LEVEL")
	rootCmd.PersistentFlags().String("log-level", "warning", "Logging level")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.BindEnv("log.report_caller", "FCF_LOG_REPORT_CALLER")
	rootCmd.PersistentFlags().Bool("log-report-caller", false, "Log function name that called log statement")
	viper.BindPFlag("log.report_caller", rootCmd.PersistentFlags().Lookup("log-report-caller"))

	viper.BindEnv("log.output", "FCF_LOG_OUTPUT")
	rootCmd.PersistentFlags().String("log-output", "stdout", "Write logs to specified output one of: file path, `stdout`, or `stderr`")
	viper.BindPFlag("log.output", rootCmd.PersistentFlags().Lookup("log-output"))

	rootCmd.PersistentFlags().Bool("log-pretty", false, "Print logs in human readable format")
	viper.BindPFlag("log.pretty", rootCmd.PersistentFlags().Lookup("log-pretty"))
}

var rootCmd = &cobra.Command{
	Use:     "fcftool",
	Version: common.CurrentVersion.String(),
	Short:   "fcftool derives free-cash-flow metrics from SEC filings and fundamentals APIs",
	Long: `fcftool resolves XBRL company facts and statement data into
normalized per-period series and derives growth, margin and free-cash-flow
metrics for a ticker.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
