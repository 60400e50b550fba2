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
	"os/signal"

	"github.com/Pbierley/freeCashFlowTool/common"
	"github.com/Pbierley/freeCashFlowTool/middleware"
	"github.com/Pbierley/freeCashFlowTool/observability/opentelemetry"
	"github.com/Pbierley/freeCashFlowTool/router"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	viper.BindEnv("server.port", "PORT")
	serveCmd.Flags().IntP("port", "p", 3000, "Port to run application server on")
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))

	viper.BindEnv("otlp.endpoint", "OTLP_ENDPOINT")
	serveCmd.Flags().String("otlp-endpoint", "", "OTLP trace collector endpoint, if blank tracing is disabled")
	viper.BindPFlag("otlp.endpoint", serveCmd.Flags().Lookup("otlp-endpoint"))

	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the fcftool API server",
	Long:  `Run HTTP server that exposes the analysis and fact-resolution endpoints`,
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()
		log.Info().Msg("initialized logging")

		if viper.GetString("otlp.endpoint") != "" {
			shutdown, err := opentelemetry.Setup()
			if err != nil {
				log.Panic().Err(err).Msg("could not initialize tracing")
			}
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					log.Error().Err(err).Msg("error shutting down trace provider")
				}
			}()
		}

		mgr, edgar := buildProviders()

		// Create new Fiber instance
		app := fiber.New()

		// shutdown cleanly on interrupt
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		go func() {
			sig := <-c // block until signal is read
			fmt.Printf("Received signal: '%s'; shutting down...\n", sig.String())
			if err := app.Shutdown(); err != nil {
				log.Fatal().Err(err).Msg("error shutting down server")
			}
		}()

		// Configure CORS
		corsConfig := cors.Config{
			AllowOrigins: "*",
			AllowHeaders: "*",
			AllowMethods: "GET,HEAD",
		}
		app.Use(cors.New(corsConfig))

		// Setup logging middleware
		app.Use(middleware.NewLogger())

		// Setup routes
		router.SetupRoutes(app, mgr, edgar)

		if err := app.Listen(fmt.Sprintf(":%d", viper.GetInt("server.port"))); err != nil {
			log.Fatal().Err(err).Msg("server exited")
		}
	},
}
