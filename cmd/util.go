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
	"github.com/Pbierley/freeCashFlowTool/data"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// buildProviders constructs the payload cache and the three data providers
// from viper configuration
func buildProviders() (*data.Manager, *data.SECEdgar) {
	var rdb *redis.Client
	if redisURL := viper.GetString("cache.redis_url"); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Panic().Err(err).Str("RedisURL", redisURL).Msg("invalid redis url")
		}
		rdb = redis.NewClient(opts)
	}

	cache := data.NewCache(viper.GetInt("cache.size"), rdb, viper.GetDuration("cache.ttl"))

	fmp := data.NewFMP(viper.GetString("fmp.token"), cache)
	polygon := data.NewPolygon(viper.GetString("polygon.token"), cache)
	edgar := data.NewSECEdgar(viper.GetString("sec.user_agent"), cache)

	return data.NewManager(fmp, polygon, edgar), edgar
}
