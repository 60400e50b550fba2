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

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Pbierley/freeCashFlowTool/common"
	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog/log"
)

const defaultCacheSize = 256

// Cache stores raw provider payloads. It is an explicit object injected into
// each provider rather than process-global state so pipelines stay
// independently testable. The local tier is a bounded LRU; a redis tier with
// TTL expiry may be layered behind it for sharing across processes. Redis
// values are lz4 compressed since statement payloads compress well.
type Cache struct {
	local *lru.Cache
	rdb   *redis.Client
	ttl   time.Duration
}

// NewCache creates a payload cache holding at most `size` entries locally.
// rdb may be nil to run without a shared tier.
func NewCache(size int, rdb *redis.Client, ttl time.Duration) *Cache {
	if size <= 0 {
		size = defaultCacheSize
	}

	local, err := lru.New(size)
	if err != nil {
		log.Panic().Err(err).Int("Size", size).Msg("cannot create lru cache")
	}

	return &Cache{
		local: local,
		rdb:   rdb,
		ttl:   ttl,
	}
}

// CacheKey builds the canonical cache key for a fetch: endpoint, ticker and
// sorted query params so equivalent requests always collide
func CacheKey(endpoint, ticker string, params map[string]string) string {
	parts := make([]string, 0, len(params))
	for k, v := range params {
		parts = append(parts, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(parts)

	return fmt.Sprintf("%s|%s|%s", endpoint, strings.ToUpper(ticker), strings.Join(parts, "&"))
}

// Get returns the cached payload for key, consulting the local tier first
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if v, ok := c.local.Get(key); ok {
		return v.([]byte), true
	}

	if c.rdb == nil {
		return nil, false
	}

	compressed, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("Key", key).Msg("redis get failed")
		}
		return nil, false
	}

	payload, err := common.Decompress(compressed)
	if err != nil {
		log.Warn().Err(err).Str("Key", key).Msg("cannot decompress cached payload")
		return nil, false
	}

	c.local.Add(key, payload)
	return payload, true
}

// Set stores a payload under key in both tiers
func (c *Cache) Set(ctx context.Context, key string, payload []byte) {
	c.local.Add(key, payload)

	if c.rdb == nil {
		return
	}

	compressed, err := common.Compress(payload)
	if err != nil {
		log.Warn().Err(err).Str("Key", key).Msg("cannot compress payload")
		return
	}

	if err := c.rdb.Set(ctx, key, compressed, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("Key", key).Msg("redis set failed")
	}
}
