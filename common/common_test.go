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

package common_test

import (
	"strings"

	"github.com/Pbierley/freeCashFlowTool/common"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Compress", func() {
	It("round-trips a payload", func() {
		payload := []byte(strings.Repeat(`{"ticker": "AAPL", "price": 10.5}`, 100))

		compressed, err := common.Compress(payload)
		Expect(err).To(BeNil())
		Expect(len(compressed)).To(BeNumerically("<", len(payload)))

		decompressed, err := common.Decompress(compressed)
		Expect(err).To(BeNil())
		Expect(decompressed).To(Equal(payload))
	})

	It("round-trips an empty payload", func() {
		compressed, err := common.Compress([]byte{})
		Expect(err).To(BeNil())

		decompressed, err := common.Decompress(compressed)
		Expect(err).To(BeNil())
		Expect(decompressed).To(HaveLen(0))
	})
})

var _ = Describe("Version", func() {
	It("formats the version", func() {
		v := common.Version{Major: 1, Minor: 2, Patch: 3}
		Expect(v.String()).To(Equal("1.2.3"))
	})

	It("appends the suffix when present", func() {
		v := common.Version{Major: 1, Minor: 2, Patch: 3, Suffix: "rc1"}
		Expect(v.String()).To(Equal("1.2.3-rc1"))
	})
})

var _ = Describe("GetTimezone", func() {
	It("returns the exchange timezone", func() {
		Expect(common.GetTimezone().String()).To(Equal("America/New_York"))
	})
})
