// Copyright 2025 The luxfi/reactor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reactor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/luxfi/reactor/hal"
)

// parseMask parses a hexadecimal CPU mask (optionally "0x"-prefixed),
// clears any bit whose CPU is not enabled by the HAL, and rejects invalid
// trailing characters or out-of-range values.
func parseMask(s string, top *hal.Topology) (uint64, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty mask", ErrMaskInvalid)
	}
	mask, err := strconv.ParseUint(trimmed, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrMaskInvalid, s, err)
	}

	for bit := 0; bit < 64; bit++ {
		if mask&(1<<uint(bit)) == 0 {
			continue
		}
		if !top.IsEnabled(uint32(bit)) {
			mask &^= 1 << uint(bit)
		}
	}
	return mask, nil
}

// selectedCores returns the ascending list of CPUs set in mask.
func selectedCores(mask uint64) []uint32 {
	var out []uint32
	for bit := 0; bit < 64; bit++ {
		if mask&(1<<uint(bit)) != 0 {
			out = append(out, uint32(bit))
		}
	}
	return out
}
