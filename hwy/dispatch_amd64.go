// Copyright 2025 go-highway Authors
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

//go:build amd64

package hwy

import "golang.org/x/sys/cpu"

func init() {
	// Check if SIMD is disabled via environment variable
	if NoSimdEnv() {
		setScalarMode()
		applyPinnedWidth()
		return
	}

	detectCPUFeatures()
	applyPinnedWidth()
}

func detectCPUFeatures() {
	switch {
	case cpu.X86.HasAVX512F && cpu.X86.HasAVX512DQ:
		setLevel(DispatchAVX512, 64)
	case cpu.X86.HasAVX2:
		setLevel(DispatchAVX2, 32)
	case cpu.X86.HasSSE2:
		setLevel(DispatchSSE2, 16)
	default:
		setScalarMode()
	}
}

// HasAVX512 reports whether the CPU exposes the AVX-512 foundation and
// doubleword/quadword subsets, which carry the 64-bit lane multiplies.
func HasAVX512() bool {
	return cpu.X86.HasAVX512F && cpu.X86.HasAVX512DQ
}
