// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package examples

import (
	"github.com/ethereum/go-ethereum/core/vm"
)

// echoCodeLength is the size of the runtime code of echo contracts.
const echoCodeLength = 0x400

// GenerateEchoCode produces code returning the first word of its call
// arguments. The code jumps over a section filled with the given filler. If
// truncate is set, only the lowest byte of the argument is returned.
func GenerateEchoCode(filler []byte, truncate bool) []byte {
	initCode := []byte{
		// Parse the input parameter.
		byte(vm.PUSH1), 4,
		byte(vm.CALLDATALOAD),
		// Store result (input) in memory[0].
		byte(vm.PUSH1), 0,
		byte(vm.MSTORE),
		// Jump over filler code (destination is a placeholder).
		byte(vm.PUSH2), 0xFF, 0xFF,
		byte(vm.JUMP),
	}

	endingCode := []byte{
		// Jumpdest for jumping over filler code.
		byte(vm.JUMPDEST),
	}
	if truncate {
		endingCode = append(endingCode,
			// Mask out everything but the last byte.
			byte(vm.PUSH1), 0,
			byte(vm.MLOAD),
			byte(vm.PUSH1), 255,
			byte(vm.AND),
			byte(vm.PUSH1), 0,
			byte(vm.MSTORE),
		)
	}
	endingCode = append(endingCode,
		// Return the result from memory[0].
		byte(vm.PUSH1), 32,
		byte(vm.PUSH1), 0,
		byte(vm.RETURN),
	)

	maxFillerCodeLength := echoCodeLength - len(initCode) - len(endingCode)
	fillerCode := []byte{}
	for i := 0; i < maxFillerCodeLength/len(filler); i++ {
		fillerCode = append(fillerCode, filler...)
	}

	// Fill placeholder destination for jumping over filler code.
	jmpdestPos := len(initCode) + len(fillerCode)
	initCode[7] = byte(jmpdestPos >> 8)
	initCode[8] = byte(jmpdestPos)

	code := append(initCode, fillerCode...)
	code = append(code, endingCode...)
	return code
}

const echoABI = `[{"type":"function","name":"echo","stateMutability":"pure","inputs":[{"name":"x","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]}]`

// GetEchoExample provides two echo contracts differing only in their
// unreachable filler section.
func GetEchoExample() Example {
	return exampleSpec{
		Name:        "echo",
		Equivalent:  true,
		abi:         echoABI,
		original:    GenerateEchoCode([]byte{byte(vm.JUMPDEST)}, false),
		transformed: GenerateEchoCode([]byte{byte(vm.PUSH1), 0}, false),
		reference:   echo,
	}.build()
}

// GetTruncatedEchoExample provides an echo contract and a faulty variant
// returning only the lowest byte of its argument.
func GetTruncatedEchoExample() Example {
	return exampleSpec{
		Name:        "echo_truncated",
		Equivalent:  false,
		abi:         echoABI,
		original:    GenerateEchoCode([]byte{byte(vm.STOP)}, false),
		transformed: GenerateEchoCode([]byte{byte(vm.STOP)}, true),
		reference:   echo,
	}.build()
}

func echo(x int) int {
	return x
}
