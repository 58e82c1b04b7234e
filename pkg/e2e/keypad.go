// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package e2e

// KeypadLayout is the 4x4 matrix table, indexed [row][column]
var KeypadLayout = [4][4]byte{
	{'1', '2', '3', 'A'},
	{'4', '5', '6', 'B'},
	{'7', '8', '9', 'C'},
	{'*', '0', '#', 'D'},
}

// IsKeypadKey reports whether key appears in KeypadLayout
func IsKeypadKey(key byte) bool {
	for _, row := range KeypadLayout {
		for _, k := range row {
			if k == key {
				return true
			}
		}
	}
	return false
}

// NormalizeKey maps keyboard input onto the keypad table.
// Lower-case a-d are folded to upper case; anything else outside the
// table yields ok=false.
func NormalizeKey(b byte) (byte, bool) {
	if b >= 'a' && b <= 'd' {
		b -= 'a' - 'A'
	}
	if b == '\r' || b == '\n' {
		b = CommitKey
	}
	if !IsKeypadKey(b) {
		return 0, false
	}
	return b, true
}
