// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package natsort compares device names treating digit runs as numbers.
package natsort

// Compare orders two names by alternating text/number runs.
//
// Numeric runs are compared by value, so "sda" < "sdb" < "sdaa" and
// "nvme0n1" < "nvme0n2" < "nvme1n1". Ties on value (leading zeros) fall
// back to the shorter run first, then bytewise comparison.
func Compare(a, b string) int {
	for len(a) > 0 && len(b) > 0 {
		aRun, aNumeric, aRest := nextRun(a)
		bRun, bNumeric, bRest := nextRun(b)

		var c int

		switch {
		case aNumeric && bNumeric:
			c = compareNumeric(aRun, bRun)
		case aNumeric:
			// numbers sort before text
			c = -1
		case bNumeric:
			c = 1
		default:
			c = compareBytes(aRun, bRun)
		}

		if c != 0 {
			return c
		}

		a, b = aRest, bRest
	}

	switch {
	case len(a) > 0:
		return 1
	case len(b) > 0:
		return -1
	default:
		return 0
	}
}

func nextRun(s string) (run string, numeric bool, rest string) {
	numeric = isDigit(s[0])

	i := 1
	for i < len(s) && isDigit(s[i]) == numeric {
		i++
	}

	return s[:i], numeric, s[i:]
}

func compareNumeric(a, b string) int {
	ta := trimLeadingZeros(a)
	tb := trimLeadingZeros(b)

	if len(ta) != len(tb) {
		if len(ta) < len(tb) {
			return -1
		}

		return 1
	}

	if c := compareBytes(ta, tb); c != 0 {
		return c
	}

	// equal values, more leading zeros sorts later
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}

		return 1
	}

	return 0
}

func trimLeadingZeros(s string) string {
	for len(s) > 1 && s[0] == '0' {
		s = s[1:]
	}

	return s
}

func compareBytes(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
