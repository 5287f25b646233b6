// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package natsort_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pief/yast-storage-ng/internal/natsort"
)

func TestCompare(t *testing.T) {
	t.Parallel()

	names := []string{"sdc", "nvme1n1", "sdaa", "sda", "nvme0n2", "sdb", "nvme0n1"}

	slices.SortFunc(names, natsort.Compare)

	assert.Equal(t, []string{"nvme0n1", "nvme0n2", "nvme1n1", "sda", "sdb", "sdc", "sdaa"}, names)
}

func TestCompareEdgeCases(t *testing.T) {
	t.Parallel()

	for _, test := range []struct { //nolint:govet
		a, b string

		expected int
	}{
		{"sda", "sda", 0},
		{"sda", "sdb", -1},
		{"sda", "sdaa", -1},
		{"sda1", "sda10", -1},
		{"sda2", "sda10", -1},
		{"md0", "md1", -1},
		{"sda", "sda1", -1},
		{"sda01", "sda1", 1},
		{"1disk", "adisk", -1},
	} {
		assert.Equal(t, test.expected, natsort.Compare(test.a, test.b), "%q vs %q", test.a, test.b)
		assert.Equal(t, -test.expected, natsort.Compare(test.b, test.a), "%q vs %q reversed", test.b, test.a)
	}
}
