// SPDX-License-Identifier: MIT

package workers

import (
	"bufio"
	"strings"
)

// CountCoresForTest exposes the cpuinfo parser to workers_test.
func CountCoresForTest(cpuinfo string) int {
	return countCores(bufio.NewScanner(strings.NewReader(cpuinfo)))
}
