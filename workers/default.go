// SPDX-License-Identifier: MIT

package workers

import (
	"bufio"
	"os"
	"runtime"
	"strings"
	"sync"
)

var (
	defaultMu   sync.Mutex
	defaultPool *Pool
)

// Start installs a process-wide default pool sized to the logical CPU count
// (useLogical) or the physical core count, replacing and closing any previous default.
func Start(useLogical bool, opts ...Option) *Pool {
	size := PhysicalCores()
	if useLogical {
		size = LogicalCores()
	}

	return StartN(size, opts...)
}

// StartN installs a process-wide default pool of the given size.
func StartN(size int, opts ...Option) *Pool {
	p := New(size, opts...)

	defaultMu.Lock()
	prev := defaultPool
	defaultPool = p
	defaultMu.Unlock()

	prev.Close()

	return p
}

// Stop closes and uninstalls the default pool; later calls without a pool run synchronously.
func Stop() {
	defaultMu.Lock()
	prev := defaultPool
	defaultPool = nil
	defaultMu.Unlock()

	prev.Close()
}

// Default returns the installed default pool, or nil when none is running.
func Default() *Pool {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	return defaultPool
}

// LogicalCores returns the number of logical CPUs usable by the process.
func LogicalCores() int { return runtime.NumCPU() }

// PhysicalCores counts distinct (physical id, core id) pairs in /proc/cpuinfo,
// falling back to LogicalCores where that file is unavailable or lacks topology.
func PhysicalCores() int {
	f, err := os.Open("/proc/cpuinfo")
	if err != nil {
		return LogicalCores()
	}
	defer f.Close()

	if n := countCores(bufio.NewScanner(f)); n > 0 {
		return n
	}

	return LogicalCores()
}

// countCores parses cpuinfo records; 0 when no core ids are present.
func countCores(sc *bufio.Scanner) int {
	cores := make(map[[2]string]struct{})
	var phys, core string
	flush := func() {
		if core != "" {
			cores[[2]string{phys, core}] = struct{}{}
		}
		phys, core = "", ""
	}
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		switch strings.TrimSpace(k) {
		case "physical id":
			phys = strings.TrimSpace(v)
		case "core id":
			core = strings.TrimSpace(v)
		}
	}
	flush()

	return len(cores)
}
