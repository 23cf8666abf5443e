// main.go — staging buffer benchmark driver.
//
// Measures the cost of handing variable-length records from producing
// threads to a draining thread through each staging buffer variant.
// Phased orchestration: configuration and header first, then the
// scenario matrix with the garbage collector parked so collection pauses
// never land inside a measurement, then persistence of the results.

package main

import (
	"fmt"
	"os"
	"runtime"
	rtdebug "runtime/debug"

	"stagingbench/config"
	"stagingbench/results"
	"stagingbench/staging"
)

func scenarios() []scenario {
	size := config.StagingBufferSize
	datumLen := len(config.Datum)

	return []scenario{
		{
			name:    "Basic",
			verify:  true,
			newBuf:  func(id uint32) staging.Buffer { return staging.NewBasic(id, size) },
			produce: doPushes,
			consume: doConsumes,
		},
		{
			name:    "SlotQueue",
			newBuf:  func(id uint32) staging.Buffer { return staging.NewSlotQueue(id, size, datumLen) },
			produce: doPushesBlocking,
			consume: doConsumesBlocking,
		},
		{
			name:    "SignalPoll",
			newBuf:  func(id uint32) staging.Buffer { return staging.NewSignalPoll(id, size) },
			produce: doPushesBlocking,
			consume: doConsumesBlocking,
		},
		{
			name:    "SpinLock",
			verify:  true,
			newBuf:  func(id uint32) staging.Buffer { return staging.NewSpinLock(id, size) },
			produce: doPushes,
			consume: doConsumes,
		},
		{
			name:    "Separated",
			verify:  true,
			newBuf:  func(id uint32) staging.Buffer { return staging.NewSeparated(id, size) },
			produce: doPushesTwoPhase,
			consume: doConsumes,
		},
		{
			name:    "Separated",
			batched: true,
			verify:  true,
			newBuf:  func(id uint32) staging.Buffer { return staging.NewSeparated(id, size) },
			produce: doPushesTwoPhase,
			consume: doConsumesBatched,
		},
	}
}

func main() {
	if err := config.Load(configPath); err != nil {
		dropError("config", err)
		os.Exit(1)
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	threads := config.BenchmarkThreads
	total := threads * (config.Iterations / threads)

	fmt.Printf("# Benchmarks the staging buffer variants.\n"+
		"# Producer threads push a fixed-size datum into per-thread buffers while a\n"+
		"# separate thread drains them; average per-operation time is reported.\n"+
		"#\n"+
		"# - Configuration -\n"+
		"# Number of push operations: %.2f KOps\n"+
		"# Number of threads: %d\n"+
		"# Datum: %q\n"+
		"# Datum size: %d Bytes\n"+
		"# Staging Buffer Size: %.3f KB\n"+
		"# Benchmark machine hostname: %s\n\n",
		float64(total)/1e3,
		threads,
		config.Datum[:len(config.Datum)-1],
		len(config.Datum),
		float64(config.StagingBufferSize)/1e3,
		hostname)

	fmt.Printf("# %-18s %8s %10s %15s %15s\n",
		"Condition", "Batched", "Num Ops", "Consume (ns)", "Push Avg (ns)")

	// Park the collector for the measurement phase; trim the heap between
	// scenarios instead.
	rtdebug.SetGCPercent(-1)

	var runs []results.Run
	for _, sc := range scenarios() {
		run := runScenario(sc)
		run.Hostname = hostname
		runs = append(runs, run)

		fmt.Printf("%-20s %8t %10d %15.2f %15.2f\n",
			run.Strategy, run.Batched, run.Ops, run.ConsumeAvgNs, run.PushAvgNs)

		runtime.GC()
	}

	rtdebug.SetGCPercent(100)

	persist(runs)
}

// persist records the runs in the local results database and emits the
// JSON summary on stdout.  Persistence failures are reported but do not
// fail the benchmark; the measurements were already printed.
func persist(runs []results.Run) {
	store, err := results.Open(resultsDBPath)
	if err != nil {
		dropError("results open", err)
		return
	}
	defer store.Close()

	for i := range runs {
		if _, err := store.Record(&runs[i]); err != nil {
			dropError("results record", err)
		}
	}

	out, err := results.ExportJSON(runs)
	if err != nil {
		dropError("results export", err)
		return
	}
	fmt.Printf("\n%s\n", out)
}
