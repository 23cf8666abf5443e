package main

// bench.go — scenario runners for the staging buffer benchmark.
//
// Each scenario pairs a producer loop with a consumer loop over one of
// the buffer variants.  Producers are pinned one per core, each owning
// its own buffer (strict SPSC); a single consumer on the next core
// drains all of them round-robin, mirroring how a background drain
// thread services many per-thread buffers through the registry.

import (
	"runtime"
	"sync"
	"time"

	"stagingbench/config"
	"stagingbench/cycles"
	"stagingbench/results"
	"stagingbench/staging"
)

// metrics aggregates one thread's side of a run.
type metrics struct {
	numOps      uint64
	totalCycles uint64
}

func (m *metrics) avgLatencyNs() float64 {
	if m.numOps == 0 {
		return 0
	}
	return cycles.ToNanoseconds(m.totalCycles) / float64(m.numOps)
}

// scenario describes one benchmark row.
type scenario struct {
	name    string
	batched bool // consumer releases whole peeks instead of single records
	verify  bool // digest-check the drained stream
	newBuf  func(id uint32) staging.Buffer
	produce func(iters int, b staging.Buffer)
	consume func(total int, bufs []staging.Buffer, v *verifier)
}

// ───────────────────────────── Producer loops ─────────────────────────────

// doPushes drives the non-blocking variants.  A rejected push retries the
// same record; retry policy is the caller's concern, not the buffer's.
func doPushes(iters int, b staging.Buffer) {
	for i := 0; i < iters; i++ {
		if !b.Push(config.Datum) {
			i--
		}
	}
}

// doPushesBlocking drives the variants whose Push sleeps instead of
// failing.
func doPushesBlocking(iters int, b staging.Buffer) {
	for i := 0; i < iters; i++ {
		b.Push(config.Datum)
	}
}

// doPushesTwoPhase builds each record in place: reserve, fill, publish.
func doPushesTwoPhase(iters int, b staging.Buffer) {
	sep := b.(*staging.Separated)
	n := len(config.Datum)
	for i := 0; i < iters; i++ {
		dst := sep.Reserve(n)
		copy(dst, config.Datum)
		sep.Finish(n)
	}
}

// ───────────────────────────── Consumer loops ─────────────────────────────

// doConsumes polls every buffer for a whole record and releases one at a
// time.  A full round with no work backs off for the idle poll interval.
func doConsumes(total int, bufs []staging.Buffer, v *verifier) {
	n := len(config.Datum)
	consumed := 0
	for consumed < total {
		progressed := false
		for j, b := range bufs {
			data, avail := b.Peek()
			if avail >= n {
				if v != nil {
					v.observe(j, data[:n])
				}
				b.Pop(n)
				consumed++
				progressed = true
			}
		}
		if !progressed {
			time.Sleep(config.PollIntervalNoWork)
		}
	}
}

// doConsumesBatched releases every readable record in one Pop, the way a
// real drain amortizes cursor updates across a burst.
func doConsumesBatched(total int, bufs []staging.Buffer, v *verifier) {
	n := len(config.Datum)
	consumed := 0
	for consumed < total {
		progressed := false
		for j, b := range bufs {
			data, avail := b.Peek()
			if avail >= n {
				items := avail / n
				if v != nil {
					v.observe(j, data[:items*n])
				}
				b.Pop(items * n)
				consumed += items
				progressed = true
			}
		}
		if !progressed {
			time.Sleep(config.PollIntervalNoWork)
		}
	}
}

// doConsumesBlocking drives the variants whose Pop sleeps.  Per-buffer
// quotas keep one finished producer from starving the others' drains.
func doConsumesBlocking(total int, bufs []staging.Buffer, v *verifier) {
	n := len(config.Datum)
	perBuffer := total / len(bufs)
	counts := make([]int, len(bufs))

	consumed := 0
	for consumed < total {
		for j, b := range bufs {
			if counts[j] >= perBuffer {
				continue
			}
			b.Pop(n)
			counts[j]++
			consumed++
		}
	}
}

// ───────────────────────────── Scenario driver ────────────────────────────

// runScenario builds one buffer per producer thread, runs the push and
// drain loops against a start barrier, and reports per-op latencies.
func runScenario(sc scenario) results.Run {
	threads := config.BenchmarkThreads
	perThread := config.Iterations / threads
	total := threads * perThread

	bufs := make([]staging.Buffer, threads)
	var reg staging.Registry
	for i := range bufs {
		bufs[i] = sc.newBuf(uint32(i))
		if sep, ok := bufs[i].(*staging.Separated); ok {
			reg.Register(sep)
		}
	}

	var ver *verifier
	if sc.verify {
		ver = newVerifier(threads, perThread)
	}

	var ready, done sync.WaitGroup
	start := make(chan struct{})
	push := make([]metrics, threads)

	for i := 0; i < threads; i++ {
		ready.Add(1)
		done.Add(1)
		go func(i int) {
			defer done.Done()
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
			staging.PinCurrentThread(i)

			ready.Done()
			<-start

			t0 := cycles.Rdtsc()
			sc.produce(perThread, bufs[i])
			push[i] = metrics{
				numOps:      uint64(perThread),
				totalCycles: cycles.Rdtsc() - t0,
			}

			// No further writes from this thread; the consumer side may
			// reclaim the buffer once it has drained everything.
			if sep, ok := bufs[i].(*staging.Separated); ok {
				sep.Retire()
			}
		}(i)
	}

	// The consumer runs here, pinned to the core after the producers.
	runtime.LockOSThread()
	staging.PinCurrentThread(threads)
	ready.Wait()
	close(start)

	t0 := cycles.Rdtsc()
	sc.consume(total, bufs, ver)
	consume := metrics{numOps: uint64(total), totalCycles: cycles.Rdtsc() - t0}

	done.Wait()
	runtime.UnlockOSThread()

	if reg.Len() > 0 {
		if reaped := reg.Reap(); reaped != threads {
			dropError("registry reap left retired buffers behind", nil)
		}
	}

	if ver != nil {
		if err := ver.check(); err != nil {
			dropError("integrity", err)
		}
	}

	pushTotals := metrics{}
	for i := range push {
		pushTotals.numOps += push[i].numOps
		pushTotals.totalCycles += push[i].totalCycles
	}

	return results.Run{
		Strategy:     sc.name,
		Batched:      sc.batched,
		Threads:      threads,
		BufferBytes:  config.StagingBufferSize,
		Ops:          uint64(total),
		PushAvgNs:    pushTotals.avgLatencyNs() / float64(threads),
		ConsumeAvgNs: consume.avgLatencyNs(),
	}
}
