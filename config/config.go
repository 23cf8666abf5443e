// config.go — process-wide tunables for the staging buffers and the
// benchmark harness.
//
// Everything here is set once, before any buffer is constructed, and is
// read-only afterwards.  Defaults match the sizing the buffers were tuned
// with; Load applies overrides from an optional YAML file.

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// ───────────────────────────── Buffer Sizing ──────────────────────────────

var (
	// StagingBufferSize is the per-thread buffer capacity in bytes.  It
	// decouples the producing thread from the draining thread and should
	// be large enough to absorb bursts of activity.
	StagingBufferSize = 1 << 20

	// ReleaseThreshold hints when the consumer should proactively free
	// space back to the producer.  A low value incurs more producer
	// blocking at shorter durations; a high value the opposite.
	ReleaseThreshold = StagingBufferSize >> 1

	// BytesPerCacheLine sizes the isolation spacer between producer-side
	// and consumer-side fields in the lock-free variant.
	BytesPerCacheLine = 64
)

// ─────────────────────────── Consumer Polling ─────────────────────────────

var (
	// PollIntervalNoWork is how long an idle draining thread sleeps before
	// re-checking the buffers for work.  Kernel overheads make this a
	// lower bound; actual sleeps may be significantly longer.
	PollIntervalNoWork = 1 * time.Microsecond

	// PollIntervalDuringIO is the re-check interval while the drain is
	// stalled behind downstream output.
	PollIntervalDuringIO = 1 * time.Microsecond
)

// ──────────────────────────── Benchmark Shape ─────────────────────────────

var (
	// Iterations is the total number of records pushed across all
	// producer threads in one benchmark scenario.
	Iterations = 1_000_000

	// BenchmarkThreads is the number of producing threads; each owns its
	// own buffer so the SPSC discipline holds.
	BenchmarkThreads = 2

	// Datum is the record every producer pushes, NUL terminator included,
	// mimicking a fixed-size binary log entry.
	Datum = []byte("123456789012345\x00")
)

// fileOverrides mirrors the override surface of the YAML file.  Zero
// values mean "keep the default".
type fileOverrides struct {
	StagingBufferSize int    `yaml:"staging_buffer_size"`
	ReleaseThreshold  int    `yaml:"release_threshold"`
	PollIntervalUS    int    `yaml:"poll_interval_us"`
	Iterations        int    `yaml:"iterations"`
	BenchmarkThreads  int    `yaml:"benchmark_threads"`
	Datum             string `yaml:"datum"`
}

// Load applies overrides from the YAML file at path.  A missing file is
// not an error; a malformed one is.  Must be called before any buffer is
// constructed.
func Load(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var o fileOverrides
	if err := yaml.Unmarshal(raw, &o); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	if o.StagingBufferSize != 0 {
		if o.StagingBufferSize < 0 {
			return fmt.Errorf("config: staging_buffer_size %d must be positive", o.StagingBufferSize)
		}
		StagingBufferSize = o.StagingBufferSize
		ReleaseThreshold = o.StagingBufferSize >> 1
	}
	if o.ReleaseThreshold != 0 {
		ReleaseThreshold = o.ReleaseThreshold
	}
	if o.PollIntervalUS != 0 {
		PollIntervalNoWork = time.Duration(o.PollIntervalUS) * time.Microsecond
		PollIntervalDuringIO = PollIntervalNoWork
	}
	if o.Iterations != 0 {
		Iterations = o.Iterations
	}
	if o.BenchmarkThreads != 0 {
		if o.BenchmarkThreads < 1 {
			return fmt.Errorf("config: benchmark_threads %d must be at least 1", o.BenchmarkThreads)
		}
		BenchmarkThreads = o.BenchmarkThreads
	}
	if o.Datum != "" {
		Datum = append([]byte(o.Datum), 0)
	}

	if ReleaseThreshold > StagingBufferSize {
		return fmt.Errorf("config: release_threshold %d exceeds staging_buffer_size %d",
			ReleaseThreshold, StagingBufferSize)
	}
	if len(Datum) > StagingBufferSize {
		return fmt.Errorf("config: datum of %d bytes exceeds staging_buffer_size %d",
			len(Datum), StagingBufferSize)
	}
	return nil
}
