package main

// constants.go — harness-local paths and layout constants.
//
// Buffer and benchmark tunables live in the config package; only things
// the driver alone cares about belong here.

const (
	// configPath is the optional YAML override file.  Absence is fine;
	// the compiled-in defaults then apply.
	configPath = "bench.yaml"

	// resultsDBPath is the SQLite database benchmark runs accumulate in.
	resultsDBPath = "stagingbench.db"
)
