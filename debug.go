package main

import "log"

// dropError is a lightweight diagnostic logger for non-hot paths (setup,
// teardown, persistence).  It branches on nil instead of paying for
// fmt-style formatting when there is nothing to format.
//
//   - err != nil prints "<prefix>: <error>"
//   - err == nil prints "<prefix>" (cheap trace tag)
func dropError(prefix string, err error) {
	if err != nil {
		log.Printf("%s: %v", prefix, err)
	} else {
		log.Print(prefix)
	}
}
