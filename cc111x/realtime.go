package cc111x

import (
	"golang.org/x/sys/unix"
)

const (
	schedRR          = 2 // round-robin scheduling policy
	realtimePriority = 10
)

// realtime gives the calling thread realtime priority.
// The caller must have locked its goroutine to the thread.
func realtime() error {
	return unix.SchedSetAttr(0, &unix.SchedAttr{
		Policy:   schedRR,
		Priority: realtimePriority,
	}, 0)
}
