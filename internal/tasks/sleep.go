// ============================================================================
// Beaver-DAG Tasks - Sleep-Based Workload Stand-In
// ============================================================================
//
// Package: internal/tasks
// File: sleep.go
// Function: A TaskFunc that simply sleeps for a configured duration, used
//           to stand in for real node workloads in the reference graph and
//           in tests.
//
// Grounded on original_source/graph.c's GENERATE_TASK macro: each
// generated task sleeps a fixed number of milliseconds, optionally
// jittered by up to +/-10% of that duration using rand().
//
// ============================================================================

package tasks

import (
	"math/rand"
	"time"

	"github.com/ChuLiYu/beaver-dag/pkg/types"
)

// Sleep returns a TaskFunc that sleeps for d. When jitter is true, the
// actual sleep is perturbed by up to +/-10% of d, mirroring
// GENERATE_TASK's "nsec += (1 - rand()%3) * (rand()%(nsec/10))".
func Sleep(d time.Duration, jitter bool) types.TaskFunc {
	return func() {
		actual := d
		if jitter && d > 0 {
			tenth := d / 10
			if tenth > 0 {
				sign := time.Duration(1 - rand.Intn(3))
				actual += sign * time.Duration(rand.Int63n(int64(tenth)))
			}
		}
		if actual > 0 {
			time.Sleep(actual)
		}
	}
}
