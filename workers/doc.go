// SPDX-License-Identifier: MIT

// Package workers runs independent tasks on a bounded pool.
//
// A Pool admits at most Size() tasks at once (a weighted semaphore), optionally paces task
// starts with a token bucket, recovers task panics into errors, and blocks the caller until
// every submitted task has finished. A nil *Pool runs tasks synchronously, in order.
//
// The process-wide default is managed explicitly with Start and Stop; callers that want a
// different pool pass their own handle instead.
package workers
