// Package lock provides mutex primitives with deadlock detection.
package lock

import "github.com/sasha-s/go-deadlock"

// Mutex is a drop-in replacement for sync.Mutex with deadlock detection.
type Mutex = deadlock.Mutex

// RWMutex is a drop-in replacement for sync.RWMutex with deadlock detection.
type RWMutex = deadlock.RWMutex
