// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Pledgenet
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package background - run processes in the background
package background

import (
	"sync"
)

// Process - type signature for a background process
type Process interface {
	Run(args interface{}, shutdown <-chan struct{})
}

// Processes - list of processes to start
type Processes []Process

// T - handle type for the stop
type T struct {
	sync.WaitGroup
	shutdown chan struct{}
}

// Start - start up a set of background processes
// all with the same arg value
func Start(processes Processes, args interface{}) *T {

	register := &T{
		shutdown: make(chan struct{}),
	}

	register.Add(len(processes))

	// start each background
	for _, p := range processes {
		go func(p Process) {
			defer register.Done()
			p.Run(args, register.shutdown)
		}(p)
	}
	return register
}

// Stop - stop a set of background processes
// and wait for them to finish
func (t *T) Stop() {

	if nil == t {
		return
	}

	close(t.shutdown)
	t.Wait()
}
