/*
 * Copyright (c) 2026 by the mushafkit authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package pageview drives progressive, pausable page rendering across a
// multi-page viewport. Concurrency is cooperative: a render task suspends
// only at its own yield points, pause and resume are message passes over
// channels, and cancellation is a channel close, so there is no racy flag
// between a resume and a finish.
package pageview

import (
	"errors"
	"runtime"
	"sync"
	"time"
)

// RenderState is a page's render lifecycle state.
type RenderState int

const (
	StateInitial RenderState = iota
	StateRunning
	StatePaused
	StateFinished
)

func (s RenderState) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateFinished:
		return "finished"
	}
	return "unknown"
}

// ErrCancelled reports a render abandoned by teardown.
var ErrCancelled = errors.New("pageview: render cancelled")

// ErrAlreadyStarted reports a second Start on the same view.
var ErrAlreadyStarted = errors.New("pageview: render already started")

// frameBudget is how much wall time the render task may consume between
// yields to the host's frame scheduler.
const frameBudget = 16 * time.Millisecond

// RenderFunc does a page's render work incrementally. It must call yield
// between work units (at least once per line) and return promptly when
// yield reports false: that is the abandon signal, and no cleanup beyond
// returning is expected.
type RenderFunc func(yield func() bool) error

// PageView owns one page's render state machine. Created when the page
// becomes relevant to the viewport, destroyed on cache eviction or viewer
// teardown.
type PageView struct {
	Page int

	mu    sync.Mutex
	state RenderState
	err   error

	pause    chan struct{}
	resume   chan struct{}
	cancel   chan struct{}
	done     chan struct{}
	teardown sync.Once
}

// New returns a view in StateInitial.
func New(page int) *PageView {
	return &PageView{
		Page:   page,
		pause:  make(chan struct{}, 1),
		resume: make(chan struct{}, 1),
		cancel: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// State returns the current render state.
func (v *PageView) State() RenderState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Err returns the terminal render error, if any.
func (v *PageView) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

// Start launches the render task. Valid only in StateInitial.
func (v *PageView) Start(fn RenderFunc) error {
	v.mu.Lock()
	if v.state != StateInitial {
		v.mu.Unlock()
		return ErrAlreadyStarted
	}
	v.state = StateRunning
	v.mu.Unlock()

	go v.run(fn)
	return nil
}

func (v *PageView) run(fn RenderFunc) {
	last := time.Now()
	yield := func() bool {
		// Cheap cancellation probe inside the frame budget.
		select {
		case <-v.cancel:
			return false
		default:
		}
		if time.Since(last) >= frameBudget {
			// Hand the processor back once per frame so a saturated
			// render task cannot starve the other page goroutines.
			runtime.Gosched()
			last = time.Now()
		}
		return v.consumePause(&last)
	}

	err := fn(yield)
	v.finish(err)
}

// consumePause blocks on a pending pause request until resumed. Resuming a
// view that is no longer running (torn down while paused) reports abandon.
func (v *PageView) consumePause(last *time.Time) bool {
	select {
	case <-v.pause:
		select {
		case <-v.resume:
			if v.State() != StateRunning {
				return false
			}
			*last = time.Now()
			return true
		case <-v.cancel:
			return false
		}
	default:
		return true
	}
}

func (v *PageView) finish(err error) {
	v.mu.Lock()
	select {
	case <-v.cancel:
		if err == nil {
			err = ErrCancelled
		}
	default:
	}
	v.state = StateFinished
	v.err = err
	v.mu.Unlock()
	close(v.done)
}

// Pause suspends the render at its next yield point. No-op unless the view
// is running.
func (v *PageView) Pause() {
	v.mu.Lock()
	if v.state != StateRunning {
		v.mu.Unlock()
		return
	}
	v.state = StatePaused
	v.mu.Unlock()
	select {
	case v.pause <- struct{}{}:
	default:
	}
}

// Resume restarts a paused render. No-op in any other state.
func (v *PageView) Resume() {
	v.mu.Lock()
	if v.state != StatePaused {
		v.mu.Unlock()
		return
	}
	v.state = StateRunning
	v.mu.Unlock()
	select {
	case v.resume <- struct{}{}:
	default:
	}
}

// Teardown cancels the render and releases the view. Idempotent; always
// called before cache eviction. A view that never started finishes
// immediately.
func (v *PageView) Teardown() {
	v.teardown.Do(func() {
		v.mu.Lock()
		started := v.state != StateInitial
		if !started {
			v.state = StateFinished
			v.err = ErrCancelled
		}
		v.mu.Unlock()
		close(v.cancel)
		if !started {
			close(v.done)
			return
		}
		// Unblock a paused task so it can observe the cancel.
		select {
		case v.resume <- struct{}{}:
		default:
		}
	})
}

// Wait blocks until the render task has exited.
func (v *PageView) Wait() {
	<-v.done
}
