/*
 * Copyright (c) 2026 by the mushafkit authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package pageview

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestRenderRunsToCompletion(t *testing.T) {
	v := New(1)
	var units atomic.Int32
	err := v.Start(func(yield func() bool) error {
		for i := 0; i < 10; i++ {
			if !yield() {
				return nil
			}
			units.Add(1)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	v.Wait()
	if got := v.State(); got != StateFinished {
		t.Errorf("state = %v, want finished", got)
	}
	if v.Err() != nil {
		t.Errorf("err = %v, want nil", v.Err())
	}
	if units.Load() != 10 {
		t.Errorf("work units = %d, want 10", units.Load())
	}
}

func TestYieldAcrossFrameBudgetKeepsRunning(t *testing.T) {
	v := New(1)
	var units atomic.Int32
	err := v.Start(func(yield func() bool) error {
		for i := 0; i < 3; i++ {
			time.Sleep(frameBudget + 5*time.Millisecond)
			if !yield() {
				return nil
			}
			units.Add(1)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	v.Wait()
	if got := v.State(); got != StateFinished {
		t.Errorf("state = %v, want finished", got)
	}
	if units.Load() != 3 {
		t.Errorf("units = %d, want 3 (a budget-boundary yield stopped the task)", units.Load())
	}
}

func TestStartTwiceFails(t *testing.T) {
	v := New(1)
	noop := func(yield func() bool) error { return nil }
	if err := v.Start(noop); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if err := v.Start(noop); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("second Start = %v, want ErrAlreadyStarted", err)
	}
	v.Wait()
}

func TestPauseStopsProgressUntilResume(t *testing.T) {
	v := New(1)
	step := make(chan struct{})
	var units atomic.Int32
	err := v.Start(func(yield func() bool) error {
		for range step {
			if !yield() {
				return nil
			}
			units.Add(1)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	step <- struct{}{}
	waitFor(t, func() bool { return units.Load() == 1 })

	v.Pause()
	if got := v.State(); got != StatePaused {
		t.Fatalf("state after Pause = %v", got)
	}
	// The next yield must block: hand over a unit and verify no progress.
	go func() { step <- struct{}{} }()
	time.Sleep(30 * time.Millisecond)
	if units.Load() != 1 {
		t.Fatalf("paused render made progress: %d units", units.Load())
	}

	v.Resume()
	waitFor(t, func() bool { return units.Load() == 2 })
	if got := v.State(); got != StateRunning {
		t.Errorf("state after Resume = %v", got)
	}
	close(step)
	v.Wait()
}

func TestPauseOutsideRunningIsNoop(t *testing.T) {
	v := New(1)
	v.Pause()
	if got := v.State(); got != StateInitial {
		t.Errorf("Pause on initial view moved state to %v", got)
	}
	v.Resume()
	if got := v.State(); got != StateInitial {
		t.Errorf("Resume on initial view moved state to %v", got)
	}
}

func TestTeardownCancelsRunningRender(t *testing.T) {
	v := New(1)
	err := v.Start(func(yield func() bool) error {
		for yield() {
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	v.Teardown()
	v.Wait()
	if got := v.State(); got != StateFinished {
		t.Errorf("state = %v, want finished", got)
	}
	if !errors.Is(v.Err(), ErrCancelled) {
		t.Errorf("err = %v, want ErrCancelled", v.Err())
	}
}

func TestTeardownReleasesPausedRender(t *testing.T) {
	v := New(1)
	step := make(chan struct{}, 1)
	err := v.Start(func(yield func() bool) error {
		for {
			<-step
			if !yield() {
				return nil
			}
		}
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	step <- struct{}{}
	waitFor(t, func() bool { return v.State() == StateRunning })
	v.Pause()
	step <- struct{}{} // park the task at its yield point
	time.Sleep(20 * time.Millisecond)

	v.Teardown()
	v.Wait()
	if !errors.Is(v.Err(), ErrCancelled) {
		t.Errorf("err = %v, want ErrCancelled", v.Err())
	}
}

func TestTeardownIdempotentAndBeforeStart(t *testing.T) {
	v := New(1)
	v.Teardown()
	v.Teardown()
	v.Wait()
	if got := v.State(); got != StateFinished {
		t.Errorf("state = %v, want finished", got)
	}
	if !errors.Is(v.Err(), ErrCancelled) {
		t.Errorf("err = %v, want ErrCancelled", v.Err())
	}
}

func TestRenderErrorSurfaces(t *testing.T) {
	v := New(1)
	boom := errors.New("boom")
	if err := v.Start(func(yield func() bool) error { return boom }); err != nil {
		t.Fatalf("Start: %v", err)
	}
	v.Wait()
	if !errors.Is(v.Err(), boom) {
		t.Errorf("err = %v, want boom", v.Err())
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not reached in time")
}
