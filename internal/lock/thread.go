/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package lock

import (
	"sync/atomic"
	"time"
)

// Thread is a cooperative cancellation handle for a worker goroutine: the
// goroutine polls Check on every loop iteration instead of being killed
// from outside.
type Thread struct {
	cancelled atomic.Bool
	hard      atomic.Bool
	done      chan struct{}
}

// NewThread returns a Thread handle in the running state.
func NewThread() *Thread {
	return &Thread{done: make(chan struct{})}
}

// Cancel requests the worker to exit. hard additionally closes Done()
// immediately so blocking waiters give up right away instead of waiting
// for the worker to notice Check().
func (t *Thread) Cancel(hard bool) {
	if t.cancelled.CompareAndSwap(false, true) {
		if hard {
			t.hard.Store(true)
			close(t.done)
		}
	}
}

// Check reports whether the worker has been asked to exit.
func (t *Thread) Check() bool {
	return t.cancelled.Load()
}

// Done returns a channel closed once a hard Cancel has been issued.
func (t *Thread) Done() <-chan struct{} {
	return t.done
}

// Finished marks the worker as exited, closing Done() if not already
// closed by a hard Cancel.
func (t *Thread) Finished() {
	if !t.hard.Load() {
		select {
		case <-t.done:
		default:
			close(t.done)
		}
	}
}

// Idle sleeps for d or until Done() is closed (by a hard Cancel or by
// Finished), whichever comes first; a soft Cancel does not wake it. It
// returns true if it slept the full duration.
func (t *Thread) Idle(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-t.done:
		return false
	}
}
