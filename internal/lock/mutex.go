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

// Package lock provides deadline-aware mutex, semaphore and read/write lock
// primitives used throughout the bridge runtime, plus scoped acquire/release
// helpers so every exit path releases what it took.
package lock

import (
	"time"
)

// Mutex is a binary lock with a deadline-aware Lock, optionally reentrant
// for a given owner token. A recursive C++ mutex keys reentrancy off the
// calling thread id; Go has no portable thread-local handle, so reentrancy
// here is keyed off an explicit owner token the caller already has at hand
// (a bridge pointer, a request id, ...).
type Mutex struct {
	ch        chan struct{}
	recursive bool

	mu     chan struct{} // guards owner/depth
	owner  any
	depth  int
}

// NewMutex returns an unlocked Mutex. When recursive is true, calls to Lock
// with the same owner token nest instead of deadlocking.
func NewMutex(recursive bool) *Mutex {
	m := &Mutex{
		ch:        make(chan struct{}, 1),
		recursive: recursive,
		mu:        make(chan struct{}, 1),
	}
	m.mu <- struct{}{}
	return m
}

// Lock attempts to acquire the mutex within maxWait. A negative duration
// waits forever; zero behaves like TryLock.
func (m *Mutex) Lock(owner any, maxWait time.Duration) bool {
	if m.recursive && owner != nil {
		<-m.mu
		if m.owner == owner {
			m.depth++
			m.mu <- struct{}{}
			return true
		}
		m.mu <- struct{}{}
	}

	ok := m.acquire(maxWait)
	if ok && m.recursive {
		<-m.mu
		m.owner = owner
		m.depth = 1
		m.mu <- struct{}{}
	}
	return ok
}

func (m *Mutex) acquire(maxWait time.Duration) bool {
	if maxWait < 0 {
		m.ch <- struct{}{}
		return true
	}
	if maxWait == 0 {
		select {
		case m.ch <- struct{}{}:
			return true
		default:
			return false
		}
	}
	t := time.NewTimer(maxWait)
	defer t.Stop()
	select {
	case m.ch <- struct{}{}:
		return true
	case <-t.C:
		return false
	}
}

// Unlock releases the mutex. It is non-blocking and a caller error to call
// without a matching successful Lock.
func (m *Mutex) Unlock() {
	if m.recursive {
		<-m.mu
		if m.depth > 1 {
			m.depth--
			m.mu <- struct{}{}
			return
		}
		m.owner = nil
		m.depth = 0
		m.mu <- struct{}{}
	}
	select {
	case <-m.ch:
	default:
	}
}

// TryLock is Lock with a zero deadline.
func (m *Mutex) TryLock(owner any) bool {
	return m.Lock(owner, 0)
}
