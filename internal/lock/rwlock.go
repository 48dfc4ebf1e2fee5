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

import "sync"

// RWLock is a writer-preferred read/write lock. A debug switch can degrade
// it to a plain mutex, matching the reference's "force serial" knob used
// to rule out reader/writer races while chasing a bug.
type RWLock struct {
	mu       sync.RWMutex
	plain    sync.Mutex
	degraded bool
}

// NewRWLock returns an RWLock. When degraded is true every ReadLock also
// behaves like WriteLock, serialising all access through a single mutex.
func NewRWLock(degraded bool) *RWLock {
	return &RWLock{degraded: degraded}
}

func (r *RWLock) ReadLock() {
	if r.degraded {
		r.plain.Lock()
		return
	}
	r.mu.RLock()
}

func (r *RWLock) WriteLock() {
	if r.degraded {
		r.plain.Lock()
		return
	}
	r.mu.Lock()
}

// unlockRead releases a ReadLock and unlockWrite (below) a WriteLock.
// Both are unexported: callers release through the func returned by
// RScoped or WScoped, which always pairs the release with its acquire.
func (r *RWLock) unlockRead() {
	if r.degraded {
		r.plain.Unlock()
		return
	}
	r.mu.RUnlock()
}

func (r *RWLock) unlockWrite() {
	if r.degraded {
		r.plain.Unlock()
		return
	}
	r.mu.Unlock()
}
