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
	"context"
	"time"

	"golang.org/x/sync/semaphore"
)

// Semaphore is a counted lock with a deadline-aware Lock/Unlock pair.
type Semaphore struct {
	w        *semaphore.Weighted
	maxCount int64
	cur      chan struct{} // 1-buffered guard protecting cur count bookkeeping below
	count    int64
}

// NewSemaphore returns a Semaphore allowing up to maxCount concurrent
// holders, starting pre-acquired by (maxCount - initialCount) units.
func NewSemaphore(maxCount, initialCount int64) *Semaphore {
	if maxCount <= 0 {
		maxCount = 1
	}
	s := &Semaphore{
		w:        semaphore.NewWeighted(maxCount),
		maxCount: maxCount,
		cur:      make(chan struct{}, 1),
	}
	s.cur <- struct{}{}
	if initialCount < maxCount {
		_ = s.w.Acquire(context.Background(), maxCount-initialCount)
		s.count = maxCount - initialCount
	}
	return s
}

// Lock acquires one unit within maxWait. Negative waits forever, zero
// behaves like TryAcquire.
func (s *Semaphore) Lock(maxWait time.Duration) bool {
	var ok bool
	switch {
	case maxWait < 0:
		ok = s.w.Acquire(context.Background(), 1) == nil
	case maxWait == 0:
		ok = s.w.TryAcquire(1)
	default:
		ctx, cancel := context.WithTimeout(context.Background(), maxWait)
		defer cancel()
		ok = s.w.Acquire(ctx, 1) == nil
	}
	if ok {
		<-s.cur
		s.count++
		s.cur <- struct{}{}
	}
	return ok
}

// Unlock releases one unit, never exceeding maxCount held units.
func (s *Semaphore) Unlock() {
	<-s.cur
	defer func() { s.cur <- struct{}{} }()
	if s.count <= 0 {
		return
	}
	s.count--
	s.w.Release(1)
}
