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

package object

import "sync/atomic"

// Destroyer is implemented by a RefObject embedder that needs a cleanup
// hook run exactly once, right before the object is released.
type Destroyer interface {
	Destroyed()
}

// RefObject is an atomically reference-counted GenObject. Go's garbage
// collector makes the eventual `delete this` unnecessary; what survives
// from the reference design is the "am I still alive" coordination:
// Ref fails once the count has reached zero so a racing caller can tell
// a teardown already started instead of resurrecting a half-destroyed
// object by accident.
type RefObject struct {
	Base
	count atomic.Int32
	onZero Destroyer
}

// NewRefObject returns a RefObject with an initial count of 1, calling d
// (if non-nil) exactly once when the count transitions to zero.
func NewRefObject(d Destroyer) *RefObject {
	r := &RefObject{onZero: d}
	r.count.Store(1)
	return r
}

// Ref increments the count and returns true, unless the object is already
// dying (count <= 0), in which case it returns false without incrementing.
func (r *RefObject) Ref() bool {
	for {
		c := r.count.Load()
		if c <= 0 {
			return false
		}
		if r.count.CompareAndSwap(c, c+1) {
			return true
		}
	}
}

// Deref decrements the count; on the transition to zero it invokes the
// Destroyer hook exactly once.
func (r *RefObject) Deref() {
	if r.count.Add(-1) == 0 {
		if r.onZero != nil {
			r.onZero.Destroyed()
		}
	}
}

// Resurrect sets the count from 0 to 1, extending the object's life during
// a destruction race; it returns false if the count was not exactly 0.
func (r *RefObject) Resurrect() bool {
	return r.count.CompareAndSwap(0, 1)
}

// RefCount returns the current reference count for diagnostics.
func (r *RefObject) RefCount() int32 {
	return r.count.Load()
}
