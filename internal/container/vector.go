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

package container

// ObjVector is a contiguous, generic vector with insert/cut/compact at
// arbitrary positions, a thin wrapper over a Go slice that keeps the
// reference's positional-edit API shape.
type ObjVector[T any] struct {
	items []T
}

// NewObjVector returns an empty ObjVector, optionally pre-sized.
func NewObjVector[T any](capacity int) *ObjVector[T] {
	return &ObjVector[T]{items: make([]T, 0, capacity)}
}

// Len returns the number of elements.
func (v *ObjVector[T]) Len() int { return len(v.items) }

// At returns the element at pos.
func (v *ObjVector[T]) At(pos int) T { return v.items[pos] }

// Insert splices v2 in at pos, shifting the tail right.
func (v *ObjVector[T]) Insert(pos int, v2 T) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(v.items) {
		pos = len(v.items)
	}
	v.items = append(v.items, v2)
	copy(v.items[pos+1:], v.items[pos:])
	v.items[pos] = v2
}

// Cut removes n elements starting at pos.
func (v *ObjVector[T]) Cut(pos, n int) {
	if pos < 0 || pos >= len(v.items) || n <= 0 {
		return
	}
	end := pos + n
	if end > len(v.items) {
		end = len(v.items)
	}
	v.items = append(v.items[:pos], v.items[end:]...)
}

// Resize grows or shrinks the vector to exactly n elements, zero-filling
// any newly added slots.
func (v *ObjVector[T]) Resize(n int) {
	if n <= len(v.items) {
		v.items = v.items[:n]
		return
	}
	grown := make([]T, n)
	copy(grown, v.items)
	v.items = grown
}

// Compact removes every element for which pred reports true.
func (v *ObjVector[T]) Compact(pred func(T) bool) {
	out := v.items[:0]
	for _, it := range v.items {
		if !pred(it) {
			out = append(out, it)
		}
	}
	v.items = out
}

// Slice returns the underlying slice (shared storage; callers must not
// retain it across further mutation).
func (v *ObjVector[T]) Slice() []T { return v.items }
