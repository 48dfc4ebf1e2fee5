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

// Package container implements the intrusive singly-linked list, bucketed
// hash-list and contiguous vector the rest of the runtime is built on top
// of, generalised with Go generics instead of void* payloads.
package container

// node is one link of an ObjList. A node with isNull set is a "skip-null"
// placeholder of the kind the reference keeps around to avoid relinking
// under concurrent iteration.
type node[T any] struct {
	value  T
	isNull bool
	next   *node[T]
}

// ObjList is a singly-linked, insertion-ordered list. The zero value is an
// empty list ready to use; NewObjList returns one.
type ObjList[T any] struct {
	head *node[T]
	tail *node[T]
	len  int
}

// NewObjList returns an empty ObjList.
func NewObjList[T any]() *ObjList[T] {
	return &ObjList[T]{}
}

// Len returns the number of non-null entries.
func (l *ObjList[T]) Len() int { return l.len }

// Append adds v at the tail.
func (l *ObjList[T]) Append(v T) {
	n := &node[T]{value: v}
	if l.tail == nil {
		l.head, l.tail = n, n
	} else {
		l.tail.next = n
		l.tail = n
	}
	l.len++
}

// Insert adds v at the head.
func (l *ObjList[T]) Insert(v T) {
	n := &node[T]{value: v, next: l.head}
	l.head = n
	if l.tail == nil {
		l.tail = n
	}
	l.len++
}

// SetUnique appends v only if no existing element is equal under eq.
func (l *ObjList[T]) SetUnique(v T, eq func(a, b T) bool) bool {
	if l.Find(func(x T) bool { return eq(x, v) }) != nil {
		return false
	}
	l.Append(v)
	return true
}

// Find returns a pointer to the first element matching pred, or nil.
func (l *ObjList[T]) Find(pred func(T) bool) *T {
	for n := l.head; n != nil; n = n.next {
		if n.isNull {
			continue
		}
		if pred(n.value) {
			return &n.value
		}
	}
	return nil
}

// Remove deletes the first element matching pred. When markOnly is true the
// node is kept as a null placeholder (SkipNull/compact territory) instead
// of being spliced out, matching the reference's "auto-delete" flag
// semantics for concurrent iteration safety.
func (l *ObjList[T]) Remove(pred func(T) bool, markOnly bool) bool {
	var prev *node[T]
	for n := l.head; n != nil; n = n.next {
		if !n.isNull && pred(n.value) {
			if markOnly {
				var zero T
				n.value = zero
				n.isNull = true
			} else {
				l.unlink(prev, n)
			}
			l.len--
			return true
		}
		prev = n
	}
	return false
}

func (l *ObjList[T]) unlink(prev, n *node[T]) {
	if prev == nil {
		l.head = n.next
	} else {
		prev.next = n.next
	}
	if n == l.tail {
		l.tail = prev
	}
}

// Compact removes every null placeholder node, shrinking the backing
// chain without changing the observed (non-null) iteration order.
func (l *ObjList[T]) Compact() {
	var prev *node[T]
	n := l.head
	for n != nil {
		next := n.next
		if n.isNull {
			l.unlink(prev, n)
		} else {
			prev = n
		}
		n = next
	}
}

// Each calls f for every non-null element in insertion order, stopping
// early if f returns false.
func (l *ObjList[T]) Each(f func(T) bool) {
	for n := l.head; n != nil; n = n.next {
		if n.isNull {
			continue
		}
		if !f(n.value) {
			return
		}
	}
}

// Slice returns a snapshot slice of the current non-null elements.
func (l *ObjList[T]) Slice() []T {
	out := make([]T, 0, l.len)
	l.Each(func(v T) bool {
		out = append(out, v)
		return true
	})
	return out
}

// Sort performs a stable top-down merge-sort in place using cmp(a,b) <= 0
// as the ordering relation. It always splits at the midpoint; runs that
// are already sorted are not detected.
func (l *ObjList[T]) Sort(cmp func(a, b T) int) {
	items := l.Slice()
	items = mergeSort(items, cmp)
	l.head, l.tail, l.len = nil, nil, 0
	for _, v := range items {
		l.Append(v)
	}
}

func mergeSort[T any](items []T, cmp func(a, b T) int) []T {
	if len(items) <= 1 {
		return items
	}
	mid := len(items) / 2
	left := mergeSort(append([]T(nil), items[:mid]...), cmp)
	right := mergeSort(append([]T(nil), items[mid:]...), cmp)
	return merge(left, right, cmp)
}

func merge[T any](left, right []T, cmp func(a, b T) int) []T {
	out := make([]T, 0, len(left)+len(right))
	i, j := 0, 0
	for i < len(left) && j < len(right) {
		if cmp(left[i], right[j]) <= 0 {
			out = append(out, left[i])
			i++
		} else {
			out = append(out, right[j])
			j++
		}
	}
	out = append(out, left[i:]...)
	out = append(out, right[j:]...)
	return out
}
