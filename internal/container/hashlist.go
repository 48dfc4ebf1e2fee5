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

// Named is implemented by anything a HashList can bucket by name.
type Named interface {
	Name() string
}

// Sdbm is the lazy hash used both here and by the String type: the sdbm
// string hash function.
func Sdbm(s string) uint32 {
	var h uint32
	for i := 0; i < len(s); i++ {
		c := uint32(s[i])
		h = c + (h << 6) + (h << 16) - h
	}
	return h
}

// HashList buckets elements by Sdbm(Name()) mod the bucket count, clamped
// to [1,1024].
type HashList[T Named] struct {
	buckets []*ObjList[T]
	size    int
}

// NewHashList returns a HashList with the given bucket count, clamped to
// [1,1024].
func NewHashList[T Named](size int) *HashList[T] {
	if size < 1 {
		size = 1
	}
	if size > 1024 {
		size = 1024
	}
	h := &HashList[T]{buckets: make([]*ObjList[T], size), size: size}
	for i := range h.buckets {
		h.buckets[i] = NewObjList[T]()
	}
	return h
}

func (h *HashList[T]) bucketFor(name string) *ObjList[T] {
	return h.buckets[int(Sdbm(name))%h.size]
}

// Add inserts v into the bucket for v.Name().
func (h *HashList[T]) Add(v T) {
	h.bucketFor(v.Name()).Append(v)
}

// Find looks up the first element named name.
func (h *HashList[T]) Find(name string) *T {
	return h.bucketFor(name).Find(func(v T) bool { return v.Name() == name })
}

// Remove deletes the first element named name.
func (h *HashList[T]) Remove(name string) bool {
	return h.bucketFor(name).Remove(func(v T) bool { return v.Name() == name }, false)
}

// Resync rehomes every element whose Name() no longer matches the bucket
// it currently lives in -- used after in-place renames.
func (h *HashList[T]) Resync() {
	all := make([]T, 0, h.Len())
	h.Each(func(v T) bool {
		all = append(all, v)
		return true
	})
	for _, b := range h.buckets {
		*b = *NewObjList[T]()
	}
	for _, v := range all {
		h.Add(v)
	}
}

// Each iterates every element across all buckets.
func (h *HashList[T]) Each(f func(T) bool) {
	for _, b := range h.buckets {
		cont := true
		b.Each(func(v T) bool {
			if !f(v) {
				cont = false
				return false
			}
			return true
		})
		if !cont {
			return
		}
	}
}

// Len returns the total number of elements across all buckets.
func (h *HashList[T]) Len() int {
	n := 0
	for _, b := range h.buckets {
		n += b.Len()
	}
	return n
}
