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

import "unsafe"

// Scoped acquires m and returns a release func for the caller to defer,
// the Go-idiomatic stand-in for a C++ scope-guard: `defer Scoped(m)()`.
func Scoped(m *Mutex) func() {
	m.Lock(nil, -1)
	return m.Unlock
}

// Scoped2 acquires two mutexes in a fixed, pointer-address order so two
// call sites locking the same pair never deadlock against each other.
func Scoped2(a, b *Mutex) func() {
	first, second := a, b
	if uintptr(unsafe.Pointer(a)) > uintptr(unsafe.Pointer(b)) {
		first, second = b, a
	}
	first.Lock(nil, -1)
	second.Lock(nil, -1)
	return func() {
		second.Unlock()
		first.Unlock()
	}
}

// RScoped acquires a read lock and returns a release func.
func RScoped(r *RWLock) func() {
	r.ReadLock()
	return r.unlockRead
}

// WScoped acquires a write lock and returns a release func.
func WScoped(r *RWLock) func() {
	r.WriteLock()
	return r.unlockWrite
}
