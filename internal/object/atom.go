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

import "sync"

// atomTable is a process-global, mutex-protected set of interned strings,
// so equal values can be compared by pointer once interned.
var atomTable = struct {
	mu    sync.Mutex
	cache map[string]*string
}{cache: make(map[string]*string)}

// Atom interns text in the process-global atom table and returns a stable
// pointer: two calls with equal text return the same pointer.
func Atom(text string) *string {
	atomTable.mu.Lock()
	defer atomTable.mu.Unlock()

	if p, ok := atomTable.cache[text]; ok {
		return p
	}
	p := new(string)
	*p = text
	atomTable.cache[text] = p
	return p
}

// AtomCount reports how many distinct strings are currently interned, for
// diagnostics and tests.
func AtomCount() int {
	atomTable.mu.Lock()
	defer atomTable.mu.Unlock()
	return len(atomTable.cache)
}
