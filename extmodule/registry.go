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

package extmodule

import "sync"

// Registry tracks every live Bridge so the module shell can report status,
// export gauges, and broadcast a halt.
type Registry struct {
	mu      sync.RWMutex
	bridges map[string]*Bridge
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{bridges: make(map[string]*Bridge)}
}

// Add registers b and arranges for it to remove itself once it dies.
func (r *Registry) Add(b *Bridge) {
	r.mu.Lock()
	r.bridges[b.ID()] = b
	r.mu.Unlock()

	go func() {
		<-b.Done()
		r.mu.Lock()
		delete(r.bridges, b.ID())
		r.mu.Unlock()
	}()
}

// Count returns the number of currently live bridges.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bridges)
}

// PendingTotal sums PendingCount across every live bridge, the source of
// the external_pending_requests gauge.
func (r *Registry) PendingTotal() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := 0
	for _, b := range r.bridges {
		total += b.PendingCount()
	}
	return total
}

// Each iterates a snapshot of the currently live bridges.
func (r *Registry) Each(f func(*Bridge)) {
	r.mu.RLock()
	snapshot := make([]*Bridge, 0, len(r.bridges))
	for _, b := range r.bridges {
		snapshot = append(snapshot, b)
	}
	r.mu.RUnlock()
	for _, b := range snapshot {
		f(b)
	}
}

// HaltAll tears down every live bridge, used on module shutdown.
func (r *Registry) HaltAll(reason string) {
	r.Each(func(b *Bridge) { b.Die(reason) })
}
