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

// Package bus implements the in-process message bus the external-module
// bridge plugs into: priority-ordered handler dispatch, asynchronous
// enqueue with a worker pool, and post-dispatch hooks.
package bus

import (
	"sort"
	"sync"

	"github.com/nabbar/telebridge/message"
)

// Engine is the message bus contract the bridge and every other module
// consume: Install/Uninstall/Dispatch/Enqueue/SetHook/Exiting.
type Engine interface {
	Install(h *message.Handler)
	Uninstall(h *message.Handler)
	Dispatch(m *message.Message) bool
	Enqueue(m *message.Message)
	SetHook(hook message.PostHook, remove bool)
	Exiting() bool
	Close()
}

type bus struct {
	mu       sync.RWMutex
	handlers []*message.Handler
	hooks    []message.PostHook

	queue   chan *message.Message
	workers int
	wg      sync.WaitGroup

	exiting bool
	closeCh chan struct{}
	once    sync.Once
}

// New returns a running Engine backed by workers goroutines draining an
// enqueue channel of the given depth.
func New(workers, queueDepth int) Engine {
	if workers < 1 {
		workers = 1
	}
	if queueDepth < 1 {
		queueDepth = 1000
	}
	b := &bus{
		queue:   make(chan *message.Message, queueDepth),
		workers: workers,
		closeCh: make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		b.wg.Add(1)
		go b.worker()
	}
	return b
}

func (b *bus) worker() {
	defer b.wg.Done()
	for {
		select {
		case m, ok := <-b.queue:
			if !ok {
				return
			}
			b.Dispatch(m)
		case <-b.closeCh:
			return
		}
	}
}

// Install registers h; priority ordering defines dispatch sequence,
// smaller values run first, ties broken by installation order.
func (b *bus) Install(h *message.Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
	sort.SliceStable(b.handlers, func(i, j int) bool {
		return b.handlers[i].Priority < b.handlers[j].Priority
	})
}

// Uninstall removes h from the handler list. It does not wait for
// dispatches already in progress: Dispatch copies the list under the read
// lock and calls handlers after releasing it, so a Dispatch that took its
// copy before Uninstall may still call h after Uninstall returns.
func (b *bus) Uninstall(h *message.Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, x := range b.handlers {
		if x.TrackingID() == h.TrackingID() {
			b.handlers = append(b.handlers[:i], b.handlers[i+1:]...)
			return
		}
	}
}

// Dispatch synchronously offers m to every installed handler in priority
// order, stopping at the first that returns true, then runs every
// post-dispatch hook.
func (b *bus) Dispatch(m *message.Message) bool {
	b.mu.RLock()
	snapshot := make([]*message.Handler, len(b.handlers))
	copy(snapshot, b.handlers)
	hooks := make([]message.PostHook, len(b.hooks))
	copy(hooks, b.hooks)
	b.mu.RUnlock()

	handled := false
	for _, h := range snapshot {
		if !h.Matches(m) {
			continue
		}
		if h.Received(m) {
			m.Accepted = true
			handled = true
			break
		}
	}

	for _, hk := range hooks {
		hk.Dispatched(m, handled)
	}

	return handled
}

// Enqueue schedules m for asynchronous dispatch from a worker goroutine.
// If the queue is full the message is dropped; callers needing backpressure
// feedback should call Dispatch directly.
func (b *bus) Enqueue(m *message.Message) {
	if b.Exiting() {
		return
	}
	select {
	case b.queue <- m:
	default:
	}
}

// SetHook installs or removes a post-dispatch hook.
func (b *bus) SetHook(hook message.PostHook, remove bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if remove {
		for i, hk := range b.hooks {
			if hk == hook {
				b.hooks = append(b.hooks[:i], b.hooks[i+1:]...)
				return
			}
		}
		return
	}
	b.hooks = append(b.hooks, hook)
}

// Exiting reports whether the bus has started shutting down.
func (b *bus) Exiting() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.exiting
}

// Close stops accepting new enqueued work and waits for in-flight workers
// to drain.
func (b *bus) Close() {
	b.once.Do(func() {
		b.mu.Lock()
		b.exiting = true
		b.mu.Unlock()
		close(b.closeCh)
		b.wg.Wait()
	})
}
