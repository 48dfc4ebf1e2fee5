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

import (
	"sync"

	"github.com/google/uuid"
	"github.com/nabbar/telebridge/message"
)

// pendingRequest tracks one message sent to the peer that is still
// awaiting its `%%<message` reply line.
type pendingRequest struct {
	id     string
	msg    *message.Message
	replCh chan *message.Message
}

// pendingTable correlates outstanding requests by id, guarding against the
// reentrance hazard spec.md §4.7 calls out: a reply arriving for an id the
// table no longer holds (timed out, or a duplicate reply) is simply
// dropped rather than panicking.
type pendingTable struct {
	mu   sync.Mutex
	byID map[string]*pendingRequest
}

func newPendingTable() *pendingTable {
	return &pendingTable{byID: make(map[string]*pendingRequest)}
}

// Register allocates a fresh id for m and returns the request plus the
// channel its eventual reply (or nil, on timeout/cancel) will arrive on.
func (t *pendingTable) Register(m *message.Message) *pendingRequest {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := &pendingRequest{
		id:     uuid.NewString(),
		msg:    m,
		replCh: make(chan *message.Message, 1),
	}
	t.byID[p.id] = p
	return p
}

// Resolve delivers reply for id if still pending, returning true if a
// waiter consumed it. A reply for an unknown or already-resolved id is a
// no-op, matching the reference's "late answer, nothing waits" handling.
func (t *pendingTable) Resolve(id string, reply *message.Message) bool {
	t.mu.Lock()
	p, ok := t.byID[id]
	if ok {
		delete(t.byID, id)
	}
	t.mu.Unlock()
	if !ok {
		return false
	}
	p.replCh <- reply
	return true
}

// Cancel removes id without a reply, used when the request times out or
// the bridge is dying; any waiter sees a nil message.
func (t *pendingTable) Cancel(id string) {
	t.mu.Lock()
	p, ok := t.byID[id]
	if ok {
		delete(t.byID, id)
	}
	t.mu.Unlock()
	if ok {
		p.replCh <- nil
	}
}

// CancelAll drains the table, used during bridge teardown so no Dispatch
// call blocks forever on a peer that just disconnected.
func (t *pendingTable) CancelAll() {
	t.mu.Lock()
	all := t.byID
	t.byID = make(map[string]*pendingRequest)
	t.mu.Unlock()
	for _, p := range all {
		p.replCh <- nil
	}
}

// Len reports the number of in-flight requests, exported for the
// external_pending_requests gauge.
func (t *pendingTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.byID)
}
