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
	"bufio"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nabbar/telebridge/bus"
	"github.com/nabbar/telebridge/internal/errors"
	"github.com/nabbar/telebridge/internal/logger"
	"github.com/nabbar/telebridge/internal/object"
	"github.com/nabbar/telebridge/message"
)

// Bridge is one external-module connection: a spawned child or an
// accepted socket peer, its reader/writer goroutines, its installed
// relays and watches, and the pending-request table correlating
// dispatched messages with their eventual replies.
type Bridge struct {
	*object.RefObject

	mu  sync.Mutex
	log *logger.Entry
	eng bus.Engine
	cfg Config

	id   string
	role Role

	conn   io.ReadWriteCloser
	reader *bufio.Reader
	writer *bufio.Writer
	wmu    sync.Mutex // exclusive writer, spec.md §4.9

	pending  *pendingTable
	relays   map[string]*message.Relay
	relaySeq int
	watching map[string]struct{}

	childPID int
	waitFn   func() error // set by spawn.go, invoked by Die's cleanup

	dying     atomic.Bool
	closeOnce sync.Once
	done      chan struct{}

	chanMethod ChanMethod
	audio      *audioPipe

	bound   ChannelBinder // optional, spec.md §4.10 step 2
	waitMsg waitMsgState   // spec.md §4.7 "Wait-msg"
}

// ChannelBinder is the hook a channel endpoint bound to this bridge
// registers; Die calls Detach exactly once during teardown, clearing the
// endpoint's back-pointer (spec.md §4.10 step 2).
type ChannelBinder interface {
	Detach()
}

// BindChannel attaches c as this bridge's channel endpoint. A bridge has
// at most one bound channel at a time; binding a new one replaces any
// previous registration without detaching it -- callers coordinate that
// themselves.
func (b *Bridge) BindChannel(c ChannelBinder) {
	b.waitMsg.mu.Lock()
	defer b.waitMsg.mu.Unlock()
	b.bound = c
}

// heldMessage is a peer-originated message deferred by the Wait-msg gate
// until the outstanding call.execute-class dispatch it was held behind
// resolves.
type heldMessage struct {
	id string
	m  *message.Message
}

// waitMsgState implements spec.md §4.7's "Wait-msg" rule: while a
// call.execute-class message is outstanding on a channel bridge, newly
// peer-originated messages are held rather than immediately enqueued, so
// the peer cannot observe its own channel's events before that dispatch's
// reply returns.
type waitMsgState struct {
	mu   sync.Mutex
	id   string
	held []heldMessage
}

// isWaitMsgName reports whether name is the class of dispatch that arms
// the Wait-msg gate -- only call.execute targets a not-yet-acknowledged
// channel endpoint in the reference.
func isWaitMsgName(name string) bool {
	return name == "call.execute"
}

// New wraps conn (already established, whether by accept or by spawn) as
// a Bridge installed onto eng. The caller is responsible for starting
// Run in its own goroutine.
func New(id string, role Role, conn io.ReadWriteCloser, eng bus.Engine, cfg Config) *Bridge {
	cfg.Normalize()
	b := &Bridge{
		id:       id,
		role:     role,
		conn:     conn,
		eng:      eng,
		cfg:      cfg,
		reader:   bufio.NewReaderSize(conn, cfg.BufSize),
		writer:   bufio.NewWriterSize(conn, cfg.BufSize),
		pending:  newPendingTable(),
		relays:   make(map[string]*message.Relay),
		watching: make(map[string]struct{}),
		done:     make(chan struct{}),
		log:      logger.New("extmodule").With(logger.Fields{"bridge": id}),
	}
	b.RefObject = object.NewRefObject(b)
	return b
}

// Destroyed implements object.Destroyer, invoked exactly once when the
// last reference is released.
func (b *Bridge) Destroyed() {
	b.log.Debugf("bridge destroyed")
}

// Run drives the bridge until the connection closes or Die is called: it
// starts the reader loop inline (the caller's goroutine becomes the
// reader) and blocks until teardown completes.
func (b *Bridge) Run() {
	defer b.Die("peer disconnected")
	b.readLoop()
}

// ID returns the bridge's diagnostic identifier (socket address or child
// pid-derived tag).
func (b *Bridge) ID() string { return b.id }

// Role reports whether this bridge negotiated as global or channel.
func (b *Bridge) Role() Role {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.role
}

// PendingCount exposes the in-flight request count for metrics.
func (b *Bridge) PendingCount() int { return b.pending.Len() }

// PID returns the spawned child's process id, or 0 for an accepted
// (non-spawned) bridge.
func (b *Bridge) PID() int { return b.childPID }

// Dying reports whether teardown has started.
func (b *Bridge) Dying() bool { return b.dying.Load() }

// Die tears the bridge down exactly once: it cancels every pending
// request, detaches and uninstalls every relay, closes the underlying
// connection and signals Done. reason is logged, not protocol-visible.
func (b *Bridge) Die(reason string) {
	b.closeOnce.Do(func() {
		b.dying.Store(true)
		b.log.Infof("bridge closing: %s", reason)

		b.waitMsg.mu.Lock()
		bound := b.bound
		b.bound = nil
		b.waitMsg.id = ""
		b.waitMsg.held = nil
		b.waitMsg.mu.Unlock()
		if bound != nil {
			bound.Detach()
		}

		b.pending.CancelAll()

		b.mu.Lock()
		relays := make([]*message.Relay, 0, len(b.relays))
		for _, r := range b.relays {
			relays = append(relays, r)
		}
		b.relays = make(map[string]*message.Relay)
		b.mu.Unlock()

		for _, r := range relays {
			r.Detach()
			b.eng.Uninstall(r.Handler)
		}

		_ = b.conn.Close()
		if b.audio != nil {
			_ = b.audio.in.Close()
			_ = b.audio.out.Close()
		}

		if b.waitFn != nil {
			go func() {
				if err := b.waitFn(); err != nil {
					b.log.Warnf("child wait: %v", err)
				}
			}()
		}

		close(b.done)
	})
}

// Done returns a channel closed once Die has fully run.
func (b *Bridge) Done() <-chan struct{} { return b.done }

// writeLine serializes one line to the peer under the exclusive writer
// lock (spec.md §4.9: a reply and an unrelated async notification must
// never interleave mid-line), then flushes.
func (b *Bridge) writeLine(s string) error {
	b.wmu.Lock()
	defer b.wmu.Unlock()
	if _, err := b.writer.WriteString(s); err != nil {
		return err
	}
	if err := b.writer.WriteByte('\n'); err != nil {
		return err
	}
	return b.writer.Flush()
}

// SendMessage dispatches m to the peer and blocks (up to cfg.Timeout, or
// forever if zero) for the matching `%%<message` reply. A bridge that is
// dying fails fast with CodeAlreadyDead; one already holding cfg.MaxQueue
// in-flight requests fails fast with CodeOverflow (spec.md §4.7/§6). A
// timeout kills the bridge outright when cfg.Timebomb is set.
func (b *Bridge) SendMessage(m *message.Message) (*message.Message, error) {
	if b.Dying() {
		return nil, errors.New(errors.CodeAlreadyDead, "bridge is closing")
	}
	if b.cfg.MaxQueue > 0 && b.pending.Len() >= b.cfg.MaxQueue {
		return nil, errors.New(errors.CodeOverflow, "pending request queue full")
	}

	p := b.pending.Register(m)

	waiting := b.Role() == RoleChannel && isWaitMsgName(m.Name)
	if waiting {
		b.waitMsg.mu.Lock()
		b.waitMsg.id = p.id
		b.waitMsg.mu.Unlock()
	}
	release := func() {
		if !waiting {
			return
		}
		b.waitMsg.mu.Lock()
		if b.waitMsg.id == p.id {
			b.waitMsg.id = ""
		}
		held := b.waitMsg.held
		b.waitMsg.held = nil
		b.waitMsg.mu.Unlock()
		for _, hm := range held {
			b.dispatchNew(hm.id, hm.m)
		}
	}

	if err := b.writeLine(m.Encode(p.id, b.cfg.SetTime)); err != nil {
		b.pending.Cancel(p.id)
		release()
		return nil, errors.New(errors.CodePeerClosed, "write failed", err)
	}

	if b.cfg.Timeout <= 0 {
		reply := <-p.replCh
		release()
		if reply == nil {
			return nil, errors.New(errors.CodeAlreadyDead, "bridge closed before reply")
		}
		return reply, nil
	}

	t := time.NewTimer(b.cfg.Timeout)
	defer t.Stop()
	select {
	case reply := <-p.replCh:
		release()
		if reply == nil {
			return nil, errors.New(errors.CodeAlreadyDead, "bridge closed before reply")
		}
		return reply, nil
	case <-t.C:
		b.pending.Cancel(p.id)
		release()
		if b.cfg.Timebomb {
			b.Die("timebomb: peer did not reply in time")
		}
		return nil, errors.New(errors.CodeTimeout, "peer did not reply in time")
	}
}

// deferIfWaiting holds a peer-originated message behind an outstanding
// call.execute-class dispatch on this channel, per spec.md §4.7
// "Wait-msg". It returns false (not held) once no such dispatch is
// outstanding.
func (b *Bridge) deferIfWaiting(id string, m *message.Message) bool {
	b.waitMsg.mu.Lock()
	defer b.waitMsg.mu.Unlock()
	if b.waitMsg.id == "" {
		return false
	}
	b.waitMsg.held = append(b.waitMsg.held, heldMessage{id: id, m: m})
	return true
}

// ReceivedRelay implements message.Receiver: a bus dispatch matching one
// of this bridge's installed names is forwarded to the peer as a
// `%%<message` line; the peer's eventual processed flag becomes this
// handler's return value. Reentrance (spec.md §4.7): unless cfg.Reenter
// is set, a bridge never receives back a message it originated itself.
func (b *Bridge) ReceivedRelay(id int, m *message.Message) bool {
	if b.Dying() {
		return false
	}
	if !b.cfg.Reenter && m.OriginID != "" && m.OriginID == b.id {
		return false
	}
	reply, err := b.SendMessage(m)
	if err != nil {
		b.log.Warnf("relay %d dispatch failed: %v", id, err)
		return false
	}
	if reply.RetValue != "" {
		m.RetValue = reply.RetValue
	}
	reply.Each(func(name, value string) bool {
		m.SetParam(name, value, false)
		return true
	})
	return reply.Accepted
}

func (b *Bridge) nextRelayID() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.relaySeq++
	return b.relaySeq
}
