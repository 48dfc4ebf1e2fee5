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

package extmodule_test

import (
	"bufio"
	"net"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/telebridge/bus"
	"github.com/nabbar/telebridge/extmodule"
	"github.com/nabbar/telebridge/message"
)

// peerSide wraps the test's end of a net.Pipe so specs can read/write
// wire lines without re-deriving bufio plumbing in every It block.
type peerSide struct {
	conn net.Conn
	r    *bufio.Reader
}

func newPeerSide(conn net.Conn) *peerSide {
	return &peerSide{conn: conn, r: bufio.NewReader(conn)}
}

func (p *peerSide) send(line string) {
	_, err := p.conn.Write([]byte(line + "\n"))
	Expect(err).NotTo(HaveOccurred())
}

func (p *peerSide) recv() string {
	line, err := p.r.ReadString('\n')
	Expect(err).NotTo(HaveOccurred())
	return strings.TrimRight(line, "\r\n")
}

// sync sends a harmless message round trip and waits for its ack, which
// the bridge's single reader goroutine can only answer after every line
// sent before it has been fully processed -- a cheap barrier for tests
// that must wait for an install/uninstall/setlocal to take effect.
func (p *peerSide) sync() {
	p.send("%%<message:sync:0:__test_sync__::")
	_ = p.recv()
}

var _ = Describe("Bridge", func() {
	var (
		eng  bus.Engine
		cfg  extmodule.Config
		brg  *extmodule.Bridge
		peer *peerSide
	)

	BeforeEach(func() {
		eng = bus.New(2, 16)
		cfg = extmodule.DefaultConfig()
		cfg.Timeout = time.Second

		local, remote := net.Pipe()
		peer = newPeerSide(remote)
		brg = extmodule.New("test-bridge", extmodule.RoleUnknown, local, eng, cfg)
		go brg.Run()
	})

	AfterEach(func() {
		brg.Die("test teardown")
		eng.Close()
	})

	It("negotiates role on connect", func() {
		peer.send("%%>connect:channel")
		// no reply is expected for connect; confirm the bridge is still alive
		// by round-tripping a message through it afterwards.
		peer.send("%%<message:req-0:1:ping::")
		line := peer.recv()
		Expect(line).To(HavePrefix("%%<message:"))
	})

	It("acknowledges a peer-dispatched message with processed=false when nothing handles it", func() {
		peer.send("%%<message:req-1:1:ping::")
		reply := peer.recv()
		Expect(reply).To(Equal("%%<message:req-1:false:ping:"))
	})

	It("acknowledges a peer-dispatched message with processed=true when a handler accepts it", func() {
		h := message.NewHandler("ping", 10)
		h.Receive = func(m *message.Message) bool {
			m.RetValue = "pong"
			return true
		}
		eng.Install(h)

		peer.send("%%<message:req-2:1:ping::")
		reply := peer.recv()
		Expect(reply).To(Equal("%%<message:req-2:true:ping:pong"))
	})

	It("installs a relay and acknowledges with %%<install:<prio>:<name>:true", func() {
		peer.send("%%>install:100:route")
		reply := peer.recv()
		Expect(reply).To(Equal("%%<install:100:route:true"))
	})

	It("rejects a duplicate install and acknowledges with :false", func() {
		peer.send("%%>install:100:route")
		_ = peer.recv()
		peer.send("%%>install:100:route")
		reply := peer.recv()
		Expect(reply).To(Equal("%%<install:100:route:false"))
	})

	It("forwards a bus dispatch to an installed relay and answers with the peer's reply", func() {
		peer.send("%%>install:100:route")
		_ = peer.recv() // install ack

		go func() {
			defer GinkgoRecover()
			line := peer.recv()
			Expect(line).To(HavePrefix("%%<message:"))
			fields := strings.SplitN(strings.TrimPrefix(line, "%%<message:"), ":", 2)
			id := fields[0]
			peer.send("%%<message:" + id + ":true:route:accepted")
		}()

		m := message.New("route")
		handled := eng.Dispatch(m)
		Expect(handled).To(BeTrue())
		Expect(m.RetValue).To(Equal("accepted"))
	})

	It("removes a relay on uninstall and acknowledges with the relay's priority", func() {
		peer.send("%%>install:100:route")
		_ = peer.recv()
		peer.send("%%>uninstall:route")
		reply := peer.recv()
		Expect(reply).To(Equal("%%<uninstall:100:route:true"))

		// after uninstall, a dispatch of "route" must not block waiting on
		// the peer -- it should simply report unhandled.
		m := message.New("route")
		handled := eng.Dispatch(m)
		Expect(handled).To(BeFalse())
	})

	It("acknowledges watch and unwatch", func() {
		peer.send("%%>watch:route")
		reply := peer.recv()
		Expect(reply).To(Equal("%%<watch:route:true"))

		peer.send("%%>unwatch:route")
		reply = peer.recv()
		Expect(reply).To(Equal("%%<unwatch:route:true"))
	})

	It("mirrors a matching dispatch to a watcher without consuming it", func() {
		peer.send("%%>watch:route")
		_ = peer.recv() // watch ack

		// The watcher line is written during Dispatch and net.Pipe writes
		// block until read, so Dispatch runs on its own goroutine.
		m := message.New("route")
		result := make(chan bool, 1)
		go func() { result <- eng.Dispatch(m) }()

		line := peer.recv()
		Expect(line).To(HavePrefix("%%<message::"))

		handled := <-result
		Expect(handled).To(BeFalse())
	})

	It("acks its own loopback message with false instead of relaying it back (reentrance disabled by default)", func() {
		peer.send("%%>install:100:loopy")
		_ = peer.recv() // install ack

		peer.send("%%<message:orig-1:0:loopy::")
		reply := peer.recv()
		Expect(reply).To(Equal("%%<message:orig-1:false:loopy:"))
	})

	It("answers setlocal with a value plus an ok flag", func() {
		peer.send("%%>setlocal:timeout:5000")
		reply := peer.recv()
		Expect(reply).To(Equal("%%<setlocal:timeout:5000:true"))
	})

	It("answers an empty-value setlocal with the current setting", func() {
		peer.send("%%>setlocal:maxqueue:250")
		_ = peer.recv()
		peer.send("%%>setlocal:maxqueue:")
		reply := peer.recv()
		Expect(reply).To(Equal("%%<setlocal:maxqueue:250:true"))
	})

	It("rejects an unknown setlocal key", func() {
		peer.send("%%>setlocal:bogus:1")
		reply := peer.recv()
		Expect(reply).To(Equal("%%<setlocal:bogus:1:false"))
	})

	It("does not crash on a debug line and keeps processing afterwards", func() {
		peer.send("%%>debug:2:peer trace line")
		peer.sync()
	})

	It("replies %%<quit and tears down cleanly on quit", func() {
		peer.send("%%>quit")
		reply := peer.recv()
		Expect(reply).To(Equal("%%<quit"))
		Eventually(brg.Done).Should(BeClosed())
		Expect(brg.Dying()).To(BeTrue())
	})

	It("rejects a new dispatch once MaxQueue in-flight requests are outstanding", func() {
		localCfg := extmodule.DefaultConfig()
		localCfg.MaxQueue = 1
		localCfg.Timeout = time.Second

		local2, remote2 := net.Pipe()
		_ = newPeerSide(remote2) // never replies, so the first request stays pending
		brg2 := extmodule.New("maxqueue-bridge", extmodule.RoleUnknown, local2, eng, localCfg)
		go brg2.Run()
		defer brg2.Die("test teardown")

		go func() { _, _ = brg2.SendMessage(message.New("first")) }()
		Eventually(brg2.PendingCount).Should(Equal(1))

		_, err := brg2.SendMessage(message.New("second"))
		Expect(err).To(HaveOccurred())
	})

	It("dies when timebomb is set and a dispatch times out", func() {
		localCfg := extmodule.DefaultConfig()
		localCfg.Timeout = 50 * time.Millisecond
		localCfg.Timebomb = true

		local2, remote2 := net.Pipe()
		peer2 := newPeerSide(remote2)
		brg2 := extmodule.New("timebomb-bridge", extmodule.RoleUnknown, local2, eng, localCfg)
		go brg2.Run()
		defer brg2.Die("test teardown")

		peer2.send("%%>install:100:slow")
		_ = peer2.recv() // install ack

		go func() {
			defer GinkgoRecover()
			_ = peer2.recv() // the dispatch line; deliberately never replied to
		}()

		m := message.New("slow")
		handled := eng.Dispatch(m)
		Expect(handled).To(BeFalse())

		Eventually(brg2.Done).Should(BeClosed())
		Expect(brg2.Dying()).To(BeTrue())
	})
})
