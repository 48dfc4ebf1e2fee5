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

package listener_test

import (
	"net"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/telebridge/bus"
	"github.com/nabbar/telebridge/extmodule"
	"github.com/nabbar/telebridge/listener"
)

var _ = Describe("Listener", func() {
	var (
		eng bus.Engine
		reg *extmodule.Registry
		cfg extmodule.Config
		l   *listener.Listener
	)

	BeforeEach(func() {
		eng = bus.New(2, 16)
		reg = extmodule.NewRegistry()
		cfg = extmodule.DefaultConfig()
		cfg.Timeout = time.Second

		var err error
		l, err = listener.New(listener.Config{Name: "test", Network: "tcp", Address: "127.0.0.1:0"}, eng, reg, cfg)
		Expect(err).NotTo(HaveOccurred())

		go func() { _ = l.Serve() }()
	})

	AfterEach(func() {
		_ = l.Close()
		reg.HaltAll("test teardown")
		eng.Close()
	})

	It("binds an ephemeral port that accepts connections", func() {
		Expect(l.Addr()).NotTo(BeNil())

		conn, err := net.DialTimeout("tcp", l.Addr().String(), time.Second)
		Expect(err).NotTo(HaveOccurred())
		defer conn.Close()

		Eventually(func() int { return reg.Count() }).Should(Equal(1))
	})

	It("removes a bridge from the registry once its connection closes", func() {
		conn, err := net.DialTimeout("tcp", l.Addr().String(), time.Second)
		Expect(err).NotTo(HaveOccurred())

		Eventually(func() int { return reg.Count() }).Should(Equal(1))

		conn.Close()
		Eventually(func() int { return reg.Count() }, 2*time.Second).Should(Equal(0))
	})

	It("stops accepting new connections after Close", func() {
		Expect(l.Close()).To(Succeed())

		_, err := net.DialTimeout("tcp", l.Addr().String(), 200*time.Millisecond)
		Expect(err).To(HaveOccurred())
	})
})
