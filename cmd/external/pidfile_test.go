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

package main

import (
	"os"
	"syscall"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("pidfile bookkeeping", func() {
	It("round-trips a pid through write/read", func() {
		Expect(writePidFile("roundtrip", 4242)).To(Succeed())
		pid, err := readPidFile("roundtrip")
		Expect(err).NotTo(HaveOccurred())
		Expect(pid).To(Equal(4242))
		Expect(removePidFile("roundtrip")).To(Succeed())
	})

	It("fails to read a pidfile that was never written", func() {
		_, err := readPidFile("never-started")
		Expect(err).To(HaveOccurred())
	})

	It("sanitizes a name containing a path separator", func() {
		Expect(sanitizeName("a/b")).To(Equal("a_b"))
		Expect(sanitizeName("plain")).To(Equal("plain"))
	})

	It("signals the current process via its own pidfile", func() {
		Expect(writePidFile("self", os.Getpid())).To(Succeed())
		defer removePidFile("self")

		// Signal 0 probes for existence without actually delivering a
		// signal, the standard kill(2) idiom.
		Expect(signalScript("self", syscall.Signal(0))).To(Succeed())
	})

	It("reports an error signalling a name with no pidfile", func() {
		Expect(signalScript("ghost", syscall.SIGTERM)).To(HaveOccurred())
	})
})
