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

package message_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/telebridge/message"
)

var _ = Describe("Message", func() {
	It("round-trips name, retvalue and params through Encode/Decode", func() {
		m := message.New("call.execute")
		m.RetValue = "ok"
		m.Append("caller", "1000")
		m.Append("callto", "sip/2000")

		line := m.Encode("req-1", true)
		Expect(strings.HasPrefix(line, "%%<message:")).To(BeTrue())

		body := strings.TrimPrefix(line, "%%<message:")
		id, field1, decoded, badOffset := message.Decode(body)
		Expect(badOffset).To(Equal(-1))
		Expect(id).To(Equal("req-1"))
		Expect(field1).NotTo(BeEmpty())
		Expect(decoded.Name).To(Equal("call.execute"))
		Expect(decoded.RetValue).To(Equal("ok"))

		v, ok := decoded.GetParam("caller")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("1000"))
	})

	It("zeroes the timestamp when settime is false", func() {
		m := message.New("test")
		line := m.Encode("", false)
		Expect(line).To(ContainSubstring(":0:test:"))
	})

	It("escapes colons inside parameter values", func() {
		m := message.New("test")
		m.Append("uri", "sip:user@host")
		line := m.Encode("", true)
		Expect(line).To(ContainSubstring("uri=sip%zuser@host"))
	})
})
