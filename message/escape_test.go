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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/telebridge/message"
)

var _ = Describe("Escape", func() {
	It("leaves plain text untouched", func() {
		Expect(message.Escape("hello")).To(Equal("hello"))
	})

	It("escapes the percent sign as a doubled percent", func() {
		Expect(message.Escape("100%")).To(Equal("100%%"))
	})

	It("escapes a colon as %: shifted by 0x40", func() {
		Expect(message.Escape("a:b")).To(Equal("a%zb"))
	})

	It("escapes control bytes below 0x20", func() {
		Expect(message.Escape("a\nb")).To(Equal("a%Jb"))
	})

	It("round-trips arbitrary text through Escape/Unescape", func() {
		for _, s := range []string{"", "plain", "with:colon", "50%off", "line\nbreak", "%already%escaped%"} {
			enc := message.Escape(s)
			dec, off := message.Unescape(enc)
			Expect(off).To(Equal(-1))
			Expect(dec).To(Equal(s))
		}
	})

	It("reports the offset of a truncated escape", func() {
		_, off := message.Unescape("abc%")
		Expect(off).To(Equal(3))
	})

	It("reports the offset of an escape byte below the valid range", func() {
		_, off := message.Unescape("abc%\x01")
		Expect(off).To(Equal(3))
	})
})
