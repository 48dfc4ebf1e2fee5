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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/telebridge/extmodule"
)

var _ = Describe("parseLine", func() {
	It("parses a request-direction line", func() {
		tag, reply, rest, ok := extmodule.ParseLineForTest("%%>install:100:route")
		Expect(ok).To(BeTrue())
		Expect(reply).To(BeFalse())
		Expect(tag).To(Equal("install"))
		Expect(rest).To(Equal("100:route"))
	})

	It("parses a reply-direction line", func() {
		tag, reply, rest, ok := extmodule.ParseLineForTest("%%<message:id1:true:route:accepted")
		Expect(ok).To(BeTrue())
		Expect(reply).To(BeTrue())
		Expect(tag).To(Equal("message"))
		Expect(rest).To(Equal("id1:true:route:accepted"))
	})

	It("handles a tag with no remainder", func() {
		tag, _, rest, ok := extmodule.ParseLineForTest("%%>quit")
		Expect(ok).To(BeTrue())
		Expect(tag).To(Equal("quit"))
		Expect(rest).To(Equal(""))
	})

	It("rejects a line without the %% marker", func() {
		_, _, _, ok := extmodule.ParseLineForTest("install:100:route")
		Expect(ok).To(BeFalse())
	})

	It("rejects a direction byte that is neither > nor <", func() {
		_, _, _, ok := extmodule.ParseLineForTest("%%!install:100")
		Expect(ok).To(BeFalse())
	})
})
