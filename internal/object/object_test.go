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

package object_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/telebridge/internal/object"
)

var _ = Describe("Base", func() {
	It("resolves GenObject by name and nothing else", func() {
		var b object.Base
		Expect(b.GetObject("GenObject")).To(Equal(&b))
		Expect(b.GetObject("Something")).To(BeNil())
		Expect(b.String()).To(Equal(""))
	})
})

var _ = Describe("Atom", func() {
	It("returns the same pointer for equal text", func() {
		a := object.Atom("hello")
		b := object.Atom("hello")
		Expect(a).To(BeIdenticalTo(b))
	})

	It("returns distinct pointers for distinct text", func() {
		a := object.Atom("distinct-one")
		b := object.Atom("distinct-two")
		Expect(a).NotTo(BeIdenticalTo(b))
	})
})

type fakeDestroyer struct {
	destroyed int
}

func (f *fakeDestroyer) Destroyed() { f.destroyed++ }

var _ = Describe("RefObject", func() {
	It("starts with a reference count of one", func() {
		d := &fakeDestroyer{}
		r := object.NewRefObject(d)
		Expect(r.RefCount()).To(Equal(int32(1)))
	})

	It("invokes the Destroyer exactly once when the count reaches zero", func() {
		d := &fakeDestroyer{}
		r := object.NewRefObject(d)

		Expect(r.Ref()).To(BeTrue())
		Expect(r.RefCount()).To(Equal(int32(2)))

		r.Deref()
		Expect(d.destroyed).To(Equal(0))
		r.Deref()
		Expect(d.destroyed).To(Equal(1))
	})

	It("refuses Ref once the count has dropped to zero", func() {
		d := &fakeDestroyer{}
		r := object.NewRefObject(d)
		r.Deref()
		Expect(r.RefCount()).To(Equal(int32(0)))
		Expect(r.Ref()).To(BeFalse())
	})

	It("Resurrect only succeeds from exactly zero", func() {
		d := &fakeDestroyer{}
		r := object.NewRefObject(d)
		Expect(r.Resurrect()).To(BeFalse()) // count is 1, not 0

		r.Deref()
		Expect(r.Resurrect()).To(BeTrue())
		Expect(r.RefCount()).To(Equal(int32(1)))
	})
})
