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

package datablock_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/telebridge/internal/datablock"
)

var _ = Describe("DataBlock", func() {
	It("appends bytes and reports length", func() {
		d := datablock.New(0)
		d.Append([]byte("hello"))
		d.Append([]byte(" world"))
		Expect(d.Len()).To(Equal(11))
		Expect(string(d.Bytes())).To(Equal("hello world"))
	})

	It("inserts bytes at an arbitrary position via Change", func() {
		d := datablock.NewFromBytes([]byte("helloworld"), 0)
		d.Change(5, []byte(" "), 0, 0, false)
		Expect(string(d.Bytes())).To(Equal("hello world"))
	})

	It("pads with extraVal bytes when extra is non-zero", func() {
		d := datablock.NewFromBytes([]byte("ab"), 0)
		d.Change(2, nil, 3, '-', false)
		Expect(string(d.Bytes())).To(Equal("ab---"))
	})

	It("removes a middle span with Cut, keeping the capacity", func() {
		d := datablock.NewFromBytes([]byte("hello world"), 0)
		d.Cut(5, 1, false)
		Expect(string(d.Bytes())).To(Equal("helloworld"))
	})

	It("removes a tail span with Cut when reallocating", func() {
		d := datablock.NewFromBytes([]byte("hello world"), 0)
		d.Cut(5, 6, true)
		Expect(string(d.Bytes())).To(Equal("hello"))
	})

	It("is a no-op when Cut is given an out-of-range position", func() {
		d := datablock.NewFromBytes([]byte("hello"), 0)
		d.Cut(10, 1, false)
		Expect(string(d.Bytes())).To(Equal("hello"))
	})

	It("empties on Clear", func() {
		d := datablock.NewFromBytes([]byte("hello"), 0)
		d.Clear()
		Expect(d.Len()).To(Equal(0))
	})
})

var _ = Describe("Hex codec", func() {
	It("renders bytes as lowercase hex pairs with an optional separator", func() {
		Expect(datablock.Hexify([]byte{0xde, 0xad, 0xbe, 0xef}, 0)).To(Equal("deadbeef"))
		Expect(datablock.Hexify([]byte{0xde, 0xad}, ':')).To(Equal("de:ad"))
	})

	It("decodes a separated hex string by auto-detecting the separator", func() {
		d := datablock.New(0)
		n := d.UnHexify("de:ad:be:ef", 0, true, false)
		Expect(n).To(Equal(4))
		Expect(d.Bytes()).To(Equal([]byte{0xde, 0xad, 0xbe, 0xef}))
	})

	It("decodes an unseparated hex string", func() {
		d := datablock.New(0)
		n := d.UnHexify("cafe", 0, false, false)
		Expect(n).To(Equal(2))
		Expect(d.Bytes()).To(Equal([]byte{0xca, 0xfe}))
	})

	It("rejects an odd number of hex digits", func() {
		d := datablock.New(0)
		Expect(d.UnHexify("abc", 0, false, false)).To(Equal(int(datablock.ErrWrongLength)))
	})

	It("rejects a non-hex digit", func() {
		d := datablock.New(0)
		Expect(d.UnHexify("zz", 0, false, false)).To(Equal(int(datablock.ErrInvalidNibble)))
	})

	It("treats an empty string as an error unless emptyOk is set", func() {
		d := datablock.New(0)
		Expect(d.UnHexify("", 0, false, false)).To(Equal(int(datablock.ErrWrongLength)))
		Expect(d.UnHexify("", 0, false, true)).To(Equal(0))
	})

	It("round-trips through base64", func() {
		d := datablock.NewFromBytes([]byte("hello world"), 0)
		enc := d.Base64Encode()

		out := datablock.New(0)
		Expect(out.Base64Decode(enc)).To(Succeed())
		Expect(string(out.Bytes())).To(Equal("hello world"))
	})

	It("rejects malformed base64", func() {
		d := datablock.New(0)
		Expect(d.Base64Decode("not valid base64!!")).To(HaveOccurred())
	})
})

var _ = Describe("G.711 transcoding", func() {
	It("leaves the data untouched when src and dst formats match", func() {
		src := []byte{1, 2, 3, 4}
		out := datablock.Convert(src, datablock.FormatSLin, datablock.FormatSLin)
		Expect(out).To(Equal(src))
	})

	It("round-trips a mid-range linear sample through A-law within quantization tolerance", func() {
		const sample = int16(4000)
		code := datablock.LinearToALaw(sample)
		back := datablock.ALawToLinear(code)
		Expect(int(back)).To(BeNumerically("~", int(sample), 300))
	})

	It("round-trips a mid-range linear sample through mu-law within quantization tolerance", func() {
		const sample = int16(4000)
		code := datablock.LinearToMuLaw(sample)
		back := datablock.MuLawToLinear(code)
		Expect(int(back)).To(BeNumerically("~", int(sample), 300))
	})

	It("maps silence to a small-magnitude code on both companding schemes", func() {
		aZero := datablock.ALawToLinear(datablock.LinearToALaw(0))
		muZero := datablock.MuLawToLinear(datablock.LinearToMuLaw(0))
		Expect(int(aZero)).To(BeNumerically("~", 0, 20))
		Expect(int(muZero)).To(BeNumerically("~", 0, 20))
	})

	It("converts a 16-bit linear buffer to A-law and back to the same sample count", func() {
		lin := []byte{0, 0, 0x10, 0x27, 0xf0, 0xd8} // three little-endian samples
		alaw := datablock.Convert(lin, datablock.FormatSLin, datablock.FormatALaw)
		Expect(alaw).To(HaveLen(3))

		back := datablock.Convert(alaw, datablock.FormatALaw, datablock.FormatSLin)
		Expect(back).To(HaveLen(len(lin)))
	})
})
