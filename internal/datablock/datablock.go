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

// Package datablock implements a variable-size byte buffer with
// over-allocation, the single change/cut mutating primitive the reference
// funnels every insert/append/cut through, plus hex/base64 codecs and
// G.711 transcoding tables.
package datablock

// DataBlock owns a resizable byte buffer. The invariant length<=allocated
// is maintained by always requesting allocLen(needed) from the Go
// allocator and slicing back down to the exact length.
type DataBlock struct {
	buf       []byte
	overAlloc int
}

// New returns an empty DataBlock with the given over-allocation hint (in
// bytes, rounded up to an 8-byte multiple like every other allocation).
func New(overAlloc int) *DataBlock {
	return &DataBlock{overAlloc: overAlloc}
}

// NewFromBytes returns a DataBlock initialised with a copy of b.
func NewFromBytes(b []byte, overAlloc int) *DataBlock {
	d := New(overAlloc)
	d.Change(0, b, 0, 0, false)
	return d
}

// Len returns the current length.
func (d *DataBlock) Len() int { return len(d.buf) }

// Bytes returns the current contents; callers must not retain the slice
// across further mutation.
func (d *DataBlock) Bytes() []byte { return d.buf }

// allocLen rounds n up to the next 8-byte multiple after padding it with
// the block's over-allocation hint, so a sequence of small appends grows
// the backing array less often at the cost of some slack capacity.
func (d *DataBlock) allocLen(n int) int {
	if n <= 0 {
		return 0
	}
	n += d.overAlloc
	return (n + 7) &^ 7
}

// Change is the single mutating primitive every insert/append/cut funnels
// through: it splices buf (bufLen bytes, or nothing) followed by extra
// bytes of value extraVal at pos, growing the buffer as needed.
//
// mayOverlap must be true when buf may alias d's own storage (e.g. an
// insert built from a slice of the block itself); it forces a copy-before-
// free reallocation instead of an in-place move.
func (d *DataBlock) Change(pos int, buf []byte, extra int, extraVal byte, mayOverlap bool) {
	added := len(buf) + extra
	if added == 0 {
		return
	}
	if pos < 0 {
		pos = 0
	}
	if pos > len(d.buf) {
		pos = len(d.buf)
	}

	newLen := len(d.buf) + added
	mustRealloc := d.buf == nil || mayOverlap || newLen > cap(d.buf)

	if mustRealloc {
		fresh := make([]byte, d.allocLen(newLen))
		copy(fresh, d.buf[:pos])
		copy(fresh[pos+added:], d.buf[pos:])
		d.writeInsert(fresh, pos, buf, extra, extraVal)
		d.buf = fresh[:newLen]
		return
	}

	// In-place: grow the backing slice then move the tail out of the way.
	d.buf = d.buf[:newLen]
	copy(d.buf[pos+added:], d.buf[pos:len(d.buf)-added])
	d.writeInsert(d.buf, pos, buf, extra, extraVal)
}

func (d *DataBlock) writeInsert(dst []byte, pos int, buf []byte, extra int, extraVal byte) {
	n := copy(dst[pos:], buf)
	for i := 0; i < extra; i++ {
		dst[pos+n+i] = extraVal
	}
}

// Cut removes len bytes starting at pos, optionally reallocating down to
// allocLen(newLen); when shrinking from the tail with an unchanged
// allocation footprint the original buffer is kept in place.
func (d *DataBlock) Cut(pos, length int, reAlloc bool) {
	if length <= 0 || pos < 0 || pos >= len(d.buf) {
		return
	}
	end := pos + length
	if end > len(d.buf) {
		end = len(d.buf)
	}
	newLen := len(d.buf) - (end - pos)

	if !reAlloc {
		copy(d.buf[pos:], d.buf[end:])
		d.buf = d.buf[:newLen]
		return
	}

	if end == len(d.buf) && d.allocLen(newLen) == cap(d.buf) {
		d.buf = d.buf[:newLen]
		return
	}

	fresh := make([]byte, d.allocLen(newLen))
	copy(fresh, d.buf[:pos])
	copy(fresh[pos:], d.buf[end:])
	d.buf = fresh[:newLen]
}

// Append is Change at the tail with no extra padding.
func (d *DataBlock) Append(b []byte) { d.Change(len(d.buf), b, 0, 0, false) }

// Clear empties the block.
func (d *DataBlock) Clear() { d.buf = nil }
