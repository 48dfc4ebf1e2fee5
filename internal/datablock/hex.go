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

package datablock

import (
	"encoding/base64"
	"strings"
)

// allowedSeparators is the set of bytes changeHex/unHexify accept as a
// digit-pair separator.
const allowedSeparators = " :;.,-/|"

// HexifyErr is the negative-code contract of the reference's changeHex:
// ErrAlloc, ErrInvalidNibble, ErrWrongLength map to -1,-2,-3.
type HexifyErr int

const (
	ErrAlloc         HexifyErr = -1
	ErrInvalidNibble HexifyErr = -2
	ErrWrongLength   HexifyErr = -3
)

// Hexify renders b as hex digit pairs joined by sep (0 means no
// separator).
func Hexify(b []byte, sep byte) string {
	var sb strings.Builder
	sb.Grow(len(b)*2 + len(b))
	for i, c := range b {
		if i > 0 && sep != 0 {
			sb.WriteByte(sep)
		}
		const hexdig = "0123456789abcdef"
		sb.WriteByte(hexdig[c>>4])
		sb.WriteByte(hexdig[c&0xf])
	}
	return sb.String()
}

func isSeparator(c byte) bool {
	return strings.IndexByte(allowedSeparators, c) >= 0
}

// UnHexify decodes s into the block at the end, returning the number of
// bytes decoded or a negative HexifyErr code. On error the block is left
// unmodified. When sep is 0 and guessSep is true, sep becomes the first
// character of s found in allowedSeparators. Every occurrence of sep is
// skipped, or, with sep still 0, every character of allowedSeparators;
// the number and placement of separators are not checked.
func (d *DataBlock) UnHexify(s string, sep byte, guessSep bool, emptyOk bool) int {
	if s == "" {
		if emptyOk {
			return 0
		}
		return int(ErrWrongLength)
	}

	if sep == 0 && guessSep {
		for i := 0; i < len(s); i++ {
			if isSeparator(s[i]) {
				sep = s[i]
				break
			}
		}
	}

	digits := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if sep != 0 && c == sep {
			continue
		}
		if sep == 0 && isSeparator(c) {
			continue
		}
		digits = append(digits, c)
	}

	if len(digits)%2 != 0 {
		return int(ErrWrongLength)
	}

	out := make([]byte, len(digits)/2)
	for i := 0; i < len(out); i++ {
		hi, ok1 := hexVal(digits[2*i])
		lo, ok2 := hexVal(digits[2*i+1])
		if !ok1 || !ok2 {
			return int(ErrInvalidNibble)
		}
		out[i] = hi<<4 | lo
	}

	d.Change(d.Len(), out, 0, 0, false)
	return len(out)
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

// Base64Encode returns the standard base64 form of the block's contents.
func (d *DataBlock) Base64Encode() string {
	return base64.StdEncoding.EncodeToString(d.buf)
}

// Base64Decode appends the decoded form of s to the block.
func (d *DataBlock) Base64Decode(s string) error {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return err
	}
	d.Change(d.Len(), b, 0, 0, false)
	return nil
}
