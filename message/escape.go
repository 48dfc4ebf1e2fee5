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

// Package message implements the wire-encodable Message (a NamedList plus
// timestamp/broadcast/trace metadata), its handler/relay/post-hook types,
// and the msg-escape codec the wire protocol in package extmodule relies
// on.
package message

import "strings"

// Escape encodes s for use as a single ':'-delimited wire field: bytes
// below 0x20 and ':' become %X where X = byte+0x40; '%' itself becomes
// '%%'.
func Escape(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '%':
			sb.WriteString("%%")
		case c < 0x20 || c == ':':
			sb.WriteByte('%')
			sb.WriteByte(c + 0x40)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// UnescapeOrEmpty is Unescape for call sites that only log the result and
// would rather see an empty string than thread the error offset through.
func UnescapeOrEmpty(s string) string {
	v, _ := Unescape(s)
	return v
}

// Unescape reverses Escape. It returns the decoded string and the index
// of the first malformed escape, or -1 if the string was well formed.
func Unescape(s string) (string, int) {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '%' {
			sb.WriteByte(c)
			continue
		}
		if i+1 >= len(s) {
			return sb.String(), i
		}
		n := s[i+1]
		if n == '%' {
			sb.WriteByte('%')
			i++
			continue
		}
		if n < 0x40 {
			return sb.String(), i
		}
		sb.WriteByte(n - 0x40)
		i++
	}
	return sb.String(), -1
}
