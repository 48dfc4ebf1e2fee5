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

import "sync"

// Format names the sample encodings Convert transcodes between.
type Format int

const (
	FormatSLin Format = iota // 16-bit linear PCM, little-endian
	FormatALaw
	FormatMuLaw
)

var (
	tblOnce               sync.Once
	linToALawTbl          [65536]byte
	linToMuLawTbl         [65536]byte
	aLawToLinTbl          [256]int16
	muLawToLinTbl         [256]int16
)

const (
	muLawBias = 0x84
	muLawClip = 32635
)

// buildTables precomputes the G.711 A-law/mu-law <-> linear lookup tables
// by inverting the reference ITU-T G.711 decoder over the full signed
// 16-bit range, run once at first use.
func buildTables() {
	for i := 0; i < 256; i++ {
		aLawToLinTbl[i] = aLawDecode(byte(i))
		muLawToLinTbl[i] = muLawDecode(byte(i))
	}
	for i := 0; i < 65536; i++ {
		s := int16(i)
		linToALawTbl[i] = aLawEncode(s)
		linToMuLawTbl[i] = muLawEncode(s)
	}
}

func ensureTables() {
	tblOnce.Do(buildTables)
}

func aLawEncode(pcm int16) byte {
	const sign = 0x80
	s := int(pcm)
	var mask byte = sign
	if s < 0 {
		s = -s - 1
		mask = 0
	}
	if s > 0x7fff {
		s = 0x7fff
	}
	s >>= 3

	var seg int
	for seg = 0; seg < 8; seg++ {
		if s < (1 << (seg + 5)) {
			break
		}
	}
	if seg >= 8 {
		seg = 7
	}

	var aval byte
	if seg == 0 {
		aval = byte(s >> 1)
	} else {
		aval = byte(seg<<4) | byte((s>>uint(seg))&0x0f)
	}
	return (aval | mask) ^ 0x55
}

func aLawDecode(a byte) int16 {
	a ^= 0x55
	seg := int((a & 0x70) >> 4)
	mant := int(a & 0x0f)

	var s int
	if seg == 0 {
		s = (mant << 1) | 1
	} else {
		s = ((mant << 1) | 0x21) << uint(seg-1)
	}
	s <<= 3
	if a&0x80 == 0 {
		s = -s
	}
	return int16(s)
}

func muLawEncode(pcm int16) byte {
	s := int(pcm)
	var sign byte
	if s < 0 {
		sign = 0x80
		s = -s
	}
	s += muLawBias
	if s > muLawClip {
		s = muLawClip
	}

	var seg int
	for seg = 0; seg < 8; seg++ {
		if s < (1 << (seg + 8)) {
			break
		}
	}
	if seg >= 8 {
		seg = 7
	}

	mant := byte((s >> uint(seg+3)) & 0x0f)
	mu := sign | byte(seg<<4) | mant
	return ^mu
}

func muLawDecode(mu byte) int16 {
	mu = ^mu
	sign := mu & 0x80
	seg := (mu & 0x70) >> 4
	mant := mu & 0x0f

	s := ((int(mant) << 3) + muLawBias) << uint(seg)
	s -= muLawBias
	if sign != 0 {
		s = -s
	}
	return int16(s)
}

// Convert transcodes src (already sliced to the desired length) from
// srcFormat to dstFormat, returning the destination bytes.
func Convert(src []byte, srcFormat, dstFormat Format) []byte {
	ensureTables()

	if srcFormat == dstFormat {
		return append([]byte(nil), src...)
	}

	lin := toLinear(src, srcFormat)
	return fromLinear(lin, dstFormat)
}

func toLinear(src []byte, f Format) []int16 {
	switch f {
	case FormatSLin:
		out := make([]int16, len(src)/2)
		for i := range out {
			out[i] = int16(uint16(src[2*i]) | uint16(src[2*i+1])<<8)
		}
		return out
	case FormatALaw:
		out := make([]int16, len(src))
		for i, b := range src {
			out[i] = aLawToLinTbl[b]
		}
		return out
	case FormatMuLaw:
		out := make([]int16, len(src))
		for i, b := range src {
			out[i] = muLawToLinTbl[b]
		}
		return out
	}
	return nil
}

func fromLinear(lin []int16, f Format) []byte {
	switch f {
	case FormatSLin:
		out := make([]byte, len(lin)*2)
		for i, s := range lin {
			out[2*i] = byte(uint16(s))
			out[2*i+1] = byte(uint16(s) >> 8)
		}
		return out
	case FormatALaw:
		out := make([]byte, len(lin))
		for i, s := range lin {
			out[i] = linToALawTbl[uint16(s)]
		}
		return out
	case FormatMuLaw:
		out := make([]byte, len(lin))
		for i, s := range lin {
			out[i] = linToMuLawTbl[uint16(s)]
		}
		return out
	}
	return nil
}

// ALawToLinear decodes one A-law byte.
func ALawToLinear(a byte) int16 { ensureTables(); return aLawToLinTbl[a] }

// LinearToALaw encodes one linear sample.
func LinearToALaw(s int16) byte { ensureTables(); return linToALawTbl[uint16(s)] }

// MuLawToLinear decodes one mu-law byte.
func MuLawToLinear(m byte) int16 { ensureTables(); return muLawToLinTbl[m] }

// LinearToMuLaw encodes one linear sample.
func LinearToMuLaw(s int16) byte { ensureTables(); return linToMuLawTbl[uint16(s)] }
