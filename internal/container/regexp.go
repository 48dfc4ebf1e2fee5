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

package container

import "regexp"

// Regexp lazily compiles a POSIX-flavoured pattern and re-compiles on any
// change to the source, mirroring the reference's "compile on first use,
// recompile if the pattern string changed" behaviour.
type Regexp struct {
	source        string
	caseSensitive bool
	compiled      *regexp.Regexp
}

// NewRegexp returns a Regexp over pattern. Go's RE2 engine is used instead
// of POSIX ERE; case-insensitivity is requested via the usual (?i) prefix
// the stdlib regexp package understands.
func NewRegexp(pattern string, caseInsensitive bool) *Regexp {
	return &Regexp{source: pattern, caseSensitive: !caseInsensitive}
}

func (r *Regexp) compile() error {
	if r.compiled != nil {
		return nil
	}
	pat := r.source
	if !r.caseSensitive {
		pat = "(?i)" + pat
	}
	c, err := regexp.Compile(pat)
	if err != nil {
		return err
	}
	c.Longest()
	r.compiled = c
	return nil
}

// SetSource changes the pattern, forcing recompilation on next use.
func (r *Regexp) SetSource(pattern string) {
	if pattern != r.source {
		r.source = pattern
		r.compiled = nil
	}
}

// Source returns the current pattern text.
func (r *Regexp) Source() string { return r.source }

// Matches reports whether s matches, along with up to 9 capture groups
// plus the whole match at index 0 -- the fixed-size submatch array the
// reference fills.
func (r *Regexp) Matches(s string) (matched bool, groups [10]string) {
	if err := r.compile(); err != nil {
		return false, groups
	}
	m := r.compiled.FindStringSubmatch(s)
	if m == nil {
		return false, groups
	}
	for i := 0; i < len(m) && i < len(groups); i++ {
		groups[i] = m[i]
	}
	return true, groups
}
