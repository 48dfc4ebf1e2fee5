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

// Package namedlist implements the ordered name/value multimap every
// Message is built on top of: NamedString pairs, ${name} substitution,
// and name/regexp based bulk operations.
package namedlist

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// NamedString is one name/value pair. An optional owned payload (the
// reference's NamedPointer) is carried in Data and released by the caller
// when the value changes -- Go's GC makes an explicit release hook
// unnecessary, so Data is just replaced.
type NamedString struct {
	Name  string
	Value string
	Data  any
}

// NamedList is an ordered, duplicate-permitting list of NamedString.
type NamedList struct {
	name   string
	params []*NamedString
}

// New returns an empty NamedList carrying its own name (the reference's
// NamedList : String base).
func New(name string) *NamedList {
	return &NamedList{name: name}
}

// Name returns the list's own name.
func (n *NamedList) Name() string { return n.name }

// Len returns the number of parameters.
func (n *NamedList) Len() int { return len(n.params) }

// Append adds a parameter, permitting duplicate names.
func (n *NamedList) Append(name, value string) {
	n.params = append(n.params, &NamedString{Name: name, Value: value})
}

// SetParam replaces the first parameter named name with value. When
// clearOther is true every further duplicate of name is also removed.
func (n *NamedList) SetParam(name, value string, clearOther bool) {
	found := false
	out := n.params[:0]
	for _, p := range n.params {
		if p.Name == name {
			if !found {
				p.Value = value
				out = append(out, p)
				found = true
			} else if !clearOther {
				out = append(out, p)
			}
			continue
		}
		out = append(out, p)
	}
	n.params = out
	if !found {
		n.Append(name, value)
	}
}

// GetParam returns the first value for name and whether it was present.
func (n *NamedList) GetParam(name string) (string, bool) {
	for _, p := range n.params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// GetIntParam parses the named value as an integer, returning def when
// absent or unparsable.
func (n *NamedList) GetIntParam(name string, def int64) int64 {
	v, ok := n.GetParam(name)
	if !ok {
		return def
	}
	i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return def
	}
	return i
}

// GetBoolParam parses the named value as a bool ("true"/"yes"/"1" and
// their opposites), returning def when absent or unparsable.
func (n *NamedList) GetBoolParam(name string, def bool) bool {
	v, ok := n.GetParam(name)
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "yes", "on", "1", "enable":
		return true
	case "false", "no", "off", "0", "disable":
		return false
	default:
		return def
	}
}

// ClearParam removes every parameter named name.
func (n *NamedList) ClearParam(name string) {
	out := n.params[:0]
	for _, p := range n.params {
		if p.Name != name {
			out = append(out, p)
		}
	}
	n.params = out
}

// ClearParamRegexp removes every parameter whose name matches re.
func (n *NamedList) ClearParamRegexp(re *regexp.Regexp) {
	out := n.params[:0]
	for _, p := range n.params {
		if !re.MatchString(p.Name) {
			out = append(out, p)
		}
	}
	n.params = out
}

// CopySubset copies every parameter from src whose name has the given
// prefix, stripping the prefix from the copied name.
func (n *NamedList) CopySubset(src *NamedList, prefix string) int {
	count := 0
	for _, p := range src.params {
		if strings.HasPrefix(p.Name, prefix) {
			n.Append(strings.TrimPrefix(p.Name, prefix), p.Value)
			count++
		}
	}
	return count
}

// Each iterates all parameters in insertion order.
func (n *NamedList) Each(f func(name, value string) bool) {
	for _, p := range n.params {
		if !f(p.Name, p.Value) {
			return
		}
	}
}

// ReplaceParams scans str for ${name} occurrences (no nesting supported)
// and substitutes the current parameter value, optionally SQL-escaping
// it. It returns the number of substitutions made, or -1 on an
// unterminated placeholder.
func (n *NamedList) ReplaceParams(str string, sqlEscape bool) (string, int) {
	var sb strings.Builder
	count := 0
	i := 0
	for i < len(str) {
		if str[i] == '$' && i+1 < len(str) && str[i+1] == '{' {
			end := strings.IndexByte(str[i+2:], '}')
			if end < 0 {
				return sb.String(), -1
			}
			name := str[i+2 : i+2+end]
			val, _ := n.GetParam(name)
			if sqlEscape {
				val = sqlEscapeString(val)
			}
			sb.WriteString(val)
			count++
			i += 2 + end + 1
			continue
		}
		sb.WriteByte(str[i])
		i++
	}
	return sb.String(), count
}

func sqlEscapeString(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\'', '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// String renders the list as "name,name1=value1,name2=value2" the way the
// reference's NamedList::String does for diagnostics.
func (n *NamedList) String() string {
	var sb strings.Builder
	sb.WriteString(n.name)
	for _, p := range n.params {
		sb.WriteByte(',')
		fmt.Fprintf(&sb, "%s=%s", p.Name, p.Value)
	}
	return sb.String()
}
