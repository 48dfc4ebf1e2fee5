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

// Package errors provides coded errors with parent chaining for the bridge
// runtime, mirroring the error model used across the rest of the stack:
// a numeric code, an optional parent error, and a stable String/Error form.
package errors

import (
	"fmt"
)

// Code classifies an Error the way an HTTP status loosely classifies a
// response: a coarse bucket a caller can switch on without string matching.
type Code uint16

const (
	CodeUnknown Code = iota
	CodeMalformedLine
	CodeUnknownHandler
	CodeDuplicateInstall
	CodeTimeout
	CodePeerClosed
	CodeOverflow
	CodeSpawnFailed
	CodeListenFailed
	CodeAlreadyDead
	CodeInvalidState
	CodeConfig
)

// Error is the coded error built by New and Newf, so callers can branch on
// Code() without parsing message text. Function signatures across the
// module return the plain error interface, and some failures (the config
// loaders, for one) are plain wrapped errors rather than Error values.
type Error interface {
	error
	Code() Code
	IsCode(c Code) bool
	Parent() error
	Unwrap() error
}

type codeError struct {
	code Code
	msg  string
	pare error
}

// New builds an Error with the given code, message and optional parent.
func New(code Code, msg string, parent ...error) Error {
	e := &codeError{code: code, msg: msg}
	if len(parent) > 0 {
		e.pare = parent[0]
	}
	return e
}

// Newf is New with a fmt.Sprintf-formatted message.
func Newf(code Code, pattern string, args ...any) Error {
	return New(code, fmt.Sprintf(pattern, args...))
}

func (e *codeError) Error() string {
	if e.pare != nil {
		return fmt.Sprintf("[%d] %s: %s", e.code, e.msg, e.pare.Error())
	}
	return fmt.Sprintf("[%d] %s", e.code, e.msg)
}

func (e *codeError) Code() Code { return e.code }

func (e *codeError) IsCode(c Code) bool { return e.code == c }

func (e *codeError) Parent() error { return e.pare }

func (e *codeError) Unwrap() error { return e.pare }
