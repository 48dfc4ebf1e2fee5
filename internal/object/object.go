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

// Package object implements the base polymorphic object and the atomic
// reference-counted object used as the lifetime model for everything the
// bridge hands across goroutine boundaries (bridges, channels, messages).
package object

// GenObject is the base contract for any heap object that wants by-name
// downcast and a canonical string form. Embed Base to get a default
// GetObject/String that only recognises "GenObject" and delegate further
// by overriding GetObject in the embedding type.
type GenObject interface {
	// GetObject returns this instance (as any) if className names it or
	// one of its ancestors, else nil.
	GetObject(className string) any
	// String returns a canonical identifier, empty for the bare base.
	String() string
}

// Base is embedded by every concrete GenObject to provide the default,
// non-polymorphic behaviour; embedders override GetObject to extend the
// chain with their own class name.
type Base struct{}

func (b *Base) GetObject(className string) any {
	if className == "GenObject" {
		return b
	}
	return nil
}

func (b *Base) String() string { return "" }
