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

// Package config wires the bridge runtime's tunables to a viper-backed
// source and a cobra flag set, the way the reference's config.Component
// model separates "what a subsystem needs" (Init/Start/Reload/Stop) from
// "where the values come from" (viper.Viper, cobra flags).
package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Component is the lifecycle contract every configuration section in
// this module implements: Init binds it to a shared viper instance under
// its own key, RegisterFlags exposes cobra flags for the values an
// operator commonly overrides, Load re-reads current values, Start/Stop
// bound any goroutines the section owns.
type Component interface {
	Key() string
	Init(key string, v *viper.Viper)
	RegisterFlags(cmd *cobra.Command) error
	Load() error
	Start() error
	Stop()
}

// Set is an ordered collection of Components, loaded and started
// together the way the reference's Config.Start walks its dependency
// order -- this module's sections have no cross dependencies, so
// insertion order is also start order, and stop runs in reverse.
type Set struct {
	v    *viper.Viper
	comp []Component
}

// NewSet returns an empty Set bound to v.
func NewSet(v *viper.Viper) *Set {
	return &Set{v: v}
}

// Add registers c under its own key and binds it to the shared viper
// instance.
func (s *Set) Add(c Component) {
	c.Init(c.Key(), s.v)
	s.comp = append(s.comp, c)
}

// RegisterFlags wires every component's flags onto cmd.
func (s *Set) RegisterFlags(cmd *cobra.Command) error {
	for _, c := range s.comp {
		if err := c.RegisterFlags(cmd); err != nil {
			return err
		}
	}
	return nil
}

// LoadAll calls Load on every component, in registration order.
func (s *Set) LoadAll() error {
	for _, c := range s.comp {
		if err := c.Load(); err != nil {
			return err
		}
	}
	return nil
}

// StartAll starts every component in registration order.
func (s *Set) StartAll() error {
	for _, c := range s.comp {
		if err := c.Start(); err != nil {
			return err
		}
	}
	return nil
}

// StopAll stops every component in reverse registration order.
func (s *Set) StopAll() {
	for i := len(s.comp) - 1; i >= 0; i-- {
		s.comp[i].Stop()
	}
}
