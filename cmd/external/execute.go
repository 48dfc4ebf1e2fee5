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

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nabbar/telebridge/bus"
	"github.com/nabbar/telebridge/extmodule"
	"github.com/nabbar/telebridge/message"
)

// executeCmd is the msgexec-style one-shot entry point: spawn program,
// hand it a single "execute" message built from the remaining arguments
// as name=value parameters, print whatever it replies with and exit.
func executeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "execute <program> [name=value...]",
		Short: "Run a program once, pass it a single message, print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			program := args[0]
			m := message.New("execute")
			for _, kv := range args[1:] {
				name, value := splitKV(kv)
				m.Append(name, value)
			}

			eng := bus.New(1, 10)
			defer eng.Close()

			reply, err := extmodule.RunOnce(program, nil, m, eng, extmodule.DefaultConfig())
			if err != nil {
				return err
			}
			fmt.Println(reply.Encode("", true))
			return nil
		},
	}
}

func splitKV(s string) (string, string) {
	for i := 0; i < len(s); i++ {
		if s[i] == '=' {
			return s[:i], s[i+1:]
		}
	}
	return s, ""
}
