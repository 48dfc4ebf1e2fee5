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
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nabbar/telebridge/bus"
	"github.com/nabbar/telebridge/extmodule"
)

// startCmd spawns a single external program as a channel bridge, records
// its pid so a later `external stop <name>` invocation can find it, and
// blocks until the child exits or this process is signalled.
func startCmd() *cobra.Command {
	var restart bool
	cmd := &cobra.Command{
		Use:   "start <name> <program> [args...]",
		Short: "Start one external program as a supervised bridge",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(args[0], args[1], args[2:], restart)
		},
	}
	cmd.Flags().BoolVar(&restart, "restart", false, "respawn the program if it exits")
	return cmd
}

// restartCmd is start with --restart forced on, matching the reference's
// CLI distinction between a one-time start and a supervised one.
func restartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restart <name> <program> [args...]",
		Short: "Start one external program, respawning it if it exits",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(args[0], args[1], args[2:], true)
		},
	}
}

func runScript(name, program string, args []string, restart bool) error {
	eng := bus.New(2, 100)
	defer eng.Close()

	b, err := extmodule.Spawn(name, extmodule.SpawnOptions{Program: program, Args: args}, eng, extmodule.DefaultConfig())
	if err != nil {
		return err
	}
	if err := writePidFile(name, b.PID()); err != nil {
		return fmt.Errorf("pidfile for %s: %w", name, err)
	}

	go b.Run()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-b.Done():
			if !restart {
				_ = removePidFile(name)
				return nil
			}
			b2, err := extmodule.Spawn(name, extmodule.SpawnOptions{Program: program, Args: args}, eng, extmodule.DefaultConfig())
			if err != nil {
				_ = removePidFile(name)
				return fmt.Errorf("respawn %s: %w", name, err)
			}
			b = b2
			if err := writePidFile(name, b.PID()); err != nil {
				return fmt.Errorf("pidfile for %s: %w", name, err)
			}
			go b.Run()
		case <-sig:
			b.Die("signalled")
			_ = removePidFile(name)
			return nil
		}
	}
}
