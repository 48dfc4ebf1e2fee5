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

package extmodule

import (
	"io"
	"os"
	"os/exec"
	"syscall"

	"github.com/nabbar/telebridge/bus"
	"github.com/nabbar/telebridge/internal/errors"
)

// pipeConn glues a child process's stdout/stdin pipes into one
// io.ReadWriteCloser the Bridge reader/writer can use exactly as it would
// a socket.
type pipeConn struct {
	r *os.File
	w *os.File
}

func (p *pipeConn) Read(b []byte) (int, error)  { return p.r.Read(b) }
func (p *pipeConn) Write(b []byte) (int, error) { return p.w.Write(b) }
func (p *pipeConn) Close() error {
	err1 := p.r.Close()
	err2 := p.w.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// SpawnOptions configures a child-process bridge beyond the base Config.
type SpawnOptions struct {
	Program string
	Args    []string
	Dir     string
	Env     []string
	Chan    ChanMethod // whether fd 3/4 carry audio, per spec.md §4.11
}

// Spawn starts Program as a child, wires its stdin/stdout as the
// protocol stream (fd 0/1) and, when Chan requests it, an additional
// pair of pipes on fd 3/4 for raw audio, then returns a Bridge in
// RoleChannel; the caller starts its Run loop. Process group isolation (Setpgid) keeps a signal sent to
// this process's foreground group -- a Ctrl-C at the controlling
// terminal -- from also reaching the child; Go's fork+exec path does not
// allow installing custom signal dispositions in the child between fork
// and exec the way the reference's forked child does.
func Spawn(id string, opt SpawnOptions, eng bus.Engine, cfg Config) (*Bridge, error) {
	cmd := exec.Command(opt.Program, opt.Args...)
	cmd.Dir = opt.Dir
	cmd.Env = opt.Env
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdinR, stdinW, err := os.Pipe()
	if err != nil {
		return nil, errors.New(errors.CodeSpawnFailed, "stdin pipe", err)
	}
	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		return nil, errors.New(errors.CodeSpawnFailed, "stdout pipe", err)
	}
	cmd.Stdin = stdinR
	cmd.Stdout = stdoutW
	cmd.Stderr = os.Stderr

	var audioInR, audioInW, audioOutR, audioOutW *os.File
	if opt.Chan != ChanMethodNone {
		audioInR, audioInW, err = os.Pipe() // fd3: child reads recorded/inbound audio
		if err != nil {
			return nil, errors.New(errors.CodeSpawnFailed, "audio-in pipe", err)
		}
		audioOutR, audioOutW, err = os.Pipe() // fd4: child writes audio to play
		if err != nil {
			return nil, errors.New(errors.CodeSpawnFailed, "audio-out pipe", err)
		}
		cmd.ExtraFiles = []*os.File{audioInR, audioOutW}
	}

	if err = cmd.Start(); err != nil {
		return nil, errors.New(errors.CodeSpawnFailed, "start "+opt.Program, err)
	}

	// Parent closes the child-owned ends; it keeps the other halves.
	_ = stdinR.Close()
	_ = stdoutW.Close()
	if opt.Chan != ChanMethodNone {
		_ = audioInR.Close()
		_ = audioOutW.Close()
	}

	conn := &pipeConn{r: stdoutR, w: stdinW}
	b := New(id, RoleChannel, conn, eng, cfg)
	b.childPID = cmd.Process.Pid
	b.waitFn = cmd.Wait
	b.chanMethod = opt.Chan

	if opt.Chan != ChanMethodNone {
		b.audio = &audioPipe{
			in:       audioInW,
			out:      audioOutR,
			inPacer:  newPacer(audioBytesPerSecond),
			outPacer: newPacer(audioBytesPerSecond),
		}
	}

	return b, nil
}

// audioPipe is the parent-side handle to a spawned channel's raw-audio
// fds: in carries samples toward the child (fd3), out carries samples
// produced by the child (fd4). Each direction paces itself independently
// at the nominal 16000 B/s rate (spec.md §4.11).
type audioPipe struct {
	in  io.WriteCloser
	out io.ReadCloser

	inPacer  *pacer
	outPacer *pacer
}
