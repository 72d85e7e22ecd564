/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
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

package reactord

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
)

// errEOF marks an orderly peer shutdown seen as a zero-byte, nil-error
// read(2): unlike a transient EAGAIN it must close the connection.
var errEOF = errors.New("reactord: connection closed by peer")

// errHookFatal substitutes for a nil error when a custom transport
// hook (§4.4) reports a fatal n<0 result without one, so the fd still
// closes instead of being mistaken for the transient n=0 case.
var errHookFatal = errors.New("reactord: transport hook reported a fatal error")

// envChildMarker and envListenFd implement Settings.Processes > 1 by
// re-exec rather than fork(2): Go's runtime cannot safely fork a
// multi-threaded process, so the parent instead execs Processes-1
// copies of the running binary, handing each the already-bound
// listener fd through ExtraFiles. The parent keeps serving alongside
// its children, matching §4.8's "processes > 1 forks processes-1
// children; the parent also serves".
const (
	envChildMarker = "REACTORD_CHILD"
	envListenFd    = "REACTORD_LISTEN_FD"
)

// listenerFile dups the listener's fd into an *os.File the caller owns
// (net.Listener.Close does not affect it), so raw accept(2) can run
// directly against it outside Go's runtime netpoller.
func listenerFile(ln net.Listener) (*os.File, error) {
	type fileListener interface {
		File() (*os.File, error)
	}

	fl, ok := ln.(fileListener)
	if !ok {
		return nil, fmt.Errorf("reactord: listener type %T has no File()", ln)
	}
	return fl.File()
}

// inheritedListener reconstructs the bound listener from the fd handed
// down by a re-exec'd parent (see spawnChildren), when this process is
// running as one of Settings.Processes's children.
func inheritedListener() (net.Listener, bool) {
	if os.Getenv(envChildMarker) != "1" {
		return nil, false
	}
	f := os.NewFile(3, "reactord-listener")
	if f == nil {
		return nil, false
	}
	ln, err := net.FileListener(f)
	_ = f.Close()
	if err != nil {
		return nil, false
	}
	return ln, true
}

// spawnChildren execs Settings.Processes-1 copies of the running
// binary, each inheriting the bound listener fd. A no-op when
// Processes <= 1 or this process is itself already a spawned child
// (children never spawn further children).
func (s *Server) spawnChildren() error {
	if s.settings.Processes <= 1 || os.Getenv(envChildMarker) == "1" {
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return err
	}

	for i := 1; i < s.settings.Processes; i++ {
		f, ferr := listenerFile(s.ln)
		if ferr != nil {
			return ferr
		}

		cmd := exec.Command(exe, os.Args[1:]...)
		cmd.Env = append(os.Environ(), envChildMarker+"=1", envListenFd+"=3")
		cmd.ExtraFiles = []*os.File{f}
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Start(); err != nil {
			_ = f.Close()
			return err
		}
		_ = f.Close()
		s.children = append(s.children, cmd.Process)
	}

	return nil
}
