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

package reactor

import "time"

// Interest is the set of events a caller wants notified for an fd.
type Interest uint8

const (
	Readable Interest = 1 << iota
	Writable
)

// Event is one readiness edge delivered by Wait.
type Event struct {
	Fd       int
	Readable bool
	Writable bool
	Hup      bool
}

// Reactor is the readiness notifier of §4.1.
type Reactor interface {
	// Register starts watching fd for the given interests.
	Register(fd int, interest Interest) error
	// Modify changes the interests watched for an already-registered fd.
	Modify(fd int, interest Interest) error
	// Unregister stops watching fd. Safe to call even if fd was never
	// registered or was already closed out from under the reactor.
	Unregister(fd int) error
	// Wait blocks up to timeout for at least one event, returning the
	// batch delivered. A zero-length, nil-error result means the wait
	// timed out with nothing ready (the orchestrator's on_idle case).
	Wait(timeout time.Duration) ([]Event, error)
	// Close releases the underlying notifier. Further calls fail.
	Close() error
}

// New returns a Reactor backed by the platform's native notifier.
func New() (Reactor, error) {
	return newReactor()
}
