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

// Package reactor implements the readiness notifier of §4.1: a thin
// wrapper around epoll that registers/unregisters fds for readable,
// writable, and hangup events and delivers them in batches from Wait.
//
// Trigger mode is edge-triggered (EPOLLET): each Wait call reports a
// readiness edge at most once per fd until the caller re-arms it by
// draining the socket (or the write buffer) fully, per §4.1 and §4.3's
// drain-fully-or-rearm rule. This is resolved Open Question (a) in
// DESIGN.md.
//
// Register/Unregister are safe to call from any goroutine, including
// from within a dispatched callback running on a worker — the close
// path needs this since a connection can be closed by a worker
// goroutine that is not the one running the reactor's Wait loop.
//
// Only the Linux epoll backend is implemented; other platforms get a
// constructor that returns an error, matching the spec's implicit
// Linux-server target (§1 lists epoll by name) rather than a
// best-effort kqueue/IOCP port this exercise has no way to validate.
package reactor
