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

// Package reactord is the public facade of the reactor-based TCP server
// framework: it binds a listener, owns the connection table, reactor,
// thread pool and timer facility, and turns readiness events into a
// Protocol's callbacks.
//
// A minimal server:
//
//	s := reactord.New(reactord.Settings{
//	    Server:   config.Server{Network: protocol.NetworkTCP, Address: ":8080"},
//	    Protocol: protocol.Protocol{Name: "echo", OnRead: echo},
//	})
//	if err := s.Listen(); err != nil { ... }
//
// Listen blocks until Stop or StopAll is called, or SIGINT/SIGTERM is
// received, at which point every active connection observes on_close
// and the process-wide registry drops the server.
package reactord
