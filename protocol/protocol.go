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

// Package protocol defines the per-connection callback set ("Protocol"),
// and the Task/Timer handles returned by the thread pool and timer
// facility, shared between the reactord facade, pool, and timer packages.
package protocol

import (
	"context"

	"github.com/sabouaram/reactord/file/progress"
)

// Conn is the minimal surface a Protocol's callbacks need from a
// connection: its file descriptor and the full I/O surface of §6 (read,
// the four write variants, sendfile). The concrete type is provided by
// conntable/writequeue; this package only needs the shape to stay
// decoupled from them.
type Conn interface {
	Fd() int
	// Read performs one direct, non-blocking read (§6 read(fd,buf,max)).
	Read(buf []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	WriteMove(p []byte) (n int, err error)
	WriteUrgent(p []byte) (n int, err error)
	WriteMoveUrgent(p []byte) (n int, err error)
	// SendFile enqueues f as a tail packet, read chunkSize bytes at a
	// time (DefaultChunkSize if <= 0).
	SendFile(f progress.Progress, chunkSize int) error
	Close() error
	Touch()
}

// OnAccept is called right after a new inbound connection is reserved in
// the connection table, before the reactor starts watching it for
// readability. Returning an error closes the connection immediately.
type OnAccept func(ctx context.Context, c Conn) error

// OnRead is called once per readiness edge with the bytes drained from the
// socket since the previous call. It must not retain buf past return.
type OnRead func(ctx context.Context, c Conn, buf []byte) error

// OnWritable is called when a previously full write buffer drains enough
// to accept more data; most protocols leave this nil.
type OnWritable func(ctx context.Context, c Conn) error

// OnClose is called exactly once when a connection's slot is released,
// whether due to peer hangup, local Close, or hijack. Hijacked
// connections do NOT invoke this (see Non-goals).
type OnClose func(ctx context.Context, c Conn)

// OnShutdown is called for every still-active connection during an
// orderly server stop, before its close path runs.
type OnShutdown func(ctx context.Context, c Conn)

// Ping is invoked when a connection's idle timeout counter reaches
// zero. Returning nil keeps the connection open (typically after
// calling Touch to reset the counter); a nil Ping callback means the
// timeout closes the connection directly.
type Ping func(ctx context.Context, c Conn) error

// Protocol bundles the callback set and static parameters a connection is
// dispatched through. set_protocol (§4.7) swaps this value on a live
// connection without touching the connection table slot.
type Protocol struct {
	Name       string
	BufferSize int
	OnAccept   OnAccept
	OnRead     OnRead
	OnWritable OnWritable
	OnShutdown OnShutdown
	OnClose    OnClose
	Ping       Ping
}

// Task is the handle returned by an async dispatch (pool.RunAsync,
// pool.FdTask, pool.Each). Cancel requests best-effort cancellation;
// Wait blocks until the task's callback has returned.
type Task interface {
	Cancel()
	Wait()
}

// Timer is the handle returned by RunAfter/RunEvery. Stop cancels future
// firings; a oneshot timer that already fired makes Stop a no-op.
type Timer interface {
	Stop()
}
