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

package pool

import (
	"context"

	"github.com/sabouaram/reactord/conntable"
	"github.com/sabouaram/reactord/protocol"
)

// FdFunc is a protected callback body: it runs under the fd's slot
// lock, with busy=true, via a Borrow obtained from the connection
// table.
type FdFunc func(ctx context.Context, b *conntable.Borrow) error

// Pool is the thread pool and fd-aware scheduling facade of §4.5.
type Pool interface {
	// RunAsync enqueues fn for execution by a worker. With threads<=1
	// it runs fn on the calling goroutine immediately.
	RunAsync(fn func(ctx context.Context) error) (protocol.Task, error)

	// FdTask enqueues task to run under fd's lock with busy=true. If fd
	// is vacant at execution time, fallback(fd) runs instead; fallback
	// is invoked at most once.
	FdTask(fd int, task FdFunc, fallback func(fd int)) (protocol.Task, error)

	// Each enumerates fds currently occupied whose active protocol's
	// Name equals service (empty string matches any), schedules an
	// FdTask for each, and invokes onFinish(fd) exactly once per fd
	// after that fd's task completes, its fallback runs, or scheduling
	// itself fails (queue full).
	Each(service string, task FdFunc, onFinish func(fd int)) ([]protocol.Task, error)

	// EachBlock is the synchronous variant of Each: it iterates the
	// snapshot in fd order, acquiring and releasing each lock in turn,
	// and returns only once every fd has been visited. Must not be
	// called from inside a protected callback on the same pool.
	EachBlock(service string, task FdFunc)

	// Shutdown stops the worker goroutines, draining any tasks already
	// queued, and invokes the configured on-finish-thread hook once per
	// worker.
	Shutdown(ctx context.Context) error
}

// New builds a Pool backed by tbl. threads is clamped to at least 1;
// values above 1 size the worker pool and the concurrency cap applied
// to Each's fan-out (max(threads*4, 8), per DESIGN.md's resolution of
// the fan-out-cap open question). onFinishThread, if set, runs once
// per worker goroutine as it exits during Shutdown.
func New(tbl conntable.Table, threads int, onFinishThread func()) Pool {
	return newPool(tbl, threads, onFinishThread)
}
