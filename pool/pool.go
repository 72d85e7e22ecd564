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

	"golang.org/x/sync/semaphore"

	"github.com/sabouaram/reactord/conntable"
	"github.com/sabouaram/reactord/protocol"
	"github.com/sabouaram/reactord/runner/startStop"
)

// queueSize bounds the MPSC task channel; enqueue beyond this returns
// ErrCodeQueueFull rather than blocking the caller (§4.5).
const queueSize = 4096

func newPool(tbl conntable.Table, threads int, onFinishThread func()) Pool {
	if threads < 1 {
		threads = 1
	}

	p := &pool{tbl: tbl, threads: threads, onFinishThread: onFinishThread}

	if threads > 1 {
		cap := threads * 4
		if cap < 8 {
			cap = 8
		}
		p.each = semaphore.NewWeighted(int64(cap))
		p.queue = make(chan func(), queueSize)
		p.runners = make([]startStop.Runner, threads)
		for i := range p.runners {
			p.runners[i] = startStop.New(p.worker, nil)
			_ = p.runners[i].Start(context.Background())
		}
	}

	return p
}

type pool struct {
	tbl            conntable.Table
	threads        int
	onFinishThread func()

	queue   chan func()
	each    *semaphore.Weighted
	runners []startStop.Runner
}

func (p *pool) worker(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			p.drainQueue()
			if p.onFinishThread != nil {
				p.onFinishThread()
			}
			return nil
		case fn := <-p.queue:
			fn()
		}
	}
}

func (p *pool) drainQueue() {
	for {
		select {
		case fn := <-p.queue:
			fn()
		default:
			return
		}
	}
}

func (p *pool) RunAsync(fn func(ctx context.Context) error) (protocol.Task, error) {
	if p.threads <= 1 {
		_ = fn(context.Background())
		return doneTask{}, nil
	}

	t := newTask()
	wrapped := func() {
		defer t.finish()
		if t.cancelled() {
			return
		}
		_ = fn(context.Background())
	}

	select {
	case p.queue <- wrapped:
		return t, nil
	default:
		return nil, ErrCodeQueueFull.Error(nil)
	}
}

func (p *pool) fdRun(fd int, fn FdFunc, fallback func(fd int)) {
	b, err := p.tbl.Lookup(fd, true)
	if err != nil {
		if fallback != nil {
			fallback(fd)
		}
		return
	}
	defer b.Unlock()
	_ = fn(context.Background(), b)
}

func (p *pool) FdTask(fd int, fn FdFunc, fallback func(fd int)) (protocol.Task, error) {
	if p.threads <= 1 {
		p.fdRun(fd, fn, fallback)
		return doneTask{}, nil
	}

	t := newTask()
	wrapped := func() {
		defer t.finish()
		if t.cancelled() {
			return
		}
		p.fdRun(fd, fn, fallback)
	}

	select {
	case p.queue <- wrapped:
		return t, nil
	default:
		return nil, ErrCodeQueueFull.Error(nil)
	}
}

func serviceMatch(service string) func(protocol.Protocol) bool {
	if service == "" {
		return nil
	}
	return func(p protocol.Protocol) bool { return p.Name == service }
}

func (p *pool) Each(service string, fn FdFunc, onFinish func(fd int)) ([]protocol.Task, error) {
	fds := p.tbl.Snapshot(serviceMatch(service))
	tasks := make([]protocol.Task, 0, len(fds))

	gated := func(ctx context.Context, b *conntable.Borrow) error {
		if p.each != nil {
			_ = p.each.Acquire(ctx, 1)
			defer p.each.Release(1)
		}
		err := fn(ctx, b)
		if onFinish != nil {
			onFinish(b.Fd())
		}
		return err
	}

	for _, fd := range fds {
		fd := fd
		fallback := func(fd int) {
			if onFinish != nil {
				onFinish(fd)
			}
		}
		t, err := p.FdTask(fd, gated, fallback)
		if err != nil {
			if onFinish != nil {
				onFinish(fd)
			}
			continue
		}
		tasks = append(tasks, t)
	}

	return tasks, nil
}

func (p *pool) EachBlock(service string, fn FdFunc) {
	fds := p.tbl.Snapshot(serviceMatch(service))
	for _, fd := range fds {
		b, err := p.tbl.Lookup(fd, true)
		if err != nil {
			continue
		}
		_ = fn(context.Background(), b)
		b.Unlock()
	}
}

func (p *pool) Shutdown(ctx context.Context) error {
	for _, r := range p.runners {
		if err := r.Stop(ctx); err != nil {
			return err
		}
	}
	return nil
}
