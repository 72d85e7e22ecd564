/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

// Package startStop wraps a pair of start/stop functions into a single
// goroutine-backed runner with idempotent Stop and uptime tracking.
// It is the building block used by the pool package for its worker
// goroutines and by the reactor's dispatch loop.
package startStop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Func is a start or stop function bound to a context. It must return
// when ctx is cancelled.
type Func func(ctx context.Context) error

// Runner manages the lifecycle of a single background goroutine.
type Runner interface {
	// Start launches the start function in a new goroutine, stopping any
	// previously running instance first.
	Start(ctx context.Context) error
	// Stop cancels the running goroutine and runs the stop function. It
	// is idempotent: calling Stop when not running is a no-op.
	Stop(ctx context.Context) error
	// Restart is Stop followed by Start.
	Restart(ctx context.Context) error
	// IsRunning reports whether the start function is currently executing.
	IsRunning() bool
	// Uptime returns the duration since the last successful Start, or
	// zero if not running.
	Uptime() time.Duration
}

type runner struct {
	mu   sync.Mutex
	fnS  Func
	fnK  Func
	run  atomic.Bool
	cnl  context.CancelFunc
	wg   sync.WaitGroup
	strt atomic.Int64
}

// New returns a Runner wrapping the given start/stop functions. Either may
// be nil; calling Start/Stop with a nil function is a no-op for that step.
func New(start, stop Func) Runner {
	return &runner{
		fnS: start,
		fnK: stop,
	}
}

func (r *runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.run.Load() {
		r.stopLocked(ctx)
	}

	if r.fnS == nil {
		return nil
	}

	cctx, cnl := context.WithCancel(ctx)
	r.cnl = cnl
	r.run.Store(true)
	r.strt.Store(time.Now().UnixNano())

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.run.Store(false)
		_ = r.fnS(cctx)
	}()

	return nil
}

func (r *runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.stopLocked(ctx)
}

func (r *runner) stopLocked(ctx context.Context) error {
	if !r.run.Load() {
		return nil
	}

	if r.cnl != nil {
		r.cnl()
	}

	r.wg.Wait()
	r.run.Store(false)
	r.strt.Store(0)

	if r.fnK != nil {
		return r.fnK(ctx)
	}

	return nil
}

func (r *runner) Restart(ctx context.Context) error {
	if err := r.Stop(ctx); err != nil {
		return err
	}

	return r.Start(ctx)
}

func (r *runner) IsRunning() bool {
	return r.run.Load()
}

func (r *runner) Uptime() time.Duration {
	s := r.strt.Load()
	if s == 0 || !r.run.Load() {
		return 0
	}

	return time.Since(time.Unix(0, s))
}
