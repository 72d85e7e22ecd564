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

// Package ticker wraps time.Ticker into a start/stop-able goroutine,
// used by the timer package to drive run_every registrations.
package ticker

import (
	"context"
	"sync"
	"time"
)

// Func is invoked on every tick. Returning a non-nil error stops the ticker.
type Func func(ctx context.Context, tck *time.Ticker) error

// Ticker runs a Func periodically until Stop is called or Func errors.
type Ticker interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type ticker struct {
	mu  sync.Mutex
	d   time.Duration
	fn  Func
	cnl context.CancelFunc
	wg  sync.WaitGroup
}

// New returns a Ticker that calls fn every d. A nil fn makes Start a no-op.
func New(d time.Duration, fn Func) Ticker {
	return &ticker{d: d, fn: fn}
}

func (t *ticker) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cnl != nil {
		t.cnl()
		t.wg.Wait()
	}

	if t.fn == nil || t.d <= 0 {
		return nil
	}

	cctx, cnl := context.WithCancel(ctx)
	t.cnl = cnl

	tk := time.NewTicker(t.d)

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer tk.Stop()

		for {
			select {
			case <-cctx.Done():
				return
			case <-tk.C:
				if err := t.fn(cctx, tk); err != nil {
					return
				}
			}
		}
	}()

	return nil
}

func (t *ticker) Stop(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cnl != nil {
		t.cnl()
		t.wg.Wait()
		t.cnl = nil
	}

	return nil
}
