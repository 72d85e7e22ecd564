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

package timer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sabouaram/reactord/pool"
	"github.com/sabouaram/reactord/protocol"
	"github.com/sabouaram/reactord/runner/ticker"
)

var errRepsExhausted = errors.New("timer: reps exhausted")

type facility struct {
	pool pool.Pool
}

func (f *facility) RunAfter(d time.Duration, task func(ctx context.Context) error) protocol.Timer {
	ctx, cancel := context.WithCancel(context.Background())

	t := time.AfterFunc(d, func() {
		select {
		case <-ctx.Done():
			return
		default:
		}
		_, _ = f.pool.RunAsync(task)
	})

	return &oneshot{t: t, cancel: cancel}
}

type oneshot struct {
	t      *time.Timer
	cancel context.CancelFunc
}

func (o *oneshot) Stop() {
	o.t.Stop()
	o.cancel()
}

func (f *facility) RunEvery(d time.Duration, reps int, task func(ctx context.Context) error) protocol.Timer {
	var mu sync.Mutex
	remaining := reps

	tk := ticker.New(d, func(ctx context.Context, _ *time.Ticker) error {
		_, _ = f.pool.RunAsync(task)

		if reps == 0 {
			return nil
		}

		mu.Lock()
		remaining--
		exhausted := remaining <= 0
		mu.Unlock()

		if exhausted {
			return errRepsExhausted
		}
		return nil
	})

	_ = tk.Start(context.Background())
	return &periodic{tk: tk}
}

type periodic struct {
	tk ticker.Ticker
}

func (p *periodic) Stop() {
	_ = p.tk.Stop(context.Background())
}
