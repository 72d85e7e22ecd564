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
	"time"

	"github.com/sabouaram/reactord/pool"
	"github.com/sabouaram/reactord/protocol"
)

// Facility is the timer registration surface of §4.6.
type Facility interface {
	// RunAfter fires task once after d, via the pool's RunAsync.
	RunAfter(d time.Duration, task func(ctx context.Context) error) protocol.Timer

	// RunEvery fires task every d, via the pool's RunAsync. reps=0
	// means infinite; a finite count decrements on each fire and the
	// timer stops itself after the final one.
	RunEvery(d time.Duration, reps int, task func(ctx context.Context) error) protocol.Timer
}

// New builds a Facility that dispatches firings through p.
func New(p pool.Pool) Facility {
	return &facility{pool: p}
}
