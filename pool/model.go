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

import "sync/atomic"

// task implements protocol.Task for an enqueued closure.
type task struct {
	c chan struct{}
	x atomic.Bool
}

func newTask() *task {
	return &task{c: make(chan struct{})}
}

func (t *task) Cancel() { t.x.Store(true) }

func (t *task) Wait() { <-t.c }

func (t *task) cancelled() bool { return t.x.Load() }

func (t *task) finish() { close(t.c) }

// doneTask is the Task returned for work that already ran synchronously
// (threads <= 1): Wait returns immediately, Cancel is a no-op.
type doneTask struct{}

func (doneTask) Cancel() {}
func (doneTask) Wait()   {}
