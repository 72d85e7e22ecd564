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

package writequeue

import (
	"sync"

	"github.com/sabouaram/reactord/file/progress"
)

type queue struct {
	mu      sync.Mutex
	packets []*packet
}

func (q *queue) Write(p []byte) error {
	cp := append([]byte(nil), p...)
	q.mu.Lock()
	defer q.mu.Unlock()
	q.packets = append(q.packets, &packet{buf: cp})
	return nil
}

func (q *queue) WriteMove(p []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.packets = append(q.packets, &packet{buf: p})
	return nil
}

func (q *queue) WriteUrgent(p []byte) error {
	cp := append([]byte(nil), p...)
	return q.insertUrgent(&packet{buf: cp})
}

func (q *queue) WriteMoveUrgent(p []byte) error {
	return q.insertUrgent(&packet{buf: p})
}

func (q *queue) insertUrgent(pk *packet) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.packets) == 0 {
		q.packets = append(q.packets, pk)
		return nil
	}

	q.packets = append(q.packets, nil)
	copy(q.packets[2:], q.packets[1:])
	q.packets[1] = pk
	return nil
}

func (q *queue) SendFile(f progress.Progress, chunkSize int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.packets = append(q.packets, &packet{file: f, chunk: chunkSize})
	return nil
}

func (q *queue) Empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.packets) == 0
}

func (q *queue) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, pk := range q.packets {
		if pk.isFile() && !pk.fileDone {
			_ = pk.file.Close()
		}
	}
	q.packets = nil
}

func (q *queue) Drain(hook WriteHook) error {
	for {
		q.mu.Lock()
		if len(q.packets) == 0 {
			q.mu.Unlock()
			return nil
		}
		head := q.packets[0]
		q.mu.Unlock()

		if head.isFile() {
			done, _ := head.fill()
			if done {
				q.popHead()
				continue
			}
		}

		if len(head.buf) == 0 {
			q.popHead()
			continue
		}

		n, err := hook(head.buf)
		if err != nil || n < 0 {
			return ErrCodeHookFatal.Error(err)
		}
		if n == 0 {
			return nil
		}

		head.buf = head.buf[n:]

		if len(head.buf) == 0 && !head.isFile() {
			q.popHead()
		}
	}
}

func (q *queue) popHead() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.packets) == 0 {
		return
	}
	q.packets = q.packets[1:]
}
