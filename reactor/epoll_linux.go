//go:build linux

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

package reactor

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

const maxBatch = 256

func newReactor() (Reactor, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &epollReactor{epfd: epfd}, nil
}

type epollReactor struct {
	mu     sync.Mutex
	epfd   int
	closed bool
}

func toEpollEvents(i Interest) uint32 {
	var ev uint32 = unix.EPOLLET | unix.EPOLLRDHUP
	if i&Readable != 0 {
		ev |= unix.EPOLLIN
	}
	if i&Writable != 0 {
		ev |= unix.EPOLLOUT
	}
	return ev
}

func (r *epollReactor) Register(fd int, interest Interest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrCodeClosed.Error(nil)
	}
	ev := unix.EpollEvent{Events: toEpollEvents(interest), Fd: int32(fd)}
	return unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, fd, &ev)
}

func (r *epollReactor) Modify(fd int, interest Interest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrCodeClosed.Error(nil)
	}
	ev := unix.EpollEvent{Events: toEpollEvents(interest), Fd: int32(fd)}
	return unix.EpollCtl(r.epfd, unix.EPOLL_CTL_MOD, fd, &ev)
}

func (r *epollReactor) Unregister(fd int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrCodeClosed.Error(nil)
	}
	err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_DEL, fd, nil)
	if err == unix.ENOENT || err == unix.EBADF {
		return nil
	}
	return err
}

func (r *epollReactor) Wait(timeout time.Duration) ([]Event, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrCodeClosed.Error(nil)
	}
	epfd := r.epfd
	r.mu.Unlock()

	msec := int(timeout / time.Millisecond)
	if timeout < 0 {
		msec = -1
	}

	raw := make([]unix.EpollEvent, maxBatch)

	n, err := unix.EpollWait(epfd, raw, msec)
	if err == unix.EINTR {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	out := make([]Event, 0, n)
	for i := 0; i < n; i++ {
		e := raw[i]
		out = append(out, Event{
			Fd:       int(e.Fd),
			Readable: e.Events&(unix.EPOLLIN|unix.EPOLLPRI) != 0,
			Writable: e.Events&unix.EPOLLOUT != 0,
			Hup:      e.Events&(unix.EPOLLHUP|unix.EPOLLRDHUP|unix.EPOLLERR) != 0,
		})
	}
	return out, nil
}

func (r *epollReactor) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return unix.Close(r.epfd)
}
