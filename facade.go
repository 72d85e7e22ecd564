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

package reactord

import (
	"context"
	"time"

	"github.com/sabouaram/reactord/conntable"
	"github.com/sabouaram/reactord/pool"
	"github.com/sabouaram/reactord/protocol"
	"github.com/sabouaram/reactord/reactor"
	"github.com/sabouaram/reactord/writequeue"
)

// IsBusy reports whether fd is currently inside a protected callback
// (§6 is_busy). A vacant fd reports false.
func (s *Server) IsBusy(fd int) bool {
	b, err := s.tbl.Lookup(fd, false)
	if err != nil {
		return false
	}
	defer b.Unlock()
	return b.Busy()
}

// GetProtocol returns the protocol currently active on fd (§6 get_protocol).
func (s *Server) GetProtocol(fd int) (protocol.Protocol, error) {
	b, err := s.tbl.Lookup(fd, false)
	if err != nil {
		return protocol.Protocol{}, ErrCodeVacant.Error(err)
	}
	defer b.Unlock()
	return b.Protocol(), nil
}

// SetProtocol switches fd's active protocol (§4.7 switch_protocol):
// the outgoing protocol's OnClose (if any) runs first, then the
// incoming protocol's OnAccept (if any), before the swap becomes
// visible to other callers.
func (s *Server) SetProtocol(fd int, p protocol.Protocol) error {
	b, err := s.tbl.Lookup(fd, true)
	if err != nil {
		return ErrCodeVacant.Error(err)
	}
	defer b.Unlock()

	old := b.Protocol()
	c := &conn{srv: s, b: b}
	if old.OnClose != nil {
		old.OnClose(context.Background(), c)
	}

	b.SetProtocol(p)

	if p.OnAccept != nil {
		if err := p.OnAccept(context.Background(), c); err != nil {
			_ = s.closeConn(b)
		}
	}
	return nil
}

// Read performs one direct, non-blocking read on fd outside the normal
// on_data dispatch (§6 read(fd,buf,max)).
func (s *Server) Read(fd int, buf []byte) (int, error) {
	b, err := s.tbl.Lookup(fd, false)
	if err != nil {
		return -1, ErrCodeVacant.Error(err)
	}
	defer b.Unlock()
	return s.readRaw(b, buf)
}

// GetUData returns fd's user-attached value (§6 get_udata).
func (s *Server) GetUData(fd int) (interface{}, error) {
	b, err := s.tbl.Lookup(fd, false)
	if err != nil {
		return nil, ErrCodeVacant.Error(err)
	}
	defer b.Unlock()
	return b.UData(), nil
}

// SetUData replaces fd's user-attached value and returns the previous
// one (§6 set_udata).
func (s *Server) SetUData(fd int, v interface{}) (interface{}, error) {
	b, err := s.tbl.Lookup(fd, true)
	if err != nil {
		return nil, ErrCodeVacant.Error(err)
	}
	defer b.Unlock()
	prev := b.UData()
	b.SetUData(v)
	return prev, nil
}

// SetTimeoutFd changes fd's configured idle-timeout budget (§6 set_timeout).
func (s *Server) SetTimeoutFd(fd int, seconds int32) error {
	b, err := s.tbl.Lookup(fd, true)
	if err != nil {
		return ErrCodeVacant.Error(err)
	}
	defer b.Unlock()
	b.SetTimeout(seconds)
	return nil
}

// TouchFd resets fd's idle-timeout countdown to its configured default
// (§6 touch).
func (s *Server) TouchFd(fd int) error {
	b, err := s.tbl.Lookup(fd, true)
	if err != nil {
		return ErrCodeVacant.Error(err)
	}
	defer b.Unlock()
	b.Touch()
	return nil
}

// RWHooks installs custom read/write transport hooks on fd (§4.4
// rw_hooks), e.g. tlshook.Wrap's result for a TLS upgrade mid-connection.
func (s *Server) RWHooks(fd int, hooks conntable.Hooks) error {
	b, err := s.tbl.Lookup(fd, true)
	if err != nil {
		return ErrCodeVacant.Error(err)
	}
	defer b.Unlock()
	b.SetHooks(hooks)
	return nil
}

// Count returns the number of active connections currently running
// service (empty string matches every protocol, §6 count).
func (s *Server) Count(service string) int {
	match := matchService(service)
	return len(s.tbl.Snapshot(match))
}

func matchService(service string) func(protocol.Protocol) bool {
	if service == "" {
		return nil
	}
	return func(p protocol.Protocol) bool { return p.Name == service }
}

// Attach inserts an already-connected foreign fd into this server
// (§6 attach): it is registered with the reactor and scheduled through
// on_accept exactly like a locally accepted connection.
func (s *Server) Attach(fd int, p protocol.Protocol) error {
	if fd >= s.tbl.Capacity() {
		return ErrCodeVacant.Error(nil)
	}
	if err := s.tbl.Reserve(fd, p, s.settings.Timeout); err != nil {
		return err
	}

	b, err := s.tbl.Lookup(fd, false)
	if err != nil {
		return err
	}
	b.SetQueue(writequeue.New())
	b.Unlock()

	if err := s.rx.Register(fd, reactor.Readable); err != nil {
		_ = s.tbl.Release(fd)
		return err
	}
	s.setInterest(fd, reactor.Readable)

	s.dispatchOpen(fd)
	return nil
}

// CloseFd requests an orderly close of fd: any data already queued is
// still drained before the fd actually closes (§4.3's deferred-close
// semantics). Conn.Close (the protocol.Conn method) implements the same
// semantics for a callback that already holds fd's Borrow.
func (s *Server) CloseFd(fd int) error {
	b, err := s.tbl.Lookup(fd, false)
	if err != nil {
		return ErrCodeVacant.Error(err)
	}
	defer b.Unlock()
	return s.closeConn(b)
}

// hijackDrainBackoff paces Hijack's retry loop while it waits for
// transient write backpressure (hook returning 0) to clear.
const hijackDrainBackoff = time.Millisecond

// Hijack removes fd from this server's management (unregisters it from
// the reactor and releases its table slot bookkeeping) without closing
// the underlying OS fd, and returns that fd to the caller (§4.7
// hijack). Per §4.3 ("hijack blocks until the queue empties"), this
// blocks the caller, retrying the drain until the write queue is empty
// or a hook reports a fatal error (in which case the remaining packets
// are abandoned, same as any other fatal-write close). on_close is
// never invoked. The caller becomes solely responsible for fd.
func (s *Server) Hijack(fd int) (int, error) {
	b, err := s.tbl.Lookup(fd, true)
	if err != nil {
		return -1, ErrCodeVacant.Error(err)
	}

	if q := b.Queue(); q != nil {
		hook := writequeue.WriteHook(func(p []byte) (int, error) { return s.writeTo(b, p) })
		for !q.Empty() {
			if derr := q.Drain(hook); derr != nil {
				break
			}
			if !q.Empty() {
				time.Sleep(hijackDrainBackoff)
			}
		}
	}

	fdOut := b.Fd()
	b.ReleaseLocked()

	_ = s.rx.Unregister(fdOut)
	s.clearInterest(fdOut)
	return fdOut, nil
}

// RunAsync schedules fn on the worker pool (§4.5).
func (s *Server) RunAsync(fn func(ctx context.Context) error) (protocol.Task, error) {
	return s.pl.RunAsync(fn)
}

// FdTask schedules task to run under fd's lock, with fallback invoked
// instead if fd is vacant by the time it runs (§4.5).
func (s *Server) FdTask(fd int, task pool.FdFunc, fallback func(fd int)) (protocol.Task, error) {
	return s.pl.FdTask(fd, task, fallback)
}

// Each schedules task against every active connection running service
// (empty string matches any), invoking onFinish(fd) once per fd after
// its task (or fallback) completes (§4.5).
func (s *Server) Each(service string, task pool.FdFunc, onFinish func(fd int)) ([]protocol.Task, error) {
	return s.pl.Each(service, task, onFinish)
}

// EachBlock is the synchronous variant of Each: it visits every
// matching fd in order and returns only once all have run. Must not be
// called from inside a protected callback on this server's pool.
func (s *Server) EachBlock(service string, task pool.FdFunc) {
	s.pl.EachBlock(service, task)
}

// RunAfter fires task once after d, via the pool (§4.6).
func (s *Server) RunAfter(d time.Duration, task func(ctx context.Context) error) protocol.Timer {
	return s.tm.RunAfter(d, task)
}

// RunEvery fires task every d, up to reps times (0 meaning forever),
// via the pool (§4.6).
func (s *Server) RunEvery(d time.Duration, reps int, task func(ctx context.Context) error) protocol.Timer {
	return s.tm.RunEvery(d, reps, task)
}
