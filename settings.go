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

	"github.com/sabouaram/reactord/logger"
	"github.com/sabouaram/reactord/protocol"
	"github.com/sabouaram/reactord/socket/config"
)

// DefaultPort, DefaultThreads, DefaultProcesses and DefaultTimeout are
// the settings defaults named in §4.8/§6.
const (
	DefaultPort      = "8080"
	DefaultThreads   = 1
	DefaultProcesses = 1
	DefaultTimeout   = 5
)

// Settings configures one server. Server embeds the bind target
// (network, address, unix permissions, TLS) validated by
// socket/config; the remaining fields are this package's own.
type Settings struct {
	Server   config.Server
	Protocol protocol.Protocol

	// Threads is the worker pool size (§4.5). Default 1.
	Threads int
	// Processes forks Processes-1 children at startup; the parent also
	// serves (§4.8). Default 1.
	Processes int
	// Timeout is the default idle-connection budget in seconds
	// (0..255). Default 5.
	Timeout int32

	// BusyMsg, if set, is written to a connection refused for capacity
	// exhaustion before it is closed; nil means a silent drop (§7).
	BusyMsg []byte

	UData interface{}

	// Logger receives the orchestrator's own accept/close/timeout/bind
	// log lines (§10.2). Nil means a fresh discard-by-default logger
	// is built for this server, matching logger.New's own fallback.
	Logger logger.Logger

	OnInit       func(ctx context.Context) error
	OnInitThread func(ctx context.Context) error
	OnFinish     func(ctx context.Context)
	OnTick       func(ctx context.Context)
	OnIdle       func(ctx context.Context)
}

func (s *Settings) applyDefaults() {
	if s.Server.Address == "" {
		s.Server.Address = ":" + DefaultPort
	}
	if s.Threads < 1 {
		s.Threads = DefaultThreads
	}
	if s.Processes < 1 {
		s.Processes = DefaultProcesses
	}
	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout
	}
	if s.Timeout > 255 {
		s.Timeout = 255
	}
}

func (s *Settings) validate() error {
	if s.Protocol.Name == "" && s.Protocol.OnRead == nil && s.Protocol.OnAccept == nil {
		return ErrCodeSettings.Error(nil)
	}
	if err := s.Server.Validate(); err != nil {
		return ErrCodeSettings.Error(err)
	}
	return nil
}
