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

// Package config holds the validated Client/Server configuration structs
// consumed by the socket package and the reactord facade's Settings.Listen.
package config

import (
	"net"

	"github.com/sabouaram/reactord/certificates"
	liberr "github.com/sabouaram/reactord/errors"
	libprm "github.com/sabouaram/reactord/file/perm"
	libptc "github.com/sabouaram/reactord/network/protocol"
)

// MaxGID is the largest accepted unix group id for Server.GroupPerm.
const MaxGID = 1<<31 - 2

// ErrInvalidProtocol, ErrInvalidAddress, ErrInvalidTLSConfig and
// ErrInvalidGroup are sentinel errors: compare with errors.Is or
// liberr.Error.IsCode, they are not meant to be returned as-is (each
// Validate call wraps a fresh instance with RegisterIdFctMessage's message).
var (
	ErrInvalidProtocol  = ErrCodeProtocol.Error(nil)
	ErrInvalidAddress   = ErrCodeAddress.Error(nil)
	ErrInvalidTLSConfig = ErrCodeTLSConfig.Error(nil)
	ErrInvalidGroup     = ErrCodeGroup.Error(nil)
)

// TLS wraps the certificates package's validated config behind an Enabled
// switch: a Server/Client with TLS.Enabled false never touches certificates
// at all, matching this module's "TLS is an optional transport hook" stance.
type TLS struct {
	Enabled bool                 `mapstructure:"enabled" json:"enabled" yaml:"enabled" toml:"enabled"`
	Config  certificates.Config  `mapstructure:"config" json:"config" yaml:"config" toml:"config"`
}

func (t TLS) validate() liberr.Error {
	if !t.Enabled {
		return nil
	}

	if err := t.Config.Validate(); err != nil {
		return ErrCodeTLSConfig.Error(err)
	}

	return nil
}

// Client describes a dial target for the socket client helper used by
// tests and by any process acting as a peer of this module's server.
type Client struct {
	Network libptc.NetworkProtocol `mapstructure:"network" json:"network" yaml:"network" toml:"network"`
	Address string                 `mapstructure:"address" json:"address" yaml:"address" toml:"address"`
	TLS     TLS                    `mapstructure:"tls" json:"tls" yaml:"tls" toml:"tls"`
}

// Validate checks the protocol is connection-oriented and the address
// resolves for that protocol family.
func (c Client) Validate() liberr.Error {
	if !c.Network.IsConnOriented() {
		return ErrCodeProtocol.Error(nil)
	}

	if err := validateAddress(c.Network, c.Address); err != nil {
		return ErrCodeAddress.Error(err)
	}

	return c.TLS.validate()
}

// Server describes a listener: network/address, the unix-socket file
// permission and group to apply after bind (ignored for TCP), and TLS.
type Server struct {
	Network   libptc.NetworkProtocol `mapstructure:"network" json:"network" yaml:"network" toml:"network"`
	Address   string                 `mapstructure:"address" json:"address" yaml:"address" toml:"address"`
	PermFile  libprm.Perm            `mapstructure:"permFile" json:"permFile" yaml:"permFile" toml:"permFile"`
	GroupPerm int32                  `mapstructure:"groupPerm" json:"groupPerm" yaml:"groupPerm" toml:"groupPerm"`
	TLS       TLS                    `mapstructure:"tls" json:"tls" yaml:"tls" toml:"tls"`
}

// Validate checks the protocol is connection-oriented, the address
// resolves, the group id (if any, -1 meaning "current process group") is
// within range, and the TLS config (if enabled) is valid.
func (s Server) Validate() liberr.Error {
	if !s.Network.IsConnOriented() {
		return ErrCodeProtocol.Error(nil)
	}

	if err := validateAddress(s.Network, s.Address); err != nil {
		return ErrCodeAddress.Error(err)
	}

	if s.GroupPerm < -1 || s.GroupPerm > MaxGID {
		return ErrCodeGroup.Error(nil)
	}

	return s.TLS.validate()
}

func validateAddress(p libptc.NetworkProtocol, addr string) error {
	if p == libptc.NetworkUnix {
		return nil
	}

	_, err := net.ResolveTCPAddr(p.String(), addr)
	return err
}
