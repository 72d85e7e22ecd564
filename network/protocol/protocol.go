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

// Package protocol defines the NetworkProtocol enum shared by socket/config
// and the reactor's listener setup, identifying which net.Listen/net.Dial
// network string a configuration entry maps to.
package protocol

import "strings"

// NetworkProtocol identifies a network family/transport combination.
type NetworkProtocol uint8

const (
	NetworkEmpty NetworkProtocol = iota
	NetworkUnix
	NetworkTCP
	NetworkTCP4
	NetworkTCP6
	NetworkUDP
	NetworkUDP4
	NetworkUDP6
	NetworkIP
	NetworkIP4
	NetworkIP6
	NetworkUnixGram
)

// Int returns the protocol as an int.
func (p NetworkProtocol) Int() int {
	return int(p)
}

// Int64 returns the protocol as an int64.
func (p NetworkProtocol) Int64() int64 {
	return int64(p)
}

// Uint returns the protocol as a uint.
func (p NetworkProtocol) Uint() uint {
	return uint(p)
}

// String returns the net package network string ("tcp", "unix", ...), or
// "" for NetworkEmpty or an out-of-range value.
func (p NetworkProtocol) String() string {
	switch p {
	case NetworkUnix:
		return "unix"
	case NetworkTCP:
		return "tcp"
	case NetworkTCP4:
		return "tcp4"
	case NetworkTCP6:
		return "tcp6"
	case NetworkUDP:
		return "udp"
	case NetworkUDP4:
		return "udp4"
	case NetworkUDP6:
		return "udp6"
	case NetworkIP:
		return "ip"
	case NetworkIP4:
		return "ip4"
	case NetworkIP6:
		return "ip6"
	case NetworkUnixGram:
		return "unixgram"
	default:
		return ""
	}
}

// IsConnOriented reports whether the protocol is connection-oriented
// (stream-based), i.e. usable with this module's connection table.
// UDP/IP/unixgram are connectionless and are rejected by socket/config.
func (p NetworkProtocol) IsConnOriented() bool {
	switch p {
	case NetworkUnix, NetworkTCP, NetworkTCP4, NetworkTCP6:
		return true
	default:
		return false
	}
}

// Parse returns the NetworkProtocol matching the given string, trimmed of
// surrounding whitespace and quote characters and compared case-insensitively.
// It returns NetworkEmpty for unrecognized input.
func Parse(s string) NetworkProtocol {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`+"`"+`\`)
	s = strings.TrimSpace(s)

	switch strings.ToLower(s) {
	case "unix":
		return NetworkUnix
	case "tcp":
		return NetworkTCP
	case "tcp4":
		return NetworkTCP4
	case "tcp6":
		return NetworkTCP6
	case "udp":
		return NetworkUDP
	case "udp4":
		return NetworkUDP4
	case "udp6":
		return NetworkUDP6
	case "ip":
		return NetworkIP
	case "ip4":
		return NetworkIP4
	case "ip6":
		return NetworkIP6
	case "unixgram":
		return NetworkUnixGram
	default:
		return NetworkEmpty
	}
}

// ParseBytes is Parse over a byte slice.
func ParseBytes(b []byte) NetworkProtocol {
	return Parse(string(b))
}

// ParseInt64 returns the NetworkProtocol for a raw enum value, or
// NetworkEmpty if out of range.
func ParseInt64(i int64) NetworkProtocol {
	if i < 0 || i > int64(NetworkUnixGram) {
		return NetworkEmpty
	}

	return NetworkProtocol(i)
}

// MarshalText implements encoding.TextMarshaler.
func (p NetworkProtocol) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *NetworkProtocol) UnmarshalText(b []byte) error {
	*p = ParseBytes(b)
	return nil
}
