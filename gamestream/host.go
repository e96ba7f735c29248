package gamestream

import (
	"fmt"
	"net"
	"strconv"
)

// Server describes one streaming host. A Server is mutated in place by the
// Client methods that take it; callers sharing one across goroutines must
// serialize access themselves.
type Server struct {
	Address   string
	HTTPPort  int
	HTTPSPort int // 0 until the first successful status fetch

	Paired      bool
	CurrentGame int // id of the running application, 0 when idle

	AppVersion       string
	VersionQuad      [4]int
	CodecModeSupport int
	Supports4K       bool

	Hostname   string
	MAC        string
	GPUType    string
	GSVersion  string
	GFEVersion string

	// RTSPSessionURL is populated by a successful launch or resume when
	// the host advertises one.
	RTSPSessionURL string
}

// MajorVersion returns the first component of the host's version quad.
func (s *Server) MajorVersion() int {
	return s.VersionQuad[0]
}

// NewServer builds a Server record from "host" or "host:port" text, using
// the client's default HTTP port when none is given. The HTTPS port is left
// unset until discovery learns it.
func (c *Client) NewServer(address string) (*Server, error) {
	if address == "" {
		return nil, fmt.Errorf("%w: empty host address", ErrInvalidResponse)
	}

	host := address
	port := c.httpPort
	if h, p, err := net.SplitHostPort(address); err == nil {
		parsed, err := strconv.Atoi(p)
		if err != nil || parsed <= 0 || parsed > 65535 {
			return nil, fmt.Errorf("%w: invalid port %q in address", ErrInvalidResponse, p)
		}
		host = h
		port = parsed
	}

	return &Server{Address: host, HTTPPort: port}, nil
}

// IsSunshine reports whether the host runs the alternate (Sunshine) server
// family, signalled by the fourth version-quad component falling below the
// configured sentinel.
func (c *Client) IsSunshine(srv *Server) bool {
	return srv.VersionQuad[3] < c.sunshineSentinel
}

// ParseVersionQuad extracts up to four dot-separated integer components
// from a host version string. Missing trailing components are zero, and a
// component's non-numeric suffix is ignored, so "7.1" parses as [7 1 0 0].
func ParseVersionQuad(s string) [4]int {
	var quad [4]int
	rest := s
	for i := 0; i < 4; i++ {
		var value int
		value, rest = parseLeadingInt(rest)
		quad[i] = value
		if rest != "" {
			rest = rest[1:] // skip the separator
		}
	}
	return quad
}

func parseLeadingInt(s string) (int, string) {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	value, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, s
	}
	return value, s[end:]
}
