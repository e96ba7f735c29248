package gamestream

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// serverBusyMarker appears in the state field while a stream is active.
// Hosts keep currentgame set after streaming ends, so an idle state forces
// the client-side id back to zero.
const serverBusyMarker = "_SERVER_BUSY"

// FetchServerInfo queries the status endpoint once, over HTTPS or HTTP, and
// populates the Server record from the response. Only HTTPS reports the
// true pair status, but some host generations refuse HTTPS status queries
// before pairing; EnsureStatus implements the fallback policy, and callers
// using this directly decide which result to trust.
func (c *Client) FetchServerInfo(ctx context.Context, srv *Server, useHTTPS bool) error {
	scheme, port := "http", srv.HTTPPort
	if useHTTPS {
		scheme, port = "https", srv.HTTPSPort
	}

	url := fmt.Sprintf("%s://%s:%d/serverinfo?uniqueid=%s", scheme, srv.Address, port, c.uniqueID)
	doc, err := c.getDocument(ctx, url, c.timeouts.Short)
	if err != nil {
		return err
	}

	required := make(map[string]string, len(serverInfoFields))
	for _, name := range serverInfoFields {
		value, err := doc.requiredField(name)
		if err != nil {
			return err
		}
		required[name] = value
	}
	// Present on every host generation this client supports; an empty
	// value means the document is unusable even if the tag exists.
	for _, name := range []string{"currentgame", "PairStatus", "appversion", "state"} {
		if required[name] == "" {
			return fmt.Errorf("%w: empty %s", ErrMissingField, name)
		}
	}

	srv.Paired = required["PairStatus"] == "1"
	srv.CurrentGame = atoiOrZero(required["currentgame"])
	srv.AppVersion = required["appversion"]
	srv.VersionQuad = ParseVersionQuad(required["appversion"])
	srv.CodecModeSupport = atoiOrZero(required["ServerCodecModeSupport"])
	srv.Supports4K = srv.CodecModeSupport != 0
	srv.GPUType = required["gputype"]
	srv.GSVersion = required["GsVersion"]
	srv.Hostname = required["hostname"]
	srv.GFEVersion = required["GfeVersion"]
	srv.MAC = required["mac"]

	srv.HTTPSPort = atoiOrZero(required["HttpsPort"])
	if srv.HTTPSPort == 0 {
		srv.HTTPSPort = c.httpsPort
	}

	if !strings.Contains(required["state"], serverBusyMarker) {
		srv.CurrentGame = 0
	}

	return nil
}

// serverInfoFields are required in every status response.
var serverInfoFields = []string{
	"currentgame",
	"PairStatus",
	"appversion",
	"state",
	"ServerCodecModeSupport",
	"gputype",
	"GsVersion",
	"hostname",
	"GfeVersion",
	"HttpsPort",
	"mac",
}

// EnsureStatus refreshes the Server record: one HTTP probe to learn the
// HTTPS port if it is still unknown, then up to two fetch attempts (HTTPS
// first, HTTP second) stopping at the first success, then the version gate.
func (c *Client) EnsureStatus(ctx context.Context, srv *Server) error {
	if srv.HTTPSPort == 0 {
		if err := c.FetchServerInfo(ctx, srv, false); err != nil {
			return err
		}
	}

	var err error
	for _, useHTTPS := range []bool{true, false} {
		if err = c.FetchServerInfo(ctx, srv, useHTTPS); err == nil {
			break
		}
	}
	if err != nil {
		return err
	}

	return c.checkVersion(srv.MajorVersion())
}

// Connect builds a Server record for an address and runs discovery on it.
func (c *Client) Connect(ctx context.Context, address string) (*Server, error) {
	srv, err := c.NewServer(address)
	if err != nil {
		return nil, err
	}
	if err := c.EnsureStatus(ctx, srv); err != nil {
		return nil, err
	}
	return srv, nil
}

// checkVersion is the version gate: it runs once per discovery and carries
// a remediation message for each direction.
func (c *Client) checkVersion(major int) error {
	if major > c.maxVersion {
		return fmt.Errorf("%w: host generation %d is newer than this client supports; update the client or downgrade the host's streaming software", ErrUnsupportedVersion, major)
	}
	if major < c.minVersion {
		return fmt.Errorf("%w: host generation %d is no longer supported; upgrade the streaming software on the host", ErrUnsupportedVersion, major)
	}
	return nil
}

func atoiOrZero(s string) int {
	value, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return value
}
