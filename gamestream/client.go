package gamestream

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"gostream/crypto"
)

const (
	// DefaultHTTPPort is the host control port used before any override.
	DefaultHTTPPort = 47989
	// DefaultHTTPSPort is assumed when a host omits its HttpsPort field.
	DefaultHTTPSPort = 47984

	// DefaultMinServerVersion and DefaultMaxServerVersion bound the host
	// generations this client knows how to talk to.
	DefaultMinServerVersion = 3
	DefaultMaxServerVersion = 7

	// DefaultUniqueID identifies this client to hosts when no persisted
	// identity string is configured.
	DefaultUniqueID = "0123456789ABCDEF"
	// DefaultDeviceName is the device name hosts display during pairing.
	DefaultDeviceName = "roth"
)

// Timeouts are the request timeout tiers, chosen per operation by expected
// host latency: status polling is short, pairing and launch are long
// because they wait on the host (and on the user typing the PIN).
type Timeouts struct {
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

// DefaultTimeouts returns the stock timeout tiers.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Short:  5 * time.Second,
		Medium: 15 * time.Second,
		Long:   2 * time.Minute,
	}
}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	UniqueID   string
	DeviceName string

	HTTPPort  int
	HTTPSPort int

	MinServerVersion int
	MaxServerVersion int

	// SunshineVersionSentinel is the threshold under which the fourth
	// version-quad component marks the alternate host family.
	SunshineVersionSentinel int

	Timeouts Timeouts

	// ExtraLaunchQuery is opaque query text the media layer wants appended
	// to launch and resume requests.
	ExtraLaunchQuery string

	// Transport overrides the HTTP backend, mainly for tests.
	Transport Doer

	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	out := o
	if out.UniqueID == "" {
		out.UniqueID = DefaultUniqueID
	}
	if out.DeviceName == "" {
		out.DeviceName = DefaultDeviceName
	}
	if out.HTTPPort <= 0 {
		out.HTTPPort = DefaultHTTPPort
	}
	if out.HTTPSPort <= 0 {
		out.HTTPSPort = DefaultHTTPSPort
	}
	if out.MinServerVersion <= 0 {
		out.MinServerVersion = DefaultMinServerVersion
	}
	if out.MaxServerVersion <= 0 {
		out.MaxServerVersion = DefaultMaxServerVersion
	}
	if out.Timeouts.Short <= 0 {
		out.Timeouts.Short = DefaultTimeouts().Short
	}
	if out.Timeouts.Medium <= 0 {
		out.Timeouts.Medium = DefaultTimeouts().Medium
	}
	if out.Timeouts.Long <= 0 {
		out.Timeouts.Long = DefaultTimeouts().Long
	}
	if out.ExtraLaunchQuery != "" && !strings.HasPrefix(out.ExtraLaunchQuery, "&") {
		out.ExtraLaunchQuery = "&" + out.ExtraLaunchQuery
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	return out
}

// Client executes the host control protocol for one client identity. All
// methods block for at most their operation's timeout tier; callers wanting
// cancellation sooner pass an already-bounded context.
type Client struct {
	uniqueID   string
	deviceName string

	httpPort  int
	httpsPort int

	minVersion int
	maxVersion int

	sunshineSentinel int

	timeouts         Timeouts
	extraLaunchQuery string

	identity *crypto.Identity
	doer     Doer
	logger   *slog.Logger
}

// NewClient builds a Client around a pairing identity.
func NewClient(identity *crypto.Identity, opts Options) (*Client, error) {
	if identity == nil || identity.Cert == nil || identity.Key == nil {
		return nil, errors.New("gamestream: client identity is required")
	}

	opts = opts.withDefaults()
	doer := opts.Transport
	if doer == nil {
		doer = newHTTPClient(identity)
	}

	return &Client{
		uniqueID:         opts.UniqueID,
		deviceName:       opts.DeviceName,
		httpPort:         opts.HTTPPort,
		httpsPort:        opts.HTTPSPort,
		minVersion:       opts.MinServerVersion,
		maxVersion:       opts.MaxServerVersion,
		sunshineSentinel: opts.SunshineVersionSentinel,
		timeouts:         opts.Timeouts,
		extraLaunchQuery: opts.ExtraLaunchQuery,
		identity:         identity,
		doer:             doer,
		logger:           opts.Logger,
	}, nil
}

// UniqueID returns the identity string sent to hosts as uniqueid.
func (c *Client) UniqueID() string { return c.uniqueID }
