package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"gostream/config"
	"gostream/crypto"
	"gostream/gamestream"
	"gostream/storage"
)

// commandContext lazily wires settings, identity, the protocol client, and
// the host store. Each is initialized at most once per invocation, and only
// by commands that need it.
type commandContext struct {
	dataDirFlag *string
	verboseFlag *bool

	setupOnce sync.Once
	setupErr  error
	dataDir   string
	settings  *config.Settings
	logger    *slog.Logger

	clientOnce sync.Once
	clientErr  error
	client     *gamestream.Client

	storeOnce sync.Once
	storeErr  error
	store     *storage.Store
}

func newCommandContext(dataDirFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		dataDirFlag: dataDirFlag,
		verboseFlag: verboseFlag,
	}
}

func (c *commandContext) ensureSettings() (*config.Settings, error) {
	c.setupOnce.Do(func() {
		dataDir := ""
		if c.dataDirFlag != nil {
			dataDir = strings.TrimSpace(*c.dataDirFlag)
		}
		if dataDir == "" {
			resolved, err := config.ResolveDataDir()
			if err != nil {
				c.setupErr = err
				return
			}
			dataDir = resolved
		}

		settings, _, err := config.LoadOrCreateAt(dataDir)
		if err != nil {
			c.setupErr = err
			return
		}

		level := slog.LevelInfo
		if c.verboseFlag != nil && *c.verboseFlag {
			level = slog.LevelDebug
		}
		c.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		c.dataDir = dataDir
		c.settings = settings
	})
	return c.settings, c.setupErr
}

func (c *commandContext) ensureClient() (*gamestream.Client, error) {
	settings, err := c.ensureSettings()
	if err != nil {
		return nil, err
	}

	c.clientOnce.Do(func() {
		identity, err := crypto.EnsureIdentity(settings.CertificatePath, settings.PrivateKeyPath)
		if err != nil {
			c.clientErr = fmt.Errorf("load client identity: %w", err)
			return
		}

		client, err := gamestream.NewClient(identity, gamestream.Options{
			UniqueID:                settings.UniqueID,
			DeviceName:              settings.DeviceName,
			HTTPPort:                settings.HTTPPort,
			HTTPSPort:               settings.HTTPSPort,
			MinServerVersion:        settings.MinServerVersion,
			MaxServerVersion:        settings.MaxServerVersion,
			SunshineVersionSentinel: settings.SunshineVersionSentinel,
			Timeouts: gamestream.Timeouts{
				Short:  time.Duration(settings.TimeoutShortSeconds) * time.Second,
				Medium: time.Duration(settings.TimeoutMediumSeconds) * time.Second,
				Long:   time.Duration(settings.TimeoutLongSeconds) * time.Second,
			},
			Logger: c.logger,
		})
		if err != nil {
			c.clientErr = err
			return
		}
		c.client = client
	})
	return c.client, c.clientErr
}

func (c *commandContext) ensureStore() (*storage.Store, error) {
	if _, err := c.ensureSettings(); err != nil {
		return nil, err
	}

	c.storeOnce.Do(func() {
		store, _, err := storage.Open(c.dataDir)
		if err != nil {
			c.storeErr = err
			return
		}
		c.store = store
	})
	return c.store, c.storeErr
}

// withLock serializes invocations that mutate host-side pairing or session
// state. Only one such command may run per data directory at a time.
func (c *commandContext) withLock(fn func() error) error {
	if _, err := c.ensureSettings(); err != nil {
		return err
	}

	lock := flock.New(filepath.Join(c.dataDir, "gostream.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another gostream command is already running against %s", c.dataDir)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	return fn()
}

// connect reaches a host, refreshes its status, and records it in the host
// store so later invocations remember it.
func (c *commandContext) connect(ctx context.Context, address string) (*gamestream.Server, error) {
	client, err := c.ensureClient()
	if err != nil {
		return nil, err
	}

	srv, err := client.Connect(ctx, address)
	if err != nil {
		return nil, err
	}

	c.rememberHost(srv)
	return srv, nil
}

func (c *commandContext) rememberHost(srv *gamestream.Server) {
	store, err := c.ensureStore()
	if err != nil {
		c.logger.Warn("host store unavailable", "error", err)
		return
	}

	err = store.AddHost(storage.Host{
		Address:   srv.Address,
		Hostname:  srv.Hostname,
		MAC:       srv.MAC,
		Paired:    srv.Paired,
		HTTPSPort: srv.HTTPSPort,
	})
	if err != nil {
		c.logger.Warn("record host", "address", srv.Address, "error", err)
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
