package storage

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := OpenPath(filepath.Join(t.TempDir(), "hosts.db"))
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})

	return store
}

func TestAddHostRoundTrip(t *testing.T) {
	store := newTestStore(t)

	in := Host{
		Address:   "192.168.1.50",
		Hostname:  "DESKTOP-GAME",
		MAC:       "aa:bb:cc:dd:ee:ff",
		Paired:    true,
		HTTPSPort: 47984,
	}
	if err := store.AddHost(in); err != nil {
		t.Fatalf("AddHost: %v", err)
	}

	got, err := store.GetHost("192.168.1.50")
	if err != nil {
		t.Fatalf("GetHost: %v", err)
	}
	if got.Hostname != in.Hostname || got.MAC != in.MAC || !got.Paired || got.HTTPSPort != in.HTTPSPort {
		t.Fatalf("unexpected host: %+v", got)
	}
	if got.LastSeenTimestamp == 0 {
		t.Fatal("expected last seen timestamp to be stamped")
	}
}

func TestAddHostUpsertsByAddress(t *testing.T) {
	store := newTestStore(t)

	if err := store.AddHost(Host{Address: "10.0.0.2", Hostname: "old-name", MAC: "00:00:00:00:00:01"}); err != nil {
		t.Fatalf("AddHost: %v", err)
	}
	if err := store.AddHost(Host{Address: "10.0.0.2", Hostname: "new-name", MAC: "00:00:00:00:00:02", Paired: true}); err != nil {
		t.Fatalf("AddHost (update): %v", err)
	}

	hosts, err := store.ListHosts()
	if err != nil {
		t.Fatalf("ListHosts: %v", err)
	}
	if len(hosts) != 1 {
		t.Fatalf("expected 1 host after upsert, got %d", len(hosts))
	}
	if hosts[0].Hostname != "new-name" || hosts[0].MAC != "00:00:00:00:00:02" || !hosts[0].Paired {
		t.Fatalf("upsert did not refresh fields: %+v", hosts[0])
	}
}

func TestListHostsSortsByHostname(t *testing.T) {
	store := newTestStore(t)

	for _, host := range []Host{
		{Address: "10.0.0.3", Hostname: "zeta"},
		{Address: "10.0.0.1", Hostname: "Alpha"},
		{Address: "10.0.0.2", Hostname: "beta"},
	} {
		if err := store.AddHost(host); err != nil {
			t.Fatalf("AddHost %q: %v", host.Address, err)
		}
	}

	hosts, err := store.ListHosts()
	if err != nil {
		t.Fatalf("ListHosts: %v", err)
	}
	var names []string
	for _, host := range hosts {
		names = append(names, host.Hostname)
	}
	want := []string{"Alpha", "beta", "zeta"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("unexpected order: %v", names)
		}
	}
}

func TestGetHostNotFound(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.GetHost("192.0.2.1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRemoveHost(t *testing.T) {
	store := newTestStore(t)

	if err := store.AddHost(Host{Address: "10.0.0.9", Hostname: "gone"}); err != nil {
		t.Fatalf("AddHost: %v", err)
	}
	if err := store.RemoveHost("10.0.0.9"); err != nil {
		t.Fatalf("RemoveHost: %v", err)
	}
	if err := store.RemoveHost("10.0.0.9"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second remove, got %v", err)
	}
}

func TestSetPaired(t *testing.T) {
	store := newTestStore(t)

	if err := store.AddHost(Host{Address: "10.0.0.4", Hostname: "pc"}); err != nil {
		t.Fatalf("AddHost: %v", err)
	}
	if err := store.SetPaired("10.0.0.4", true); err != nil {
		t.Fatalf("SetPaired: %v", err)
	}

	host, err := store.GetHost("10.0.0.4")
	if err != nil {
		t.Fatalf("GetHost: %v", err)
	}
	if !host.Paired {
		t.Fatal("expected host to be marked paired")
	}

	if err := store.SetPaired("203.0.113.7", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown host, got %v", err)
	}
}

func TestOpenCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	store, dbPath, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	if filepath.Dir(dbPath) != dir {
		t.Fatalf("unexpected db path %q", dbPath)
	}
	if err := store.AddHost(Host{Address: "10.0.0.1", Hostname: "pc"}); err != nil {
		t.Fatalf("AddHost: %v", err)
	}
}
