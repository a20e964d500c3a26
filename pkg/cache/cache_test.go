package cache

import (
	"context"
	"testing"
	"time"
)

func TestFileCacheRoundTrip(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Errorf("Get(missing) = hit %v, err %v; want miss, nil", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("artifact"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit {
		t.Fatalf("Get(k) = hit %v, err %v; want hit", hit, err)
	}
	if string(data) != "artifact" {
		t.Errorf("Get(k) = %q, want %q", data, "artifact")
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted key should miss")
	}

	// Deleting again is not an error.
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of missing key error: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Millisecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, hit, err := c.Get(ctx, "k"); err != nil || hit {
		t.Errorf("expired entry: hit %v, err %v; want miss, nil", hit, err)
	}
}

func TestNullCache(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, err := c.Get(ctx, "k"); err != nil || hit {
		t.Errorf("null cache should always miss: hit %v, err %v", hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close error: %v", err)
	}
}

func TestHashDeterministic(t *testing.T) {
	a := Hash([]byte("plan"))
	b := Hash([]byte("plan"))
	if a != b {
		t.Error("Hash should be deterministic")
	}
	if len(a) != 64 {
		t.Errorf("Hash length = %d, want 64", len(a))
	}
	if a == Hash([]byte("other")) {
		t.Error("different inputs should hash differently")
	}
}

func TestKeyerSeparatesOptions(t *testing.T) {
	k := NewDefaultKeyer()

	base := ViewKeyOpts{Ncol: 2, Sync: "all"}
	same := k.ViewKey("src", base)
	if same != k.ViewKey("src", base) {
		t.Error("identical inputs should produce identical keys")
	}

	variants := []ViewKeyOpts{
		{Ncol: 3, Sync: "all"},
		{Ncol: 2, Sync: "none"},
		{Ncol: 2, Sync: "all", SyncCursor: true},
		{Ncol: 2, Sync: "all", NoInitialSync: true},
		{Ncol: 2, Sync: "all", Title: "named"},
	}
	for _, v := range variants {
		if k.ViewKey("src", v) == same {
			t.Errorf("options %+v should change the view key", v)
		}
	}
	if k.ViewKey("other", base) == same {
		t.Error("source hash should change the view key")
	}

	if k.ArtifactKey(same, "html") == k.ArtifactKey(same, "svg") {
		t.Error("format should change the artifact key")
	}
	if k.ArtifactKey(same, "html") == k.ArtifactKey(k.ViewKey("other", base), "html") {
		t.Error("view key should change the artifact key")
	}
}
