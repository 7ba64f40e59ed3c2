package prom

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	aerovaldb "github.com/metno/aerovaldb-sub000"
)

func TestAdapterCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := New(reg, "avdb", "cache", nil)

	a.Hit()
	a.Hit()
	a.Miss()
	a.Eviction()

	if got := testutil.ToFloat64(a.hits); got != 2 {
		t.Fatalf("hits %v, want 2", got)
	}
	if got := testutil.ToFloat64(a.misses); got != 1 {
		t.Fatalf("misses %v, want 1", got)
	}
	if got := testutil.ToFloat64(a.evicts); got != 1 {
		t.Fatalf("evictions %v, want 1", got)
	}
}

func TestAdapterWiredToCache(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := New(reg, "avdb", "cache", nil)

	dir := t.TempDir()
	path := filepath.Join(dir, "a.json")
	if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	c := aerovaldb.NewLRUFileCache(4)
	c.SetMetrics(a)
	if _, err := c.Get(path, false); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get(path, false); err != nil {
		t.Fatal(err)
	}

	if got := testutil.ToFloat64(a.misses); got != 1 {
		t.Fatalf("misses %v, want 1", got)
	}
	if got := testutil.ToFloat64(a.hits); got != 1 {
		t.Fatalf("hits %v, want 1", got)
	}
}
