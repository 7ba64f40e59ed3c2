package aerovaldb

import (
	"os"
	"testing"
	"time"
)

func TestWatchInvalidates(t *testing.T) {
	db := opentmp(t)
	defer db.Close()

	err := db.PutMenu([]byte(`{"v": 1}`), "p", "e")
	tassert(t, err == nil, "put: %v", err)
	// warm the cache
	_, err = db.GetMenu("p", "e")
	tassert(t, err == nil, "get: %v", err)
	tassert(t, db.Cache().Size() == 1, "size %d", db.Cache().Size())

	w, err := db.Watch()
	tassert(t, err == nil, "watch: %v", err)
	defer w.Close()

	// overwrite behind the handle's back
	path, err := db.ResolvePath(RouteMenu, Keys("project", "p", "experiment", "e"), nil)
	tassert(t, err == nil, "resolve: %v", err)
	err = os.WriteFile(path, []byte(`{"v": 2}`), 0644)
	tassert(t, err == nil, "write: %v", err)

	// event delivery is asynchronous
	deadline := time.Now().Add(5 * time.Second)
	for db.Cache().Size() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("cache entry not invalidated")
		}
		time.Sleep(10 * time.Millisecond)
	}

	got, err := db.GetMenu("p", "e")
	tassert(t, err == nil, "get: %v", err)
	tassert(t, string(got) == `{"v": 2}`, "got %q", got)
}
