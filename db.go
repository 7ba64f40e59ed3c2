package aerovaldb

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/renameio"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Db is a handle on one storage root.  All reads and writes go through
// route-based addressing; callers never see file paths unless they ask
// for them via ResolvePath.
type Db struct {
	// Dir is the storage root all templates resolve under.
	Dir string

	cache *LRUFileCache
	lock  Lock

	mu       sync.Mutex
	versions map[string]Version
}

// Open returns a handle on the storage root at dir, creating the
// directory if it does not exist.  Locking is selected by the
// AVDB_USE_LOCKING environment variable; with locking off the handle
// carries a fake lock that never blocks.
func Open(dir string) (db *Db, err error) {
	if err = os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "create db dir %s", dir)
	}
	db = &Db{
		Dir:      dir,
		cache:    NewLRUFileCache(DefaultCacheSize),
		versions: make(map[string]Version),
	}
	if lockingEnabled() {
		db.lock, err = NewFileLock(lockFilePath(dir))
		if err != nil {
			return nil, err
		}
	} else {
		db.lock = FakeLock{}
	}
	log.Debugf("opened db at %s", dir)
	return db, nil
}

// Close releases resources held by the handle.  The lock must not be
// held.
func (db *Db) Close() error {
	if fl, ok := db.lock.(*FileLock); ok {
		return fl.Close()
	}
	return nil
}

// Cache exposes the read cache, mainly so callers can install metrics
// or inspect counters.
func (db *Db) Cache() *LRUFileCache {
	return db.cache
}

// Lock returns the handle's advisory lock.
func (db *Db) Lock() Lock {
	return db.lock
}

// WithLock runs fn while holding the advisory lock.  The lock is
// released even if fn fails.
func (db *Db) WithLock(fn func() error) (err error) {
	if err = db.lock.Acquire(); err != nil {
		return err
	}
	defer db.lock.Release()
	return fn()
}

// InvalidateCache drops all cached file content along with the memoized
// producer versions, forcing the next access of each experiment to
// re-probe its config.
func (db *Db) InvalidateCache() {
	db.cache.InvalidateAll()
	db.mu.Lock()
	db.versions = make(map[string]Version)
	db.mu.Unlock()
}

// ProducerVersion returns the producer version in effect for a
// project/experiment pair, as read from the experiment config.
func (db *Db) ProducerVersion(project, experiment string) (Version, error) {
	return db.version(project, experiment)
}

// version returns the producer version in effect for a
// project/experiment pair, memoized for the lifetime of the handle.
// The version lives in the experiment config under
// exp_info.pyaerocom_version; a missing config or missing field yields
// the sentinel version, so pre-versioning data selects the oldest
// layouts.
func (db *Db) version(project, experiment string) (v Version, err error) {
	memoKey := project + "/" + experiment

	db.mu.Lock()
	v, ok := db.versions[memoKey]
	db.mu.Unlock()
	if ok {
		return v, nil
	}

	v, err = db.probeVersion(project, experiment)
	if err != nil {
		return v, err
	}

	db.mu.Lock()
	db.versions[memoKey] = v
	db.mu.Unlock()
	log.Debugf("version for %s is %s", memoKey, v)
	return v, nil
}

func (db *Db) probeVersion(project, experiment string) (v Version, err error) {
	buf, err := db.Get(RouteConfig, Keys("project", project, "experiment", experiment), nil)
	if err != nil {
		if IsNotFound(err) {
			return sentinelVersion, nil
		}
		return v, err
	}
	var cfg struct {
		ExpInfo struct {
			PyaerocomVersion string `json:"pyaerocom_version"`
		} `json:"exp_info"`
	}
	if err = json.Unmarshal(buf, &cfg); err != nil {
		log.Debugf("config for %s/%s is not valid json: %v", project, experiment, err)
		return sentinelVersion, nil
	}
	if cfg.ExpInfo.PyaerocomVersion == "" {
		return sentinelVersion, nil
	}
	v, err = ParseVersion(cfg.ExpInfo.PyaerocomVersion)
	if err != nil {
		log.Debugf("unparseable version in %s/%s config: %v", project, experiment, err)
		return sentinelVersion, nil
	}
	return v, nil
}

// Keys builds a key set from alternating name/value arguments, skipping
// pairs with an empty value so that optional parameters can simply be
// left blank.  Panics on an odd argument count.
func Keys(kv ...string) map[string]string {
	if len(kv)%2 != 0 {
		panic("Keys requires an even number of arguments")
	}
	keys := make(map[string]string, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		if kv[i+1] == "" {
			continue
		}
		keys[kv[i]] = kv[i+1]
	}
	return keys
}

// locate resolves a route and key set to an absolute file path.  Extra
// parameters participate in resolution alongside the positional keys;
// some layouts consume them as placeholders.  Key names that no
// candidate of the route can consume are rejected before any version
// probing or normalization happens.
func (db *Db) locate(route Route, keys, extra map[string]string) (path string, err error) {
	merged := copyKeys(keys)
	for k, v := range extra {
		merged[k] = v
	}

	union := routeKeyUnion(route)
	var unused []string
	for name := range merged {
		if !union[name] {
			unused = append(unused, name)
		}
	}
	if len(unused) > 0 {
		sort.Strings(unused)
		return "", &UnusedArgumentsError{Route: route, Args: unused}
	}

	vp := func() (Version, error) {
		return db.version(merged["project"], merged["experiment"])
	}

	if _, ok := legacyNormalizers[route]; ok {
		version, err := vp()
		if err != nil {
			return "", err
		}
		merged = normalizeKeys(route, merged, version)
	}

	tpl, err := resolveTemplate(route, merged, vp)
	if err != nil {
		return "", err
	}
	rel, err := formatTemplate(tpl, merged)
	if err != nil {
		return "", err
	}
	return filepath.Join(db.Dir, rel), nil
}

// ResolvePath resolves a route and key set to the absolute path of an
// existing asset.  A path whose asset does not exist yields
// NotFoundError; the path a Put would write to can still be obtained
// from the error.
func (db *Db) ResolvePath(route Route, keys, extra map[string]string) (path string, err error) {
	path, err = db.locate(route, keys, extra)
	if err != nil {
		return "", err
	}
	if _, err = os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", &NotFoundError{Path: path}
		}
		return "", errors.Wrapf(err, "stat %s", path)
	}
	return path, nil
}

// Get reads the asset addressed by route and keys, served from the read
// cache when fresh.
func (db *Db) Get(route Route, keys, extra map[string]string) (buf []byte, err error) {
	return db.get(route, keys, extra, false)
}

// GetNoCache reads the asset directly from storage, bypassing the cache
// and leaving its counters untouched.
func (db *Db) GetNoCache(route Route, keys, extra map[string]string) (buf []byte, err error) {
	return db.get(route, keys, extra, true)
}

func (db *Db) get(route Route, keys, extra map[string]string, bypass bool) (buf []byte, err error) {
	path, err := db.locate(route, keys, extra)
	if err != nil {
		return nil, err
	}
	return db.cache.Get(path, bypass)
}

// Put writes content as the asset addressed by route and keys.  The
// write is atomic: readers observe either the previous content or the
// new content, never a partial file.  The cache is primed with the new
// content.
func (db *Db) Put(content []byte, route Route, keys, extra map[string]string) (err error) {
	path, err := db.locate(route, keys, extra)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "create parent dirs for %s", path)
	}
	if err = renameio.WriteFile(path, content, 0644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	log.Debugf("wrote %d bytes to %s", len(content), path)
	return db.cache.Put(content, path)
}

// GetByURI reads the asset addressed by a canonical URI.
func (db *Db) GetByURI(uri string) (buf []byte, err error) {
	route, keys, extra, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	return db.Get(route, keys, extra)
}

// GetByURINoCache reads the asset addressed by a canonical URI,
// bypassing the cache.
func (db *Db) GetByURINoCache(uri string) (buf []byte, err error) {
	route, keys, extra, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	return db.GetNoCache(route, keys, extra)
}

// GetByURIOr reads the asset addressed by uri, returning fallback when
// the asset does not exist.  Other errors are still surfaced.
func (db *Db) GetByURIOr(uri string, fallback []byte) (buf []byte, err error) {
	buf, err = db.GetByURI(uri)
	if err != nil {
		if IsNotFound(err) {
			return fallback, nil
		}
		return nil, err
	}
	return buf, nil
}

// PutByURI writes content as the asset addressed by a canonical URI.
func (db *Db) PutByURI(content []byte, uri string) (err error) {
	route, keys, extra, err := ParseURI(uri)
	if err != nil {
		return err
	}
	return db.Put(content, route, keys, extra)
}

// BuildURIFor builds the canonical URI for a route and key set as this
// handle would address it, splitting off key names that are not URI
// placeholders into the query suffix.
func (db *Db) BuildURIFor(route Route, keys, extra map[string]string) (uri string, err error) {
	template, ok := uriTemplates[route]
	if !ok {
		return "", &TemplateNotFoundError{Route: route}
	}
	want := placeholderSet(template)
	positional := make(map[string]string)
	query := make(map[string]string)
	for k, v := range extra {
		query[k] = v
	}
	for k, v := range keys {
		if want[k] {
			positional[k] = v
		} else {
			query[k] = v
		}
	}
	return BuildURI(route, positional, query)
}
