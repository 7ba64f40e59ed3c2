package aerovaldb

import (
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// storagePattern is a route's storage template compiled for reverse
// mapping: each placeholder lazily captures as little as possible, so
// the literal separators of the template decide the split.
type storagePattern struct {
	route Route
	names []string
	re    *regexp.Regexp
}

var (
	storagePatternsOnce sync.Once
	storagePatterns     []storagePattern
)

// compileStoragePatterns compiles every candidate of every route,
// regardless of version bounds: a listing must recognize files written
// by any producer generation.  Routes keep catalog order, so report
// claims its json files before the catch-all report_image pattern sees
// them.
func compileStoragePatterns() {
	for _, route := range allRoutes {
		for _, c := range pathLookup[route] {
			tpl := strings.TrimPrefix(c.template, "./")
			re, names, _ := compileTemplatePattern(tpl, "(.+?)")
			storagePatterns = append(storagePatterns, storagePattern{
				route: route,
				names: names,
				re:    re,
			})
		}
	}
}

// matchStoragePath maps a root-relative file path back to the route and
// key set that would have produced it.  Returns ok false for files no
// template recognizes.
func matchStoragePath(rel string) (route Route, keys map[string]string, ok bool) {
	storagePatternsOnce.Do(compileStoragePatterns)
	for _, p := range storagePatterns {
		m := p.re.FindStringSubmatch(rel)
		if m == nil {
			continue
		}
		keys = make(map[string]string, len(p.names))
		for i, name := range p.names {
			keys[name] = m[i+1]
		}
		return p.route, keys, true
	}
	return "", nil, false
}

// ListAll walks the storage root and returns the canonical URI of every
// recognized asset, sorted.  Files no template recognizes are skipped
// with a debug log line; a storage root can legitimately carry stray
// files (editors, sync tools) that are not assets.
func (db *Db) ListAll() (uris []string, err error) {
	err = filepath.WalkDir(db.Dir, func(path string, d fs.DirEntry, werr error) error {
		if werr != nil {
			return werr
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != db.Dir {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		rel, rerr := filepath.Rel(db.Dir, path)
		if rerr != nil {
			return rerr
		}
		rel = filepath.ToSlash(rel)

		route, keys, ok := matchStoragePath(rel)
		if !ok {
			log.Debugf("skipping unrecognized file %s", rel)
			return nil
		}
		uri, uerr := db.BuildURIFor(route, keys, nil)
		if uerr != nil {
			log.Debugf("skipping %s: %v", rel, uerr)
			return nil
		}
		uris = append(uris, uri)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walk %s", db.Dir)
	}
	sort.Strings(uris)
	return uris, nil
}
