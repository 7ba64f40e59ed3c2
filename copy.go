package aerovaldb

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/pkg/fileutils"
	log "github.com/sirupsen/logrus"
)

// binaryRoutes are copied byte for byte instead of going through the
// read cache.
var binaryRoutes = map[Route]bool{
	RouteReportImage: true,
	RouteMapOverlay:  true,
}

// Copy replicates every asset under srcDir into dstDir, which must be
// empty.  Config assets are written first so that the destination
// resolves later writes under the same producer version as the source;
// destination paths are version-dependent, and the version is read from
// config.
func Copy(srcDir, dstDir string) (n int, err error) {
	src, err := Open(srcDir)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	empty, err := dirEmpty(dstDir)
	if err != nil {
		return 0, err
	}
	if !empty {
		return 0, errors.Errorf("destination %s is not empty", dstDir)
	}
	dst, err := Open(dstDir)
	if err != nil {
		return 0, err
	}
	defer dst.Close()

	uris, err := src.ListAll()
	if err != nil {
		return 0, err
	}

	// Two passes: configs first, then everything else.
	ordered := make([]string, 0, len(uris))
	for _, uri := range uris {
		if route, _, _, perr := ParseURI(uri); perr == nil && route == RouteConfig {
			ordered = append(ordered, uri)
		}
	}
	for _, uri := range uris {
		if route, _, _, perr := ParseURI(uri); perr == nil && route != RouteConfig {
			ordered = append(ordered, uri)
		}
	}

	for _, uri := range ordered {
		if err = copyOne(src, dst, uri); err != nil {
			return n, errors.Wrapf(err, "copy %s", uri)
		}
		n++
	}

	got, err := dst.ListAll()
	if err != nil {
		return n, err
	}
	if len(got) != len(uris) {
		return n, errors.Errorf("copy incomplete: %d of %d assets arrived", len(got), len(uris))
	}
	log.Debugf("copied %d assets from %s to %s", n, srcDir, dstDir)
	return n, nil
}

func copyOne(src, dst *Db, uri string) (err error) {
	route, keys, extra, err := ParseURI(uri)
	if err != nil {
		return err
	}
	if binaryRoutes[route] {
		srcPath, err := src.ResolvePath(route, keys, extra)
		if err != nil {
			return err
		}
		dstPath, err := dst.locate(route, keys, extra)
		if err != nil {
			return err
		}
		if err = os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
			return errors.Wrapf(err, "create parent dirs for %s", dstPath)
		}
		return fileutils.CopyFile(dstPath, srcPath)
	}
	buf, err := src.GetNoCache(route, keys, extra)
	if err != nil {
		return err
	}
	return dst.Put(buf, route, keys, extra)
}

// dirEmpty reports whether dir has no entries.  A directory that does
// not exist yet counts as empty.
func dirEmpty(dir string) (empty bool, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, errors.Wrapf(err, "read dir %s", dir)
	}
	return len(entries) == 0, nil
}
