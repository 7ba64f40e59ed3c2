package aerovaldb

import (
	"fmt"
	"regexp"
	"strconv"
)

// Version is the semantic version of the producer tool that wrote one
// project/experiment's files.  It selects among historically
// incompatible on-disk layouts.
type Version struct {
	Major int
	Minor int
	Patch int
}

// sentinelVersion is assumed when no version marker can be found in the
// experiment config.
var sentinelVersion = Version{0, 0, 1}

// versionPat tolerates suffixes like "0.25.0.dev1" by only requiring a
// leading numeric triple (patch optional).
var versionPat = regexp.MustCompile(`^(\d+)\.(\d+)(?:\.(\d+))?`)

// ParseVersion parses a producer version string such as "0.13.2".
func ParseVersion(s string) (v Version, err error) {
	m := versionPat.FindStringSubmatch(s)
	if m == nil {
		return v, fmt.Errorf("malformed version string: %q", s)
	}
	v.Major, _ = strconv.Atoi(m[1])
	v.Minor, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		v.Patch, _ = strconv.Atoi(m[3])
	}
	return v, nil
}

// mustVersion is used for the static catalog bounds, which are known
// good at compile time.
func mustVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Cmp returns -1, 0 or 1 as v is less than, equal to or greater than o.
func (v Version) Cmp(o Version) int {
	pairs := [3][2]int{
		{v.Major, o.Major},
		{v.Minor, o.Minor},
		{v.Patch, o.Patch},
	}
	for _, p := range pairs {
		if p[0] < p[1] {
			return -1
		}
		if p[0] > p[1] {
			return 1
		}
	}
	return 0
}

// Less reports whether v orders strictly before o.
func (v Version) Less(o Version) bool {
	return v.Cmp(o) < 0
}
