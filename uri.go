package aerovaldb

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Key-set values may contain the structural path separator, and
// scientific value names may contain literal percent signs, so URIs use
// a private two-character escape scheme instead of standard
// percent-encoding: the escape introducer itself becomes "%0" and the
// separator becomes "%1".
const (
	escapeIntroducer = '%'
	pathSeparator    = '/'
	escapedEscape    = "%0"
	escapedSeparator = "%1"
)

// encodeValue escapes the reserved characters of a key-set value for
// embedding in a URI path segment.
func encodeValue(s string) string {
	s = strings.ReplaceAll(s, string(escapeIntroducer), escapedEscape)
	return strings.ReplaceAll(s, string(pathSeparator), escapedSeparator)
}

// decodeValue reverses encodeValue.  It scans left to right so that an
// encoded escape introducer followed by a literal digit cannot be
// mistaken for an escape sequence.
func decodeValue(s string) (out string, err error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != escapeIntroducer {
			b.WriteByte(s[i])
			continue
		}
		if i+1 >= len(s) {
			return "", fmt.Errorf("truncated escape sequence in %q", s)
		}
		i++
		switch s[i] {
		case '0':
			b.WriteByte(escapeIntroducer)
		case '1':
			b.WriteByte(pathSeparator)
		default:
			return "", fmt.Errorf("unknown escape sequence %%%c in %q", s[i], s)
		}
	}
	return b.String(), nil
}

// BuildURI builds the canonical string identifier for an asset from its
// route, key set and extra non-positional parameters.  Every route
// placeholder must be present in keys; keys that are not placeholders
// are rejected as unused arguments.  Extra parameters travel in the
// query suffix.
func BuildURI(route Route, keys map[string]string, extra map[string]string) (uri string, err error) {
	template, ok := uriTemplates[route]
	if !ok {
		return "", &TemplateNotFoundError{Route: route}
	}

	want := placeholderSet(template)
	var unused []string
	for name := range keys {
		if !want[name] {
			unused = append(unused, name)
		}
	}
	if len(unused) > 0 {
		sort.Strings(unused)
		return "", &UnusedArgumentsError{Route: route, Args: unused}
	}

	encoded := make(map[string]string, len(keys))
	for name, val := range keys {
		encoded[name] = encodeValue(val)
	}
	uri, err = formatTemplate(template, encoded)
	if err != nil {
		return "", err
	}

	if len(extra) > 0 {
		q := url.Values{}
		for k, v := range extra {
			q.Set(k, v)
		}
		uri = uri + "?" + q.Encode()
	}
	return uri, nil
}

// uriPattern is a route's URI template compiled into a capture pattern:
// each placeholder greedily captures the longest run of non-separator
// characters.
type uriPattern struct {
	route Route
	names []string
	re    *regexp.Regexp
	// literals is the number of non-placeholder characters; it ranks
	// matches so the most-constrained template wins regardless of
	// catalog order.
	literals int
}

var (
	uriPatternsOnce sync.Once
	uriPatterns     []uriPattern
)

// compileTemplatePattern turns a template into an anchored regexp where
// every placeholder becomes the given capture group.  Returns the
// pattern, the placeholder names in capture order, and the number of
// literal characters.
func compileTemplatePattern(template, capture string) (re *regexp.Regexp, names []string, literals int) {
	var b strings.Builder
	b.WriteString("^")
	last := 0
	for _, loc := range placeholderPat.FindAllStringSubmatchIndex(template, -1) {
		lit := template[last:loc[0]]
		literals += len(lit)
		b.WriteString(regexp.QuoteMeta(lit))
		b.WriteString(capture)
		names = append(names, template[loc[2]:loc[3]])
		last = loc[1]
	}
	lit := template[last:]
	literals += len(lit)
	b.WriteString(regexp.QuoteMeta(lit))
	b.WriteString("$")
	return regexp.MustCompile(b.String()), names, literals
}

func compileURIPatterns() {
	for _, route := range allRoutes {
		re, names, literals := compileTemplatePattern(uriTemplates[route], "([^/]+)")
		uriPatterns = append(uriPatterns, uriPattern{
			route:    route,
			names:    names,
			re:       re,
			literals: literals,
		})
	}
}

// ParseURI parses a canonical URI back into (route, keys, extra).  All
// routes are evaluated and the structurally matching candidate with the
// most literal text wins, so templates that are prefixes or subsets of
// one another cannot shadow each other by catalog order.
func ParseURI(uri string) (route Route, keys map[string]string, extra map[string]string, err error) {
	uriPatternsOnce.Do(compileURIPatterns)

	path := uri
	query := ""
	if i := strings.Index(uri, "?"); i >= 0 {
		path, query = uri[:i], uri[i+1:]
	}

	best := -1
	for i, p := range uriPatterns {
		m := p.re.FindStringSubmatch(path)
		if m == nil {
			continue
		}
		decoded := make(map[string]string, len(p.names))
		ok := true
		for j, name := range p.names {
			val, derr := decodeValue(m[j+1])
			if derr != nil {
				ok = false
				break
			}
			decoded[name] = val
		}
		if !ok {
			continue
		}
		if best < 0 || p.literals > uriPatterns[best].literals {
			best = i
			keys = decoded
		}
	}
	if best < 0 {
		return "", nil, nil, &MalformedURIError{URI: uri}
	}
	route = uriPatterns[best].route

	extra = map[string]string{}
	if query != "" {
		values, qerr := url.ParseQuery(query)
		if qerr != nil {
			return "", nil, nil, &MalformedURIError{URI: uri}
		}
		for k, vs := range values {
			if len(vs) > 0 {
				extra[k] = vs[0]
			}
		}
	}

	log.Debugf("parsed uri %s as route %s", uri, route)
	return route, keys, extra, nil
}
