package aerovaldb

import (
	"errors"
	"testing"
)

func staticVersion(s string) versionProvider {
	v := mustVersion(s)
	return func() (Version, error) { return v, nil }
}

func TestResolveTemplateVersionGating(t *testing.T) {
	newKeys := Keys("project", "p", "experiment", "e", "network", "n",
		"obsvar", "o", "layer", "l", "model", "m", "modvar", "mv", "time", "2010")
	oldKeys := Keys("project", "p", "experiment", "e", "network", "n",
		"obsvar", "o", "layer", "l", "model", "m", "modvar", "mv")

	tpl, err := resolveTemplate(RouteMap, newKeys, staticVersion("0.25.0"))
	tassert(t, err == nil, "resolve: %v", err)
	tassert(t, tpl == "./{project}/{experiment}/map/{network}-{obsvar}_{layer}_{model}-{modvar}_{time}.json",
		"tpl %s", tpl)

	tpl, err = resolveTemplate(RouteMap, oldKeys, staticVersion("0.10.0"))
	tassert(t, err == nil, "resolve: %v", err)
	tassert(t, tpl == "./{project}/{experiment}/map/{network}-{obsvar}_{layer}_{model}-{modvar}.json",
		"tpl %s", tpl)

	// old producer cannot consume a time key
	_, err = resolveTemplate(RouteMap, newKeys, staticVersion("0.10.0"))
	var tnf *TemplateNotFoundError
	tassert(t, errors.As(err, &tnf), "want TemplateNotFoundError, got %v", err)

	// new producer requires one
	_, err = resolveTemplate(RouteMap, oldKeys, staticVersion("0.25.0"))
	tassert(t, errors.As(err, &tnf), "want TemplateNotFoundError, got %v", err)
}

func TestResolveTemplateExactKeyMatch(t *testing.T) {
	// missing keys disqualify a candidate just like extra ones
	_, err := resolveTemplate(RouteMenu, Keys("project", "p"), staticVersion("0.25.0"))
	var tnf *TemplateNotFoundError
	tassert(t, errors.As(err, &tnf), "want TemplateNotFoundError, got %v", err)
}

func TestResolveTemplateLazyVersion(t *testing.T) {
	// unbounded candidates must never trigger a version lookup; the
	// config route depends on this to avoid probing itself
	probed := false
	vp := func() (Version, error) {
		probed = true
		return sentinelVersion, nil
	}
	_, err := resolveTemplate(RouteConfig, Keys("project", "p", "experiment", "e"), vp)
	tassert(t, err == nil, "resolve: %v", err)
	tassert(t, !probed, "version provider invoked for unbounded route")
}

func TestResolveTemplateModelsStylePriority(t *testing.T) {
	tpl, err := resolveTemplate(RouteModelsStyle,
		Keys("project", "p", "experiment", "e"), staticVersion("0.25.0"))
	tassert(t, err == nil, "resolve: %v", err)
	tassert(t, tpl == "./{project}/{experiment}/models-style.json", "tpl %s", tpl)

	tpl, err = resolveTemplate(RouteModelsStyle,
		Keys("project", "p"), staticVersion("0.25.0"))
	tassert(t, err == nil, "resolve: %v", err)
	tassert(t, tpl == "./{project}/models-style.json", "tpl %s", tpl)
}

func TestHeatmapTimeseriesBrackets(t *testing.T) {
	full := Keys("project", "p", "experiment", "e", "region", "r",
		"network", "n", "obsvar", "o", "layer", "l")
	noRegion := Keys("project", "p", "experiment", "e",
		"network", "n", "obsvar", "o", "layer", "l")
	bare := Keys("project", "p", "experiment", "e")

	tpl, err := resolveTemplate(RouteHeatmapTimeseries, full, staticVersion("0.26.0"))
	tassert(t, err == nil, "resolve: %v", err)
	tassert(t, tpl == "./{project}/{experiment}/hm/ts/{region}-{network}-{obsvar}-{layer}.json",
		"tpl %s", tpl)

	tpl, err = resolveTemplate(RouteHeatmapTimeseries, noRegion, staticVersion("0.13.0"))
	tassert(t, err == nil, "resolve: %v", err)
	tassert(t, tpl == "./{project}/{experiment}/hm/ts/{network}-{obsvar}-{layer}.json",
		"tpl %s", tpl)

	tpl, err = resolveTemplate(RouteHeatmapTimeseries, bare, staticVersion("0.11.0"))
	tassert(t, err == nil, "resolve: %v", err)
	tassert(t, tpl == "./{project}/{experiment}/hm/ts/stats_ts.json", "tpl %s", tpl)
}

func TestRouteKeyUnion(t *testing.T) {
	union := routeKeyUnion(RouteMap)
	for _, name := range []string{"project", "experiment", "network", "obsvar",
		"layer", "model", "modvar", "time"} {
		tassert(t, union[name], "union missing %s", name)
	}
	tassert(t, !union["bogus"], "union has bogus")

	// every route has at least one candidate
	for _, route := range allRoutes {
		tassert(t, len(pathLookup[route]) > 0, "route %s has no candidates", route)
		tassert(t, len(routeKeyUnion(route)) > 0, "route %s has no keys", route)
	}
}

func TestFormatTemplate(t *testing.T) {
	s, err := formatTemplate("./{project}/{experiment}/menu.json",
		Keys("project", "p", "experiment", "e", "ignored", "x"))
	tassert(t, err == nil, "format: %v", err)
	tassert(t, s == "./p/e/menu.json", "got %s", s)

	_, err = formatTemplate("./{project}/menu.json", Keys())
	tassert(t, err != nil, "want missing key error")
}
